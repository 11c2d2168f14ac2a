package accounts

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/useradmin/internal/common"
)

type Repository interface {
	// Create stores a and assigns its ID. Logins are unique, case-insensitively.
	Create(ctx context.Context, a *Account) error
	GetByLogin(ctx context.Context, login string) (*Account, error)
}

// MemoryRepository keeps accounts in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byLogin map[string]*Account
	nextID  int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byLogin: make(map[string]*Account), nextID: 1}
}

func loginKey(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

func (r *MemoryRepository) Create(ctx context.Context, a *Account) error {
	key := loginKey(a.Login)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byLogin[key]; exists {
		return common.ErrorAlreadyExists
	}

	stored := *a
	stored.ID = r.nextID
	r.nextID++
	r.byLogin[key] = &stored

	a.ID = stored.ID
	return nil
}

func (r *MemoryRepository) GetByLogin(ctx context.Context, login string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byLogin[loginKey(login)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *a
	return &out, nil
}
