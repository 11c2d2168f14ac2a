package credentials

import (
	"context"
	"sync"
)

type MemoryRepository struct {
	mu     sync.Mutex
	token  string
	stored bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Store(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token, r.stored = token, true
	return nil
}

func (r *MemoryRepository) Read(_ context.Context) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token, r.stored, nil
}

func (r *MemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token, r.stored = "", false
	return nil
}
