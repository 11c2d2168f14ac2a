// Package accounts implements registration, login and the seeded reference
// account of the reference backend.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/dmitrijs2005/useradmin/internal/server/auth"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/crypto/bcrypt"
)

// defaultRegion is used to parse phone numbers written without a country code.
const defaultRegion = "US"

var hashPassword = func(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

type Service struct {
	repo      Repository
	tokens    *auth.TokenManager
	logger    logging.Logger
	reference Reference
	now       func() time.Time
}

func NewService(repo Repository, tokens *auth.TokenManager, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		logger: logger.With("module", "accounts"),
		now:    time.Now,
	}
}

func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Address, validation.Required),
		validation.Field(&r.PhoneNumber, validation.Required),
	)
}

// NormalizePhone formats raw as E.164 when it parses as a valid number and
// returns it trimmed otherwise.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// Register validates in and stores a new account. Validation failures wrap
// common.ErrorValidation; a taken e-mail returns common.ErrorAlreadyExists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)

	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, err.Error())
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &Account{
		Login:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Address:      in.Address,
		PhoneNumber:  NormalizePhone(in.PhoneNumber),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "id", a.ID)
	return a, nil
}

// SeedReference creates the reference account and remembers its plain
// credentials for References. Seeding twice is an error.
func (s *Service) SeedReference(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: reference credentials must not be empty", common.ErrorValidation)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.Create(ctx, &Account{
		Login:        username,
		Name:         username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("seed reference account: %w", err)
	}

	s.reference = Reference{Username: username, Password: password}
	return nil
}

// References lists the bootstrap credentials, empty before SeedReference.
func (s *Service) References() []Reference {
	if s.reference.Username == "" {
		return []Reference{}
	}
	return []Reference{s.reference}
}

// Login checks the credentials and issues a token. Unknown logins and wrong
// passwords both return common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {
	a, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(a.Login)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "login", "id", a.ID)
	return token, nil
}

// Logout revokes token.
func (s *Service) Logout(ctx context.Context, token string) {
	s.tokens.Revoke(token)
}

// Authenticate returns the account name a valid token was issued for.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
