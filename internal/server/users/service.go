// Package users implements the user record CRUD of the reference backend.
package users

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/filex"
	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/dmitrijs2005/useradmin/internal/server/attachments"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// Upload is one file part of a create or update request.
type Upload struct {
	Filename string
	Body     io.ReadSeeker
}

// Input is the multipart payload of POST /user and PUT /user/{id}. Nil
// uploads leave the stored attachment alone.
type Input struct {
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	PhoneNumber     string  `json:"phone_number"`
	ProfilePic      *Upload `json:"-"`
	DescriptionFile *Upload `json:"-"`
}

func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Address, validation.Required),
		validation.Field(&in.PhoneNumber, validation.Required),
	)
}

type Service struct {
	repo        Repository
	storage     attachments.Storage
	uniqueNames bool
	logger      logging.Logger
	now         func() time.Time
}

func NewService(repo Repository, storage attachments.Storage, uniqueNames bool, logger logging.Logger) *Service {
	return &Service{
		repo:        repo,
		storage:     storage,
		uniqueNames: uniqueNames,
		logger:      logger.With("module", "users"),
		now:         time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Create validates in, stores its attachments and inserts the record.
func (s *Service) Create(ctx context.Context, in Input) (*User, error) {
	in = trimmed(in)
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, err.Error())
	}

	u := &User{
		Name:        in.Name,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.storeAttachments(ctx, u, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "id", u.ID)
	return u, nil
}

// Update overwrites the scalar fields of record id and replaces only the
// attachments present in in.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in = trimmed(in)
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, err.Error())
	}

	u.Name = in.Name
	u.Address = in.Address
	u.PhoneNumber = in.PhoneNumber
	if err := s.storeAttachments(ctx, u, in); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user updated", "id", id)
	return u, nil
}

// Delete removes record id. Stored attachments are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "user deleted", "id", id)
	return nil
}

func (s *Service) storeAttachments(ctx context.Context, u *User, in Input) error {
	parts := []struct {
		kind   attachments.Kind
		upload *Upload
		dst    *string
	}{
		{attachments.KindPhoto, in.ProfilePic, &u.ProfilePic},
		{attachments.KindDocument, in.DescriptionFile, &u.DescriptionFile},
	}

	for _, p := range parts {
		if p.upload == nil {
			continue
		}
		name, err := s.storedName(p.upload.Filename)
		if err != nil {
			return err
		}
		if err := s.storage.Save(ctx, p.kind, name, p.upload.Body); err != nil {
			return fmt.Errorf("store %s: %w", p.kind, err)
		}
		*p.dst = name
	}
	return nil
}

// storedName sanitises an uploaded file name and, with unique names on,
// prefixes it with a uuid.
func (s *Service) storedName(filename string) (string, error) {
	name, ok := filex.SafeName(filename)
	if !ok {
		return "", fmt.Errorf("%w: invalid file name %q", common.ErrorValidation, filename)
	}
	if s.uniqueNames {
		name = uuid.NewString() + "_" + name
	}
	return name, nil
}

func trimmed(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	return in
}
