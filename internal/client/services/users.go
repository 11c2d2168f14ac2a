package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

// AttachmentKind names the two upload folders exposed under /uploads.
type AttachmentKind string

const (
	AttachmentPhoto    AttachmentKind = "photos"
	AttachmentDocument AttachmentKind = "docs"
)

// SessionReader is the view of the session the synchronizer needs.
type SessionReader interface {
	Current() models.Session
}

// UserService keeps the local copy of the user collection in step with the
// server. Every successful write is followed by a full re-fetch; the local
// list is never patched in place.
type UserService struct {
	client  client.Client
	session SessionReader
	logger  logging.Logger

	mu      sync.RWMutex
	records []models.UserRecord
}

func NewUserService(c client.Client, session SessionReader, logger logging.Logger) *UserService {
	return &UserService{
		client:  c,
		session: session,
		logger:  logger.With("module", "users"),
	}
}

// Records returns a copy of the last fetched collection.
func (s *UserService) Records() []models.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Find looks a record up by id in the local collection.
func (s *UserService) Find(id int64) (models.UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.UserRecord{}, false
}

// Reset drops the local collection, e.g. after logout.
func (s *UserService) Reset() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
}

func (s *UserService) guard() error {
	if !s.session.Current().Authenticated() {
		return client.ErrNotAuthenticated
	}
	return nil
}

// List fetches GET /users and replaces the local collection with the result
// in server order. Overlapping calls are not serialised: whichever response
// resolves last is what Records reports.
func (s *UserService) List(ctx context.Context) ([]models.UserRecord, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	resp, err := s.client.Do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var records []models.UserRecord
	if err := resp.DecodeJSON(&records); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if records == nil {
		records = []models.UserRecord{}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	s.logger.Debug(ctx, "collection refreshed", "count", len(records))
	return s.Records(), nil
}

func (s *UserService) Create(ctx context.Context, draft models.Draft) error {
	if err := s.guard(); err != nil {
		return err
	}

	if _, err := s.client.Do(ctx, http.MethodPost, "/user", draftPayload(draft)); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	s.logger.Info(ctx, "user created", "name", draft.Name)

	return s.refresh(ctx, "create")
}

// Update sends PUT /user/{id}. File handles left nil are omitted, so the
// stored attachments are kept.
func (s *UserService) Update(ctx context.Context, id int64, draft models.Draft) error {
	if err := s.guard(); err != nil {
		return err
	}

	if _, err := s.client.Do(ctx, http.MethodPut, userPath(id), draftPayload(draft)); err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	s.logger.Info(ctx, "user updated", "id", id)

	return s.refresh(ctx, "update")
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.guard(); err != nil {
		return err
	}

	if _, err := s.client.Do(ctx, http.MethodDelete, userPath(id), nil); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.logger.Info(ctx, "user deleted", "id", id)

	return s.refresh(ctx, "delete")
}

func (s *UserService) refresh(ctx context.Context, op string) error {
	if _, err := s.List(ctx); err != nil {
		s.logger.Warn(ctx, "refresh after write failed", "op", op, "error", err)
		return fmt.Errorf("refresh after %s: %w", op, err)
	}
	return nil
}

// AttachmentURL builds the public link of an uploaded file. An empty
// filename yields "".
func (s *UserService) AttachmentURL(kind AttachmentKind, filename string) string {
	if filename == "" {
		return ""
	}
	return s.client.BaseURL() + "/uploads/" + string(kind) + "/" + url.PathEscape(filename)
}

func userPath(id int64) string {
	return "/user/" + strconv.FormatInt(id, 10)
}

func draftPayload(d models.Draft) *client.MultipartPayload {
	return client.NewMultipart().
		Field("name", d.Name).
		Field("address", d.Address).
		Field("phone_number", d.PhoneNumber).
		File("profile_pic", d.ProfilePic).
		File("description_file", d.DescriptionFile)
}
