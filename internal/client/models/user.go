// Package models defines the client-side data shapes exchanged with the
// admin backend and held by the console.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/common"
)

// UserRecord is one managed user as returned by GET /users.
type UserRecord struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	PhoneNumber     string    `json:"phone_number"`
	ProfilePic      string    `json:"profile_pic"`
	DescriptionFile string    `json:"description_file"`
	CreatedAt       Timestamp `json:"created_at"`
}

// Timestamp decodes the backend's "2006-01-02 15:04:05" rendering as well as
// RFC 3339. Null and empty strings decode to the zero time.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(common.TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{common.TimestampLayout, time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

// FileHandle is a named binary the user picked for upload. Open is called
// once per request that carries the file.
type FileHandle struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileFromPath returns a handle reading the local file at path. The file is
// not touched until Open is called.
func FileFromPath(path string) *FileHandle {
	return &FileHandle{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// FileFromBytes returns a handle over an in-memory payload.
func FileFromBytes(name string, data []byte) *FileHandle {
	return &FileHandle{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Draft is the payload of a create or update. Nil file handles mean
// "not selected".
type Draft struct {
	Name            string
	Address         string
	PhoneNumber     string
	ProfilePic      *FileHandle
	DescriptionFile *FileHandle
}
