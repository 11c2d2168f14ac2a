package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/filex"
)

// FSStorage keeps attachments under <root>/photos and <root>/docs.
type FSStorage struct {
	root string
}

func NewFSStorage(dir string) (*FSStorage, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	for _, k := range []Kind{KindPhoto, KindDocument} {
		if _, err := filex.EnsureDir(filepath.Join(root, string(k))); err != nil {
			return nil, fmt.Errorf("upload dir: %w", err)
		}
	}
	return &FSStorage{root: root}, nil
}

func (s *FSStorage) path(kind Kind, name string) (string, error) {
	safe, ok := filex.SafeName(name)
	if !ok || safe != name {
		return "", fmt.Errorf("%w: invalid file name %q", common.ErrorValidation, name)
	}
	return filepath.Join(s.root, string(kind), safe), nil
}

// Save writes to a temporary file first and renames it into place.
func (s *FSStorage) Save(ctx context.Context, kind Kind, name string, body io.ReadSeeker) error {
	dst, err := s.path(kind, name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("save attachment: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("save attachment: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save attachment: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("save attachment: %w", err)
	}
	return nil
}

func (s *FSStorage) Locate(ctx context.Context, kind Kind, name string) (Location, error) {
	p, err := s.path(kind, name)
	if err != nil {
		return Location{}, common.ErrorNotFound
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Location{}, common.ErrorNotFound
		}
		return Location{}, fmt.Errorf("locate attachment: %w", err)
	}
	if info.IsDir() {
		return Location{}, common.ErrorNotFound
	}
	return Location{Path: p}, nil
}
