// Package attachments stores the profile pictures and description files of
// user records and tells the HTTP layer how to hand them back out.
package attachments

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/useradmin/internal/common"
)

// Kind selects the attachment namespace. Its value is the URL segment under
// /uploads/.
type Kind string

const (
	KindPhoto    Kind = "photos"
	KindDocument Kind = "docs"
)

// ParseKind maps a URL segment onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPhoto, KindDocument:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown attachment kind %q", common.ErrorNotFound, s)
	}
}

// Location says where a stored attachment can be read from: a local Path to
// serve directly, or a URL to redirect to.
type Location struct {
	Path string
	URL  string
}

type Storage interface {
	// Save stores body under kind/name, replacing any previous object. name
	// must already be a bare file name.
	Save(ctx context.Context, kind Kind, name string, body io.ReadSeeker) error
	// Locate returns common.ErrorNotFound for unknown objects.
	Locate(ctx context.Context, kind Kind, name string) (Location, error)
}
