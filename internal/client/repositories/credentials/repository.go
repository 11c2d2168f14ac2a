// Package credentials persists the console's access token between runs.
package credentials

import "context"

// Repository holds at most one opaque token. Read reports ok=false with a nil
// error when nothing is stored.
type Repository interface {
	Store(ctx context.Context, token string) error
	Read(ctx context.Context) (token string, ok bool, err error)
	Clear(ctx context.Context) error
}
