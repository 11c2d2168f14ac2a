package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client sends one request to the backend. path is relative to the base URL
// and body may be nil.
type Client interface {
	Do(ctx context.Context, method, path string, body Payload) (*Response, error)
	BaseURL() string
}

// TokenReader is the read side of the credential store.
type TokenReader interface {
	Read(ctx context.Context) (string, bool, error)
}

// Response is a completed 2xx exchange.
type Response struct {
	Status int
	Header http.Header
	Data   []byte
}

func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// HeaderScheme selects how the credential travels on the wire.
type HeaderScheme string

const (
	// SchemeBearer sends "Authorization: Bearer <token>".
	SchemeBearer HeaderScheme = "bearer"
	// SchemeLegacy sends "x-access-tokens: <token>".
	SchemeLegacy HeaderScheme = "legacy"
)

func ParseHeaderScheme(s string) (HeaderScheme, error) {
	switch HeaderScheme(s) {
	case SchemeBearer, "":
		return SchemeBearer, nil
	case SchemeLegacy:
		return SchemeLegacy, nil
	default:
		return "", fmt.Errorf("unknown header scheme %q", s)
	}
}
