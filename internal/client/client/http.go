package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

type HTTPClient struct {
	baseURL string
	tokens  TokenReader
	scheme  HeaderScheme
	hc      *http.Client
	logger  logging.Logger
}

type Option func(*HTTPClient)

func WithHeaderScheme(s HeaderScheme) Option {
	return func(c *HTTPClient) { c.scheme = s }
}

// WithTimeout bounds each request end to end.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.hc.Timeout = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.hc = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient builds a transport for baseURL. tokens may be nil, in which
// case no credential is ever attached.
func NewHTTPClient(baseURL string, tokens TokenReader, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		scheme:  SchemeBearer,
		hc:      &http.Client{Timeout: 10 * time.Second},
		logger:  logging.Nop{},
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("module", "transport")
	return c
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) Do(ctx context.Context, method, path string, body Payload) (*Response, error) {
	op := method + " " + path

	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		ct, r, err := body.Encode()
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader, contentType = r, ct
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if err := c.attachToken(ctx, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	started := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "op", op, "error", err)
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	c.logger.Debug(ctx, "request served", "op", op, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: data}
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Data: data}, nil
}

func (c *HTTPClient) attachToken(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return nil
	}

	token, ok, err := c.tokens.Read(ctx)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	switch c.scheme {
	case SchemeLegacy:
		req.Header.Set(common.LegacyTokenHeaderName, token)
	default:
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	return nil
}
