package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

type call struct {
	Method string
	Path   string
	Body   client.Payload
}

// fakeClient implements client.Client. Responses are produced by handle;
// every call is recorded.
type fakeClient struct {
	mu     sync.Mutex
	calls  []call
	handle func(method, path string, body client.Payload) (*client.Response, error)
}

func (f *fakeClient) Do(ctx context.Context, method, path string, body client.Payload) (*client.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})
	h := f.handle
	f.mu.Unlock()

	if h == nil {
		return &client.Response{Status: 200, Data: []byte(`{}`)}, nil
	}
	return h(method, path, body)
}

func (f *fakeClient) BaseURL() string { return "http://admin.test" }

func (f *fakeClient) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func ok(body string) (*client.Response, error) {
	return &client.Response{Status: 200, Data: []byte(body)}, nil
}

type staticSession struct {
	s models.Session
}

func (f staticSession) Current() models.Session { return f.s }

var authenticated = staticSession{s: models.Session{State: models.SessionAuthenticated, DisplayName: "user"}}

type failingStore struct {
	err error
}

func (f failingStore) Store(context.Context, string) error { return f.err }
func (f failingStore) Read(context.Context) (string, bool, error) {
	return "", false, f.err
}
func (f failingStore) Clear(context.Context) error { return f.err }
