package services

import (
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"sync"
	"testing"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/stretchr/testify/require"
)

func newUsers(c client.Client, s SessionReader) *UserService {
	return NewUserService(c, s, logging.Nop{})
}

func partNames(t *testing.T, p client.Payload) []string {
	t.Helper()
	ct, body, err := p.Encode()
	require.NoError(t, err)
	_, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)

	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)

	var names []string
	for _, n := range []string{"name", "address", "phone_number"} {
		if _, ok := form.Value[n]; ok {
			names = append(names, n)
		}
	}
	for _, n := range []string{"profile_pic", "description_file"} {
		if _, ok := form.File[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

func annDraft() models.Draft {
	return models.Draft{
		Name:            "Ann",
		Address:         "1 Oak St",
		PhoneNumber:     "555-0100",
		ProfilePic:      models.FileFromBytes("a.png", []byte("A")),
		DescriptionFile: models.FileFromBytes("b.pdf", []byte("B")),
	}
}

func TestUsers_NotAuthenticated_NoNetwork(t *testing.T) {
	fc := &fakeClient{}
	s := newUsers(fc, staticSession{s: models.Session{State: models.SessionUnauthenticated}})
	ctx := context.Background()

	_, err := s.List(ctx)
	require.ErrorIs(t, err, client.ErrNotAuthenticated)
	require.ErrorIs(t, s.Create(ctx, annDraft()), client.ErrNotAuthenticated)
	require.ErrorIs(t, s.Update(ctx, 1, annDraft()), client.ErrNotAuthenticated)
	require.ErrorIs(t, s.Delete(ctx, 1), client.ErrNotAuthenticated)

	var ae *client.AuthError
	require.ErrorAs(t, s.Delete(ctx, 1), &ae)

	require.Empty(t, fc.Calls())
}

func TestUsers_AuthenticatingIsNotEnough(t *testing.T) {
	fc := &fakeClient{}
	s := newUsers(fc, staticSession{s: models.Session{State: models.SessionAuthenticating}})

	_, err := s.List(context.Background())
	require.ErrorIs(t, err, client.ErrNotAuthenticated)
	require.Empty(t, fc.Calls())
}

func TestUsers_ListReplacesCollectionInServerOrder(t *testing.T) {
	body := `[{"id":3,"name":"C"},{"id":1,"name":"A"},{"id":2,"name":"B"}]`
	fc := &fakeClient{handle: func(string, string, client.Payload) (*client.Response, error) { return ok(body) }}
	s := newUsers(fc, authenticated)

	got, err := s.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1, 2}, ids(got))
	require.Equal(t, []int64{3, 1, 2}, ids(s.Records()))

	c := fc.Calls()[0]
	require.Equal(t, http.MethodGet, c.Method)
	require.Equal(t, "/users", c.Path)
	require.Nil(t, c.Body)
}

func TestUsers_ListEmptyAndNull(t *testing.T) {
	for _, body := range []string{`[]`, `null`} {
		fc := &fakeClient{handle: func(string, string, client.Payload) (*client.Response, error) { return ok(body) }}
		s := newUsers(fc, authenticated)

		got, err := s.List(context.Background())
		require.NoError(t, err)
		require.Empty(t, got)
		require.NotNil(t, s.Records())
	}
}

func TestUsers_Create_AnnScenario(t *testing.T) {
	fc := &fakeClient{handle: func(method, path string, _ client.Payload) (*client.Response, error) {
		if method == http.MethodPost {
			return &client.Response{Status: http.StatusCreated, Data: []byte(`{"id":1}`)}, nil
		}
		return ok(`[{"id":1,"name":"Ann","address":"1 Oak St","phone_number":"555-0100","profile_pic":"a.png","description_file":"b.pdf"}]`)
	}}
	s := newUsers(fc, authenticated)

	require.NoError(t, s.Create(context.Background(), annDraft()))

	recs := s.Records()
	require.Len(t, recs, 1)
	require.Equal(t, int64(1), recs[0].ID)
	require.Equal(t, "Ann", recs[0].Name)

	calls := fc.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, "/user", calls[0].Path)
	require.Equal(t, []string{"name", "address", "phone_number", "profile_pic", "description_file"}, partNames(t, calls[0].Body))
	require.Equal(t, "/users", calls[1].Path)
}

func TestUsers_EveryWriteRefetches(t *testing.T) {
	lists := 0
	fc := &fakeClient{handle: func(method, path string, _ client.Payload) (*client.Response, error) {
		if method == http.MethodGet {
			lists++
		}
		return ok(`[]`)
	}}
	s := newUsers(fc, authenticated)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, annDraft()))
	require.NoError(t, s.Update(ctx, 7, annDraft()))
	require.NoError(t, s.Delete(ctx, 7))
	require.Equal(t, 3, lists)

	calls := fc.Calls()
	require.Equal(t, http.MethodPut, calls[2].Method)
	require.Equal(t, "/user/7", calls[2].Path)
	require.Equal(t, http.MethodDelete, calls[4].Method)
	require.Equal(t, "/user/7", calls[4].Path)
	require.Nil(t, calls[4].Body)
}

func TestUsers_UpdateOmitsUnselectedFiles(t *testing.T) {
	fc := &fakeClient{handle: func(string, string, client.Payload) (*client.Response, error) { return ok(`[]`) }}
	s := newUsers(fc, authenticated)

	draft := annDraft()
	draft.ProfilePic = nil
	draft.DescriptionFile = nil
	require.NoError(t, s.Update(context.Background(), 2, draft))

	require.Equal(t, []string{"name", "address", "phone_number"}, partNames(t, fc.Calls()[0].Body))
}

func TestUsers_WriteFailureLeavesCollectionUntouched(t *testing.T) {
	failWrites := false
	fc := &fakeClient{handle: func(method, path string, _ client.Payload) (*client.Response, error) {
		if method == http.MethodGet {
			return ok(`[{"id":1,"name":"Ann"}]`)
		}
		if failWrites {
			return nil, &client.HTTPError{Status: http.StatusNotFound, Body: []byte(`{"error":"user not found"}`)}
		}
		return ok(`{}`)
	}}
	s := newUsers(fc, authenticated)
	ctx := context.Background()

	_, err := s.List(ctx)
	require.NoError(t, err)
	before := s.Records()

	failWrites = true
	err = s.Delete(ctx, 99)
	var he *client.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusNotFound, he.Status)
	require.Equal(t, before, s.Records())

	require.Error(t, s.Update(ctx, 99, annDraft()))
	require.Error(t, s.Create(ctx, annDraft()))
	require.Equal(t, before, s.Records())
	require.Len(t, fc.Calls(), 4, "failed writes must not refetch")
}

func TestUsers_RefreshFailureAfterWrite(t *testing.T) {
	listFails := false
	fc := &fakeClient{handle: func(method, path string, _ client.Payload) (*client.Response, error) {
		if method == http.MethodGet {
			if listFails {
				return nil, &client.NetworkError{Op: "GET /users", Err: errors.New("reset")}
			}
			return ok(`[{"id":1,"name":"Ann"}]`)
		}
		return ok(`{"id":2}`)
	}}
	s := newUsers(fc, authenticated)
	ctx := context.Background()

	_, err := s.List(ctx)
	require.NoError(t, err)

	listFails = true
	err = s.Create(ctx, annDraft())
	require.ErrorIs(t, err, client.ErrUnavailable)
	require.Contains(t, err.Error(), "refresh after create")
	require.Equal(t, []int64{1}, ids(s.Records()), "collection is the pre-write snapshot")
}

func TestUsers_DecodeFailure(t *testing.T) {
	fc := &fakeClient{handle: func(string, string, client.Payload) (*client.Response, error) { return ok(`{"oops":1}`) }}
	s := newUsers(fc, authenticated)

	_, err := s.List(context.Background())
	require.Error(t, err)
	require.Empty(t, s.Records())
}

func TestUsers_LastResolvingListWins(t *testing.T) {
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})

	var mu sync.Mutex
	n := 0
	fc := &fakeClient{handle: func(string, string, client.Payload) (*client.Response, error) {
		mu.Lock()
		n++
		mine := n
		mu.Unlock()

		if mine == 1 {
			close(firstStarted)
			<-releaseFirst
			return ok(`[{"id":1,"name":"stale"}]`)
		}
		return ok(`[{"id":1,"name":"fresh"},{"id":2,"name":"new"}]`)
	}}
	s := newUsers(fc, authenticated)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := s.List(ctx)
		done <- err
	}()
	<-firstStarted

	_, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, s.Records(), 2)

	close(releaseFirst)
	require.NoError(t, <-done)

	recs := s.Records()
	require.Len(t, recs, 1, "the later-resolving response replaces the collection")
	require.Equal(t, "stale", recs[0].Name)
}

func TestUsers_RecordsReturnsCopy(t *testing.T) {
	fc := &fakeClient{handle: func(string, string, client.Payload) (*client.Response, error) { return ok(`[{"id":1,"name":"Ann"}]`) }}
	s := newUsers(fc, authenticated)

	_, err := s.List(context.Background())
	require.NoError(t, err)

	recs := s.Records()
	recs[0].Name = "mutated"
	require.Equal(t, "Ann", s.Records()[0].Name)

	r, found := s.Find(1)
	require.True(t, found)
	require.Equal(t, "Ann", r.Name)
	_, found = s.Find(5)
	require.False(t, found)

	s.Reset()
	require.Empty(t, s.Records())
}

func TestUsers_AttachmentURL(t *testing.T) {
	s := newUsers(&fakeClient{}, authenticated)

	require.Equal(t, "http://admin.test/uploads/photos/ann.png", s.AttachmentURL(AttachmentPhoto, "ann.png"))
	require.Equal(t, "http://admin.test/uploads/docs/my%20cv.pdf", s.AttachmentURL(AttachmentDocument, "my cv.pdf"))
	require.Empty(t, s.AttachmentURL(AttachmentPhoto, ""))
}

func ids(recs []models.UserRecord) []int64 {
	out := make([]int64, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
