package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.SecretKey = "test"
	c.UploadDir = filepath.Join(t.TempDir(), "uploads")
	c.LogLevel = "error"
	return c
}

func TestNewApp_UnknownBackend(t *testing.T) {
	c := testConfig(t)
	c.StorageBackend = "tape"

	_, err := NewApp(context.Background(), c)
	require.ErrorContains(t, err, `unknown storage backend "tape"`)
}

func TestNewApp_EmptyReference(t *testing.T) {
	c := testConfig(t)
	c.ReferencePassword = ""

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && assert.Contains(t, string(body), `"status":"OK"`)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	c := testConfig(t)
	c.EndpointAddr = "256.0.0.1:bad"

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	require.ErrorContains(t, app.Run(context.Background()), "listen")
}
