// Package server wires the reference backend together: configuration,
// accounts, user records, attachment storage and the HTTP API, and runs it
// until the process is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/dmitrijs2005/useradmin/internal/server/accounts"
	"github.com/dmitrijs2005/useradmin/internal/server/attachments"
	"github.com/dmitrijs2005/useradmin/internal/server/auth"
	"github.com/dmitrijs2005/useradmin/internal/server/config"
	"github.com/dmitrijs2005/useradmin/internal/server/httpapi"
	"github.com/dmitrijs2005/useradmin/internal/server/users"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(c.LogLevel))

	storage, err := newStorage(ctx, c)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.TokenValidityDuration)
	acc := accounts.NewService(accounts.NewMemoryRepository(), tokens, logger)
	if err := acc.SeedReference(ctx, c.ReferenceUsername, c.ReferencePassword); err != nil {
		return nil, err
	}

	us := users.NewService(users.NewMemoryRepository(), storage, c.UniqueNames, logger)

	api := httpapi.NewServer(acc, us, storage, httpapi.Options{
		MaxUploadSize: c.MaxUploadSize,
		SessionTTL:    c.TokenValidityDuration,
		CORSOrigins:   c.CORSOrigins,
	}, logger)

	return &App{config: c, logger: logger, api: api}, nil
}

func newStorage(ctx context.Context, c *config.Config) (attachments.Storage, error) {
	switch c.StorageBackend {
	case "fs":
		return attachments.NewFSStorage(c.UploadDir)
	case "s3":
		return attachments.NewS3Storage(ctx, attachments.S3Config{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			PresignTTL:   c.PresignTTL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// Run serves HTTP until ctx is cancelled, then shuts the server down
// gracefully.
func (app *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.EndpointAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.EndpointAddr, err)
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           app.api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(ctx, "Starting app...", "addr", ln.Addr().String(), "storage", app.config.StorageBackend)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info(context.Background(), "Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
