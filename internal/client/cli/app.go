package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/config"
	"github.com/dmitrijs2005/useradmin/internal/client/form"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/useradmin/internal/client/services"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

// sessionAPI is the part of services.SessionService the console drives.
type sessionAPI interface {
	Current() models.Session
	Subscribe(fn func(models.Session)) func()
	FetchReferenceCredential(ctx context.Context) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
	Register(ctx context.Context, req services.RegisterRequest) error
}

// usersAPI is the part of services.UserService the console drives.
type usersAPI interface {
	form.Synchronizer
	Records() []models.UserRecord
	Find(id int64) (models.UserRecord, bool)
	List(ctx context.Context) ([]models.UserRecord, error)
	Delete(ctx context.Context, id int64) error
	Reset()
	AttachmentURL(kind services.AttachmentKind, filename string) string
}

type App struct {
	config  *config.Config
	session sessionAPI
	users   usersAPI
	form    *form.Form
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	db      *sql.DB
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewText(os.Stderr, logging.ParseLevel(c.LogLevel))

	scheme, err := client.ParseHeaderScheme(c.HeaderScheme)
	if err != nil {
		return nil, err
	}

	db, err := repositories.InitDatabase(ctx, c.CredentialsDB)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := credentials.NewSQLiteRepository(db)
	transport := client.NewHTTPClient(c.ServerURL, store,
		client.WithHeaderScheme(scheme),
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
	)

	session := services.NewSessionService(transport, store, logger)
	users := services.NewUserService(transport, session, logger)

	app := newApp(session, users, bufio.NewReader(os.Stdin), os.Stdout, logger)
	app.config = c
	app.db = db
	return app, nil
}

func newApp(session sessionAPI, users usersAPI, reader *bufio.Reader, out io.Writer, logger logging.Logger) *App {
	a := &App{
		session: session,
		users:   users,
		form:    form.New(users),
		logger:  logger,
		reader:  reader,
		out:     out,
	}

	session.Subscribe(func(s models.Session) {
		if s.State == models.SessionUnauthenticated {
			a.users.Reset()
			a.form.Cancel()
		}
	})
	return a
}

// Run bootstraps the session and blocks in the REPL until exit or ctx is done.
func (a *App) Run(ctx context.Context) {
	if a.db != nil {
		defer a.db.Close()
	}

	fmt.Fprintln(a.out, "Welcome to the user admin console (type 'help' for commands)")
	a.start(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) start(ctx context.Context) {
	if err := a.session.FetchReferenceCredential(ctx); err != nil {
		a.logger.Warn(ctx, "reference credential unavailable, login will retry", "error", err)
	}

	resumed, err := a.session.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "stored session could not be read", "error", err)
		return
	}
	if !resumed {
		return
	}

	fmt.Fprintln(a.out, "Resumed previous session")
	if err := a.List(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", describe(err))
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().Authenticated()
}

func (a *App) status() string {
	s := a.session.Current()
	if !s.Authenticated() {
		return ""
	}
	if s.DisplayName == "" {
		return "(authenticated)"
	}
	return fmt.Sprintf("(%s)", s.DisplayName)
}
