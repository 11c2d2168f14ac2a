package credentials

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := repositories.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLite_ReadEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	token, ok, err := r.Read(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, token)
}

func TestSQLite_StoreThenRead(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Store(ctx, "T1"))

	token, ok, err := r.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T1", token)
}

func TestSQLite_StoreOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Store(ctx, "old"))
	require.NoError(t, r.Store(ctx, "new"))

	token, ok, err := r.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "new", token)
}

func TestSQLite_StoreAcceptsAnyShape(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Store(ctx, ""))
	token, ok, err := r.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, token)
}

func TestSQLite_ClearIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Store(ctx, "T1"))
	require.NoError(t, r.Clear(ctx))
	require.NoError(t, r.Clear(ctx))

	_, ok, err := r.Read(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLite_DriverErrorsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectExec("INSERT INTO credentials").WillReturnError(boom)
	mock.ExpectQuery("SELECT value FROM credentials").WillReturnError(boom)
	mock.ExpectExec("DELETE FROM credentials").WillReturnError(boom)

	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err = r.Store(ctx, "T1")
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "failed to store credential")

	_, ok, err := r.Read(ctx)
	require.ErrorIs(t, err, boom)
	require.False(t, ok)
	require.Contains(t, err.Error(), "failed to read credential")

	err = r.Clear(ctx)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "failed to clear credential")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_ClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, _, err := r.Read(context.Background())
	require.Error(t, err)
}
