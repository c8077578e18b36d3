package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newPostgresKVMock(t *testing.T) (*PostgresKV, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresKV(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestPostgresKVGet(t *testing.T) {
	kv, mock, cleanup := newPostgresKVMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[]`))
	mock.ExpectQuery(regexp.QuoteMeta(selectKV)).WithArgs("enrollments").WillReturnRows(rows)

	value, err := kv.Get(context.Background(), "enrollments")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(value))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVGetMissing(t *testing.T) {
	kv, mock, cleanup := newPostgresKVMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectKV)).WithArgs("enrollments").WillReturnError(sql.ErrNoRows)

	_, err := kv.Get(context.Background(), "enrollments")
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVSet(t *testing.T) {
	kv, mock, cleanup := newPostgresKVMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertKV)).
		WithArgs("enrollments", []byte(`[{"id":"a"}]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kv.Set(context.Background(), "enrollments", []byte(`[{"id":"a"}]`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVSetFailure(t *testing.T) {
	kv, mock, cleanup := newPostgresKVMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertKV)).WillReturnError(errors.New("disk full"))

	err := kv.Set(context.Background(), "enrollments", []byte(`[]`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
}

func TestPostgresKVEnsureSchema(t *testing.T) {
	kv, mock, cleanup := newPostgresKVMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(createKVTable)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, kv.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
