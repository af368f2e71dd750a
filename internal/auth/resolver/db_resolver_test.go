package resolver

import (
	"context"
	"testing"

	"reps-auth/internal/auth"
	"reps-auth/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "7d1e6f0a-3c2b-4a8e-9f10-2b3c4d5e6f70"

func newMockResolver(t *testing.T) (*DBResolver, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewDBResolver(&db.DB{DB: sqlDB}), mock
}

func googleIdentity(verified bool) *auth.Identity {
	return &auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-1",
		Email:          "A@example.com",
		EmailVerified:  verified,
	}
}

func TestResolveKnownIdentity(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM identities").
		WithArgs("google", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(userID))
	mock.ExpectCommit()

	got, err := r.Resolve(context.Background(), googleIdentity(false))

	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveLinksVerifiedEmail(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM identities").
		WithArgs("google", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery("FROM users").
		WithArgs("A@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID))
	mock.ExpectExec("INSERT INTO identities").
		WithArgs(userID, "google", "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := r.Resolve(context.Background(), googleIdentity(true))

	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveRefusesUnverifiedLink(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM identities").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery("FROM users").
		WithArgs("A@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID))
	mock.ExpectRollback()

	_, err := r.Resolve(context.Background(), googleIdentity(false))

	assert.ErrorIs(t, err, ErrUnverifiedEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveCreatesUser(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM identities").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery("FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("A@example.com", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID))
	mock.ExpectExec("INSERT INTO identities").
		WithArgs(userID, "google", "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := r.Resolve(context.Background(), googleIdentity(false))

	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveNilIdentity(t *testing.T) {
	r, mock := newMockResolver(t)

	_, err := r.Resolve(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNilIdentity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
