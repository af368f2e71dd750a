package credentials

import (
	"context"
	"database/sql"
	"errors"

	"reps-auth/internal/db"
	"reps-auth/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("credentials already exist")
)

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

// Register provisions a user with a password credential. It is used by the
// operator command, not by any public route.
func (s *Service) Register(
	ctx context.Context,
	email string,
	password string,
	secondFactor bool,
) (string, error) {

	// Hash first so a weak password never creates a user row
	hash, version, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var userID uuid.UUID

	// 1. Find or create user by email
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID)

	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, email_verified, second_factor_enabled)
			VALUES ($1, false, $2)
			RETURNING id
		`, email, secondFactor).Scan(&userID)
	}

	if err != nil {
		return "", err
	}

	// 2. Check if credentials already exist
	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credentials WHERE user_id = $1
		)
	`, userID).Scan(&exists)

	if err != nil {
		return "", err
	}

	if exists {
		return "", ErrAlreadyRegistered
	}

	// 3. Insert credentials
	_, err = tx.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)

	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return userID.String(), nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (*Account, error) {

	var (
		userID       uuid.UUID
		passwordHash string
		secondFactor bool
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, c.password_hash, u.second_factor_enabled
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
		  AND u.status = 'active'
	`, email).Scan(&userID, &passwordHash, &secondFactor)

	if errors.Is(err, sql.ErrNoRows) {
		// hide whether user exists or not
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := VerifyPassword(passwordHash, password); err != nil {
		if !errors.Is(err, ErrPasswordMismatch) {
			logger.Error("stored password hash unusable", map[string]any{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
		return nil, ErrInvalidCredentials
	}

	return &Account{
		UserID:              userID.String(),
		SecondFactorEnabled: secondFactor,
	}, nil
}
