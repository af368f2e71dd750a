package resolver

import (
	"context"
	"database/sql"
	"errors"

	"reps-auth/internal/auth"
	"reps-auth/internal/db"
	"reps-auth/internal/logger"

	"github.com/google/uuid"
)

// DBResolver resolves identities using the database.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

// Resolve returns the user for identity, linking by verified email or
// creating a user when none exists. All steps run in one transaction.
func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (string, error) {

	if identity == nil {
		return "", ErrNilIdentity
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var userID uuid.UUID

	// 1. Known identity
	err = tx.QueryRowContext(ctx, `
		SELECT user_id
		FROM identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`,
		identity.Provider,
		identity.ProviderUserID,
	).Scan(&userID)

	if err == nil {
		return userID.String(), tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	// 2. Existing user, new provider
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`,
		identity.Email,
	).Scan(&userID)

	switch {
	case err == nil:
		if !identity.EmailVerified {
			return "", ErrUnverifiedEmail
		}
		logger.Info("linking identity to existing user", map[string]any{
			"provider": identity.Provider,
			"user_id":  userID.String(),
		})

	case errors.Is(err, sql.ErrNoRows):
		// 3. New user
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, email_verified)
			VALUES ($1, $2)
			RETURNING id
		`,
			identity.Email,
			identity.EmailVerified,
		).Scan(&userID)
		if err != nil {
			return "", err
		}

	default:
		return "", err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider,
		identity.ProviderUserID,
	)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return userID.String(), nil
}
