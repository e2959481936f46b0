package services

import (
	"context"
	"errors"
	"fmt"

	"chegoou/db"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// SetCredential stores a bcrypt hash of the user's password, replacing any
// previous one. Plain passwords are never persisted or logged.
func SetCredential(ctx context.Context, userID, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password too short")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO user_credentials (user_id, password_hash, is_active, updated_at)
		VALUES ($1, $2, true, now())
		ON CONFLICT (user_id) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			is_active = true,
			updated_at = now()`,
		userID, string(hash),
	)
	return err
}

// VerifyCredential checks a password against the stored hash. Returns false
// for unknown users, deactivated credentials and wrong passwords alike.
func VerifyCredential(ctx context.Context, userID, password string) (bool, error) {
	var hash string
	var active bool
	err := db.Pool.QueryRow(ctx,
		`SELECT password_hash, is_active FROM user_credentials WHERE user_id = $1`, userID,
	).Scan(&hash, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if !active {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}

// DeactivateCredential blocks logins without deleting the hash (used when a
// partner or courier account is suspended).
func DeactivateCredential(ctx context.Context, userID string) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE user_credentials SET is_active = false, updated_at = now() WHERE user_id = $1`, userID)
	return err
}
