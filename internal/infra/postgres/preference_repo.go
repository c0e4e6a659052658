package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/txfeed/internal/platform/preference"
)

// PreferenceRepository implements preference.Repository using PostgreSQL
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository creates a new PostgreSQL preference repository
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// Get retrieves a user's preferences
func (r *PreferenceRepository) Get(ctx context.Context, userID uuid.UUID) (*preference.Preferences, error) {
	query := `
		SELECT user_id, fiat_code, crypto_preferred, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`

	var p preference.Preferences
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.FiatCode,
		&p.CryptoPreferred,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, preference.ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return &p, nil
}

// Upsert creates or replaces a user's preferences
func (r *PreferenceRepository) Upsert(ctx context.Context, p *preference.Preferences) error {
	query := `
		INSERT INTO user_preferences (user_id, fiat_code, crypto_preferred, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET fiat_code = EXCLUDED.fiat_code,
		    crypto_preferred = EXCLUDED.crypto_preferred,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, p.UserID, p.FiatCode, p.CryptoPreferred, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}

	return nil
}
