package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/gymlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetOrCreateUser finds or creates a user by Tailscale login name.
// Returns the user ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("resolving user %q: %w", login, err)
	}
	return id, nil
}

// GetProfile returns the user's profile, or a fresh un-onboarded metric profile
// when none has been saved.
func (db *DB) GetProfile(ctx context.Context, userID int) (models.ProfileRow, error) {
	p := models.ProfileRow{UserID: userID}
	err := db.Pool.QueryRow(ctx,
		`SELECT body_mass_kg, units, onboarded, updated_at FROM profiles WHERE user_id = $1`,
		userID).Scan(&p.BodyMassKg, &p.Units, &p.Onboarded, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.Units = "metric"
			return p, nil
		}
		return p, fmt.Errorf("querying profile: %w", err)
	}
	return p, nil
}

// UpsertProfile saves the onboarding answers and marks the user onboarded.
func (db *DB) UpsertProfile(ctx context.Context, p models.ProfileRow) (models.ProfileRow, error) {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, body_mass_kg, units, onboarded, updated_at)
		VALUES ($1, $2, $3, TRUE, NOW())
		ON CONFLICT (user_id) DO UPDATE
			SET body_mass_kg = EXCLUDED.body_mass_kg, units = EXCLUDED.units,
			    onboarded = TRUE, updated_at = NOW()
		RETURNING onboarded, updated_at
	`, p.UserID, p.BodyMassKg, p.Units).Scan(&p.Onboarded, &p.UpdatedAt)
	if err != nil {
		return p, fmt.Errorf("saving profile: %w", err)
	}
	return p, nil
}
