package database

import (
	"database/sql"
	"fmt"
)

// PreferencesRepo handles database operations for user preferences
type PreferencesRepo struct {
	db *DB
}

var _ PreferencesRepository = (*PreferencesRepo)(nil)

func NewPreferencesRepo(db *DB) *PreferencesRepo {
	return &PreferencesRepo{db: db}
}

func (r *PreferencesRepo) GetPreferences(userID string) (*UserPreferences, error) {
	var prefs UserPreferences
	err := r.db.QueryRow(`
		SELECT id, user_id, preferences, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`, userID).Scan(&prefs.ID, &prefs.UserID, &prefs.Preferences, &prefs.CreatedAt, &prefs.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return &prefs, nil
}

// UpsertPreferences creates the record on first save and updates it in
// place thereafter, keyed by user.
func (r *PreferencesRepo) UpsertPreferences(userID, preferences string) (*UserPreferences, error) {
	var prefs UserPreferences
	err := r.db.QueryRow(`
		INSERT INTO user_preferences (user_id, preferences)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			preferences = EXCLUDED.preferences,
			updated_at = NOW()
		RETURNING id, user_id, preferences, created_at, updated_at
	`, userID, preferences).Scan(&prefs.ID, &prefs.UserID, &prefs.Preferences, &prefs.CreatedAt, &prefs.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert preferences: %w", err)
	}

	return &prefs, nil
}
