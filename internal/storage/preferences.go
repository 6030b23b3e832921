// ABOUTME: Profile and goal preferences stored as JSON values in SQLite.
// ABOUTME: Values are validated before saving; missing values load as defaults.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/diet/internal/models"
)

const (
	prefProfile = "profile"
	prefGoals   = "goals"
)

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// LoadProfile returns the stored profile, or the default profile when none
// has been saved. Fields absent from the stored value keep their defaults.
func (d *DB) LoadProfile() (models.Profile, error) {
	p := models.DefaultProfile()
	if err := d.loadPreference(prefProfile, &p); err != nil {
		return models.Profile{}, err
	}
	if n, err := p.Normalize(); err == nil {
		p = n
	}
	return p, nil
}

// LoadGoals returns the stored goals, or the default goals.
func (d *DB) LoadGoals() (models.GoalSettings, error) {
	g := models.DefaultGoals()
	if err := d.loadPreference(prefGoals, &g); err != nil {
		return models.GoalSettings{}, err
	}
	if n, err := g.Normalize(); err == nil {
		g = n
	}
	return g, nil
}

// SaveProfile validates p and stores its canonical form. Nothing is written
// if p is invalid.
func (d *DB) SaveProfile(p models.Profile) error {
	p, err := p.Normalize()
	if err != nil {
		return err
	}
	return savePreference(d.db, prefProfile, p)
}

// SaveGoals validates g and stores its canonical form.
func (d *DB) SaveGoals(g models.GoalSettings) error {
	g, err := g.Normalize()
	if err != nil {
		return err
	}
	return savePreference(d.db, prefGoals, g)
}

// SavePreferences stores profile and goals together; if either is invalid
// neither is written.
func (d *DB) SavePreferences(p models.Profile, g models.GoalSettings) error {
	p, perr := p.Normalize()
	g, gerr := g.Normalize()
	if err := errors.Join(perr, gerr); err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := savePreference(tx, prefProfile, p); err != nil {
		return err
	}
	if err := savePreference(tx, prefGoals, g); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) loadPreference(key string, dst interface{}) error {
	var raw string
	err := d.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func savePreference(e execer, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = e.Exec(`
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
