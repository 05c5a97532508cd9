package repos

import (
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get(key string) (string, error) {
	var v string
	err := r.db.Get(&v, `SELECT value FROM settings WHERE key = ?`, key)
	return v, err
}

func (r *SettingsRepo) GetInt(key string) (int, error) {
	v, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

func (r *SettingsRepo) Set(key, value string) error {
	_, err := r.db.Exec(`
	  INSERT INTO settings(key, value) VALUES(?, ?)
	  ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Increment bumps a numeric setting in a single server-side statement. A
// missing key starts at delta. There is intentionally no cap check here; see
// the pricing policy for the accepted overshoot semantics.
func (r *SettingsRepo) Increment(key string, delta int) error {
	_, err := r.db.Exec(`
	  INSERT INTO settings(key, value) VALUES(?, ?)
	  ON CONFLICT(key) DO UPDATE SET value = CAST(value AS INTEGER) + ?
	`, key, strconv.Itoa(delta), delta)
	return err
}
