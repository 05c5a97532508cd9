package repos

import (
	"flowmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Register records a first contact. Existing users are left untouched.
func (r *UserRepo) Register(telegramID int64, username string) error {
	_, err := r.db.Exec(`
	  INSERT INTO users(telegram_id, username) VALUES(?, ?)
	  ON CONFLICT(telegram_id) DO NOTHING
	`, telegramID, username)
	return err
}

func (r *UserRepo) Get(telegramID int64) (domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
	  SELECT telegram_id, COALESCE(username,'') AS username, total_spent, registered_at
	  FROM users WHERE telegram_id = ?
	`, telegramID)
	return u, err
}

func (r *UserRepo) AddSpent(telegramID int64, amount int64) error {
	_, err := r.db.Exec(`UPDATE users SET total_spent = total_spent + ? WHERE telegram_id = ?`, amount, telegramID)
	return err
}

// ---------- Bans ----------

func (r *UserRepo) IsBanned(telegramID int64) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM banned_users WHERE telegram_id = ?`, telegramID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) Ban(telegramID int64, reason, bannedBy string) error {
	_, err := r.db.Exec(`
	  INSERT INTO banned_users(telegram_id, reason, banned_by) VALUES(?, ?, ?)
	  ON CONFLICT(telegram_id) DO UPDATE SET reason = excluded.reason, banned_by = excluded.banned_by
	`, telegramID, reason, bannedBy)
	return err
}

func (r *UserRepo) Unban(telegramID int64) error {
	_, err := r.db.Exec(`DELETE FROM banned_users WHERE telegram_id = ?`, telegramID)
	return err
}
