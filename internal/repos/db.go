package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo catalog if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure pricing settings exist (idempotent; safe to run every start)
	if err := seedSettings(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Workflows (the catalog)
CREATE TABLE IF NOT EXISTS workflows(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT,
  priority INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
  filepath TEXT NOT NULL,
  version TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  downloads INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_workflows_active   ON workflows(active);
CREATE INDEX IF NOT EXISTS idx_workflows_category ON workflows(category);

-- Purchases (the ledger; payment_id is the idempotency anchor)
CREATE TABLE IF NOT EXISTS purchases(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  workflow_id INTEGER NOT NULL REFERENCES workflows(id) ON DELETE RESTRICT,
  price NUMERIC NOT NULL,
  payment_id TEXT NOT NULL UNIQUE,
  email TEXT,
  download_count INTEGER NOT NULL DEFAULT 0,
  purchased_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_purchases_user ON purchases(user_id);

-- Key/value settings (early-bird counter and limit live here)
CREATE TABLE IF NOT EXISTS settings(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

-- Users & bans
CREATE TABLE IF NOT EXISTS users(
  telegram_id INTEGER PRIMARY KEY,
  username TEXT,
  total_spent NUMERIC NOT NULL DEFAULT 0,
  registered_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS banned_users(
  telegram_id INTEGER PRIMARY KEY,
  reason TEXT,
  banned_by TEXT,
  banned_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Delivery outcomes, for support and reconciliation
CREATE TABLE IF NOT EXISTS delivery_logs(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  workflow_id INTEGER NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('success','failed')),
  error_message TEXT,
  delivered_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_delivery_logs_user ON delivery_logs(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM workflows`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo workflows")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO workflows(slug,name,description,category,priority,price,filepath,version) VALUES
	  ('cpu-monitor','CPU Monitor','Alerts when CPU load stays above threshold','monitoring',1,400,'cpu-monitor.json','1.2.0'),
	  ('disk-alert','Disk Alert','Warns before disks fill up','monitoring',2,400,'disk-alert.json','1.0.3'),
	  ('uptime-dashboard','Uptime Dashboard','Aggregated uptime view for all hosts','dashboards',3,600,'uptime-dashboard.json','2.1.0')`)
	return tx.Commit()
}

// seedSettings ensures the early-bird counter and limit rows exist
// (idempotent; never resets an existing counter).
func seedSettings(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for key, value := range map[string]string{
		"early_bird_counter": "0",
		"early_bird_limit":   "50",
	} {
		if _, err := tx.Exec(`
			INSERT INTO settings(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO NOTHING
		`, key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}
