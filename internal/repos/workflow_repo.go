package repos

import (
	"database/sql"

	"flowmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type WorkflowRepo struct{ db *sqlx.DB }

func NewWorkflowRepo(db *sqlx.DB) *WorkflowRepo { return &WorkflowRepo{db: db} }

// BySlug resolves an active workflow. Inactive or missing slugs both come
// back as sql.ErrNoRows.
func (r *WorkflowRepo) BySlug(slug string) (domain.Workflow, error) {
	var w domain.Workflow
	err := r.db.Get(&w, `
	  SELECT
	    id, slug, name, COALESCE(description,'') AS description, COALESCE(category,'') AS category,
	    priority, price, filepath, version, active, downloads, created_at
	  FROM workflows
	  WHERE slug = ? AND active = 1
	`, slug)
	return w, err
}

func (r *WorkflowRepo) ListActive(category string) ([]domain.Workflow, error) {
	q := `
	  SELECT
	    id, slug, name, COALESCE(description,'') AS description, COALESCE(category,'') AS category,
	    priority, price, filepath, version, active, downloads, created_at
	  FROM workflows
	  WHERE active = 1`
	args := []any{}
	if category != "" {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY priority ASC, name ASC`

	var out []domain.Workflow
	err := r.db.Select(&out, q, args...)
	return out, err
}

func (r *WorkflowRepo) Categories() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `
	  SELECT DISTINCT category FROM workflows
	  WHERE active = 1 AND category IS NOT NULL AND category != ''
	  ORDER BY category
	`)
	return out, err
}

func (r *WorkflowRepo) UpdatePrice(slug string, price int64) error {
	res, err := r.db.Exec(`UPDATE workflows SET price = ? WHERE slug = ?`, price, slug)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *WorkflowRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM workflows WHERE active = 1`)
	return n, err
}
