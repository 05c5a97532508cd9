package repos

import (
	"flowmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type DeliveryLogRepo struct{ db *sqlx.DB }

func NewDeliveryLogRepo(db *sqlx.DB) *DeliveryLogRepo { return &DeliveryLogRepo{db: db} }

func (r *DeliveryLogRepo) Log(userID, workflowID int64, status, errMsg string) error {
	_, err := r.db.Exec(`
	  INSERT INTO delivery_logs(user_id, workflow_id, status, error_message)
	  VALUES(?, ?, ?, ?)
	`, userID, workflowID, status, errMsg)
	return err
}

func (r *DeliveryLogRepo) ListByUser(userID int64) ([]domain.DeliveryLog, error) {
	var out []domain.DeliveryLog
	err := r.db.Select(&out, `
	  SELECT id, user_id, workflow_id, status, COALESCE(error_message,'') AS error_message, delivered_at
	  FROM delivery_logs
	  WHERE user_id = ?
	  ORDER BY datetime(delivered_at) DESC
	`, userID)
	return out, err
}

func (r *DeliveryLogRepo) FailureCount() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM delivery_logs WHERE status = 'failed'`)
	return n, err
}
