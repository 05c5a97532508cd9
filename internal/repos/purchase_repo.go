package repos

import (
	"flowmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PurchaseRepo struct{ db *sqlx.DB }

func NewPurchaseRepo(db *sqlx.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

// Insert appends a purchase record. payment_id is the natural dedup key: a
// replayed insert with the same payment reference is a no-op and reports
// created=false with the existing row's id.
func (r *PurchaseRepo) Insert(p domain.Purchase) (id int64, created bool, err error) {
	res, err := r.db.Exec(`
	  INSERT INTO purchases(user_id, workflow_id, price, payment_id, email)
	  VALUES(?, ?, ?, ?, ?)
	  ON CONFLICT(payment_id) DO NOTHING
	`, p.UserID, p.WorkflowID, p.Price, p.PaymentID, p.Email)
	if err != nil {
		return 0, false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = r.db.Get(&id, `SELECT id FROM purchases WHERE payment_id = ?`, p.PaymentID)
		return id, false, err
	}
	id, err = res.LastInsertId()
	return id, true, err
}

func (r *PurchaseRepo) ByPaymentID(paymentID string) (domain.Purchase, error) {
	var p domain.Purchase
	err := r.db.Get(&p, `
	  SELECT id, user_id, workflow_id, price, payment_id, COALESCE(email,'') AS email,
	         download_count, purchased_at
	  FROM purchases
	  WHERE payment_id = ?
	`, paymentID)
	return p, err
}

func (r *PurchaseRepo) CountByUser(userID int64) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM purchases WHERE user_id = ?`, userID)
	return n, err
}

// ---------- Used by the ops stats endpoint ----------

func (r *PurchaseRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM purchases`)
	return n, err
}

func (r *PurchaseRepo) Revenue() (int64, error) {
	var total int64
	err := r.db.Get(&total, `SELECT COALESCE(SUM(price), 0) FROM purchases`)
	return total, err
}
