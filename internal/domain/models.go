package domain

type Workflow struct {
	ID          int64  `db:"id"`
	Slug        string `db:"slug"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Category    string `db:"category"`
	Priority    int    `db:"priority"`
	Price       int64  `db:"price"` // whole currency units, catalog price
	Filepath    string `db:"filepath"`
	Version     string `db:"version"`
	Active      bool   `db:"active"`
	Downloads   int    `db:"downloads"`
	CreatedAt   string `db:"created_at"`
}

type Purchase struct {
	ID            int64  `db:"id"`
	UserID        int64  `db:"user_id"`
	WorkflowID    int64  `db:"workflow_id"`
	Price         int64  `db:"price"` // amount actually charged, whole units
	PaymentID     string `db:"payment_id"`
	Email         string `db:"email"`
	DownloadCount int    `db:"download_count"`
	PurchasedAt   string `db:"purchased_at"`
}

type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

type DeliveryLog struct {
	ID           int64  `db:"id"`
	UserID       int64  `db:"user_id"`
	WorkflowID   int64  `db:"workflow_id"`
	Status       string `db:"status"` // success | failed
	ErrorMessage string `db:"error_message"`
	DeliveredAt  string `db:"delivered_at"`
}
