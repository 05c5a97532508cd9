package domain

type User struct {
	TelegramID   int64  `db:"telegram_id"`
	Username     string `db:"username"`
	TotalSpent   int64  `db:"total_spent"`
	RegisteredAt string `db:"registered_at"`
}

type BannedUser struct {
	TelegramID int64  `db:"telegram_id"`
	Reason     string `db:"reason"`
	BannedBy   string `db:"banned_by"`
	BannedAt   string `db:"banned_at"`
}
