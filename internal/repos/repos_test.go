package repos

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"flowmarket/internal/domain"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDBSeedsOnce(t *testing.T) {
	db := openTestDB(t)

	wfs := NewWorkflowRepo(db)
	n, err := wfs.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("empty database should be seeded with a demo catalog")
	}

	// A counter already in progress must survive re-running the seeders.
	settings := NewSettingsRepo(db)
	if err := settings.Set("early_bird_counter", "7"); err != nil {
		t.Fatal(err)
	}
	if err := seedSettings(db); err != nil {
		t.Fatal(err)
	}
	got, err := settings.GetInt("early_bird_counter")
	if err != nil {
		t.Fatal(err)
	}
	if got != 7 {
		t.Fatalf("seeding must not reset the counter: got %d", got)
	}
}

func TestPurchaseInsertDeduplicates(t *testing.T) {
	db := openTestDB(t)
	purchases := NewPurchaseRepo(db)

	p := domain.Purchase{UserID: 1, WorkflowID: 1, Price: 400, PaymentID: "tgpay_abc", Email: "e"}
	id1, created, err := purchases.Insert(p)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("first insert should report created")
	}

	p.Price = 600 // replayed event with drifted fields still deduplicates
	id2, created, err := purchases.Insert(p)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("replayed insert must not report created")
	}
	if id1 != id2 {
		t.Fatalf("replay must surface the original row id: %d != %d", id1, id2)
	}

	stored, err := purchases.ByPaymentID("tgpay_abc")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Price != 400 {
		t.Fatalf("original row must win, got price %d", stored.Price)
	}

	n, err := purchases.CountByUser(1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want one purchase, got %d", n)
	}
}

func TestSettingsIncrement(t *testing.T) {
	db := openTestDB(t)
	settings := NewSettingsRepo(db)

	// Missing key starts at delta.
	if err := settings.Increment("fresh_counter", 1); err != nil {
		t.Fatal(err)
	}
	if err := settings.Increment("fresh_counter", 2); err != nil {
		t.Fatal(err)
	}
	n, err := settings.GetInt("fresh_counter")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("want 3, got %d", n)
	}
}

func TestWorkflowBySlugIgnoresInactive(t *testing.T) {
	db := openTestDB(t)
	wfs := NewWorkflowRepo(db)

	if _, err := wfs.BySlug("cpu-monitor"); err != nil {
		t.Fatal(err)
	}
	db.MustExec(`UPDATE workflows SET active = 0 WHERE slug = 'cpu-monitor'`)
	if _, err := wfs.BySlug("cpu-monitor"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("inactive slug: want sql.ErrNoRows, got %v", err)
	}
}

func TestWorkflowUpdatePrice(t *testing.T) {
	db := openTestDB(t)
	wfs := NewWorkflowRepo(db)

	if err := wfs.UpdatePrice("cpu-monitor", 450); err != nil {
		t.Fatal(err)
	}
	wf, err := wfs.BySlug("cpu-monitor")
	if err != nil {
		t.Fatal(err)
	}
	if wf.Price != 450 {
		t.Fatalf("want 450, got %d", wf.Price)
	}
	if err := wfs.UpdatePrice("ghost", 450); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("unknown slug: want sql.ErrNoRows, got %v", err)
	}
}

func TestUserBanLifecycle(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)

	if err := users.Register(42, "alice"); err != nil {
		t.Fatal(err)
	}
	// Re-registration keeps the original record.
	if err := users.Register(42, "renamed"); err != nil {
		t.Fatal(err)
	}
	u, err := users.Get(42)
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "alice" {
		t.Fatalf("re-registration must not overwrite, got %q", u.Username)
	}

	banned, err := users.IsBanned(42)
	if err != nil {
		t.Fatal(err)
	}
	if banned {
		t.Fatal("fresh user must not be banned")
	}

	if err := users.Ban(42, "spam", "admin_1"); err != nil {
		t.Fatal(err)
	}
	// Banning twice updates the reason instead of failing.
	if err := users.Ban(42, "fraud", "admin_2"); err != nil {
		t.Fatal(err)
	}
	banned, err = users.IsBanned(42)
	if err != nil {
		t.Fatal(err)
	}
	if !banned {
		t.Fatal("user should be banned")
	}

	if err := users.Unban(42); err != nil {
		t.Fatal(err)
	}
	banned, _ = users.IsBanned(42)
	if banned {
		t.Fatal("user should be unbanned")
	}
}

func TestDeliveryLogFailureCount(t *testing.T) {
	db := openTestDB(t)
	deliveries := NewDeliveryLogRepo(db)

	if err := deliveries.Log(1, 1, "success", ""); err != nil {
		t.Fatal(err)
	}
	if err := deliveries.Log(1, 1, "failed", "send timeout"); err != nil {
		t.Fatal(err)
	}
	if err := deliveries.Log(2, 1, "failed", "chat blocked"); err != nil {
		t.Fatal(err)
	}

	n, err := deliveries.FailureCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("want 2 failures, got %d", n)
	}

	logs, err := deliveries.ListByUser(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("want 2 logs for user 1, got %d", len(logs))
	}
}
