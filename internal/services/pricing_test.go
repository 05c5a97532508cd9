package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"flowmarket/internal/repos"
	"flowmarket/internal/services"
)

func memdbSettings(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE settings(key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		t.Fatal(err)
	}
	return db
}

func setSetting(t *testing.T, db *sqlx.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO settings(key,value) VALUES(?,?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value); err != nil {
		t.Fatal(err)
	}
}

func TestCurrentPriceTiers(t *testing.T) {
	cases := []struct {
		name    string
		counter string
		limit   string
		want    int64
	}{
		{"below limit", "10", "50", services.PriceEarlyBird},
		{"at limit", "50", "50", services.PriceRegular},
		{"above limit", "51", "50", services.PriceRegular},
		{"last slot", "49", "50", services.PriceEarlyBird},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := memdbSettings(t)
			setSetting(t, db, "early_bird_counter", tc.counter)
			setSetting(t, db, "early_bird_limit", tc.limit)
			svc := services.NewPricingService(repos.NewSettingsRepo(db))
			if got := svc.CurrentPrice(); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCurrentPriceMissingRowsUseDefaults(t *testing.T) {
	db := memdbSettings(t)
	// No counter row: counter defaults to 0, limit defaults to 50.
	svc := services.NewPricingService(repos.NewSettingsRepo(db))
	if got := svc.CurrentPrice(); got != services.PriceEarlyBird {
		t.Fatalf("want early bird with empty settings, got %d", got)
	}

	setSetting(t, db, "early_bird_counter", "50") // default limit reached
	if got := svc.CurrentPrice(); got != services.PriceRegular {
		t.Fatalf("want regular at default limit, got %d", got)
	}
}

func TestCurrentPriceFailsClosed(t *testing.T) {
	db := memdbSettings(t)
	setSetting(t, db, "early_bird_counter", "not-a-number")
	svc := services.NewPricingService(repos.NewSettingsRepo(db))
	if got := svc.CurrentPrice(); got != services.PriceRegular {
		t.Fatalf("malformed counter: want regular, got %d", got)
	}

	db2 := memdbSettings(t)
	svc2 := services.NewPricingService(repos.NewSettingsRepo(db2))
	db2.Close()
	if got := svc2.CurrentPrice(); got != services.PriceRegular {
		t.Fatalf("unreachable storage: want regular, got %d", got)
	}
}

func TestRecordPromoSale(t *testing.T) {
	db := memdbSettings(t)
	setSetting(t, db, "early_bird_counter", "3")
	settings := repos.NewSettingsRepo(db)
	svc := services.NewPricingService(settings)

	if err := svc.RecordPromoSale(); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordPromoSale(); err != nil {
		t.Fatal(err)
	}
	n, err := settings.GetInt("early_bird_counter")
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("want counter=5, got %d", n)
	}
}
