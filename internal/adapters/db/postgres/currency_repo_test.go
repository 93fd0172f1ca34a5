package postgres

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	customErrors "github.com/pmelnyk/currency-service/internal/domain/errors"
)

func setupCurrencyDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// same shape as the SQL migration, foreign keys included
	for _, stmt := range []string{
		`CREATE TABLE currencies (
			symbol TEXT PRIMARY KEY,
			name   TEXT NOT NULL
		)`,
		`CREATE TABLE exchange_rates (
			base_symbol   TEXT NOT NULL REFERENCES currencies (symbol) ON DELETE CASCADE,
			target_symbol TEXT NOT NULL REFERENCES currencies (symbol) ON DELETE CASCADE,
			rate          REAL NOT NULL,
			PRIMARY KEY (base_symbol, target_symbol)
		)`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func TestCurrencyRepo_CreateAndConflict(t *testing.T) {
	repo := NewCurrencyRepo(setupCurrencyDB(t))
	ctx := context.Background()

	cur, err := repo.CreateCurrency(ctx, "USD", "US Dollar")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cur.Rates["USD"] != 1 {
		t.Fatalf("self rate: want 1, got %v", cur.Rates["USD"])
	}

	if _, err := repo.CreateCurrency(ctx, "USD", "US Dollar"); !customErrors.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestCurrencyRepo_SetRateReciprocal(t *testing.T) {
	repo := NewCurrencyRepo(setupCurrencyDB(t))
	ctx := context.Background()

	mustCreate(t, repo, "USD", "EUR")

	if err := repo.SetRate(ctx, "USD", "EUR", 0.9); err != nil {
		t.Fatalf("set rate: %v", err)
	}

	usd, err := repo.GetCurrency(ctx, "USD")
	if err != nil {
		t.Fatalf("get USD: %v", err)
	}
	eur, err := repo.GetCurrency(ctx, "EUR")
	if err != nil {
		t.Fatalf("get EUR: %v", err)
	}
	if usd.Rates["EUR"] != 0.9 {
		t.Fatalf("USD→EUR: want 0.9, got %v", usd.Rates["EUR"])
	}
	if eur.Rates["USD"] != 1/0.9 {
		t.Fatalf("EUR→USD: want %v, got %v", 1/0.9, eur.Rates["USD"])
	}

	// overwrite updates both directions
	if err := repo.SetRate(ctx, "USD", "EUR", 2); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	eur, _ = repo.GetCurrency(ctx, "EUR")
	if eur.Rates["USD"] != 0.5 {
		t.Fatalf("EUR→USD after overwrite: want 0.5, got %v", eur.Rates["USD"])
	}
}

func TestCurrencyRepo_SetRateMissingCurrency(t *testing.T) {
	repo := NewCurrencyRepo(setupCurrencyDB(t))
	ctx := context.Background()

	mustCreate(t, repo, "USD")

	if err := repo.SetRate(ctx, "USD", "EUR", 0.9); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.SetRate(ctx, "GBP", "USD", 0.9); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	// failed pair write must not leave a one-sided edge behind
	usd, err := repo.GetCurrency(ctx, "USD")
	if err != nil {
		t.Fatalf("get USD: %v", err)
	}
	if len(usd.Rates) != 1 {
		t.Fatalf("expected only the self edge, got %v", usd.Rates)
	}
}

func TestCurrencyRepo_DeleteRateSymmetric(t *testing.T) {
	repo := NewCurrencyRepo(setupCurrencyDB(t))
	ctx := context.Background()

	mustCreate(t, repo, "USD", "EUR")
	if err := repo.SetRate(ctx, "USD", "EUR", 0.9); err != nil {
		t.Fatalf("set rate: %v", err)
	}

	if err := repo.DeleteRate(ctx, "USD", "EUR"); err != nil {
		t.Fatalf("delete rate: %v", err)
	}

	usd, _ := repo.GetCurrency(ctx, "USD")
	eur, _ := repo.GetCurrency(ctx, "EUR")
	if _, ok := usd.Rates["EUR"]; ok {
		t.Fatal("USD→EUR edge survived delete")
	}
	if _, ok := eur.Rates["USD"]; ok {
		t.Fatal("EUR→USD edge survived delete")
	}

	if err := repo.DeleteRate(ctx, "USD", "EUR"); !customErrors.IsNotFound(err) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
}

func TestCurrencyRepo_DeleteRateMissing(t *testing.T) {
	repo := NewCurrencyRepo(setupCurrencyDB(t))
	ctx := context.Background()

	mustCreate(t, repo, "USD", "EUR")

	if err := repo.DeleteRate(ctx, "USD", "GBP"); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found for missing currency, got %v", err)
	}
	if err := repo.DeleteRate(ctx, "USD", "EUR"); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found for missing edge, got %v", err)
	}
}

func TestCurrencyRepo_DeleteCurrencyCascades(t *testing.T) {
	repo := NewCurrencyRepo(setupCurrencyDB(t))
	ctx := context.Background()

	mustCreate(t, repo, "USD", "EUR", "GBP")
	if err := repo.SetRate(ctx, "USD", "EUR", 0.9); err != nil {
		t.Fatalf("set rate: %v", err)
	}
	if err := repo.SetRate(ctx, "GBP", "EUR", 1.2); err != nil {
		t.Fatalf("set rate: %v", err)
	}

	if err := repo.DeleteCurrency(ctx, "EUR"); err != nil {
		t.Fatalf("delete currency: %v", err)
	}

	list, err := repo.ListCurrencies(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, cur := range list {
		if cur.Symbol == "EUR" {
			t.Fatal("EUR still listed")
		}
		if _, ok := cur.Rates["EUR"]; ok {
			t.Fatalf("%s still holds an EUR edge", cur.Symbol)
		}
	}

	if err := repo.DeleteCurrency(ctx, "EUR"); !customErrors.IsNotFound(err) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
}

// The schema itself refuses edges to a currency that no longer exists, so a
// delete committing between an existence check and an edge write cannot leave
// the graph dangling.
func TestCurrencyRepo_EdgeRequiresCurrency(t *testing.T) {
	db := setupCurrencyDB(t)
	repo := NewCurrencyRepo(db)
	ctx := context.Background()

	mustCreate(t, repo, "USD")

	// a write that bypasses the repository is still rejected
	err := db.Exec(`INSERT INTO exchange_rates (base_symbol, target_symbol, rate) VALUES ('USD', 'EUR', 0.9)`).Error
	if err == nil {
		t.Fatal("expected foreign key violation for edge to missing currency")
	}

	if err := repo.SetRate(ctx, "USD", "EUR", 0.9); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	usd, err := repo.GetCurrency(ctx, "USD")
	if err != nil {
		t.Fatalf("get USD: %v", err)
	}
	if len(usd.Rates) != 1 {
		t.Fatalf("expected only the self edge, got %v", usd.Rates)
	}
}

// Even a currency delete that bypasses the repository takes its edges with it.
func TestCurrencyRepo_SchemaCascadesEdges(t *testing.T) {
	db := setupCurrencyDB(t)
	repo := NewCurrencyRepo(db)
	ctx := context.Background()

	mustCreate(t, repo, "USD", "EUR")
	if err := repo.SetRate(ctx, "USD", "EUR", 0.9); err != nil {
		t.Fatalf("set rate: %v", err)
	}

	if err := db.Exec(`DELETE FROM currencies WHERE symbol = 'EUR'`).Error; err != nil {
		t.Fatalf("raw delete: %v", err)
	}

	usd, err := repo.GetCurrency(ctx, "USD")
	if err != nil {
		t.Fatalf("get USD: %v", err)
	}
	if _, ok := usd.Rates["EUR"]; ok {
		t.Fatal("USD still holds an edge to the deleted currency")
	}
}

func TestCurrencyRepo_GetMissing(t *testing.T) {
	repo := NewCurrencyRepo(setupCurrencyDB(t))
	if _, err := repo.GetCurrency(context.Background(), "USD"); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCurrencyRepo_ListIncludesSelfEdges(t *testing.T) {
	repo := NewCurrencyRepo(setupCurrencyDB(t))
	ctx := context.Background()

	mustCreate(t, repo, "USD", "EUR")

	list, err := repo.ListCurrencies(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 currencies, got %d", len(list))
	}
	for _, cur := range list {
		if cur.Rates[cur.Symbol] != 1 {
			t.Fatalf("%s self rate: want 1, got %v", cur.Symbol, cur.Rates[cur.Symbol])
		}
	}
}

func mustCreate(t *testing.T, repo *CurrencyRepo, symbols ...string) {
	t.Helper()
	for _, s := range symbols {
		if _, err := repo.CreateCurrency(context.Background(), s, s); err != nil {
			t.Fatalf("create %s: %v", s, err)
		}
	}
}
