package accounts

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrDinkelman185/FINCo/internal/database"
	"github.com/mrDinkelman185/FINCo/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "accounts.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func TestActiveAccountRule(t *testing.T) {
	db := newTestDB(t)
	accounts := []types.Account{
		{AccountNumber: "ACC-1", AccountName: "Active", AccountType: "INDIVIDUAL",
			Balance: decimal.NewFromInt(1000), Currency: "USD", Status: types.AccountStatusActive},
		{AccountNumber: "ACC-2", AccountName: "Suspended", AccountType: "INDIVIDUAL",
			Balance: decimal.NewFromInt(1000), Currency: "USD", Status: types.AccountStatusSuspended},
	}
	if err := db.Create(&accounts).Error; err != nil {
		t.Fatalf("seed accounts: %v", err)
	}

	rule := NewActiveAccountRule(NewDatabase(db))

	if err := rule.Validate(&types.OrderRequest{AccountID: int64(accounts[0].ID)}); err != nil {
		t.Errorf("active account rejected: %v", err)
	}

	var verr *types.ValidationError
	err := rule.Validate(&types.OrderRequest{AccountID: int64(accounts[1].ID)})
	if !errors.As(err, &verr) || verr.Reason != types.ReasonAccountNotTradable {
		t.Errorf("suspended account: got %v", err)
	}

	err = rule.Validate(&types.OrderRequest{AccountID: 9999})
	if !errors.As(err, &verr) || verr.Reason != types.ReasonAccountNotTradable {
		t.Errorf("unknown account: got %v", err)
	}
}

func TestSeedDemoAccountsIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := SeedDemoAccounts(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := SeedDemoAccounts(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var count int64
	if err := db.Model(&types.Account{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 seeded accounts, got %d", count)
	}
}
