package accounts

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrDinkelman185/FINCo/internal/types"
)

// Database wraps account lookups. Account opening happens upstream; this
// service only reads accounts and seeds demo rows for local runs.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetAccount(accountID int64) (*types.Account, error) {
	var account types.Account
	if err := d.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Entity: "account", Key: fmt.Sprintf("%d", accountID)}
		}
		return nil, err
	}
	return &account, nil
}

func (d *Database) GetAccountByNumber(accountNumber string) (*types.Account, error) {
	var account types.Account
	if err := d.db.Where("account_number = ?", accountNumber).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Entity: "account", Key: accountNumber}
		}
		return nil, err
	}
	return &account, nil
}

// SeedDemoAccounts inserts a pair of active demo accounts when the table is
// empty, so the server and simulation have something to trade against.
func SeedDemoAccounts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&types.Account{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	demo := []types.Account{
		{
			AccountNumber: "ACC-10000001",
			AccountName:   "Demo Retail",
			AccountType:   "INDIVIDUAL",
			Balance:       decimal.NewFromInt(100000),
			Currency:      "USD",
			Status:        types.AccountStatusActive,
		},
		{
			AccountNumber: "ACC-10000002",
			AccountName:   "Demo Institutional",
			AccountType:   "INSTITUTIONAL",
			Balance:       decimal.NewFromInt(5000000),
			Currency:      "USD",
			Status:        types.AccountStatusActive,
		},
	}
	return db.Create(&demo).Error
}
