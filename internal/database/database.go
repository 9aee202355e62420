package database

import (
	"github.com/mrDinkelman185/FINCo/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase initializes and returns a new GORM DB connection
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies the schema: orders unique by order code, positions unique
// per (account, symbol), fill audit rows, and accounts.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Account{},
		&types.Order{},
		&types.Fill{},
		&types.Position{},
	)
}
