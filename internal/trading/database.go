package trading

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrDinkelman185/FINCo/internal/types"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateOrder(order *types.Order) error {
	return d.db.Create(order).Error
}

func (d *Database) GetOrder(orderCode string) (*types.Order, error) {
	var order types.Order
	if err := d.db.Where("order_code = ?", orderCode).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Entity: "order", Key: orderCode}
		}
		return nil, err
	}
	return &order, nil
}

func (d *Database) ListByAccount(accountID int64) ([]types.Order, error) {
	var orders []types.Order
	if err := d.db.Where("account_id = ?", accountID).Order("created_at").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (d *Database) ListAll() ([]types.Order, error) {
	var orders []types.Order
	if err := d.db.Order("created_at").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (d *Database) UpdateOrder(order *types.Order) error {
	return d.db.Save(order).Error
}

func (d *Database) ListFills(orderCode string) ([]types.Fill, error) {
	var fills []types.Fill
	if err := d.db.Where("order_code = ?", orderCode).Order("created_at").Find(&fills).Error; err != nil {
		return nil, err
	}
	return fills, nil
}

// Transaction runs fn in a single database transaction. ApplyFill uses it to
// commit the order update, the fill record, and the position update
// together.
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.db.Transaction(fn)
}
