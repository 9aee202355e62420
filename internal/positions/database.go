package positions

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrDinkelman185/FINCo/internal/types"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetPosition(accountID int64, symbol string) (*types.Position, error) {
	var position types.Position
	if err := d.db.Where("account_id = ? AND symbol = ?", accountID, symbol).First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{
				Entity: "position",
				Key:    fmt.Sprintf("%d/%s", accountID, symbol),
			}
		}
		return nil, err
	}
	return &position, nil
}

func (d *Database) ListByAccount(accountID int64) ([]types.Position, error) {
	var positions []types.Position
	if err := d.db.Where("account_id = ?", accountID).Order("symbol").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (d *Database) ListAll() ([]types.Position, error) {
	var positions []types.Position
	if err := d.db.Order("account_id, symbol").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (d *Database) UpdatePosition(position *types.Position) error {
	return d.db.Save(position).Error
}
