// Package positions maintains per-account, per-symbol position aggregates
// derived from fills, and serves position reads.
package positions

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrDinkelman185/FINCo/internal/types"
)

// Apply folds a fill into the position for (accountID, symbol) inside the
// given transaction, creating the row lazily on the first fill. The caller
// owns the transaction; the order update and position update commit or roll
// back together.
func Apply(tx *gorm.DB, accountID int64, symbol string, side types.Side, quantity, price decimal.Decimal) (*types.Position, error) {
	var position types.Position
	err := tx.Where("account_id = ? AND symbol = ?", accountID, symbol).First(&position).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		position = types.Position{
			AccountID:    accountID,
			Symbol:       symbol,
			Quantity:     decimal.Zero,
			AveragePrice: decimal.Zero,
			RealizedPnl:  decimal.Zero,
		}
		aggregate(&position, side, quantity, price)
		if err := tx.Create(&position).Error; err != nil {
			return nil, err
		}
		return &position, nil
	}

	aggregate(&position, side, quantity, price)
	if err := tx.Save(&position).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// aggregate applies one fill to a position in place.
//
// Same-direction fills grow the position and re-weight the average entry
// price. Opposite-direction fills realize P&L on the closed portion at
// closedQty × (fillPrice − averagePrice) × sign(position); a fill larger
// than the open quantity flips the position, with the remainder opening at
// the fill price. A fully closed position rests at zero quantity with its
// average price reset.
func aggregate(p *types.Position, side types.Side, quantity, price decimal.Decimal) {
	signed := quantity
	if side == types.SideSell {
		signed = quantity.Neg()
	}

	switch {
	case p.Quantity.IsZero():
		p.Quantity = signed
		p.AveragePrice = price

	case p.Quantity.Sign() == signed.Sign():
		oldAbs := p.Quantity.Abs()
		newAbs := oldAbs.Add(quantity)
		p.AveragePrice = p.AveragePrice.Mul(oldAbs).Add(price.Mul(quantity)).Div(newAbs)
		p.Quantity = p.Quantity.Add(signed)

	default:
		closed := decimal.Min(quantity, p.Quantity.Abs())
		direction := decimal.NewFromInt(int64(p.Quantity.Sign()))
		p.RealizedPnl = p.RealizedPnl.Add(closed.Mul(price.Sub(p.AveragePrice)).Mul(direction))

		p.Quantity = p.Quantity.Add(signed)
		if p.Quantity.IsZero() {
			p.AveragePrice = decimal.Zero
		} else if p.Quantity.Sign() == signed.Sign() {
			// Flipped through zero: the remainder is a fresh position.
			p.AveragePrice = price
		}
	}
}

// MarkToMarket recomputes the derived valuation fields against an externally
// supplied market price.
func MarkToMarket(quantity, averagePrice, marketPrice decimal.Decimal) (marketValue, unrealizedPnl decimal.Decimal) {
	marketValue = quantity.Mul(marketPrice)
	unrealizedPnl = quantity.Mul(marketPrice.Sub(averagePrice))
	return marketValue, unrealizedPnl
}
