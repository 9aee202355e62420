// Package trading implements the order lifecycle manager: order intake
// through the validation gate, the status state machine, and fill
// application coordinated with the position aggregator.
package trading

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrDinkelman185/FINCo/internal/cache"
	"github.com/mrDinkelman185/FINCo/internal/positions"
	"github.com/mrDinkelman185/FINCo/internal/types"
	"github.com/mrDinkelman185/FINCo/internal/validation"
	"github.com/mrDinkelman185/FINCo/internal/venue"
)

// Service handles order lifecycle operations
type Service struct {
	db    *Database
	cache *cache.Cache
	gate  *validation.Chain
	venue venue.Client
	locks *keyedLocks
}

// NewService creates a new trading service with the given database
// connection, cache, validation chain and execution venue client
func NewService(gormDB *gorm.DB, c *cache.Cache, gate *validation.Chain, venueClient venue.Client) *Service {
	return &Service{
		db:    NewDatabase(gormDB),
		cache: c,
		gate:  gate,
		venue: venueClient,
		locks: newKeyedLocks(),
	}
}

// generateOrderCode allocates a human-shareable order code: the ORD- prefix
// plus the first eight hex characters of a fresh UUID, uppercased.
func generateOrderCode() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// CreateOrder validates an order request and persists the accepted order in
// PENDING state. Rejected requests return a ValidationError and persist
// nothing.
func (s *Service) CreateOrder(req *types.OrderRequest) (*types.Order, error) {
	logger := log.With().
		Str("component", "trading").
		Int64("account_id", req.AccountID).
		Str("symbol", req.Symbol).
		Logger()

	// Reject unknown enumeration values at the boundary.
	side, err := types.ParseSide(req.Side)
	if err != nil {
		return nil, err
	}
	orderType, err := types.ParseOrderType(req.OrderType)
	if err != nil {
		return nil, err
	}
	tif, err := types.ParseTimeInForce(req.TimeInForce)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Validate(req); err != nil {
		return nil, err
	}

	order := &types.Order{
		OrderCode:      generateOrderCode(),
		AccountID:      req.AccountID,
		Symbol:         req.Symbol,
		OrderType:      orderType,
		Side:           side,
		Quantity:       req.Quantity,
		Status:         types.StatusPending,
		FilledQuantity: decimal.Zero,
		TimeInForce:    tif,
	}
	if req.Price != nil {
		order.Price = decimal.NullDecimal{Decimal: *req.Price, Valid: true}
	}

	if err := s.db.CreateOrder(order); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.NamespaceOrders)

	if err := s.venue.SendOrder(order); err != nil {
		logger.Warn().Err(err).Str("order_code", order.OrderCode).Msg("venue notification failed")
	}

	logger.Info().
		Str("order_code", order.OrderCode).
		Str("side", string(side)).
		Str("order_type", string(orderType)).
		Str("quantity", order.Quantity.String()).
		Msg("order created")

	return order, nil
}

// GetOrder retrieves an order by its order code
func (s *Service) GetOrder(orderCode string) (*types.Order, error) {
	key := cache.Key("order", orderCode)
	if v, ok := s.cache.Get(cache.NamespaceOrders, key); ok {
		return v.(*types.Order), nil
	}

	order, err := s.db.GetOrder(orderCode)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.NamespaceOrders, key, order)
	return order, nil
}

// ListOrders lists orders, optionally scoped to one account.
func (s *Service) ListOrders(accountID *int64) ([]types.Order, error) {
	key := cache.Key("list", "all")
	if accountID != nil {
		key = cache.Key("list", strconv.FormatInt(*accountID, 10))
	}
	if v, ok := s.cache.Get(cache.NamespaceOrders, key); ok {
		return v.([]types.Order), nil
	}

	var (
		orders []types.Order
		err    error
	)
	if accountID != nil {
		orders, err = s.db.ListByAccount(*accountID)
	} else {
		orders, err = s.db.ListAll()
	}
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.NamespaceOrders, key, orders)
	return orders, nil
}

// AmendOrder applies price and/or quantity changes to a PENDING order.
// Absent fields are left untouched. Amendment does not re-run the
// validation chain; a non-positive amended quantity is still rejected so
// the stored invariant holds.
func (s *Service) AmendOrder(orderCode string, changes *types.AmendRequest) (*types.Order, error) {
	release := s.locks.acquire(orderCode)
	defer release()

	order, err := s.db.GetOrder(orderCode)
	if err != nil {
		return nil, err
	}

	if order.Status != types.StatusPending {
		return nil, &types.IllegalTransitionError{
			OrderCode: orderCode,
			Status:    order.Status,
			Operation: "amend",
		}
	}

	if changes.Quantity != nil {
		if changes.Quantity.Sign() <= 0 {
			return nil, &types.ValidationError{
				Reason:  types.ReasonInvalidQuantity,
				Message: "amended quantity must be strictly positive",
			}
		}
		order.Quantity = *changes.Quantity
	}
	if changes.Price != nil {
		order.Price = decimal.NullDecimal{Decimal: *changes.Price, Valid: true}
	}

	if err := s.db.UpdateOrder(order); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.NamespaceOrders)

	log.Info().
		Str("component", "trading").
		Str("order_code", orderCode).
		Msg("order amended")

	return order, nil
}

// CancelOrder moves an order to CANCELLED. Legal from PENDING and
// PARTIALLY_FILLED only; FILLED, CANCELLED and REJECTED are terminal. The
// record is kept, never deleted.
func (s *Service) CancelOrder(orderCode string) error {
	release := s.locks.acquire(orderCode)
	defer release()

	order, err := s.db.GetOrder(orderCode)
	if err != nil {
		return err
	}

	if !order.Status.CanTransitionTo(types.StatusCancelled) {
		return &types.IllegalTransitionError{
			OrderCode: orderCode,
			Status:    order.Status,
			Operation: "cancel",
		}
	}

	order.Status = types.StatusCancelled
	order.UpdatedAt = time.Now()
	if err := s.db.UpdateOrder(order); err != nil {
		return err
	}
	s.cache.Invalidate(cache.NamespaceOrders)

	if err := s.venue.CancelOrder(orderCode); err != nil {
		log.Warn().Err(err).Str("order_code", orderCode).Msg("venue cancel notification failed")
	}

	log.Info().
		Str("component", "trading").
		Str("order_code", orderCode).
		Msg("order cancelled")

	return nil
}

// ApplyFill applies an execution from the external feed to an order and its
// position. The order update, the fill audit row, and the position update
// commit in one transaction: either all are visible or none.
func (s *Service) ApplyFill(orderCode string, fillQuantity, fillPrice decimal.Decimal) (*types.Order, error) {
	release := s.locks.acquire(orderCode)
	defer release()

	order, err := s.db.GetOrder(orderCode)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		return nil, &types.IllegalTransitionError{
			OrderCode: orderCode,
			Status:    order.Status,
			Operation: "fill",
		}
	}
	if fillQuantity.Sign() <= 0 {
		return nil, &types.ValidationError{
			Reason:  types.ReasonInvalidQuantity,
			Message: "fill quantity must be strictly positive",
		}
	}

	remaining := order.RemainingQuantity()
	if fillQuantity.GreaterThan(remaining) {
		return nil, &types.OverFillError{
			OrderCode: orderCode,
			Remaining: remaining,
			Requested: fillQuantity,
		}
	}

	// Quantity-weighted mean across all fills to date.
	previousNotional := decimal.Zero
	if order.AverageFillPrice.Valid {
		previousNotional = order.AverageFillPrice.Decimal.Mul(order.FilledQuantity)
	}
	newFilled := order.FilledQuantity.Add(fillQuantity)
	newAverage := previousNotional.Add(fillPrice.Mul(fillQuantity)).Div(newFilled)

	order.FilledQuantity = newFilled
	order.AverageFillPrice = decimal.NullDecimal{Decimal: newAverage, Valid: true}
	if newFilled.Equal(order.Quantity) {
		order.Status = types.StatusFilled
	} else {
		order.Status = types.StatusPartiallyFilled
	}
	if order.ExecutedAt == nil {
		now := time.Now()
		order.ExecutedAt = &now
	}

	fill := &types.Fill{
		FillID:    "FILL-" + strings.ToUpper(uuid.New().String()[:8]),
		OrderCode: orderCode,
		Quantity:  fillQuantity,
		Price:     fillPrice,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		if err := tx.Create(fill).Error; err != nil {
			return err
		}
		_, err := positions.Apply(tx, order.AccountID, order.Symbol, order.Side, fillQuantity, fillPrice)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.NamespaceOrders, cache.NamespacePositions)

	log.Info().
		Str("component", "trading").
		Str("order_code", orderCode).
		Str("fill_id", fill.FillID).
		Str("fill_quantity", fillQuantity.String()).
		Str("fill_price", fillPrice.String()).
		Str("status", string(order.Status)).
		Msg("fill applied")

	return order, nil
}
