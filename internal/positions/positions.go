package positions

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrDinkelman185/FINCo/internal/cache"
	"github.com/mrDinkelman185/FINCo/internal/types"
	"github.com/mrDinkelman185/FINCo/pkg/response"
)

// Service serves position reads through the cache and refreshes valuations.
// Position mutation happens only through Apply, driven by the order
// lifecycle manager's fill handling.
type Service struct {
	db    *Database
	cache *cache.Cache
}

func NewService(gormDB *gorm.DB, c *cache.Cache) *Service {
	return &Service{
		db:    NewDatabase(gormDB),
		cache: c,
	}
}

// GetPosition retrieves the position for one (account, symbol) pair.
func (s *Service) GetPosition(accountID int64, symbol string) (*types.Position, error) {
	key := cache.Key("position", strconv.FormatInt(accountID, 10), symbol)
	if v, ok := s.cache.Get(cache.NamespacePositions, key); ok {
		return v.(*types.Position), nil
	}

	position, err := s.db.GetPosition(accountID, symbol)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.NamespacePositions, key, position)
	return position, nil
}

// ListPositions lists positions, optionally scoped to one account.
func (s *Service) ListPositions(accountID *int64) ([]types.Position, error) {
	key := cache.Key("list", "all")
	if accountID != nil {
		key = cache.Key("list", strconv.FormatInt(*accountID, 10))
	}
	if v, ok := s.cache.Get(cache.NamespacePositions, key); ok {
		return v.([]types.Position), nil
	}

	var (
		positions []types.Position
		err       error
	)
	if accountID != nil {
		positions, err = s.db.ListByAccount(*accountID)
	} else {
		positions, err = s.db.ListAll()
	}
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.NamespacePositions, key, positions)
	return positions, nil
}

// RefreshValuation recomputes market value and unrealized P&L for a position
// against an externally supplied market price, then persists the result.
func (s *Service) RefreshValuation(accountID int64, symbol string, marketPrice decimal.Decimal) (*types.Position, error) {
	position, err := s.db.GetPosition(accountID, symbol)
	if err != nil {
		return nil, err
	}

	position.MarketValue, position.UnrealizedPnl = MarkToMarket(position.Quantity, position.AveragePrice, marketPrice)
	if err := s.db.UpdatePosition(position); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.NamespacePositions)

	log.Debug().
		Str("component", "positions").
		Int64("account_id", accountID).
		Str("symbol", symbol).
		Str("market_price", marketPrice.String()).
		Str("market_value", position.MarketValue.String()).
		Msg("position valuation refreshed")

	return position, nil
}

// GinHandlers contains HTTP handlers for position endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for position endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// ListPositionsHandler handles GET requests for positions
// Optional query parameter: account_id
func (h *GinHandlers) ListPositionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var accountID *int64
		if raw := c.Query("account_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				response.BadRequest(c, "Invalid account_id")
				return
			}
			accountID = &id
		}

		positions, err := h.service.ListPositions(accountID)
		response.Handle(c, positions, err)
	}
}

// GetPositionHandler handles GET requests for a single position
// URL parameter: symbol; required query parameter: account_id
func (h *GinHandlers) GetPositionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := strconv.ParseInt(c.Query("account_id"), 10, 64)
		if err != nil {
			response.BadRequest(c, "account_id is required")
			return
		}

		position, err := h.service.GetPosition(accountID, c.Param("symbol"))
		response.Handle(c, position, err)
	}
}

// RefreshValuationHandler handles POST requests from the pricing feed to
// mark a position to market
// URL parameter: symbol; body: ValuationRequest
func (h *GinHandlers) RefreshValuationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ValuationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		position, err := h.service.RefreshValuation(req.AccountID, c.Param("symbol"), req.MarketPrice)
		response.Handle(c, position, err)
	}
}
