// Package validation implements the pre-trade validation gate: an ordered
// chain of rules run before an order is accepted. Richer compliance rules
// (trading hours, position limits, restricted lists, suitability) append to
// the chain without touching the order lifecycle manager.
package validation

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mrDinkelman185/FINCo/internal/types"
)

// Rule is a single pre-trade check. Validate returns a *types.ValidationError
// when the request must be rejected.
type Rule interface {
	Name() string
	Validate(req *types.OrderRequest) error
}

// Chain runs rules in registration order and stops at the first rejection.
// When disabled it approves everything; the flag comes from immutable
// configuration loaded at startup and defaults to enabled.
type Chain struct {
	enabled bool
	rules   []Rule
}

func NewChain(enabled bool, rules ...Rule) *Chain {
	return &Chain{enabled: enabled, rules: rules}
}

// DefaultChain is the stock rule set: symbol well-formedness, quantity
// positivity, and limit price presence for priced order types.
func DefaultChain(enabled bool) *Chain {
	return NewChain(enabled,
		SymbolRule{},
		QuantityRule{},
		LimitPriceRule{},
	)
}

// Append adds rules to the end of the chain.
func (c *Chain) Append(rules ...Rule) {
	c.rules = append(c.rules, rules...)
}

// Validate runs the chain against an order request.
func (c *Chain) Validate(req *types.OrderRequest) error {
	logger := log.With().Str("component", "validation").Str("symbol", req.Symbol).Logger()

	if !c.enabled {
		logger.Debug().Msg("validation chain disabled, skipping checks")
		return nil
	}

	for _, rule := range c.rules {
		if err := rule.Validate(req); err != nil {
			logger.Info().Err(err).Str("rule", rule.Name()).Msg("order rejected by validation rule")
			return err
		}
	}

	logger.Debug().Int("rules", len(c.rules)).Msg("validation checks passed")
	return nil
}

// SymbolRule rejects empty or blank symbols.
type SymbolRule struct{}

func (SymbolRule) Name() string { return "symbol" }

func (SymbolRule) Validate(req *types.OrderRequest) error {
	if strings.TrimSpace(req.Symbol) == "" {
		return &types.ValidationError{
			Reason:  types.ReasonInvalidSymbol,
			Message: "symbol must not be blank",
		}
	}
	return nil
}

// QuantityRule rejects non-positive quantities.
type QuantityRule struct{}

func (QuantityRule) Name() string { return "quantity" }

func (QuantityRule) Validate(req *types.OrderRequest) error {
	if req.Quantity.Sign() <= 0 {
		return &types.ValidationError{
			Reason:  types.ReasonInvalidQuantity,
			Message: "quantity must be strictly positive",
		}
	}
	return nil
}

// LimitPriceRule requires a price on order types that execute against one.
type LimitPriceRule struct{}

func (LimitPriceRule) Name() string { return "limit_price" }

func (LimitPriceRule) Validate(req *types.OrderRequest) error {
	orderType, err := types.ParseOrderType(req.OrderType)
	if err != nil {
		// Unknown types are rejected at the service boundary before the
		// chain runs; nothing to check here.
		return nil
	}
	if orderType.RequiresLimitPrice() && req.Price == nil {
		return &types.ValidationError{
			Reason:  types.ReasonMissingLimitPrice,
			Message: "price is required for " + string(orderType) + " orders",
		}
	}
	return nil
}
