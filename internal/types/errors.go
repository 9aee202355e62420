package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation rejection reasons. These travel to the caller inside
// ValidationError so rejections are explainable without log access.
const (
	ReasonInvalidSymbol      = "INVALID_SYMBOL"
	ReasonInvalidQuantity    = "INVALID_QUANTITY"
	ReasonMissingLimitPrice  = "MISSING_LIMIT_PRICE"
	ReasonInvalidSide        = "INVALID_SIDE"
	ReasonInvalidOrderType   = "INVALID_ORDER_TYPE"
	ReasonInvalidTimeInForce = "INVALID_TIME_IN_FORCE"
	ReasonInvalidStatus      = "INVALID_STATUS"
	ReasonAccountNotTradable = "ACCOUNT_NOT_TRADABLE"
)

// ValidationError rejects an order pre-trade. User-correctable.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %s", e.Reason, e.Message)
}

// NotFoundError reports an unknown entity key.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// IllegalTransitionError reports an operation that is not legal for the
// order's current status.
type IllegalTransitionError struct {
	OrderCode string
	Status    OrderStatus
	Operation string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot %s order %s in status %s", e.Operation, e.OrderCode, e.Status)
}

// OverFillError reports a fill that would exceed the order's remaining
// quantity. This indicates an upstream data or integration bug and is
// surfaced rather than clamped.
type OverFillError struct {
	OrderCode string
	Remaining decimal.Decimal
	Requested decimal.Decimal
}

func (e *OverFillError) Error() string {
	return fmt.Sprintf("fill of %s exceeds remaining quantity %s on order %s",
		e.Requested.String(), e.Remaining.String(), e.OrderCode)
}
