package types

// OrderStatus is a closed enumeration over order lifecycle states. The
// original free-text status strings are rejected at the boundary; anything
// not produced by ParseOrderStatus never enters the system.
type OrderStatus string

const (
	StatusPending         OrderStatus = "PENDING"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusRejected        OrderStatus = "REJECTED"
)

// orderTransitions is the legal state machine. FILLED, CANCELLED and
// REJECTED are terminal; in particular a REJECTED order cannot be cancelled.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:         {StatusPartiallyFilled, StatusFilled, StatusCancelled, StatusRejected},
	StatusPartiallyFilled: {StatusPartiallyFilled, StatusFilled, StatusCancelled},
	StatusFilled:          {},
	StatusCancelled:       {},
	StatusRejected:        {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case StatusPending, StatusPartiallyFilled, StatusFilled, StatusCancelled, StatusRejected:
		return OrderStatus(raw), nil
	}
	return "", &ValidationError{Reason: ReasonInvalidStatus, Message: "unknown order status: " + raw}
}

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func ParseSide(raw string) (Side, error) {
	switch Side(raw) {
	case SideBuy, SideSell:
		return Side(raw), nil
	}
	return "", &ValidationError{Reason: ReasonInvalidSide, Message: "unknown side: " + raw}
}

// OrderType distinguishes how an order prices its execution.
type OrderType string

const (
	TypeMarket    OrderType = "MARKET"
	TypeLimit     OrderType = "LIMIT"
	TypeStop      OrderType = "STOP"
	TypeStopLimit OrderType = "STOP_LIMIT"
)

// RequiresLimitPrice reports whether orders of this type must carry a price.
func (t OrderType) RequiresLimitPrice() bool {
	return t == TypeLimit || t == TypeStopLimit
}

func ParseOrderType(raw string) (OrderType, error) {
	switch OrderType(raw) {
	case TypeMarket, TypeLimit, TypeStop, TypeStopLimit:
		return OrderType(raw), nil
	}
	return "", &ValidationError{Reason: ReasonInvalidOrderType, Message: "unknown order type: " + raw}
}

// TimeInForce governs how long an unfilled order stays active.
type TimeInForce string

const (
	TIFDay TimeInForce = "DAY"
	TIFGTC TimeInForce = "GTC"
	TIFIOC TimeInForce = "IOC"
	TIFFOK TimeInForce = "FOK"
)

// ParseTimeInForce defaults an unspecified value to DAY.
func ParseTimeInForce(raw string) (TimeInForce, error) {
	if raw == "" {
		return TIFDay, nil
	}
	switch TimeInForce(raw) {
	case TIFDay, TIFGTC, TIFIOC, TIFFOK:
		return TimeInForce(raw), nil
	}
	return "", &ValidationError{Reason: ReasonInvalidTimeInForce, Message: "unknown time in force: " + raw}
}
