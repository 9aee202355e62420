package types

import "testing"

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from  OrderStatus
		to    OrderStatus
		legal bool
	}{
		{StatusPending, StatusPartiallyFilled, true},
		{StatusPending, StatusFilled, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRejected, true},
		{StatusPartiallyFilled, StatusPartiallyFilled, true},
		{StatusPartiallyFilled, StatusFilled, true},
		{StatusPartiallyFilled, StatusCancelled, true},
		{StatusPartiallyFilled, StatusRejected, false},
		{StatusFilled, StatusCancelled, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		// A rejected order was never live; it cannot be cancelled.
		{StatusRejected, StatusCancelled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.legal {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.legal)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []OrderStatus{StatusFilled, StatusCancelled, StatusRejected} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []OrderStatus{StatusPending, StatusPartiallyFilled} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestParseRejectsUnknownValues(t *testing.T) {
	if _, err := ParseOrderStatus("SHIPPED"); err == nil {
		t.Error("unknown status accepted")
	}
	if _, err := ParseSide("HOLD"); err == nil {
		t.Error("unknown side accepted")
	}
	if _, err := ParseOrderType("ICEBERG"); err == nil {
		t.Error("unknown order type accepted")
	}
	if _, err := ParseTimeInForce("GTD"); err == nil {
		t.Error("unknown time in force accepted")
	}
}

func TestParseTimeInForceDefaultsToDay(t *testing.T) {
	tif, err := ParseTimeInForce("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tif != TIFDay {
		t.Errorf("got %s, want %s", tif, TIFDay)
	}
}

func TestRequiresLimitPrice(t *testing.T) {
	if !TypeLimit.RequiresLimitPrice() || !TypeStopLimit.RequiresLimitPrice() {
		t.Error("LIMIT and STOP_LIMIT require a price")
	}
	if TypeMarket.RequiresLimitPrice() || TypeStop.RequiresLimitPrice() {
		t.Error("MARKET and STOP do not require a price")
	}
}
