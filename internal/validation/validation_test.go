package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mrDinkelman185/FINCo/internal/types"
)

func validRequest() *types.OrderRequest {
	price := decimal.NewFromFloat(10.50)
	return &types.OrderRequest{
		AccountID: 1,
		Symbol:    "AAPL",
		OrderType: "LIMIT",
		Side:      "BUY",
		Quantity:  decimal.NewFromInt(100),
		Price:     &price,
	}
}

func TestDefaultChainAccepts(t *testing.T) {
	if err := DefaultChain(true).Validate(validRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestRejectsBlankSymbol(t *testing.T) {
	for _, symbol := range []string{"", "   ", "\t"} {
		req := validRequest()
		req.Symbol = symbol
		err := DefaultChain(true).Validate(req)

		var verr *types.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("symbol %q: expected ValidationError, got %v", symbol, err)
		}
		if verr.Reason != types.ReasonInvalidSymbol {
			t.Errorf("symbol %q: reason = %s", symbol, verr.Reason)
		}
	}
}

func TestRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		req := validRequest()
		req.Quantity = qty
		err := DefaultChain(true).Validate(req)

		var verr *types.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("qty %s: expected ValidationError, got %v", qty, err)
		}
		if verr.Reason != types.ReasonInvalidQuantity {
			t.Errorf("qty %s: reason = %s", qty, verr.Reason)
		}
	}
}

func TestRequiresLimitPrice(t *testing.T) {
	for _, orderType := range []string{"LIMIT", "STOP_LIMIT"} {
		req := validRequest()
		req.OrderType = orderType
		req.Price = nil
		err := DefaultChain(true).Validate(req)

		var verr *types.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", orderType, err)
		}
		if verr.Reason != types.ReasonMissingLimitPrice {
			t.Errorf("%s: reason = %s", orderType, verr.Reason)
		}
	}

	// Market orders carry no price.
	req := validRequest()
	req.OrderType = "MARKET"
	req.Price = nil
	if err := DefaultChain(true).Validate(req); err != nil {
		t.Errorf("market order without price rejected: %v", err)
	}
}

func TestDisabledChainBypassesAllRules(t *testing.T) {
	req := validRequest()
	req.Symbol = ""
	req.Quantity = decimal.NewFromInt(-1)

	if err := DefaultChain(false).Validate(req); err != nil {
		t.Fatalf("disabled chain should approve everything, got %v", err)
	}
}

// failRule always rejects, used to prove ordering and extensibility.
type failRule struct{ reason string }

func (r failRule) Name() string { return "fail" }
func (r failRule) Validate(*types.OrderRequest) error {
	return &types.ValidationError{Reason: r.reason, Message: "nope"}
}

func TestAppendedRuleRunsAfterDefaults(t *testing.T) {
	chain := DefaultChain(true)
	chain.Append(failRule{reason: "RESTRICTED_LIST"})

	err := chain.Validate(validRequest())
	var verr *types.ValidationError
	if !errors.As(err, &verr) || verr.Reason != "RESTRICTED_LIST" {
		t.Fatalf("appended rule did not run: %v", err)
	}

	// A default rule rejection still wins when it comes first.
	req := validRequest()
	req.Symbol = " "
	err = chain.Validate(req)
	if !errors.As(err, &verr) || verr.Reason != types.ReasonInvalidSymbol {
		t.Fatalf("chain order violated: %v", err)
	}
}
