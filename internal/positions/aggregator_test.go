package positions

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"pgregory.net/rapid"

	"github.com/mrDinkelman185/FINCo/internal/database"
	"github.com/mrDinkelman185/FINCo/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "positions.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAggregateLongRoundTrip(t *testing.T) {
	p := &types.Position{}

	// BUY 100 @ 10.00 on a flat position.
	aggregate(p, types.SideBuy, dec("100"), dec("10.00"))
	if !p.Quantity.Equal(dec("100")) || !p.AveragePrice.Equal(dec("10.00")) || !p.RealizedPnl.IsZero() {
		t.Fatalf("after open: qty=%s avg=%s realized=%s", p.Quantity, p.AveragePrice, p.RealizedPnl)
	}

	// SELL 40 @ 12.00 realizes 40 x 2.00 = 80.
	aggregate(p, types.SideSell, dec("40"), dec("12.00"))
	if !p.Quantity.Equal(dec("60")) {
		t.Errorf("quantity = %s, want 60", p.Quantity)
	}
	if !p.AveragePrice.Equal(dec("10.00")) {
		t.Errorf("average price = %s, want 10.00 (reducing does not reprice)", p.AveragePrice)
	}
	if !p.RealizedPnl.Equal(dec("80.00")) {
		t.Errorf("realized = %s, want 80.00", p.RealizedPnl)
	}

	// SELL 60 @ 8.00 realizes 60 x (8 - 10) = -120; net realized 80 - 120 = -40.
	aggregate(p, types.SideSell, dec("60"), dec("8.00"))
	if !p.Quantity.IsZero() {
		t.Errorf("quantity = %s, want 0", p.Quantity)
	}
	if !p.AveragePrice.IsZero() {
		t.Errorf("average price = %s, want 0 for a flat position", p.AveragePrice)
	}
	if !p.RealizedPnl.Equal(dec("-40.00")) {
		t.Errorf("realized = %s, want -40.00", p.RealizedPnl)
	}
}

func TestAggregateSameDirectionReweights(t *testing.T) {
	p := &types.Position{}
	aggregate(p, types.SideBuy, dec("100"), dec("10.00"))
	aggregate(p, types.SideBuy, dec("50"), dec("13.00"))

	if !p.Quantity.Equal(dec("150")) {
		t.Errorf("quantity = %s, want 150", p.Quantity)
	}
	// (100x10 + 50x13) / 150 = 11
	if !p.AveragePrice.Equal(dec("11")) {
		t.Errorf("average price = %s, want 11", p.AveragePrice)
	}
	if !p.RealizedPnl.IsZero() {
		t.Errorf("same-direction fills must not realize P&L, got %s", p.RealizedPnl)
	}
}

func TestAggregateFlipThroughZero(t *testing.T) {
	p := &types.Position{}
	aggregate(p, types.SideBuy, dec("100"), dec("10.00"))
	aggregate(p, types.SideSell, dec("150"), dec("12.00"))

	// 100 closed at +2.00 each, 50 opens short at 12.00.
	if !p.Quantity.Equal(dec("-50")) {
		t.Errorf("quantity = %s, want -50", p.Quantity)
	}
	if !p.AveragePrice.Equal(dec("12.00")) {
		t.Errorf("average price = %s, want 12.00 (remainder opens at fill price)", p.AveragePrice)
	}
	if !p.RealizedPnl.Equal(dec("200.00")) {
		t.Errorf("realized = %s, want 200.00", p.RealizedPnl)
	}
}

func TestAggregateShortSide(t *testing.T) {
	p := &types.Position{}
	aggregate(p, types.SideSell, dec("80"), dec("20.00"))
	if !p.Quantity.Equal(dec("-80")) || !p.AveragePrice.Equal(dec("20.00")) {
		t.Fatalf("after short open: qty=%s avg=%s", p.Quantity, p.AveragePrice)
	}

	// Covering 30 at 15.00 profits the short: 30 x (15 - 20) x (-1) = 150.
	aggregate(p, types.SideBuy, dec("30"), dec("15.00"))
	if !p.Quantity.Equal(dec("-50")) {
		t.Errorf("quantity = %s, want -50", p.Quantity)
	}
	if !p.RealizedPnl.Equal(dec("150.00")) {
		t.Errorf("realized = %s, want 150.00", p.RealizedPnl)
	}
}

func TestMarkToMarket(t *testing.T) {
	mv, upnl := MarkToMarket(dec("100"), dec("10.00"), dec("12.50"))
	if !mv.Equal(dec("1250.00")) {
		t.Errorf("market value = %s, want 1250.00", mv)
	}
	if !upnl.Equal(dec("250.00")) {
		t.Errorf("unrealized = %s, want 250.00", upnl)
	}

	// Short positions carry negative market value and mirror-image P&L.
	mv, upnl = MarkToMarket(dec("-50"), dec("20.00"), dec("22.00"))
	if !mv.Equal(dec("-1100.00")) {
		t.Errorf("market value = %s, want -1100.00", mv)
	}
	if !upnl.Equal(dec("-100.00")) {
		t.Errorf("unrealized = %s, want -100.00", upnl)
	}
}

func TestApplyCreatesPositionLazily(t *testing.T) {
	db := newTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := Apply(tx, 1, "AAPL", types.SideBuy, dec("100"), dec("10.00"))
		return err
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	pos, err := NewDatabase(db).GetPosition(1, "AAPL")
	if err != nil {
		t.Fatalf("GetPosition: %v", err)
	}
	if !pos.Quantity.Equal(dec("100")) || !pos.AveragePrice.Equal(dec("10.00")) {
		t.Errorf("qty=%s avg=%s", pos.Quantity, pos.AveragePrice)
	}
}

func TestApplyRollsBackWithTransaction(t *testing.T) {
	db := newTestDB(t)

	sentinel := &types.NotFoundError{Entity: "test", Key: "sentinel"}
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := Apply(tx, 1, "AAPL", types.SideBuy, dec("100"), dec("10.00")); err != nil {
			return err
		}
		return sentinel
	})
	if err == nil {
		t.Fatal("transaction should have failed")
	}

	if _, err := NewDatabase(db).GetPosition(1, "AAPL"); err == nil {
		t.Error("position should not exist after rollback")
	}
}

// Property: any sequence of fills leaves exactly one position row per
// (account, symbol), with quantity equal to the signed sum of fills.
func TestProperty_PositionUniquenessAndConservation(t *testing.T) {
	dir := t.TempDir()
	run := 0

	rapid.Check(t, func(t *rapid.T) {
		// Cases run sequentially; each gets its own database file.
		run++
		db, err := database.NewDatabase(filepath.Join(dir, fmt.Sprintf("prop-%d.db", run)))
		if err != nil {
			t.Fatalf("open db: %v", err)
		}

		accountID := rapid.Int64Range(1, 3).Draw(t, "accountID")
		symbol := rapid.SampledFrom([]string{"AAPL", "MSFT"}).Draw(t, "symbol")
		fillCount := rapid.IntRange(1, 12).Draw(t, "fillCount")

		net := decimal.Zero
		for i := 0; i < fillCount; i++ {
			qty := decimal.NewFromInt(rapid.Int64Range(1, 500).Draw(t, "qty"))
			price := decimal.NewFromInt(rapid.Int64Range(1, 100).Draw(t, "price"))
			side := types.SideBuy
			if rapid.Bool().Draw(t, "sell") {
				side = types.SideSell
				net = net.Sub(qty)
			} else {
				net = net.Add(qty)
			}

			err := db.Transaction(func(tx *gorm.DB) error {
				_, err := Apply(tx, accountID, symbol, side, qty, price)
				return err
			})
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
		}

		var count int64
		if err := db.Model(&types.Position{}).
			Where("account_id = ? AND symbol = ?", accountID, symbol).
			Count(&count).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected exactly one position row, got %d", count)
		}

		pos, err := NewDatabase(db).GetPosition(accountID, symbol)
		if err != nil {
			t.Fatalf("GetPosition: %v", err)
		}
		if !pos.Quantity.Equal(net) {
			t.Fatalf("quantity = %s, want net fills %s", pos.Quantity, net)
		}
		if pos.Quantity.IsZero() && !pos.AveragePrice.IsZero() {
			t.Fatalf("flat position must rest with zero average price, got %s", pos.AveragePrice)
		}
	})
}

// Property: fills in a single direction never realize P&L, and the average
// price stays inside the range of fill prices.
func TestProperty_SameDirectionAveragePriceBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := &types.Position{}
		side := rapid.SampledFrom([]types.Side{types.SideBuy, types.SideSell}).Draw(t, "side")
		fillCount := rapid.IntRange(1, 10).Draw(t, "fillCount")

		low, high := decimal.Decimal{}, decimal.Decimal{}
		for i := 0; i < fillCount; i++ {
			qty := decimal.NewFromInt(rapid.Int64Range(1, 1000).Draw(t, "qty"))
			price := decimal.NewFromInt(rapid.Int64Range(1, 10000).Draw(t, "price"))
			if i == 0 || price.LessThan(low) {
				low = price
			}
			if i == 0 || price.GreaterThan(high) {
				high = price
			}
			aggregate(p, side, qty, price)
		}

		if !p.RealizedPnl.IsZero() {
			t.Fatalf("same-direction fills realized %s", p.RealizedPnl)
		}
		if p.AveragePrice.LessThan(low) || p.AveragePrice.GreaterThan(high) {
			t.Fatalf("average %s outside fill price range [%s, %s]", p.AveragePrice, low, high)
		}
	})
}
