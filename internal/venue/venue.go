// Package venue holds the execution-venue integration hook. The order
// lifecycle manager notifies the venue client on submission and
// cancellation; fills flow back through the internal execution feed API.
// The default client is a logging no-op — a real FIX engine slots in behind
// the same interface without touching the lifecycle manager.
package venue

import (
	"github.com/rs/zerolog/log"

	"github.com/mrDinkelman185/FINCo/internal/types"
)

// Client sends order notifications to an execution venue.
type Client interface {
	SendOrder(order *types.Order) error
	CancelOrder(orderCode string) error
}

// NoopClient logs in place of wire traffic. When disabled it stays silent,
// matching a venue connection that is not configured.
type NoopClient struct {
	enabled bool
}

func NewNoopClient(enabled bool) *NoopClient {
	return &NoopClient{enabled: enabled}
}

func (c *NoopClient) SendOrder(order *types.Order) error {
	if !c.enabled {
		return nil
	}
	log.Info().
		Str("component", "venue").
		Str("order_code", order.OrderCode).
		Str("symbol", order.Symbol).
		Str("side", string(order.Side)).
		Str("quantity", order.Quantity.String()).
		Msg("order submitted to execution venue")
	return nil
}

func (c *NoopClient) CancelOrder(orderCode string) error {
	if !c.enabled {
		return nil
	}
	log.Info().
		Str("component", "venue").
		Str("order_code", orderCode).
		Msg("cancel request sent to execution venue")
	return nil
}
