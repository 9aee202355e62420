package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mrDinkelman185/FINCo/internal/auth"
	"github.com/mrDinkelman185/FINCo/internal/types"
)

const (
	minOrders     = 15
	maxOrders     = 100
	numWorkers    = 5
	serverAddress = "http://localhost:8080"
)

var (
	symbols    = []string{"AAPL", "GOOGL", "MSFT", "AMZN", "META"}
	sides      = []string{"BUY", "SELL"}
	orderTypes = []string{"MARKET", "LIMIT"}
	accountIDs = []int64{1, 2}
)

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// routeStats tracks performance statistics for an API endpoint
type routeStats struct {
	name       string
	durations  []time.Duration
	totalCalls int
	failures   int
}

// addDuration records a new duration measurement for the route
func (rs *routeStats) addDuration(d time.Duration) {
	rs.durations = append(rs.durations, d)
	rs.totalCalls++
}

// calculate computes performance statistics from recorded durations
// Returns min, max, mean, median, 95th percentile, and 99th percentile durations
func (rs *routeStats) calculate() (min, max, mean, median, p95, p99 time.Duration) {
	if len(rs.durations) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))
	median = rs.durations[len(rs.durations)/2]

	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// simulationClient handles HTTP communication with the trading API
type simulationClient struct {
	baseURL   string
	authToken string
	client    *http.Client
	mu        sync.Mutex
	stats     map[string]*routeStats
}

// newSimulationClient creates and initializes a new simulation client
// It authenticates with the API and prepares performance tracking
func newSimulationClient() (*simulationClient, error) {
	sc := &simulationClient{
		baseURL: serverAddress,
		client:  &http.Client{Timeout: 10 * time.Second},
		stats: map[string]*routeStats{
			"auth":      {name: "Authentication"},
			"create":    {name: "Create Order"},
			"get":       {name: "Get Order"},
			"amend":     {name: "Amend Order"},
			"cancel":    {name: "Cancel Order"},
			"fill":      {name: "Apply Fill"},
			"positions": {name: "List Positions"},
		},
	}

	if err := sc.authenticate(); err != nil {
		return nil, err
	}
	return sc, nil
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call issues one HTTP request, records latency under the given stat key,
// and decodes the response envelope.
func (sc *simulationClient) call(statKey, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, sc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if sc.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+sc.authToken)
	}

	start := time.Now()
	resp, err := sc.client.Do(req)
	elapsed := time.Since(start)

	sc.mu.Lock()
	stats := sc.stats[statKey]
	stats.addDuration(elapsed)
	if err != nil || resp.StatusCode >= 400 {
		stats.failures++
	}
	sc.mu.Unlock()

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if !envelope.Success {
		msg := "unknown error"
		if envelope.Error != nil {
			msg = envelope.Error.Message
		}
		return fmt.Errorf("%s %s: %s", method, path, msg)
	}
	if out != nil && envelope.Data != nil {
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}

// authenticate obtains a JWT token with the registered test credentials.
func (sc *simulationClient) authenticate() error {
	var token auth.TokenResponse
	err := sc.call("auth", http.MethodPost, "/api/v1/auth/token", auth.Credentials{
		APIKey:    auth.TestAPIKey,
		APISecret: auth.TestAPISecret,
	}, &token)
	if err != nil {
		return err
	}
	sc.authToken = token.Token
	return nil
}

func randomOrderRequest() *types.OrderRequest {
	orderType := orderTypes[rand.Intn(len(orderTypes))]
	req := &types.OrderRequest{
		AccountID: accountIDs[rand.Intn(len(accountIDs))],
		Symbol:    symbols[rand.Intn(len(symbols))],
		OrderType: orderType,
		Side:      sides[rand.Intn(len(sides))],
		Quantity:  decimal.NewFromInt(int64(rand.Intn(200) + 1)),
	}
	if orderType == "LIMIT" {
		price := decimal.NewFromFloat(50 + rand.Float64()*150).Round(2)
		req.Price = &price
	}
	return req
}

// runOrderLifecycle drives one order through a randomly chosen lifecycle:
// amend-then-cancel, straight cancel, or a sequence of fills.
func (sc *simulationClient) runOrderLifecycle(logger zerolog.Logger) {
	req := randomOrderRequest()

	var order types.Order
	if err := sc.call("create", http.MethodPost, "/api/v1/orders", req, &order); err != nil {
		logger.Warn().Err(err).Msg("create failed")
		return
	}

	if err := sc.call("get", http.MethodGet, "/api/v1/orders/"+order.OrderCode, nil, &order); err != nil {
		logger.Warn().Err(err).Msg("get failed")
		return
	}

	switch rand.Intn(4) {
	case 0:
		// Amend price and quantity, then cancel.
		newQty := decimal.NewFromInt(int64(rand.Intn(200) + 1))
		newPrice := decimal.NewFromFloat(50 + rand.Float64()*150).Round(2)
		amend := &types.AmendRequest{Quantity: &newQty, Price: &newPrice}
		if err := sc.call("amend", http.MethodPut, "/api/v1/orders/"+order.OrderCode, amend, &order); err != nil {
			logger.Warn().Err(err).Msg("amend failed")
			return
		}
		fallthrough
	case 1:
		if err := sc.call("cancel", http.MethodDelete, "/api/v1/orders/"+order.OrderCode, nil, nil); err != nil {
			logger.Warn().Err(err).Msg("cancel failed")
		}
	default:
		// Fill in one to three slices.
		remaining := order.Quantity
		slices := rand.Intn(3) + 1
		for i := 0; i < slices && remaining.Sign() > 0; i++ {
			qty := remaining
			if i < slices-1 {
				qty = remaining.Div(decimal.NewFromInt(2)).Floor()
				if qty.Sign() <= 0 {
					qty = remaining
				}
			}
			fill := &types.FillRequest{
				Quantity: qty,
				Price:    decimal.NewFromFloat(50 + rand.Float64()*150).Round(2),
			}
			if err := sc.call("fill", http.MethodPost, "/api/v1/internal/fills/"+order.OrderCode, fill, &order); err != nil {
				logger.Warn().Err(err).Msg("fill failed")
				return
			}
			remaining = order.Quantity.Sub(order.FilledQuantity)
		}
	}
}

// printStats renders the latency report for every exercised route.
func (sc *simulationClient) printStats() {
	fmt.Println("\n=== Simulation Results ===")
	for _, key := range []string{"auth", "create", "get", "amend", "cancel", "fill", "positions"} {
		rs := sc.stats[key]
		if rs.totalCalls == 0 {
			continue
		}
		min, max, mean, median, p95, p99 := rs.calculate()
		fmt.Printf("\n%s (%d calls, %d failures)\n", rs.name, rs.totalCalls, rs.failures)
		fmt.Printf("  min=%v max=%v mean=%v median=%v p95=%v p99=%v\n",
			min, max, mean, median, p95, p99)
	}
}

// main runs a randomized order traffic simulation against a locally running
// server and prints per-route latency percentiles.
func main() {
	sc, err := newSimulationClient()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize simulation client")
	}

	orderCount := rand.Intn(maxOrders-minOrders+1) + minOrders
	log.Info().Int("orders", orderCount).Int("workers", numWorkers).Msg("starting simulation")

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			logger := log.With().Int("worker", worker).Logger()
			for range jobs {
				sc.runOrderLifecycle(logger)
			}
		}(w)
	}

	for i := 0; i < orderCount; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Final position snapshot across all accounts.
	var positionRows []types.Position
	if err := sc.call("positions", http.MethodGet, "/api/v1/positions", nil, &positionRows); err != nil {
		log.Warn().Err(err).Msg("failed to list positions")
	} else {
		for _, p := range positionRows {
			log.Info().
				Int64("account_id", p.AccountID).
				Str("symbol", p.Symbol).
				Str("quantity", p.Quantity.String()).
				Str("avg_price", p.AveragePrice.String()).
				Str("realized_pnl", p.RealizedPnl.String()).
				Msg("position")
		}
	}

	sc.printStats()
}
