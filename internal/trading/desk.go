// Package trading validates and executes buy/sell orders against the game
// state. The external contract is fail-closed and fail-silent: a rejected
// order changes nothing and surfaces no error to the client, but every
// guard returns a Result internally so behavior stays testable and
// observable.
//
// All monetary values use shopspring/decimal, never float64.
package trading

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/model"
)

// Result classifies the outcome of an order. Everything except Executed is
// a silent no-op from the client's point of view.
type Result int

const (
	Executed Result = iota
	WrongPhase
	MarketClosed // news window: round running but trading not open
	UnknownPlayer
	UnknownAsset
	InvalidQuantity
	InsufficientCash
	InsufficientHoldings
)

// String names the result for logs and metrics labels.
func (r Result) String() string {
	switch r {
	case Executed:
		return "executed"
	case WrongPhase:
		return "wrong_phase"
	case MarketClosed:
		return "market_closed"
	case UnknownPlayer:
		return "unknown_player"
	case UnknownAsset:
		return "unknown_asset"
	case InvalidQuantity:
		return "invalid_quantity"
	case InsufficientCash:
		return "insufficient_cash"
	case InsufficientHoldings:
		return "insufficient_holdings"
	default:
		return "unknown"
	}
}

// Desk executes orders with notional-scaled slippage. Slippage is an
// anti-whale step function, not a market-depth model: big orders pay a
// fixed extra percentage each way.
type Desk struct {
	bands []config.SlippageBand
}

// NewDesk builds a desk from the engine configuration.
func NewDesk(cfg *config.Config) *Desk {
	return &Desk{bands: cfg.Trading.SlippageBands}
}

// SlippageRate returns the execution-price penalty for an order of the
// given notional value. Bands are sorted by descending notional; the first
// band the order exceeds applies.
func (d *Desk) SlippageRate(notional decimal.Decimal) decimal.Decimal {
	for _, band := range d.bands {
		if notional.GreaterThan(decimal.NewFromFloat(band.Notional)) {
			return decimal.NewFromFloat(band.Rate)
		}
	}
	return decimal.Zero
}

// Buy executes a buy order: the player pays quantity × slipped-up price,
// the holding's average buy price is recomputed as a weighted mean, and an
// immutable transaction is appended with the event/sentiment context at
// execution time.
func (d *Desk) Buy(state *model.GameState, playerID, assetID string, quantity decimal.Decimal, tradingOpen bool) Result {
	if state.Phase != model.PhasePlaying {
		return WrongPhase
	}
	if !tradingOpen {
		return MarketClosed
	}
	player := state.PlayerByID(playerID)
	if player == nil {
		return UnknownPlayer
	}
	asset := state.Asset(assetID)
	if asset == nil {
		return UnknownAsset
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return InvalidQuantity
	}

	notional := quantity.Mul(asset.CurrentPrice)
	rate := d.SlippageRate(notional)
	effectivePrice := asset.CurrentPrice.Mul(decimal.NewFromInt(1).Add(rate))
	cost := quantity.Mul(effectivePrice)

	if player.Cash.LessThan(cost) {
		return InsufficientCash
	}

	player.Cash = player.Cash.Sub(cost)

	if holding := player.Holding(assetID); holding != nil {
		totalCost := holding.Quantity.Mul(holding.AvgBuyPrice).Add(cost)
		holding.Quantity = holding.Quantity.Add(quantity)
		holding.AvgBuyPrice = totalCost.Div(holding.Quantity)
	} else {
		player.Holdings = append(player.Holdings, model.Holding{
			AssetID:     assetID,
			Quantity:    quantity,
			AvgBuyPrice: effectivePrice,
		})
	}

	d.logTransaction(state, player, asset, model.SideBuy, quantity, effectivePrice, cost)
	return Executed
}

// Sell executes a sell order: the player receives quantity × slipped-down
// price and the holding shrinks, disappearing entirely at zero. The average
// buy price is untouched by sells.
func (d *Desk) Sell(state *model.GameState, playerID, assetID string, quantity decimal.Decimal, tradingOpen bool) Result {
	if state.Phase != model.PhasePlaying {
		return WrongPhase
	}
	if !tradingOpen {
		return MarketClosed
	}
	player := state.PlayerByID(playerID)
	if player == nil {
		return UnknownPlayer
	}
	asset := state.Asset(assetID)
	if asset == nil {
		return UnknownAsset
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return InvalidQuantity
	}

	holding := player.Holding(assetID)
	if holding == nil || holding.Quantity.LessThan(quantity) {
		return InsufficientHoldings
	}

	notional := quantity.Mul(asset.CurrentPrice)
	rate := d.SlippageRate(notional)
	effectivePrice := asset.CurrentPrice.Mul(decimal.NewFromInt(1).Sub(rate))
	revenue := quantity.Mul(effectivePrice)

	player.Cash = player.Cash.Add(revenue)
	holding.Quantity = holding.Quantity.Sub(quantity)
	if holding.Quantity.LessThanOrEqual(decimal.Zero) {
		player.RemoveHolding(assetID)
	}

	d.logTransaction(state, player, asset, model.SideSell, quantity, effectivePrice, revenue)
	return Executed
}

func (d *Desk) logTransaction(state *model.GameState, player *model.Player, asset *model.Asset, side model.TradeSide, quantity, price, gross decimal.Decimal) {
	eventID := ""
	if state.ActiveEvent != nil {
		eventID = state.ActiveEvent.ID
	}
	player.TransactionLog = append(player.TransactionLog, model.Transaction{
		ID:              uuid.New().String(),
		Round:           state.CurrentRound,
		Side:            side,
		AssetID:         asset.ID,
		AssetClass:      asset.Class,
		Quantity:        quantity,
		Price:           price,
		GrossValue:      gross,
		ActiveEventID:   eventID,
		SentimentAtTime: state.Sentiment[asset.Class],
	})
}
