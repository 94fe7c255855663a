package trading

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bullvbear/match-engine/internal/catalog"
	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/model"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func fixture(t *testing.T) (*model.GameState, *Desk, *model.Player) {
	t.Helper()
	cfg := config.Default()
	state := catalog.NewGameState(cfg)
	state.Phase = model.PhasePlaying
	p := catalog.NewPlayer(cfg, "s1", "alice")
	state.Players = append(state.Players, p)
	return state, NewDesk(cfg), p
}

// pinPrice fixes an asset's price so slippage math is exact.
func pinPrice(state *model.GameState, assetID string, price float64) *model.Asset {
	a := state.Asset(assetID)
	a.CurrentPrice = d(price)
	return a
}

// --- Slippage bands ---

func TestSlippageRate_Bands(t *testing.T) {
	_, desk, _ := fixture(t)

	cases := []struct {
		notional float64
		want     float64
	}{
		{500, 0},
		{1000, 0}, // boundary: must strictly exceed the band
		{1500, 0.005},
		{2500, 0.01},
		{9000, 0.02},
	}
	for _, tc := range cases {
		got := desk.SlippageRate(d(tc.notional))
		if !got.Equal(d(tc.want)) {
			t.Errorf("notional %v: expected rate %v, got %s", tc.notional, tc.want, got)
		}
	}
}

func TestBuy_LargeOrderPaysSlippage(t *testing.T) {
	state, desk, p := fixture(t)
	asset := pinPrice(state, state.Assets[0].ID, 100)

	// 60 × 100 = 6000 notional: top band, 2% premium each unit.
	if res := desk.Buy(state, p.ID, asset.ID, d(60), true); res != Executed {
		t.Fatalf("expected Executed, got %s", res)
	}

	wantCost := d(60).Mul(d(102)) // 100 × 1.02
	wantCash := d(10000).Sub(wantCost)
	if !p.Cash.Equal(wantCash) {
		t.Errorf("expected cash %s after slipped buy, got %s", wantCash, p.Cash)
	}
	h := p.Holding(asset.ID)
	if h == nil || !h.AvgBuyPrice.Equal(d(102)) {
		t.Errorf("expected avg buy price 102, got %+v", h)
	}
}

func TestRoundTrip_SlippageIsATax(t *testing.T) {
	state, desk, p := fixture(t)
	asset := pinPrice(state, state.Assets[0].ID, 100)

	desk.Buy(state, p.ID, asset.ID, d(60), true)
	desk.Sell(state, p.ID, asset.ID, d(60), true)

	// Price never moved, so the entire loss is the two-way slippage.
	if !p.Cash.LessThan(d(10000)) {
		t.Errorf("round trip at flat price should lose the slippage tax, cash=%s", p.Cash)
	}
	if p.Holding(asset.ID) != nil {
		t.Error("holding should be removed after selling out")
	}
}

// --- Buy path ---

func TestBuy_WeightedAverageBuyPrice(t *testing.T) {
	state, desk, p := fixture(t)
	asset := pinPrice(state, state.Assets[0].ID, 100)

	desk.Buy(state, p.ID, asset.ID, d(5), true) // 500 notional, no slippage
	pinPrice(state, asset.ID, 200)
	desk.Buy(state, p.ID, asset.ID, d(5), true) // 1000 notional, still no slippage

	h := p.Holding(asset.ID)
	if !h.Quantity.Equal(d(10)) {
		t.Fatalf("expected quantity 10, got %s", h.Quantity)
	}
	if !h.AvgBuyPrice.Equal(d(150)) {
		t.Errorf("expected weighted average 150, got %s", h.AvgBuyPrice)
	}
}

func TestBuy_Rejections(t *testing.T) {
	state, desk, p := fixture(t)
	asset := pinPrice(state, state.Assets[0].ID, 100)

	cases := []struct {
		name string
		run  func() Result
		want Result
	}{
		{"market closed", func() Result {
			return desk.Buy(state, p.ID, asset.ID, d(1), false)
		}, MarketClosed},
		{"unknown player", func() Result {
			return desk.Buy(state, "ghost", asset.ID, d(1), true)
		}, UnknownPlayer},
		{"unknown asset", func() Result {
			return desk.Buy(state, p.ID, "nope", d(1), true)
		}, UnknownAsset},
		{"zero quantity", func() Result {
			return desk.Buy(state, p.ID, asset.ID, d(0), true)
		}, InvalidQuantity},
		{"negative quantity", func() Result {
			return desk.Buy(state, p.ID, asset.ID, d(-2), true)
		}, InvalidQuantity},
		{"insufficient cash", func() Result {
			return desk.Buy(state, p.ID, asset.ID, d(1e6), true)
		}, InsufficientCash},
	}

	for _, tc := range cases {
		if got := tc.run(); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}

	// Every rejection must leave the player untouched.
	if !p.Cash.Equal(d(10000)) || len(p.Holdings) != 0 || len(p.TransactionLog) != 0 {
		t.Errorf("rejected orders mutated the player: cash=%s holdings=%d log=%d",
			p.Cash, len(p.Holdings), len(p.TransactionLog))
	}
}

func TestBuy_WrongPhase(t *testing.T) {
	state, desk, p := fixture(t)
	state.Phase = model.PhaseFinished
	if res := desk.Buy(state, p.ID, state.Assets[0].ID, d(1), true); res != WrongPhase {
		t.Errorf("expected WrongPhase, got %s", res)
	}
}

// --- Sell path ---

func TestSell_InsufficientHoldings(t *testing.T) {
	state, desk, p := fixture(t)
	asset := pinPrice(state, state.Assets[0].ID, 100)
	desk.Buy(state, p.ID, asset.ID, d(2), true)

	if res := desk.Sell(state, p.ID, asset.ID, d(3), true); res != InsufficientHoldings {
		t.Errorf("expected InsufficientHoldings, got %s", res)
	}
	if !p.Holding(asset.ID).Quantity.Equal(d(2)) {
		t.Error("failed sell should not change the holding")
	}
}

func TestSell_PartialKeepsAvgBuyPrice(t *testing.T) {
	state, desk, p := fixture(t)
	asset := pinPrice(state, state.Assets[0].ID, 100)
	desk.Buy(state, p.ID, asset.ID, d(4), true)

	pinPrice(state, asset.ID, 120)
	if res := desk.Sell(state, p.ID, asset.ID, d(1), true); res != Executed {
		t.Fatalf("expected Executed, got %s", res)
	}

	h := p.Holding(asset.ID)
	if !h.Quantity.Equal(d(3)) {
		t.Errorf("expected 3 remaining, got %s", h.Quantity)
	}
	if !h.AvgBuyPrice.Equal(d(100)) {
		t.Errorf("sells must not move the avg buy price, got %s", h.AvgBuyPrice)
	}
}

// --- Transaction log ---

func TestBuy_LogsExecutionContext(t *testing.T) {
	state, desk, p := fixture(t)
	asset := pinPrice(state, state.Assets[0].ID, 100)
	state.CurrentRound = 3
	state.ActiveEvent = catalog.NewsCards[0].ToMarketEvent()
	state.Sentiment[asset.Class] = -42

	desk.Buy(state, p.ID, asset.ID, d(2), true)

	if len(p.TransactionLog) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(p.TransactionLog))
	}
	tx := p.TransactionLog[0]
	if tx.Round != 3 || tx.Side != model.SideBuy {
		t.Errorf("wrong round/side: %+v", tx)
	}
	if tx.ActiveEventID != state.ActiveEvent.ID {
		t.Errorf("expected event id %s, got %s", state.ActiveEvent.ID, tx.ActiveEventID)
	}
	if tx.SentimentAtTime != -42 {
		t.Errorf("expected sentiment -42 at execution, got %v", tx.SentimentAtTime)
	}
}
