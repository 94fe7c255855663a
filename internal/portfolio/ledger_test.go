package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bullvbear/match-engine/internal/catalog"
	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/model"
)

func fixture(t *testing.T) (*model.GameState, *Ledger) {
	t.Helper()
	cfg := config.Default()
	state := catalog.NewGameState(cfg)
	state.Players = append(state.Players, catalog.NewPlayer(cfg, "s1", "alice"))
	return state, NewLedger(cfg)
}

func hold(p *model.Player, assetID string, qty float64) {
	p.Holdings = append(p.Holdings, model.Holding{
		AssetID:  assetID,
		Quantity: decimal.NewFromFloat(qty),
	})
}

func assetOfClass(t *testing.T, state *model.GameState, class model.AssetClass) *model.Asset {
	t.Helper()
	for _, a := range state.Assets {
		if a.Class == class {
			return a
		}
	}
	t.Fatalf("no asset of class %s", class)
	return nil
}

// --- Valuation ---

func TestRevalue_CashPlusMarkToMarket(t *testing.T) {
	state, l := fixture(t)
	p := state.Players[0]
	asset := state.Assets[0]
	hold(p, asset.ID, 3)

	l.Revalue(state)

	want := p.Cash.Add(decimal.NewFromInt(3).Mul(asset.CurrentPrice))
	if !p.TotalValue.Equal(want) {
		t.Errorf("expected total %s, got %s", want, p.TotalValue)
	}
}

func TestRevalue_TracksPriceMoves(t *testing.T) {
	state, l := fixture(t)
	p := state.Players[0]
	asset := state.Assets[0]
	hold(p, asset.ID, 10)

	l.Revalue(state)
	before := p.TotalValue

	asset.CurrentPrice = asset.CurrentPrice.Mul(decimal.NewFromFloat(1.5))
	l.Revalue(state)

	if !p.TotalValue.GreaterThan(before) {
		t.Errorf("total value should rise with prices: before=%s after=%s", before, p.TotalValue)
	}
}

// --- Risk scoring ---

func TestScoreRisk_ZeroWithoutHoldings(t *testing.T) {
	state, l := fixture(t)
	l.ScoreRisk(state)
	if state.Players[0].RiskScore != 0 {
		t.Errorf("expected risk 0 with no holdings, got %d", state.Players[0].RiskScore)
	}
}

func TestScoreRisk_IgnoresUninvestedCash(t *testing.T) {
	state, l := fixture(t)
	cfg := config.Default()

	rich := state.Players[0] // starting cash untouched
	poor := catalog.NewPlayer(cfg, "s2", "bob")
	poor.Cash = decimal.Zero
	state.Players = append(state.Players, poor)

	crypto := assetOfClass(t, state, model.ClassCrypto)
	hold(rich, crypto.ID, 1)
	hold(poor, crypto.ID, 1)

	l.ScoreRisk(state)

	if rich.RiskScore != poor.RiskScore {
		t.Errorf("identical holdings must score identically regardless of cash: rich=%d poor=%d",
			rich.RiskScore, poor.RiskScore)
	}
	if rich.RiskScore == 0 {
		t.Error("a crypto holding should not score zero risk")
	}
}

func TestScoreRisk_WithinBounds(t *testing.T) {
	state, l := fixture(t)
	p := state.Players[0]
	crypto := assetOfClass(t, state, model.ClassCrypto)
	hold(p, crypto.ID, 1000)

	l.ScoreRisk(state)

	if p.RiskScore < 0 || p.RiskScore > 100 {
		t.Errorf("risk score %d outside [0, 100]", p.RiskScore)
	}
}

func TestScoreRisk_CryptoRiskierThanBonds(t *testing.T) {
	state, l := fixture(t)
	cfg := config.Default()

	// Quantities chosen so both positions are worth roughly the same.
	cryptoHolder := catalog.NewPlayer(cfg, "s2", "bob")
	hold(cryptoHolder, assetOfClass(t, state, model.ClassCrypto).ID, 10000)
	bondHolder := catalog.NewPlayer(cfg, "s3", "carol")
	hold(bondHolder, assetOfClass(t, state, model.ClassBond).ID, 15)
	state.Players = append(state.Players, cryptoHolder, bondHolder)

	l.ScoreRisk(state)

	if cryptoHolder.RiskScore <= bondHolder.RiskScore {
		t.Errorf("all-crypto portfolio (%d) should score riskier than all-bond (%d)",
			cryptoHolder.RiskScore, bondHolder.RiskScore)
	}
}

func TestScoreRisk_SafetyFirstReduction(t *testing.T) {
	state, l := fixture(t)
	cfg := config.Default()
	p := state.Players[0]
	other := catalog.NewPlayer(cfg, "s2", "bob")
	state.Players = append(state.Players, other)

	asset := assetOfClass(t, state, model.ClassStock)
	hold(p, asset.ID, 10)
	hold(other, asset.ID, 10)
	other.StrategyID = model.StrategySafetyFirst

	l.ScoreRisk(state)

	want := p.RiskScore - cfg.Risk.SafetyFirstReduction
	if want < 0 {
		want = 0
	}
	if other.RiskScore != want {
		t.Errorf("safety-first holder should score %d, got %d", want, other.RiskScore)
	}
}
