// Package portfolio recomputes each player's mark-to-market value and risk
// score. Both are point-in-time functions of current holdings and prices,
// with no memory or running averages. Called after every price tick and every
// trade.
package portfolio

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/model"
)

// Ledger values player portfolios against live asset prices.
type Ledger struct {
	riskScaling          float64
	safetyFirstReduction int
}

// NewLedger builds a ledger from the engine configuration.
func NewLedger(cfg *config.Config) *Ledger {
	return &Ledger{
		riskScaling:          cfg.Risk.ScalingConstant,
		safetyFirstReduction: cfg.Risk.SafetyFirstReduction,
	}
}

// Revalue sets every player's total value to cash plus the mark-to-market
// value of their holdings.
func (l *Ledger) Revalue(state *model.GameState) {
	for _, p := range state.Players {
		total := p.Cash
		for _, h := range p.Holdings {
			asset := state.Asset(h.AssetID)
			if asset == nil {
				continue
			}
			total = total.Add(h.Quantity.Mul(asset.CurrentPrice))
		}
		p.TotalValue = total
	}
}

// ScoreRisk sets every player's risk score: the volatility-weighted average
// of the holdings, scaled and capped at 100. Uninvested cash never moves
// the score; an all-cash player scores zero. The safety-first strategy
// takes a flat reduction.
func (l *Ledger) ScoreRisk(state *model.GameState) {
	for _, p := range state.Players {
		var weighted, holdingsValue float64
		for _, h := range p.Holdings {
			asset := state.Asset(h.AssetID)
			if asset == nil {
				continue
			}
			value := h.Quantity.Mul(asset.CurrentPrice).InexactFloat64()
			holdingsValue += value
			weighted += value * asset.BaseVolatility
		}

		if holdingsValue <= 0 {
			p.RiskScore = 0
			continue
		}

		score := int(math.Min(100, math.Round(weighted/holdingsValue*l.riskScaling)))
		if p.StrategyID == model.StrategySafetyFirst {
			score -= l.safetyFirstReduction
			if score < 0 {
				score = 0
			}
		}
		p.RiskScore = score
	}
}

// HoldingsValue returns the mark-to-market value of a player's holdings.
func HoldingsValue(state *model.GameState, p *model.Player) decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Holdings {
		if asset := state.Asset(h.AssetID); asset != nil {
			total = total.Add(h.Quantity.Mul(asset.CurrentPrice))
		}
	}
	return total
}
