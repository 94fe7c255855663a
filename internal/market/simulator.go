// Package market implements tick-driven price formation for the match
// engine.
//
// Each trading-window tick, every asset's new price is the previous price
// times (1 + Δ), where Δ is the sum of independent terms: news impact,
// controlled randomness, sentiment drift and scenario bias, with
// stabilization damping near the round boundary. Layering additive terms
// keeps each effect auditable and tunable in isolation; a hard clamp
// against the round-start price bounds the worst case no matter how the
// terms compound.
//
// All prices use shopspring/decimal at the boundary, never float64 for
// money. The internal noise and decay math runs in float64 and converts
// immediately, the same split the rest of the engine uses.
package market

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/model"
)

// minPrice is the absolute price floor. The safety rail already keeps
// prices far above it; this guards the invariant structurally.
const minPrice = 0.000001

// Simulator advances asset prices. It owns per-round bookkeeping (round
// start prices, consecutive-sentiment streak) but never the game state
// itself.
type Simulator struct {
	cfg           config.MarketConfig
	tradingWindow int
	historyLimit  int
	rng           *rand.Rand

	roundStart   map[string]decimal.Decimal
	activeGrade  model.SentimentGrade
	lastPolarity string
	consecutive  int
}

// NewSimulator builds a simulator from the engine configuration. The
// rand.Rand is injected so tests can run deterministically.
func NewSimulator(cfg *config.Config, rng *rand.Rand) *Simulator {
	return &Simulator{
		cfg:           cfg.Market,
		tradingWindow: cfg.Match.TradingWindowSeconds(),
		historyLimit:  cfg.Match.PriceHistoryLimit,
		rng:           rng,
		roundStart:    make(map[string]decimal.Decimal),
		lastPolarity:  "neutral",
	}
}

// Reset clears all per-match bookkeeping. Called on match reset.
func (s *Simulator) Reset() {
	s.roundStart = make(map[string]decimal.Decimal)
	s.activeGrade = ""
	s.lastPolarity = "neutral"
	s.consecutive = 0
}

// BeginRound records the safety-rail base price for every asset and tracks
// the consecutive same-polarity streak used for anti-chaos damping.
func (s *Simulator) BeginRound(state *model.GameState, grade model.SentimentGrade) {
	s.roundStart = make(map[string]decimal.Decimal, len(state.Assets))
	for _, a := range state.Assets {
		s.roundStart[a.ID] = a.CurrentPrice
	}

	// consecutive counts occurrences of the current polarity, so the
	// second same-polarity round in a row already triggers damping.
	polarity := grade.Polarity()
	if polarity == s.lastPolarity {
		s.consecutive++
	} else {
		s.consecutive = 1
	}
	s.lastPolarity = polarity
	s.activeGrade = grade
}

// RoundStartPrice returns the safety-rail base price for an asset. Falls
// back to the current price if the round has no recorded base (first tick
// edge case).
func (s *Simulator) RoundStartPrice(a *model.Asset) decimal.Decimal {
	if p, ok := s.roundStart[a.ID]; ok {
		return p
	}
	return a.CurrentPrice
}

// ChaosDamped reports whether the anti-chaos-stacking damping is active.
func (s *Simulator) ChaosDamped() bool {
	return s.consecutive >= s.cfg.ChaosDampingAfter
}

// Step advances every asset price by one trading-window second.
// tradingElapsed counts seconds since the trading window opened, starting
// at 1.
func (s *Simulator) Step(state *model.GameState, tradingElapsed int) {
	inShockWindow := tradingElapsed <= s.cfg.ShockWindowSeconds
	inStabilization := tradingElapsed >= s.tradingWindow-s.cfg.StabilizationSeconds

	for _, asset := range state.Assets {
		base := s.RoundStartPrice(asset).InexactFloat64()
		price := asset.CurrentPrice.InexactFloat64()

		change := 0.0

		// News impact, amplified inside the shock window.
		if state.ActiveEvent != nil {
			impact := s.newsImpact(state.ActiveEvent, asset, tradingElapsed)
			if inShockWindow {
				impact *= s.cfg.ShockMultiplier
			}
			change += impact
		}

		// Controlled randomness, damped when the same polarity keeps
		// recurring round after round.
		change += (s.rng.Float64() - 0.5) * s.randomFactor() * asset.BaseVolatility

		// Continuous sentiment drift for the asset's class.
		change += state.Sentiment[asset.Class] / 100 * s.cfg.SentimentDriftCoeff

		// Scenario bias persists for the whole match.
		if state.ActiveScenario != nil {
			change += state.ActiveScenario.ClassBias[asset.Class]
		}

		// Stabilization: damp and pull back toward the round open so the
		// round never ends mid-runaway.
		if inStabilization {
			change *= s.cfg.StabilizationFactor
			deviation := (price - base) / base
			change -= deviation * s.cfg.MeanReversionPull
		}

		newPrice := price * (1 + change)

		// Safety rail: bounded deviation from the round-start price.
		maxP := base * (1 + s.cfg.MaxRoundMove)
		minP := base * (1 - s.cfg.MaxRoundMove)
		if newPrice > maxP {
			newPrice = maxP
		}
		if newPrice < minP {
			newPrice = minP
		}
		if newPrice < minPrice {
			newPrice = minPrice
		}

		asset.CurrentPrice = decimal.NewFromFloat(newPrice)
		asset.History = append(asset.History, asset.CurrentPrice)
		if len(asset.History) > s.historyLimit {
			asset.History = asset.History[1:]
		}
	}
}

// newsImpact computes the per-second price impact of the active event on
// one asset: grade multiplier × sector sensitivity × thirds time decay ×
// impact scale. Assets outside the affected sectors feel a fraction of it.
func (s *Simulator) newsImpact(event *model.MarketEvent, asset *model.Asset, tradingElapsed int) float64 {
	grade := s.cfg.GradeMultiplier[event.Grade]

	var sector float64
	if event.Affects(asset.Sector) {
		sector = s.cfg.SectorSensitivity[asset.Sector]
		if sector == 0 {
			sector = 1.0
		}
	} else {
		sector = s.cfg.UnaffectedSectorFactor
	}

	// Most of the impact lands in the first third of the trading window,
	// less in the middle, least at the end.
	third := s.tradingWindow / 3
	var decay float64
	switch {
	case tradingElapsed <= third:
		decay = s.cfg.TimeDecayEarly / float64(third)
	case tradingElapsed <= 2*third:
		decay = s.cfg.TimeDecayMid / float64(third)
	default:
		decay = s.cfg.TimeDecayLate / float64(third)
	}

	return grade * sector * decay * s.cfg.NewsImpactScale
}

func (s *Simulator) randomFactor() float64 {
	if s.ChaosDamped() {
		return s.cfg.DampedRandomFactor
	}
	return s.cfg.RandomFactor
}
