// Package sentiment maintains the per-asset-class market mood scalar in
// [-100, 100]. News events push it, every round start decays it toward
// zero, and the price simulation reads it as a drift input.
package sentiment

import (
	"math/rand"

	"github.com/bullvbear/match-engine/internal/catalog"
	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/model"
)

const (
	// Min and Max bound every class sentiment value.
	Min = -100.0
	Max = 100.0
)

// Ledger mutates the sentiment map owned by the game state. It holds no
// state of its own beyond tuning and randomness.
type Ledger struct {
	grade       map[model.SentimentGrade]float64
	sensitivity map[model.Sector]float64
	amplifier   float64
	decay       float64
	rotationMin float64
	rotationMax float64
	rng         *rand.Rand
}

// NewLedger builds a ledger from the engine configuration.
func NewLedger(cfg *config.Config, rng *rand.Rand) *Ledger {
	return &Ledger{
		grade:       cfg.Market.GradeMultiplier,
		sensitivity: cfg.Market.SectorSensitivity,
		amplifier:   cfg.Risk.NewsAmplifier,
		decay:       cfg.Risk.SentimentDecay,
		rotationMin: cfg.Risk.RotationMinPoints,
		rotationMax: cfg.Risk.RotationMaxPoints,
		rng:         rng,
	}
}

// Apply adds a signed delta to one class, clamped to [Min, Max].
func (l *Ledger) Apply(values map[model.AssetClass]float64, class model.AssetClass, delta float64) {
	values[class] = clamp(values[class] + delta)
}

// ApplyNews routes a news card's impact into the ledger: each affected
// sector feeds its mapped asset classes, scaled by sector sensitivity and
// the news amplifier.
func (l *Ledger) ApplyNews(values map[model.AssetClass]float64, card catalog.NewsCard) {
	base := l.grade[card.Grade]
	for _, sector := range card.Sectors {
		sens, ok := l.sensitivity[sector]
		if !ok {
			sens = 1.0
		}
		for _, class := range catalog.SectorClasses[sector] {
			l.Apply(values, class, base*sens*l.amplifier)
		}
	}
}

// Rotate grants a small positive drift to the classes of every sector a
// negative news card did NOT touch. This keeps the whole market from
// cratering at once and rewards diversification.
func (l *Ledger) Rotate(values map[model.AssetClass]float64, card catalog.NewsCard) {
	if card.Grade.Polarity() != "negative" {
		return
	}
	affected := make(map[model.Sector]bool, len(card.Sectors))
	for _, s := range card.Sectors {
		affected[s] = true
	}
	for _, sector := range model.Sectors {
		if affected[sector] {
			continue
		}
		drift := l.rotationMin + l.rng.Float64()*(l.rotationMax-l.rotationMin)
		for _, class := range catalog.SectorClasses[sector] {
			l.Apply(values, class, drift)
		}
	}
}

// Decay pulls every class toward zero. Called once per round start.
func (l *Ledger) Decay(values map[model.AssetClass]float64) {
	for class, v := range values {
		values[class] = v * l.decay
	}
}

func clamp(v float64) float64 {
	if v > Max {
		return Max
	}
	if v < Min {
		return Min
	}
	return v
}
