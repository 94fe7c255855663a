package catalog

import (
	"math/rand"

	"github.com/bullvbear/match-engine/internal/model"
)

// Avatars is the pre-match avatar roster.
var Avatars = []model.Avatar{
	{ID: "ANALYST", Name: "The Analyst", Description: "Smart, calm, and calculated."},
	{ID: "DEGEN", Name: "The DeGen", Description: "YOLO trader looking for moonshots."},
	{ID: "STRATEGIST", Name: "The Strategist", Description: "Long-term thinker, playing the long game."},
	{ID: "MEME_LORD", Name: "The Meme Lord", Description: "Chaotic, funny, and unpredictable."},
}

// Strategies is the pre-match strategy roster. SAFETY_FIRST and DIVERSIFIER
// have scoring side effects; the other two are flavor.
var Strategies = []model.Strategy{
	{ID: model.StrategyHighRoller, Name: "High Roller", Bonus: "+8% upside on growth assets", Tooltip: "Diamond hands or disaster — your choice."},
	{ID: model.StrategySafetyFirst, Name: "Safety First", Bonus: "-10 risk penalty", Tooltip: "Slow and steady can still win the race."},
	{ID: model.StrategyDiversifier, Name: "Diversifier", Bonus: "+5% return when spread across 4+ assets", Tooltip: "Put eggs in 4 baskets, not 1."},
	{ID: model.StrategySwingTrader, Name: "Swing Trader", Bonus: "Faster cooldowns between actions", Tooltip: "Buy the dip, sell the rip."},
}

// Scenarios is the pool of match-wide modifiers. Exactly one is drawn per
// match during pre-match; ClassBias is an additive per-tick price drift.
var Scenarios = []model.Scenario{
	{
		ID: "TECH_MOONSHOT", Title: "Tech Moonshot",
		Description: "Ultra bullish on Tech.",
		Effect:      "Tech stocks soar early. Only the patient will survive.",
		ClassBias:   map[model.AssetClass]float64{model.ClassStock: 0.004},
	},
	{
		ID: "CRYPTO_WINTER", Title: "Crypto Winter",
		Description: "Scary & bearish for Crypto.",
		Effect:      "Crypto dumps at start. Fortunes reverse as fast as they rise.",
		ClassBias:   map[model.AssetClass]float64{model.ClassCrypto: -0.006},
	},
	{
		ID: "RATE_SHOCKWAVE", Title: "Rate Shockwave",
		Description: "Fear in the market.",
		Effect:      "Bonds rise, stocks stumble. Diversify — or die trying.",
		ClassBias:   map[model.AssetClass]float64{model.ClassBond: 0.003, model.ClassStock: -0.003},
	},
	{
		ID: "GREEN_ENERGY_SURGE", Title: "Green Energy Surge",
		Description: "Optimistic for ETFs.",
		Effect:      "ETFs outperform. Follow the trend.",
		ClassBias:   map[model.AssetClass]float64{model.ClassETF: 0.004},
	},
}

// RandomScenario draws a scenario for the match. The returned value is a
// copy; live state never aliases the catalog.
func RandomScenario(rng *rand.Rand) *model.Scenario {
	s := Scenarios[rng.Intn(len(Scenarios))]
	bias := make(map[model.AssetClass]float64, len(s.ClassBias))
	for k, v := range s.ClassBias {
		bias[k] = v
	}
	s.ClassBias = bias
	return &s
}

// AvatarExists reports whether the id names a catalog avatar.
func AvatarExists(id string) bool {
	for _, a := range Avatars {
		if a.ID == id {
			return true
		}
	}
	return false
}

// StrategyExists reports whether the id names a catalog strategy.
func StrategyExists(id string) bool {
	for _, s := range Strategies {
		if s.ID == id {
			return true
		}
	}
	return false
}
