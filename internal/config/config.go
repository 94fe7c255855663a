// Package config loads and validates the engine configuration. The
// simulation has deliberately many tunables (volatility bands, sentiment
// multipliers, slippage thresholds, phase durations, safety rails); they all
// live here with canonical defaults so one YAML file can retune a match
// without touching code.
package config

import (
	"time"

	"github.com/bullvbear/match-engine/internal/model"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Match   MatchConfig   `yaml:"match"`
	Market  MarketConfig  `yaml:"market"`
	Trading TradingConfig `yaml:"trading"`
	Risk    RiskConfig    `yaml:"risk"`
	Results ResultsConfig `yaml:"results"`
	Advisor AdvisorConfig `yaml:"advisor"`
}

// ServerConfig covers the HTTP/WebSocket listener.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// MatchConfig covers phase durations and player starting resources. All
// durations are whole seconds; every timer in the engine ticks once per
// second.
type MatchConfig struct {
	Rounds                 int     `yaml:"rounds"`
	RoundSeconds           int     `yaml:"round_seconds"`
	NewsWindowSeconds      int     `yaml:"news_window_seconds"`
	IntroSeconds           int     `yaml:"intro_seconds"`
	AvatarSelectSeconds    int     `yaml:"avatar_select_seconds"`
	StrategySelectSeconds  int     `yaml:"strategy_select_seconds"`
	ScenarioTeaserSeconds  int     `yaml:"scenario_teaser_seconds"`
	TutorialSeconds        int     `yaml:"tutorial_seconds"`
	StartingCash           float64 `yaml:"starting_cash"`
	PriceHistoryLimit      int     `yaml:"price_history_limit"`
	RiskShieldReduction    int     `yaml:"risk_shield_reduction"`
	BailoutCash            float64 `yaml:"bailout_cash"`
}

// TradingWindowSeconds is the tradable portion of a round.
func (m MatchConfig) TradingWindowSeconds() int {
	return m.RoundSeconds - m.NewsWindowSeconds
}

// MarketConfig covers price formation.
type MarketConfig struct {
	// Per-class base volatility coefficients.
	BaseVolatility map[model.AssetClass]float64 `yaml:"base_volatility"`
	// Per-grade sentiment multipliers for news impact.
	GradeMultiplier map[model.SentimentGrade]float64 `yaml:"grade_multiplier"`
	// Per-sector sensitivity to news. Gold is negative: it moves against
	// risk assets.
	SectorSensitivity map[model.Sector]float64 `yaml:"sector_sensitivity"`
	// Multiplier applied to assets whose sector the news does not touch.
	UnaffectedSectorFactor float64 `yaml:"unaffected_sector_factor"`
	// Scale factor on the combined news impact term.
	NewsImpactScale float64 `yaml:"news_impact_scale"`
	// Fraction of total news impact apportioned to each third of the
	// trading window. Must sum to 1.
	TimeDecayEarly float64 `yaml:"time_decay_early"`
	TimeDecayMid   float64 `yaml:"time_decay_mid"`
	TimeDecayLate  float64 `yaml:"time_decay_late"`
	// Shock window: amplification during the first seconds of trading.
	ShockWindowSeconds int     `yaml:"shock_window_seconds"`
	ShockMultiplier    float64 `yaml:"shock_multiplier"`
	// Controlled randomness amplitude, and the damped amplitude used after
	// ChaosDampingAfter consecutive rounds of same-polarity news.
	RandomFactor       float64 `yaml:"random_factor"`
	DampedRandomFactor float64 `yaml:"damped_random_factor"`
	ChaosDampingAfter  int     `yaml:"chaos_damping_after"`
	// Continuous drift proportional to class sentiment.
	SentimentDriftCoeff float64 `yaml:"sentiment_drift_coeff"`
	// Stabilization: final seconds of the trading window are damped and
	// pulled back toward the round-start price.
	StabilizationSeconds int     `yaml:"stabilization_seconds"`
	StabilizationFactor  float64 `yaml:"stabilization_factor"`
	MeanReversionPull    float64 `yaml:"mean_reversion_pull"`
	// Safety rail: max deviation from the round-start price.
	MaxRoundMove float64 `yaml:"max_round_move"`
}

// TradingConfig covers order execution.
type TradingConfig struct {
	// SlippageBands maps notional order value thresholds to the extra
	// execution-price percentage. Checked from the highest band down; the
	// first band the order value exceeds applies.
	SlippageBands []SlippageBand `yaml:"slippage_bands"`
}

// SlippageBand is one step of the anti-whale slippage function.
type SlippageBand struct {
	Notional float64 `yaml:"notional"`
	Rate     float64 `yaml:"rate"`
}

// RiskConfig covers the point-in-time risk score and sentiment decay.
type RiskConfig struct {
	ScalingConstant      float64 `yaml:"scaling_constant"`
	SafetyFirstReduction int     `yaml:"safety_first_reduction"`
	// SentimentDecay multiplies every class sentiment once per round start,
	// pulling it toward zero.
	SentimentDecay float64 `yaml:"sentiment_decay"`
	// NewsAmplifier scales the sentiment-ledger delta applied by a news
	// card.
	NewsAmplifier float64 `yaml:"news_amplifier"`
	// Sector rotation drift bounds, in sentiment points.
	RotationMinPoints float64 `yaml:"rotation_min_points"`
	RotationMaxPoints float64 `yaml:"rotation_max_points"`
}

// ResultsConfig covers final scoring.
type ResultsConfig struct {
	DiversifierBonusRate float64 `yaml:"diversifier_bonus_rate"`
	DiversifierMinAssets int     `yaml:"diversifier_min_assets"`
	RiskPenaltyCoeff     float64 `yaml:"risk_penalty_coeff"`
}

// AdvisorConfig covers the external coaching collaborator. An empty URL
// disables the remote advisor entirely; the heuristic then serves every
// critique.
type AdvisorConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}
