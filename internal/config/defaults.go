package config

import (
	"time"

	"github.com/bullvbear/match-engine/internal/model"
)

// Default values for optional configuration fields. The numeric set is the
// canonical "game mode" tuning: dramatic on purpose, bounded by the safety
// rails.
const (
	DefaultPort            = "8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	DefaultRounds                = 5
	DefaultRoundSeconds          = 35
	DefaultNewsWindowSeconds     = 5
	DefaultIntroSeconds          = 3
	DefaultAvatarSelectSeconds   = 15
	DefaultStrategySelectSeconds = 15
	DefaultScenarioTeaserSeconds = 5
	DefaultTutorialSeconds       = 5
	DefaultStartingCash          = 10000
	DefaultPriceHistoryLimit     = 50
	DefaultRiskShieldReduction   = 20
	DefaultBailoutCash           = 1000

	DefaultUnaffectedSectorFactor = 0.1
	DefaultNewsImpactScale        = 0.025
	DefaultTimeDecayEarly         = 0.6
	DefaultTimeDecayMid           = 0.3
	DefaultTimeDecayLate          = 0.1
	DefaultShockWindowSeconds     = 7
	DefaultShockMultiplier        = 2.0
	DefaultRandomFactor           = 0.12
	DefaultDampedRandomFactor     = 0.06
	DefaultChaosDampingAfter      = 2
	DefaultSentimentDriftCoeff    = 0.002
	DefaultStabilizationSeconds   = 3
	DefaultStabilizationFactor    = 0.3
	DefaultMeanReversionPull      = 0.05
	DefaultMaxRoundMove           = 0.40

	DefaultRiskScalingConstant  = 300
	DefaultSafetyFirstReduction = 10
	DefaultSentimentDecay       = 0.8
	DefaultNewsAmplifier        = 15
	DefaultRotationMinPoints    = 1.0
	DefaultRotationMaxPoints    = 2.0

	DefaultDiversifierBonusRate = 0.05
	DefaultDiversifierMinAssets = 4
	DefaultRiskPenaltyCoeff     = 0.5

	DefaultAdvisorTimeout = 8 * time.Second
)

// DefaultBaseVolatility returns the per-class volatility coefficients.
func DefaultBaseVolatility() map[model.AssetClass]float64 {
	return map[model.AssetClass]float64{
		model.ClassStock:  0.15,
		model.ClassCrypto: 0.30,
		model.ClassBond:   0.06,
		model.ClassETF:    0.10,
	}
}

// DefaultGradeMultiplier returns the per-grade news impact multipliers.
func DefaultGradeMultiplier() map[model.SentimentGrade]float64 {
	return map[model.SentimentGrade]float64{
		model.GradeVeryPositive: 3.5,
		model.GradePositive:     2.2,
		model.GradeNeutral:      0.3,
		model.GradeNegative:     -2.2,
		model.GradeVeryNegative: -3.5,
	}
}

// DefaultSectorSensitivity returns the per-sector news sensitivities.
func DefaultSectorSensitivity() map[model.Sector]float64 {
	return map[model.Sector]float64{
		model.SectorTechnology: 2.0,
		model.SectorFinance:    1.8,
		model.SectorEnergy:     1.9,
		model.SectorCrypto:     3.0,
		model.SectorBonds:      1.2,
		model.SectorGold:       -1.2,
	}
}

// DefaultSlippageBands returns the notional slippage steps, highest first.
func DefaultSlippageBands() []SlippageBand {
	return []SlippageBand{
		{Notional: 5000, Rate: 0.02},
		{Notional: 2000, Rate: 0.01},
		{Notional: 1000, Rate: 0.005},
	}
}

// Default returns a Config populated entirely from defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every zero-valued field. A zero is treated as unset,
// so an explicit zero in YAML (e.g. unaffected_sector_factor: 0) also gets
// the default; to effectively disable a numeric tunable, configure a value
// near zero instead.
func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Match defaults
	if c.Match.Rounds == 0 {
		c.Match.Rounds = DefaultRounds
	}
	if c.Match.RoundSeconds == 0 {
		c.Match.RoundSeconds = DefaultRoundSeconds
	}
	if c.Match.NewsWindowSeconds == 0 {
		c.Match.NewsWindowSeconds = DefaultNewsWindowSeconds
	}
	if c.Match.IntroSeconds == 0 {
		c.Match.IntroSeconds = DefaultIntroSeconds
	}
	if c.Match.AvatarSelectSeconds == 0 {
		c.Match.AvatarSelectSeconds = DefaultAvatarSelectSeconds
	}
	if c.Match.StrategySelectSeconds == 0 {
		c.Match.StrategySelectSeconds = DefaultStrategySelectSeconds
	}
	if c.Match.ScenarioTeaserSeconds == 0 {
		c.Match.ScenarioTeaserSeconds = DefaultScenarioTeaserSeconds
	}
	if c.Match.TutorialSeconds == 0 {
		c.Match.TutorialSeconds = DefaultTutorialSeconds
	}
	if c.Match.StartingCash == 0 {
		c.Match.StartingCash = DefaultStartingCash
	}
	if c.Match.PriceHistoryLimit == 0 {
		c.Match.PriceHistoryLimit = DefaultPriceHistoryLimit
	}
	if c.Match.RiskShieldReduction == 0 {
		c.Match.RiskShieldReduction = DefaultRiskShieldReduction
	}
	if c.Match.BailoutCash == 0 {
		c.Match.BailoutCash = DefaultBailoutCash
	}

	// Market defaults
	if c.Market.BaseVolatility == nil {
		c.Market.BaseVolatility = DefaultBaseVolatility()
	}
	if c.Market.GradeMultiplier == nil {
		c.Market.GradeMultiplier = DefaultGradeMultiplier()
	}
	if c.Market.SectorSensitivity == nil {
		c.Market.SectorSensitivity = DefaultSectorSensitivity()
	}
	if c.Market.UnaffectedSectorFactor == 0 {
		c.Market.UnaffectedSectorFactor = DefaultUnaffectedSectorFactor
	}
	if c.Market.NewsImpactScale == 0 {
		c.Market.NewsImpactScale = DefaultNewsImpactScale
	}
	if c.Market.TimeDecayEarly == 0 {
		c.Market.TimeDecayEarly = DefaultTimeDecayEarly
	}
	if c.Market.TimeDecayMid == 0 {
		c.Market.TimeDecayMid = DefaultTimeDecayMid
	}
	if c.Market.TimeDecayLate == 0 {
		c.Market.TimeDecayLate = DefaultTimeDecayLate
	}
	if c.Market.ShockWindowSeconds == 0 {
		c.Market.ShockWindowSeconds = DefaultShockWindowSeconds
	}
	if c.Market.ShockMultiplier == 0 {
		c.Market.ShockMultiplier = DefaultShockMultiplier
	}
	if c.Market.RandomFactor == 0 {
		c.Market.RandomFactor = DefaultRandomFactor
	}
	if c.Market.DampedRandomFactor == 0 {
		c.Market.DampedRandomFactor = DefaultDampedRandomFactor
	}
	if c.Market.ChaosDampingAfter == 0 {
		c.Market.ChaosDampingAfter = DefaultChaosDampingAfter
	}
	if c.Market.SentimentDriftCoeff == 0 {
		c.Market.SentimentDriftCoeff = DefaultSentimentDriftCoeff
	}
	if c.Market.StabilizationSeconds == 0 {
		c.Market.StabilizationSeconds = DefaultStabilizationSeconds
	}
	if c.Market.StabilizationFactor == 0 {
		c.Market.StabilizationFactor = DefaultStabilizationFactor
	}
	if c.Market.MeanReversionPull == 0 {
		c.Market.MeanReversionPull = DefaultMeanReversionPull
	}
	if c.Market.MaxRoundMove == 0 {
		c.Market.MaxRoundMove = DefaultMaxRoundMove
	}

	// Trading defaults
	if c.Trading.SlippageBands == nil {
		c.Trading.SlippageBands = DefaultSlippageBands()
	}

	// Risk defaults
	if c.Risk.ScalingConstant == 0 {
		c.Risk.ScalingConstant = DefaultRiskScalingConstant
	}
	if c.Risk.SafetyFirstReduction == 0 {
		c.Risk.SafetyFirstReduction = DefaultSafetyFirstReduction
	}
	if c.Risk.SentimentDecay == 0 {
		c.Risk.SentimentDecay = DefaultSentimentDecay
	}
	if c.Risk.NewsAmplifier == 0 {
		c.Risk.NewsAmplifier = DefaultNewsAmplifier
	}
	if c.Risk.RotationMinPoints == 0 {
		c.Risk.RotationMinPoints = DefaultRotationMinPoints
	}
	if c.Risk.RotationMaxPoints == 0 {
		c.Risk.RotationMaxPoints = DefaultRotationMaxPoints
	}

	// Results defaults
	if c.Results.DiversifierBonusRate == 0 {
		c.Results.DiversifierBonusRate = DefaultDiversifierBonusRate
	}
	if c.Results.DiversifierMinAssets == 0 {
		c.Results.DiversifierMinAssets = DefaultDiversifierMinAssets
	}
	if c.Results.RiskPenaltyCoeff == 0 {
		c.Results.RiskPenaltyCoeff = DefaultRiskPenaltyCoeff
	}

	// Advisor defaults
	if c.Advisor.Timeout == 0 {
		c.Advisor.Timeout = DefaultAdvisorTimeout
	}
}
