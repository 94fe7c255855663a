package config

import (
	"fmt"
	"math"

	"github.com/bullvbear/match-engine/internal/model"
)

// Validate checks the configuration for values the engine cannot run with.
// It assumes defaults have been applied.
func (c *Config) Validate() error {
	if c.Match.Rounds < 1 {
		return fmt.Errorf("match.rounds must be >= 1, got %d", c.Match.Rounds)
	}
	if c.Match.NewsWindowSeconds >= c.Match.RoundSeconds {
		return fmt.Errorf("match.news_window_seconds (%d) must be shorter than match.round_seconds (%d)",
			c.Match.NewsWindowSeconds, c.Match.RoundSeconds)
	}
	if c.Match.StartingCash <= 0 {
		return fmt.Errorf("match.starting_cash must be positive, got %v", c.Match.StartingCash)
	}
	if c.Match.PriceHistoryLimit < 2 {
		return fmt.Errorf("match.price_history_limit must be >= 2, got %d", c.Match.PriceHistoryLimit)
	}

	for _, class := range model.AssetClasses {
		vol, ok := c.Market.BaseVolatility[class]
		if !ok {
			return fmt.Errorf("market.base_volatility missing class %s", class)
		}
		if vol <= 0 {
			return fmt.Errorf("market.base_volatility[%s] must be positive, got %v", class, vol)
		}
	}
	if c.Market.MaxRoundMove <= 0 || c.Market.MaxRoundMove >= 1 {
		return fmt.Errorf("market.max_round_move must be in (0, 1), got %v", c.Market.MaxRoundMove)
	}
	decaySum := c.Market.TimeDecayEarly + c.Market.TimeDecayMid + c.Market.TimeDecayLate
	if math.Abs(decaySum-1) > 1e-9 {
		return fmt.Errorf("market time decay fractions must sum to 1, got %v", decaySum)
	}
	if c.Market.ShockWindowSeconds >= c.Match.TradingWindowSeconds() {
		return fmt.Errorf("market.shock_window_seconds (%d) must fit inside the trading window (%d)",
			c.Market.ShockWindowSeconds, c.Match.TradingWindowSeconds())
	}
	if c.Market.StabilizationSeconds >= c.Match.TradingWindowSeconds() {
		return fmt.Errorf("market.stabilization_seconds (%d) must fit inside the trading window (%d)",
			c.Market.StabilizationSeconds, c.Match.TradingWindowSeconds())
	}

	for i, band := range c.Trading.SlippageBands {
		if band.Notional <= 0 || band.Rate < 0 {
			return fmt.Errorf("trading.slippage_bands[%d] invalid: notional=%v rate=%v", i, band.Notional, band.Rate)
		}
		if i > 0 && band.Notional >= c.Trading.SlippageBands[i-1].Notional {
			return fmt.Errorf("trading.slippage_bands must be sorted by descending notional")
		}
	}

	if c.Risk.SentimentDecay <= 0 || c.Risk.SentimentDecay > 1 {
		return fmt.Errorf("risk.sentiment_decay must be in (0, 1], got %v", c.Risk.SentimentDecay)
	}
	if c.Risk.RotationMinPoints > c.Risk.RotationMaxPoints {
		return fmt.Errorf("risk.rotation_min_points (%v) exceeds rotation_max_points (%v)",
			c.Risk.RotationMinPoints, c.Risk.RotationMaxPoints)
	}

	if c.Advisor.URL != "" && c.Advisor.Timeout <= 0 {
		return fmt.Errorf("advisor.timeout must be positive when advisor.url is set")
	}

	return nil
}
