package results

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/metrics"
	"github.com/bullvbear/match-engine/internal/model"
)

// Generator turns final player states into ranked match results with
// critiques. Critique generation fans out per player and is bounded by the
// advisor timeout, so results land within a fixed budget of match end.
type Generator struct {
	startingCash  decimal.Decimal
	bonusRate     decimal.Decimal
	bonusMin      int
	riskPenalty   float64
	advisor       Advisor
	fallback      Heuristic
	advisorBudget time.Duration
	logger        *slog.Logger
}

// NewGenerator builds a generator from the engine configuration. advisor may
// be nil, in which case every critique comes from the heuristic.
func NewGenerator(cfg *config.Config, advisor Advisor, logger *slog.Logger) *Generator {
	return &Generator{
		startingCash:  decimal.NewFromFloat(cfg.Match.StartingCash),
		bonusRate:     decimal.NewFromFloat(cfg.Results.DiversifierBonusRate),
		bonusMin:      cfg.Results.DiversifierMinAssets,
		riskPenalty:   cfg.Results.RiskPenaltyCoeff,
		advisor:       advisor,
		fallback:      Heuristic{},
		advisorBudget: cfg.Advisor.Timeout,
		logger:        logger,
	}
}

// Generate computes each player's final standing and critique, then ranks
// the field by risk-adjusted score. Ties keep the input order, and ranks run
// densely from 1.
func (g *Generator) Generate(ctx context.Context, players []*model.Player) []model.MatchResult {
	results := make([]model.MatchResult, len(players))

	grp, grpCtx := errgroup.WithContext(ctx)
	for i, p := range players {
		i, p := i, p
		results[i] = g.score(p)

		grp.Go(func() error {
			results[i].Critique = g.critique(grpCtx, p, results[i])
			return nil
		})
	}
	// Workers never return errors; fallbacks absorb every failure.
	_ = grp.Wait()

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].RiskAdjustedScore > results[b].RiskAdjustedScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// score computes the final value, ROI and risk-adjusted score for one
// player. The diversifier bonus applies before ROI so the bonus counts as
// realized return.
func (g *Generator) score(p *model.Player) model.MatchResult {
	finalValue := p.TotalValue
	if p.StrategyID == model.StrategyDiversifier && g.distinctHeld(p) >= g.bonusMin {
		finalValue = finalValue.Add(finalValue.Mul(g.bonusRate))
	}

	roi := finalValue.Sub(g.startingCash).
		Div(g.startingCash).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()

	return model.MatchResult{
		PlayerID:          p.ID,
		PlayerName:        p.Name,
		FinalValue:        finalValue,
		ROI:               roi,
		RiskScore:         p.RiskScore,
		RiskAdjustedScore: roi - g.riskPenalty*float64(p.RiskScore),
	}
}

func (g *Generator) distinctHeld(p *model.Player) int {
	seen := make(map[string]bool, len(p.Holdings))
	for _, h := range p.Holdings {
		if h.Quantity.GreaterThan(decimal.Zero) {
			seen[h.AssetID] = true
		}
	}
	return len(seen)
}

// critique asks the advisor within its time budget and falls back to the
// heuristic on any failure. The heuristic cannot fail, so the return is
// always a complete critique.
func (g *Generator) critique(ctx context.Context, p *model.Player, scored model.MatchResult) model.Critique {
	req := AdvisorRequest{
		PlayerName:   p.Name,
		ROI:          scored.ROI,
		RiskScore:    scored.RiskScore,
		Transactions: p.TransactionLog,
	}

	if g.advisor != nil {
		callCtx, cancel := context.WithTimeout(ctx, g.advisorBudget)
		defer cancel()

		critique, err := g.advisor.Critique(callCtx, req)
		if err == nil {
			return critique
		}
		metrics.CritiqueFallbacks.Inc()
		g.logger.Warn("advisor critique failed, using heuristic",
			"player", p.Name, "error", err)
	}

	critique, _ := g.fallback.Critique(ctx, req)
	return critique
}
