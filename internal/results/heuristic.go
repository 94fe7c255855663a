package results

import (
	"context"
	"fmt"

	"github.com/bullvbear/match-engine/internal/model"
)

// Sentiment thresholds the heuristic rules branch on.
const (
	contrarianThreshold = -50.0
	hypeThreshold       = 50.0
)

// Heuristic is the local critique generator: a fixed rule set over the
// transaction log. It never fails and never returns an empty section, so it
// is always a safe fallback.
type Heuristic struct{}

// Critique implements Advisor. The context is accepted for interface
// symmetry; generation is synchronous and cheap.
func (Heuristic) Critique(_ context.Context, req AdvisorRequest) (model.Critique, error) {
	var c model.Critique

	// Distinct assets bought stand in for assets held: the request carries
	// only the transaction log, not final holdings.
	distinct := make(map[string]bool)
	contrarianBuys := 0
	hypeBuys := 0
	for _, tx := range req.Transactions {
		if tx.Side != model.SideBuy {
			continue
		}
		distinct[tx.AssetID] = true
		if tx.SentimentAtTime <= contrarianThreshold {
			contrarianBuys++
		}
		if tx.SentimentAtTime >= hypeThreshold {
			hypeBuys++
		}
	}

	if len(distinct) >= 3 {
		c.Strengths = append(c.Strengths,
			fmt.Sprintf("You spread your trades across %d different assets, which cushioned you against single-asset shocks.", len(distinct)))
		c.Cards = append(c.Cards, model.LearningCard{
			Title: "Diversification",
			Text:  "Holding several uncorrelated assets lowers the damage any one piece of bad news can do to your portfolio.",
		})
	}
	if contrarianBuys > 0 {
		c.Strengths = append(c.Strengths,
			"You bought into deeply negative sentiment at least once. Buying when others panic is how contrarians find bargains.")
	}
	if req.ROI > 0 {
		c.Strengths = append(c.Strengths,
			fmt.Sprintf("You finished with a positive return of %.1f%%.", req.ROI))
	}

	if len(req.Transactions) > 0 && len(distinct) <= 1 {
		c.Mistakes = append(c.Mistakes,
			"All your buying concentrated on a single asset. One bad headline could have wiped out your gains.")
		c.Cards = append(c.Cards, model.LearningCard{
			Title: "Concentration Risk",
			Text:  "A portfolio built on one asset lives or dies with it. Spreading capital reduces that exposure.",
		})
	}
	if hypeBuys >= 2 {
		c.Mistakes = append(c.Mistakes,
			"You repeatedly bought assets at peak positive sentiment, which is usually when prices are most stretched.")
		c.Cards = append(c.Cards, model.LearningCard{
			Title: "News Drives Markets",
			Text:  "Prices react fastest right after a headline lands. Chasing a rally that has already happened often means buying the top.",
		})
	}
	if req.RiskScore >= 70 {
		c.Mistakes = append(c.Mistakes,
			fmt.Sprintf("Your risk score of %d means most of your money sat in highly volatile assets.", req.RiskScore))
	}

	if len(req.Transactions) == 0 {
		c.Suggestions = append(c.Suggestions,
			"You never traded. Cash is safe, but it also never grows; next time try a small position early and watch how news moves it.")
	} else {
		c.Suggestions = append(c.Suggestions,
			"Watch the news window before each round: headlines name the sectors they hit, and reacting in the first seconds captures most of the move.")
	}

	// Every section must hold at least one item.
	if len(c.Strengths) == 0 {
		c.Strengths = append(c.Strengths,
			"You stayed engaged for the whole match and kept your portfolio solvent.")
	}
	if len(c.Mistakes) == 0 {
		c.Mistakes = append(c.Mistakes,
			"Nothing stands out as a clear error, but leaning harder on sector news could have squeezed out more return.")
	}
	if len(c.Cards) > maxLearningCards {
		c.Cards = c.Cards[:maxLearningCards]
	}
	return c, nil
}
