package results

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/model"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func player(name string, totalValue float64, risk int) *model.Player {
	return &model.Player{
		ID:         "id-" + name,
		Name:       name,
		TotalValue: d(totalValue),
		RiskScore:  risk,
	}
}

// --- Scoring and ranking ---

func TestGenerate_RanksByRiskAdjustedScore(t *testing.T) {
	g := NewGenerator(config.Default(), nil, discard())

	// Bob has the higher raw return but carries far more risk.
	players := []*model.Player{
		player("alice", 12000, 10), // ROI 20, RAS 15
		player("bob", 13000, 80),   // ROI 30, RAS -10
	}
	results := g.Generate(context.Background(), players)

	if results[0].PlayerName != "alice" || results[0].Rank != 1 {
		t.Errorf("expected alice ranked 1, got %s rank %d",
			results[0].PlayerName, results[0].Rank)
	}
	if results[1].PlayerName != "bob" || results[1].Rank != 2 {
		t.Errorf("expected bob ranked 2, got %s rank %d",
			results[1].PlayerName, results[1].Rank)
	}
	if results[0].RiskAdjustedScore != 15 {
		t.Errorf("expected alice RAS 15, got %v", results[0].RiskAdjustedScore)
	}
}

func TestGenerate_TiesKeepInputOrder(t *testing.T) {
	g := NewGenerator(config.Default(), nil, discard())
	players := []*model.Player{
		player("first", 11000, 20),
		player("second", 11000, 20),
		player("third", 11000, 20),
	}
	results := g.Generate(context.Background(), players)

	names := []string{"first", "second", "third"}
	for i, want := range names {
		if results[i].PlayerName != want || results[i].Rank != i+1 {
			t.Errorf("position %d: expected %s rank %d, got %s rank %d",
				i, want, i+1, results[i].PlayerName, results[i].Rank)
		}
	}
}

func TestGenerate_DiversifierBonus(t *testing.T) {
	g := NewGenerator(config.Default(), nil, discard())

	diversified := player("div", 10000, 0)
	diversified.StrategyID = model.StrategyDiversifier
	for _, id := range []string{"a", "b", "c", "d"} {
		diversified.Holdings = append(diversified.Holdings,
			model.Holding{AssetID: id, Quantity: d(1)})
	}

	concentrated := player("conc", 10000, 0)
	concentrated.StrategyID = model.StrategyDiversifier
	concentrated.Holdings = []model.Holding{{AssetID: "a", Quantity: d(4)}}

	results := g.Generate(context.Background(), []*model.Player{diversified, concentrated})

	for _, r := range results {
		switch r.PlayerName {
		case "div":
			if !r.FinalValue.Equal(d(10500)) {
				t.Errorf("expected 5%% bonus on 10000, got %s", r.FinalValue)
			}
		case "conc":
			if !r.FinalValue.Equal(d(10000)) {
				t.Errorf("expected no bonus below 4 distinct assets, got %s", r.FinalValue)
			}
		}
	}
}

// --- Critique fallback ---

func TestGenerate_NilAdvisorUsesHeuristic(t *testing.T) {
	g := NewGenerator(config.Default(), nil, discard())
	results := g.Generate(context.Background(), []*model.Player{player("alice", 10000, 0)})

	c := results[0].Critique
	if len(c.Strengths) == 0 || len(c.Mistakes) == 0 || len(c.Suggestions) == 0 {
		t.Errorf("heuristic critique must fill every section: %+v", c)
	}
}

func TestGenerate_FailingAdvisorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Advisor.URL = srv.URL
	cfg.Advisor.Timeout = 2 * time.Second
	g := NewGenerator(cfg, NewHTTPAdvisor(srv.URL), discard())

	start := time.Now()
	results := g.Generate(context.Background(), []*model.Player{player("alice", 11000, 5)})
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("fallback took too long: %v", elapsed)
	}

	c := results[0].Critique
	if len(c.Strengths) == 0 || len(c.Mistakes) == 0 || len(c.Suggestions) == 0 {
		t.Errorf("fallback critique must fill every section: %+v", c)
	}
}

func TestGenerate_AdvisorResponseUsedWhenValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req AdvisorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("advisor received malformed request: %v", err)
		}
		json.NewEncoder(w).Encode(model.Critique{
			Strengths:   []string{"remote strength"},
			Mistakes:    []string{"remote mistake"},
			Suggestions: []string{"remote suggestion"},
		})
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Advisor.Timeout = 2 * time.Second
	g := NewGenerator(cfg, NewHTTPAdvisor(srv.URL), discard())

	results := g.Generate(context.Background(), []*model.Player{player("alice", 10000, 0)})
	if got := results[0].Critique.Strengths[0]; got != "remote strength" {
		t.Errorf("expected remote critique, got %q", got)
	}
}

func TestHTTPAdvisor_RejectsIncompleteCritique(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(model.Critique{Strengths: []string{"only strengths"}})
	}))
	defer srv.Close()

	a := NewHTTPAdvisor(srv.URL)
	_, err := a.Critique(context.Background(), AdvisorRequest{PlayerName: "alice"})
	if err == nil {
		t.Fatal("expected error for critique missing sections")
	}
}

// --- Heuristic rules ---

func buyTx(assetID string, sentiment float64) model.Transaction {
	return model.Transaction{
		Side: model.SideBuy, AssetID: assetID, SentimentAtTime: sentiment,
	}
}

func TestHeuristic_CommendsDiversification(t *testing.T) {
	c, err := Heuristic{}.Critique(context.Background(), AdvisorRequest{
		Transactions: []model.Transaction{
			buyTx("a", 0), buyTx("b", 0), buyTx("c", 0),
		},
	})
	if err != nil {
		t.Fatalf("heuristic must not fail: %v", err)
	}
	if !containsSubstring(c.Strengths, "assets") {
		t.Errorf("expected diversification commendation, got %v", c.Strengths)
	}
}

func TestHeuristic_FlagsConcentration(t *testing.T) {
	c, _ := Heuristic{}.Critique(context.Background(), AdvisorRequest{
		Transactions: []model.Transaction{buyTx("a", 0), buyTx("a", 0)},
	})
	if !containsSubstring(c.Mistakes, "single asset") {
		t.Errorf("expected concentration flag, got %v", c.Mistakes)
	}
}

func TestHeuristic_CommendsContrarianBuying(t *testing.T) {
	c, _ := Heuristic{}.Critique(context.Background(), AdvisorRequest{
		Transactions: []model.Transaction{buyTx("a", -60)},
	})
	if !containsSubstring(c.Strengths, "contrarian") {
		t.Errorf("expected contrarian commendation, got %v", c.Strengths)
	}
}

func TestHeuristic_FlagsHypeChasing(t *testing.T) {
	c, _ := Heuristic{}.Critique(context.Background(), AdvisorRequest{
		Transactions: []model.Transaction{buyTx("a", 70), buyTx("b", 80)},
	})
	if !containsSubstring(c.Mistakes, "positive sentiment") {
		t.Errorf("expected hype-chasing flag, got %v", c.Mistakes)
	}
}

func TestHeuristic_NudgesNonTraders(t *testing.T) {
	c, _ := Heuristic{}.Critique(context.Background(), AdvisorRequest{})
	if !containsSubstring(c.Suggestions, "never traded") {
		t.Errorf("expected no-trade nudge, got %v", c.Suggestions)
	}
	if len(c.Strengths) == 0 || len(c.Mistakes) == 0 {
		t.Error("sections must never be empty, even with no trades")
	}
}

func containsSubstring(items []string, sub string) bool {
	for _, s := range items {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
