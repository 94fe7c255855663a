package catalog

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/model"
)

// --- Catalog integrity ---

func TestAssets_AllClassesAndSectorsKnown(t *testing.T) {
	if len(Assets) != 28 {
		t.Fatalf("expected 28 assets, got %d", len(Assets))
	}
	classCounts := make(map[model.AssetClass]int)
	for _, a := range Assets {
		classCounts[a.Class]++
		if _, ok := SectorClasses[a.Sector]; !ok {
			t.Errorf("asset %s has sector %s with no class mapping", a.ID, a.Sector)
		}
		if a.BasePrice <= 0 {
			t.Errorf("asset %s has non-positive base price", a.ID)
		}
	}
	for _, class := range model.AssetClasses {
		if classCounts[class] == 0 {
			t.Errorf("no assets for class %s", class)
		}
	}
}

func TestNewsCards_PoolIsComplete(t *testing.T) {
	if len(NewsCards) != 30 {
		t.Fatalf("expected 30 news cards, got %d", len(NewsCards))
	}
	for _, c := range NewsCards {
		if len(c.Sectors) == 0 {
			t.Errorf("card %d affects no sectors", c.ID)
		}
		if c.Duration < 1 {
			t.Errorf("card %d has duration %d", c.ID, c.Duration)
		}
	}
}

func TestToMarketEvent_GradeDrivesIntensity(t *testing.T) {
	card := NewsCard{ID: 1, Headline: "h", Grade: model.GradeVeryNegative,
		Sectors: []model.Sector{model.SectorCrypto}, Duration: 2}
	ev := card.ToMarketEvent()
	if ev.Intensity != "high" {
		t.Errorf("expected high intensity for very negative grade, got %s", ev.Intensity)
	}
	if ev.RemainingRounds != 2 {
		t.Errorf("expected remaining rounds 2, got %d", ev.RemainingRounds)
	}
	if !ev.Affects(model.SectorCrypto) || ev.Affects(model.SectorGold) {
		t.Error("event sector routing wrong")
	}
}

// --- Factory independence ---

func TestNewGameState_FreshCopies(t *testing.T) {
	cfg := config.Default()
	a := NewGameState(cfg)
	b := NewGameState(cfg)

	if a.ID == b.ID {
		t.Error("consecutive states should have distinct ids")
	}

	a.Assets[0].CurrentPrice = decimal.NewFromInt(1)
	a.Assets[0].History = append(a.Assets[0].History, decimal.NewFromInt(1))
	if b.Assets[0].CurrentPrice.Equal(decimal.NewFromInt(1)) {
		t.Error("mutating one state's asset leaked into the other")
	}
	if len(b.Assets[0].History) != 1 {
		t.Error("history slice shared between states")
	}

	a.Sentiment[model.ClassCrypto] = 50
	if b.Sentiment[model.ClassCrypto] != 0 {
		t.Error("sentiment map shared between states")
	}
}

func TestNewGameState_StartsInLobby(t *testing.T) {
	state := NewGameState(config.Default())
	if state.Phase != model.PhasePreMatch {
		t.Errorf("expected pre-match phase, got %s", state.Phase)
	}
	if state.SubPhase != model.SubPhaseIntro {
		t.Errorf("expected intro sub-phase, got %s", state.SubPhase)
	}
	for _, a := range state.Assets {
		if a.BaseVolatility <= 0 {
			t.Errorf("asset %s missing volatility from config", a.ID)
		}
		if len(a.History) != 1 || !a.History[0].Equal(a.CurrentPrice) {
			t.Errorf("asset %s history should start with its base price", a.ID)
		}
	}
}

func TestNewPlayer_StartingResources(t *testing.T) {
	cfg := config.Default()
	p := NewPlayer(cfg, "s1", "alice")
	if !p.Cash.Equal(decimal.NewFromFloat(cfg.Match.StartingCash)) {
		t.Errorf("expected starting cash %v, got %s", cfg.Match.StartingCash, p.Cash)
	}
	if !p.TotalValue.Equal(p.Cash) {
		t.Error("total value should equal cash before any trades")
	}
	if len(p.PowerUps) != 2 {
		t.Fatalf("expected 2 power-ups, got %d", len(p.PowerUps))
	}
	for _, pu := range p.PowerUps {
		if pu.UsesLeft != 1 {
			t.Errorf("power-up %s should start with 1 use", pu.ID)
		}
	}
}

func TestRandomScenario_ReturnsIndependentCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := RandomScenario(rng)
	var original model.Scenario
	for _, cand := range Scenarios {
		if cand.ID == s.ID {
			original = cand
		}
	}

	for k := range s.ClassBias {
		s.ClassBias[k] = 99
	}
	for k, v := range original.ClassBias {
		if v == 99 {
			t.Fatalf("catalog scenario %s bias for %s was mutated", original.ID, k)
		}
	}
}
