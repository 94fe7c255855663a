package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/model"
)

// NewGameState builds a fresh match aggregate from the static catalogs.
// Called at startup and on every reset; the returned state shares no
// mutable references with the catalog or with any previous state.
func NewGameState(cfg *config.Config) *model.GameState {
	assets := make([]*model.Asset, 0, len(Assets))
	for _, def := range Assets {
		price := decimal.NewFromFloat(def.BasePrice)
		assets = append(assets, &model.Asset{
			ID:             def.ID,
			Name:           def.Name,
			Class:          def.Class,
			Sector:         def.Sector,
			BaseVolatility: cfg.Market.BaseVolatility[def.Class],
			CurrentPrice:   price,
			History:        []decimal.Decimal{price},
		})
	}

	sentiment := make(map[model.AssetClass]float64, len(model.AssetClasses))
	for _, class := range model.AssetClasses {
		sentiment[class] = 0
	}

	return &model.GameState{
		ID:        uuid.New().String(),
		Phase:     model.PhasePreMatch,
		SubPhase:  model.SubPhaseIntro,
		MaxRounds: cfg.Match.Rounds,
		Players:   []*model.Player{},
		Assets:    assets,
		Sentiment: sentiment,
	}
}

// NewPlayer builds a player with default starting resources.
func NewPlayer(cfg *config.Config, id, name string) *model.Player {
	cash := decimal.NewFromFloat(cfg.Match.StartingCash)
	return &model.Player{
		ID:             id,
		Name:           name,
		Cash:           cash,
		Holdings:       []model.Holding{},
		TotalValue:     cash,
		PowerUps:       DefaultPowerUps(),
		TransactionLog: []model.Transaction{},
	}
}

// DefaultPowerUps is each player's starting inventory: one risk shield and
// one bailout.
func DefaultPowerUps() []model.PowerUp {
	return []model.PowerUp{
		{ID: model.PowerUpRiskShield, Name: "Risk Shield", Description: "-20 Risk Score", UsesLeft: 1},
		{ID: model.PowerUpBailout, Name: "Bailout", Description: "+$1000 Cash", UsesLeft: 1},
	}
}
