// Package model defines the core domain types shared across the match engine.
// All monetary values use shopspring/decimal, never float64.
package model

import (
	"github.com/shopspring/decimal"
)

// AssetClass groups tradable instruments for volatility and sentiment routing.
type AssetClass string

const (
	ClassStock  AssetClass = "STOCK"
	ClassCrypto AssetClass = "CRYPTO"
	ClassBond   AssetClass = "BOND"
	ClassETF    AssetClass = "ETF"
)

// AssetClasses lists every class in stable order.
var AssetClasses = []AssetClass{ClassStock, ClassCrypto, ClassBond, ClassETF}

// Sector routes news impact to specific assets. Several sectors can map onto
// the same asset class (e.g. finance touches stocks, ETFs and bonds).
type Sector string

const (
	SectorTechnology Sector = "technology"
	SectorFinance    Sector = "finance"
	SectorEnergy     Sector = "energy"
	SectorCrypto     Sector = "crypto"
	SectorBonds      Sector = "bonds"
	SectorGold       Sector = "gold"
)

// Sectors lists every sector in stable order.
var Sectors = []Sector{
	SectorTechnology, SectorFinance, SectorEnergy,
	SectorCrypto, SectorBonds, SectorGold,
}

// GamePhase is the top-level match state.
type GamePhase string

const (
	PhasePreMatch GamePhase = "PRE_MATCH"
	PhasePlaying  GamePhase = "PLAYING"
	PhaseFinished GamePhase = "FINISHED"
)

// PreMatchSubPhase sequences the pre-match flow.
type PreMatchSubPhase string

const (
	SubPhaseIntro             PreMatchSubPhase = "INTRO"
	SubPhaseAvatarSelection   PreMatchSubPhase = "AVATAR_SELECTION"
	SubPhaseStrategySelection PreMatchSubPhase = "STRATEGY_SELECTION"
	SubPhaseScenarioTeaser    PreMatchSubPhase = "SCENARIO_TEASER"
	SubPhaseTutorial          PreMatchSubPhase = "TUTORIAL"
)

// TradeSide is the direction of a transaction.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// SentimentGrade is the polarity of a news card, in five steps.
type SentimentGrade string

const (
	GradeVeryPositive SentimentGrade = "very_positive"
	GradePositive     SentimentGrade = "positive"
	GradeNeutral      SentimentGrade = "neutral"
	GradeNegative     SentimentGrade = "negative"
	GradeVeryNegative SentimentGrade = "very_negative"
)

// Polarity collapses a grade to "positive", "negative" or "neutral". Used
// for consecutive-sentiment tracking and sector rotation.
func (g SentimentGrade) Polarity() string {
	switch g {
	case GradeVeryPositive, GradePositive:
		return "positive"
	case GradeVeryNegative, GradeNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// Asset is one tradable instrument. Price and history mutate every
// simulation tick; the rest is fixed per match.
type Asset struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Class          AssetClass        `json:"class"`
	Sector         Sector            `json:"sector"`
	BaseVolatility float64           `json:"baseVolatility"`
	CurrentPrice   decimal.Decimal   `json:"currentPrice"`
	History        []decimal.Decimal `json:"history"`
}

// Holding is a player's position in one asset. Quantity is always positive
// while the holding exists; a holding is removed, never zeroed.
type Holding struct {
	AssetID     string          `json:"assetId"`
	Quantity    decimal.Decimal `json:"quantity"`
	AvgBuyPrice decimal.Decimal `json:"avgBuyPrice"`
}

// Transaction is an immutable log entry. Once appended it is never modified
// or deleted; the log is the sole input to post-match analysis.
type Transaction struct {
	ID              string          `json:"id"`
	Round           int             `json:"round"`
	Side            TradeSide       `json:"side"`
	AssetID         string          `json:"assetId"`
	AssetClass      AssetClass      `json:"assetClass"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`      // post-slippage execution price
	GrossValue      decimal.Decimal `json:"grossValue"` // quantity × price
	ActiveEventID   string          `json:"activeEventId,omitempty"`
	SentimentAtTime float64         `json:"sentimentAtTime"`
}

// PowerUp is a single-use player ability.
type PowerUp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UsesLeft    int    `json:"usesLeft"`
}

// Player is one participant. ID is session-bound and rebinds on reconnect;
// Name is the stable key used to reclaim a session.
type Player struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Cash           decimal.Decimal `json:"cash"`
	Holdings       []Holding       `json:"holdings"`
	RiskScore      int             `json:"riskScore"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	AvatarID       string          `json:"avatarId,omitempty"`
	StrategyID     string          `json:"strategyId,omitempty"`
	PowerUps       []PowerUp       `json:"powerUps"`
	TransactionLog []Transaction   `json:"transactionLog"`
}

// Holding returns the player's holding for the asset, or nil.
func (p *Player) Holding(assetID string) *Holding {
	for i := range p.Holdings {
		if p.Holdings[i].AssetID == assetID {
			return &p.Holdings[i]
		}
	}
	return nil
}

// RemoveHolding drops the holding for the asset from the set.
func (p *Player) RemoveHolding(assetID string) {
	for i := range p.Holdings {
		if p.Holdings[i].AssetID == assetID {
			p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
			return
		}
	}
}

// PowerUp returns the player's power-up with the given id, or nil.
func (p *Player) PowerUp(id string) *PowerUp {
	for i := range p.PowerUps {
		if p.PowerUps[i].ID == id {
			return &p.PowerUps[i]
		}
	}
	return nil
}

// MarketEvent is the active news card projected for display: a
// natural-language hint plus the sector routing the simulation consumes.
// At most one is active at a time.
type MarketEvent struct {
	ID              string         `json:"id"`
	Headline        string         `json:"headline"`
	Description     string         `json:"description"`
	Grade           SentimentGrade `json:"grade"`
	Intensity       string         `json:"intensity"` // low, medium, high
	Sectors         []Sector       `json:"sectors"`
	Hint            string         `json:"hint"`
	RemainingRounds int            `json:"remainingRounds"`
}

// Affects reports whether the event hits the given sector.
func (e *MarketEvent) Affects(sector Sector) bool {
	for _, s := range e.Sectors {
		if s == sector {
			return true
		}
	}
	return false
}

// Scenario is a match-wide modifier chosen once during pre-match. ClassBias
// is a small additive per-tick drift applied to the listed classes.
type Scenario struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Effect      string                 `json:"effect"`
	ClassBias   map[AssetClass]float64 `json:"-"`
}

// Avatar is a cosmetic pre-match choice.
type Avatar struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Strategy is a pre-match choice with economic side effects (risk
// reduction, diversification bonus).
type Strategy struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Bonus   string `json:"bonus"`
	Tooltip string `json:"tooltip"`
}

// Well-known strategy ids the scoring rules branch on.
const (
	StrategyHighRoller  = "HIGH_ROLLER"
	StrategySafetyFirst = "SAFETY_FIRST"
	StrategyDiversifier = "DIVERSIFIER"
	StrategySwingTrader = "SWING_TRADER"
)

// Well-known power-up ids.
const (
	PowerUpRiskShield = "risk-shield"
	PowerUpBailout    = "bailout"
)

// GameState is the single source of truth for one match and the unit
// broadcast after every mutation. The match engine is its sole writer.
type GameState struct {
	ID             string                 `json:"id"`
	Phase          GamePhase              `json:"phase"`
	SubPhase       PreMatchSubPhase       `json:"subPhase"`
	CurrentRound   int                    `json:"currentRound"`
	MaxRounds      int                    `json:"maxRounds"`
	TimeRemaining  int                    `json:"timeRemaining"`
	Players        []*Player              `json:"players"`
	Assets         []*Asset               `json:"assets"`
	ActiveEvent    *MarketEvent           `json:"activeEvent"`
	ActiveScenario *Scenario              `json:"activeScenario"`
	FearZoneActive bool                   `json:"fearZoneActive"`
	Sentiment      map[AssetClass]float64 `json:"sentiment"`
}

// Asset returns the asset with the given id, or nil.
func (s *GameState) Asset(id string) *Asset {
	for _, a := range s.Assets {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// PlayerByID returns the player bound to the given session id, or nil.
func (s *GameState) PlayerByID(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByName returns the player with the given display name, or nil.
func (s *GameState) PlayerByName(name string) *Player {
	for _, p := range s.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Critique is the structured post-match coaching feedback. The three
// sections are always non-empty, whichever advisor produced them.
type Critique struct {
	Strengths   []string       `json:"strengths"`
	Mistakes    []string       `json:"mistakes"`
	Suggestions []string       `json:"suggestions"`
	Cards       []LearningCard `json:"learningCards"`
}

// LearningCard is a short explainer attached to a critique.
type LearningCard struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// MatchResult is one player's final standing.
type MatchResult struct {
	PlayerID          string          `json:"playerId"`
	PlayerName        string          `json:"playerName"`
	Rank              int             `json:"rank"`
	FinalValue        decimal.Decimal `json:"finalValue"`
	ROI               float64         `json:"roi"`
	RiskScore         int             `json:"riskScore"`
	RiskAdjustedScore float64         `json:"riskAdjustedScore"`
	Critique          Critique        `json:"critique"`
}
