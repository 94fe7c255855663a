package catalog

import (
	"fmt"
	"math/rand"

	"github.com/bullvbear/match-engine/internal/model"
)

// NewsCard is one discrete news event in the pool. Duration > 1 keeps the
// event active across consecutive rounds.
type NewsCard struct {
	ID       int
	Headline string
	Grade    model.SentimentGrade
	Sectors  []model.Sector
	Duration int
	Body     string
}

// NewsCards is the draw pool for round news.
var NewsCards = []NewsCard{
	{1, "Central Bank Signals Rate Hike", model.GradeVeryNegative, []model.Sector{model.SectorFinance, model.SectorTechnology}, 2, "Markets react sharply as central bank hints at aggressive tightening."},
	{2, "Major Tech Firm Faces Data Lawsuit", model.GradeNegative, []model.Sector{model.SectorTechnology}, 1, "Privacy concerns trigger sell-off in tech stocks."},
	{3, "Geopolitical Tensions Escalate", model.GradeNegative, []model.Sector{model.SectorEnergy, model.SectorFinance}, 2, "Uncertainty fuels volatility across global markets."},
	{4, "Crypto Exchange Freezes Withdrawals", model.GradeVeryNegative, []model.Sector{model.SectorCrypto}, 2, "Panic selling hits digital assets."},
	{5, "Banking Sector Liquidity Concerns", model.GradeNegative, []model.Sector{model.SectorFinance}, 2, "Rumors of liquidity stress unsettle investors."},
	{6, "Central Bank Signals Rate Cuts", model.GradeVeryPositive, []model.Sector{model.SectorFinance, model.SectorTechnology}, 2, "Markets rally as monetary easing looks likely."},
	{7, "Tech Giant Reports Record Profits", model.GradePositive, []model.Sector{model.SectorTechnology}, 1, "Strong earnings boost investor confidence."},
	{8, "AI Breakthrough Boosts Productivity", model.GradePositive, []model.Sector{model.SectorTechnology}, 2, "Optimism grows around AI-led growth."},
	{9, "Government Announces Startup Tax Relief", model.GradePositive, []model.Sector{model.SectorTechnology, model.SectorFinance}, 1, "Early-stage companies attract fresh capital."},
	{10, "Institutional Investors Enter Crypto", model.GradeVeryPositive, []model.Sector{model.SectorCrypto}, 2, "Crypto prices surge on strong inflows."},
	{11, "Inflation Data Cools Down", model.GradePositive, []model.Sector{model.SectorFinance}, 1, "Reduced inflation pressure supports equities."},
	{12, "Trade Agreement Signed", model.GradePositive, []model.Sector{model.SectorEnergy, model.SectorFinance}, 2, "Global trade outlook improves."},
	{13, "Banking Stress Eases", model.GradePositive, []model.Sector{model.SectorFinance}, 1, "Liquidity injections calm the markets."},
	{14, "Energy Supply Stabilizes", model.GradeNeutral, []model.Sector{model.SectorEnergy}, 1, "Oil prices remain range-bound."},
	{15, "Manufacturing Data Beats Expectations", model.GradePositive, []model.Sector{model.SectorFinance}, 1, "Economic optimism lifts market mood."},
	{16, "Unexpected Market Volatility", model.GradeNegative, []model.Sector{model.SectorTechnology, model.SectorFinance}, 2, "Sharp swings shake investor confidence."},
	{17, "Conflicting Economic Indicators", model.GradeNeutral, []model.Sector{model.SectorFinance}, 1, "Markets struggle to find direction."},
	{18, "Sector Rotation Observed", model.GradeNeutral, []model.Sector{model.SectorTechnology, model.SectorFinance}, 1, "Capital shifts between sectors."},
	{19, "Crypto Rallies Amid Stock Weakness", model.GradePositive, []model.Sector{model.SectorCrypto}, 1, "Risk appetite shifts to digital assets."},
	{20, "Earnings Season Creates Volatility", model.GradeNeutral, []model.Sector{model.SectorTechnology, model.SectorFinance}, 2, "Stock-specific moves dominate the market."},
	{21, "Merger Rumors in Tech Sector", model.GradePositive, []model.Sector{model.SectorTechnology}, 1, "Speculation drives short-term rally."},
	{22, "Hedge Funds Increase Short Positions", model.GradeNegative, []model.Sector{model.SectorFinance}, 2, "Bearish bets increase selling pressure."},
	{23, "Whale Activity Detected in Crypto", model.GradeNeutral, []model.Sector{model.SectorCrypto}, 1, "Large transfers cause sharp intraday moves."},
	{24, "New Policy Under Government Review", model.GradeNeutral, []model.Sector{model.SectorFinance}, 2, "Investors wait for clarity."},
	{25, "AI Trading Volume Spikes", model.GradePositive, []model.Sector{model.SectorTechnology}, 1, "Algorithmic trading fuels momentum."},
	{26, "Oil Supply Shock", model.GradeVeryNegative, []model.Sector{model.SectorEnergy}, 2, "Energy prices surge, markets react."},
	{27, "Gold Attracts Safe-Haven Demand", model.GradePositive, []model.Sector{model.SectorGold}, 1, "Risk-off sentiment benefits gold."},
	{28, "Bond Yields Rise Unexpectedly", model.GradeNegative, []model.Sector{model.SectorBonds, model.SectorFinance}, 2, "Equities face pressure from rising yields."},
	{29, "Market Awaits Major Announcement", model.GradeNeutral, []model.Sector{model.SectorFinance}, 1, "Low volume, cautious trading."},
	{30, "Speculative Bubble Concerns Grow", model.GradeVeryNegative, []model.Sector{model.SectorTechnology, model.SectorCrypto}, 2, "Sharp corrections hit high-risk assets."},
}

// SectorClasses maps a sector to the asset classes its sentiment feeds.
var SectorClasses = map[model.Sector][]model.AssetClass{
	model.SectorTechnology: {model.ClassStock},
	model.SectorFinance:    {model.ClassStock, model.ClassETF, model.ClassBond},
	model.SectorEnergy:     {model.ClassStock, model.ClassETF},
	model.SectorCrypto:     {model.ClassCrypto},
	model.SectorBonds:      {model.ClassBond},
	model.SectorGold:       {model.ClassETF},
}

// RandomNewsCard draws a card from the pool.
func RandomNewsCard(rng *rand.Rand) NewsCard {
	return NewsCards[rng.Intn(len(NewsCards))]
}

// ToMarketEvent projects a news card into the display event broadcast to
// clients.
func (c NewsCard) ToMarketEvent() *model.MarketEvent {
	return &model.MarketEvent{
		ID:              fmt.Sprintf("news-%d", c.ID),
		Headline:        c.Headline,
		Description:     c.Body,
		Grade:           c.Grade,
		Intensity:       intensityForGrade(c.Grade),
		Sectors:         append([]model.Sector(nil), c.Sectors...),
		Hint:            hintForGrade(c.Grade),
		RemainingRounds: c.Duration,
	}
}

func intensityForGrade(g model.SentimentGrade) string {
	switch g {
	case model.GradeVeryPositive, model.GradeVeryNegative:
		return "high"
	case model.GradePositive, model.GradeNegative:
		return "medium"
	default:
		return "low"
	}
}

func hintForGrade(g model.SentimentGrade) string {
	switch g {
	case model.GradeVeryPositive:
		return "Strong momentum! Consider riding the wave."
	case model.GradePositive:
		return "Positive outlook. Good entry opportunity."
	case model.GradeNegative:
		return "Bearish pressure. Consider hedging."
	case model.GradeVeryNegative:
		return "High risk! Protect your portfolio."
	default:
		return "Mixed signals. Trade with caution."
	}
}
