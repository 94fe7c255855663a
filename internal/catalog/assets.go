// Package catalog holds the static reference data for a match (tradable
// assets, news cards, avatars, strategies and scenarios) plus the factory
// that builds a fresh mutable GameState from it. Live match state never
// shares references with the catalog.
package catalog

import "github.com/bullvbear/match-engine/internal/model"

// AssetDef is one catalog entry. Price here is the opening price; the live
// Asset built from it mutates independently per match.
type AssetDef struct {
	ID        string
	Name      string
	Class     model.AssetClass
	Sector    model.Sector
	BasePrice float64
}

// Assets is the full tradable universe.
var Assets = []AssetDef{
	// Stocks
	{ID: "reliance", Name: "Reliance Ind.", Class: model.ClassStock, Sector: model.SectorEnergy, BasePrice: 29.50},
	{ID: "tcs", Name: "TCS", Class: model.ClassStock, Sector: model.SectorTechnology, BasePrice: 42.00},
	{ID: "hdfc", Name: "HDFC Bank", Class: model.ClassStock, Sector: model.SectorFinance, BasePrice: 19.20},
	{ID: "infy", Name: "Infosys", Class: model.ClassStock, Sector: model.SectorTechnology, BasePrice: 16.80},
	{ID: "icici", Name: "ICICI Bank", Class: model.ClassStock, Sector: model.SectorFinance, BasePrice: 11.50},
	{ID: "tatamotors", Name: "Tata Motors", Class: model.ClassStock, Sector: model.SectorFinance, BasePrice: 8.40},
	{ID: "sbi", Name: "SBI", Class: model.ClassStock, Sector: model.SectorFinance, BasePrice: 7.50},

	// Crypto
	{ID: "doge", Name: "Dogecoin", Class: model.ClassCrypto, Sector: model.SectorCrypto, BasePrice: 0.15},
	{ID: "shib", Name: "Shiba Inu", Class: model.ClassCrypto, Sector: model.SectorCrypto, BasePrice: 0.00003},
	{ID: "pepe", Name: "Pepe", Class: model.ClassCrypto, Sector: model.SectorCrypto, BasePrice: 0.000001},
	{ID: "bonk", Name: "Bonk", Class: model.ClassCrypto, Sector: model.SectorCrypto, BasePrice: 0.000012},
	{ID: "floki", Name: "Floki", Class: model.ClassCrypto, Sector: model.SectorCrypto, BasePrice: 0.00015},
	{ID: "wif", Name: "WIF", Class: model.ClassCrypto, Sector: model.SectorCrypto, BasePrice: 2.50},
	{ID: "mog", Name: "Mog Coin", Class: model.ClassCrypto, Sector: model.SectorCrypto, BasePrice: 0.000001},

	// ETFs
	{ID: "nifty-bees", Name: "Nifty 50 ETF", Class: model.ClassETF, Sector: model.SectorFinance, BasePrice: 2.60},
	{ID: "gold-bees", Name: "Gold ETF", Class: model.ClassETF, Sector: model.SectorGold, BasePrice: 0.62},
	{ID: "bank-bees", Name: "Bank Nifty ETF", Class: model.ClassETF, Sector: model.SectorFinance, BasePrice: 5.40},
	{ID: "it-bees", Name: "IT ETF", Class: model.ClassETF, Sector: model.SectorTechnology, BasePrice: 0.45},
	{ID: "pharma-bees", Name: "Pharma ETF", Class: model.ClassETF, Sector: model.SectorFinance, BasePrice: 1.80},
	{ID: "auto-bees", Name: "Auto ETF", Class: model.ClassETF, Sector: model.SectorFinance, BasePrice: 2.10},
	{ID: "infra-bees", Name: "Infra ETF", Class: model.ClassETF, Sector: model.SectorEnergy, BasePrice: 3.20},

	// Bonds
	{ID: "us-treasury", Name: "US Treasury 10Y", Class: model.ClassBond, Sector: model.SectorFinance, BasePrice: 98.50},
	{ID: "corp-bond-aaa", Name: "Global Corp Bond", Class: model.ClassBond, Sector: model.SectorFinance, BasePrice: 105.00},
	{ID: "muni-bond", Name: "Municipal Bond", Class: model.ClassBond, Sector: model.SectorBonds, BasePrice: 101.20},
	{ID: "junk-bond", Name: "High Yield Bond", Class: model.ClassBond, Sector: model.SectorBonds, BasePrice: 88.50},
	{ID: "green-bond", Name: "Green Energy Bond", Class: model.ClassBond, Sector: model.SectorEnergy, BasePrice: 102.50},
	{ID: "sov-gold-bond", Name: "Sovereign Gold Bond", Class: model.ClassBond, Sector: model.SectorGold, BasePrice: 99.80},
	{ID: "tips-bond", Name: "Inflation Protected", Class: model.ClassBond, Sector: model.SectorBonds, BasePrice: 100.10},
}
