package category

import "ideascope/internal/scoring"

// DefaultCategory is returned whenever no category can be determined.
const DefaultCategory = "general"

// Keyword is one weighted classification signal. Weights are relative;
// they are summed per category, never normalized.
type Keyword struct {
	Word   string
	Weight float64
}

// Priority fixes the tie-breaking order of categories: among tied keyword
// scores, the earliest category wins. It also fixes the order in which
// profiles are built and upserted.
var Priority = []string{
	"fintech",
	"healthtech",
	"ecommerce",
	"logistics",
	"edtech",
	"sustainability",
	"ai_saas",
	"consumer_social",
	"general",
}

// Keywords maps each category to its weighted signal words. Matching is
// whole-word and case-insensitive over the idea text.
var Keywords = map[string][]Keyword{
	"fintech": {
		{"payment", 2}, {"payments", 2}, {"banking", 2}, {"bank", 1.5},
		{"lending", 1.5}, {"loan", 1.5}, {"insurance", 1.5}, {"crypto", 1.5},
		{"wallet", 1}, {"invoice", 1}, {"trading", 1}, {"fintech", 2},
	},
	"healthtech": {
		{"health", 2}, {"medical", 2}, {"patient", 2}, {"clinic", 1.5},
		{"doctor", 1.5}, {"telemedicine", 2}, {"diagnosis", 1.5},
		{"therapy", 1}, {"wellness", 1}, {"pharma", 1.5},
	},
	"ecommerce": {
		{"marketplace", 2}, {"ecommerce", 2}, {"shop", 1.5}, {"retail", 1.5},
		{"checkout", 1.5}, {"merchants", 1}, {"storefront", 1},
		{"dropshipping", 1.5}, {"subscription box", 1},
	},
	"logistics": {
		{"delivery", 2}, {"logistics", 2}, {"fleet", 1.5}, {"shipping", 1.5},
		{"warehouse", 1.5}, {"freight", 1.5}, {"routing", 1},
		{"supply chain", 2}, {"last mile", 1.5},
	},
	"edtech": {
		{"learning", 2}, {"education", 2}, {"students", 1.5}, {"tutoring", 1.5},
		{"courses", 1.5}, {"teachers", 1}, {"school", 1}, {"curriculum", 1},
	},
	"sustainability": {
		{"carbon", 2}, {"renewable", 2}, {"recycling", 1.5}, {"solar", 1.5},
		{"emissions", 1.5}, {"sustainable", 1.5}, {"energy", 1}, {"climate", 2},
	},
	"ai_saas": {
		{"automation", 1.5}, {"workflow", 1.5}, {"saas", 2}, {"b2b", 1},
		{"analytics", 1.5}, {"dashboard", 1}, {"copilot", 1.5}, {"api", 1},
		{"llm", 1.5}, {"agent", 1},
	},
	"consumer_social": {
		{"social", 1.5}, {"community", 1.5}, {"creators", 1.5}, {"video", 1},
		{"messaging", 1}, {"dating", 1.5}, {"followers", 1}, {"mobile app", 1},
	},
	"general": nil,
}

// WeightProfiles maps each category to the weights used to combine the
// three sub-scores for ideas in that category. Weights need not sum to 1;
// the aggregator normalizes by total weight.
var WeightProfiles = map[string]map[string]float64{
	"fintech": {
		scoring.MarketOpportunity:    0.30,
		scoring.TechnicalFeasibility: 0.25,
		scoring.CompetitiveAdvantage: 0.45,
	},
	"healthtech": {
		scoring.MarketOpportunity:    0.35,
		scoring.TechnicalFeasibility: 0.40,
		scoring.CompetitiveAdvantage: 0.25,
	},
	"ecommerce": {
		scoring.MarketOpportunity:    0.45,
		scoring.TechnicalFeasibility: 0.15,
		scoring.CompetitiveAdvantage: 0.40,
	},
	"logistics": {
		scoring.MarketOpportunity:    0.40,
		scoring.TechnicalFeasibility: 0.35,
		scoring.CompetitiveAdvantage: 0.25,
	},
	"edtech": {
		scoring.MarketOpportunity:    0.40,
		scoring.TechnicalFeasibility: 0.25,
		scoring.CompetitiveAdvantage: 0.35,
	},
	"sustainability": {
		scoring.MarketOpportunity:    0.35,
		scoring.TechnicalFeasibility: 0.40,
		scoring.CompetitiveAdvantage: 0.25,
	},
	"ai_saas": {
		scoring.MarketOpportunity:    0.35,
		scoring.TechnicalFeasibility: 0.30,
		scoring.CompetitiveAdvantage: 0.35,
	},
	"consumer_social": {
		scoring.MarketOpportunity:    0.50,
		scoring.TechnicalFeasibility: 0.15,
		scoring.CompetitiveAdvantage: 0.35,
	},
	"general": {
		scoring.MarketOpportunity:    0.40,
		scoring.TechnicalFeasibility: 0.30,
		scoring.CompetitiveAdvantage: 0.30,
	},
}

// WeightsFor returns the weight profile for a category, defaulting to the
// general profile for unknown or empty categories.
func WeightsFor(category string) map[string]float64 {
	if profile, ok := WeightProfiles[category]; ok {
		return profile
	}
	return WeightProfiles[DefaultCategory]
}
