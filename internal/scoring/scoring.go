package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Component names shared between the sub-score parser, the weight profiles
// and the aggregator.
const (
	MarketOpportunity    = "market_opportunity"
	TechnicalFeasibility = "technical_feasibility"
	CompetitiveAdvantage = "competitive_advantage"
)

// neutralScore stands in for any missing component.
const neutralScore = 50

// DefaultWeights is the baseline profile used when no category-specific
// profile applies.
var DefaultWeights = map[string]float64{
	MarketOpportunity:    0.4,
	TechnicalFeasibility: 0.3,
	CompetitiveAdvantage: 0.3,
}

// Normalize recenters a raw generated sub-score, stretching it away from 50
// to correct the upward bias of generated scores: 80 becomes 86, 60 becomes
// 62, 40 becomes 38, and 50 is the fixed point. The result is clamped to
// [0,100].
func Normalize(raw int) int {
	v := int(math.Round(float64(raw-50)*1.2 + 50))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Aggregate computes the weighted composite of the normalized sub-scores.
// Components absent from sub default to the neutral 50; a zero total weight
// yields 50. Weights need not sum to 1.
func Aggregate(sub map[string]int, weights map[string]float64) int {
	if len(weights) == 0 {
		weights = DefaultWeights
	}

	weightedSum := 0.0
	totalWeight := 0.0
	for name, w := range weights {
		raw, ok := sub[name]
		if !ok {
			raw = neutralScore
		}
		weightedSum += float64(Normalize(raw)) * w
		totalWeight += w
	}

	if totalWeight == 0 {
		return neutralScore
	}
	return int(math.Round(weightedSum / totalWeight))
}

// Explain renders a weight profile as a human-readable formula, e.g.
// "40% Market Opportunity + 30% Technical Feasibility + ...".
func Explain(weights map[string]float64) string {
	if len(weights) == 0 {
		weights = DefaultWeights
	}
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	// heaviest component first, name as tiebreak
	sort.Slice(names, func(i, j int) bool {
		if weights[names[i]] != weights[names[j]] {
			return weights[names[i]] > weights[names[j]]
		}
		return names[i] < names[j]
	})

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d%% %s", int(math.Round(weights[name]*100)), titleCase(name)))
	}
	return strings.Join(parts, " + ")
}

func titleCase(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
