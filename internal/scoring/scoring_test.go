package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  int
		want int
	}{
		{50, 50},   // fixed point
		{100, 100}, // clamped top
		{0, 0},     // clamped bottom
		{80, 86},
		{60, 62},
		{40, 38},
		{70, 74},
		{-10, 0},
		{150, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.raw), "Normalize(%d)", tt.raw)
	}
}

func TestAggregateWeighted(t *testing.T) {
	sub := map[string]int{
		MarketOpportunity:    80,
		TechnicalFeasibility: 70,
		CompetitiveAdvantage: 60,
	}
	weights := map[string]float64{
		MarketOpportunity:    0.4,
		TechnicalFeasibility: 0.3,
		CompetitiveAdvantage: 0.3,
	}
	// 80→86, 70→74, 60→62; 86*0.4+74*0.3+62*0.3 = 75.2 → 75
	assert.Equal(t, 75, Aggregate(sub, weights))
}

func TestAggregateMissingComponentsDefaultToNeutral(t *testing.T) {
	sub := map[string]int{MarketOpportunity: 80}
	weights := map[string]float64{
		MarketOpportunity:    0.5,
		TechnicalFeasibility: 0.5,
	}
	// 86*0.5 + 50*0.5 = 68
	assert.Equal(t, 68, Aggregate(sub, weights))
}

func TestAggregateZeroWeightIsNeutral(t *testing.T) {
	sub := map[string]int{MarketOpportunity: 100}
	weights := map[string]float64{MarketOpportunity: 0}
	assert.Equal(t, 50, Aggregate(sub, weights))
}

func TestAggregateNilWeightsUseDefaults(t *testing.T) {
	sub := map[string]int{
		MarketOpportunity:    80,
		TechnicalFeasibility: 70,
		CompetitiveAdvantage: 60,
	}
	assert.Equal(t, 75, Aggregate(sub, nil))
}

func TestAggregateUnnormalizedWeights(t *testing.T) {
	sub := map[string]int{
		MarketOpportunity:    80,
		TechnicalFeasibility: 70,
		CompetitiveAdvantage: 60,
	}
	weights := map[string]float64{
		MarketOpportunity:    4,
		TechnicalFeasibility: 3,
		CompetitiveAdvantage: 3,
	}
	// normalized by total weight at computation time
	assert.Equal(t, 75, Aggregate(sub, weights))
}

func TestExplain(t *testing.T) {
	weights := map[string]float64{
		MarketOpportunity:    0.4,
		TechnicalFeasibility: 0.3,
		CompetitiveAdvantage: 0.3,
	}
	got := Explain(weights)
	assert.Equal(t, "40% Market Opportunity + 30% Competitive Advantage + 30% Technical Feasibility", got)
}
