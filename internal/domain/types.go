package domain

// Score is the composite viability score with its justification.
type Score struct {
	Value  int    `json:"value"`
	Reason string `json:"reason"`
}

// Profitability summarizes the expected return profile of an idea.
type Profitability struct {
	ROIPercentage   int    `json:"roi_percentage"`
	TimeframeMonths int    `json:"timeframe_months"`
	Reason          string `json:"reason"`
}

// TargetAudience describes the primary customer segment.
type TargetAudience struct {
	Segment         string `json:"segment"`
	PurchasingPower string `json:"purchasing_power"`
	Justification   string `json:"justification"`
}

// Competitor is one existing company competing with the analyzed idea.
type Competitor struct {
	Name        string `json:"name"`
	LandingPage string `json:"landing_page,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	Strength    string `json:"strength"`
	Weakness    string `json:"weakness"`
}

// SimilarItem is a reference entity close to the analyzed idea in vector
// space. Similarity is always remapped into [0,1] before it reaches callers.
type SimilarItem struct {
	Idea       string  `json:"idea"`
	Similarity float64 `json:"similarity"`
}

// Analysis is the full result of analyzing one idea.
type Analysis struct {
	Summary       string         `json:"summary"`
	Positioning   string         `json:"positioning"`
	Score         Score          `json:"score"`
	Profitability Profitability  `json:"profitability"`
	Target        TargetAudience `json:"target"`
	Competitors   []Competitor   `json:"competitors"`
	Similar       []SimilarItem  `json:"similar"`
	Category      string         `json:"category,omitempty"`
}
