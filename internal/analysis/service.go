package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ideascope/internal/category"
	"ideascope/internal/domain"
	"ideascope/internal/jsonrepair"
	"ideascope/internal/scoring"
	"ideascope/internal/similarity"
)

// Completer is the generative-text boundary: a single-turn completion on
// top of a system prompt, run at a low caller-set temperature.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service runs the full idea analysis: category detection and weights,
// model-generated core analysis and competitor list recovered through the
// repair parser, weighted composite scoring, and similar-company lookup.
type Service struct {
	llm        Completer
	classifier *category.Classifier
	retriever  *similarity.Retriever
	log        *zap.Logger
}

func NewService(llm Completer, classifier *category.Classifier, retriever *similarity.Retriever, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{llm: llm, classifier: classifier, retriever: retriever, log: log}
}

type coreResult struct {
	summary     string
	positioning string
	subScores   map[string]int
	scoreReason string
	roi         int
	months      int
	profitWhy   string
	target      domain.TargetAudience
}

// Analyze evaluates one idea. The core analysis is the primary data: if it
// cannot be recovered the whole call fails. Competitors and similar
// companies degrade to empty lists on failure.
func (s *Service) Analyze(ctx context.Context, idea string) (*domain.Analysis, error) {
	cat := s.classifier.Classify(ctx, idea)
	weights := category.WeightsFor(cat)

	var (
		core        coreResult
		competitors []domain.Competitor
		similar     []domain.SimilarItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		core, err = s.analyzeCore(gctx, idea)
		return err
	})
	g.Go(func() error {
		competitors = s.analyzeCompetitors(gctx, idea)
		return nil
	})
	g.Go(func() error {
		similar = s.retriever.FindSimilar(gctx, idea, 5)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	score := domain.Score{
		Value:  scoring.Aggregate(core.subScores, weights),
		Reason: core.scoreReason,
	}

	s.log.Info("idea analyzed",
		zap.String("category", cat),
		zap.Int("score", score.Value),
		zap.Int("competitors", len(competitors)),
		zap.Int("similar", len(similar)))

	return &domain.Analysis{
		Summary:     core.summary,
		Positioning: core.positioning,
		Score:       score,
		Profitability: domain.Profitability{
			ROIPercentage:   core.roi,
			TimeframeMonths: core.months,
			Reason:          core.profitWhy,
		},
		Target:      core.target,
		Competitors: competitors,
		Similar:     similar,
		Category:    cat,
	}, nil
}

func (s *Service) analyzeCore(ctx context.Context, idea string) (coreResult, error) {
	raw, err := s.llm.Complete(ctx, systemPrompt, fmt.Sprintf(corePromptTemplate, idea))
	if err != nil {
		return coreResult{}, fmt.Errorf("core analysis: %w", err)
	}
	parsed, err := jsonrepair.Parse(raw)
	if err != nil {
		return coreResult{}, fmt.Errorf("core analysis: %w", err)
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return coreResult{}, fmt.Errorf("core analysis: expected object, got %T", parsed)
	}

	scoreObj := asMap(obj["score"])
	sub := map[string]int{
		scoring.MarketOpportunity:    extractInt(scoreObj[scoring.MarketOpportunity], 50),
		scoring.TechnicalFeasibility: extractInt(scoreObj[scoring.TechnicalFeasibility], 50),
		scoring.CompetitiveAdvantage: extractInt(scoreObj[scoring.CompetitiveAdvantage], 50),
	}

	profit := asMap(obj["profitability"])
	target := asMap(obj["target"])

	return coreResult{
		summary:     asString(obj["summary"]),
		positioning: asString(obj["positioning"]),
		subScores:   sub,
		scoreReason: asString(scoreObj["reason"]),
		roi:         clamp(0, 300, extractInt(profit["roi_percentage"], 0)),
		months:      clamp(1, 60, extractInt(profit["timeframe_months"], 12)),
		profitWhy:   asString(profit["reason"]),
		target: domain.TargetAudience{
			Segment:         asString(target["segment"]),
			PurchasingPower: asString(target["purchasing_power"]),
			Justification:   asString(target["justification"]),
		},
	}, nil
}

// analyzeCompetitors lists competitors, healing the shapes the model
// actually returns: a bare list of names, a single object, or an object
// wrapping a "competitors" list. Failures degrade to an empty list since
// competitors are not the primary data of the analysis.
func (s *Service) analyzeCompetitors(ctx context.Context, idea string) []domain.Competitor {
	raw, err := s.llm.Complete(ctx, systemPrompt, fmt.Sprintf(competitorsPromptTemplate, idea))
	if err != nil {
		s.log.Warn("competitor analysis failed", zap.Error(err))
		return nil
	}
	parsed, err := jsonrepair.Parse(raw)
	if err != nil {
		s.log.Warn("competitor output unparseable", zap.Error(err))
		return nil
	}

	var items []map[string]any
	switch v := parsed.(type) {
	case []any:
		for _, item := range v {
			switch it := item.(type) {
			case string:
				items = append(items, map[string]any{"name": it})
			case map[string]any:
				items = append(items, it)
			}
		}
	case map[string]any:
		if list, ok := v["competitors"].([]any); ok {
			for _, item := range list {
				if m, ok := item.(map[string]any); ok {
					items = append(items, m)
				}
			}
		} else if asString(v["name"]) != "" {
			items = append(items, v)
		}
	}

	competitors := make([]domain.Competitor, 0, len(items))
	for _, item := range items {
		c := domain.Competitor{
			Name:        asString(item["name"]),
			LandingPage: asString(item["landing_page"]),
			Strength:    asString(item["strength"]),
			Weakness:    asString(item["weakness"]),
		}
		if c.Name == "" {
			continue
		}
		c.LogoURL = logoURL(c)
		competitors = append(competitors, c)
	}
	return competitors
}

func logoURL(c domain.Competitor) string {
	if c.LandingPage != "" {
		return "https://www.google.com/s2/favicons?sz=64&domain_url=" + c.LandingPage
	}
	domainGuess := strings.ToLower(strings.ReplaceAll(c.Name, " ", "")) + ".com"
	return "https://www.google.com/s2/favicons?sz=64&domain_url=https://" + domainGuess
}

var intRe = regexp.MustCompile(`-?\d+`)

// extractInt converts the values models actually return for numeric
// fields ("120%", "18 months", 42.0) into an int, with a default.
func extractInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if m := intRe.FindString(n); m != "" {
			var out int
			if _, err := fmt.Sscanf(m, "%d", &out); err == nil {
				return out
			}
		}
	}
	return def
}

func clamp(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
