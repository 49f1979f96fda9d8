package analysis

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ideascope/internal/category"
	"ideascope/internal/domain"
	"ideascope/internal/embedding"
	"ideascope/internal/jsonrepair"
	"ideascope/internal/embedding/hash"
	"ideascope/internal/similarity"
	"ideascope/internal/vectorindex"
	"ideascope/internal/vectorstore"
)

// fakeCompleter routes by prompt: competitor prompts get compResponse,
// everything else gets coreResponse.
type fakeCompleter struct {
	coreResponse string
	coreErr      error
	compResponse string
	compErr      error
}

func (f *fakeCompleter) Complete(_ context.Context, _, userPrompt string) (string, error) {
	if strings.Contains(userPrompt, "List 3 to 5 real competitors") {
		return f.compResponse, f.compErr
	}
	return f.coreResponse, f.coreErr
}

// newTestService wires a service whose vector store is unreachable, so the
// classifier runs on keywords and similarity retrieval degrades to empty.
func newTestService(t *testing.T, llm Completer) *Service {
	log := zaptest.NewLogger(t)
	store := &downStore{}
	batcher := embedding.NewBatcher(hash.NewEmbedder(16), embedding.NewRateGate(0),
		embedding.BackoffPolicy{MaxRetries: 1, BaseDelay: time.Millisecond}, 8, log)
	syncer := vectorindex.NewSynchronizer(store, batcher, 16, log)
	classifier := category.NewClassifier(syncer, batcher, store, category.Config{Collection: "profiles_test"}, log)
	dataset := similarity.NewDataset(filepath.Join(t.TempDir(), "missing.csv"), log)
	retriever := similarity.NewRetriever(dataset, syncer, batcher, store, "pitches_test", log)
	return NewService(llm, classifier, retriever, log)
}

const messyCoreResponse = `Sure, here is the analysis:
{
"summary": "Solid niche" "positioning": "Cheaper than incumbents",
"score": {"market_opportunity": 80, "technical_feasibility": 70, "competitive_advantage": 60, "reason": "crowded market",},
"profitability": {"roi_percentage": "120%", "timeframe_months": "in 18 months", "reason": "subscription margins"},
"target": {"segment": "SMB owners", "purchasing_power": "medium", "justification": "recurring need"}
}`

func TestAnalyze(t *testing.T) {
	llm := &fakeCompleter{
		coreResponse: messyCoreResponse,
		compResponse: `["Stripe", "PayPal"]`,
	}
	svc := newTestService(t, llm)

	got, err := svc.Analyze(context.Background(), "a thing nobody has keywords for")
	require.NoError(t, err)

	assert.Equal(t, "Solid niche", got.Summary)
	assert.Equal(t, "Cheaper than incumbents", got.Positioning)
	assert.Equal(t, category.DefaultCategory, got.Category)
	// 80→86, 70→74, 60→62 under the general 0.4/0.3/0.3 profile
	assert.Equal(t, 75, got.Score.Value)
	assert.Equal(t, "crowded market", got.Score.Reason)
	assert.Equal(t, 120, got.Profitability.ROIPercentage)
	assert.Equal(t, 18, got.Profitability.TimeframeMonths)
	assert.Equal(t, "SMB owners", got.Target.Segment)
	assert.Empty(t, got.Similar, "no dataset, no similar companies")

	require.Len(t, got.Competitors, 2)
	assert.Equal(t, "Stripe", got.Competitors[0].Name)
	assert.Contains(t, got.Competitors[0].LogoURL, "stripe.com")
	assert.Equal(t, "PayPal", got.Competitors[1].Name)
	assert.Contains(t, got.Competitors[1].LogoURL, "paypal.com")
}

func TestAnalyzeCategoryWeightsApply(t *testing.T) {
	llm := &fakeCompleter{coreResponse: messyCoreResponse, compResponse: `[]`}
	svc := newTestService(t, llm)

	got, err := svc.Analyze(context.Background(), "a payment and banking platform")
	require.NoError(t, err)
	assert.Equal(t, "fintech", got.Category)
	// 86*0.30 + 74*0.25 + 62*0.45 = 72.2
	assert.Equal(t, 72, got.Score.Value)
}

func TestAnalyzeCoreFailureIsFatal(t *testing.T) {
	llm := &fakeCompleter{
		coreResponse: "I cannot answer that in JSON form.",
		compResponse: `["Someone"]`,
	}
	svc := newTestService(t, llm)

	_, err := svc.Analyze(context.Background(), "anything")
	require.Error(t, err)
	var parseErr *jsonrepair.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestAnalyzeCompleterErrorIsFatal(t *testing.T) {
	llm := &fakeCompleter{coreErr: errors.New("provider down"), compResponse: `[]`}
	svc := newTestService(t, llm)

	_, err := svc.Analyze(context.Background(), "anything")
	require.Error(t, err)
}

func TestAnalyzeCompetitorsDegradeToEmpty(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeCompleter
	}{
		{"unparseable output", &fakeCompleter{coreResponse: messyCoreResponse, compResponse: "no list today"}},
		{"provider error", &fakeCompleter{coreResponse: messyCoreResponse, compErr: errors.New("timeout")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestService(t, tt.llm).Analyze(context.Background(), "anything")
			require.NoError(t, err)
			assert.Empty(t, got.Competitors)
		})
	}
}

func TestAnalyzeCompetitorShapes(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "wrapped competitors object",
			response: `{"competitors": [{"name": "Wise"}, {"name": "Revolut"}]}`,
			want:     []string{"Wise", "Revolut"},
		},
		{
			name:     "single object",
			response: `{"name": "Wise", "strength": "pricing"}`,
			want:     []string{"Wise"},
		},
		{
			name:     "nameless entries skipped",
			response: `{"competitors": [{"strength": "none"}, {"name": "Wise"}]}`,
			want:     []string{"Wise"},
		},
		{
			// object spans win over array brackets, so a mixed list
			// degrades to its first object
			name:     "mixed list keeps first object",
			response: `["Stripe", {"name": "Adyen"}]`,
			want:     []string{"Adyen"},
		},
		{
			name:     "empty list",
			response: `[]`,
			want:     []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &fakeCompleter{coreResponse: messyCoreResponse, compResponse: tt.response})
			got, err := svc.Analyze(context.Background(), "anything")
			require.NoError(t, err)
			names := make([]string, 0, len(got.Competitors))
			for _, c := range got.Competitors {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestAnalyzeClampsProfitability(t *testing.T) {
	core := `{
"summary": "s", "positioning": "p",
"score": {"market_opportunity": 50, "technical_feasibility": 50, "competitive_advantage": 50, "reason": "r"},
"profitability": {"roi_percentage": 900, "timeframe_months": 120, "reason": "r"},
"target": {"segment": "s", "purchasing_power": "low", "justification": "j"}
}`
	svc := newTestService(t, &fakeCompleter{coreResponse: core, compResponse: `[]`})
	got, err := svc.Analyze(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, 300, got.Profitability.ROIPercentage)
	assert.Equal(t, 60, got.Profitability.TimeframeMonths)
}

func TestAnalyzeMissingFieldsDefault(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{coreResponse: `{"summary": "bare"}`, compResponse: `[]`})
	got, err := svc.Analyze(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Score.Value, "missing sub-scores stay neutral")
	assert.Equal(t, 0, got.Profitability.ROIPercentage)
	assert.Equal(t, 12, got.Profitability.TimeframeMonths)
}

func TestExtractInt(t *testing.T) {
	tests := []struct {
		in   any
		def  int
		want int
	}{
		{float64(42), 0, 42},
		{17, 0, 17},
		{"120%", 0, 120},
		{"in 18 months", 0, 18},
		{"-5", 0, -5},
		{"no digits", 9, 9},
		{nil, 9, 9},
		{true, 9, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractInt(tt.in, tt.def), "extractInt(%v)", tt.in)
	}
}

func TestLogoURL(t *testing.T) {
	withPage := logoURL(domain.Competitor{Name: "Adyen", LandingPage: "https://adyen.com"})
	assert.Equal(t, "https://www.google.com/s2/favicons?sz=64&domain_url=https://adyen.com", withPage)

	guessed := logoURL(domain.Competitor{Name: "Checkout Dot Com"})
	assert.Equal(t, "https://www.google.com/s2/favicons?sz=64&domain_url=https://checkoutdotcom.com", guessed)
}

// downStore fails every call, keeping the vector route out of these tests.
type downStore struct{}

func (d *downStore) CollectionExists(context.Context, string) (bool, error) {
	return false, errors.New("store down")
}
func (d *downStore) CreateCollection(context.Context, string, int) error {
	return errors.New("store down")
}
func (d *downStore) Upsert(context.Context, string, []vectorstore.Point) error {
	return errors.New("store down")
}
func (d *downStore) Count(context.Context, string) (int, error) {
	return 0, errors.New("store down")
}
func (d *downStore) Search(context.Context, string, []float64, int) ([]vectorstore.Hit, error) {
	return nil, errors.New("store down")
}
