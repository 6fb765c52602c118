package biz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/generation"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/metrics"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search"
)

// mockSearcher 记录调用次数
type mockSearcher struct {
	mu       sync.Mutex
	calls    int
	requests []*search.Request
	resp     *search.Response
	err      error
}

func (m *mockSearcher) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockSearcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockGenerator 记录调用次数和收到的提示词；block 非空时阻塞直到关闭
type mockGenerator struct {
	mu       sync.Mutex
	calls    int
	prompts  []string
	settings []generation.Settings
	out      string
	err      error
	block    chan struct{}
}

func (m *mockGenerator) Generate(_ context.Context, p string, s generation.Settings) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, p)
	m.settings = append(m.settings, s)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if m.err != nil {
		return "", m.err
	}
	return m.out, nil
}

func (m *mockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func smartHomeRecord() InputRecord {
	return InputRecord{
		ProductName:      "SmartHome Assistant",
		ProductCategory:  "Home Automation",
		CompanyURL:       "https://www.smarthome.com",
		Competitors:      "Amazon Alexa, Google Nest",
		CompetitorsURL:   "https://www.amazon.com/alexa",
		TargetCustomer:   "John Doe, CTO",
		ValueProposition: "Streamline your life with our eco-friendly home assistant.",
	}
}

func twoSnippets() *search.Response {
	return &search.Response{Results: []search.Result{
		{Title: "SmartHome", URL: "https://www.smarthome.com", Content: "SmartHome builds voice-first hubs for eco-conscious homes."},
		{Title: "Press", URL: "https://www.smarthome.com/press", Content: "CEO Jane Roe: 'Sustainability drives our roadmap.'"},
	}}
}

var defaultSettings = generation.Settings{Temperature: 0.5, MaxOutputTokens: 1500}

func newTestAnalyzer(s search.Searcher, g generation.Generator) *Analyzer {
	return NewAnalyzer(s, g, metrics.NewRecorder(prometheus.NewRegistry()), 2, log.DefaultLogger)
}

func TestAnalyze_ScenarioA(t *testing.T) {
	s := &mockSearcher{resp: twoSnippets()}
	g := &mockGenerator{out: "**Company Overview** SmartHome..."}
	a := newTestAnalyzer(s, g)

	settings := generation.Settings{Temperature: 0.3, MaxOutputTokens: 900}
	report, err := a.Analyze(context.Background(), smartHomeRecord(), settings)
	require.NoError(t, err)

	assert.Equal(t, "**Company Overview** SmartHome...", report.Content)
	assert.NotEmpty(t, report.SubmissionID.String())
	assert.Len(t, report.Sources, 2)

	require.Equal(t, 1, s.Calls())
	assert.Equal(t, "https://www.smarthome.com", s.requests[0].Query)
	assert.Equal(t, 2, s.requests[0].MaxResults)

	require.Equal(t, 1, g.Calls())
	p := g.prompts[0]
	assert.Contains(t, p, "SmartHome Assistant")
	assert.Contains(t, p, "Amazon Alexa, Google Nest")
	for _, r := range twoSnippets().Results {
		assert.Contains(t, p, r.Content)
	}
	assert.Equal(t, settings, g.settings[0])
	assert.Equal(t, StateIdle, a.State())
}

func TestAnalyze_ScenarioB_MissingCompanyURL(t *testing.T) {
	s := &mockSearcher{resp: twoSnippets()}
	g := &mockGenerator{out: "x"}
	a := newTestAnalyzer(s, g)

	rec := smartHomeRecord()
	rec.CompanyURL = ""

	report, err := a.Analyze(context.Background(), rec, defaultSettings)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, kerrors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "company_url is required")
	assert.Zero(t, s.Calls())
	assert.Zero(t, g.Calls())
	assert.Equal(t, StateIdle, a.State())
}

func TestAnalyze_ScenarioC_GenerationUnavailable(t *testing.T) {
	cause := errors.New("upstream 503")
	s := &mockSearcher{resp: twoSnippets()}
	g := &mockGenerator{err: cause}
	a := newTestAnalyzer(s, g)

	report, err := a.Analyze(context.Background(), smartHomeRecord(), defaultSettings)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrGenerationUnavailable))
	assert.Equal(t, 503, kerrors.Code(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, g.Calls())
	assert.Equal(t, StateIdle, a.State())
}

func TestAnalyze_ValidationLeavesCollaboratorsUntouched(t *testing.T) {
	tests := []struct {
		name     string
		rec      InputRecord
		settings generation.Settings
		wantMsg  string
	}{
		{"missing product name", InputRecord{CompanyURL: "https://a"}, defaultSettings, "product_name is required"},
		{"whitespace only", InputRecord{ProductName: "  ", CompanyURL: "https://a"}, defaultSettings, "product_name is required"},
		{"both missing", InputRecord{}, defaultSettings, "company_url is required"},
		{"temperature too high", smartHomeRecord(), generation.Settings{Temperature: 1.2, MaxOutputTokens: 1500}, "temperature"},
		{"max tokens too low", smartHomeRecord(), generation.Settings{Temperature: 0.5, MaxOutputTokens: 99}, "max_output_tokens"},
		{"max tokens too high", smartHomeRecord(), generation.Settings{Temperature: 0.5, MaxOutputTokens: 3001}, "max_output_tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockSearcher{resp: twoSnippets()}
			g := &mockGenerator{out: "x"}
			a := newTestAnalyzer(s, g)

			_, err := a.Analyze(context.Background(), tt.rec, tt.settings)
			require.Error(t, err)
			assert.Equal(t, 400, kerrors.Code(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Zero(t, s.Calls())
			assert.Zero(t, g.Calls())
		})
	}
}

func TestAnalyze_SettingsBoundsAccepted(t *testing.T) {
	for _, st := range []generation.Settings{
		{Temperature: 0, MaxOutputTokens: 100},
		{Temperature: 1, MaxOutputTokens: 3000},
	} {
		g := &mockGenerator{out: "ok"}
		a := newTestAnalyzer(&mockSearcher{resp: twoSnippets()}, g)

		_, err := a.Analyze(context.Background(), smartHomeRecord(), st)
		require.NoError(t, err)
		assert.Equal(t, st, g.settings[0])
	}
}

func TestAnalyze_SearchFailureSkipsGeneration(t *testing.T) {
	s := &mockSearcher{err: errors.New("tavily api error (status 401)")}
	g := &mockGenerator{out: "x"}
	a := newTestAnalyzer(s, g)

	_, err := a.Analyze(context.Background(), smartHomeRecord(), defaultSettings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSearchUnavailable))
	assert.Equal(t, ReasonSearchUnavailable, kerrors.Reason(err))
	assert.Equal(t, 1, s.Calls())
	assert.Zero(t, g.Calls())
	assert.Equal(t, StateIdle, a.State())
}

func TestAnalyze_EmptySearchStillGenerates(t *testing.T) {
	g := &mockGenerator{out: "report"}
	a := newTestAnalyzer(&mockSearcher{resp: &search.Response{}}, g)

	report, err := a.Analyze(context.Background(), smartHomeRecord(), defaultSettings)
	require.NoError(t, err)
	assert.Empty(t, report.Sources)
	require.Equal(t, 1, g.Calls())
	assert.Contains(t, g.prompts[0], "No data found.")
}

func TestAnalyze_TruncatesToCap(t *testing.T) {
	resp := &search.Response{Results: []search.Result{
		{URL: "https://1", Content: "one"},
		{URL: "https://2", Content: "two"},
		{URL: "https://3", Content: "three-should-be-dropped"},
	}}
	g := &mockGenerator{out: "report"}
	a := newTestAnalyzer(&mockSearcher{resp: resp}, g)

	report, err := a.Analyze(context.Background(), smartHomeRecord(), defaultSettings)
	require.NoError(t, err)
	assert.Len(t, report.Sources, 2)
	assert.NotContains(t, g.prompts[0], "three-should-be-dropped")
}

func TestAnalyze_RejectsWhileProcessing(t *testing.T) {
	g := &mockGenerator{out: "report", block: make(chan struct{})}
	s := &mockSearcher{resp: twoSnippets()}
	a := newTestAnalyzer(s, g)

	done := make(chan error, 1)
	go func() {
		_, err := a.Analyze(context.Background(), smartHomeRecord(), defaultSettings)
		done <- err
	}()

	require.Eventually(t, func() bool { return g.Calls() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateProcessing, a.State())

	_, err := a.Analyze(context.Background(), smartHomeRecord(), defaultSettings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAnalysisInProgress))
	assert.Equal(t, 409, kerrors.Code(err))
	assert.Equal(t, 1, s.Calls())

	close(g.block)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, a.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "processing", StateProcessing.String())
}
