package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trade_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/article"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/engine"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/notify"
)

// mockFeedRepo 模拟新闻源
type mockFeedRepo struct {
	items []model.NewsItem
	err   error
}

func (m *mockFeedRepo) Load(ctx context.Context) ([]model.NewsItem, error) {
	return m.items, m.err
}

func (m *mockFeedRepo) Source() string { return "mock" }

type mockArticleRepo struct{}

func (mockArticleRepo) Fetch(ctx context.Context, link string) (*article.Article, error) {
	return &article.Article{Link: link, Content: "full text"}, nil
}

type mockSender struct {
	mu      sync.Mutex
	reports []*notify.Report
}

func (m *mockSender) Send(ctx context.Context, r *notify.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r)
	return nil
}

// mockClient 模拟大模型，第 failOn 次调用返回 err
type mockClient struct {
	mu      sync.Mutex
	calls   int
	failOn  int
	err     error
	block   chan struct{}
	started chan struct{}
}

func (m *mockClient) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	n := m.calls
	m.mu.Unlock()

	if m.started != nil && n == 1 {
		close(m.started)
	}
	if m.block != nil {
		<-m.block
	}
	if m.failOn > 0 && n == m.failOn {
		return "", m.err
	}
	if len(prompt) > 40 {
		prompt = prompt[:40]
	}
	return "result: " + prompt, nil
}

func (m *mockClient) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var testItems = []model.NewsItem{
	{Title: "Fed holds rates steady", Link: "https://example.com/1", Description: "FOMC statement"},
	{Title: "GDP beats estimates", Link: "https://example.com/2", Description: "Q3 advance"},
	{Title: "Company announces product", Link: "https://example.com/3", Description: "A new gadget"},
	{Title: "Inflation cools", Link: "https://example.com/4", Description: "CPI 3.2% vs 3.3%"},
}

func newTestSession(t *testing.T, client *mockClient, items []model.NewsItem) (*SessionUseCase, *mockSender) {
	t.Helper()
	cfg := config.Default()
	sender := &mockSender{}
	uc := NewSessionUseCase(cfg, &mockFeedRepo{items: items}, mockArticleRepo{}, sender, engine.NewEngine(cfg, client), log.DefaultLogger)
	require.NoError(t, uc.Reload(context.Background()))
	return uc, sender
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind, msg string) {
	t.Helper()
	se, ok := domain.AsError(err)
	require.True(t, ok, "unexpected error %v", err)
	require.Equal(t, kind, se.Kind)
	if msg != "" {
		require.Equal(t, msg, se.Message)
	}
}

func TestSessionReload(t *testing.T) {
	uc, _ := newTestSession(t, &mockClient{}, testItems)
	require.Len(t, uc.State().Items, 4)

	uc.feed = &mockFeedRepo{err: errors.New("broken xml")}
	err := uc.Reload(context.Background())
	requireKind(t, err, domain.KindLoadFailed, domain.MsgLoadFailed)
	require.Len(t, uc.State().Items, 4)
}

func TestSessionSaveAPIKey(t *testing.T) {
	uc, _ := newTestSession(t, &mockClient{}, testItems)
	require.False(t, uc.State().HasAPIKey)

	requireKind(t, uc.SaveAPIKey("   "), domain.KindInvalidInput, "")
	require.NoError(t, uc.SaveAPIKey("  sk-test  "))

	st := uc.State()
	require.True(t, st.HasAPIKey)
	require.NotNil(t, st.KeyUpdatedAt)
	require.Equal(t, "sk-test", uc.apiKey.Key)
}

func TestSessionSetLanguage(t *testing.T) {
	uc, _ := newTestSession(t, &mockClient{}, testItems)
	require.Equal(t, model.LanguageEN, uc.State().Language)

	require.NoError(t, uc.SetLanguage("FR"))
	require.Equal(t, model.LanguageFR, uc.State().Language)
	requireKind(t, uc.SetLanguage("de"), domain.KindInvalidInput, "")
}

func TestSessionAnalyzeRequiresKey(t *testing.T) {
	client := &mockClient{}
	uc, _ := newTestSession(t, client, testItems)

	_, err := uc.Analyze(context.Background(), "https://example.com/1")
	requireKind(t, err, domain.KindMissingConfig, domain.MsgMissingAPIKey)
	require.Zero(t, client.count())
}

func TestSessionAnalyzeUnknownLink(t *testing.T) {
	uc, _ := newTestSession(t, &mockClient{}, testItems)
	require.NoError(t, uc.SaveAPIKey("sk-test"))

	_, err := uc.Analyze(context.Background(), "https://example.com/missing")
	requireKind(t, err, domain.KindNotFound, "")
}

func TestSessionAnalyzeFailure(t *testing.T) {
	client := &mockClient{failOn: 1, err: errors.New("status code: 401")}
	uc, _ := newTestSession(t, client, testItems)
	require.NoError(t, uc.SaveAPIKey("sk-bad"))

	_, err := uc.Analyze(context.Background(), "https://example.com/1")
	requireKind(t, err, domain.KindUpstream, domain.MsgAnalyzeFailed)
	require.Empty(t, uc.State().Results)
}

func TestSessionAnalyzeOverwritesByLink(t *testing.T) {
	uc, _ := newTestSession(t, &mockClient{}, testItems)
	require.NoError(t, uc.SaveAPIKey("sk-test"))

	first, err := uc.Analyze(context.Background(), "https://example.com/1")
	require.NoError(t, err)
	require.Equal(t, model.LanguageEN, first.Language)

	require.NoError(t, uc.SetLanguage("fr"))
	second, err := uc.Analyze(context.Background(), "https://example.com/1")
	require.NoError(t, err)

	results := uc.State().Results
	require.Len(t, results, 1)
	require.Equal(t, model.LanguageFR, results["https://example.com/1"].Language)
	require.Equal(t, second.Text, results["https://example.com/1"].Text)
}

func TestSessionScanAll(t *testing.T) {
	client := &mockClient{}
	uc, sender := newTestSession(t, client, testItems)
	require.NoError(t, uc.SaveAPIKey("sk-test"))

	report, err := uc.ScanAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.Completed)
	require.Equal(t, 3, client.count())

	st := uc.State()
	require.Len(t, st.Results, 3)
	require.NotContains(t, st.Results, "https://example.com/3")
	require.False(t, st.Scanning)
	require.Zero(t, st.Progress)
	require.Equal(t, report, st.LastScan)

	require.Len(t, sender.reports, 1)
	require.Len(t, sender.reports[0].Entries, 3)
}

func TestSessionScanNoHighImpact(t *testing.T) {
	client := &mockClient{}
	uc, sender := newTestSession(t, client, testItems[2:3])
	require.NoError(t, uc.SaveAPIKey("sk-test"))

	_, err := uc.ScanAll(context.Background())
	require.NoError(t, err)
	require.Zero(t, client.count())
	require.Equal(t, domain.MsgNoHighImpact, uc.State().Notice)
	require.Empty(t, sender.reports)

	require.NoError(t, uc.SaveAPIKey("sk-other"))
	require.Empty(t, uc.State().Notice)
}

func TestSessionScanAbortKeepsEarlierResults(t *testing.T) {
	client := &mockClient{failOn: 2, err: errors.New("connection reset")}
	uc, sender := newTestSession(t, client, testItems)
	require.NoError(t, uc.SaveAPIKey("sk-test"))

	_, err := uc.ScanAll(context.Background())
	requireKind(t, err, domain.KindUpstream, domain.MsgScanFailed)
	require.Equal(t, 2, client.count())

	st := uc.State()
	require.Len(t, st.Results, 1)
	require.Contains(t, st.Results, "https://example.com/1")
	require.Zero(t, st.Progress)
	require.False(t, st.Scanning)
	require.Empty(t, sender.reports)
}

func TestSessionScanMissingKey(t *testing.T) {
	client := &mockClient{}
	uc, _ := newTestSession(t, client, testItems)

	_, err := uc.ScanAll(context.Background())
	requireKind(t, err, domain.KindMissingConfig, domain.MsgMissingAPIKey)
	require.Zero(t, client.count())
}

func TestSessionStartScanBusy(t *testing.T) {
	client := &mockClient{block: make(chan struct{}), started: make(chan struct{})}
	uc, _ := newTestSession(t, client, testItems)
	require.NoError(t, uc.SaveAPIKey("sk-test"))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, uc.StartScan(ctx))
	cancel()
	<-client.started

	require.True(t, uc.State().Scanning)
	requireKind(t, uc.StartScan(context.Background()), domain.KindBusy, domain.MsgScanInProgress)

	close(client.block)
	require.NoError(t, uc.Wait(context.Background()))

	st := uc.State()
	require.False(t, st.Scanning)
	require.Len(t, st.Results, 3)
}

func TestSessionWaitTimeout(t *testing.T) {
	client := &mockClient{block: make(chan struct{}), started: make(chan struct{})}
	uc, _ := newTestSession(t, client, testItems)
	require.NoError(t, uc.Wait(context.Background()))

	require.NoError(t, uc.SaveAPIKey("sk-test"))
	require.NoError(t, uc.StartScan(context.Background()))
	<-client.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, uc.Wait(ctx), context.DeadlineExceeded)
	require.True(t, uc.State().Scanning)

	close(client.block)
	require.NoError(t, uc.Wait(context.Background()))
	require.False(t, uc.State().Scanning)
}

func TestSessionArticle(t *testing.T) {
	uc, _ := newTestSession(t, &mockClient{}, testItems)

	a, err := uc.Article(context.Background(), "https://example.com/2")
	require.NoError(t, err)
	require.Equal(t, "full text", a.Content)

	_, err = uc.Article(context.Background(), "https://evil.example.com")
	requireKind(t, err, domain.KindNotFound, "")
}

func TestSessionKeyFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = " sk-conf "
	cfg.Scan.Language = "fr"
	uc := NewSessionUseCase(cfg, &mockFeedRepo{}, mockArticleRepo{}, nil, engine.NewEngine(cfg, &mockClient{}), log.DefaultLogger)

	st := uc.State()
	require.True(t, st.HasAPIKey)
	require.Equal(t, model.LanguageFR, st.Language)
	require.NotEmpty(t, st.SessionID)
}
