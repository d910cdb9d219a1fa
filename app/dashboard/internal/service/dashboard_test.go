package service

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trade_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/trade_radar/app/dashboard/internal/usecase"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/article"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/engine"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

type stubFeed struct{}

func (stubFeed) Load(ctx context.Context) ([]model.NewsItem, error) {
	return []model.NewsItem{
		{Title: "Fed holds rates steady", Link: "https://example.com/fed", Description: "FOMC"},
		{Title: "Company announces product", Link: "https://example.com/product"},
	}, nil
}

func (stubFeed) Source() string { return "stub" }

type stubArticles struct{}

func (stubArticles) Fetch(ctx context.Context, link string) (*article.Article, error) {
	return &article.Article{Link: link, Content: "body"}, nil
}

type stubClient struct{}

func (stubClient) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	if apiKey == "sk-bad" {
		return "", errors.New("status code: 401")
	}
	return "Bullish USD", nil
}

func newTestServer(t *testing.T) (*http.Server, *usecase.SessionUseCase) {
	t.Helper()
	cfg := config.Default()
	uc := usecase.NewSessionUseCase(cfg, stubFeed{}, stubArticles{}, nil, engine.NewEngine(cfg, stubClient{}), log.DefaultLogger)
	require.NoError(t, uc.Reload(context.Background()))

	srv := http.NewServer()
	RegisterDashboardHTTPServer(srv, NewDashboardService(uc, log.DefaultLogger))
	return srv, uc
}

func do(t *testing.T, srv *http.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestGetState(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, nethttp.MethodGet, "/api/state", "")
	require.Equal(t, 200, w.Code)

	var st domain.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	require.Len(t, st.Items, 2)
	require.Equal(t, model.LanguageEN, st.Language)
	require.False(t, st.HasAPIKey)
}

func TestAnalyzeWithoutKey(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, nethttp.MethodPost, "/api/items/analyze", `{"link":"https://example.com/fed"}`)
	require.Equal(t, 412, w.Code)
	e := decodeError(t, w)
	require.Equal(t, domain.MsgMissingAPIKey, e.Message)
	require.Equal(t, string(domain.KindMissingConfig), e.Reason)
}

func TestAnalyzeFlow(t *testing.T) {
	srv, uc := newTestServer(t)

	w := do(t, srv, nethttp.MethodPut, "/api/config/key", `{"key":"  "}`)
	require.Equal(t, 400, w.Code)

	w = do(t, srv, nethttp.MethodPut, "/api/config/key", `{"key":"sk-test"}`)
	require.Equal(t, 200, w.Code)
	require.NotContains(t, w.Body.String(), "sk-test")

	w = do(t, srv, nethttp.MethodPut, "/api/config/language", `{"language":"fr"}`)
	require.Equal(t, 200, w.Code)

	w = do(t, srv, nethttp.MethodPost, "/api/items/analyze", `{"link":"https://example.com/fed"}`)
	require.Equal(t, 200, w.Code)
	var reply AnalyzeReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.Equal(t, "Bullish USD", reply.Result.Text)
	require.Equal(t, model.LanguageFR, reply.Result.Language)
	require.Contains(t, uc.State().Results, "https://example.com/fed")

	w = do(t, srv, nethttp.MethodPost, "/api/items/analyze", `{"link":"https://example.com/none"}`)
	require.Equal(t, 404, w.Code)
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	srv, _ := newTestServer(t)
	require.Equal(t, 200, do(t, srv, nethttp.MethodPut, "/api/config/key", `{"key":"sk-bad"}`).Code)

	w := do(t, srv, nethttp.MethodPost, "/api/items/analyze", `{"link":"https://example.com/fed"}`)
	require.Equal(t, 502, w.Code)
	require.Equal(t, domain.MsgAnalyzeFailed, decodeError(t, w).Message)
}

func TestSetLanguageInvalid(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, nethttp.MethodPut, "/api/config/language", `{"language":"de"}`)
	require.Equal(t, 400, w.Code)
}

func TestStartScan(t *testing.T) {
	srv, uc := newTestServer(t)
	require.Equal(t, 412, do(t, srv, nethttp.MethodPost, "/api/scan", "").Code)

	require.NoError(t, uc.SaveAPIKey("sk-test"))
	w := do(t, srv, nethttp.MethodPost, "/api/scan", "")
	require.Equal(t, 202, w.Code)
	require.NoError(t, uc.Wait(context.Background()))

	st := uc.State()
	require.Len(t, st.Results, 1)
	require.False(t, st.Scanning)
}

func TestGetArticle(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, nethttp.MethodGet, "/api/items/article?link="+url.QueryEscape("https://example.com/fed"), "")
	require.Equal(t, 200, w.Code)
	var a article.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	require.Equal(t, "body", a.Content)

	w = do(t, srv, nethttp.MethodGet, "/api/items/article?link=x", "")
	require.Equal(t, 404, w.Code)
}

func TestReloadAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	require.Equal(t, 200, do(t, srv, nethttp.MethodPost, "/api/feed/reload", "").Code)

	w := do(t, srv, nethttp.MethodGet, "/healthz", "")
	require.Equal(t, 200, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
