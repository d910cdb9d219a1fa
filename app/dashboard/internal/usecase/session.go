package usecase

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/trade_radar/app/dashboard/internal/domain"
	"github.com/iWorld-y/trade_radar/app/dashboard/internal/repo"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/analysis"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/article"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/engine"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/notify"
)

// SessionUseCase 仪表盘会话，密钥、语言、新闻和分析结果只保存在内存中
type SessionUseCase struct {
	mu sync.Mutex
	wg sync.WaitGroup

	id       string
	feed     repo.FeedRepo
	articles repo.ArticleRepo
	sender   repo.ReportSender
	engine   *engine.Engine
	log      *log.Helper

	items    []model.NewsItem
	loadedAt time.Time
	results  map[string]*model.AnalysisResult
	apiKey   model.APIKeyConfig
	language model.Language
	scanning bool
	progress int
	notice   string
	lastScan *engine.ScanReport
}

// NewSessionUseCase 创建会话，配置文件里的密钥作为初始密钥
func NewSessionUseCase(cfg *config.Config, feed repo.FeedRepo, articles repo.ArticleRepo, sender repo.ReportSender, eng *engine.Engine, logger log.Logger) *SessionUseCase {
	lang, err := model.ParseLanguage(cfg.Scan.Language)
	if err != nil {
		lang = model.LanguageEN
	}
	uc := &SessionUseCase{
		id:       uuid.NewString(),
		feed:     feed,
		articles: articles,
		sender:   sender,
		engine:   eng,
		log:      log.NewHelper(logger),
		results:  make(map[string]*model.AnalysisResult),
		language: lang,
	}
	if key := strings.TrimSpace(cfg.LLM.APIKey); key != "" {
		uc.apiKey = model.APIKeyConfig{Key: key, LastUpdated: time.Now()}
	}
	return uc
}

// Reload 重新加载新闻源，失败时保留原有新闻，已有的分析结果不清理
func (uc *SessionUseCase) Reload(ctx context.Context) error {
	items, err := uc.feed.Load(ctx)
	if err != nil {
		uc.log.Errorf("加载新闻源失败 [%s]: %v", uc.feed.Source(), err)
		return &domain.Error{Kind: domain.KindLoadFailed, Message: domain.MsgLoadFailed, Err: err}
	}

	uc.mu.Lock()
	uc.items = items
	uc.loadedAt = time.Now()
	uc.mu.Unlock()

	uc.log.Infof("新闻源已加载 [%s]，共 %d 条", uc.feed.Source(), len(items))
	return nil
}

// SaveAPIKey 去掉首尾空白后保存密钥
func (uc *SessionUseCase) SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return &domain.Error{Kind: domain.KindInvalidInput, Message: "API key cannot be empty."}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.apiKey = model.APIKeyConfig{Key: key, LastUpdated: time.Now()}
	uc.notice = ""
	uc.log.Info("API 密钥已更新")
	return nil
}

// SetLanguage 切换提示词语言
func (uc *SessionUseCase) SetLanguage(code string) error {
	lang, err := model.ParseLanguage(code)
	if err != nil {
		return &domain.Error{Kind: domain.KindInvalidInput, Message: "Unsupported language.", Err: err}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.language = lang
	return nil
}

// Analyze 分析单条新闻，结果按链接保存，再次分析会覆盖
func (uc *SessionUseCase) Analyze(ctx context.Context, link string) (*model.AnalysisResult, error) {
	uc.mu.Lock()
	key := uc.apiKey.Key
	lang := uc.language
	item, ok := uc.findItem(link)
	uc.mu.Unlock()

	if key == "" {
		return nil, &domain.Error{Kind: domain.KindMissingConfig, Message: domain.MsgMissingAPIKey}
	}
	if !ok {
		return nil, &domain.Error{Kind: domain.KindNotFound, Message: domain.MsgUnknownItem}
	}

	res, err := uc.engine.Analyze(ctx, key, item, lang)
	if err != nil {
		uc.log.Errorf("分析新闻失败 [%s]: %v", link, err)
		return nil, uc.analysisError(domain.MsgAnalyzeFailed, err)
	}

	uc.mu.Lock()
	uc.results[res.Link] = res
	uc.mu.Unlock()
	return res, nil
}

// ScanAll 同步扫描全部高影响力新闻
func (uc *SessionUseCase) ScanAll(ctx context.Context) (*engine.ScanReport, error) {
	key, lang, items, err := uc.beginScan()
	if err != nil {
		return nil, err
	}
	return uc.runScan(ctx, key, lang, items)
}

// StartScan 后台扫描，请求结束后继续执行
func (uc *SessionUseCase) StartScan(ctx context.Context) error {
	key, lang, items, err := uc.beginScan()
	if err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		_, _ = uc.runScan(bg, key, lang, items)
	}()
	return nil
}

// Wait 等待后台扫描结束，ctx 到期时放弃等待
func (uc *SessionUseCase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *SessionUseCase) beginScan() (string, model.Language, []model.NewsItem, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.apiKey.Key == "" {
		return "", "", nil, &domain.Error{Kind: domain.KindMissingConfig, Message: domain.MsgMissingAPIKey}
	}
	if uc.scanning {
		return "", "", nil, &domain.Error{Kind: domain.KindBusy, Message: domain.MsgScanInProgress}
	}
	uc.scanning = true
	uc.progress = 0
	uc.notice = ""
	return uc.apiKey.Key, uc.language, append([]model.NewsItem(nil), uc.items...), nil
}

func (uc *SessionUseCase) runScan(ctx context.Context, key string, lang model.Language, items []model.NewsItem) (*engine.ScanReport, error) {
	report, err := uc.engine.Scan(ctx, engine.ScanOptions{
		Items:    items,
		Language: lang,
		APIKey:   key,
		ProgressCallback: func(status string, progress int) {
			uc.mu.Lock()
			uc.progress = progress
			uc.mu.Unlock()
		},
		OnResult: func(res *model.AnalysisResult) {
			uc.mu.Lock()
			uc.results[res.Link] = res
			uc.mu.Unlock()
		},
	})

	uc.mu.Lock()
	uc.scanning = false
	uc.progress = 0
	uc.lastScan = report
	if errors.Is(err, engine.ErrNoHighImpact) {
		uc.notice = domain.MsgNoHighImpact
	}
	var results map[string]*model.AnalysisResult
	if err == nil {
		results = maps.Clone(uc.results)
	}
	uc.mu.Unlock()

	switch {
	case errors.Is(err, engine.ErrNoHighImpact):
		return report, nil
	case err != nil:
		return report, uc.analysisError(domain.MsgScanFailed, err)
	}

	uc.sendReport(ctx, report, lang, results)
	return report, nil
}

func (uc *SessionUseCase) sendReport(ctx context.Context, report *engine.ScanReport, lang model.Language, results map[string]*model.AnalysisResult) {
	if uc.sender == nil || report.Completed == 0 {
		return
	}
	if err := uc.sender.Send(ctx, notify.NewReport(report.ID, lang, report.Selected, results)); err != nil {
		uc.log.Warnf("扫描报告发送失败 [%s]: %v", report.ID, err)
	}
}

// Article 抓取新闻原文，只允许当前新闻源中的链接
func (uc *SessionUseCase) Article(ctx context.Context, link string) (*article.Article, error) {
	uc.mu.Lock()
	_, ok := uc.findItem(link)
	uc.mu.Unlock()
	if !ok {
		return nil, &domain.Error{Kind: domain.KindNotFound, Message: domain.MsgUnknownItem}
	}

	a, err := uc.articles.Fetch(ctx, link)
	if err != nil {
		uc.log.Warnf("抓取原文失败 [%s]: %v", link, err)
		return nil, &domain.Error{Kind: domain.KindUpstream, Message: domain.MsgArticleFailed, Err: err}
	}
	return a, nil
}

// State 返回当前会话快照
func (uc *SessionUseCase) State() *domain.State {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st := &domain.State{
		SessionID:  uc.id,
		FeedSource: uc.feed.Source(),
		LoadedAt:   uc.loadedAt,
		Items:      append([]model.NewsItem(nil), uc.items...),
		Results:    maps.Clone(uc.results),
		Language:   uc.language,
		Languages:  model.Languages,
		HasAPIKey:  uc.apiKey.Key != "",
		Scanning:   uc.scanning,
		Progress:   uc.progress,
		Notice:     uc.notice,
		LastScan:   uc.lastScan,
		Keywords:   uc.engine.Keywords(),
	}
	if st.HasAPIKey {
		t := uc.apiKey.LastUpdated
		st.KeyUpdatedAt = &t
	}
	return st
}

// findItem 调用方需持有锁
func (uc *SessionUseCase) findItem(link string) (model.NewsItem, bool) {
	for _, item := range uc.items {
		if item.Link == link {
			return item, true
		}
	}
	return model.NewsItem{}, false
}

func (uc *SessionUseCase) analysisError(msg string, err error) error {
	if errors.Is(err, analysis.ErrMissingAPIKey) {
		return &domain.Error{Kind: domain.KindMissingConfig, Message: domain.MsgMissingAPIKey, Err: err}
	}
	return &domain.Error{Kind: domain.KindUpstream, Message: msg, Err: err}
}
