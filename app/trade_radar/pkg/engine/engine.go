package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/analysis"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/logger"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/prompt"
)

// ErrNoHighImpact 当前新闻中没有命中任何高影响力关键词
var ErrNoHighImpact = errors.New("no high-impact news found")

// Engine 核心处理引擎
type Engine struct {
	cfg      *config.Config
	client   analysis.Client
	limiter  *rate.Limiter
	keywords []string
}

// NewEngine 创建引擎实例
func NewEngine(cfg *config.Config, client analysis.Client) *Engine {
	// 初始化限流器，RPM 为 0 时不限流
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.Concurrency.RPM > 0 {
		limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
		limiter = rate.NewLimiter(limit, max(cfg.Concurrency.QPS, 1))
	}

	keywords := make([]string, 0, len(cfg.Scan.Keywords))
	for _, kw := range cfg.Scan.Keywords {
		keywords = append(keywords, strings.ToLower(strings.TrimSpace(kw)))
	}
	if len(keywords) == 0 {
		keywords = append(keywords, config.DefaultKeywords...)
	}

	return &Engine{
		cfg:      cfg,
		client:   client,
		limiter:  limiter,
		keywords: keywords,
	}
}

// Keywords 当前生效的关键词
func (e *Engine) Keywords() []string {
	return append([]string(nil), e.keywords...)
}

// Analyze 分析单条新闻
func (e *Engine) Analyze(ctx context.Context, apiKey string, item model.NewsItem, lang model.Language) (*model.AnalysisResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, analysis.ErrMissingAPIKey
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, &analysis.TransportError{Provider: e.cfg.LLM.Provider, Err: err}
	}

	text, err := e.client.Complete(ctx, apiKey, prompt.Build(item, lang))
	if err != nil {
		return nil, err
	}
	return &model.AnalysisResult{
		Link:       item.Link,
		Text:       text,
		Language:   lang,
		AnalyzedAt: time.Now(),
	}, nil
}

// IsHighImpact 标题加正文小写后包含任一关键词
func (e *Engine) IsHighImpact(item model.NewsItem) bool {
	content := strings.ToLower(item.Title + " " + item.Description)
	for _, kw := range e.keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}

// SelectHighImpact 按原顺序筛选高影响力新闻
func (e *Engine) SelectHighImpact(items []model.NewsItem) []model.NewsItem {
	var selected []model.NewsItem
	for _, item := range items {
		if e.IsHighImpact(item) {
			selected = append(selected, item)
		}
	}
	return selected
}

// ScanOptions 批量扫描选项
type ScanOptions struct {
	Items    []model.NewsItem
	Language model.Language
	APIKey   string
	// ProgressCallback progress 为 0-100 的百分比，失败时回到 0
	ProgressCallback func(status string, progress int)
	// OnResult 每条分析成功后立即回调，失败中止时已回调的结果不回滚
	OnResult func(result *model.AnalysisResult)
}

// ScanReport 一次扫描的汇总
type ScanReport struct {
	ID        string                  `json:"id"`
	Selected  []model.NewsItem        `json:"selected"`
	Results   []*model.AnalysisResult `json:"results"`
	Started   time.Time               `json:"started"`
	Finished  time.Time               `json:"finished"`
	Completed int                     `json:"completed"`
}

// ItemError 标识扫描中失败的新闻
type ItemError struct {
	Link  string
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("analyze item %d (%s): %v", e.Index+1, e.Link, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Scan 逐条顺序分析高影响力新闻，任意一条失败即中止
func (e *Engine) Scan(ctx context.Context, opts ScanOptions) (*ScanReport, error) {
	report := &ScanReport{
		ID:      uuid.NewString(),
		Started: time.Now(),
	}
	progress := func(status string, p int) {
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(status, p)
		}
	}

	if strings.TrimSpace(opts.APIKey) == "" {
		return report, analysis.ErrMissingAPIKey
	}

	report.Selected = e.SelectHighImpact(opts.Items)
	total := len(report.Selected)
	if total == 0 {
		logger.Log.Infof("扫描 [%s] 未命中高影响力新闻，共 %d 条", report.ID, len(opts.Items))
		report.Finished = time.Now()
		return report, ErrNoHighImpact
	}

	logger.Log.Infof("开始扫描 [%s]，命中 %d/%d 条新闻", report.ID, total, len(opts.Items))
	progress("starting", 0)

	for i, item := range report.Selected {
		result, err := e.Analyze(ctx, opts.APIKey, item, opts.Language)
		if err != nil {
			logger.Log.Errorf("扫描 [%s] 分析失败 [%s]: %v", report.ID, item.Link, err)
			progress("failed", 0)
			report.Finished = time.Now()
			return report, &ItemError{Link: item.Link, Index: i, Err: err}
		}

		report.Results = append(report.Results, result)
		report.Completed++
		if opts.OnResult != nil {
			opts.OnResult(result)
		}
		progress(fmt.Sprintf("analyzed: %s", item.Title), (i+1)*100/total)
		logger.Log.Debugf("扫描 [%s] 完成 %d/%d: %s", report.ID, i+1, total, item.Link)
	}

	report.Finished = time.Now()
	logger.Log.Infof("扫描 [%s] 完成，耗时 %s", report.ID, report.Finished.Sub(report.Started).Round(time.Millisecond))
	return report, nil
}
