package repo

import (
	"context"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/article"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/notify"
)

// FeedRepo 新闻源仓库接口
type FeedRepo interface {
	// Load 拉取并解析整份新闻源
	Load(ctx context.Context) ([]model.NewsItem, error)
	// Source 新闻源名称
	Source() string
}

// ArticleRepo 原文仓库接口
type ArticleRepo interface {
	// Fetch 抓取新闻原文正文
	Fetch(ctx context.Context, link string) (*article.Article, error)
}

// ReportSender 扫描报告发送接口
type ReportSender interface {
	Send(ctx context.Context, report *notify.Report) error
}
