package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trade_radar/app/dashboard/internal/repo"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/article"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/feed"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/notify"
)

type feedRepo struct {
	data *Data
	log  *log.Helper
}

// NewFeedRepo 创建新闻源仓库
func NewFeedRepo(data *Data, logger log.Logger) repo.FeedRepo {
	return &feedRepo{data: data, log: log.NewHelper(logger)}
}

func (r *feedRepo) Load(ctx context.Context) ([]model.NewsItem, error) {
	items, err := feed.Load(ctx, r.data.source)
	if err != nil {
		return nil, err
	}
	r.log.Debugf("feed %s parsed, %d items", r.data.source.Name(), len(items))
	return items, nil
}

func (r *feedRepo) Source() string {
	return r.data.source.Name()
}

type articleRepo struct {
	data *Data
}

// NewArticleRepo 创建原文仓库
func NewArticleRepo(data *Data) repo.ArticleRepo {
	return &articleRepo{data: data}
}

func (r *articleRepo) Fetch(ctx context.Context, link string) (*article.Article, error) {
	return r.data.fetcher.Fetch(ctx, link)
}

type reportSender struct {
	data *Data
	log  *log.Helper
}

// NewReportSender 创建报告发送器，未配置 SMTP 时发送为空操作
func NewReportSender(data *Data, logger log.Logger) repo.ReportSender {
	return &reportSender{data: data, log: log.NewHelper(logger)}
}

func (s *reportSender) Send(ctx context.Context, report *notify.Report) error {
	msg, err := s.data.renderer.Render(report)
	if err != nil {
		return err
	}
	return s.data.sender.Send(msg)
}
