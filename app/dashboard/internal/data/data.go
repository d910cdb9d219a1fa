package data

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/article"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/feed"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/notify"
)

// Data 外部资源：新闻源、原文抓取和邮件
type Data struct {
	source   feed.Source
	fetcher  *article.Fetcher
	renderer *notify.Renderer
	sender   *notify.EmailSender
}

// NewData 按配置创建外部资源
func NewData(c *config.Config, logger log.Logger) (*Data, func(), error) {
	timeout, err := config.ParseDuration(c.Feed.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid feed timeout: %w", err)
	}
	src, err := feed.NewSource(c.Feed.Source, c.Feed.Path, c.Feed.URL, timeout)
	if err != nil {
		return nil, nil, err
	}

	d := &Data{
		source:   src,
		fetcher:  article.NewFetcher(timeout, article.DefaultMaxLength),
		renderer: notify.NewRenderer(),
		sender:   notify.NewEmailSender(c.Notify.SMTP),
	}
	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
	}
	return d, cleanup, nil
}
