package server

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"

	"github.com/iWorld-y/trade_radar/app/dashboard/internal/usecase"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
)

// RefreshServer 启动时加载一次新闻源，之后按 cron 表达式定时刷新
type RefreshServer struct {
	uc       *usecase.SessionUseCase
	cron     *cron.Cron
	schedule string
	log      *log.Helper
}

// NewRefreshServer refresh_cron 为空时只做启动加载
func NewRefreshServer(c *config.Config, uc *usecase.SessionUseCase, logger log.Logger) (*RefreshServer, error) {
	s := &RefreshServer{
		uc:       uc,
		schedule: c.Feed.RefreshCron,
		log:      log.NewHelper(logger),
	}
	if s.schedule == "" {
		return s, nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.refresh); err != nil {
		return nil, fmt.Errorf("invalid feed.refresh_cron %q: %w", s.schedule, err)
	}
	return s, nil
}

func (s *RefreshServer) refresh() {
	if err := s.uc.Reload(context.Background()); err != nil {
		s.log.Warnf("定时刷新新闻源失败: %v", err)
	}
}

// Start 实现 transport.Server
func (s *RefreshServer) Start(ctx context.Context) error {
	if err := s.uc.Reload(ctx); err != nil {
		s.log.Errorf("启动时加载新闻源失败: %v", err)
	}
	if s.cron != nil {
		s.log.Infof("新闻源定时刷新已启动: %s", s.schedule)
		s.cron.Start()
	}
	return nil
}

// Stop 等待正在执行的刷新结束
func (s *RefreshServer) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
