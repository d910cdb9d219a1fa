package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/analysis"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/engine"
	trLogger "github.com/iWorld-y/trade_radar/app/trade_radar/pkg/logger"
)

// NewRadarEngine 初始化分析引擎
func NewRadarEngine(c *config.Config, logger log.Logger) (*engine.Engine, func(), error) {
	// 初始化日志
	if err := trLogger.InitLogger(c.Log.Level, c.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init trade_radar logger: %v", err)
		_ = trLogger.InitLogger("info", "") // 降级处理
	}

	client, err := analysis.NewClient(c.LLM)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init analysis client: %v", err)
		return nil, nil, err
	}

	eng := engine.NewEngine(c, client)
	cleanup := func() {
		log.NewHelper(logger).Info("Cleaning up trade_radar engine")
	}
	return eng, cleanup, nil
}
