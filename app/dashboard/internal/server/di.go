package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/trade_radar/app/dashboard/internal/data"
	"github.com/iWorld-y/trade_radar/app/dashboard/internal/service"
	"github.com/iWorld-y/trade_radar/app/dashboard/internal/usecase"
)

// ProviderSet 是仪表盘服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewRefreshServer,
	NewRadarEngine,

	// Data providers
	data.NewData,
	data.NewFeedRepo,
	data.NewArticleRepo,
	data.NewReportSender,

	// UseCase providers
	usecase.NewSessionUseCase,

	// Service providers
	service.NewDashboardService,
)
