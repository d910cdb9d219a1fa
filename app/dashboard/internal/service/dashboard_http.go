package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationDashboardGetState    = "/dashboard.v1.Dashboard/GetState"
	OperationDashboardReloadFeed  = "/dashboard.v1.Dashboard/ReloadFeed"
	OperationDashboardSaveAPIKey  = "/dashboard.v1.Dashboard/SaveAPIKey"
	OperationDashboardSetLanguage = "/dashboard.v1.Dashboard/SetLanguage"
	OperationDashboardAnalyzeItem = "/dashboard.v1.Dashboard/AnalyzeItem"
	OperationDashboardStartScan   = "/dashboard.v1.Dashboard/StartScan"
	OperationDashboardGetArticle  = "/dashboard.v1.Dashboard/GetArticle"
	OperationDashboardHealth      = "/dashboard.v1.Dashboard/Health"
)

type empty struct{}

// RegisterDashboardHTTPServer 注册仪表盘 JSON 接口
func RegisterDashboardHTTPServer(s *http.Server, srv *DashboardService) {
	r := s.Route("/")
	r.GET("/api/state", handle(OperationDashboardGetState, 200, bindNone, func(ctx context.Context, _ *empty) (any, error) {
		return srv.GetState(ctx)
	}))
	r.POST("/api/feed/reload", handle(OperationDashboardReloadFeed, 200, bindNone, func(ctx context.Context, _ *empty) (any, error) {
		return srv.ReloadFeed(ctx)
	}))
	r.PUT("/api/config/key", handle(OperationDashboardSaveAPIKey, 200, bindBody[SaveAPIKeyReq], srv.SaveAPIKey))
	r.PUT("/api/config/language", handle(OperationDashboardSetLanguage, 200, bindBody[SetLanguageReq], srv.SetLanguage))
	r.POST("/api/items/analyze", handle(OperationDashboardAnalyzeItem, 200, bindBody[AnalyzeReq], srv.AnalyzeItem))
	r.POST("/api/scan", handle(OperationDashboardStartScan, 202, bindNone, func(ctx context.Context, _ *empty) (any, error) {
		return srv.StartScan(ctx)
	}))
	r.GET("/api/items/article", handle(OperationDashboardGetArticle, 200, bindQuery[ArticleReq], srv.GetArticle))
	r.GET("/healthz", handle(OperationDashboardHealth, 200, bindNone, func(ctx context.Context, _ *empty) (any, error) {
		return srv.Health(ctx)
	}))
}

func bindNone(ctx http.Context) (*empty, error) {
	return &empty{}, nil
}

func bindBody[T any](ctx http.Context) (*T, error) {
	var in T
	if err := ctx.Bind(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

func bindQuery[T any](ctx http.Context) (*T, error) {
	var in T
	if err := ctx.BindQuery(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

// handle 按 protoc-gen-go-http 生成代码的方式包装处理函数，中间件对每个接口生效
func handle[Req any, Reply any](operation string, code int, bind func(http.Context) (*Req, error), fn func(context.Context, *Req) (Reply, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		in, err := bind(ctx)
		if err != nil {
			return err
		}
		http.SetOperation(ctx, operation)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return fn(ctx, req.(*Req))
		})
		out, err := h(ctx, in)
		if err != nil {
			return err
		}
		return ctx.JSON(code, out)
	}
}
