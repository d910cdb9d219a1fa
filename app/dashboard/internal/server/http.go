package server

import (
	"embed"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/trade_radar/app/dashboard/internal/service"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
)

//go:embed assets/*
var assets embed.FS

func NewHTTPServer(c *config.Config, s *service.DashboardService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c.Server.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.Server.HTTP.Addr))
	}
	if d, err := config.ParseDuration(c.Server.HTTP.Timeout); err == nil && d > 0 {
		opts = append(opts, http.Timeout(d))
	}

	srv := http.NewServer(opts...)
	service.RegisterDashboardHTTPServer(srv, s)

	srv.HandleFunc("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/" {
			nethttp.NotFound(w, r)
			return
		}
		content, _ := assets.ReadFile("assets/index.html")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(content)
	})

	return srv
}
