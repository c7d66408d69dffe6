// 程序入口：读取配置、加载边界与数据表、初始化可选依赖并启动服务
package main

import (
	"context"
	"net/http"
	"os"

	"povertymap/internal/api"
	"povertymap/internal/config"
	"povertymap/internal/dashboard"
	"povertymap/internal/logger"
	"povertymap/internal/metrics"
	"povertymap/internal/middleware"
	"povertymap/internal/migrate"
	"povertymap/internal/store"
	"povertymap/internal/utils"
	"povertymap/internal/web"
)

func main() {
	config.LoadDotEnv()
	l := logger.Setup()
	cfg := config.Load()
	l.Debug("config_loaded", "addr", cfg.Addr, "api_base", cfg.APIBase, "data_dir", cfg.DataDir)

	ctx := context.Background()

	// 边界与数据表任一加载失败即退出，不以部分数据启动
	dctx, err := dashboard.Load(ctx, cfg)
	if err != nil {
		l.Error("dataset_load_error", "err", err)
		os.Exit(1)
	}

	var cache dashboard.FigureCache
	if cfg.RedisEnable {
		rc := utils.OpenRedisFromEnv()
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		cache = api.NewRedisFigureCache(rc, cfg.FigureCacheTTL)
	} else {
		l.Info("redis_disabled")
	}

	var st *store.Store
	if cfg.PGEnable {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
			os.Exit(1)
		}
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		st = store.AttachDB(db)
		l.Info("db_open_ok")
	} else {
		l.Info("stats_disabled")
	}

	ctl := dashboard.NewController(dctx, cache)

	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, api.BuildRoutes(ctl, st)))
	mux.Handle("/", web.Handler(cfg.APIBase))

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler, middleware.Options{RateLimit: cfg.RateLimitEnabled, QPS: cfg.RateLimitQPS})
	s := &http.Server{Addr: cfg.Addr, Handler: handler}

	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "povertymap.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		if err := s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath); err != nil {
			l.Error("server_error", "err", err)
			os.Exit(1)
		}
		return
	}
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
