package main

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/internal/biz"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/internal/server"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/internal/service"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/config"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/generation"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/logger"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/metrics"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search/factory"
)

// setup 加载配置并初始化日志
func setup(path string) (*config.Config, log.Logger, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log.With(logger.NewKratosLogger(logger.Log), "service.name", Name), nil
}

// newAnalyzer 组装搜索、生成与指标
func newAnalyzer(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, l log.Logger) (*biz.Analyzer, error) {
	searcher, err := factory.NewSearcher(&cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("init searcher: %w", err)
	}
	generator, err := generation.NewChatGenerator(ctx, &cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("init generator: %w", err)
	}
	return biz.NewAnalyzer(searcher, generator, metrics.NewRecorder(reg), cfg.Search.MaxResults, l), nil
}

// initApp 手动完成依赖注入
func initApp(ctx context.Context, cfg *config.Config, l log.Logger) (*kratos.App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	analyzer, err := newAnalyzer(ctx, cfg, reg, l)
	if err != nil {
		return nil, err
	}
	svc := service.NewInsightService(analyzer, generation.DefaultSettings(&cfg.Generation), l)
	hs := server.NewHTTPServer(&cfg.Server, svc, reg, l)
	return newApp(l, hs), nil
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
