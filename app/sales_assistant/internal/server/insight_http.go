package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/internal/service"
)

const (
	OperationCreateInsight = "/sales_assistant.v1.Insight/CreateInsight"
	OperationGetSettings   = "/sales_assistant.v1.Insight/GetSettings"
)

// InsightHTTPServer 由 service.InsightService 实现
type InsightHTTPServer interface {
	CreateInsight(context.Context, *service.CreateInsightRequest) (*service.CreateInsightReply, error)
	GetSettings(context.Context, *service.GetSettingsRequest) (*service.GetSettingsReply, error)
}

// RegisterInsightHTTPServer 注册 JSON API 路由
func RegisterInsightHTTPServer(s *http.Server, srv InsightHTTPServer) {
	r := s.Route("/")
	r.POST("/api/v1/insights", createInsightHandler(srv))
	r.GET("/api/v1/settings", getSettingsHandler(srv))
}

func createInsightHandler(srv InsightHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.CreateInsightRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationCreateInsight)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.CreateInsight(ctx, req.(*service.CreateInsightRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*service.CreateInsightReply))
	}
}

func getSettingsHandler(srv InsightHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.GetSettingsRequest
		http.SetOperation(ctx, OperationGetSettings)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetSettings(ctx, req.(*service.GetSettingsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out.(*service.GetSettingsReply))
	}
}
