package service

import (
	"context"
	"net/url"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/internal/biz"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/config"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/generation"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search"
)

// CreateInsightRequest 表单字段加侧边栏参数；参数缺省时使用配置默认值
type CreateInsightRequest struct {
	biz.InputRecord
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// CreateInsightReply 分析结果
type CreateInsightReply struct {
	SubmissionID string          `json:"submission_id"`
	Report       string          `json:"report"`
	Sources      []search.Result `json:"sources"`
}

// GetSettingsRequest 无参数
type GetSettingsRequest struct{}

// GetSettingsReply 侧边栏默认值、取值范围与当前状态
type GetSettingsReply struct {
	Temperature    float32 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	MinTemperature float32 `json:"min_temperature"`
	MaxTemperature float32 `json:"max_temperature"`
	MinMaxTokens   int     `json:"min_max_tokens"`
	MaxMaxTokens   int     `json:"max_max_tokens"`
	MaxResults     int     `json:"max_results"`
	State          string  `json:"state"`
}

// InsightService 对外 API
type InsightService struct {
	analyzer *biz.Analyzer
	defaults generation.Settings
	log      *log.Helper
}

// NewInsightService 创建服务
func NewInsightService(analyzer *biz.Analyzer, defaults generation.Settings, logger log.Logger) *InsightService {
	return &InsightService{
		analyzer: analyzer,
		defaults: defaults,
		log:      log.NewHelper(logger),
	}
}

// Settings 合并请求参数与默认值，每次提交单独计算
func (s *InsightService) Settings(req *CreateInsightRequest) generation.Settings {
	st := s.defaults
	if req.Temperature != nil {
		st.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		st.MaxOutputTokens = *req.MaxTokens
	}
	return st
}

// CreateInsight 生成一份公司洞察报告
func (s *InsightService) CreateInsight(ctx context.Context, req *CreateInsightRequest) (*CreateInsightReply, error) {
	settings := s.Settings(req)
	report, err := s.analyzer.Analyze(ctx, req.InputRecord, settings)
	if err != nil {
		s.log.WithContext(ctx).Warnf("提交失败: company=%s err=%v", req.CompanyURL, err)
		return nil, err
	}
	s.log.WithContext(ctx).Infof("提交完成: submission_id=%s temperature=%.2f max_tokens=%d sources=%d",
		report.SubmissionID, settings.Temperature, settings.MaxOutputTokens, len(report.Sources))

	return &CreateInsightReply{
		SubmissionID: report.SubmissionID.String(),
		Report:       report.Content,
		Sources:      linkableSources(report.Sources),
	}, nil
}

// linkableSources 页面会把 URL 渲染为链接，只保留 http(s) 地址
func linkableSources(results []search.Result) []search.Result {
	out := make([]search.Result, 0, len(results))
	for _, r := range results {
		u, err := url.Parse(r.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			r.URL = ""
		}
		out = append(out, r)
	}
	return out
}

// GetSettings 返回侧边栏配置
func (s *InsightService) GetSettings(ctx context.Context, _ *GetSettingsRequest) (*GetSettingsReply, error) {
	return &GetSettingsReply{
		Temperature:    s.defaults.Temperature,
		MaxTokens:      s.defaults.MaxOutputTokens,
		MinTemperature: config.MinTemperature,
		MaxTemperature: config.MaxTemperature,
		MinMaxTokens:   config.MinMaxTokens,
		MaxMaxTokens:   config.MaxMaxTokens,
		MaxResults:     s.analyzer.MaxResults(),
		State:          s.analyzer.State().String(),
	}, nil
}
