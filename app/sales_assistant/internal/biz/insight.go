package biz

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/generation"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/metrics"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/prompt"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search"
)

// State 分析器状态
type State int32

const (
	StateIdle State = iota
	StateProcessing
)

func (s State) String() string {
	if s == StateProcessing {
		return "processing"
	}
	return "idle"
}

// Report 一次提交的分析结果，不做持久化
type Report struct {
	SubmissionID uuid.UUID
	Content      string
	Sources      []search.Result
}

// Analyzer 串行执行 搜索 -> 组装提示词 -> 生成
type Analyzer struct {
	searcher   search.Searcher
	generator  generation.Generator
	metrics    *metrics.Recorder
	maxResults int
	state      atomic.Int32
	logger     log.Logger
}

// NewAnalyzer 创建分析器；maxResults 为搜索结果条数上限
func NewAnalyzer(s search.Searcher, g generation.Generator, m *metrics.Recorder, maxResults int, logger log.Logger) *Analyzer {
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &Analyzer{
		searcher:   s,
		generator:  g,
		metrics:    m,
		maxResults: maxResults,
		logger:     logger,
	}
}

// State 返回当前状态
func (a *Analyzer) State() State {
	return State(a.state.Load())
}

// MaxResults 搜索结果条数上限
func (a *Analyzer) MaxResults() int {
	return a.maxResults
}

// Analyze 处理一次提交。任一环节失败即终止，不重试，不返回部分结果
func (a *Analyzer) Analyze(ctx context.Context, rec InputRecord, settings generation.Settings) (*Report, error) {
	rec = rec.Normalize()
	if err := rec.Validate(); err != nil {
		a.metrics.CountSubmission(metrics.OutcomeValidation)
		return nil, err
	}
	if err := ValidateSettings(settings); err != nil {
		a.metrics.CountSubmission(metrics.OutcomeValidation)
		return nil, err
	}

	if !a.state.CompareAndSwap(int32(StateIdle), int32(StateProcessing)) {
		a.metrics.CountSubmission(metrics.OutcomeBusy)
		return nil, ErrAnalysisInProgress
	}
	a.metrics.SetInFlight(true)
	defer func() {
		a.state.Store(int32(StateIdle))
		a.metrics.SetInFlight(false)
	}()

	id := uuid.New()
	l := log.NewHelper(log.With(a.logger, "submission_id", id.String()))
	l.Infof("开始分析: product=%s company=%s", rec.ProductName, rec.CompanyURL)

	// 1. 搜索公司信息
	start := time.Now()
	resp, err := a.searcher.Search(ctx, &search.Request{
		Query:      rec.CompanyURL,
		Topic:      "general",
		MaxResults: a.maxResults,
	})
	a.metrics.ObserveStage(metrics.StageSearch, start)
	if err != nil {
		l.Errorf("搜索失败: %v", err)
		a.metrics.CountSubmission(metrics.OutcomeSearch)
		return nil, ErrSearchUnavailable.WithCause(err)
	}
	results := resp.Limit(a.maxResults)
	l.Infof("搜索完成，获得 %d 条结果", len(results))

	// 2. 组装提示词
	start = time.Now()
	text, err := prompt.Assemble(rec.PromptData(results))
	a.metrics.ObserveStage(metrics.StageAssemble, start)
	if err != nil {
		l.Errorf("提示词组装失败: %v", err)
		a.metrics.CountSubmission(metrics.OutcomeTemplate)
		return nil, ErrTemplateSubstitution.WithCause(err)
	}

	// 3. 调用模型
	start = time.Now()
	content, err := a.generator.Generate(ctx, text, settings)
	a.metrics.ObserveStage(metrics.StageGenerate, start)
	if err != nil {
		l.Errorf("生成失败: %v", err)
		a.metrics.CountSubmission(metrics.OutcomeGeneration)
		return nil, ErrGenerationUnavailable.WithCause(err)
	}

	l.Infof("分析完成，报告长度 %d", len(content))
	a.metrics.CountSubmission(metrics.OutcomeSuccess)
	return &Report{
		SubmissionID: id,
		Content:      content,
		Sources:      results,
	}, nil
}
