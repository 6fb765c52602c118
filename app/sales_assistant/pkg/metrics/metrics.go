package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sales_assistant"

// 流水线阶段
const (
	StageSearch   = "search"
	StageAssemble = "assemble"
	StageGenerate = "generate"
)

// 提交结果
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeSearch     = "search_unavailable"
	OutcomeTemplate   = "template_error"
	OutcomeGeneration = "generation_unavailable"
	OutcomeBusy       = "busy"
)

// Recorder 记录流水线指标；nil Recorder 的方法均为空操作
type Recorder struct {
	submissions *prometheus.CounterVec
	stages      *prometheus.HistogramVec
	inFlight    prometheus.Gauge
}

// NewRecorder 创建并注册指标
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Insight submissions by outcome.",
		}, []string{"outcome"}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.25, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "submissions_in_flight",
			Help:      "1 while a submission is being processed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.submissions, r.stages, r.inFlight)
	}
	return r
}

// ObserveStage 记录阶段耗时
func (r *Recorder) ObserveStage(stage string, start time.Time) {
	if r == nil {
		return
	}
	r.stages.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// CountSubmission 记录一次提交结果
func (r *Recorder) CountSubmission(outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(outcome).Inc()
}

// SetInFlight 标记是否有进行中的提交
func (r *Recorder) SetInFlight(busy bool) {
	if r == nil {
		return
	}
	if busy {
		r.inFlight.Set(1)
		return
	}
	r.inFlight.Set(0)
}
