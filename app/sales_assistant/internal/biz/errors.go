package biz

import (
	"github.com/go-kratos/kratos/v2/errors"
)

// 错误原因，对外稳定
const (
	ReasonValidation         = "VALIDATION_ERROR"
	ReasonSearchUnavailable  = "SEARCH_UNAVAILABLE"
	ReasonGenerationFailed   = "GENERATION_UNAVAILABLE"
	ReasonTemplate           = "TEMPLATE_SUBSTITUTION"
	ReasonAnalysisInProgress = "ANALYSIS_IN_PROGRESS"
)

var (
	// ErrValidation 必填字段缺失或生成参数越界
	ErrValidation = errors.BadRequest(ReasonValidation, "invalid input")
	// ErrSearchUnavailable 搜索服务不可用
	ErrSearchUnavailable = errors.ServiceUnavailable(ReasonSearchUnavailable, "search service unavailable")
	// ErrGenerationUnavailable 模型服务不可用或返回内容无法解析
	ErrGenerationUnavailable = errors.ServiceUnavailable(ReasonGenerationFailed, "generation service unavailable")
	// ErrTemplateSubstitution 提示词模板渲染失败
	ErrTemplateSubstitution = errors.InternalServer(ReasonTemplate, "prompt template substitution failed")
	// ErrAnalysisInProgress 已有分析在进行中
	ErrAnalysisInProgress = errors.Conflict(ReasonAnalysisInProgress, "an analysis is already in progress")
)

func validationError(msg string) *errors.Error {
	return errors.BadRequest(ReasonValidation, msg)
}
