package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/config"
)

// ErrEmptyResponse 模型返回内容为空，视为响应格式错误
var ErrEmptyResponse = errors.New("chat model returned empty content")

// Settings 单次提交的生成参数，按值传递
type Settings struct {
	Temperature     float32 `json:"temperature" validate:"gte=0,lte=1"`
	MaxOutputTokens int     `json:"max_output_tokens" validate:"min=100,max=3000"`
}

// DefaultSettings 从配置读取侧边栏默认值
func DefaultSettings(cfg *config.GenerationConfig) Settings {
	return Settings{
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxTokens,
	}
}

// Generator 文本生成接口
type Generator interface {
	Generate(ctx context.Context, prompt string, s Settings) (string, error)
}

// ChatGenerator 基于 eino ChatModel 的实现，prompt 以 system 消息发送
type ChatGenerator struct {
	cm model.BaseChatModel
}

var _ Generator = (*ChatGenerator)(nil)

// NewChatGenerator 初始化兼容 OpenAI 协议的 ChatModel
func NewChatGenerator(ctx context.Context, cfg *config.LLMConfig) (*ChatGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is missing")
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.RequestTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	return NewChatGeneratorWithModel(cm), nil
}

// NewChatGeneratorWithModel 使用已有的 ChatModel
func NewChatGeneratorWithModel(cm model.BaseChatModel) *ChatGenerator {
	return &ChatGenerator{cm: cm}
}

// Generate 单次调用模型，不做重试
func (g *ChatGenerator) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(prompt),
	}

	resp, err := g.cm.Generate(ctx, messages,
		model.WithTemperature(s.Temperature),
		model.WithMaxTokens(s.MaxOutputTokens),
	)
	if err != nil {
		return "", fmt.Errorf("chat model generate: %w", err)
	}

	return ExtractText(resp)
}

// ExtractText 把模型消息规整为纯文本
func ExtractText(msg *schema.Message) (string, error) {
	if msg == nil {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
