// Package readable 为搜索结果补全正文：摘要过短时抓取原网页并提取可读文本。
package readable

import (
	"context"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/logger"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search"
)

const (
	// DefaultMinLength 摘要短于该长度时尝试抓取正文
	DefaultMinLength = 500
	// DefaultMaxLength 正文截断长度，防止超出 Token 限制
	DefaultMaxLength = 5000
	defaultTimeout   = 30 * time.Second
)

// FetchFunc 抓取 URL 并返回纯文本
type FetchFunc func(ctx context.Context, url string) (string, error)

// Expander 装饰任意 search.Searcher
type Expander struct {
	inner     search.Searcher
	fetch     FetchFunc
	minLength int
	maxLength int
}

// Option Expander 可选项
type Option func(*Expander)

// WithFetchFunc 替换抓取实现
func WithFetchFunc(f FetchFunc) Option {
	return func(e *Expander) { e.fetch = f }
}

// WithLengths 设置触发长度与截断长度
func WithLengths(minLength, maxLength int) Option {
	return func(e *Expander) {
		e.minLength = minLength
		e.maxLength = maxLength
	}
}

// NewExpander 创建正文补全装饰器
func NewExpander(inner search.Searcher, opts ...Option) *Expander {
	e := &Expander{
		inner:     inner,
		fetch:     FetchReadable,
		minLength: DefaultMinLength,
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ search.Searcher = (*Expander)(nil)

// Search 调用底层搜索后逐条补全；抓取失败时保留原摘要
func (e *Expander) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	resp, err := e.inner.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	for i := range resp.Results {
		item := &resp.Results[i]
		if len(item.Content) >= e.minLength || item.URL == "" {
			continue
		}

		fetched, err := e.fetch(ctx, item.URL)
		if err != nil {
			logger.Log.Debugf("正文抓取失败，使用摘要 [%s]: %v", item.URL, err)
			continue
		}
		if len(fetched) <= len(item.Content) {
			continue
		}
		item.Content = truncate(fetched, e.maxLength)
	}

	return resp, nil
}

// FetchFuncFor 按格式返回抓取实现，未知格式按纯文本处理
func FetchFuncFor(format string) FetchFunc {
	if format == "markdown" {
		return FetchMarkdown
	}
	return FetchReadable
}

// FetchReadable 使用 readability 抓取 URL 并提取核心文本
func FetchReadable(ctx context.Context, url string) (string, error) {
	article, err := readability.FromURL(url, fetchTimeout(ctx))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(article.TextContent), nil
}

// FetchMarkdown 提取正文后转换为 Markdown，保留标题、列表和链接结构
func FetchMarkdown(ctx context.Context, url string) (string, error) {
	article, err := readability.FromURL(url, fetchTimeout(ctx))
	if err != nil {
		return "", err
	}
	return HTMLToMarkdown(article.Content)
}

// HTMLToMarkdown 将 HTML 片段转换为 GFM
func HTMLToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	out, err := converter.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func fetchTimeout(ctx context.Context) time.Duration {
	timeout := defaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// truncate 按字符截断，避免切断多字节字符
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
