package factory

import (
	"fmt"
	"time"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/config"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search/readable"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/searxng"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/tavily"
)

// ResolveProvider 返回实际使用的搜索服务。
// 未指定时：有 searxng 地址且无 tavily key 则用 searxng，否则默认 tavily
func ResolveProvider(cfg *config.SearchConfig) string {
	if cfg.Provider != "" {
		return cfg.Provider
	}
	if cfg.Tavily.APIKey == "" && cfg.SearXNG.BaseURL != "" {
		return "searxng"
	}
	return config.DefaultSearchProvider
}

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.SearchConfig) (search.Searcher, error) {
	var s search.Searcher
	switch provider := ResolveProvider(cfg); provider {
	case "tavily":
		if cfg.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		s = tavily.NewClient(cfg.Tavily.APIKey,
			tavily.WithBaseURL(cfg.Tavily.BaseURL),
			tavily.WithTimeout(time.Duration(cfg.Tavily.Timeout)*time.Second),
		)

	case "searxng":
		if cfg.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		s = searxng.NewClient(cfg.SearXNG.BaseURL,
			searxng.WithTimeout(time.Duration(cfg.SearXNG.Timeout)*time.Second),
		)

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}

	if cfg.ExpandSnippets {
		s = readable.NewExpander(s, readable.WithFetchFunc(readable.FetchFuncFor(cfg.ExpandFormat)))
	}
	return s, nil
}
