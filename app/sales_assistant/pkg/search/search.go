package search

import "context"

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query      string
	Topic      string // "news" or "general"
	MaxResults int
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果，Content 即摘要片段
type Result struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
}

// Limit 返回最多 n 条结果；n <= 0 表示不限制
func (r *Response) Limit(n int) []Result {
	if r == nil {
		return nil
	}
	if n <= 0 || len(r.Results) <= n {
		return r.Results
	}
	return r.Results[:n]
}
