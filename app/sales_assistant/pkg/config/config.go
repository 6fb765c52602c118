package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 生成参数的取值范围，与侧边栏控件一致
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0
	MinMaxTokens   = 100
	MaxMaxTokens   = 3000
)

// 默认值
const (
	DefaultLLMBaseURL     = "https://api.groq.com/openai/v1"
	DefaultLLMModel       = "llama-3.3-70b-versatile"
	DefaultTemperature    = 0.5
	DefaultMaxTokens      = 1500
	DefaultMaxResults     = 2
	DefaultHTTPAddr       = "0.0.0.0:8000"
	DefaultRequestTimeout = "120s"
	DefaultSearchProvider = "tavily"
	DefaultExpandFormat   = "text"

	defaultLLMTimeout    = 60
	defaultSearchTimeout = 30
)

// Config 项目配置结构体
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Search     SearchConfig     `yaml:"search"`
	Generation GenerationConfig `yaml:"generation"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig 监听地址与请求超时
type HTTPConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LLMConfig LLM 相关配置，兼容任意 OpenAI 协议的服务
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout"` // 秒
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider       string        `yaml:"provider"`
	MaxResults     int           `yaml:"max_results"`
	ExpandSnippets bool          `yaml:"expand_snippets"`
	ExpandFormat   string        `yaml:"expand_format"` // text | markdown
	Tavily         TavilyConfig  `yaml:"tavily"`
	SearXNG        SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// GenerationConfig 生成参数默认值，每次提交可覆盖
type GenerationConfig struct {
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LoadConfig 从指定路径加载配置；path 为空时只使用默认值和环境变量
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config yaml: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv 凭据优先从环境变量读取
func (c *Config) applyEnv(getenv func(string) string) {
	for _, key := range []string{"LLM_API_KEY", "GROQ_API_KEY"} {
		if v := getenv(key); v != "" {
			c.LLM.APIKey = v
			break
		}
	}
	if v := getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := getenv("TAVILY_API_KEY"); v != "" {
		c.Search.Tavily.APIKey = v
	}
	if v := getenv("SEARXNG_BASE_URL"); v != "" {
		c.Search.SearXNG.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTP.Addr == "" {
		c.Server.HTTP.Addr = DefaultHTTPAddr
	}
	if c.Server.HTTP.Timeout == "" {
		c.Server.HTTP.Timeout = DefaultRequestTimeout
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultLLMBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultLLMModel
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = defaultLLMTimeout
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = DefaultMaxResults
	}
	if c.Search.ExpandFormat == "" {
		c.Search.ExpandFormat = DefaultExpandFormat
	}
	if c.Search.Tavily.Timeout == 0 {
		c.Search.Tavily.Timeout = defaultSearchTimeout
	}
	if c.Search.SearXNG.Timeout == 0 {
		c.Search.SearXNG.Timeout = defaultSearchTimeout
	}
	// 温度 0 是合法取值，只在 max_tokens 也未配置时视为整段缺省
	if c.Generation.MaxTokens == 0 {
		c.Generation.MaxTokens = DefaultMaxTokens
		if c.Generation.Temperature == 0 {
			c.Generation.Temperature = DefaultTemperature
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if c.Generation.Temperature < MinTemperature || c.Generation.Temperature > MaxTemperature {
		return fmt.Errorf("config error: 'generation.temperature' must be within [%.1f, %.1f]", MinTemperature, MaxTemperature)
	}
	if c.Generation.MaxTokens < MinMaxTokens || c.Generation.MaxTokens > MaxMaxTokens {
		return fmt.Errorf("config error: 'generation.max_tokens' must be within [%d, %d]", MinMaxTokens, MaxMaxTokens)
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("config error: 'search.max_results' must be non-negative")
	}
	if f := c.Search.ExpandFormat; f != "text" && f != "markdown" {
		return fmt.Errorf("config error: 'search.expand_format' must be text or markdown, got %q", f)
	}
	if _, err := time.ParseDuration(c.Server.HTTP.Timeout); err != nil {
		return fmt.Errorf("config error: 'server.http.timeout': %w", err)
	}
	return nil
}

// RequestTimeout 返回 LLM 请求超时
func (c *LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
