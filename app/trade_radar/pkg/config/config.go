package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

// 与原版仪表盘一致的默认值
const (
	DefaultProvider    = "openai"
	DefaultModel       = "gpt-4-turbo-preview"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 300
)

// DefaultKeywords 高影响力关键词
var DefaultKeywords = []string{
	"fed",
	"gdp",
	"inflation",
	"employment",
	"interest rate",
	"fomc",
	"cpi",
	"nfp",
	"pmi",
	"retail sales",
	"trade balance",
}

// Config 项目配置结构体，yaml 供命令行加载，json 供 kratos config 扫描
type Config struct {
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Feed        FeedConfig        `yaml:"feed" json:"feed"`
	Scan        ScanConfig        `yaml:"scan" json:"scan"`
	Log         LogConfig         `yaml:"log" json:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Server      ServerConfig      `yaml:"server" json:"server"`
	Notify      NotifyConfig      `yaml:"notify" json:"notify"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider    string  `yaml:"provider" json:"provider"` // openai 或 gemini
	BaseURL     string  `yaml:"base_url" json:"base_url"`
	APIKey      string  `yaml:"api_key" json:"api_key"` // 可选，命令行模式下的默认密钥
	Model       string  `yaml:"model" json:"model"`
	Temperature float32 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
	Timeout     string  `yaml:"timeout" json:"timeout"`
}

// FeedConfig 新闻源配置
type FeedConfig struct {
	Source      string `yaml:"source" json:"source"` // demo / file / url
	Path        string `yaml:"path" json:"path"`
	URL         string `yaml:"url" json:"url"`
	Timeout     string `yaml:"timeout" json:"timeout"`
	RefreshCron string `yaml:"refresh_cron" json:"refresh_cron"`
}

// ScanConfig 批量扫描配置
type ScanConfig struct {
	Keywords []string `yaml:"keywords" json:"keywords"`
	Language string   `yaml:"language" json:"language"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// ConcurrencyConfig 调用节流配置，RPM 为 0 表示不限流
type ConcurrencyConfig struct {
	QPS int `yaml:"qps" json:"qps"`
	RPM int `yaml:"rpm" json:"rpm"`
}

// ServerConfig 仪表盘 HTTP 服务配置
type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http" json:"http"`
}

type HTTPConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

// NotifyConfig 扫描报告邮件配置
type NotifyConfig struct {
	SMTP SMTPConfig `yaml:"smtp" json:"smtp"`
}

type SMTPConfig struct {
	Server string `yaml:"server" json:"server"`
	Port   int    `yaml:"port" json:"port"`
	User   string `yaml:"user" json:"user"`
	Pass   string `yaml:"pass" json:"pass"`
	From   string `yaml:"from" json:"from"`
	To     string `yaml:"to" json:"to"`
}

// Enabled 服务器、用户、密码和收件人都配置后才发送邮件
func (c SMTPConfig) Enabled() bool {
	return c.Server != "" && c.User != "" && c.Pass != "" && c.To != ""
}

// LoadConfig 从指定路径加载配置并补全默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 不读文件时使用的配置
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults 补全未设置的字段
func (c *Config) ApplyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
		if c.LLM.Provider == "gemini" {
			c.LLM.Model = DefaultGeminiModel
		}
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = DefaultTemperature
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.Feed.Source == "" {
		c.Feed.Source = "demo"
	}
	if len(c.Scan.Keywords) == 0 {
		c.Scan.Keywords = append([]string(nil), DefaultKeywords...)
	}
	if c.Scan.Language == "" {
		c.Scan.Language = "en"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.RPM > 0 && c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Server.HTTP.Addr == "" {
		c.Server.HTTP.Addr = "0.0.0.0:8000"
	}
	if c.Server.HTTP.Timeout == "" {
		c.Server.HTTP.Timeout = "120s"
	}
	if c.Notify.SMTP.Port == 0 {
		c.Notify.SMTP.Port = 587
	}
	if c.Notify.SMTP.From == "" {
		c.Notify.SMTP.From = c.Notify.SMTP.User
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm temperature must be within [0, 2]")
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm max_tokens cannot be negative")
	}
	if c.Concurrency.RPM < 0 {
		return fmt.Errorf("concurrency rpm cannot be negative")
	}
	switch c.Feed.Source {
	case "demo":
	case "file":
		if c.Feed.Path == "" {
			return fmt.Errorf("feed path is required for file source")
		}
	case "url":
		if c.Feed.URL == "" {
			return fmt.Errorf("feed url is required for url source")
		}
	default:
		return fmt.Errorf("unknown feed source: %s", c.Feed.Source)
	}
	if _, err := model.ParseLanguage(c.Scan.Language); err != nil {
		return fmt.Errorf("invalid scan.language: %w", err)
	}
	for _, kw := range c.Scan.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("scan keywords cannot contain empty entries")
		}
	}
	for _, d := range []struct{ name, raw string }{
		{"llm.timeout", c.LLM.Timeout},
		{"feed.timeout", c.Feed.Timeout},
		{"server.http.timeout", c.Server.HTTP.Timeout},
	} {
		if _, err := ParseDuration(d.raw); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}
	return nil
}

// ParseDuration 空字符串返回 0
func ParseDuration(raw string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}
