// Package analysis 调用外部大模型接口，对单条提示词返回第一条补全文本。
// 每次调用都发起一次网络请求，不缓存、不去重、不重试。
package analysis

import (
	"context"
	"fmt"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
)

// Client 大模型补全客户端，密钥由调用方每次传入
type Client interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// NewClient 根据配置创建客户端
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg), nil
	case "gemini":
		return NewGeminiClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
