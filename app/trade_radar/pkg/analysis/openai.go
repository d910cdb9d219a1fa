package analysis

import (
	"context"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
)

// ModelFactory 按密钥创建 eino ChatModel
type ModelFactory func(ctx context.Context, apiKey string) (model.BaseChatModel, error)

type chatModelClient struct {
	provider string
	newModel ModelFactory
}

// NewOpenAIClient 使用 eino-ext 的 OpenAI ChatModel，兼容 OpenAI 协议的服务可通过 BaseURL 接入
func NewOpenAIClient(cfg config.LLMConfig) Client {
	timeout, _ := config.ParseDuration(cfg.Timeout)
	temperature := cfg.Temperature
	maxTokens := cfg.MaxTokens

	return NewChatModelClient("openai", func(ctx context.Context, apiKey string) (model.BaseChatModel, error) {
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      apiKey,
			Model:       cfg.Model,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
			Timeout:     timeout,
		})
	})
}

// NewChatModelClient 用任意 eino ChatModel 构造客户端
func NewChatModelClient(provider string, factory ModelFactory) Client {
	return &chatModelClient{provider: provider, newModel: factory}
}

func (c *chatModelClient) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", ErrMissingAPIKey
	}

	cm, err := c.newModel(ctx, apiKey)
	if err != nil {
		return "", &TransportError{Provider: c.provider, Err: err}
	}

	resp, err := cm.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", classify(c.provider, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", &TransportError{Provider: c.provider, Err: ErrEmptyCompletion}
	}
	return resp.Content, nil
}
