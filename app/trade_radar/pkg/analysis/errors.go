package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey 未配置密钥，调用前即失败
var ErrMissingAPIKey = errors.New("api key is not configured")

// ErrEmptyCompletion 模型返回了空内容
var ErrEmptyCompletion = errors.New("empty completion")

// AuthenticationError 密钥无效或被拒绝
type AuthenticationError struct {
	Provider string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Provider, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// TransportError 网络错误、限流、服务端错误等其他调用失败
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAuthenticationError 判断是否为认证失败
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsTransportError 判断是否为传输失败
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

var authMarkers = []string{
	"status code: 401",
	"status code: 403",
	"error 401",
	"error 403",
	"unauthorized",
	"invalid_api_key",
	"incorrect api key",
	"api key not valid",
	"unauthenticated",
	"permission_denied",
}

// classify 按错误信息归类，SDK 错误类型不统一，只能匹配文本
func classify(provider string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Provider: provider, Err: err}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range authMarkers {
		if strings.Contains(msg, marker) {
			return &AuthenticationError{Provider: provider, Err: err}
		}
	}
	return &TransportError{Provider: provider, Err: err}
}
