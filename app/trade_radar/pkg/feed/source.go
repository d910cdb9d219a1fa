package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

// Source 提供原始 feed 文档
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// DemoSource 内置示例数据
type DemoSource struct{}

func (DemoSource) Fetch(ctx context.Context) ([]byte, error) {
	return []byte(DemoDocument()), nil
}

func (DemoSource) Name() string { return "demo" }

// FileSource 从本地文件读取
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read feed file: %w", err)
	}
	return data, nil
}

func (s FileSource) Name() string { return "file:" + s.Path }

// HTTPSource 通过 HTTP GET 拉取
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource 创建 HTTP 源，timeout 为 0 时默认 30 秒
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed source error (status %d)", res.StatusCode)
	}
	return body, nil
}

func (s *HTTPSource) Name() string { return s.URL }

// Load 拉取并解析
func Load(ctx context.Context, src Source) ([]model.NewsItem, error) {
	doc, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(doc)
}

// NewSource 根据配置选择数据源，kind 为空时使用示例数据
func NewSource(kind, path, url string, timeout time.Duration) (Source, error) {
	switch kind {
	case "", "demo":
		return DemoSource{}, nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("feed path is missing")
		}
		return FileSource{Path: path}, nil
	case "url":
		if url == "" {
			return nil, fmt.Errorf("feed url is missing")
		}
		return NewHTTPSource(url, timeout), nil
	default:
		return nil, fmt.Errorf("unknown feed source: %s", kind)
	}
}
