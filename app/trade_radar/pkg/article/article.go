// Package article 抓取新闻原文并提取正文
package article

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// DefaultMaxLength 正文最大字符数
const DefaultMaxLength = 5000

// Article 提取后的正文
type Article struct {
	Link      string `json:"link"`
	Title     string `json:"title"`
	Byline    string `json:"byline"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

// Fetcher 正文抓取器
type Fetcher struct {
	client    *http.Client
	maxLength int
}

// NewFetcher timeout 为 0 时使用 30 秒，maxLength 为 0 时使用默认值
func NewFetcher(timeout time.Duration, maxLength int) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		maxLength: maxLength,
	}
}

// Fetch 下载链接并用 readability 提取正文
func (f *Fetcher) Fetch(ctx context.Context, link string) (*Article, error) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid article link %q", link)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; trade_radar/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch article: unexpected status %d", resp.StatusCode)
	}

	parsed, err := readability.FromReader(resp.Body, u)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}

	content := strings.TrimSpace(parsed.TextContent)
	truncated := false
	if runes := []rune(content); len(runes) > f.maxLength {
		content = string(runes[:f.maxLength])
		truncated = true
	}

	return &Article{
		Link:      link,
		Title:     parsed.Title,
		Byline:    parsed.Byline,
		Excerpt:   parsed.Excerpt,
		Content:   content,
		Truncated: truncated,
	}, nil
}
