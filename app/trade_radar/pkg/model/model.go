package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NewsItem 单条新闻，解析后不可变
type NewsItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"` // 唯一标识，分析结果以此为键
	PubDate     string `json:"pub_date"`
	Creator     string `json:"creator"`
	Category    string `json:"category"`
	Description string `json:"description"` // 可能包含 HTML 片段
}

// PublishedAt 宽松解析 PubDate，解析失败返回零值
func (n NewsItem) PublishedAt() time.Time {
	t, err := dateparse.ParseAny(strings.TrimSpace(n.PubDate))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AnalysisResult 分析结果，以 NewsItem.Link 为键保存在会话内存中
type AnalysisResult struct {
	Link       string    `json:"link"`
	Text       string    `json:"text"`
	Language   Language  `json:"language"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// APIKeyConfig 用户提供的密钥，只保存在进程内存中
type APIKeyConfig struct {
	Key         string
	LastUpdated time.Time
}

// Language 提示词语言
type Language string

const (
	LanguageEN Language = "en"
	LanguageFR Language = "fr"
)

// Languages 支持的语言列表
var Languages = []Language{LanguageEN, LanguageFR}

// ParseLanguage 只接受 en / fr
func ParseLanguage(code string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(code))) {
	case LanguageEN:
		return LanguageEN, nil
	case LanguageFR:
		return LanguageFR, nil
	default:
		return "", fmt.Errorf("unsupported language %q", code)
	}
}

// Label 语言的显示名称
func (l Language) Label() string {
	switch l {
	case LanguageFR:
		return "Français"
	default:
		return "English"
	}
}
