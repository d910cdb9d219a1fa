package domain

import (
	"errors"
	"time"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/engine"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

// 面向用户的提示语
const (
	MsgLoadFailed     = "Failed to load demo data"
	MsgMissingAPIKey  = "Please configure your OpenAI API key first"
	MsgAnalyzeFailed  = "Failed to analyze news item. Please check your API key."
	MsgScanFailed     = "Failed to scan news items. Please check your API key."
	MsgNoHighImpact   = "No high-impact news found in the current feed."
	MsgScanInProgress = "A scan is already in progress."
	MsgUnknownItem    = "News item not found."
	MsgArticleFailed  = "Failed to load the full article."
)

// ErrorKind 错误类别，服务层据此映射 HTTP 状态
type ErrorKind string

const (
	KindInvalidInput  ErrorKind = "INVALID_INPUT"
	KindMissingConfig ErrorKind = "MISSING_CONFIGURATION"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindBusy          ErrorKind = "SCAN_IN_PROGRESS"
	KindLoadFailed    ErrorKind = "FEED_LOAD_FAILED"
	KindUpstream      ErrorKind = "UPSTREAM_FAILED"
)

// Error 会话错误，Message 可直接展示给用户
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// AsError 取出会话错误
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// State 会话快照
type State struct {
	SessionID    string                           `json:"session_id"`
	FeedSource   string                           `json:"feed_source"`
	LoadedAt     time.Time                        `json:"loaded_at"`
	Items        []model.NewsItem                 `json:"items"`
	Results      map[string]*model.AnalysisResult `json:"results"`
	Language     model.Language                   `json:"language"`
	Languages    []model.Language                 `json:"languages"`
	HasAPIKey    bool                             `json:"has_api_key"`
	KeyUpdatedAt *time.Time                       `json:"key_updated_at,omitempty"`
	Scanning     bool                             `json:"scanning"`
	Progress     int                              `json:"progress"`
	Notice       string                           `json:"notice,omitempty"`
	LastScan     *engine.ScanReport               `json:"last_scan,omitempty"`
	Keywords     []string                         `json:"keywords"`
}
