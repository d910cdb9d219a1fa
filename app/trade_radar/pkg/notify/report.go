// Package notify 渲染扫描报告并通过邮件发送
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/textutil"
)

// Entry 报告中的一条新闻及其分析
type Entry struct {
	Item     model.NewsItem
	Lines    []string
	Analysis *model.AnalysisResult
}

// Report 报告数据
type Report struct {
	ID        string
	Generated time.Time
	Language  model.Language
	Entries   []Entry
}

// NewReport 按新闻顺序组装报告，没有分析结果的新闻会被跳过
func NewReport(id string, lang model.Language, items []model.NewsItem, results map[string]*model.AnalysisResult) *Report {
	r := &Report{ID: id, Generated: time.Now(), Language: lang}
	for _, item := range items {
		res, ok := results[item.Link]
		if !ok {
			continue
		}
		r.Entries = append(r.Entries, Entry{
			Item:     item,
			Lines:    textutil.PlainLines(item.Description),
			Analysis: res,
		})
	}
	return r
}

// RenderedMessage 渲染结果
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// Renderer HTML 报告渲染器，同时生成纯文本版本
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer 使用默认模板
func NewRenderer() *Renderer {
	t := template.Must(template.New("report").Funcs(template.FuncMap{
		"date": func(t time.Time) string { return t.Format("02 Jan 2006 15:04") },
	}).Parse(reportHTMLTemplate))
	return &Renderer{tmpl: t}
}

// Render 渲染报告
func (r *Renderer) Render(report *Report) (*RenderedMessage, error) {
	subject := fmt.Sprintf("Trade Radar: %d high-impact analyses (%s)", len(report.Entries), report.Generated.Format(time.DateOnly))

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    RenderPlainText(report),
		HTML:    buf.String(),
	}, nil
}

// RenderPlainText 纯文本报告，命令行和邮件共用
func RenderPlainText(report *Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TRADE RADAR REPORT (%s)\n", report.Language.Label())
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	if len(report.Entries) == 0 {
		sb.WriteString("No analyses.\n")
		return sb.String()
	}

	for i, e := range report.Entries {
		fmt.Fprintf(&sb, "#%d %s\n", i+1, e.Item.Title)
		fmt.Fprintf(&sb, "Date: %s\n", e.Item.PubDate)
		fmt.Fprintf(&sb, "Category: %s\n", e.Item.Category)
		fmt.Fprintf(&sb, "URL: %s\n", e.Item.Link)
		for _, line := range e.Lines {
			sb.WriteString("  " + line + "\n")
		}
		if e.Analysis != nil {
			sb.WriteString("ANALYSIS\n")
			sb.WriteString(strings.Repeat("-", 20) + "\n")
			sb.WriteString(strings.TrimSpace(e.Analysis.Text) + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
