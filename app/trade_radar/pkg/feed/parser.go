package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

// ParseError 文档格式错误或结构不符合预期，整次加载失败
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse feed: %s: %v", e.Reason, e.Err)
	}
	return "parse feed: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError 判断错误链中是否包含 ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

type rssDocument struct {
	XMLName xml.Name    `xml:"rss"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

// 使用切片区分“元素缺失”和“元素为空”，重复元素取第一个
type rssItem struct {
	Title       []string `xml:"title"`
	Link        []string `xml:"link"`
	PubDate     []string `xml:"pubDate"`
	Creator     []string `xml:"creator"` // dc:creator，前缀未声明时同样匹配
	Category    []string `xml:"category"`
	Description []string `xml:"description"`
}

// Parse 将 RSS 文档解析为按文档顺序排列的 NewsItem
func Parse(doc []byte) ([]model.NewsItem, error) {
	var rss rssDocument
	d := xml.NewDecoder(bytes.NewReader(doc))
	if err := d.Decode(&rss); err != nil {
		return nil, &ParseError{Reason: "malformed document", Err: err}
	}
	if err := checkTrailing(d); err != nil {
		return nil, err
	}
	if rss.Channel == nil {
		return nil, &ParseError{Reason: "missing channel element"}
	}
	if len(rss.Channel.Items) == 0 {
		return nil, &ParseError{Reason: "channel has no item elements"}
	}

	items := make([]model.NewsItem, 0, len(rss.Channel.Items))
	for i, it := range rss.Channel.Items {
		item, err := it.toNewsItem()
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("item %d", i+1), Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

// checkTrailing 根元素之后只允许空白、注释和处理指令
func checkTrailing(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ParseError{Reason: "malformed document", Err: err}
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return &ParseError{Reason: "unexpected text after root element"}
			}
		default:
			return &ParseError{Reason: "unexpected content after root element"}
		}
	}
}

func (it rssItem) toNewsItem() (model.NewsItem, error) {
	fields := []struct {
		name   string
		values []string
	}{
		{"title", it.Title},
		{"link", it.Link},
		{"pubDate", it.PubDate},
		{"creator", it.Creator},
		{"category", it.Category},
		{"description", it.Description},
	}
	for _, f := range fields {
		if len(f.values) == 0 {
			return model.NewsItem{}, fmt.Errorf("missing %s element", f.name)
		}
	}

	return model.NewsItem{
		Title:       stripCDATA(it.Title[0]),
		Link:        strings.TrimSpace(it.Link[0]),
		PubDate:     strings.TrimSpace(it.PubDate[0]),
		Creator:     stripCDATA(it.Creator[0]),
		Category:    stripCDATA(it.Category[0]),
		Description: stripCDATA(it.Description[0]),
	}, nil
}

// stripCDATA 去掉残留的 CDATA 标记（全部出现位置）
func stripCDATA(s string) string {
	s = strings.ReplaceAll(s, cdataOpen, "")
	return strings.ReplaceAll(s, cdataClose, "")
}
