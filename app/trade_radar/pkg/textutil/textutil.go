// Package textutil 把新闻描述里的 HTML 片段转成纯文本
package textutil

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockTags = map[string]bool{
	"p": true, "div": true, "ul": true, "ol": true, "li": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "table": true, "tr": true,
}

// PlainLines 返回去掉标签后的非空文本行，列表项以 "• " 开头
func PlainLines(markup string) []string {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return splitLines(markup)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if blockTags[n.Data] {
				sb.WriteString("\n")
			}
			if n.Data == "li" {
				sb.WriteString("• ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			sb.WriteString("\n")
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return splitLines(sb.String())
}

// PlainText 纯文本，行之间用换行连接
func PlainText(markup string) string {
	return strings.Join(PlainLines(markup), "\n")
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" && line != "•" {
			lines = append(lines, line)
		}
	}
	return lines
}
