package utils

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

func init() {
	// 接龙内容是纯文本，不需要图片和外链
	policy.RequireNoReferrerOnLinks(true)
}

func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source)) // Fallback
	}

	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

const markdownPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// escapeMarkdown 转义 ASCII 标点并去掉行首缩进，接龙内容只按纯文本渲染
func escapeMarkdown(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	lineStart := true
	for _, r := range s {
		if lineStart && (r == ' ' || r == '\t') {
			continue
		}
		lineStart = r == '\n'
		if r < 0x80 && strings.ContainsRune(markdownPunct, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// RenderWork 拼接作品全文：按句接龙每条一行，按字接龙直接连成一段；
// closing 不为空时作为单独一段追加在末尾并打上标记
func RenderWork(characterRule bool, contents []string, closing string) template.HTML {
	escaped := make([]string, len(contents))
	for i, c := range contents {
		escaped[i] = escapeMarkdown(c)
	}

	var sb strings.Builder
	if characterRule {
		sb.WriteString(strings.Join(escaped, ""))
	} else {
		sb.WriteString(strings.Join(escaped, "\n"))
	}
	if closing != "" {
		sb.WriteString("\n\n")
		sb.WriteString(closing)
	}

	rendered := RenderMarkdown(sb.String())
	if closing == "" {
		return rendered
	}
	return MarkClosing(rendered, closing)
}
