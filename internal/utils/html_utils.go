package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MarkClosing 给文本等于 closing 的最后一个段落加上 class="closing"
func MarkClosing(htmlStr template.HTML, closing string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(htmlStr)))
	if err != nil {
		return htmlStr
	}

	doc.Find("p").FilterFunction(func(i int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == closing
	}).Last().AddClass("closing")

	// goquery renders full document tags if missing, we just want the body content
	out, _ := doc.Find("body").Html()
	if out == "" {
		out, _ = doc.Html()
	}

	return template.HTML(out)
}
