package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup 去掉所有 HTML 标签并还原实体，合并连续空白后 trim。
// 还原实体后可能出现新的标签（如 "&lt;b&gt;"），因此反复处理直到结果不再变化，
// 保证 StripMarkup(StripMarkup(s)) == StripMarkup(s)。
// 注意裸露的 "<" 后接字母会被当作标签开头，其后内容一并丢弃。
func StripMarkup(s string) string {
	out := normalize(s)
	// 每轮至少消耗一层实体或一个标签，嵌套层数不超过输入长度
	for i := 0; i <= len(s); i++ {
		next := normalize(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func normalize(s string) string {
	text := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}
