package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderWorkSentenceRule(t *testing.T) {
	out := string(RenderWork(false, []string{"床前明月光", "疑是地上霜"}, "（全文完）"))

	assert.Contains(t, out, "床前明月光<br")
	assert.Contains(t, out, "疑是地上霜")
	assert.Contains(t, out, `<p class="closing">（全文完）</p>`)
}

func TestRenderWorkCharacterRule(t *testing.T) {
	out := string(RenderWork(true, []string{"春", "眠", "不", "觉", "晓"}, ""))

	assert.Equal(t, "<p>春眠不觉晓</p>", strings.TrimSpace(out))
}

func TestRenderWorkSanitizes(t *testing.T) {
	out := string(RenderWork(false, []string{`<script>alert(1)</script>`, `<a href="javascript:x()">x</a>`}, ""))

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<a")
}

func TestRenderWorkKeepsContributionsPlain(t *testing.T) {
	contents := []string{"# 标题", "- 列表", "1. 一", "---", "    缩进", "**粗体**", "[链接](http://x.com)"}
	out := string(RenderWork(false, contents, "（全文完）"))

	for _, tag := range []string{"<h1", "<ul", "<ol", "<hr", "<pre", "<strong", "<a"} {
		assert.NotContains(t, out, tag)
	}
	assert.Contains(t, out, "# 标题")
	assert.Contains(t, out, "**粗体**")
	assert.Contains(t, out, `<p class="closing">（全文完）</p>`)
}

func TestRenderWorkCharacterRulePunctuation(t *testing.T) {
	out := string(RenderWork(true, []string{"*", "春", "*"}, ""))

	assert.Equal(t, "<p>*春*</p>", strings.TrimSpace(out))
}
