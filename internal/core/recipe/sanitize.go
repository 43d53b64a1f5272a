package recipe

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```[ \t]*$")
)

// Sanitize 去除最多一個開頭與一個結尾的程式碼圍欄並修剪空白。
// 只做文字清理，不解析 markdown。
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
