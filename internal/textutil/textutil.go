// Package textutil 文本处理辅助：制表符展开、实体规范化、输入卫生
package textutil

import (
	"strings"
)

// StripControl 移除输入中的原始 \x02 字节
//
// 占位符、代码块标记和 HTML 暂存 token 都以 \x02 定界，
// 先剥掉用户文本里的同名字节，任何输入都无法伪造内部标记。
func StripControl(s string) string {
	return strings.ReplaceAll(s, "\x02", "")
}

// Detab 把制表符展开为空格，按 tabWidth 对齐到下一个制表位
//
// 逐行处理，列计数在换行处归零。
func Detab(s string, tabWidth int) string {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	if !strings.Contains(s, "\t") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			pad := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

var entityDecoder = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#64;", "@",
	"&amp;", "&",
)

// DecodeEntities 把上游预转义阶段产生的 HTML 实体还原为字面字符
//
// 只认预转义会产生的那几个实体。Replacer 单遍扫描，
// &amp;lt; 这类双重编码只会被解一层，不会解两次。
func DecodeEntities(s string) string {
	return entityDecoder.Replace(s)
}

var entityEncoder = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EncodeEntities 把字面 & < > 编码为实体，用于 <pre><code> 的内容
func EncodeEntities(s string) string {
	return entityEncoder.Replace(s)
}
