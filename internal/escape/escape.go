// Package escape 维护字面 Markdown 标点与占位符之间的转义表
//
// 渲染管道的多个阶段依赖同一张表：代码段先把内容换成占位符，
// 后续的强调/删除线/自动链接等规则就不会再碰到这些字符，
// 最终输出前统一还原。表在进程内只构建一次，之后只读。
package escape

import (
	"fmt"
	"strings"
	"sync"
)

// delim 占位符定界符，渲染入口会先剥掉输入中的原始 \x02，
// 因此普通文本不可能伪造出占位符。
const delim = "\x02"

// protected 受保护的字面字符，反斜杠必须排在最前面。
// 最后一项是 HTML 实体 &lt;：代码段里解出来的 < 以实体形式保留，
// 转义后自动链接阶段（匹配 &lt;url&gt;）不会再命中它。
var protected = []string{
	`\`, "`", "*", "_", "{", "}", "[", "]", "(", ")",
	">", "#", "+", "-", ".", "!", "~", "&lt;",
}

// Table 字符 → 占位符的双向映射，构建后不可变
type Table struct {
	toPlaceholder map[string]string
	escaper       *strings.Replacer
	unescaper     *strings.Replacer
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default 返回进程级转义表（单例）
func Default() *Table {
	defaultTableOnce.Do(func() {
		defaultTable = newTable()
	})
	return defaultTable
}

func newTable() *Table {
	t := &Table{
		toPlaceholder: make(map[string]string, len(protected)),
	}

	escPairs := make([]string, 0, len(protected)*2)
	unescPairs := make([]string, 0, len(protected)*2)
	for i, ch := range protected {
		// 固定长度占位符：\x02E<nn>\x02
		ph := fmt.Sprintf("%sE%02d%s", delim, i, delim)
		t.toPlaceholder[ch] = ph
		escPairs = append(escPairs, ch, ph)
		unescPairs = append(unescPairs, ph, ch)
	}
	t.escaper = strings.NewReplacer(escPairs...)
	t.unescaper = strings.NewReplacer(unescPairs...)
	return t
}

// Escape 返回单个受保护字符的占位符；未登记的字符原样返回
func (t *Table) Escape(ch string) string {
	if ph, ok := t.toPlaceholder[ch]; ok {
		return ph
	}
	return ch
}

// EscapeAll 把 s 中出现的所有受保护字符替换为占位符
//
// 代码段和代码块内容经过这一步之后，对后续所有正则阶段都是不可见的。
func (t *Table) EscapeAll(s string) string {
	return t.escaper.Replace(s)
}

// EscapeBackslashed 把反斜杠转义的字面标点换成占位符
//
// 表序首位是反斜杠自身，\\ 先于其它组合处理。
func (t *Table) EscapeBackslashed(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	for _, ch := range protected {
		if len(ch) != 1 {
			continue
		}
		s = strings.ReplaceAll(s, `\`+ch, t.toPlaceholder[ch])
	}
	return s
}

// Unescape 把所有占位符还原为原始字符，作为渲染的最后一步调用
func (t *Table) Unescape(s string) string {
	return t.unescaper.Replace(s)
}
