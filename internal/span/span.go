// Package span 行内变换管道
//
// 对每个叶子块按固定顺序执行：代码段 → 标签内转义 → 反斜杠转义 →
// 链接 → 删除线 → 自动链接 → 实体编码 → 强调 → 换行。顺序是承重
// 结构：代码段必须先变成占位符，后面的规则才碰不到它；实体编码
// 必须在锚点生成之后，否则会把生成的标签编码掉。
package span

import (
	"regexp"
	"strings"

	"github.com/riverfjs/mdhtml-go/internal/escape"
	"github.com/riverfjs/mdhtml-go/internal/link"
)

// Transformer 行内变换器，绑定单次渲染的链接解析器
type Transformer struct {
	esc   *escape.Table
	links *link.Resolver
}

// New 创建行内变换器
func New(esc *escape.Table, links *link.Resolver) *Transformer {
	return &Transformer{esc: esc, links: links}
}

// Transform 执行完整的行内管道
func (t *Transformer) Transform(s string) string {
	s = t.codeSpans(s)
	s = t.escapeInTags(s)
	s = t.esc.EscapeBackslashed(s)
	s = t.links.Resolve(s)
	s = t.strikethrough(s)
	s = t.autoLinks(s)
	s = t.encodeAmpsAndAngles(s)
	s = t.emphasis(s)
	s = t.lineBreaks(s)
	return s
}

// --- 代码段 ---

// codeSpans 把反引号 run 界定的代码段变成 <code> 元素
//
// 开闭 run 长度必须一致，内容先修剪首尾空白再做代码编码。
func (t *Transformer) codeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '`' {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '`' {
			j++
		}
		runLen := j - i

		// 找同长度的关闭 run
		closeStart := -1
		k := j
		for k < len(s) {
			if s[k] != '`' {
				k++
				continue
			}
			m := k
			for m < len(s) && s[m] == '`' {
				m++
			}
			if m-k == runLen {
				closeStart = k
				break
			}
			k = m
		}
		if closeStart < 0 {
			b.WriteString(s[i:j])
			i = j
			continue
		}
		content := strings.TrimSpace(s[j:closeStart])
		b.WriteString("<code>" + t.encodeCode(content) + "</code>")
		i = closeStart + runLen
	}
	return b.String()
}

// encodeCode 代码段内容编码
//
// 输入已经过上游预转义。&lt; 先换成占位符保持实体形态，其余几个
// 实体解回字面字符，孤立 & 再编码回去，最后整体过一遍转义表，
// 代码内容对后续删除线/自动链接/强调规则完全不可见。
func (t *Transformer) encodeCode(s string) string {
	s = strings.ReplaceAll(s, "&lt;", t.esc.Escape("&lt;"))
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#64;", "@")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&", "&amp;")
	return t.esc.EscapeAll(s)
}

// --- 标签内转义 ---

var tagRe = regexp.MustCompile(`</?[A-Za-z][^<>\n]*>`)

// escapeInTags 保护已有标签属性里的反引号和反斜杠
//
// linkifier 注入的 <a> 标签 href 里出现这两个字符时，
// 代码段和反斜杠规则不能把标签撕开。
func (t *Transformer) escapeInTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	return tagRe.ReplaceAllStringFunc(s, func(m string) string {
		m = strings.ReplaceAll(m, "`", t.esc.Escape("`"))
		m = strings.ReplaceAll(m, `\`, t.esc.Escape(`\`))
		return m
	})
}

// --- 删除线 ---

// strikeRe 行首或单词字符之后的 ~~text~~，内容不含 ~
var strikeRe = regexp.MustCompile(`(?m)(^|[0-9A-Za-z_])~~([^~\n]+)~~`)

func (t *Transformer) strikethrough(s string) string {
	return strikeRe.ReplaceAllString(s, "${1}<del>${2}</del>")
}

// --- 自动链接 ---

var (
	autoLinkRe       = regexp.MustCompile(`<((?:https?|ftp):[^>\s]+)>`)
	autoLinkEntityRe = regexp.MustCompile(`&lt;((?:https?|ftp):[^\s]+?)&gt;`)
)

// autoLinks 尖括号形式的 URL 变成锚点
//
// 邮箱自动链接刻意缺席：上游 linkifier 已经处理过了。
func (t *Transformer) autoLinks(s string) string {
	repl := func(re *regexp.Regexp, s string) string {
		return re.ReplaceAllStringFunc(s, func(m string) string {
			url := re.FindStringSubmatch(m)[1]
			return t.links.AnchorHTML(url, url, "")
		})
	}
	s = repl(autoLinkEntityRe, s)
	s = repl(autoLinkRe, s)
	return s
}

// --- 实体编码 ---

var (
	entityPrefixRe = regexp.MustCompile(`^&#?[0-9A-Za-z]{1,32};`)
	tagPrefixRe    = regexp.MustCompile(`^</?[A-Za-z][^<>\n]*>`)
)

// encodeAmpsAndAngles 编码还不是实体一部分的 & 和不开启标签的 <
func (t *Transformer) encodeAmpsAndAngles(s string) string {
	if !strings.ContainsAny(s, "&<") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			if entityPrefixRe.MatchString(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			if tagPrefixRe.MatchString(s[i:]) {
				b.WriteByte('<')
			} else {
				b.WriteString("&lt;")
			}
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// --- 强调 ---

type emphForm struct {
	delim string
	tag   string
	// underscore 形式对 multiple_underscored_identifier 做抑制
	underscore bool
}

// 形式顺序即优先级：双定界符先于单定界符
var emphForms = []emphForm{
	{delim: "__", tag: "strong", underscore: true},
	{delim: "**", tag: "strong"},
	{delim: "_", tag: "em", underscore: true},
	{delim: "*", tag: "em"},
}

// emphasis 两遍强调扫描
//
// 第一遍要求关闭定界符后面是非单词字符；第二遍放开这个限制，
// 只接住 __text__x 这类第一遍完全没动过的紧贴写法。第一遍已经
// 产出或抑制的跨度在两遍之间全部换成占位符，第二遍看不见它们。
func (t *Transformer) emphasis(s string) string {
	if !strings.ContainsAny(s, "*_") {
		return s
	}
	lines := strings.Split(s, "\n")
	for pass := 0; pass < 2; pass++ {
		strictClose := pass == 0
		for _, f := range emphForms {
			for i := range lines {
				lines[i] = t.scanEmphasis(lines[i], f, strictClose)
			}
		}
		if strictClose {
			for i := range lines {
				lines[i] = t.protectEmitted(lines[i])
			}
		}
	}
	return strings.Join(lines, "\n")
}

// protectEmitted 把已生成的 em/strong 元素内容里残留的定界符换成占位符
//
// 宽松遍不允许撕开第一遍的产出：<em>a*b</em> 里那个星号已经是
// 字面内容了。
func (t *Transformer) protectEmitted(line string) string {
	if !strings.Contains(line, "<em>") && !strings.Contains(line, "<strong>") {
		return line
	}
	var b strings.Builder
	depth := 0
	for i := 0; i < len(line); {
		if tag := matchEmphTag(line[i:]); tag != "" {
			if strings.HasPrefix(tag, "</") {
				depth--
			} else {
				depth++
			}
			b.WriteString(tag)
			i += len(tag)
			continue
		}
		c := line[i]
		if depth > 0 && (c == '*' || c == '_') {
			b.WriteString(t.esc.Escape(string(c)))
		} else {
			b.WriteByte(c)
		}
		i++
	}
	return b.String()
}

var emphTags = []string{"<em>", "</em>", "<strong>", "</strong>"}

func matchEmphTag(s string) string {
	for _, tag := range emphTags {
		if strings.HasPrefix(s, tag) {
			return tag
		}
	}
	return ""
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('A' <= c && c <= 'Z') ||
		('a' <= c && c <= 'z')
}

func (t *Transformer) scanEmphasis(line string, f emphForm, strictClose bool) string {
	d := f.delim
	if !strings.Contains(line, d) {
		return line
	}
	var b strings.Builder
	pos := 0
	for pos < len(line) {
		idx := strings.Index(line[pos:], d)
		if idx < 0 {
			b.WriteString(line[pos:])
			break
		}
		open := pos + idx

		// 行首或前一个字符非单词才算开启
		if open > 0 && isWordByte(line[open-1]) {
			b.WriteString(line[pos : open+1])
			pos = open + 1
			continue
		}
		cstart := open + len(d)
		if cstart >= len(line) || line[cstart] == ' ' || line[cstart] == '\t' || line[cstart] == d[0] {
			b.WriteString(line[pos : open+1])
			pos = open + 1
			continue
		}

		closeAt := findEmphasisClose(line, cstart, d, strictClose)
		if closeAt < 0 {
			b.WriteString(line[pos : open+1])
			pos = open + 1
			continue
		}

		content := line[cstart:closeAt]
		if f.underscore && strings.Contains(content, "_") && !strings.ContainsAny(content, " \t") {
			// 看起来是带下划线的标识符，不是强调。
			// 跨度内的下划线换成占位符，后续扫描不会再碰它。
			b.WriteString(line[pos:open])
			b.WriteString(strings.ReplaceAll(line[open:closeAt+len(d)], "_", t.esc.Escape("_")))
			pos = closeAt + len(d)
			continue
		}

		b.WriteString(line[pos:open])
		b.WriteString("<" + f.tag + ">" + content + "</" + f.tag + ">")
		pos = closeAt + len(d)
	}
	return b.String()
}

// findEmphasisClose 寻找第一个合法的关闭定界符
func findEmphasisClose(line string, cstart int, d string, strictClose bool) int {
	k := cstart
	for k < len(line) {
		j := strings.Index(line[k:], d)
		if j < 0 {
			return -1
		}
		cand := k + j
		if cand == cstart || line[cand-1] == ' ' || line[cand-1] == '\t' {
			k = cand + 1
			continue
		}
		follow := cand + len(d)
		if strictClose && follow < len(line) && isWordByte(line[follow]) {
			k = cand + 1
			continue
		}
		return cand
	}
	return -1
}

// --- 换行 ---

// lineBreaks 剩余的换行全部变成显式断行
func (t *Transformer) lineBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", "<br>\n")
}
