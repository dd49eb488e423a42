// Package link 链接解析：四种链接语法、定义表与防双重包裹
//
// 解析顺序是承重结构：先把上游 linkifier 的自引用锚点拆回裸 URL，
// 再依次处理引用式、内联式、快捷引用，最后兜底裸 URL。每条规则
// 生成的锚点都经过转义保护，后续规则不会再碰它。
package link

import (
	"regexp"
	"strings"

	"github.com/riverfjs/mdhtml-go/internal/escape"
)

// Definition 一条链接定义：URL 与可选标题
type Definition struct {
	URL   string
	Title string
}

// Table 小写 id → 定义，单次渲染内只读
type Table map[string]Definition

// SafeURLPattern 安全 URL 策略：必须带显式 scheme
var SafeURLPattern = regexp.MustCompile(`(?i)^(https?|ftp|mailto):`)

// defRe 链接定义行。URL 可以是裸形式，也可以是已被 linkifier
// 包成 <a href="url">url</a> 的形式，两种都要认。
var defRe = regexp.MustCompile(`(?m)^ {0,3}\[([^\[\]]+)\]:[ \t]*(?:<a href="([^"]*)"[^>]*>[^<]*</a>|([^\s<]+))(?:[ \t]+(?:"([^"\n]*)"|\(([^)\n]*)\)))?[ \t]*$`)

// StripDefinitionsInto 移除定义行并写入表，同 id 后者覆盖前者
func StripDefinitionsInto(text string, table Table) string {
	return defRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := defRe.FindStringSubmatch(m)
		url := sub[2]
		if url == "" {
			url = sub[3]
		}
		title := sub[4]
		if title == "" {
			title = sub[5]
		}
		table[strings.ToLower(sub[1])] = Definition{URL: url, Title: title}
		return ""
	})
}

var (
	// anchorRe 完整锚点元素，文本不含子标签
	anchorRe = regexp.MustCompile(`<a href="([^"]*)"[^>]*>([^<]*)</a>`)
	// tagRe 任意单个 HTML 标签
	tagRe = regexp.MustCompile(`</?[A-Za-z][^<>\n]*>`)
	// bareURLRe 裸 URL token
	bareURLRe = regexp.MustCompile(`(?i)(?:https?|ftp)://[^\s<>"]+`)
)

// Resolver 单次渲染的链接解析器
type Resolver struct {
	table    Table
	esc      *escape.Table
	overflow int
}

// NewResolver 创建解析器；table 由定义剥离阶段填充
func NewResolver(table Table, esc *escape.Table) *Resolver {
	return &Resolver{table: table, esc: esc}
}

// Overflows 返回配对深度溢出的次数，非零按实现缺陷上报
func (r *Resolver) Overflows() int {
	return r.overflow
}

// Resolve 按固定顺序执行全部链接规则
func (r *Resolver) Resolve(s string) string {
	s = r.unwrapForeignAnchors(s)
	s = r.scanBrackets(s, passReference)
	s = r.scanBrackets(s, passInline)
	s = r.scanBrackets(s, passShortcut)
	s = r.resolveBareURLs(s)
	s = r.protectTags(s)
	return s
}

// unwrapForeignAnchors 拆掉 linkifier 的自引用锚点
//
// 可见文本等于 href 且不是 mailto 的锚点是上游产物，
// 拆回裸 URL 让后面的规则统一重新评估。
func (r *Resolver) unwrapForeignAnchors(s string) string {
	return anchorRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := anchorRe.FindStringSubmatch(m)
		href, text := sub[1], sub[2]
		if href == text && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			return href
		}
		return m
	})
}

const (
	passReference = iota
	passInline
	passShortcut
)

// scanBrackets 对一种括号链接形式做单遍扫描
func (r *Resolver) scanBrackets(s string, pass int) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '<' {
			// 已有标签整体跳过，内部不参与括号匹配
			if m := tagRe.FindString(s[i:]); m != "" && strings.HasPrefix(s[i:], m) {
				b.WriteString(m)
				i += len(m)
				continue
			}
		}
		if c != '[' {
			b.WriteByte(c)
			i++
			continue
		}

		end, ok, overflow := balancedSpan(s[i:], '[', ']')
		if !ok {
			if overflow {
				r.overflow++
			}
			b.WriteByte(c)
			i++
			continue
		}
		linkText := s[i+1 : i+end]
		after := i + end + 1

		replaced, consumed := r.tryBracketForm(s, i, after, linkText, pass)
		if consumed == 0 {
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteString(replaced)
		i += consumed
		continue
	}
	return b.String()
}

// tryBracketForm 在 after 处根据 pass 继续解析一种形式
//
// 返回替换文本与消费的长度；长度为 0 表示该位置不适用此形式。
func (r *Resolver) tryBracketForm(s string, start, after int, linkText string, pass int) (string, int) {
	whole := func(end int) string { return s[start:end] }

	switch pass {
	case passReference:
		if after >= len(s) || s[after] != '[' {
			return "", 0
		}
		end, ok, overflow := balancedSpan(s[after:], '[', ']')
		if !ok {
			if overflow {
				r.overflow++
			}
			return "", 0
		}
		id := s[after+1 : after+end]
		total := after + end + 1
		return r.resolveAnchor(whole(total), linkText, id, "", ""), total - start

	case passInline:
		if after >= len(s) || s[after] != '(' {
			return "", 0
		}
		end, ok, overflow := balancedSpan(s[after:], '(', ')')
		if !ok {
			if overflow {
				r.overflow++
			}
			return "", 0
		}
		inner := s[after+1 : after+end]
		total := after + end + 1
		url, title := splitURLTitle(inner)
		url = stripAnchorArtifact(url)
		if url == "" {
			return whole(total), total - start
		}
		if !SafeURLPattern.MatchString(url) {
			url = "http://" + url
		}
		return r.AnchorHTML(linkText, url, title), total - start

	case passShortcut:
		return r.resolveAnchor(whole(after), linkText, "", "", ""), after - start
	}
	return "", 0
}

// resolveAnchor 共享的锚点生成入口
//
// url 为空时按 id（id 为空则取小写 text）查表；查不到保持原文，
// 未解析的引用退化为字面文本而不是错误。
func (r *Resolver) resolveAnchor(original, text, id, url, title string) string {
	if url == "" {
		key := strings.ToLower(id)
		if key == "" {
			key = strings.ToLower(text)
		}
		def, ok := r.table[key]
		if !ok {
			return original
		}
		url, title = def.URL, def.Title
	}
	return r.AnchorHTML(text, url, title)
}

// AnchorHTML 生成锚点元素并做防重匹配保护
//
// URL 与标题里的强调/删除线/反引号字符换成占位符；链接文本只
// 保护方括号和圆括号，后面的强调规则仍可作用于可见文本。
func (r *Resolver) AnchorHTML(text, url, title string) string {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(r.protectSpecials(url))
	b.WriteByte('"')
	if title != "" {
		b.WriteString(` title="`)
		b.WriteString(r.protectSpecials(strings.ReplaceAll(title, `"`, "&quot;")))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(r.protectBrackets(text))
	b.WriteString(`</a>`)
	return b.String()
}

func (r *Resolver) protectSpecials(s string) string {
	for _, ch := range []string{"*", "_", "~", "`"} {
		s = strings.ReplaceAll(s, ch, r.esc.Escape(ch))
	}
	return s
}

func (r *Resolver) protectBrackets(s string) string {
	for _, ch := range []string{"[", "]", "(", ")"} {
		s = strings.ReplaceAll(s, ch, r.esc.Escape(ch))
	}
	return s
}

// protectTags 保护存留标签内部的强调字符
//
// 不论锚点是本层生成的还是 linkifier 留下的，href 里的下划线
// 星号一旦暴露给强调规则就会把标签撕开。
func (r *Resolver) protectTags(s string) string {
	return tagRe.ReplaceAllStringFunc(s, func(m string) string {
		return r.protectSpecials(m)
	})
}

// resolveBareURLs 把未包裹的 URL token 包成自引用锚点
//
// 前一个字符是引号、尖括号或分号时跳过：分别对应属性值、
// 标签内部/自动链接形式和已编码实体。
func (r *Resolver) resolveBareURLs(s string) string {
	locs := bareURLRe.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		b.WriteString(s[prev:start])
		prev = start

		if start > 0 {
			switch s[start-1] {
			case '"', '\'', '<', '>', ';':
				continue
			}
		}
		url := strings.TrimRight(s[start:end], ".,;:!?")
		if url == "" {
			continue
		}
		b.WriteString(r.AnchorHTML(url, url, ""))
		b.WriteString(s[start+len(url) : end])
		prev = end
	}
	b.WriteString(s[prev:])
	return b.String()
}

// splitURLTitle 拆开内联链接括号里的 URL 与可选标题
//
// 标题由成对的引号或圆括号界定；URL 可以再套一层尖括号。
func splitURLTitle(inner string) (string, string) {
	inner = strings.TrimSpace(inner)
	url, title := inner, ""

	// 标题与 URL 之间必须有空白，否则认为整段都是 URL
	if strings.HasSuffix(inner, `"`) {
		if open := strings.Index(inner[:len(inner)-1], `"`); open > 0 && isSpace(inner[open-1]) {
			url = strings.TrimSpace(inner[:open])
			title = inner[open+1 : len(inner)-1]
		}
	} else if strings.HasSuffix(inner, ")") {
		depth := 0
		for i := len(inner) - 1; i >= 0; i-- {
			switch inner[i] {
			case ')':
				depth++
			case '(':
				depth--
			}
			if depth == 0 {
				if i > 0 && isSpace(inner[i-1]) {
					url = strings.TrimSpace(inner[:i])
					title = inner[i+1 : len(inner)-1]
				}
				break
			}
		}
	}

	url = strings.TrimPrefix(url, "<")
	url = strings.TrimSuffix(url, ">")
	return url, title
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// anchorArtifactRe 内联 URL 位置上残留的 linkifier 锚点片段
var anchorArtifactRe = regexp.MustCompile(`^<a href="([^"]*)"[^>]*>.*</a>$`)

// stripAnchorArtifact 把括号里被 linkify 过的 URL 剥回裸形式
func stripAnchorArtifact(url string) string {
	if sub := anchorArtifactRe.FindStringSubmatch(url); sub != nil {
		return sub[1]
	}
	return url
}
