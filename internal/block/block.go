// Package block 块级编排：代码块回填、块引用递归和暂存机制
//
// 基础块语法只认识段落/标题/列表，代码块和引用在这里先渲染成整块
// HTML 并换成暂存 token，基础语法渲染完再展开。token 前后强制空行，
// 保证它们在块解析眼里是独立段落而不会被包进 <p>。
package block

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/riverfjs/mdhtml-go/internal/codeblock"
	"github.com/riverfjs/mdhtml-go/internal/escape"
	"github.com/riverfjs/mdhtml-go/internal/grammar"
	"github.com/riverfjs/mdhtml-go/internal/link"
	"github.com/riverfjs/mdhtml-go/internal/span"
	"github.com/riverfjs/mdhtml-go/internal/types"
)

// Context 单次渲染的块级状态
//
// 暂存区和缺陷计数都绑定在这里，渲染之间互不影响。
type Context struct {
	Config   *types.RenderConfig
	Store    *codeblock.Store
	Links    link.Table
	Resolver *link.Resolver
	Spans    *span.Transformer
	Esc      *escape.Table

	stash   []string
	defects int
}

// NewContext 组装一次渲染所需的协作者
func NewContext(cfg *types.RenderConfig) *Context {
	esc := escape.Default()
	links := link.Table{}
	resolver := link.NewResolver(links, esc)
	return &Context{
		Config:   cfg,
		Store:    codeblock.NewStore(),
		Links:    links,
		Resolver: resolver,
		Spans:    span.New(esc, resolver),
		Esc:      esc,
	}
}

// Defects 本次渲染遇到的标记/代码块不对账次数
func (c *Context) Defects() int {
	return c.defects + c.Store.Underruns() + c.Resolver.Overflows()
}

// RenderBody 提取代码块后做完整块变换
//
// 块引用递归的入口：引用内部是一份独立的 Markdown 正文。
func (c *Context) RenderBody(text string, wrap bool) (string, error) {
	text = codeblock.Extract(text, c.Store, c.Config.TabWidth)
	return c.Transform(text, wrap)
}

// Transform 对已提取代码块的正文执行块级变换
func (c *Context) Transform(text string, wrap bool) (string, error) {
	text = c.reinsertCodeBlocks(text)
	text = c.doBlockQuotes(text)
	return c.Config.Grammar.RenderBlocks(text, grammar.Options{
		Spans:          c.Spans.Transform,
		RawBlock:       c.rawBlock,
		Expand:         c.expand,
		WrapParagraphs: wrap,
	})
}

// --- 暂存区 ---

// 占位至少四位，超长渲染里序号自然变宽，正则按任意位数匹配
const stashFormat = "\x02S%04d\x02"

var stashRe = regexp.MustCompile(`\x02S(\d+)\x02`)

// stashHTML 存一块成品 HTML，返回带空行隔离的 token
func (c *Context) stashHTML(html string) string {
	token := fmt.Sprintf(stashFormat, len(c.stash))
	c.stash = append(c.stash, html)
	return "\n\n" + token + "\n\n"
}

// expand 展开文本中的全部暂存 token
func (c *Context) expand(s string) string {
	if !strings.Contains(s, "\x02S") {
		return s
	}
	return stashRe.ReplaceAllStringFunc(s, func(m string) string {
		idx, err := strconv.Atoi(stashRe.FindStringSubmatch(m)[1])
		if err != nil || idx >= len(c.stash) {
			c.defects++
			return ""
		}
		return c.stash[idx]
	})
}

// rawBlock 段落的每一行都是暂存 token 时按原始 HTML 整块输出
func (c *Context) rawBlock(text string) (string, bool) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if !stashRe.MatchString(strings.TrimSpace(line)) {
			return "", false
		}
		if stashRe.ReplaceAllString(strings.TrimSpace(line), "") != "" {
			return "", false
		}
	}
	return c.expand(text), true
}

// --- 代码块回填 ---

// reinsertCodeBlocks 把提取标记换回渲染好的代码块 HTML
//
// 标记必须独占一行。存量和标记数不对账时保留原行并记缺陷。
func (c *Context) reinsertCodeBlocks(text string) string {
	if !strings.Contains(text, "\x02CB") {
		return text
	}
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	opts := codeblock.RenderOptions{
		TabWidth:       c.Config.TabWidth,
		Highlight:      c.Config.HighlightCode,
		HighlightStyle: c.Config.HighlightStyle,
	}
	for _, line := range lines {
		var blk codeblock.Block
		var ok bool
		switch strings.TrimSpace(line) {
		case codeblock.FencedMarker:
			blk, ok = c.Store.NextFenced()
		case codeblock.IndentedMarker:
			blk, ok = c.Store.NextIndented()
		default:
			b.WriteString(line)
			continue
		}
		if !ok {
			c.defects++
			b.WriteString(line)
			continue
		}
		b.WriteString(c.stashHTML(codeblock.Render(blk, opts)))
		b.WriteString("\n")
	}
	return b.String()
}

// --- 块引用 ---

// quoteRe 连续的 &gt; 前缀行构成一个引用块
var quoteRe = regexp.MustCompile(`(?m)((?:^[ \t]*&gt;[^\n]*\n?)+)`)

var quoteMarkerRe = regexp.MustCompile(`(?m)^[ \t]*&gt;[ \t]?`)

// doBlockQuotes 渲染块引用并递归处理其内容
func (c *Context) doBlockQuotes(text string) string {
	if !strings.Contains(text, "&gt;") {
		return text
	}
	return quoteRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := quoteMarkerRe.ReplaceAllString(m, "")
		inner = blankEmptyLines(inner)
		body, err := c.RenderBody(inner, true)
		if err != nil {
			c.defects++
			return m
		}
		body = strings.TrimSpace(body)
		body = indentQuote(body)
		return c.stashHTML("<blockquote class=\"markdown\">\n" + body + "\n</blockquote>")
	})
}

// blankEmptyLines 只含空白的行清成真正的空行
func blankEmptyLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// indentQuote 引用体每行缩进两格，<pre> 内部保持原样
func indentQuote(s string) string {
	lines := strings.Split(s, "\n")
	inPre := false
	for i, line := range lines {
		if !inPre && line != "" {
			lines[i] = "  " + line
		}
		if strings.Contains(line, "<pre>") {
			inPre = true
		}
		if strings.Contains(line, "</pre>") {
			inPre = false
		}
	}
	return strings.Join(lines, "\n")
}
