// Package grammar 基础块级语法：段落、标题、水平线和基本列表
//
// 这一层故意只认识传统 Markdown 的块结构。代码块、块引用和全部行内
// 语法都在上游管道里处理完毕，到这里或者已经变成受保护的整块 HTML，
// 或者还是等待 span 变换的叶子文本。默认实现基于 goldmark 的块解析器，
// 调用方也可以注入自己的实现。
package grammar

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/riverfjs/mdhtml-go/internal/htmlbuf"
)

// SpanFunc 对单个叶子块的行内文本运行 span 管道
type SpanFunc func(text string) string

// Options 单次 RenderBlocks 调用的参数
type Options struct {
	// Spans 行内变换，nil 时原样输出
	Spans SpanFunc
	// RawBlock 段落内容整体是受保护块时返回成品 HTML
	RawBlock func(text string) (string, bool)
	// Expand 展开混在行内文本中的暂存 token
	Expand func(text string) string
	// WrapParagraphs 是否给段落包 <p> 标签
	WrapParagraphs bool
}

// Grammar 可注入的基础块语法
type Grammar interface {
	RenderBlocks(text string, opts Options) (string, error)
}

// Goldmark 默认实现：goldmark 块解析 + 自定义 AST 遍历
type Goldmark struct {
	p parser.Parser
}

// NewGoldmark 构建默认基础语法
//
// 只注册传统块解析器。代码块和块引用解析器刻意不在列表里：
// 缩进/围栏代码在进入本层之前已被抽取，引用标记以 &gt; 实体形式
// 出现，goldmark 本来也认不出来。
func NewGoldmark() *Goldmark {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewSetextHeadingParser(), 100),
			util.Prioritized(parser.NewThematicBreakParser(), 200),
			util.Prioritized(parser.NewListParser(), 300),
			util.Prioritized(parser.NewListItemParser(), 400),
			util.Prioritized(parser.NewATXHeadingParser(), 600),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		// 输入里带着上游 linkifier 注入的 <a> 标签，
		// 行内層面只需要 goldmark 把它们当普通片段收下
		parser.WithInlineParsers(
			util.Prioritized(parser.NewRawHTMLParser(), 100),
		),
	)
	return &Goldmark{p: p}
}

// RenderBlocks 渲染块结构为 HTML，叶子文本交给 opts.Spans
func (g *Goldmark) RenderBlocks(src string, opts Options) (string, error) {
	if opts.Spans == nil {
		opts.Spans = func(s string) string { return s }
	}
	source := []byte(src)
	root := g.p.Parse(text.NewReader(source))

	w := &walker{
		buf:    htmlbuf.New(),
		source: source,
		opts:   opts,
	}
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		return w.walk(n, entering)
	})
	if err != nil {
		return "", err
	}
	return w.buf.String(), nil
}

// walker 遍历块级 AST 并生成 HTML
type walker struct {
	buf    *htmlbuf.Buffer
	source []byte
	opts   Options
}

func (w *walker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document:
		// nothing

	case *ast.Paragraph:
		if entering {
			w.renderParagraph(node)
			return ast.WalkSkipChildren, nil
		}

	case *ast.TextBlock:
		// 紧凑列表项的内容
		if entering {
			raw := strings.TrimRight(w.nodeText(node), "\n")
			if html, ok := w.rawBlock(raw); ok {
				w.buf.Write(html)
			} else {
				w.buf.Write(w.spans(raw))
			}
			return ast.WalkSkipChildren, nil
		}

	case *ast.Heading:
		if entering {
			content := w.spans(strings.TrimSpace(w.nodeText(node)))
			w.buf.Write(fmt.Sprintf("<h%d>%s</h%d>\n", node.Level, content, node.Level))
			return ast.WalkSkipChildren, nil
		}

	case *ast.ThematicBreak:
		if entering {
			w.buf.Write("<hr>\n")
		}

	case *ast.List:
		if entering {
			w.buf.Write(w.openListTag(node))
		} else {
			if node.IsOrdered() {
				w.buf.Write("</ol>\n")
			} else {
				w.buf.Write("</ul>\n")
			}
		}

	case *ast.ListItem:
		if entering {
			w.buf.Write("<li>")
		} else {
			// 基础语法在兄弟行内标签前留下的多余断行在这里修掉
			w.buf.TrimTrailingBreaks()
			w.buf.Write("</li>\n")
		}
	}

	return ast.WalkContinue, nil
}

func (w *walker) renderParagraph(node *ast.Paragraph) {
	raw := strings.TrimRight(w.nodeText(node), "\n")
	if html, ok := w.rawBlock(raw); ok {
		w.buf.Write(html)
		w.buf.Write("\n")
		return
	}
	content := w.spans(raw)
	if w.opts.WrapParagraphs {
		w.buf.Write("<p>" + content + "</p>\n")
	} else {
		w.buf.Write(content + "\n\n")
	}
}

// nodeText 拼接块节点的原始文本行
func (w *walker) nodeText(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(w.source))
	}
	return b.String()
}

func (w *walker) spans(s string) string {
	out := w.opts.Spans(s)
	if w.opts.Expand != nil {
		out = w.opts.Expand(out)
	}
	return out
}

func (w *walker) rawBlock(s string) (string, bool) {
	if w.opts.RawBlock == nil {
		return "", false
	}
	return w.opts.RawBlock(strings.TrimSpace(s))
}

func (w *walker) openListTag(node *ast.List) string {
	if !node.IsOrdered() {
		return "<ul>\n"
	}
	if node.Start > 1 {
		return fmt.Sprintf("<ol start=\"%d\">\n", node.Start)
	}
	return "<ol>\n"
}
