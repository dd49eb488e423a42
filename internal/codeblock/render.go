package codeblock

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/riverfjs/mdhtml-go/internal/textutil"
)

// RenderOptions 回填渲染参数
type RenderOptions struct {
	TabWidth       int
	Highlight      bool
	HighlightStyle string
}

// Render 把暂存的代码块渲染为 <pre><code> 元素
//
// 实体解码回字面字符、展开制表符、修掉尾部换行，然后重新做
// 最小实体编码。开启高亮时交给 chroma，找不到词法器则回退到
// 纯文本形态。
func Render(b Block, opts RenderOptions) string {
	body := textutil.Detab(textutil.DecodeEntities(b.Body), opts.TabWidth)
	body = strings.TrimRight(body, "\n")

	if opts.Highlight && body != "" {
		if html, ok := highlightHTML(body, b.Lang, opts.HighlightStyle); ok {
			return html
		}
	}
	return "<pre><code>" + textutil.EncodeEntities(body) + "\n</code></pre>"
}

// highlightHTML 用 chroma 做带 CSS class 的语法高亮
func highlightHTML(code, lang, styleName string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", false
	}

	class := "chroma"
	if lang != "" {
		class = fmt.Sprintf("chroma language-%s", strings.ToLower(lang))
	}
	return fmt.Sprintf("<pre><code class=%q>%s\n</code></pre>", class, strings.TrimRight(buf.String(), "\n")), true
}
