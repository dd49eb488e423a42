package mdhtml

import (
	"strings"

	"github.com/riverfjs/mdhtml-go/internal/block"
	"github.com/riverfjs/mdhtml-go/internal/codeblock"
	"github.com/riverfjs/mdhtml-go/internal/link"
)

// renderPipeline 完整渲染管道
//
// 顺序固定：先剥离引用链接定义，再提取代码块，然后才允许
// linkifier 接触正文。这样定义行不会出现在输出里，代码内容
// 也轮不到 linkifier 处理。
func renderPipeline(text string, linkify Linkifier, config *RenderConfig) string {
	if config == nil {
		config = DefaultConfig()
	}
	ctx := block.NewContext(config)

	text = link.StripDefinitionsInto(text, ctx.Links)
	text = codeblock.Extract(text, ctx.Store, config.TabWidth)
	if linkify != nil {
		text = linkify(text)
	}

	html, err := ctx.Transform(text, config.WrapParagraphs)
	// 输入在进入引擎前已做过 HTML 转义，失败时退回转义后的原文
	if err != nil {
		Logger.Printf("render failed: %v", err)
		return ctx.Esc.Unescape(text)
	}
	if d := ctx.Defects(); d > 0 {
		Logger.Printf("render finished with %d defect(s)", d)
	}

	html = ctx.Esc.Unescape(html)
	return strings.TrimRight(html, "\n")
}
