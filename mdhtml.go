// Package mdhtml 将论坛方言 Markdown 渲染为 HTML
//
// 这个包实现一套偏保守的 Markdown 方言：传统的段落、标题、列表和
// 强调语法之外，支持围栏/缩进代码块（可选服务端高亮）、引用链接
// 定义、删除线和可递归的块引用，并与上游 linkifier（裸 URL / 问题
// 编号自动链接）协同工作。
//
// 核心功能：
//   - 代码块先提取后回填，内容对行内规则完全不可见
//   - 四种链接形式统一解析：引用、内联、速记和裸 URL
//   - linkifier 注入的 <a> 标签不会被二次包裹
//   - 块引用内部作为独立正文递归渲染
//
// 主要 API：
//   - Render(): 渲染一段 Markdown 正文
//   - Markdownify(): 面向站点文本字段的入口，带 Markdown 开关
//
// 示例：
//
//	html := mdhtml.Render("**hello** `world`", nil)
//
//	// 站点字段：关闭 Markdown 时只做自动链接
//	html = mdhtml.Markdownify(comment,
//	    mdhtml.WithMarkdownEnabled(enabled),
//	    mdhtml.WithLinkifier(mdhtml.NewIssueLinkifier("/issues/%s")),
//	)
package mdhtml

import (
	"github.com/riverfjs/mdhtml-go/internal/textutil"
)

// Markdownify 渲染站点文本字段
//
// Markdown 关闭时只运行 linkifier，正文原样透传；开启时先清除
// 文本里混入的控制占位字节，再提取代码块、跑 linkifier，最后走
// 完整渲染管道。linkifier 在代码块提取之后运行，代码内容里的
// URL 不会被包成链接。
func Markdownify(text string, opts ...Option) string {
	options := applyOptions(opts...)
	if !options.Enabled {
		if options.Linkify != nil {
			return options.Linkify(text)
		}
		return text
	}
	text = textutil.StripControl(text)
	return renderPipeline(text, options.Linkify, options.Config)
}
