package types

import (
	"github.com/riverfjs/mdhtml-go/internal/grammar"
)

// Linkifier 上游协作者：把裸 URL / bug 引用包成 <a> 标签
//
// 引擎只约定接口；它产出的 <a href="U">U</a> 片段会被链接解析
// 阶段拆开重新统一处理，不会出现双层包裹。
type Linkifier func(text string) string

// RenderConfig 渲染配置
type RenderConfig struct {
	// TabWidth 缩进代码块检测与制表符展开的宽度
	TabWidth int
	// WrapParagraphs 顶层输出是否包 <p>；块引用递归时总是开启
	WrapParagraphs bool
	// HighlightCode 围栏代码块是否做服务端语法高亮
	HighlightCode bool
	// HighlightStyle chroma 样式名
	HighlightStyle string
	// Grammar 注入的基础块语法
	Grammar grammar.Grammar
}

// DefaultRenderConfig 返回默认渲染配置
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		TabWidth:       4,
		WrapParagraphs: true,
		HighlightCode:  false,
		HighlightStyle: "github",
		Grammar:        grammar.NewGoldmark(),
	}
}
