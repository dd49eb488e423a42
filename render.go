package mdhtml

import (
	"github.com/riverfjs/mdhtml-go/internal/textutil"
)

// Render 将一段 Markdown 正文渲染为 HTML
//
// config 为 nil 时使用默认配置。这是较低级别的同步入口，
// 不带 Markdown 开关也不跑 linkifier；站点字段用 Markdownify()。
func Render(text string, config *RenderConfig) string {
	text = textutil.StripControl(text)
	return renderPipeline(text, nil, config)
}
