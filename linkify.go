package mdhtml

import (
	"fmt"
	"regexp"
)

// issueRe bug 123 / issue #45 / #67 形式的问题引用
var issueRe = regexp.MustCompile(`(?i)\b(?:(?:bug|issue)\s+#?|#)(\d+)\b`)

// NewIssueLinkifier 构建问题编号自动链接器
//
// urlFormat 里的 %s 会被替换成问题编号，例如 "/issues/%s"。
// 产出的锚点与渲染管道约定一致：链接解析阶段见到已有 <a> 标签
// 只会透传，不会二次包裹。
func NewIssueLinkifier(urlFormat string) Linkifier {
	return func(text string) string {
		return issueRe.ReplaceAllStringFunc(text, func(m string) string {
			num := issueRe.FindStringSubmatch(m)[1]
			return fmt.Sprintf(`<a href="%s">%s</a>`, fmt.Sprintf(urlFormat, num), m)
		})
	}
}
