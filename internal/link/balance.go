package link

// maxNestingDepth 括号配对的最大嵌套深度
//
// 方言只要求一层真实嵌套；超过上限视作配对失败，
// 整个结构退化为字面文本，保证任何输入都能终止。
const maxNestingDepth = 8

// balancedSpan 在 s 上做计数配对，s[0] 必须是 open
//
// 返回与之配对的 close 的下标。配对失败（未闭合、跨空行、
// 深度溢出）时 ok 为 false；深度溢出额外上报 overflow。
func balancedSpan(s string, open, close byte) (end int, ok bool, overflow bool) {
	if len(s) == 0 || s[0] != open {
		return 0, false, false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
			if depth > maxNestingDepth {
				return 0, false, true
			}
		case close:
			depth--
			if depth == 0 {
				return i, true, false
			}
		case '\n':
			// 跨空行的结构不是链接
			if i+1 < len(s) && s[i+1] == '\n' {
				return 0, false, false
			}
		}
	}
	return 0, false, false
}
