// Package codeblock 代码块的抽取、暂存与回填渲染
//
// 抽取必须发生在任何结构化解析之前：代码内容一旦被误认成
// 强调、链接或引用就无法挽回。每个代码块在原文中留下一行
// 不透明标记，块变换阶段按文档顺序消费对应的原始内容。
package codeblock

import (
	"regexp"
	"strings"
)

// 围栏与缩进代码块的单行标记，\x02 定界保证用户文本无法伪造
const (
	FencedMarker   = "\x02CBF\x02"
	IndentedMarker = "\x02CBI\x02"
)

// Block 一段被抽取的代码
type Block struct {
	// Body 原始内容，仍是上游预转义后的形态
	Body string
	// Lang 围栏后的可选语言标注，缩进块恒为空
	Lang string
}

// Store 两条先进先出队列，围栏块与缩进块各一条
//
// 不变式：抽取后文本中两种标记的数量与各自队列长度一致，
// 回填严格按序消费。下溢只计数不崩溃。
type Store struct {
	fenced    []Block
	indented  []Block
	underruns int
}

// NewStore 创建空队列
func NewStore() *Store {
	return &Store{}
}

// NextFenced 弹出下一个围栏块
func (s *Store) NextFenced() (Block, bool) {
	if len(s.fenced) == 0 {
		s.underruns++
		return Block{}, false
	}
	b := s.fenced[0]
	s.fenced = s.fenced[1:]
	return b, true
}

// NextIndented 弹出下一个缩进块
func (s *Store) NextIndented() (Block, bool) {
	if len(s.indented) == 0 {
		s.underruns++
		return Block{}, false
	}
	b := s.indented[0]
	s.indented = s.indented[1:]
	return b, true
}

// Counts 返回当前暂存的（围栏, 缩进）块数
func (s *Store) Counts() (int, int) {
	return len(s.fenced), len(s.indented)
}

// Underruns 返回消费下溢次数，非零说明抽取与回填失配
func (s *Store) Underruns() int {
	return s.underruns
}

// fencedRe 围栏块：三个以上反引号起行，可带一个语言单词，
// 正文非贪婪，第一个关闭围栏生效
var fencedRe = regexp.MustCompile("(?m)^`{3,}[ \t]*([A-Za-z0-9+_-]*)[ \t]*\n((?:.*\n)+?)`{3,}[ \t]*$")

// Extract 抽取全部代码块，原位留下单行标记
//
// 先围栏后缩进：围栏正文里的缩进行随正文一起离场，
// 不会被缩进规则重复抽取。
func Extract(text string, store *Store, tabWidth int) string {
	text = fencedRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := fencedRe.FindStringSubmatch(m)
		store.fenced = append(store.fenced, Block{Body: sub[2], Lang: sub[1]})
		return FencedMarker
	})
	return extractIndented(text, store, tabWidth)
}

func extractIndented(text string, store *Store, tabWidth int) string {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	indentSpaces := strings.Repeat(" ", tabWidth)

	isBlank := func(line string) bool {
		return strings.TrimSpace(line) == ""
	}
	isIndented := func(line string) bool {
		if isBlank(line) {
			return false
		}
		return strings.HasPrefix(line, "\t") || strings.HasPrefix(line, indentSpaces)
	}
	outdent := func(line string) string {
		if strings.HasPrefix(line, "\t") {
			return line[1:]
		}
		return strings.TrimPrefix(line, indentSpaces)
	}

	lines := strings.SplitAfter(text, "\n")
	var out strings.Builder
	prevBlank := true // 文档起始视同空行边界
	i := 0
	for i < len(lines) {
		line := lines[i]
		if !prevBlank || !isIndented(line) {
			out.WriteString(line)
			prevBlank = isBlank(line)
			i++
			continue
		}

		// 收集缩进行的连续运行，内部空行只要后面还跟着缩进行就不终止
		var body strings.Builder
		j := i
		for j < len(lines) {
			l := lines[j]
			if isIndented(l) {
				body.WriteString(outdent(l))
				j++
				continue
			}
			if isBlank(l) {
				k := j
				for k < len(lines) && isBlank(lines[k]) {
					k++
				}
				if k < len(lines) && isIndented(lines[k]) {
					for ; j < k; j++ {
						body.WriteString("\n")
					}
					continue
				}
			}
			break
		}
		store.indented = append(store.indented, Block{Body: body.String()})
		out.WriteString(IndentedMarker + "\n")
		prevBlank = false
		i = j
	}
	return out.String()
}
