// Package htmlbuf 渲染输出缓冲区，支持对尾部已写入内容做回退修剪
package htmlbuf

import "strings"

// Buffer 按片段累积 HTML 输出
//
// 列表项收尾时需要剥掉语法层多写的换行和 <br>，
// 所以不用 strings.Builder 而保留分片结构。
type Buffer struct {
	parts []string
}

// New 创建空缓冲区
func New() *Buffer {
	return &Buffer{parts: make([]string, 0, 16)}
}

// Write 追加一段文本
func (b *Buffer) Write(s string) {
	if s == "" {
		return
	}
	b.parts = append(b.parts, s)
}

// String 返回累积的全部输出
func (b *Buffer) String() string {
	if len(b.parts) == 0 {
		return ""
	}
	totalLen := 0
	for _, p := range b.parts {
		totalLen += len(p)
	}
	result := make([]byte, 0, totalLen)
	for _, p := range b.parts {
		result = append(result, p...)
	}
	return string(result)
}

// Len 返回当前字节长度
func (b *Buffer) Len() int {
	total := 0
	for _, p := range b.parts {
		total += len(p)
	}
	return total
}

// trimSuffix 若尾部正好是 suffix 则剥掉并返回 true
func (b *Buffer) trimSuffix(suffix string) bool {
	need := len(suffix)
	if need == 0 || b.Len() < need {
		return false
	}
	// 从最后一片开始往前比对
	tail := ""
	i := len(b.parts) - 1
	for i >= 0 && len(tail) < need {
		tail = b.parts[i] + tail
		i--
	}
	if !strings.HasSuffix(tail, suffix) {
		return false
	}
	// 移除旧分片，写回剥掉 suffix 后的残余
	kept := tail[:len(tail)-need]
	b.parts = b.parts[:i+1]
	if kept != "" {
		b.parts = append(b.parts, kept)
	}
	return true
}

// TrimTrailingBreaks 剥掉尾部多余的换行与 <br> 标签
//
// 行内文本里的换行都被 span 阶段换成了 "<br>\n"，
// 列表项结束时这些断行位于 </li> 之前，是基础语法留下的噪音。
func (b *Buffer) TrimTrailingBreaks() {
	for {
		if b.trimSuffix("\n") {
			continue
		}
		if b.trimSuffix("<br>") {
			continue
		}
		return
	}
}
