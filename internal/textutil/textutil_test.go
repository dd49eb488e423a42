package textutil

import "testing"

func TestStripControl(t *testing.T) {
	if got := StripControl("a\x02E01\x02b"); got != "aE01b" {
		t.Errorf("got %q", got)
	}
}

func TestDetab(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		tabWidth int
		want     string
	}{
		{"行首制表符", "\tx", 4, "    x"},
		{"列对齐", "ab\tc", 4, "ab  c"},
		{"换行重置列", "ab\n\tc", 4, "ab\n    c"},
		{"宽度 8", "\tx", 8, "        x"},
		{"无制表符", "abc", 4, "abc"},
		{"非法宽度回退 4", "\tx", 0, "    x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detab(tt.in, tt.tabWidth); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"&lt;div&gt;", "<div>"},
		{"a &amp; b", "a & b"},
		{"&quot;x&quot;", `"x"`},
		{"&#64;user", "@user"},
		// 单遍扫描：双重编码只解一层
		{"&amp;lt;", "&lt;"},
	}
	for _, tt := range tests {
		if got := DecodeEntities(tt.in); got != tt.want {
			t.Errorf("DecodeEntities(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeEntities(t *testing.T) {
	if got := EncodeEntities(`<a & b>`); got != "&lt;a &amp; b&gt;" {
		t.Errorf("got %q", got)
	}
}
