package escape

import (
	"strings"
	"testing"
)

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	tbl := Default()
	for _, ch := range protected {
		ph := tbl.Escape(ch)
		if ph == ch {
			t.Errorf("Escape(%q) 没有被替换", ch)
		}
		if !strings.HasPrefix(ph, delim) || !strings.HasSuffix(ph, delim) {
			t.Errorf("Escape(%q) = %q，占位符没有用定界符包裹", ch, ph)
		}
		if got := tbl.Unescape(ph); got != ch {
			t.Errorf("Unescape(Escape(%q)) = %q", ch, got)
		}
	}
}

func TestEscapeUnknownChar(t *testing.T) {
	tbl := Default()
	if got := tbl.Escape("a"); got != "a" {
		t.Errorf("未登记字符应原样返回, got %q", got)
	}
}

func TestEscapeAll(t *testing.T) {
	tbl := Default()
	in := "a *b* _c_ [d](e) `f` ~g~ &lt;h"
	escaped := tbl.EscapeAll(in)
	for _, ch := range []string{"*", "_", "[", "]", "(", ")", "`", "~", "&lt;"} {
		if strings.Contains(escaped, ch) {
			t.Errorf("EscapeAll 漏掉了 %q: %q", ch, escaped)
		}
	}
	if got := tbl.Unescape(escaped); got != in {
		t.Errorf("往返失败: got %q, want %q", got, in)
	}
}

func TestEscapeBackslashed(t *testing.T) {
	tbl := Default()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"星号", `a \* b`, "a * b"},
		{"下划线", `\_literal\_`, "_literal_"},
		{"反斜杠自身", `a \\ b`, `a \ b`},
		{"无反斜杠原样", "plain", "plain"},
		{"非保护字符保留反斜杠", `\q`, `\q`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tbl.Unescape(tbl.EscapeBackslashed(tt.in))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapedBackslashStarIsLiteral(t *testing.T) {
	tbl := Default()
	out := tbl.EscapeBackslashed(`\*not em\*`)
	if strings.Contains(out, "*") {
		t.Errorf("反斜杠转义的星号仍然暴露: %q", out)
	}
}
