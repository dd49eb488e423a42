package span

import (
	"strings"
	"testing"

	"github.com/riverfjs/mdhtml-go/internal/escape"
	"github.com/riverfjs/mdhtml-go/internal/link"
)

// render 跑完整管道并还原占位符
func render(t *testing.T, table link.Table, in string) string {
	t.Helper()
	esc := escape.Default()
	if table == nil {
		table = link.Table{}
	}
	tr := New(esc, link.NewResolver(table, esc))
	return esc.Unescape(tr.Transform(in))
}

func TestCodeSpans(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"基础", "use `code` here", "use <code>code</code> here"},
		{"修剪内部空白", "`` x ``", "<code>x</code>"},
		{"双反引号包裹单反引号", "``a`b``", "<code>a`b</code>"},
		{"未闭合保持字面", "a ` b", "a ` b"},
		{"内容对强调不可见", "`*not em*`", "<code>*not em*</code>"},
		{"内容对删除线不可见", "x`~~keep~~`", "x<code>~~keep~~</code>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, nil, tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeSpanEntities(t *testing.T) {
	got := render(t, nil, "`a &lt;b&gt; &amp; c`")
	want := "<code>a &lt;b> &amp; c</code>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBackslashEscapes(t *testing.T) {
	got := render(t, nil, `\*literal\* and \_same\_`)
	want := "*literal* and _same_"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStrikethrough(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"~~gone~~", "<del>gone</del>"},
		{"word~~gone~~", "word<del>gone</del>"},
		{"a ~~x~~", "a ~~x~~"},
		{"~~a~b~~", "~~a~b~~"},
	}
	for _, tt := range tests {
		if got := render(t, nil, tt.in); got != tt.want {
			t.Errorf("render(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAutoLinks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"实体形式",
			"&lt;http://x.example&gt;",
			`<a href="http://x.example">http://x.example</a>`,
		},
		{
			"字面形式",
			"<http://x.example>",
			`<a href="http://x.example">http://x.example</a>`,
		},
		{
			"ftp",
			"&lt;ftp://f.example/a&gt;",
			`<a href="ftp://f.example/a">ftp://f.example/a</a>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, nil, tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeAmpsAndAngles(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a & b", "a &amp; b"},
		{"a &amp; b", "a &amp; b"},
		{"5 < 6", "5 &lt; 6"},
		{"<em>kept</em>", "<em>kept</em>"},
		{"&#64;", "&#64;"},
	}
	for _, tt := range tests {
		if got := render(t, nil, tt.in); got != tt.want {
			t.Errorf("render(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmphasis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"星号斜体", "*em*", "<em>em</em>"},
		{"下划线斜体", "_em_", "<em>em</em>"},
		{"星号粗体", "**strong**", "<strong>strong</strong>"},
		{"下划线粗体", "__strong__", "<strong>strong</strong>"},
		{"词中星号不开启", "a*b*c", "a*b*c"},
		{"词中下划线不开启", "snake_case_name", "snake_case_name"},
		{"定界符后不能是空白", "* not em *", "* not em *"},
		{"多词内容", "_hello world_", "<em>hello world</em>"},
		{"嵌套", "**bold *ital* bold**", "<strong>bold <em>ital</em> bold</strong>"},
		{"紧贴词边界第二遍接住", "__text__x", "<strong>text</strong>x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, nil, tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmphasisUnderscoreIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"_multi_word_identifier_", "_multi_word_identifier_"},
		{"_not_emphasis_here_", "_not_emphasis_here_"},
		{"_multi_word_name_", "_multi_word_name_"},
		{"a _some_var_ b", "a _some_var_ b"},
		{"_has space_inside_", "<em>has space_inside</em>"},
	}
	for _, tt := range tests {
		if got := render(t, nil, tt.in); got != tt.want {
			t.Errorf("render(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmphasisSecondPassLeavesFirstPassOutputAlone(t *testing.T) {
	// 宽松遍不能撕开严格遍已产出的元素，也不能重新匹配被抑制的标识符
	tests := []struct {
		in   string
		want string
	}{
		{"**a*b**c*", "*<em>a*b</em><em>c</em>"},
		{"*em* plain", "<em>em</em> plain"},
		{"**strong** _id_name_", "<strong>strong</strong> _id_name_"},
	}
	for _, tt := range tests {
		got := render(t, nil, tt.in)
		if got != tt.want {
			t.Errorf("render(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if strings.Contains(got, "<em><em>") || strings.Contains(got, "<em><strong>") {
			t.Errorf("render(%q) 产生了嵌套撕裂: %q", tt.in, got)
		}
	}
}

func TestEmphasisOverlapping(t *testing.T) {
	got := render(t, nil, "**a*b**c*")
	want := "*<em>a*b</em><em>c</em>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLineBreaks(t *testing.T) {
	got := render(t, nil, "one\ntwo")
	if got != "one<br>\ntwo" {
		t.Errorf("got %q", got)
	}
}

func TestPipelineLinkThenEmphasis(t *testing.T) {
	// 链接文本上的强调仍然生效，URL 里的下划线不受影响
	got := render(t, link.Table{}, "[*em*](http://x.example/a_b)")
	want := `<a href="http://x.example/a_b"><em>em</em></a>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLinkifiedAnchorSurvivesPipeline(t *testing.T) {
	in := `see <a href="http://b.example/?id=1&amp;x=_2_">bug 1</a> now`
	got := render(t, nil, in)
	if strings.Count(got, "<a ") != 1 {
		t.Fatalf("锚点数量异常: %q", got)
	}
	if !strings.Contains(got, `href="http://b.example/?id=1&amp;x=_2_"`) {
		t.Errorf("href 被破坏: %q", got)
	}
}
