package codeblock

import (
	"strings"
	"testing"
)

func TestExtractFenced(t *testing.T) {
	store := NewStore()
	in := "before\n```go\nfunc main() {}\n```\nafter\n"
	out := Extract(in, store, 4)

	want := "before\n" + FencedMarker + "\nafter\n"
	if out != want {
		t.Fatalf("out = %q, want %q", out, want)
	}
	nf, _ := store.Counts()
	if nf != 1 {
		t.Fatalf("fenced count = %d", nf)
	}
	blk, ok := store.NextFenced()
	if !ok {
		t.Fatal("NextFenced 下溢")
	}
	if blk.Lang != "go" {
		t.Errorf("Lang = %q", blk.Lang)
	}
	if blk.Body != "func main() {}\n" {
		t.Errorf("Body = %q", blk.Body)
	}
}

func TestExtractFencedLongerFence(t *testing.T) {
	store := NewStore()
	in := "````\ncontains ``` inside\n````\n"
	out := Extract(in, store, 4)
	if !strings.Contains(out, FencedMarker) {
		t.Fatalf("长围栏没有被抽取: %q", out)
	}
	blk, _ := store.NextFenced()
	if blk.Body != "contains ``` inside\n" {
		t.Errorf("Body = %q", blk.Body)
	}
}

func TestExtractIndented(t *testing.T) {
	store := NewStore()
	in := "para\n\n    code line\n    more\n\nafter\n"
	out := Extract(in, store, 4)

	want := "para\n\n" + IndentedMarker + "\n\nafter\n"
	if out != want {
		t.Fatalf("out = %q, want %q", out, want)
	}
	blk, ok := store.NextIndented()
	if !ok {
		t.Fatal("NextIndented 下溢")
	}
	if blk.Body != "code line\nmore\n" {
		t.Errorf("Body = %q", blk.Body)
	}
}

func TestExtractIndentedInteriorBlank(t *testing.T) {
	store := NewStore()
	in := "    a\n\n    b\n"
	out := Extract(in, store, 4)
	if strings.Count(out, IndentedMarker) != 1 {
		t.Fatalf("内部空行应合并为单块: %q", out)
	}
	blk, _ := store.NextIndented()
	if blk.Body != "a\n\nb\n" {
		t.Errorf("Body = %q", blk.Body)
	}
}

func TestExtractIndentedNeedsBlankBoundary(t *testing.T) {
	store := NewStore()
	in := "text\n    hanging indent\n"
	out := Extract(in, store, 4)
	if strings.Contains(out, IndentedMarker) {
		t.Fatalf("紧跟段落的缩进行不是代码块: %q", out)
	}
}

func TestExtractTabIndent(t *testing.T) {
	store := NewStore()
	in := "\tcode\n"
	out := Extract(in, store, 4)
	if !strings.Contains(out, IndentedMarker) {
		t.Fatalf("制表符缩进没有被抽取: %q", out)
	}
	blk, _ := store.NextIndented()
	if blk.Body != "code\n" {
		t.Errorf("Body = %q", blk.Body)
	}
}

func TestStoreUnderrun(t *testing.T) {
	store := NewStore()
	if _, ok := store.NextFenced(); ok {
		t.Fatal("空队列不应返回块")
	}
	if _, ok := store.NextIndented(); ok {
		t.Fatal("空队列不应返回块")
	}
	if store.Underruns() != 2 {
		t.Errorf("Underruns = %d", store.Underruns())
	}
}
