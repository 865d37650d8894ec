package dyn

import "testing"

func TestRegexCompileAndMatch(t *testing.T) {
	r := NewRegex("^ab+c$", "").Regex()
	ok, err := r.Match("abbbc")
	if err != nil || !ok {
		t.Fatalf("match: %v %v", ok, err)
	}
	ok, err = r.Match("xyz")
	if err != nil || ok {
		t.Fatalf("non-match: %v %v", ok, err)
	}
}

func TestRegexFlags(t *testing.T) {
	r := NewRegex("hello", "i").Regex()
	if ok, _ := r.Match("HELLO world"); !ok {
		t.Fatalf("case-insensitive flag ignored")
	}

	multi := NewRegex("^line2$", "m").Regex()
	if ok, _ := multi.Match("line1\nline2"); !ok {
		t.Fatalf("multiline flag ignored")
	}

	if _, err := NewRegex("a", "g").Regex().Compile(); err == nil {
		t.Fatalf("unknown flag accepted")
	}
	if _, err := NewRegex("(unclosed", "").Regex().Compile(); err == nil {
		t.Fatalf("broken pattern accepted")
	}
}

func TestRegexCompileCaches(t *testing.T) {
	r := NewRegex("a+", "").Regex()
	first, err := r.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, _ := r.Compile()
	if first != second {
		t.Fatalf("compile must cache the pattern")
	}
}
