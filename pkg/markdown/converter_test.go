package markdown

import (
	"strings"
	"testing"
)

func TestNotesToHTML_Empty(t *testing.T) {
	if got := NotesToHTML(""); got != "" {
		t.Errorf("NotesToHTML(\"\") = %q", got)
	}
}

func TestNotesToHTML_Emphasis(t *testing.T) {
	got := NotesToHTML("Dùng **kính ngữ** khi nói với *cấp trên*.")
	if !strings.Contains(got, "<b>kính ngữ</b>") {
		t.Errorf("bold not converted: %q", got)
	}
	if !strings.Contains(got, "<i>cấp trên</i>") {
		t.Errorf("italic not converted: %q", got)
	}
}

func TestNotesToHTML_StripsUnsupportedTags(t *testing.T) {
	got := NotesToHTML(`<script>alert("x")</script>plain <div>text</div>`)
	if strings.Contains(got, "<script>") || strings.Contains(got, "<div>") {
		t.Errorf("unsupported tags not stripped: %q", got)
	}
	if !strings.Contains(got, "plain") || !strings.Contains(got, "text") {
		t.Errorf("inner text lost: %q", got)
	}
}

func TestNotesToHTML_KeepsLists(t *testing.T) {
	got := NotesToHTML("- một\n- hai\n")
	if !strings.Contains(got, "<li>") {
		t.Errorf("list items lost: %q", got)
	}
}
