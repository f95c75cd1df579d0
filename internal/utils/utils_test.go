package utils

import (
	"strings"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"URGENT", "urgent"},
		{"Ｕｒｇｅｎｔ", "urgent"},
		{"Straße", "strasse"},
		{"ﬁle", "file"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeywordMatching(t *testing.T) {
	folded := Fold("Please REVIEW the contract ASAP")
	keywords := []string{"asap", "review", "meeting", ""}

	if !ContainsAny(folded, keywords) {
		t.Error("ContainsAny should match")
	}
	if ContainsAny(folded, []string{"meeting", ""}) {
		t.Error("ContainsAny matched an absent keyword")
	}
	if got := CountMatches(folded, keywords); got != 2 {
		t.Errorf("CountMatches = %d, want 2", got)
	}
	got := MatchedKeywords(folded, keywords)
	if len(got) != 2 || got[0] != "asap" || got[1] != "review" {
		t.Errorf("MatchedKeywords = %v", got)
	}
}

func TestTextProcessor(t *testing.T) {
	tp := NewTextProcessor(nil)

	if got := tp.ProcessText("short", 100); got != "short" {
		t.Errorf("short text changed: %q", got)
	}
	if got := tp.ProcessText("anything", 0); got != "anything" {
		t.Errorf("zero limit should not truncate: %q", got)
	}

	truncated := tp.ProcessText(strings.Repeat("a", 20), 10)
	if !strings.HasPrefix(truncated, strings.Repeat("a", 10)) || !strings.HasSuffix(truncated, truncationMarker) {
		t.Errorf("unexpected truncation: %q", truncated)
	}

	// "é" is two bytes; cutting at 2 must not split it
	if got := tp.TruncateText("aéé", 2); got != "a"+truncationMarker {
		t.Errorf("TruncateText split a rune: %q", got)
	}

	if got := tp.SanitizeUTF8("ok\xffok"); got != "okok" {
		t.Errorf("SanitizeUTF8 = %q", got)
	}
}
