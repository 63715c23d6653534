package service

import (
	"reflect"
	"strings"
	"testing"
)

const samplePage = `The quick brown fox jumps over the lazy dog. It was a bright
morning and the air was cool. Nothing about the scene suggested
anything unusual, and yet the fox kept running.

The dog, for its part, did not move at all.`

func TestAnalyzePage_Deterministic(t *testing.T) {
	s := NewReadabilityService()
	first := s.AnalyzePage("doc-1", 1, samplePage)
	second := s.AnalyzePage("doc-1", 1, samplePage)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input produced different analyses:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzePage_ScoreWithinBounds(t *testing.T) {
	s := NewReadabilityService()
	inputs := []string{
		samplePage,
		"Short.",
		strings.Repeat("antidisestablishmentarianism polysyllabic incomprehensibility ", 50),
		"HTTP TCP UDP gRPC v1.2.3 IPv6 JSON-RPC base64-encoded payloads everywhere",
		strings.Repeat("a ", 1000),
	}
	for _, text := range inputs {
		a := s.AnalyzePage("doc-1", 1, text)
		if a.DifficultyScore < 1 || a.DifficultyScore > 5 {
			t.Errorf("score %f out of [1,5] for input %.20q", a.DifficultyScore, text)
		}
		if a.DifficultyLevel < 1 || a.DifficultyLevel > 5 {
			t.Errorf("level %d out of [1,5] for input %.20q", a.DifficultyLevel, text)
		}
	}
}

func TestAnalyzePage_EmptyTextFallback(t *testing.T) {
	s := NewReadabilityService()
	for _, text := range []string{"", "   ", "\n\n\t"} {
		a := s.AnalyzePage("doc-1", 7, text)
		if !a.Fallback {
			t.Errorf("expected fallback for %q", text)
		}
		if a.DifficultyLevel != 3 {
			t.Errorf("fallback level = %d, want 3", a.DifficultyLevel)
		}
		if a.WordCount != 0 || a.SentenceCount != 0 {
			t.Errorf("fallback counts should be zero, got words=%d sentences=%d", a.WordCount, a.SentenceCount)
		}
		if a.PageNumber != 7 {
			t.Errorf("fallback page = %d, want 7", a.PageNumber)
		}
	}
}

func TestDifficultyLevel_Thresholds(t *testing.T) {
	cases := []struct {
		score float64
		level int
	}{
		{1.0, 1},
		{1.5, 1},
		{1.51, 2},
		{2.5, 2},
		{3.0, 3},
		{3.5, 3},
		{4.5, 4},
		{4.51, 5},
		{5.0, 5},
	}
	for _, c := range cases {
		if got := DifficultyLevel(c.score); got != c.level {
			t.Errorf("DifficultyLevel(%f) = %d, want %d", c.score, got, c.level)
		}
	}
}

func TestCountSyllables(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"hello", 2},
		{"beautiful", 3},
		{"the", 1},       // silent -e stripped, never below 1
		{"table", 2},     // -le suffix keeps its vowel
		{"requested", 2}, // -ed stripped
		{"", 1},
	}
	for _, c := range cases {
		if got := CountSyllables(c.word); got != c.want {
			t.Errorf("CountSyllables(%q) = %d, want %d", c.word, got, c.want)
		}
	}
}

func TestIsTechnicalToken(t *testing.T) {
	technical := []string{"HTTP", "v2", "IPv6", "read-only", "parseJSON", "base64"}
	for _, w := range technical {
		if !isTechnicalToken(w) {
			t.Errorf("expected %q to be technical", w)
		}
	}
	plain := []string{"hello", "Morning", "running", "a"}
	for _, w := range plain {
		if isTechnicalToken(w) {
			t.Errorf("expected %q to be plain", w)
		}
	}
}

func TestBandScore_Monotonic(t *testing.T) {
	prev := 0.0
	for v := 0.0; v <= 40; v += 0.5 {
		got := bandScore(v, 10, 20, 30)
		if got < prev {
			t.Fatalf("bandScore not monotonic at %f: %f < %f", v, got, prev)
		}
		if got < 1 || got > 5 {
			t.Fatalf("bandScore(%f) = %f out of [1,5]", v, got)
		}
		prev = got
	}
}
