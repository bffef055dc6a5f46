package personasdk

import (
	"strings"
	"testing"
	"time"
)

func TestExtractThemes(t *testing.T) {
	themes := ExtractThemes("My partner and I talked about my career and our health")
	want := []string{"relationship", "career", "health"}
	if len(themes) != len(want) {
		t.Fatalf("expected %v, got %v", want, themes)
	}
	for i := range want {
		if themes[i] != want[i] {
			t.Errorf("themes[%d] = %q, want %q", i, themes[i], want[i])
		}
	}
}

func TestExtractThemesDeduplicates(t *testing.T) {
	themes := ExtractThemes("work work job career business")
	if len(themes) != 1 || themes[0] != "career" {
		t.Errorf("expected single career theme, got %v", themes)
	}
}

func TestRelatedTopics(t *testing.T) {
	related := RelatedTopics("my love life")
	if related[0] != "love" {
		t.Errorf("expected the matched key first, got %v", related)
	}
	if len(related) < 2 {
		t.Errorf("expected the related cluster, got %v", related)
	}

	fallback := RelatedTopics("quantum chromodynamics")
	if len(fallback) != 1 || fallback[0] != "quantum chromodynamics" {
		t.Errorf("unmatched topics fall back to themselves, got %v", fallback)
	}
}

func TestEmotionalContextTags(t *testing.T) {
	tags := EmotionalContextTags("dealing with loss")
	found := false
	for _, tag := range tags {
		if tag == "grief" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected grief among loss tags, got %v", tags)
	}

	def := EmotionalContextTags("weather")
	if len(def) != 3 || def[0] != "reflection" {
		t.Errorf("expected reflective default, got %v", def)
	}
}

func TestMemoryInsight(t *testing.T) {
	if got := MemoryInsight(nil); got != "" {
		t.Errorf("no records yields no insight, got %q", got)
	}

	records := []MemoryRecord{
		{Content: "we talked about her job and career plans"},
		{Content: "her partner and family visited"},
	}
	got := MemoryInsight(records)
	if !strings.Contains(got, "career") || !strings.Contains(got, "relationship") {
		t.Errorf("expected themed insight, got %q", got)
	}

	plain := MemoryInsight([]MemoryRecord{{Content: "an ordinary tuesday"}})
	if !strings.Contains(plain, "meaningful topics") {
		t.Errorf("expected fallback line, got %q", plain)
	}
}

func TestRankByTopicRelevance(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	direct := MemoryRecord{Content: "we discussed her career change", CreatedAt: now.Add(-60 * 24 * time.Hour)}
	unrelated := MemoryRecord{Content: "a walk in the rain", CreatedAt: now.Add(-60 * 24 * time.Hour)}
	recent := MemoryRecord{Content: "another walk in the rain", CreatedAt: now.Add(-time.Hour)}

	ranked := RankByTopicRelevance([]MemoryRecord{unrelated, direct, recent}, "career", now)
	if ranked[0].Content != direct.Content {
		t.Errorf("direct topic match should rank first, got %q", ranked[0].Content)
	}
	if ranked[1].Content != recent.Content {
		t.Errorf("recency bonus should beat an old unrelated record, got %q", ranked[1].Content)
	}
}
