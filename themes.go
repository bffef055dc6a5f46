package personasdk

import (
	"sort"
	"strings"
	"time"
)

// ──────────────────────────────────────────────
// Themes — keyword maps for topic expansion and relevance
// ──────────────────────────────────────────────

var thematicKeywords = map[string][]string{
	"relationship": {"relationship", "partner", "friend", "family", "love", "connection", "bond"},
	"career":       {"work", "job", "career", "professional", "business", "success", "achievement"},
	"health":       {"health", "wellness", "body", "mind", "healing", "fitness", "medical"},
	"creativity":   {"art", "music", "writing", "creative", "imagination", "inspiration", "expression"},
	"spirituality": {"spiritual", "soul", "meditation", "mindfulness", "purpose", "meaning", "divine"},
	"growth":       {"growth", "learning", "development", "change", "improvement", "progress", "evolution"},
	"challenge":    {"challenge", "difficulty", "struggle", "obstacle", "problem", "hardship"},
	"celebration":  {"celebration", "achievement", "success", "milestone", "accomplishment", "victory"},
}

var relatedTopicMap = map[string][]string{
	"love":         {"relationship", "heart", "connection", "emotion", "intimacy"},
	"career":       {"work", "job", "professional", "growth", "success", "purpose"},
	"family":       {"parents", "children", "siblings", "home", "support", "bonding"},
	"health":       {"wellness", "body", "mind", "healing", "self-care", "energy"},
	"creativity":   {"art", "writing", "music", "expression", "inspiration", "imagination"},
	"spirituality": {"soul", "meditation", "mindfulness", "purpose", "meaning", "divine"},
	"friendship":   {"connection", "trust", "support", "companionship", "loyalty"},
	"growth":       {"change", "learning", "development", "transformation", "evolution"},
	"challenge":    {"difficulty", "struggle", "obstacle", "resilience", "overcoming"},
	"joy":          {"happiness", "celebration", "gratitude", "blessing", "appreciation"},
}

var emotionalContextMap = map[string][]string{
	"love":       {"joy", "connection", "intimacy", "warmth", "tenderness"},
	"loss":       {"grief", "sadness", "healing", "support", "comfort"},
	"success":    {"pride", "accomplishment", "confidence", "gratitude"},
	"failure":    {"disappointment", "resilience", "learning", "growth"},
	"fear":       {"anxiety", "uncertainty", "protection", "courage"},
	"anger":      {"frustration", "boundaries", "justice", "release"},
	"confusion":  {"uncertainty", "clarity", "guidance", "understanding"},
	"excitement": {"enthusiasm", "anticipation", "energy", "possibility"},
}

// themeOrder keeps ExtractThemes deterministic across map iteration.
var themeOrder = []string{
	"relationship", "career", "health", "creativity",
	"spirituality", "growth", "challenge", "celebration",
}

// ExtractThemes returns the recurring themes whose keywords appear in the
// text, each at most once, in stable order.
func ExtractThemes(text string) []string {
	lower := strings.ToLower(text)
	var themes []string
	for _, theme := range themeOrder {
		for _, keyword := range thematicKeywords[theme] {
			if strings.Contains(lower, keyword) {
				themes = append(themes, theme)
				break
			}
		}
	}
	return themes
}

// RelatedTopics expands a topic cue into its related-term cluster, falling
// back to the topic itself.
func RelatedTopics(topic string) []string {
	lower := strings.ToLower(topic)
	for key, related := range relatedTopicMap {
		if strings.Contains(lower, key) {
			return append([]string{key}, related...)
		}
		for _, rel := range related {
			if strings.Contains(lower, rel) {
				return append([]string{key}, related...)
			}
		}
	}
	return []string{topic}
}

// EmotionalContextTags returns emotional tags associated with a topic cue,
// with a reflective default.
func EmotionalContextTags(topic string) []string {
	lower := strings.ToLower(topic)
	for emotion, tags := range emotionalContextMap {
		if strings.Contains(lower, emotion) {
			return tags
		}
	}
	return []string{"reflection", "understanding", "support"}
}

// MemoryInsight summarizes a retrieved record set as a single reflective line.
func MemoryInsight(records []MemoryRecord) string {
	if len(records) == 0 {
		return ""
	}

	seen := make(map[string]bool)
	var themes []string
	for _, r := range records {
		for _, theme := range ExtractThemes(r.Content) {
			if !seen[theme] {
				seen[theme] = true
				themes = append(themes, theme)
			}
		}
	}

	if len(themes) > 0 {
		if len(themes) > 3 {
			themes = themes[:3]
		}
		return "I remember we've explored themes like " + strings.Join(themes, ", ") + " together."
	}
	return "I remember our conversations have touched on some meaningful topics."
}

// RankByTopicRelevance orders records by a composite topic-relevance score:
// direct topic match, related-term matches, emotional-tag matches, and a
// recency bonus decaying over weeks.
//
// This is an alternative ordering for consumers that want score-based
// ranking; the retrieval path itself orders strictly by recency and does not
// call it.
func RankByTopicRelevance(records []MemoryRecord, topic string, now time.Time) []MemoryRecord {
	lowerTopic := strings.ToLower(topic)
	related := RelatedTopics(topic)
	emotional := EmotionalContextTags(topic)

	type scored struct {
		record MemoryRecord
		score  float64
	}
	items := make([]scored, 0, len(records))
	for _, r := range records {
		content := strings.ToLower(r.Content)
		score := 0.0

		if lowerTopic != "" && strings.Contains(content, lowerTopic) {
			score += 10
		}
		for _, term := range related {
			if strings.Contains(content, strings.ToLower(term)) {
				score += 5
			}
		}
		for _, tag := range emotional {
			if r.HasTag(tag) {
				score += 3
			}
		}

		daysSince := now.Sub(r.CreatedAt).Hours() / 24
		if bonus := 5 - daysSince/7; bonus > 0 {
			score += bonus
		}

		items = append(items, scored{record: r, score: score})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	ranked := make([]MemoryRecord, len(items))
	for i, item := range items {
		ranked[i] = item.record
	}
	return ranked
}
