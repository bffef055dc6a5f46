package personasdk

import (
	"sort"
	"strings"
	"time"
)

// ──────────────────────────────────────────────
// Emotion Detector — lightweight rule-based scoring
// ──────────────────────────────────────────────

// detectionThreshold is the minimum score before an emotion is reported;
// below it the observation is neutral with zero intensity.
const detectionThreshold = 0.3

type weightedKeyword struct {
	keyword string
	weight  float64
}

// EmotionDetector turns free-text input into EmotionalObservations via
// weighted keyword scoring. Deliberately not NLP: deterministic and cheap,
// with differentiated weights to reduce false positives.
type EmotionDetector struct {
	patterns map[string][]weightedKeyword
	now      func() time.Time
}

// NewEmotionDetector creates a detector with the built-in patterns.
func NewEmotionDetector() *EmotionDetector {
	return &EmotionDetector{
		patterns: defaultEmotionPatterns(),
		now:      time.Now,
	}
}

func defaultEmotionPatterns() map[string][]weightedKeyword {
	return map[string][]weightedKeyword{
		"joy": {
			// Lower weight, needs multiple hits (anti-false-positive for sarcasm)
			{keyword: "happy", weight: 0.3}, {keyword: "wonderful", weight: 0.3},
			{keyword: "great", weight: 0.3}, {keyword: "awesome", weight: 0.3},
			{keyword: "love it", weight: 0.3}, {keyword: "delighted", weight: 0.4},
		},
		"sadness": {
			{keyword: "sad", weight: 0.4}, {keyword: "sigh", weight: 0.4},
			{keyword: "disappointed", weight: 0.4}, {keyword: "heartbroken", weight: 0.5},
			{keyword: "miss", weight: 0.3}, {keyword: "lonely", weight: 0.4},
		},
		"anger": {
			{keyword: "angry", weight: 0.5}, {keyword: "furious", weight: 0.5},
			{keyword: "hate", weight: 0.4}, {keyword: "annoyed", weight: 0.4},
			{keyword: "unfair", weight: 0.3},
		},
		"fear": {
			{keyword: "afraid", weight: 0.5}, {keyword: "scared", weight: 0.5},
			{keyword: "terrified", weight: 0.5}, {keyword: "dread", weight: 0.4},
		},
		"anxiety": {
			{keyword: "anxious", weight: 0.5}, {keyword: "worried", weight: 0.4},
			{keyword: "nervous", weight: 0.4}, {keyword: "overwhelmed", weight: 0.4},
			{keyword: "stressed", weight: 0.4},
		},
		"gratitude": {
			{keyword: "thank", weight: 0.4}, {keyword: "grateful", weight: 0.5},
			{keyword: "appreciate", weight: 0.4},
		},
		"hope": {
			{keyword: "hope", weight: 0.4}, {keyword: "looking forward", weight: 0.4},
			{keyword: "optimistic", weight: 0.4},
		},
		"love": {
			{keyword: "love you", weight: 0.5}, {keyword: "adore", weight: 0.4},
			{keyword: "cherish", weight: 0.4},
		},
		"excitement": {
			{keyword: "excited", weight: 0.4}, {keyword: "can't wait", weight: 0.4},
			{keyword: "thrilled", weight: 0.5}, {keyword: "amazing", weight: 0.3},
		},
		"confusion": {
			{keyword: "confused", weight: 0.4}, {keyword: "don't understand", weight: 0.4},
			{keyword: "makes no sense", weight: 0.4}, {keyword: "lost", weight: 0.3},
		},
	}
}

// Detect analyzes user input and returns an observation. Repeated exclamation
// marks boost the top emotion slightly, capped at +0.2.
func (d *EmotionDetector) Detect(userInput string) EmotionalObservation {
	lower := strings.ToLower(userInput)

	scores := make(map[string]float64, len(d.patterns))
	for emotion, keywords := range d.patterns {
		for _, kw := range keywords {
			if strings.Contains(lower, kw.keyword) {
				scores[emotion] += kw.weight
			}
		}
	}

	if exclaim := strings.Count(userInput, "!"); exclaim >= 2 {
		boost := float64(exclaim) * 0.1
		if boost > 0.2 {
			boost = 0.2
		}
		if top := topEmotion(scores); top != "" {
			scores[top] += boost
		}
	}

	primary := topEmotion(scores)
	intensity := clamp01(scores[primary])
	if primary == "" || intensity < detectionThreshold {
		return EmotionalObservation{
			PrimaryEmotion: "neutral",
			Intensity:      0,
			Timestamp:      d.now(),
		}
	}

	var secondary []SecondaryEmotion
	for emotion, score := range scores {
		if emotion == primary || score < detectionThreshold {
			continue
		}
		secondary = append(secondary, SecondaryEmotion{Emotion: emotion, Intensity: clamp01(score)})
	}
	sort.SliceStable(secondary, func(i, j int) bool {
		if secondary[i].Intensity != secondary[j].Intensity {
			return secondary[i].Intensity > secondary[j].Intensity
		}
		return secondary[i].Emotion < secondary[j].Emotion
	})
	if len(secondary) > 3 {
		secondary = secondary[:3]
	}

	return EmotionalObservation{
		PrimaryEmotion: primary,
		Intensity:      intensity,
		Secondary:      secondary,
		Timestamp:      d.now(),
	}
}

// topEmotion returns the highest-scoring emotion, ties broken alphabetically
// for determinism. Empty when no emotion scored.
func topEmotion(scores map[string]float64) string {
	top := ""
	topScore := 0.0
	for emotion, score := range scores {
		if score == 0 {
			continue
		}
		if score > topScore || (score == topScore && (top == "" || emotion < top)) {
			top = emotion
			topScore = score
		}
	}
	return top
}
