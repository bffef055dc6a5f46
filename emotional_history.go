package personasdk

import (
	"sync"
	"time"
)

// SecondaryEmotion is a weaker emotion detected alongside the primary one.
type SecondaryEmotion struct {
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`
}

// EmotionalObservation is one emotional reading of the user. Observations are
// never mutated after being appended to the log.
type EmotionalObservation struct {
	PrimaryEmotion string             `json:"primary_emotion"`
	Intensity      float64            `json:"intensity"` // 0.0-1.0
	Secondary      []SecondaryEmotion `json:"secondary,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
}

// EmotionalHistoryLog is an append-only log of emotional observations.
//
// The full log is retained for potential replay; consumers that only need the
// recent signal read a bounded window (the adaptation engine reads the last 10).
type EmotionalHistoryLog struct {
	mu           sync.RWMutex
	observations []EmotionalObservation
}

// NewEmotionalHistoryLog creates an empty log.
func NewEmotionalHistoryLog() *EmotionalHistoryLog {
	return &EmotionalHistoryLog{}
}

// Append adds an observation to the log.
func (l *EmotionalHistoryLog) Append(obs EmotionalObservation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observations = append(l.observations, obs)
}

// Len returns the total number of observations ever appended.
func (l *EmotionalHistoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.observations)
}

// Window returns a copy of the last n observations (all of them when the log
// is shorter).
func (l *EmotionalHistoryLog) Window(n int) []EmotionalObservation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	start := len(l.observations) - n
	if start < 0 {
		start = 0
	}
	window := make([]EmotionalObservation, len(l.observations)-start)
	copy(window, l.observations[start:])
	return window
}

// All returns a copy of the entire log, oldest first.
func (l *EmotionalHistoryLog) All() []EmotionalObservation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	all := make([]EmotionalObservation, len(l.observations))
	copy(all, l.observations)
	return all
}
