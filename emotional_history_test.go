package personasdk

import (
	"sync"
	"testing"
	"time"
)

func TestHistoryAppendAndLen(t *testing.T) {
	log := NewEmotionalHistoryLog()
	if log.Len() != 0 {
		t.Errorf("new log must be empty, got %d", log.Len())
	}
	log.Append(EmotionalObservation{PrimaryEmotion: "joy", Intensity: 0.8, Timestamp: time.Now()})
	if log.Len() != 1 {
		t.Errorf("expected 1 observation, got %d", log.Len())
	}
}

func TestHistoryWindow(t *testing.T) {
	log := NewEmotionalHistoryLog()
	for i := 0; i < 15; i++ {
		log.Append(EmotionalObservation{PrimaryEmotion: "joy", Intensity: float64(i) / 15})
	}

	window := log.Window(10)
	if len(window) != 10 {
		t.Fatalf("expected window of 10, got %d", len(window))
	}
	if window[0].Intensity != float64(5)/15 {
		t.Errorf("window must hold the most recent observations, got first intensity %v", window[0].Intensity)
	}

	short := NewEmotionalHistoryLog()
	short.Append(EmotionalObservation{PrimaryEmotion: "joy"})
	if got := short.Window(10); len(got) != 1 {
		t.Errorf("short log window returns everything, got %d", len(got))
	}
}

func TestHistoryReturnsCopies(t *testing.T) {
	log := NewEmotionalHistoryLog()
	log.Append(EmotionalObservation{PrimaryEmotion: "joy"})

	all := log.All()
	all[0].PrimaryEmotion = "mutated"
	if log.All()[0].PrimaryEmotion != "joy" {
		t.Error("All must return a copy, not the backing slice")
	}
}

func TestHistoryConcurrentAppends(t *testing.T) {
	log := NewEmotionalHistoryLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Append(EmotionalObservation{PrimaryEmotion: "joy"})
			log.Window(10)
		}()
	}
	wg.Wait()
	if log.Len() != 50 {
		t.Errorf("expected 50 observations, got %d", log.Len())
	}
}
