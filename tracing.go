package personasdk

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ──────────────────────────────────────────────
// Tracing — spans around retrieval and adaptation
// ──────────────────────────────────────────────

// SpanKind classifies a span.
type SpanKind string

const (
	SpanKindRetrieval  SpanKind = "retrieval"
	SpanKindStrategy   SpanKind = "strategy"
	SpanKindAdaptation SpanKind = "adaptation"
	SpanKindPhase      SpanKind = "phase"
	SpanKindCustom     SpanKind = "custom"
)

// Span is a single unit of work. A retrieval produces one root span with a
// child span per strategy.
type Span struct {
	SpanID     string                 `json:"span_id"`
	TraceID    string                 `json:"trace_id"`
	ParentID   string                 `json:"parent_id,omitempty"`
	Name       string                 `json:"name"`
	Kind       SpanKind               `json:"kind"`
	StartTime  time.Time              `json:"start_time"`
	EndTime    time.Time              `json:"end_time,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Children   []*Span                `json:"children,omitempty"`
	Status     string                 `json:"status"` // "running", "ok", "error"
	Error      string                 `json:"error,omitempty"`
	mu         sync.Mutex
}

// DurationMs returns the span duration in milliseconds.
func (s *Span) DurationMs() float64 {
	end := s.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	return float64(end.Sub(s.StartTime).Microseconds()) / 1000.0
}

// SetAttribute sets a key-value attribute on the span.
func (s *Span) SetAttribute(key string, value interface{}) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Attributes == nil {
		s.Attributes = make(map[string]interface{})
	}
	s.Attributes[key] = value
}

func (s *Span) addChild(child *Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Children = append(s.Children, child)
}

func (s *Span) end(status, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EndTime = time.Now()
	s.Status = status
	s.Error = errMsg
}

// SpanExporter exports finished root spans.
type SpanExporter interface {
	Export(span *Span)
}

// NullSpanExporter discards all spans.
type NullSpanExporter struct{}

func (e *NullSpanExporter) Export(span *Span) {}

// ConsoleSpanExporter logs spans through zerolog.
type ConsoleSpanExporter struct {
	Logger zerolog.Logger
}

func (e *ConsoleSpanExporter) Export(span *Span) {
	e.Logger.Debug().
		Str("kind", string(span.Kind)).
		Str("name", span.Name).
		Str("status", span.Status).
		Float64("duration_ms", span.DurationMs()).
		Int("children", len(span.Children)).
		Msg("span")
}

// CallbackSpanExporter calls a function for each root span.
type CallbackSpanExporter struct {
	Fn func(span *Span)
}

func (e *CallbackSpanExporter) Export(span *Span) {
	e.Fn(span)
}

// Tracer creates spans with explicit parenting, safe for concurrent strategy
// fan-out. A nil *Tracer is valid and produces no spans.
type Tracer struct {
	exporter SpanExporter
	enabled  bool
}

// NewTracer creates a tracer. A nil exporter falls back to NullSpanExporter.
func NewTracer(exporter SpanExporter, enabled bool) *Tracer {
	if exporter == nil {
		exporter = &NullSpanExporter{}
	}
	return &Tracer{exporter: exporter, enabled: enabled}
}

// StartSpan starts a root span with a fresh trace ID.
func (t *Tracer) StartSpan(name string, kind SpanKind) *Span {
	if t == nil || !t.enabled {
		return nil
	}
	return &Span{
		SpanID:    randomHex(6),
		TraceID:   randomHex(16),
		Name:      name,
		Kind:      kind,
		StartTime: time.Now(),
		Status:    "running",
	}
}

// StartChild starts a child of parent. A nil parent starts a root span.
func (t *Tracer) StartChild(parent *Span, name string, kind SpanKind) *Span {
	if t == nil || !t.enabled {
		return nil
	}
	if parent == nil {
		return t.StartSpan(name, kind)
	}
	child := &Span{
		SpanID:    randomHex(6),
		TraceID:   parent.TraceID,
		ParentID:  parent.SpanID,
		Name:      name,
		Kind:      kind,
		StartTime: time.Now(),
		Status:    "running",
	}
	parent.addChild(child)
	return child
}

// EndSpan finishes a span; root spans are exported.
func (t *Tracer) EndSpan(span *Span, status, errMsg string) {
	if t == nil || span == nil {
		return
	}
	span.end(status, errMsg)
	if span.ParentID == "" {
		t.exporter.Export(span)
	}
}

// RetrievalSpan starts the root span of one retrieval call.
func (t *Tracer) RetrievalSpan(topic, ownerID string) *Span {
	span := t.StartSpan("retrieve_relevant_memories", SpanKindRetrieval)
	span.SetAttribute("topic", topic)
	span.SetAttribute("owner_id", ownerID)
	return span
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
