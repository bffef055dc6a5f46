package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	personasdk "github.com/cyberFlowTech/persona-engine-sdk-go"
)

// EmbeddingFunc turns text into a vector. The same function must be used for
// indexing and querying.
type EmbeddingFunc func(ctx context.Context, text string) ([]float32, error)

// QdrantSemanticIndex provides embedding-based SemanticSearch backed by
// Qdrant's REST API. Like ChromemSemanticIndex it indexes content only;
// compose with a record store via HybridMemoryStore.
type QdrantSemanticIndex struct {
	baseURL    string
	collection string
	apiKey     string
	client     *http.Client
	embed      EmbeddingFunc
}

// QdrantConfig configures the Qdrant index.
type QdrantConfig struct {
	BaseURL    string // e.g. "http://localhost:6333"
	Collection string // collection name, default "persona_memory"
	APIKey     string // optional API key
}

// NewQdrantSemanticIndex creates an index. The embedding func is required.
func NewQdrantSemanticIndex(config QdrantConfig, embed EmbeddingFunc) *QdrantSemanticIndex {
	if config.Collection == "" {
		config.Collection = "persona_memory"
	}
	return &QdrantSemanticIndex{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		collection: config.Collection,
		apiKey:     config.APIKey,
		client:     &http.Client{},
		embed:      embed,
	}
}

func (x *QdrantSemanticIndex) url(path string) string {
	return fmt.Sprintf("%s/collections/%s%s", x.baseURL, x.collection, path)
}

func (x *QdrantSemanticIndex) doRequest(ctx context.Context, method, url string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("qdrant %s %s: %d %s", method, url, resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// Add embeds and upserts records as points, payload carrying the fields
// needed to reconstruct a record at query time.
func (x *QdrantSemanticIndex) Add(ctx context.Context, records ...personasdk.MemoryRecord) error {
	points := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		vector, err := x.embed(ctx, r.Content)
		if err != nil {
			return fmt.Errorf("embed record %s: %w", r.ID, err)
		}
		points = append(points, map[string]interface{}{
			"id":     r.ID,
			"vector": vector,
			"payload": map[string]interface{}{
				"owner_id":   r.OwnerID,
				"content":    r.Content,
				"created_at": r.CreatedAt.Format(time.RFC3339Nano),
				"tags":       r.EmotionalTags,
				"confidence": r.Confidence,
			},
		})
	}

	_, err := x.doRequest(ctx, "PUT", x.url("/points"), map[string]interface{}{
		"points": points,
	})
	return err
}

// SemanticSearch embeds the query text and runs an owner-filtered vector
// search, mapping points back to records.
func (x *QdrantSemanticIndex) SemanticSearch(ctx context.Context, q personasdk.SemanticSearchQuery) ([]personasdk.SemanticHit, error) {
	vector, err := x.embed(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	topK := q.MaxResults
	if topK <= 0 {
		topK = personasdk.DefaultMaxResults
	}
	body := map[string]interface{}{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
		"filter": map[string]interface{}{
			"must": []map[string]interface{}{
				{
					"key":   "owner_id",
					"match": map[string]interface{}{"value": q.OwnerID},
				},
			},
		},
	}

	respBody, err := x.doRequest(ctx, "POST", x.url("/points/search"), body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result []struct {
			ID      interface{}            `json:"id"`
			Score   float64                `json:"score"`
			Payload map[string]interface{} `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}

	var hits []personasdk.SemanticHit
	for _, res := range resp.Result {
		if res.Score < q.SimilarityFloor {
			continue
		}
		record := personasdk.MemoryRecord{
			ID:      fmt.Sprintf("%v", res.ID),
			OwnerID: q.OwnerID,
		}
		if content, ok := res.Payload["content"].(string); ok {
			record.Content = content
		}
		if createdAt, ok := res.Payload["created_at"].(string); ok {
			record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		}
		if confidence, ok := res.Payload["confidence"].(float64); ok {
			record.Confidence = confidence
		}
		if tags, ok := res.Payload["tags"].([]interface{}); ok {
			for _, t := range tags {
				if tag, ok := t.(string); ok {
					record.EmotionalTags = append(record.EmotionalTags, tag)
				}
			}
		}
		if q.TimeRange != nil && !q.TimeRange.Contains(record.CreatedAt) {
			continue
		}
		hits = append(hits, personasdk.SemanticHit{Record: record, Relevance: res.Score})
	}
	return hits, nil
}

// Delete removes points by record ID.
func (x *QdrantSemanticIndex) Delete(ctx context.Context, ids []string) error {
	_, err := x.doRequest(ctx, "POST", x.url("/points/delete"), map[string]interface{}{
		"points": ids,
	})
	return err
}

// DeleteOwner removes all of an owner's points.
func (x *QdrantSemanticIndex) DeleteOwner(ctx context.Context, ownerID string) error {
	body := map[string]interface{}{
		"filter": map[string]interface{}{
			"must": []map[string]interface{}{
				{
					"key":   "owner_id",
					"match": map[string]interface{}{"value": ownerID},
				},
			},
		},
	}
	_, err := x.doRequest(ctx, "POST", x.url("/points/delete"), body)
	return err
}
