package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	personasdk "github.com/cyberFlowTech/persona-engine-sdk-go"
)

// MySQLMemoryStore implements personasdk.MemoryStore using MySQL.
//
// Records live in one table (auto-created if AutoMigrate is true):
//   - {prefix}_records: (id, owner_id, content, created_at, tags, confidence)
type MySQLMemoryStore struct {
	db     *sql.DB
	prefix string
}

// MySQLStoreConfig configures the MySQL store.
type MySQLStoreConfig struct {
	Prefix      string // table prefix, default "persona_memory"
	AutoMigrate bool   // create table if not exist, default true
}

// NewMySQLMemoryStore creates a MemoryStore backed by MySQL.
// The sql.DB must be already opened with a MySQL driver.
func NewMySQLMemoryStore(db *sql.DB, config ...MySQLStoreConfig) (*MySQLMemoryStore, error) {
	cfg := MySQLStoreConfig{Prefix: "persona_memory", AutoMigrate: true}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "persona_memory"
	}

	s := &MySQLMemoryStore{db: db, prefix: cfg.Prefix}
	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			return nil, fmt.Errorf("auto-migrate failed: %w", err)
		}
	}
	return s, nil
}

func (s *MySQLMemoryStore) table() string { return s.prefix + "_records" }

func (s *MySQLMemoryStore) migrate() error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         VARCHAR(64)  NOT NULL,
		owner_id   VARCHAR(255) NOT NULL,
		content    LONGTEXT     NOT NULL,
		created_at DATETIME(6)  NOT NULL,
		tags       TEXT         NOT NULL,
		confidence DOUBLE       NOT NULL,
		PRIMARY KEY (id),
		KEY idx_owner_created (owner_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, s.table())

	_, err := s.db.Exec(ddl)
	return err
}

// Add inserts records.
func (s *MySQLMemoryStore) Add(ctx context.Context, records ...personasdk.MemoryRecord) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (id, owner_id, content, created_at, tags, confidence) VALUES (?, ?, ?, ?, ?, ?)",
		s.table(),
	)
	for _, r := range records {
		tags, err := json.Marshal(r.EmotionalTags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", r.ID, err)
		}
		if _, err := s.db.ExecContext(ctx, q, r.ID, r.OwnerID, r.Content, r.CreatedAt.UTC(), string(tags), r.Confidence); err != nil {
			return fmt.Errorf("insert record %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *MySQLMemoryStore) loadOwner(ctx context.Context, ownerID string, tr *personasdk.TimeRange) ([]personasdk.MemoryRecord, error) {
	q := fmt.Sprintf("SELECT id, owner_id, content, created_at, tags, confidence FROM %s WHERE owner_id=?", s.table())
	args := []interface{}{ownerID}
	if tr != nil {
		if !tr.Start.IsZero() {
			q += " AND created_at >= ?"
			args = append(args, tr.Start.UTC())
		}
		if !tr.End.IsZero() {
			q += " AND created_at <= ?"
			args = append(args, tr.End.UTC())
		}
	}
	q += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []personasdk.MemoryRecord
	for rows.Next() {
		var r personasdk.MemoryRecord
		var createdAt time.Time
		var tags string
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Content, &createdAt, &tags, &r.Confidence); err != nil {
			return nil, err
		}
		r.CreatedAt = createdAt
		if err := json.Unmarshal([]byte(tags), &r.EmotionalTags); err != nil {
			return nil, fmt.Errorf("unmarshal tags for %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Query returns the owner's records matching every filter of q. Time bounds
// run in SQL; content and tag filters run in Go.
func (s *MySQLMemoryStore) Query(ctx context.Context, q personasdk.MemoryQuery) ([]personasdk.MemoryRecord, error) {
	records, err := s.loadOwner(ctx, q.OwnerID, q.TimeRange)
	if err != nil {
		return nil, err
	}
	var matched []personasdk.MemoryRecord
	for _, r := range records {
		if !q.Matches(r) {
			continue
		}
		matched = append(matched, r)
		if q.Limit > 0 && len(matched) >= q.Limit {
			break
		}
	}
	return matched, nil
}

// SemanticSearch ranks the owner's records by keyword relevance. For
// embedding-based similarity compose with a semantic index via
// HybridMemoryStore.
func (s *MySQLMemoryStore) SemanticSearch(ctx context.Context, q personasdk.SemanticSearchQuery) ([]personasdk.SemanticHit, error) {
	records, err := s.loadOwner(ctx, q.OwnerID, q.TimeRange)
	if err != nil {
		return nil, err
	}
	var hits []personasdk.SemanticHit
	for _, r := range records {
		rel := personasdk.KeywordRelevance(r.Content, q.Text)
		if rel == 0 || rel < q.SimilarityFloor {
			continue
		}
		hits = append(hits, personasdk.SemanticHit{Record: r, Relevance: rel})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Relevance > hits[j].Relevance
	})
	if q.MaxResults > 0 && len(hits) > q.MaxResults {
		hits = hits[:q.MaxResults]
	}
	return hits, nil
}

// DeleteOwner removes all of an owner's records.
// Useful for GDPR right-to-forget compliance.
func (s *MySQLMemoryStore) DeleteOwner(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE owner_id=?", s.table()), ownerID,
	)
	return err
}

func (s *MySQLMemoryStore) Close() error {
	return s.db.Close()
}

// Compile-time interface check.
var _ personasdk.MemoryStore = (*MySQLMemoryStore)(nil)
