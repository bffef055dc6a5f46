package personasdk

import (
	"sort"
	"strconv"
)

// ──────────────────────────────────────────────
// Candidate Merger — fan-in, dedup, rank
// ──────────────────────────────────────────────

// DefaultMaxResults caps the merged result list.
const DefaultMaxResults = 15

// dedupKeyRunes is how much of the content participates in the identity key.
const dedupKeyRunes = 50

// MergeCandidates collapses the concatenated candidate stream into the final
// record list:
//
//   - duplicates share the key (first 50 runes of content, creation time);
//     the first occurrence in stream order wins, the duplicate's score and
//     source are discarded
//   - ordering is strictly by recency, most recent CreatedAt first; the
//     per-strategy score is carried on the candidate but deliberately not
//     used as a sort key
//   - output is truncated to DefaultMaxResults after sorting
//
// The sort is stable, so candidates sharing a timestamp keep their relative
// stream order.
func MergeCandidates(candidates []ScoredCandidate) []MemoryRecord {
	return mergeCandidates(candidates, DefaultMaxResults)
}

func mergeCandidates(candidates []ScoredCandidate, maxResults int) []MemoryRecord {
	if len(candidates) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(candidates))
	unique := make([]MemoryRecord, 0, len(candidates))
	for _, c := range candidates {
		key := dedupKey(c.Record)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c.Record)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].CreatedAt.After(unique[j].CreatedAt)
	})

	if maxResults > 0 && len(unique) > maxResults {
		unique = unique[:maxResults]
	}
	return unique
}

func dedupKey(r MemoryRecord) string {
	prefix := r.Content
	if runes := []rune(prefix); len(runes) > dedupKeyRunes {
		prefix = string(runes[:dedupKeyRunes])
	}
	return prefix + "|" + strconv.FormatInt(r.CreatedAt.UnixNano(), 10)
}
