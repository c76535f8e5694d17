package postgres

import "github.com/google/uuid"

// distinctUUIDs returns ids with duplicates removed, preserving first-seen
// order. Join-table inserts and existence checks both work on the distinct
// set: validation compares matched rows against distinct input, and composite
// primary keys reject duplicate inserts anyway.
func distinctUUIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
