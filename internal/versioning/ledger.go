// Package versioning owns the retention policy for note edit history:
// a bounded, append-only ledger with FIFO eviction. Save logic appends
// through a Ledger so the cap can change without touching the services.
package versioning

import (
	"collabnote-be/internal/entity"

	"github.com/google/uuid"
)

// DefaultLimit is how many content snapshots a note retains.
const DefaultLimit = 10

type Ledger struct {
	limit int
}

func NewLedger(limit int) Ledger {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Ledger{limit: limit}
}

func (l Ledger) Limit() int {
	return l.limit
}

// Append returns history with entry added at the newest end, evicting
// the oldest entries beyond the limit. The input slice is not mutated.
func (l Ledger) Append(history []entity.NoteVersion, entry entity.NoteVersion) []entity.NoteVersion {
	out := make([]entity.NoteVersion, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, entry)
	if len(out) > l.limit {
		out = out[len(out)-l.limit:]
	}
	return out
}

// Find looks up a ledger entry by its id.
func (l Ledger) Find(history []entity.NoteVersion, id uuid.UUID) (entity.NoteVersion, bool) {
	for _, v := range history {
		if v.Id == id {
			return v, true
		}
	}
	return entity.NoteVersion{}, false
}
