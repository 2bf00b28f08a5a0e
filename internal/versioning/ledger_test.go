package versioning

import (
	"fmt"
	"testing"
	"time"

	"collabnote-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLedgerAppendKeepsMostRecent(t *testing.T) {
	ledger := NewLedger(DefaultLimit)

	tests := []struct {
		appends   int
		wantLen   int
		wantFirst string
		wantLast  string
	}{
		{appends: 1, wantLen: 1, wantFirst: "edit 1", wantLast: "edit 1"},
		{appends: 5, wantLen: 5, wantFirst: "edit 1", wantLast: "edit 5"},
		{appends: 10, wantLen: 10, wantFirst: "edit 1", wantLast: "edit 10"},
		{appends: 11, wantLen: 10, wantFirst: "edit 2", wantLast: "edit 11"},
		{appends: 25, wantLen: 10, wantFirst: "edit 16", wantLast: "edit 25"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d appends", tt.appends), func(t *testing.T) {
			var history []entity.NoteVersion
			for i := 1; i <= tt.appends; i++ {
				history = ledger.Append(history, entity.NoteVersion{
					Id:        uuid.New(),
					Content:   fmt.Sprintf("edit %d", i),
					Timestamp: time.Now(),
				})
			}

			assert.Len(t, history, tt.wantLen)
			assert.Equal(t, tt.wantFirst, history[0].Content)
			assert.Equal(t, tt.wantLast, history[len(history)-1].Content)
		})
	}
}

func TestLedgerAppendDoesNotMutateInput(t *testing.T) {
	ledger := NewLedger(3)

	original := []entity.NoteVersion{
		{Id: uuid.New(), Content: "a"},
		{Id: uuid.New(), Content: "b"},
	}

	out := ledger.Append(original, entity.NoteVersion{Id: uuid.New(), Content: "c"})

	assert.Len(t, original, 2)
	assert.Len(t, out, 3)
	assert.Equal(t, "a", original[0].Content)
}

func TestLedgerFind(t *testing.T) {
	ledger := NewLedger(DefaultLimit)

	target := entity.NoteVersion{Id: uuid.New(), Content: "wanted"}
	history := []entity.NoteVersion{
		{Id: uuid.New(), Content: "other"},
		target,
	}

	found, ok := ledger.Find(history, target.Id)
	assert.True(t, ok)
	assert.Equal(t, "wanted", found.Content)

	_, ok = ledger.Find(history, uuid.New())
	assert.False(t, ok)
}

func TestNewLedgerDefaultsOnInvalidLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NewLedger(0).Limit())
	assert.Equal(t, DefaultLimit, NewLedger(-5).Limit())
}
