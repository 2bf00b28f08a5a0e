package textstat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		wantWordCount int
		wantReadTime  int
	}{
		{"empty", "", 0, 0},
		{"whitespace only", "   \n\t ", 0, 0},
		{"two words", "Hello world", 2, 1},
		{"exactly one minute", strings.Repeat("word ", 200), 200, 1},
		{"just over one minute", strings.Repeat("word ", 201), 201, 2},
		{"multiline", "one two\nthree\tfour", 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, minutes := Derive(tt.content)
			assert.Equal(t, tt.wantWordCount, words)
			assert.Equal(t, tt.wantReadTime, minutes)
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	content := "The same content always derives the same stats."
	w1, r1 := Derive(content)
	w2, r2 := Derive(content)
	assert.Equal(t, w1, w2)
	assert.Equal(t, r1, r2)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", ""},
		{"single sentence", "Just one sentence.", "Just one sentence."},
		{
			"takes leading two sentences",
			"First thing. Second thing. Third thing.",
			"First thing. Second thing.",
		},
		{
			"collapses whitespace",
			"Spaced   out.\nNext  line here.",
			"Spaced out. Next line here.",
		},
		{"question and exclamation", "Really? Yes! And more.", "Really? Yes!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.content, 0, 0))
		})
	}
}

func TestSummarizeCapsRunes(t *testing.T) {
	long := strings.Repeat("a", 500) + "."
	got := Summarize(long, 1, 50)
	assert.LessOrEqual(t, len([]rune(got)), 51) // cap plus ellipsis
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestInsights(t *testing.T) {
	got := Insights("storage engine storage engine storage compaction compaction works")
	assert.Len(t, got, 3)
	assert.Equal(t, "Word count: 8", got[0])
	assert.Equal(t, "Estimated read time: 1 min", got[1])
	assert.Equal(t, "Frequent terms: storage, compaction, engine", got[2])
}

func TestInsightsEmptyContent(t *testing.T) {
	assert.Nil(t, Insights(""))
}

func TestTopTermsIgnoresShortWords(t *testing.T) {
	// Terms under four letters never rank.
	got := Insights("a an the cat cat cat database database")
	assert.Equal(t, "Frequent terms: database", got[2])
}
