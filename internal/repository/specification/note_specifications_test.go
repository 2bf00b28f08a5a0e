package specification

import (
	"testing"

	"collabnote-be/internal/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	return db
}

// The scored ordering must survive into the generated SQL; DB.Order
// drops expression arguments, which is why OrderByRelevance goes
// through an explicit clause.
func TestOrderByRelevanceGeneratesScoredOrderBy(t *testing.T) {
	db := newDryRunDB(t)

	stmt := OrderByRelevance{Query: "hello"}.
		Apply(db.Model(&model.Note{})).
		Find(&[]model.Note{}).
		Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "ORDER BY")
	assert.Contains(t, sql, "CASE WHEN title ILIKE ? THEN 2 ELSE 0 END")
	assert.Contains(t, sql, "CASE WHEN content ILIKE ? THEN 1 ELSE 0 END")
	assert.Contains(t, sql, "updated_at DESC")
	assert.Contains(t, stmt.Vars, "%hello%")
}

func TestTitleOrContentMatchGeneratesIlike(t *testing.T) {
	db := newDryRunDB(t)

	stmt := TitleOrContentMatch{Query: "hello"}.
		Apply(db.Model(&model.Note{})).
		Find(&[]model.Note{}).
		Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "title ILIKE ?")
	assert.Contains(t, sql, "content ILIKE ?")
	assert.Contains(t, stmt.Vars, "%hello%")
}
