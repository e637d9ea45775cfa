package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clinicstats/internal/core/id"
)

type auditedRow struct {
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

type mockRow struct {
	auditedRow
	ID       id.ID  `db:"id"`
	Name     string `db:"name"`
	BranchID *id.ID `db:"branch_id"`
	Internal string `db:"-"`
	Ignored  string
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[mockRow]()

	assert.Equal(t, []string{"created_by", "created_at", "id", "name", "branch_id"}, cols)
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	branch := id.New()
	row := mockRow{
		auditedRow: auditedRow{CreatedBy: "admin", CreatedAt: now},
		ID:         id.New(),
		Name:       "Amputee share",
		BranchID:   &branch,
		Internal:   "x",
	}

	m := StructToMap(&row)

	assert.Len(t, m, 5)
	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, "Amputee share", m["name"])
	assert.Equal(t, &branch, m["branch_id"])
	assert.Equal(t, "admin", m["created_by"])
	assert.Equal(t, now, m["created_at"])
	assert.NotContains(t, m, "-")
}
