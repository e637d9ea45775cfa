package customstat

import (
	"context"

	"clinicstats/internal/core/id"
)

// ListFilter selects definitions.
// A nil BranchID selects every branch-scoped stat; otherwise only that branch's.
type ListFilter struct {
	BranchID      *id.ID
	IncludeGlobal bool
}

// Repository persists custom stat definitions.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]CustomStat, error)

	// Get returns apperror NotFound when the id does not exist.
	Get(ctx context.Context, statID id.ID) (*CustomStat, error)

	Create(ctx context.Context, stat *CustomStat) error
	Update(ctx context.Context, stat *CustomStat) error
	Delete(ctx context.Context, statID id.ID) error
}
