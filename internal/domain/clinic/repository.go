package clinic

import (
	"context"

	"clinicstats/internal/core/id"
)

// Repository is the data-access collaborator the engine reads from.
// Reads are assumed consistent; no transactional guarantees are required.
type Repository interface {
	// ListPatients returns patients of one branch, or of every branch when branchID is nil.
	ListPatients(ctx context.Context, branchID *id.ID) ([]Patient, error)

	ListPaymentsByBranch(ctx context.Context, branchID id.ID) ([]Payment, error)
	ListPaymentsByPatient(ctx context.Context, patientID id.ID) ([]Payment, error)

	ListVisitsByBranch(ctx context.Context, branchID id.ID) ([]Visit, error)
	ListVisitsByPatient(ctx context.Context, patientID id.ID) ([]Visit, error)

	ListBranches(ctx context.Context) ([]Branch, error)
}
