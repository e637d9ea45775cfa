package clinic

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"clinicstats/internal/core/id"
	"clinicstats/internal/core/security"
)

var tracer = otel.Tracer("clinicstats/clinic")

// LoadOptions selects which entity sets a snapshot needs.
type LoadOptions struct {
	Visits   bool
	Payments bool
}

// Loader fetches a fresh, scope-filtered Snapshot for one computation.
type Loader struct {
	repo Repository
}

// NewLoader creates a snapshot loader over the data-access collaborator.
func NewLoader(repo Repository) *Loader {
	return &Loader{repo: repo}
}

// Load fetches branches and patients visible in scope plus the requested
// visits/payments. An empty scope yields an empty snapshot without touching storage.
func (l *Loader) Load(ctx context.Context, scope security.BranchScope, opts LoadOptions) (*Snapshot, error) {
	ctx, span := tracer.Start(ctx, "clinic.load_snapshot",
		trace.WithAttributes(
			attribute.String("scope", scope.String()),
			attribute.Bool("visits", opts.Visits),
			attribute.Bool("payments", opts.Payments),
		))
	defer span.End()

	snap := &Snapshot{}
	if scope.IsEmpty() {
		return snap, nil
	}

	branches, err := l.repo.ListBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	for _, b := range branches {
		if scope.Contains(b.ID) {
			snap.Branches = append(snap.Branches, b)
		}
	}

	snap.Patients, err = l.repo.ListPatients(ctx, scope.BranchFilter())
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	branchIDs := scopedBranchIDs(scope, snap.Branches)

	if opts.Payments {
		for _, bid := range branchIDs {
			payments, err := l.repo.ListPaymentsByBranch(ctx, bid)
			if err != nil {
				return nil, fmt.Errorf("list payments for branch %s: %w", bid, err)
			}
			snap.Payments = append(snap.Payments, payments...)
		}
	}

	if opts.Visits {
		for _, bid := range branchIDs {
			visits, err := l.repo.ListVisitsByBranch(ctx, bid)
			if err != nil {
				return nil, fmt.Errorf("list visits for branch %s: %w", bid, err)
			}
			snap.Visits = append(snap.Visits, visits...)
		}
	}

	span.SetAttributes(
		attribute.Int("patients", len(snap.Patients)),
		attribute.Int("payments", len(snap.Payments)),
		attribute.Int("visits", len(snap.Visits)),
	)
	return snap, nil
}

// scopedBranchIDs lists the branches whose payments/visits must be fetched.
// A single-branch scope always includes its branch even if the branch row is missing.
func scopedBranchIDs(scope security.BranchScope, branches []Branch) []id.ID {
	if bid, ok := scope.BranchID(); ok {
		return []id.ID{bid}
	}
	ids := make([]id.ID, 0, len(branches))
	for _, b := range branches {
		ids = append(ids, b.ID)
	}
	return ids
}
