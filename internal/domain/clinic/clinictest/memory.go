// Package clinictest provides an in-memory clinic.Repository for tests.
package clinictest

import (
	"context"
	"sync"

	"clinicstats/internal/core/id"
	"clinicstats/internal/domain/clinic"
)

// Repository is an in-memory clinic.Repository.
// Err, when set, is returned by every call.
type Repository struct {
	mu       sync.Mutex
	branches []clinic.Branch
	patients []clinic.Patient
	visits   []clinic.Visit
	payments []clinic.Payment

	Err   error
	Calls int
}

var _ clinic.Repository = (*Repository)(nil)

// New creates a repository seeded from a snapshot.
func New(snap clinic.Snapshot) *Repository {
	return &Repository{
		branches: snap.Branches,
		patients: snap.Patients,
		visits:   snap.Visits,
		payments: snap.Payments,
	}
}

func (r *Repository) begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	return r.Err
}

func (r *Repository) ListBranches(ctx context.Context) ([]clinic.Branch, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	return append([]clinic.Branch(nil), r.branches...), nil
}

func (r *Repository) ListPatients(ctx context.Context, branchID *id.ID) ([]clinic.Patient, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	var out []clinic.Patient
	for _, p := range r.patients {
		if branchID == nil || p.BranchID == *branchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repository) ListPaymentsByBranch(ctx context.Context, branchID id.ID) ([]clinic.Payment, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	var out []clinic.Payment
	for _, p := range r.payments {
		if p.BranchID == branchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repository) ListPaymentsByPatient(ctx context.Context, patientID id.ID) ([]clinic.Payment, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	var out []clinic.Payment
	for _, p := range r.payments {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repository) ListVisitsByBranch(ctx context.Context, branchID id.ID) ([]clinic.Visit, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	var out []clinic.Visit
	for _, v := range r.visits {
		if v.BranchID == branchID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *Repository) ListVisitsByPatient(ctx context.Context, patientID id.ID) ([]clinic.Visit, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	var out []clinic.Visit
	for _, v := range r.visits {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	return out, nil
}
