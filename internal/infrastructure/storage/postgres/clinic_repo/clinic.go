// Package clinic_repo provides the PostgreSQL read side of the clinic data model.
package clinic_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"clinicstats/internal/core/id"
	"clinicstats/internal/domain/clinic"
	"clinicstats/internal/infrastructure/storage/postgres"
)

const (
	tableBranches = "branches"
	tablePatients = "patients"
	tableVisits   = "visits"
	tablePayments = "payments"
)

var (
	branchColumns  = postgres.ExtractDBColumns[clinic.Branch]()
	patientColumns = postgres.ExtractDBColumns[clinic.Patient]()
	visitColumns   = postgres.ExtractDBColumns[clinic.Visit]()
	paymentColumns = postgres.ExtractDBColumns[clinic.Payment]()
)

// ClinicRepo implements clinic.Repository.
type ClinicRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ clinic.Repository = (*ClinicRepo)(nil)

// NewClinicRepo creates a new clinic repository.
func NewClinicRepo(txManager *postgres.TxManager) *ClinicRepo {
	return &ClinicRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListBranches returns every branch ordered by name.
func (r *ClinicRepo) ListBranches(ctx context.Context) ([]clinic.Branch, error) {
	q := r.builder.Select(branchColumns...).From(tableBranches).OrderBy("name", "id")

	var out []clinic.Branch
	if err := r.selectAll(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return out, nil
}

// ListPatients returns patients of one branch, or all patients when branchID is nil.
func (r *ClinicRepo) ListPatients(ctx context.Context, branchID *id.ID) ([]clinic.Patient, error) {
	var out []clinic.Patient
	if err := r.selectAll(ctx, patientsQuery(r.builder, branchID), &out); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

// ListPaymentsByBranch returns every payment of a branch.
func (r *ClinicRepo) ListPaymentsByBranch(ctx context.Context, branchID id.ID) ([]clinic.Payment, error) {
	q := r.builder.Select(paymentColumns...).From(tablePayments).
		Where(squirrel.Eq{"branch_id": branchID}).
		OrderBy("date", "id")

	var out []clinic.Payment
	if err := r.selectAll(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("list payments by branch: %w", err)
	}
	return out, nil
}

// ListPaymentsByPatient returns the payments of one patient.
func (r *ClinicRepo) ListPaymentsByPatient(ctx context.Context, patientID id.ID) ([]clinic.Payment, error) {
	q := r.builder.Select(paymentColumns...).From(tablePayments).
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("date", "id")

	var out []clinic.Payment
	if err := r.selectAll(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("list payments by patient: %w", err)
	}
	return out, nil
}

// ListVisitsByBranch returns every visit of a branch.
func (r *ClinicRepo) ListVisitsByBranch(ctx context.Context, branchID id.ID) ([]clinic.Visit, error) {
	q := r.builder.Select(visitColumns...).From(tableVisits).
		Where(squirrel.Eq{"branch_id": branchID}).
		OrderBy("visit_date", "id")

	var out []clinic.Visit
	if err := r.selectAll(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("list visits by branch: %w", err)
	}
	return out, nil
}

// ListVisitsByPatient returns the visits of one patient.
func (r *ClinicRepo) ListVisitsByPatient(ctx context.Context, patientID id.ID) ([]clinic.Visit, error) {
	q := r.builder.Select(visitColumns...).From(tableVisits).
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("visit_date", "id")

	var out []clinic.Visit
	if err := r.selectAll(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("list visits by patient: %w", err)
	}
	return out, nil
}

func patientsQuery(b squirrel.StatementBuilderType, branchID *id.ID) squirrel.SelectBuilder {
	q := b.Select(patientColumns...).From(tablePatients)
	if branchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *branchID})
	}
	return q.OrderBy("created_at", "id")
}

func (r *ClinicRepo) selectAll(ctx context.Context, q squirrel.SelectBuilder, dst any) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), dst, sql, args...)
}
