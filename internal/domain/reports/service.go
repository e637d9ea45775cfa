package reports

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"clinicstats/internal/core/calendar"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/security"
	"clinicstats/internal/domain/clinic"
	"clinicstats/pkg/logger"
)

var tracer = otel.Tracer("clinicstats/reports")

// Report names used for tracing and metrics.
const (
	ReportLedger      = "ledger"
	ReportAllBranches = "all_branches"
	ReportStatistics  = "statistics"
	ReportTreatment   = "revenue_by_treatment"
)

// Observer receives computation timings. Implemented by the metrics package.
type Observer interface {
	ObserveCompute(report string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveCompute(string, time.Duration) {}

// Option configures Service.
type Option func(*Service)

// WithClock overrides the time source used for "now".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithObserver attaches a computation timing observer.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// Service resolves scope, fetches a fresh snapshot and runs the pure builders.
// Nothing is cached between calls.
type Service struct {
	loader   *clinic.Loader
	now      func() time.Time
	observer Observer
}

// NewService creates a new reports service.
func NewService(loader *clinic.Loader, opts ...Option) *Service {
	s := &Service{
		loader:   loader,
		now:      time.Now,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DetailedLedger returns the full-history daily ledger of one branch.
// The branch must be visible to the viewer.
func (s *Service) DetailedLedger(ctx context.Context, viewer security.Viewer, branchID id.ID) (*Ledger, error) {
	scope := security.ResolveScope(viewer)
	if err := scope.RequireBranch(branchID); err != nil {
		return nil, err
	}

	ctx, span := s.start(ctx, ReportLedger, scope)
	defer span.End()
	defer s.observe(ReportLedger, time.Now())

	snap, err := s.loader.Load(ctx, security.SingleBranch(branchID), clinic.LoadOptions{Payments: true})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ledger := BuildLedger(branchID, snap.Patients, snap.Payments)
	ledger.BranchName = snap.BranchName(branchID)

	if ledger.Undated.Patients > 0 || ledger.Undated.Payments > 0 {
		logger.Warn(ctx, "ledger has undated records",
			"branch_id", branchID,
			"patients", ledger.Undated.Patients,
			"payments", ledger.Undated.Payments)
	}
	logger.Debug(ctx, "ledger computed",
		"branch_id", branchID,
		"days", len(ledger.DailySummaries),
		"patients", ledger.Overall.TotalPatients)

	return ledger, nil
}

// BranchTotals returns revenue/sold/paid/remaining per visible branch.
func (s *Service) BranchTotals(ctx context.Context, viewer security.Viewer, daily bool) (map[id.ID]BranchTotals, error) {
	scope := security.ResolveScope(viewer)

	ctx, span := s.start(ctx, ReportAllBranches, scope)
	defer span.End()
	defer s.observe(ReportAllBranches, time.Now())

	snap, err := s.loader.Load(ctx, scope, clinic.LoadOptions{Payments: true})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := s.now()
	totals := BuildBranchTotals(snap, daily, now)
	logger.Debug(ctx, "branch totals computed",
		"scope", scope.String(),
		"daily", daily,
		"day", calendar.Today(now),
		"branches", len(totals))
	return totals, nil
}

// Statistics returns the distribution report. An administrator may narrow to one
// branch; anyone else naming a foreign branch is rejected.
func (s *Service) Statistics(ctx context.Context, viewer security.Viewer, filter StatisticsFilter) (*Statistics, error) {
	scope, err := security.ResolveScope(viewer).Narrow(filter.BranchID)
	if err != nil {
		return nil, err
	}

	ctx, span := s.start(ctx, ReportStatistics, scope)
	span.SetAttributes(attribute.String("range", string(filter.Range)))
	defer span.End()
	defer s.observe(ReportStatistics, time.Now())

	snap, err := s.loader.Load(ctx, scope, clinic.LoadOptions{Visits: true, Payments: true})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	stats := BuildStatistics(snap, scope, filter.Range, s.now())
	logger.Debug(ctx, "statistics computed",
		"scope", scope.String(),
		"range", filter.Range,
		"patients", stats.Summary.TotalPatients)
	return stats, nil
}

// RevenueByTreatment aggregates payments per treatment type within the viewer's scope,
// optionally narrowed to one branch.
func (s *Service) RevenueByTreatment(ctx context.Context, viewer security.Viewer, branchID *id.ID) ([]TreatmentRevenue, error) {
	scope, err := security.ResolveScope(viewer).Narrow(branchID)
	if err != nil {
		return nil, err
	}

	ctx, span := s.start(ctx, ReportTreatment, scope)
	defer span.End()
	defer s.observe(ReportTreatment, time.Now())

	snap, err := s.loader.Load(ctx, scope, clinic.LoadOptions{Payments: true})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return BuildRevenueByTreatment(snap), nil
}

func (s *Service) start(ctx context.Context, report string, scope security.BranchScope) (context.Context, trace.Span) {
	return tracer.Start(ctx, "reports."+report,
		trace.WithAttributes(
			attribute.String("report", report),
			attribute.String("scope", scope.String()),
		))
}

func (s *Service) observe(report string, started time.Time) {
	s.observer.ObserveCompute(report, time.Since(started))
}
