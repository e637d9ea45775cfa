package customstat

import (
	"context"
	"fmt"
	"time"

	"clinicstats/internal/core/apperror"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/security"
	"clinicstats/internal/core/tx"
	"clinicstats/internal/domain/audit"
	"clinicstats/internal/domain/clinic"
	"clinicstats/pkg/logger"
)

// Input carries the writable fields of a definition.
type Input struct {
	Name        string
	Description string
	StatType    StatType
	Category    Category
	FilterField string
	FilterValue string
	IsGlobal    bool
	BranchID    *id.ID
}

// Service manages definitions and evaluates them for a viewer.
type Service struct {
	repo      Repository
	loader    *clinic.Loader
	txManager tx.Manager
	audit     audit.Recorder
	now       func() time.Time
}

// NewService creates a new custom stat service.
func NewService(repo Repository, loader *clinic.Loader, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		loader:    loader,
		txManager: txManager,
		audit:     recorder,
		now:       time.Now,
	}
}

// List returns the definitions visible to the viewer: every stat for an administrator
// (or one branch's plus global when branchID is given), own branch plus global otherwise.
// A non-administrator without a branch sees nothing.
func (s *Service) List(ctx context.Context, viewer security.Viewer, branchID *id.ID) ([]CustomStat, error) {
	scope, err := security.ResolveScope(viewer).Narrow(branchID)
	if err != nil {
		return nil, err
	}
	if scope.IsEmpty() {
		return []CustomStat{}, nil
	}

	stats, err := s.repo.List(ctx, ListFilter{BranchID: scope.BranchFilter(), IncludeGlobal: true})
	if err != nil {
		return nil, fmt.Errorf("list custom stats: %w", err)
	}
	return stats, nil
}

// Get returns one definition if the viewer may see it.
func (s *Service) Get(ctx context.Context, viewer security.Viewer, statID id.ID) (*CustomStat, error) {
	stat, err := s.repo.Get(ctx, statID)
	if err != nil {
		return nil, err
	}
	if err := canView(viewer, stat); err != nil {
		return nil, err
	}
	return stat, nil
}

// Create validates and stores a new definition.
// Global stats are administrator-only. A branch user's stat always belongs to their branch.
func (s *Service) Create(ctx context.Context, viewer security.Viewer, in Input) (*CustomStat, error) {
	stat := &CustomStat{
		ID:          id.New(),
		Name:        in.Name,
		Description: in.Description,
		StatType:    in.StatType,
		Category:    in.Category,
		FilterField: in.FilterField,
		FilterValue: in.FilterValue,
		IsGlobal:    in.IsGlobal,
		BranchID:    in.BranchID,
	}
	stat.Normalize()

	if err := assignOwnership(viewer, stat); err != nil {
		return nil, err
	}
	if err := stat.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	stat.CreatedAt, stat.UpdatedAt = now, now
	stat.CreatedBy, stat.UpdatedBy = viewer.UserID, viewer.UserID

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, stat); err != nil {
			return fmt.Errorf("create custom stat: %w", err)
		}
		return s.record(ctx, viewer, stat.ID, audit.ActionCreate, nil, stat)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "custom stat created", "id", stat.ID, "global", stat.IsGlobal, "stat_type", stat.StatType)
	return stat, nil
}

// Update replaces the writable fields of an existing definition.
func (s *Service) Update(ctx context.Context, viewer security.Viewer, statID id.ID, in Input) (*CustomStat, error) {
	var updated *CustomStat

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.Get(ctx, statID)
		if err != nil {
			return err
		}
		if err := canModify(viewer, existing); err != nil {
			return err
		}

		next := *existing
		next.Name = in.Name
		next.Description = in.Description
		next.StatType = in.StatType
		next.Category = in.Category
		next.FilterField = in.FilterField
		next.FilterValue = in.FilterValue
		next.IsGlobal = in.IsGlobal
		next.BranchID = in.BranchID
		next.Normalize()

		if err := assignOwnership(viewer, &next); err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}

		next.UpdatedAt = s.now().UTC()
		next.UpdatedBy = viewer.UserID

		if err := s.repo.Update(ctx, &next); err != nil {
			return fmt.Errorf("update custom stat: %w", err)
		}
		if err := s.record(ctx, viewer, next.ID, audit.ActionUpdate, existing, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "custom stat updated", "id", statID)
	return updated, nil
}

// Delete removes a definition.
func (s *Service) Delete(ctx context.Context, viewer security.Viewer, statID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.Get(ctx, statID)
		if err != nil {
			return err
		}
		if err := canModify(viewer, existing); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, statID); err != nil {
			return fmt.Errorf("delete custom stat: %w", err)
		}
		return s.record(ctx, viewer, statID, audit.ActionDelete, existing, nil)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "custom stat deleted", "id", statID)
	return nil
}

// Calculate evaluates a definition against a fresh snapshot.
//
// A global stat is evaluated over the viewer's scope, which an administrator may
// narrow with branchID. A branch stat is always evaluated over its own branch,
// provided the viewer can see that branch. Viewers who may not Get the stat
// may not calculate it either.
func (s *Service) Calculate(ctx context.Context, viewer security.Viewer, statID id.ID, branchID *id.ID) (*Result, error) {
	stat, err := s.Get(ctx, viewer, statID)
	if err != nil {
		return nil, err
	}

	scope, err := evaluationScope(viewer, stat, branchID)
	if err != nil {
		return nil, err
	}

	needPayments := stat.StatType == StatSum && stat.Category == CategoryPayments
	snap, err := s.loader.Load(ctx, scope, clinic.LoadOptions{Payments: needPayments})
	if err != nil {
		return nil, err
	}

	if stat.HasFilter() && !clinic.IsKnownField(stat.FilterField) {
		logger.Warn(ctx, "custom stat filters on unknown field", "id", stat.ID, "field", stat.FilterField)
	}

	res := Evaluate(stat, snap.Patients, snap.Payments)
	logger.Debug(ctx, "custom stat calculated",
		"id", stat.ID,
		"scope", scope.String(),
		"count", res.Count,
		"total", res.TotalCount)
	return &res, nil
}

func evaluationScope(viewer security.Viewer, stat *CustomStat, requested *id.ID) (security.BranchScope, error) {
	base := security.ResolveScope(viewer)
	if stat.IsGlobal || stat.BranchID == nil {
		return base.Narrow(requested)
	}
	if err := base.RequireBranch(*stat.BranchID); err != nil {
		return security.NoBranches(), err
	}
	return security.SingleBranch(*stat.BranchID), nil
}

// assignOwnership enforces who may own what. A branch user can never create
// or move a stat out of their branch, and never make it global.
func assignOwnership(viewer security.Viewer, stat *CustomStat) error {
	if viewer.IsAdmin() {
		return nil
	}
	if stat.IsGlobal {
		return apperror.NewForbidden("only administrators can manage global stats")
	}
	if viewer.BranchID == nil {
		return apperror.NewForbidden("caller has no assigned branch")
	}
	if stat.BranchID == nil {
		own := *viewer.BranchID
		stat.BranchID = &own
		return nil
	}
	if *stat.BranchID != *viewer.BranchID {
		return apperror.NewForbidden("cannot manage stats of another branch").
			WithDetail("branch_id", stat.BranchID.String())
	}
	return nil
}

func canView(viewer security.Viewer, stat *CustomStat) error {
	if stat.IsGlobal || stat.BranchID == nil {
		if security.ResolveScope(viewer).IsEmpty() {
			return apperror.NewForbidden("caller has no assigned branch")
		}
		return nil
	}
	return security.ResolveScope(viewer).RequireBranch(*stat.BranchID)
}

func canModify(viewer security.Viewer, stat *CustomStat) error {
	if viewer.IsAdmin() {
		return nil
	}
	if stat.IsGlobal || stat.BranchID == nil {
		return apperror.NewForbidden("only administrators can manage global stats")
	}
	if viewer.BranchID == nil || *viewer.BranchID != *stat.BranchID {
		return apperror.NewForbidden("stat belongs to another branch").
			WithDetail("branch_id", stat.BranchID.String())
	}
	return nil
}

func (s *Service) record(ctx context.Context, viewer security.Viewer, statID id.ID, action audit.Action, before, after *CustomStat) error {
	if s.audit == nil {
		return nil
	}

	var oldState, newState map[string]any
	var err error
	if before != nil {
		if oldState, err = audit.Fields(before); err != nil {
			return err
		}
	}
	if after != nil {
		if newState, err = audit.Fields(after); err != nil {
			return err
		}
	}

	err = s.audit.Record(ctx, audit.Entry{
		EntityType: EntityType,
		EntityID:   statID,
		Action:     action,
		UserID:     viewer.UserID,
		Changes:    audit.Diff(oldState, newState),
	})
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}
