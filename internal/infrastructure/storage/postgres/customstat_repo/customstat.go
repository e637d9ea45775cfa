// Package customstat_repo persists custom statistic definitions.
package customstat_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"clinicstats/internal/core/apperror"
	"clinicstats/internal/core/id"
	"clinicstats/internal/domain/customstat"
	"clinicstats/internal/infrastructure/storage/postgres"
)

const tableName = "custom_stats"

var columns = postgres.ExtractDBColumns[customstat.CustomStat]()

// immutable columns are never part of an UPDATE.
var immutable = map[string]bool{"id": true, "created_at": true, "created_by": true}

// CustomStatRepo implements customstat.Repository.
type CustomStatRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ customstat.Repository = (*CustomStatRepo)(nil)

// NewCustomStatRepo creates a new custom stat repository.
func NewCustomStatRepo(txManager *postgres.TxManager) *CustomStatRepo {
	return &CustomStatRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns definitions matching the filter, global ones first.
func (r *CustomStatRepo) List(ctx context.Context, filter customstat.ListFilter) ([]customstat.CustomStat, error) {
	sql, args, err := listQuery(r.builder, filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []customstat.CustomStat
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list custom stats: %w", err)
	}
	return out, nil
}

// Get retrieves a definition by id.
func (r *CustomStatRepo) Get(ctx context.Context, statID id.ID) (*customstat.CustomStat, error) {
	sql, args, err := r.builder.Select(columns...).From(tableName).
		Where(squirrel.Eq{"id": statID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var stat customstat.CustomStat
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &stat, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("custom stat", statID.String())
		}
		return nil, fmt.Errorf("get custom stat: %w", err)
	}
	return &stat, nil
}

// Create inserts a definition using its "db" tags.
func (r *CustomStatRepo) Create(ctx context.Context, stat *customstat.CustomStat) error {
	sql, args, err := r.builder.Insert(tableName).SetMap(postgres.StructToMap(stat)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", tableName, err)
	}
	return nil
}

// Update overwrites the mutable columns of a definition.
func (r *CustomStatRepo) Update(ctx context.Context, stat *customstat.CustomStat) error {
	sql, args, err := updateQuery(r.builder, stat).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", tableName, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("custom stat", stat.ID.String())
	}
	return nil
}

// Delete removes a definition.
func (r *CustomStatRepo) Delete(ctx context.Context, statID id.ID) error {
	sql, args, err := r.builder.Delete(tableName).Where(squirrel.Eq{"id": statID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", tableName, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("custom stat", statID.String())
	}
	return nil
}

func listQuery(b squirrel.StatementBuilderType, filter customstat.ListFilter) squirrel.SelectBuilder {
	q := b.Select(columns...).From(tableName)

	var scope squirrel.Sqlizer
	switch {
	case filter.BranchID == nil && filter.IncludeGlobal:
		// everything
	case filter.BranchID == nil:
		scope = squirrel.Eq{"is_global": false}
	case filter.IncludeGlobal:
		scope = squirrel.Or{
			squirrel.Eq{"is_global": true},
			squirrel.Eq{"branch_id": *filter.BranchID},
		}
	default:
		scope = squirrel.Eq{"branch_id": *filter.BranchID}
	}
	if scope != nil {
		q = q.Where(scope)
	}

	return q.OrderBy("is_global DESC", "name", "id")
}

func updateQuery(b squirrel.StatementBuilderType, stat *customstat.CustomStat) squirrel.UpdateBuilder {
	data := postgres.StructToMap(stat)
	set := make(map[string]any, len(data))
	for _, col := range columns {
		if immutable[col] {
			continue
		}
		set[col] = data[col]
	}
	return b.Update(tableName).SetMap(set).Where(squirrel.Eq{"id": stat.ID})
}
