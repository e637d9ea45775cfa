// Package customstat stores declarative metric definitions and evaluates them
// against a scoped clinic snapshot.
package customstat

import (
	"strings"
	"time"

	"clinicstats/internal/core/apperror"
	"clinicstats/internal/core/id"
)

// StatType is the aggregation a definition computes.
type StatType string

const (
	StatCount      StatType = "count"
	StatSum        StatType = "sum"
	StatPercentage StatType = "percentage"
	StatAverage    StatType = "average"
)

// IsValid reports whether t is a known statistic type.
func (t StatType) IsValid() bool {
	switch t {
	case StatCount, StatSum, StatPercentage, StatAverage:
		return true
	}
	return false
}

// Category is the entity set a definition talks about.
type Category string

const (
	CategoryPatients Category = "patients"
	CategoryPayments Category = "payments"
	CategoryVisits   Category = "visits"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryPatients, CategoryPayments, CategoryVisits:
		return true
	}
	return false
}

// EntityType names custom stats in the audit log.
const EntityType = "custom_stat"

// CustomStat is a user-authored metric definition.
// A stat is either global (BranchID nil) or owned by exactly one branch.
type CustomStat struct {
	ID          id.ID    `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Description string   `db:"description" json:"description,omitempty"`
	StatType    StatType `db:"stat_type" json:"statType"`
	Category    Category `db:"category" json:"category"`
	FilterField string   `db:"filter_field" json:"filterField,omitempty"`
	FilterValue string   `db:"filter_value" json:"filterValue,omitempty"`
	IsGlobal    bool     `db:"is_global" json:"isGlobal"`
	BranchID    *id.ID   `db:"branch_id" json:"branchId,omitempty"`

	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// HasFilter reports whether the filter applies. Both parts must be set.
func (s *CustomStat) HasFilter() bool {
	return s.FilterField != "" && s.FilterValue != ""
}

// Normalize trims user input in place.
func (s *CustomStat) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	s.FilterField = strings.TrimSpace(s.FilterField)
	s.FilterValue = strings.TrimSpace(s.FilterValue)
	if s.IsGlobal {
		s.BranchID = nil
	}
}

// Validate checks the definition before it is persisted.
// Filter fields are not checked here: an unknown field simply matches nothing.
func (s *CustomStat) Validate() error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !s.StatType.IsValid() {
		return apperror.NewValidation("unknown statType").
			WithDetail("field", "statType").
			WithDetail("value", string(s.StatType))
	}
	if !s.Category.IsValid() {
		return apperror.NewValidation("unknown category").
			WithDetail("field", "category").
			WithDetail("value", string(s.Category))
	}
	if s.IsGlobal && s.BranchID != nil {
		return apperror.NewValidation("global stat cannot have a branch").WithDetail("field", "branchId")
	}
	if !s.IsGlobal && (s.BranchID == nil || id.IsNil(*s.BranchID)) {
		return apperror.NewValidation("branch stat requires branchId").WithDetail("field", "branchId")
	}
	return nil
}
