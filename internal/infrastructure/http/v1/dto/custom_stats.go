package dto

import (
	"time"

	"clinicstats/internal/core/id"
	"clinicstats/internal/domain/customstat"
)

// CustomStatRequest is the body of create and update calls.
type CustomStatRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	StatType    string  `json:"statType" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	FilterField string  `json:"filterField"`
	FilterValue string  `json:"filterValue"`
	IsGlobal    bool    `json:"isGlobal"`
	BranchID    *string `json:"branchId"`
}

// ToInput converts the request to service input.
func (r *CustomStatRequest) ToInput() (customstat.Input, error) {
	in := customstat.Input{
		Name:        r.Name,
		Description: r.Description,
		StatType:    customstat.StatType(r.StatType),
		Category:    customstat.Category(r.Category),
		FilterField: r.FilterField,
		FilterValue: r.FilterValue,
		IsGlobal:    r.IsGlobal,
	}
	if r.BranchID != nil {
		branchID, err := id.ParseOptional(*r.BranchID)
		if err != nil {
			return in, err
		}
		in.BranchID = branchID
	}
	return in, nil
}

// CustomStatResponse is a stored definition.
type CustomStatResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StatType    string    `json:"statType"`
	Category    string    `json:"category"`
	FilterField string    `json:"filterField,omitempty"`
	FilterValue string    `json:"filterValue,omitempty"`
	IsGlobal    bool      `json:"isGlobal"`
	BranchID    *string   `json:"branchId,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromCustomStat converts a definition to response DTO.
func FromCustomStat(s *customstat.CustomStat) CustomStatResponse {
	resp := CustomStatResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		StatType:    string(s.StatType),
		Category:    string(s.Category),
		FilterField: s.FilterField,
		FilterValue: s.FilterValue,
		IsGlobal:    s.IsGlobal,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.BranchID != nil {
		b := s.BranchID.String()
		resp.BranchID = &b
	}
	return resp
}

// FromCustomStats converts a list of definitions.
func FromCustomStats(stats []customstat.CustomStat) []CustomStatResponse {
	out := make([]CustomStatResponse, len(stats))
	for i := range stats {
		out[i] = FromCustomStat(&stats[i])
	}
	return out
}

// CalculationResponse is the evaluated value of a definition.
type CalculationResponse struct {
	Stat       CustomStatResponse `json:"stat"`
	Value      float64            `json:"value"`
	Label      string             `json:"label"`
	Count      int                `json:"count"`
	TotalCount int                `json:"totalCount"`
	Available  bool               `json:"available"`
}

// FromResult converts an evaluation result.
func FromResult(r *customstat.Result) CalculationResponse {
	return CalculationResponse{
		Stat:       FromCustomStat(r.Stat),
		Value:      money(r.Value),
		Label:      r.Label,
		Count:      r.Count,
		TotalCount: r.TotalCount,
		Available:  r.Available,
	}
}
