// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"clinicstats/internal/core/id"
	"clinicstats/internal/core/types"
)

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// --- Query parameters ---

// BranchQuery is the optional branch narrowing shared by several endpoints.
type BranchQuery struct {
	BranchID string `form:"branchId"`
}

// Branch parses the branch id; empty means "not requested".
func (q BranchQuery) Branch() (*id.ID, error) {
	return id.ParseOptional(q.BranchID)
}

// money renders a decimal amount as a JSON number.
func money(m types.Money) float64 {
	return m.InexactFloat64()
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
