package dto

import (
	"time"

	"clinicstats/internal/core/id"
	"clinicstats/internal/domain/reports"
)

// --- Detailed ledger ---

// LedgerPatientResponse is a patient registered on a ledger day.
type LedgerPatientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Condition    string    `json:"condition"`
	TotalCost    float64   `json:"totalCost"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// LedgerPaymentResponse is a payment made on a ledger day.
type LedgerPaymentResponse struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	Amount      float64   `json:"amount"`
	Notes       string    `json:"notes,omitempty"`
	Date        time.Time `json:"date"`
}

// DailySummaryResponse is one ledger row.
type DailySummaryResponse struct {
	Date         string                  `json:"date"`
	Patients     []LedgerPatientResponse `json:"patients"`
	Payments     []LedgerPaymentResponse `json:"payments"`
	TotalPaid    float64                 `json:"totalPaid"`
	TotalCosts   float64                 `json:"totalCosts"`
	PatientCount int                     `json:"patientCount"`
	PaymentCount int                     `json:"paymentCount"`
}

// LedgerOverallResponse holds branch-wide totals.
type LedgerOverallResponse struct {
	TotalCost     float64 `json:"totalCost"`
	TotalPaid     float64 `json:"totalPaid"`
	Remaining     float64 `json:"remaining"`
	TotalPatients int     `json:"totalPatients"`
	TotalPayments int     `json:"totalPayments"`
}

// UndatedResponse covers records without a usable date.
type UndatedResponse struct {
	Patients  int     `json:"patients"`
	Payments  int     `json:"payments"`
	TotalCost float64 `json:"totalCost"`
	TotalPaid float64 `json:"totalPaid"`
}

// LedgerResponse is the detailed branch report.
type LedgerResponse struct {
	BranchID       string                 `json:"branchId"`
	BranchName     string                 `json:"branchName"`
	DailySummaries []DailySummaryResponse `json:"dailySummaries"`
	Overall        LedgerOverallResponse  `json:"overall"`
	Undated        UndatedResponse        `json:"undated"`
}

// FromLedger converts a domain ledger to response DTO.
func FromLedger(l *reports.Ledger) *LedgerResponse {
	resp := &LedgerResponse{
		BranchID:       l.BranchID.String(),
		BranchName:     l.BranchName,
		DailySummaries: make([]DailySummaryResponse, len(l.DailySummaries)),
		Overall: LedgerOverallResponse{
			TotalCost:     money(l.Overall.TotalCost),
			TotalPaid:     money(l.Overall.TotalPaid),
			Remaining:     money(l.Overall.Remaining),
			TotalPatients: l.Overall.TotalPatients,
			TotalPayments: l.Overall.TotalPayments,
		},
		Undated: UndatedResponse{
			Patients:  l.Undated.Patients,
			Payments:  l.Undated.Payments,
			TotalCost: money(l.Undated.TotalCost),
			TotalPaid: money(l.Undated.TotalPaid),
		},
	}

	for i, day := range l.DailySummaries {
		row := DailySummaryResponse{
			Date:         day.Date,
			Patients:     make([]LedgerPatientResponse, len(day.Patients)),
			Payments:     make([]LedgerPaymentResponse, len(day.Payments)),
			TotalPaid:    money(day.TotalPaid),
			TotalCosts:   money(day.TotalCosts),
			PatientCount: day.PatientCount,
			PaymentCount: day.PaymentCount,
		}
		for j, p := range day.Patients {
			row.Patients[j] = LedgerPatientResponse{
				ID:           p.ID.String(),
				Name:         p.Name,
				Condition:    string(p.Condition),
				TotalCost:    money(p.TotalCost),
				RegisteredAt: p.RegisteredAt,
			}
		}
		for j, p := range day.Payments {
			row.Payments[j] = LedgerPaymentResponse{
				ID:          p.ID.String(),
				PatientID:   p.PatientID.String(),
				PatientName: p.PatientName,
				Amount:      money(p.Amount),
				Notes:       p.Notes,
				Date:        p.Date,
			}
		}
		resp.DailySummaries[i] = row
	}

	return resp
}

// --- All branches ---

// AllBranchesRequest holds the all-branches query.
type AllBranchesRequest struct {
	Daily bool `form:"daily"`
}

// BranchTotalsResponse is one branch of the all-branches summary.
type BranchTotalsResponse struct {
	BranchName string  `json:"branchName"`
	Revenue    float64 `json:"revenue"`
	Sold       int     `json:"sold"`
	Paid       float64 `json:"paid"`
	Remaining  float64 `json:"remaining"`
}

// FromBranchTotals converts the summary map keyed by branch id.
func FromBranchTotals(totals map[id.ID]reports.BranchTotals) map[string]BranchTotalsResponse {
	resp := make(map[string]BranchTotalsResponse, len(totals))
	for branchID, t := range totals {
		resp[branchID.String()] = BranchTotalsResponse{
			BranchName: t.BranchName,
			Revenue:    money(t.Revenue),
			Sold:       t.Sold,
			Paid:       money(t.Paid),
			Remaining:  money(t.Remaining),
		}
	}
	return resp
}
