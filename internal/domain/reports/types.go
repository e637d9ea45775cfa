// Package reports builds ledgers and statistics from a clinic snapshot.
// Builders are pure functions of their inputs; Service only fetches and scopes.
package reports

import (
	"time"

	"clinicstats/internal/core/calendar"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
)

// Display labels.
const (
	// UnspecifiedLabel buckets records with no value for a categorical field.
	UnspecifiedLabel = "غير محدد"

	// UnknownPatientName is shown for payments whose patient is not in the snapshot.
	UnknownPatientName = "مريض غير معروف"
)

// --- Daily ledger ---

// LedgerPatient is a patient registered on a ledger day.
type LedgerPatient struct {
	ID           id.ID            `json:"id"`
	Name         string           `json:"name"`
	Condition    clinic.Condition `json:"condition"`
	TotalCost    types.Money      `json:"totalCost"`
	RegisteredAt time.Time        `json:"registeredAt"`
}

// LedgerPayment is a payment made on a ledger day.
type LedgerPayment struct {
	ID          id.ID       `json:"id"`
	PatientID   id.ID       `json:"patientId"`
	PatientName string      `json:"patientName"`
	Amount      types.Money `json:"amount"`
	Notes       string      `json:"notes,omitempty"`
	Date        time.Time   `json:"date"`
}

// DailySummary is one row of the ledger.
type DailySummary struct {
	Date     string          `json:"date"`
	Patients []LedgerPatient `json:"patients"`
	Payments []LedgerPayment `json:"payments"`

	// TotalPaid sums the day's payments.
	TotalPaid types.Money `json:"totalPaid"`

	// TotalCosts sums totalCost of patients registered that day.
	TotalCosts types.Money `json:"totalCosts"`

	PatientCount int `json:"patientCount"`
	PaymentCount int `json:"paymentCount"`
}

// LedgerOverall holds branch-wide totals.
type LedgerOverall struct {
	TotalCost     types.Money `json:"totalCost"`
	TotalPaid     types.Money `json:"totalPaid"`
	Remaining     types.Money `json:"remaining"`
	TotalPatients int         `json:"totalPatients"`
	TotalPayments int         `json:"totalPayments"`
}

// UndatedTotals covers records whose date could not be bucketed.
// They count towards Overall but appear in no day row.
type UndatedTotals struct {
	Patients  int         `json:"patients"`
	Payments  int         `json:"payments"`
	TotalCost types.Money `json:"totalCost"`
	TotalPaid types.Money `json:"totalPaid"`
}

// Ledger is the per-day and overall financial summary of one branch.
type Ledger struct {
	BranchID       id.ID          `json:"branchId"`
	BranchName     string         `json:"branchName"`
	DailySummaries []DailySummary `json:"dailySummaries"`
	Overall        LedgerOverall  `json:"overall"`
	Undated        UndatedTotals  `json:"undated"`
}

// --- Distributions ---

// Bucket is one labelled count.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ConditionCounts is the condition mix.
type ConditionCounts struct {
	Amputee        int `json:"amputee"`
	Physiotherapy  int `json:"physiotherapy"`
	MedicalSupport int `json:"medicalSupport"`
}

// BranchStat is one branch in the branch distribution.
type BranchStat struct {
	BranchID   id.ID       `json:"branchId"`
	BranchName string      `json:"branchName"`
	Patients   int         `json:"patients"`
	Revenue    types.Money `json:"revenue"`
}

// MonthPoint is one month of the trend series.
type MonthPoint struct {
	Month       string      `json:"month"`
	NewPatients int         `json:"newPatients"`
	Visits      int         `json:"visits"`
	Payments    types.Money `json:"payments"`
}

// Summary holds the headline figures.
// Period* and TotalPatients/TotalRevenue use the time window;
// AllTime* and CollectionRate deliberately ignore it.
type Summary struct {
	TotalPatients  int         `json:"totalPatients"`
	TotalRevenue   types.Money `json:"totalRevenue"`
	PeriodPaid     types.Money `json:"periodPaid"`
	PeriodVisits   int         `json:"periodVisits"`
	AverageAge     float64     `json:"averageAge"`
	AllTimeRevenue types.Money `json:"allTimeRevenue"`
	AllTimePaid    types.Money `json:"allTimePaid"`
	Outstanding    types.Money `json:"outstanding"`
	CollectionRate types.Money `json:"collectionRate"`
}

// Statistics is the full distribution report.
type Statistics struct {
	Range           calendar.Range  `json:"range"`
	From            *time.Time      `json:"from,omitempty"`
	Summary         Summary         `json:"summary"`
	AgeHistogram    []Bucket        `json:"ageHistogram"`
	Conditions      ConditionCounts `json:"conditions"`
	Branches        []BranchStat    `json:"branches,omitempty"`
	AmputationSites []Bucket        `json:"amputationSites"`
	DiseaseTypes    []Bucket        `json:"diseaseTypes"`
	SupportTypes    []Bucket        `json:"supportTypes"`
	MonthlyTrend    []MonthPoint    `json:"monthlyTrend"`
}

// StatisticsFilter selects the window and optional branch narrowing.
type StatisticsFilter struct {
	Range    calendar.Range
	BranchID *id.ID
}

// --- Branch totals ---

// BranchTotals is one entry of the all-branches summary.
type BranchTotals struct {
	BranchID   id.ID       `json:"branchId"`
	BranchName string      `json:"branchName"`
	Revenue    types.Money `json:"revenue"`
	Sold       int         `json:"sold"`
	Paid       types.Money `json:"paid"`
	Remaining  types.Money `json:"remaining"`
}

// TreatmentRevenue aggregates payments per treatment type.
type TreatmentRevenue struct {
	Treatment clinic.Condition `json:"treatment"`
	Patients  int              `json:"patients"`
	TotalCost types.Money      `json:"totalCost"`
	TotalPaid types.Money      `json:"totalPaid"`
	Payments  int              `json:"payments"`
}
