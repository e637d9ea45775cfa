package dto

import (
	"clinicstats/internal/domain/reports"
)

// StatisticsRequest holds the overview query.
type StatisticsRequest struct {
	Range    string `form:"range"`
	BranchID string `form:"branchId"`
}

// BucketResponse is one labelled count.
type BucketResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SummaryResponse holds the headline figures.
type SummaryResponse struct {
	TotalPatients  int     `json:"totalPatients"`
	TotalRevenue   float64 `json:"totalRevenue"`
	PeriodPaid     float64 `json:"periodPaid"`
	PeriodVisits   int     `json:"periodVisits"`
	AverageAge     float64 `json:"averageAge"`
	AllTimeRevenue float64 `json:"allTimeRevenue"`
	AllTimePaid    float64 `json:"allTimePaid"`
	Outstanding    float64 `json:"outstanding"`
	CollectionRate float64 `json:"collectionRate"`
}

// BranchStatResponse is one branch of the distribution.
type BranchStatResponse struct {
	BranchID   string  `json:"branchId"`
	BranchName string  `json:"branchName"`
	Patients   int     `json:"patients"`
	Revenue    float64 `json:"revenue"`
}

// MonthPointResponse is one month of the trend.
type MonthPointResponse struct {
	Month       string  `json:"month"`
	NewPatients int     `json:"newPatients"`
	Visits      int     `json:"visits"`
	Payments    float64 `json:"payments"`
}

// StatisticsResponse is the overview report.
type StatisticsResponse struct {
	Range           string                  `json:"range"`
	From            *string                 `json:"from,omitempty"`
	Summary         SummaryResponse         `json:"summary"`
	AgeHistogram    []BucketResponse        `json:"ageHistogram"`
	Conditions      reports.ConditionCounts `json:"conditions"`
	Branches        []BranchStatResponse    `json:"branches,omitempty"`
	AmputationSites []BucketResponse        `json:"amputationSites"`
	DiseaseTypes    []BucketResponse        `json:"diseaseTypes"`
	SupportTypes    []BucketResponse        `json:"supportTypes"`
	MonthlyTrend    []MonthPointResponse    `json:"monthlyTrend"`
}

// FromStatistics converts domain statistics to response DTO.
func FromStatistics(s *reports.Statistics) *StatisticsResponse {
	resp := &StatisticsResponse{
		Range: string(s.Range),
		From:  timePtr(s.From),
		Summary: SummaryResponse{
			TotalPatients:  s.Summary.TotalPatients,
			TotalRevenue:   money(s.Summary.TotalRevenue),
			PeriodPaid:     money(s.Summary.PeriodPaid),
			PeriodVisits:   s.Summary.PeriodVisits,
			AverageAge:     s.Summary.AverageAge,
			AllTimeRevenue: money(s.Summary.AllTimeRevenue),
			AllTimePaid:    money(s.Summary.AllTimePaid),
			Outstanding:    money(s.Summary.Outstanding),
			CollectionRate: money(s.Summary.CollectionRate),
		},
		AgeHistogram:    fromBuckets(s.AgeHistogram),
		Conditions:      s.Conditions,
		AmputationSites: fromBuckets(s.AmputationSites),
		DiseaseTypes:    fromBuckets(s.DiseaseTypes),
		SupportTypes:    fromBuckets(s.SupportTypes),
		MonthlyTrend:    make([]MonthPointResponse, len(s.MonthlyTrend)),
	}

	for _, b := range s.Branches {
		resp.Branches = append(resp.Branches, BranchStatResponse{
			BranchID:   b.BranchID.String(),
			BranchName: b.BranchName,
			Patients:   b.Patients,
			Revenue:    money(b.Revenue),
		})
	}
	for i, m := range s.MonthlyTrend {
		resp.MonthlyTrend[i] = MonthPointResponse{
			Month:       m.Month,
			NewPatients: m.NewPatients,
			Visits:      m.Visits,
			Payments:    money(m.Payments),
		}
	}
	return resp
}

func fromBuckets(in []reports.Bucket) []BucketResponse {
	out := make([]BucketResponse, len(in))
	for i, b := range in {
		out[i] = BucketResponse{Label: b.Label, Count: b.Count}
	}
	return out
}

// TreatmentRevenueResponse is one treatment row.
type TreatmentRevenueResponse struct {
	Treatment string  `json:"treatment"`
	Patients  int     `json:"patients"`
	TotalCost float64 `json:"totalCost"`
	TotalPaid float64 `json:"totalPaid"`
	Payments  int     `json:"payments"`
}

// FromTreatmentRevenue converts treatment rows.
func FromTreatmentRevenue(rows []reports.TreatmentRevenue) []TreatmentRevenueResponse {
	out := make([]TreatmentRevenueResponse, len(rows))
	for i, r := range rows {
		out[i] = TreatmentRevenueResponse{
			Treatment: string(r.Treatment),
			Patients:  r.Patients,
			TotalCost: money(r.TotalCost),
			TotalPaid: money(r.TotalPaid),
			Payments:  r.Payments,
		}
	}
	return out
}
