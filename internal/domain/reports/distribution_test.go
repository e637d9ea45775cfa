package reports

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicstats/internal/core/calendar"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/security"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
)

func ptrs(patients []clinic.Patient) []*clinic.Patient {
	out := make([]*clinic.Patient, len(patients))
	for i := range patients {
		out[i] = &patients[i]
	}
	return out
}

func TestAgeHistogram(t *testing.T) {
	var patients []clinic.Patient
	for _, age := range []int{5, 15, 25, 65, 72} {
		patients = append(patients, clinic.Patient{Age: age})
	}

	got := AgeHistogram(ptrs(patients))

	want := []Bucket{
		{"0-10", 1}, {"11-20", 1}, {"21-30", 1}, {"31-40", 0},
		{"41-50", 0}, {"51-60", 0}, {"61-70", 1}, {"70+", 1},
	}
	assert.Equal(t, want, got)
}

func TestAgeHistogram_Boundaries(t *testing.T) {
	var patients []clinic.Patient
	for _, age := range []int{0, 10, 11, 70, 71} {
		patients = append(patients, clinic.Patient{Age: age})
	}

	got := AgeHistogram(ptrs(patients))

	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 1, got[1].Count)
	assert.Equal(t, 1, got[6].Count)
	assert.Equal(t, 1, got[7].Count)
}

func TestTopValues(t *testing.T) {
	var patients []clinic.Patient
	add := func(site string, n int) {
		for i := 0; i < n; i++ {
			patients = append(patients, clinic.Patient{IsAmputee: true, AmputationSite: site})
		}
	}
	add("below_knee", 3)
	add("above_knee", 3)
	add("", 2)
	add("hand", 1)
	// Not amputees; must be ignored.
	patients = append(patients, clinic.Patient{IsPhysiotherapy: true, AmputationSite: "below_knee"})

	got := TopValues(ptrs(patients), clinic.ConditionAmputee, func(p *clinic.Patient) string { return p.AmputationSite })

	assert.Equal(t, []Bucket{
		{"above_knee", 3},
		{"below_knee", 3},
		{UnspecifiedLabel, 2},
		{"hand", 1},
	}, got)
}

func TestTopValues_Truncates(t *testing.T) {
	var patients []clinic.Patient
	for i := 0; i < 15; i++ {
		for j := 0; j <= i; j++ {
			patients = append(patients, clinic.Patient{IsPhysiotherapy: true, DiseaseType: fmt.Sprintf("d%02d", i)})
		}
	}

	got := TopValues(ptrs(patients), clinic.ConditionPhysiotherapy, func(p *clinic.Patient) string { return p.DiseaseType })

	require.Len(t, got, TopN)
	assert.Equal(t, "d14", got[0].Label)
	assert.Equal(t, 15, got[0].Count)
	assert.Equal(t, "d05", got[TopN-1].Label)
}

func TestCollectionRate(t *testing.T) {
	tests := []struct {
		name    string
		paid    int64
		revenue int64
		want    string
	}{
		{"zero revenue", 0, 0, "0"},
		{"zero revenue with payments", 100, 0, "0"},
		{"full", 500, 500, "100"},
		{"one third", 1, 3, "33.3"},
		{"two thirds", 2, 3, "66.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollectionRate(money(tt.paid), money(tt.revenue))
			assert.True(t, got.Equal(types.MustMoney(tt.want)), "got %s", got)
		})
	}
}

func TestMonthlyTrend_MergesAxes(t *testing.T) {
	jan := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	patients := []clinic.Patient{{CreatedAt: jan}, {CreatedAt: jan}}
	visits := []clinic.Visit{{VisitDate: feb}, {VisitDate: jan}}
	payments := []clinic.Payment{{Amount: money(250), Date: mar}, {Amount: money(50), Date: mar}}

	got := MonthlyTrend(ptrs(patients), visits, payments, nil)

	require.Len(t, got, 3)
	assert.Equal(t, "2024-01", got[0].Month)
	assert.Equal(t, 2, got[0].NewPatients)
	assert.Equal(t, 1, got[0].Visits)
	assert.Equal(t, "2024-02", got[1].Month)
	assert.Equal(t, 0, got[1].NewPatients)
	assert.Equal(t, 1, got[1].Visits)
	assert.Equal(t, "2024-03", got[2].Month)
	assert.True(t, got[2].Payments.Equal(money(300)))
}

func TestMonthlyTrend_KeepsLatestTwelveAscending(t *testing.T) {
	var patients []clinic.Patient
	start := time.Date(2022, 1, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		patients = append(patients, clinic.Patient{CreatedAt: start.AddDate(0, i, 0)})
	}

	got := MonthlyTrend(ptrs(patients), nil, nil, nil)

	require.Len(t, got, TrendMonths)
	assert.Equal(t, "2022-09", got[0].Month)
	assert.Equal(t, "2023-08", got[len(got)-1].Month)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Month, got[i].Month)
	}
}

func TestMonthlyTrend_FiltersByOwnDate(t *testing.T) {
	bound := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	visits := []clinic.Visit{
		{VisitDate: time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)},
		{VisitDate: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)},
		{},
	}

	got := MonthlyTrend(nil, visits, nil, &bound)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-03", got[0].Month)
	assert.Equal(t, 1, got[0].Visits)
}

func statsFixture(now time.Time) (*clinic.Snapshot, id.ID, id.ID) {
	a, b := id.New(), id.New()
	old := now.AddDate(-2, 0, 0)
	recent := now.AddDate(0, 0, -3)

	// Registered long ago, paid recently: payment belongs to the window.
	oldPatient := clinic.Patient{ID: id.New(), BranchID: a, Age: 40, IsAmputee: true, AmputationSite: "hand", TotalCost: money(1000), CreatedAt: old}
	newA := clinic.Patient{ID: id.New(), BranchID: a, Age: 20, IsPhysiotherapy: true, DiseaseType: "stroke", TotalCost: money(600), CreatedAt: recent}
	newB := clinic.Patient{ID: id.New(), BranchID: b, Age: 31, IsMedicalSupport: true, TotalCost: money(400), CreatedAt: recent}

	return &clinic.Snapshot{
		Branches: []clinic.Branch{{ID: a, Name: "Baghdad"}, {ID: b, Name: "Basra"}},
		Patients: []clinic.Patient{oldPatient, newA, newB},
		Visits: []clinic.Visit{
			{ID: id.New(), PatientID: oldPatient.ID, BranchID: a, VisitDate: recent},
			{ID: id.New(), PatientID: oldPatient.ID, BranchID: a, VisitDate: old},
		},
		Payments: []clinic.Payment{
			{ID: id.New(), PatientID: oldPatient.ID, BranchID: a, Amount: money(300), Date: recent},
			{ID: id.New(), PatientID: oldPatient.ID, BranchID: a, Amount: money(700), Date: old},
			{ID: id.New(), PatientID: newB.ID, BranchID: b, Amount: money(100), Date: recent},
		},
	}, a, b
}

func TestBuildStatistics_WindowedVsAllTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	snap, a, b := statsFixture(now)

	stats := BuildStatistics(snap, security.AllBranches(), calendar.RangeMonth, now)

	require.NotNil(t, stats.From)
	s := stats.Summary
	assert.Equal(t, 2, s.TotalPatients)
	assert.True(t, s.TotalRevenue.Equal(money(1000)))
	assert.True(t, s.PeriodPaid.Equal(money(400)))
	assert.Equal(t, 1, s.PeriodVisits)
	assert.Equal(t, float64(26), s.AverageAge)

	assert.True(t, s.AllTimeRevenue.Equal(money(2000)))
	assert.True(t, s.AllTimePaid.Equal(money(1100)))
	assert.True(t, s.Outstanding.Equal(money(900)))
	assert.True(t, s.CollectionRate.Equal(types.MustMoney("55")))

	assert.Equal(t, ConditionCounts{Amputee: 0, Physiotherapy: 1, MedicalSupport: 1}, stats.Conditions)
	assert.Empty(t, stats.AmputationSites)
	assert.Equal(t, []Bucket{{"stroke", 1}}, stats.DiseaseTypes)
	assert.Equal(t, []Bucket{{UnspecifiedLabel, 1}}, stats.SupportTypes)

	// Branch distribution ignores the window.
	require.Len(t, stats.Branches, 2)
	assert.Equal(t, a, stats.Branches[0].BranchID)
	assert.Equal(t, 2, stats.Branches[0].Patients)
	assert.True(t, stats.Branches[0].Revenue.Equal(money(1600)))
	assert.Equal(t, b, stats.Branches[1].BranchID)
	assert.Equal(t, "Basra", stats.Branches[1].BranchName)

	require.Len(t, stats.MonthlyTrend, 1)
	assert.Equal(t, "2024-06", stats.MonthlyTrend[0].Month)
	assert.Equal(t, 2, stats.MonthlyTrend[0].NewPatients)
	assert.Equal(t, 1, stats.MonthlyTrend[0].Visits)
	assert.True(t, stats.MonthlyTrend[0].Payments.Equal(money(400)))
}

func TestBuildStatistics_SingleBranchHasNoBranchDistribution(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	snap, a, _ := statsFixture(now)

	stats := BuildStatistics(snap, security.SingleBranch(a), calendar.RangeAll, now)

	assert.Nil(t, stats.From)
	assert.Nil(t, stats.Branches)
	assert.Equal(t, 3, stats.Summary.TotalPatients)
}

func TestBuildStatistics_EmptySnapshot(t *testing.T) {
	stats := BuildStatistics(&clinic.Snapshot{}, security.NoBranches(), calendar.RangeYear, time.Now())

	assert.Zero(t, stats.Summary.TotalPatients)
	assert.Zero(t, stats.Summary.AverageAge)
	assert.True(t, stats.Summary.CollectionRate.IsZero())
	assert.Len(t, stats.AgeHistogram, 8)
	assert.Empty(t, stats.MonthlyTrend)
}

func TestBuildBranchTotals(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	snap, a, b := statsFixture(now)
	today := clinic.Patient{ID: id.New(), BranchID: b, TotalCost: money(250), CreatedAt: now.Add(-time.Hour)}
	snap.Patients = append(snap.Patients, today)
	snap.Payments = append(snap.Payments, clinic.Payment{ID: id.New(), PatientID: today.ID, BranchID: b, Amount: money(50), Date: now})

	all := BuildBranchTotals(snap, false, now)
	require.Len(t, all, 2)
	assert.True(t, all[a].Revenue.Equal(money(1600)))
	assert.Equal(t, 2, all[a].Sold)
	assert.True(t, all[a].Paid.Equal(money(1000)))
	assert.True(t, all[a].Remaining.Equal(money(600)))
	assert.True(t, all[b].Revenue.Equal(money(650)))
	assert.True(t, all[b].Paid.Equal(money(150)))

	daily := BuildBranchTotals(snap, true, now)
	require.Len(t, daily, 2)
	assert.Equal(t, 0, daily[a].Sold)
	assert.True(t, daily[a].Revenue.IsZero())
	assert.True(t, daily[a].Remaining.IsZero())
	assert.Equal(t, 1, daily[b].Sold)
	assert.True(t, daily[b].Revenue.Equal(money(250)))
	assert.True(t, daily[b].Paid.Equal(money(50)))
	assert.True(t, daily[b].Remaining.Equal(money(200)))
}

func TestBuildRevenueByTreatment(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	snap, _, _ := statsFixture(now)

	rows := BuildRevenueByTreatment(snap)

	require.Len(t, rows, 3)
	assert.Equal(t, clinic.ConditionAmputee, rows[0].Treatment)
	assert.Equal(t, 1, rows[0].Patients)
	assert.Equal(t, 2, rows[0].Payments)
	assert.True(t, rows[0].TotalPaid.Equal(money(1000)))
	assert.True(t, rows[0].TotalCost.Equal(money(1000)))

	assert.Equal(t, clinic.ConditionPhysiotherapy, rows[1].Treatment)
	assert.Zero(t, rows[1].Payments)
	assert.True(t, rows[1].TotalPaid.IsZero())

	assert.Equal(t, clinic.ConditionMedicalSupport, rows[2].Treatment)
	assert.True(t, rows[2].TotalPaid.Equal(money(100)))
}

func TestBuildRevenueByTreatment_OrphanPayment(t *testing.T) {
	snap := &clinic.Snapshot{Payments: []clinic.Payment{{ID: id.New(), PatientID: id.New(), Amount: money(5)}}}

	rows := BuildRevenueByTreatment(snap)

	require.Len(t, rows, 4)
	assert.Equal(t, clinic.ConditionUnknown, rows[3].Treatment)
	assert.True(t, rows[3].TotalPaid.Equal(money(5)))
}
