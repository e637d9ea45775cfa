package reports

import (
	"math"
	"sort"
	"time"

	"clinicstats/internal/core/calendar"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/security"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
)

const (
	// TopN caps categorical breakdowns.
	TopN = 10

	// TrendMonths caps the monthly trend series.
	TrendMonths = 12
)

// ageBuckets are the fixed decade buckets. The last one is open-ended.
var ageBuckets = []struct {
	label string
	max   int
}{
	{"0-10", 10},
	{"11-20", 20},
	{"21-30", 30},
	{"31-40", 40},
	{"41-50", 50},
	{"51-60", 60},
	{"61-70", 70},
	{"70+", math.MaxInt},
}

// BuildStatistics computes the distribution report over one scoped snapshot.
//
// Patient-level figures use the patients registered inside the window. Visits and
// payments are filtered by their own dates over the full scoped set, regardless of
// when their patient registered. All-time figures ignore the window entirely.
func BuildStatistics(snap *clinic.Snapshot, scope security.BranchScope, r calendar.Range, now time.Time) *Statistics {
	bound := calendar.LowerBound(r, now)

	windowed := make([]*clinic.Patient, 0, len(snap.Patients))
	for i := range snap.Patients {
		if calendar.InRange(snap.Patients[i].RegisteredAt(), bound) {
			windowed = append(windowed, &snap.Patients[i])
		}
	}

	stats := &Statistics{
		Range:        r,
		From:         bound,
		Summary:      buildSummary(snap, windowed, bound),
		AgeHistogram: AgeHistogram(windowed),
		Conditions:   conditionCounts(windowed),
		MonthlyTrend: MonthlyTrend(windowed, snap.Visits, snap.Payments, bound),
	}

	if scope.IsAll() {
		stats.Branches = branchDistribution(snap)
	}

	stats.AmputationSites = TopValues(windowed, clinic.ConditionAmputee,
		func(p *clinic.Patient) string { return p.AmputationSite })
	stats.DiseaseTypes = TopValues(windowed, clinic.ConditionPhysiotherapy,
		func(p *clinic.Patient) string { return p.DiseaseType })
	stats.SupportTypes = TopValues(windowed, clinic.ConditionMedicalSupport,
		func(p *clinic.Patient) string { return p.SupportType })

	return stats
}

func buildSummary(snap *clinic.Snapshot, windowed []*clinic.Patient, bound *time.Time) Summary {
	s := Summary{
		TotalPatients:  len(windowed),
		TotalRevenue:   types.Zero(),
		PeriodPaid:     types.Zero(),
		AllTimeRevenue: types.Zero(),
		AllTimePaid:    types.Zero(),
	}

	ageSum := 0
	for _, p := range windowed {
		s.TotalRevenue = s.TotalRevenue.Add(p.TotalCost)
		ageSum += p.Age
	}
	if len(windowed) > 0 {
		s.AverageAge = math.Round(float64(ageSum) / float64(len(windowed)))
	}

	for i := range snap.Patients {
		s.AllTimeRevenue = s.AllTimeRevenue.Add(snap.Patients[i].TotalCost)
	}
	for _, pay := range snap.Payments {
		s.AllTimePaid = s.AllTimePaid.Add(pay.Amount)
		if calendar.InRange(pay.Date, bound) {
			s.PeriodPaid = s.PeriodPaid.Add(pay.Amount)
		}
	}
	for _, v := range snap.Visits {
		if calendar.InRange(v.VisitDate, bound) {
			s.PeriodVisits++
		}
	}

	s.Outstanding = s.AllTimeRevenue.Sub(s.AllTimePaid)
	s.CollectionRate = CollectionRate(s.AllTimePaid, s.AllTimeRevenue)
	return s
}

// CollectionRate returns paid/revenue*100 rounded to one decimal, or 0 when revenue is 0.
func CollectionRate(paid, revenue types.Money) types.Money {
	return types.Percent(paid, revenue, 1)
}

// AgeHistogram counts patients per decade bucket. Every bucket is present.
// Negative ages fall into the first bucket.
func AgeHistogram(patients []*clinic.Patient) []Bucket {
	out := make([]Bucket, len(ageBuckets))
	for i, b := range ageBuckets {
		out[i].Label = b.label
	}
	for _, p := range patients {
		for i, b := range ageBuckets {
			if p.Age <= b.max {
				out[i].Count++
				break
			}
		}
	}
	return out
}

func conditionCounts(patients []*clinic.Patient) ConditionCounts {
	var c ConditionCounts
	for _, p := range patients {
		switch p.Condition() {
		case clinic.ConditionAmputee:
			c.Amputee++
		case clinic.ConditionPhysiotherapy:
			c.Physiotherapy++
		case clinic.ConditionMedicalSupport:
			c.MedicalSupport++
		}
	}
	return c
}

// branchDistribution uses the scoped snapshot without the time window.
func branchDistribution(snap *clinic.Snapshot) []BranchStat {
	byBranch := make(map[id.ID]*BranchStat, len(snap.Branches))
	order := make([]id.ID, 0, len(snap.Branches))
	add := func(branchID id.ID) *BranchStat {
		bs, ok := byBranch[branchID]
		if !ok {
			bs = &BranchStat{BranchID: branchID, BranchName: snap.BranchName(branchID), Revenue: types.Zero()}
			byBranch[branchID] = bs
			order = append(order, branchID)
		}
		return bs
	}

	for _, b := range snap.Branches {
		add(b.ID)
	}
	for i := range snap.Patients {
		p := &snap.Patients[i]
		bs := add(p.BranchID)
		bs.Patients++
		bs.Revenue = bs.Revenue.Add(p.TotalCost)
	}

	out := make([]BranchStat, 0, len(order))
	for _, bid := range order {
		out = append(out, *byBranch[bid])
	}
	return out
}

// TopValues counts values of one categorical field among patients with the given
// condition. Empty values are reported under UnspecifiedLabel. The result is sorted
// by count descending, then label ascending, and truncated to TopN.
func TopValues(patients []*clinic.Patient, cond clinic.Condition, value func(*clinic.Patient) string) []Bucket {
	counts := make(map[string]int)
	for _, p := range patients {
		if p.Condition() != cond {
			continue
		}
		v := value(p)
		if v == "" {
			v = UnspecifiedLabel
		}
		counts[v]++
	}

	out := make([]Bucket, 0, len(counts))
	for label, n := range counts {
		out = append(out, Bucket{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

// MonthlyTrend merges three bucketing passes (registrations, visits, payments) by
// month key. Visits and payments are filtered by their own dates against bound.
// The series is ascending and keeps only the most recent TrendMonths months.
func MonthlyTrend(patients []*clinic.Patient, visits []clinic.Visit, payments []clinic.Payment, bound *time.Time) []MonthPoint {
	months := make(map[string]*MonthPoint)
	month := func(key string) *MonthPoint {
		m, ok := months[key]
		if !ok {
			m = &MonthPoint{Month: key, Payments: types.Zero()}
			months[key] = m
		}
		return m
	}

	for _, p := range patients {
		month(calendar.MonthKey(p.RegisteredAt())).NewPatients++
	}
	for _, v := range visits {
		if calendar.InRange(v.VisitDate, bound) {
			month(calendar.MonthKey(v.VisitDate)).Visits++
		}
	}
	for _, pay := range payments {
		if calendar.InRange(pay.Date, bound) {
			m := month(calendar.MonthKey(pay.Date))
			m.Payments = m.Payments.Add(pay.Amount)
		}
	}

	keys := calendar.SortedKeys(months, false)
	if len(keys) > TrendMonths {
		keys = keys[len(keys)-TrendMonths:]
	}
	out := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, *months[k])
	}
	return out
}
