package reports

import (
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
)

// BuildRevenueByTreatment aggregates payments per patient condition.
// Rows follow clinic.Conditions order; payments of patients missing from the
// snapshot or without a condition go to an "unknown" row, emitted only when non-empty.
func BuildRevenueByTreatment(snap *clinic.Snapshot) []TreatmentRevenue {
	rows := make(map[clinic.Condition]*TreatmentRevenue, len(clinic.Conditions)+1)
	row := func(c clinic.Condition) *TreatmentRevenue {
		r, ok := rows[c]
		if !ok {
			r = &TreatmentRevenue{Treatment: c, TotalCost: types.Zero(), TotalPaid: types.Zero()}
			rows[c] = r
		}
		return r
	}
	for _, c := range clinic.Conditions {
		row(c)
	}

	for i := range snap.Patients {
		p := &snap.Patients[i]
		r := row(p.Condition())
		r.Patients++
		r.TotalCost = r.TotalCost.Add(p.TotalCost)
	}

	owners := clinic.IndexPatients(snap.Patients)
	for _, pay := range snap.Payments {
		c := clinic.ConditionUnknown
		if p, ok := owners[pay.PatientID]; ok {
			c = p.Condition()
		}
		r := row(c)
		r.Payments++
		r.TotalPaid = r.TotalPaid.Add(pay.Amount)
	}

	out := make([]TreatmentRevenue, 0, len(rows))
	for _, c := range clinic.Conditions {
		out = append(out, *rows[c])
	}
	if r, ok := rows[clinic.ConditionUnknown]; ok {
		out = append(out, *r)
	}
	return out
}
