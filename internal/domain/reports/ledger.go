package reports

import (
	"sort"

	"clinicstats/internal/core/calendar"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
)

// BuildLedger groups one branch's full history by civil day.
//
// Patients are bucketed by registration day and contribute their whole totalCost
// to that day; payments are bucketed by their own date. Days are the union of both
// key sets, most recent first.
func BuildLedger(branchID id.ID, patients []clinic.Patient, payments []clinic.Payment) *Ledger {
	days := make(map[string]*DailySummary)
	day := func(key string) *DailySummary {
		d, ok := days[key]
		if !ok {
			d = &DailySummary{
				Date:       key,
				Patients:   []LedgerPatient{},
				Payments:   []LedgerPayment{},
				TotalPaid:  types.Zero(),
				TotalCosts: types.Zero(),
			}
			days[key] = d
		}
		return d
	}

	ledger := &Ledger{
		BranchID: branchID,
		Overall: LedgerOverall{
			TotalCost: types.Zero(),
			TotalPaid: types.Zero(),
		},
		Undated: UndatedTotals{TotalCost: types.Zero(), TotalPaid: types.Zero()},
	}

	index := clinic.IndexPatients(patients)
	for i := range patients {
		p := &patients[i]

		ledger.Overall.TotalCost = ledger.Overall.TotalCost.Add(p.TotalCost)
		ledger.Overall.TotalPatients++

		registered := p.RegisteredAt()
		key := calendar.DayKey(registered)
		if key == calendar.UnknownKey {
			ledger.Undated.Patients++
			ledger.Undated.TotalCost = ledger.Undated.TotalCost.Add(p.TotalCost)
			continue
		}

		d := day(key)
		d.Patients = append(d.Patients, LedgerPatient{
			ID:           p.ID,
			Name:         p.Name,
			Condition:    p.Condition(),
			TotalCost:    p.TotalCost,
			RegisteredAt: registered,
		})
		d.TotalCosts = d.TotalCosts.Add(p.TotalCost)
	}

	for _, pay := range payments {
		ledger.Overall.TotalPaid = ledger.Overall.TotalPaid.Add(pay.Amount)
		ledger.Overall.TotalPayments++

		key := calendar.DayKey(pay.Date)
		if key == calendar.UnknownKey {
			ledger.Undated.Payments++
			ledger.Undated.TotalPaid = ledger.Undated.TotalPaid.Add(pay.Amount)
			continue
		}

		name := UnknownPatientName
		if owner, ok := index[pay.PatientID]; ok {
			name = owner.Name
		}

		d := day(key)
		d.Payments = append(d.Payments, LedgerPayment{
			ID:          pay.ID,
			PatientID:   pay.PatientID,
			PatientName: name,
			Amount:      pay.Amount,
			Notes:       pay.Notes,
			Date:        pay.Date,
		})
		d.TotalPaid = d.TotalPaid.Add(pay.Amount)
	}

	ledger.Overall.Remaining = ledger.Overall.TotalCost.Sub(ledger.Overall.TotalPaid)

	keys := calendar.SortedKeys(days, true)
	ledger.DailySummaries = make([]DailySummary, 0, len(keys))
	for _, k := range keys {
		d := days[k]
		d.PatientCount = len(d.Patients)
		d.PaymentCount = len(d.Payments)
		sort.SliceStable(d.Patients, func(i, j int) bool {
			return d.Patients[i].RegisteredAt.Before(d.Patients[j].RegisteredAt)
		})
		sort.SliceStable(d.Payments, func(i, j int) bool {
			return d.Payments[i].Date.Before(d.Payments[j].Date)
		})
		ledger.DailySummaries = append(ledger.DailySummaries, *d)
	}

	return ledger
}
