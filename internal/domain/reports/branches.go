package reports

import (
	"time"

	"clinicstats/internal/core/calendar"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
)

// BuildBranchTotals summarises revenue and collections per branch.
// With daily set, only patients registered today and payments dated today count.
// Every branch in the snapshot gets an entry, even with no activity.
func BuildBranchTotals(snap *clinic.Snapshot, daily bool, now time.Time) map[id.ID]BranchTotals {
	counts := func(t time.Time) bool {
		return !daily || calendar.IsSameDay(t, now)
	}

	out := make(map[id.ID]BranchTotals, len(snap.Branches))
	get := func(branchID id.ID) BranchTotals {
		bt, ok := out[branchID]
		if !ok {
			bt = BranchTotals{
				BranchID:   branchID,
				BranchName: snap.BranchName(branchID),
				Revenue:    types.Zero(),
				Paid:       types.Zero(),
			}
		}
		return bt
	}

	for _, b := range snap.Branches {
		out[b.ID] = get(b.ID)
	}
	for i := range snap.Patients {
		p := &snap.Patients[i]
		if !counts(p.RegisteredAt()) {
			continue
		}
		bt := get(p.BranchID)
		bt.Revenue = bt.Revenue.Add(p.TotalCost)
		bt.Sold++
		out[p.BranchID] = bt
	}
	for _, pay := range snap.Payments {
		if !counts(pay.Date) {
			continue
		}
		bt := get(pay.BranchID)
		bt.Paid = bt.Paid.Add(pay.Amount)
		out[pay.BranchID] = bt
	}

	for bid, bt := range out {
		bt.Remaining = bt.Revenue.Sub(bt.Paid)
		out[bid] = bt
	}
	return out
}
