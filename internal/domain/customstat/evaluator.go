package customstat

import (
	"fmt"

	"github.com/shopspring/decimal"

	"clinicstats/internal/core/id"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
)

// Display labels.
const (
	UnavailableLabel = "غير متوفر"

	patientsUnit = "مريض"
	currencyUnit = "د.ع"
	yearsUnit    = "سنة"
)

// Result is the evaluated value of one definition.
type Result struct {
	Stat  *CustomStat `json:"stat"`
	Value types.Money `json:"value"`
	Label string      `json:"label"`

	// Count is the filtered population size, TotalCount the unfiltered one.
	Count      int `json:"count"`
	TotalCount int `json:"totalCount"`

	// Available is false when no meaningful value exists (average of nobody).
	Available bool `json:"available"`
}

// Evaluate computes stat over population. Payments are consulted only for a
// sum over the payments category. Evaluation never fails: unknown filter fields
// match nothing and empty denominators produce defined defaults.
func Evaluate(stat *CustomStat, population []clinic.Patient, payments []clinic.Payment) Result {
	filtered := population
	if stat.HasFilter() {
		filtered = clinic.FilterPatients(population, stat.FilterField, stat.FilterValue)
	}

	res := Result{
		Stat:       stat,
		Value:      types.Zero(),
		Count:      len(filtered),
		TotalCount: len(population),
		Available:  true,
	}

	switch stat.StatType {
	case StatCount:
		res.Value = decimal.NewFromInt(int64(len(filtered)))
		res.Label = fmt.Sprintf("%s %s", res.Value.String(), patientsUnit)

	case StatSum:
		if stat.Category == CategoryPayments {
			res.Value = sumPayments(filtered, payments)
		} else {
			res.Value = sumCosts(filtered)
		}
		res.Label = fmt.Sprintf("%s %s", res.Value.String(), currencyUnit)

	case StatPercentage:
		res.Value = types.Percent(
			decimal.NewFromInt(int64(len(filtered))),
			decimal.NewFromInt(int64(len(population))),
			0)
		res.Label = fmt.Sprintf("%s%%", res.Value.String())

	case StatAverage:
		if len(filtered) == 0 {
			res.Available = false
			res.Label = UnavailableLabel
			break
		}
		total := 0
		for i := range filtered {
			total += filtered[i].Age
		}
		res.Value = decimal.NewFromInt(int64(total)).
			Div(decimal.NewFromInt(int64(len(filtered)))).
			Round(0)
		res.Label = fmt.Sprintf("%s %s", res.Value.String(), yearsUnit)

	default:
		res.Available = false
		res.Label = UnavailableLabel
	}

	return res
}

// sumPayments adds every payment owned by a patient of the filtered population.
func sumPayments(patients []clinic.Patient, payments []clinic.Payment) types.Money {
	owners := make(map[id.ID]struct{}, len(patients))
	for i := range patients {
		owners[patients[i].ID] = struct{}{}
	}
	total := types.Zero()
	for _, p := range payments {
		if _, ok := owners[p.PatientID]; ok {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func sumCosts(patients []clinic.Patient) types.Money {
	total := types.Zero()
	for i := range patients {
		total = total.Add(patients[i].TotalCost)
	}
	return total
}
