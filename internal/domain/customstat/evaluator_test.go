package customstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicstats/internal/core/id"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
)

func population() []clinic.Patient {
	return []clinic.Patient{
		{ID: id.New(), Age: 30, IsAmputee: true, Gender: "male", TotalCost: types.NewMoneyFromInt(5000)},
		{ID: id.New(), Age: 41, IsPhysiotherapy: true, Gender: "female", TotalCost: types.NewMoneyFromInt(1500)},
		{ID: id.New(), Age: 50, IsPhysiotherapy: true, Gender: "male", TotalCost: types.NewMoneyFromInt(800)},
		{ID: id.New(), Age: 12, IsMedicalSupport: true, Gender: "female", TotalCost: types.NewMoneyFromInt(200)},
	}
}

func TestEvaluate_PercentageOfAmputees(t *testing.T) {
	stat := &CustomStat{StatType: StatPercentage, Category: CategoryPatients, FilterField: "isAmputee", FilterValue: "true"}

	res := Evaluate(stat, population(), nil)

	assert.True(t, res.Value.Equal(types.NewMoneyFromInt(25)))
	assert.Equal(t, "25%", res.Label)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 4, res.TotalCount)
	assert.True(t, res.Available)
}

func TestEvaluate_PercentageRoundsToInteger(t *testing.T) {
	pop := population()[:3]
	stat := &CustomStat{StatType: StatPercentage, Category: CategoryPatients, FilterField: "isPhysiotherapy", FilterValue: "true"}

	res := Evaluate(stat, pop, nil)

	assert.Equal(t, "67%", res.Label)
}

func TestEvaluate_PercentageEmptyPopulation(t *testing.T) {
	stat := &CustomStat{StatType: StatPercentage, Category: CategoryPatients, FilterField: "isAmputee", FilterValue: "true"}

	res := Evaluate(stat, nil, nil)

	assert.True(t, res.Value.IsZero())
	assert.Equal(t, "0%", res.Label)
}

func TestEvaluate_Count(t *testing.T) {
	stat := &CustomStat{StatType: StatCount, Category: CategoryPatients, FilterField: "gender", FilterValue: "female"}

	res := Evaluate(stat, population(), nil)

	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "2 مريض", res.Label)
}

func TestEvaluate_FilterNeedsBothParts(t *testing.T) {
	stat := &CustomStat{StatType: StatCount, Category: CategoryPatients, FilterField: "gender"}

	res := Evaluate(stat, population(), nil)

	assert.Equal(t, 4, res.Count)
}

func TestEvaluate_UnknownFieldMatchesNothing(t *testing.T) {
	stat := &CustomStat{StatType: StatCount, Category: CategoryPatients, FilterField: "__proto__", FilterValue: "x"}

	res := Evaluate(stat, population(), nil)

	assert.Equal(t, 0, res.Count)
	assert.Equal(t, "0 مريض", res.Label)
	assert.True(t, res.Available)
}

func TestEvaluate_SumOfCosts(t *testing.T) {
	stat := &CustomStat{StatType: StatSum, Category: CategoryPatients, FilterField: "isPhysiotherapy", FilterValue: "true"}

	res := Evaluate(stat, population(), nil)

	assert.True(t, res.Value.Equal(types.NewMoneyFromInt(2300)))
	assert.Equal(t, "2300 د.ع", res.Label)
}

func TestEvaluate_SumOfPayments(t *testing.T) {
	pop := population()
	payments := []clinic.Payment{
		{PatientID: pop[0].ID, Amount: types.NewMoneyFromInt(1000)},
		{PatientID: pop[0].ID, Amount: types.NewMoneyFromInt(250)},
		{PatientID: pop[1].ID, Amount: types.NewMoneyFromInt(400)},
		{PatientID: id.New(), Amount: types.NewMoneyFromInt(9999)},
	}
	stat := &CustomStat{StatType: StatSum, Category: CategoryPayments, FilterField: "gender", FilterValue: "male"}

	res := Evaluate(stat, pop, payments)

	assert.True(t, res.Value.Equal(types.NewMoneyFromInt(1250)))
}

func TestEvaluate_Average(t *testing.T) {
	stat := &CustomStat{StatType: StatAverage, Category: CategoryPatients, FilterField: "isPhysiotherapy", FilterValue: "true"}

	res := Evaluate(stat, population(), nil)

	// (41 + 50) / 2 = 45.5
	assert.True(t, res.Value.Equal(types.NewMoneyFromInt(46)))
	assert.Equal(t, "46 سنة", res.Label)
	assert.True(t, res.Available)
}

func TestEvaluate_AverageOfNobodyIsUnavailable(t *testing.T) {
	stat := &CustomStat{StatType: StatAverage, Category: CategoryPatients, FilterField: "gender", FilterValue: "other"}

	res := Evaluate(stat, population(), nil)

	assert.False(t, res.Available)
	assert.Equal(t, UnavailableLabel, res.Label)
	assert.Equal(t, 0, res.Count)
}

func TestEvaluate_PercentageWithinBounds(t *testing.T) {
	pop := population()
	for _, field := range []string{"isAmputee", "isPhysiotherapy", "isMedicalSupport", "gender", "unknown"} {
		for _, value := range []string{"true", "false", "male", "female"} {
			stat := &CustomStat{StatType: StatPercentage, Category: CategoryPatients, FilterField: field, FilterValue: value}
			res := Evaluate(stat, pop, nil)
			require.False(t, res.Value.IsNegative(), "%s=%s", field, value)
			require.True(t, res.Value.LessThanOrEqual(types.NewMoneyFromInt(100)), "%s=%s", field, value)
		}
	}
}

func TestCustomStat_Validate(t *testing.T) {
	branch := id.New()
	tests := []struct {
		name    string
		stat    CustomStat
		wantErr bool
	}{
		{"valid global", CustomStat{Name: "n", StatType: StatCount, Category: CategoryPatients, IsGlobal: true}, false},
		{"valid branch", CustomStat{Name: "n", StatType: StatSum, Category: CategoryPayments, BranchID: &branch}, false},
		{"missing name", CustomStat{StatType: StatCount, Category: CategoryPatients, IsGlobal: true}, true},
		{"bad stat type", CustomStat{Name: "n", StatType: "median", Category: CategoryPatients, IsGlobal: true}, true},
		{"bad category", CustomStat{Name: "n", StatType: StatCount, Category: "doctors", IsGlobal: true}, true},
		{"global with branch", CustomStat{Name: "n", StatType: StatCount, Category: CategoryPatients, IsGlobal: true, BranchID: &branch}, true},
		{"branch without id", CustomStat{Name: "n", StatType: StatCount, Category: CategoryVisits}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stat.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
