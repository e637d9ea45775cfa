package clinic_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicstats/internal/core/id"
	"clinicstats/internal/core/security"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/clinic"
	"clinicstats/internal/domain/clinic/clinictest"
)

func twoBranches() (clinic.Snapshot, id.ID, id.ID) {
	a, b := id.New(), id.New()
	pa, pb := id.New(), id.New()
	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return clinic.Snapshot{
		Branches: []clinic.Branch{{ID: a, Name: "Baghdad"}, {ID: b, Name: "Basra"}},
		Patients: []clinic.Patient{
			{ID: pa, BranchID: a, Name: "A", CreatedAt: day, TotalCost: types.NewMoneyFromInt(100)},
			{ID: pb, BranchID: b, Name: "B", CreatedAt: day, TotalCost: types.NewMoneyFromInt(200)},
		},
		Visits: []clinic.Visit{
			{ID: id.New(), PatientID: pa, BranchID: a, VisitDate: day},
			{ID: id.New(), PatientID: pb, BranchID: b, VisitDate: day},
		},
		Payments: []clinic.Payment{
			{ID: id.New(), PatientID: pa, BranchID: a, Amount: types.NewMoneyFromInt(50), Date: day},
			{ID: id.New(), PatientID: pb, BranchID: b, Amount: types.NewMoneyFromInt(70), Date: day},
		},
	}, a, b
}

func TestLoader_AllBranches(t *testing.T) {
	snap, _, _ := twoBranches()
	loader := clinic.NewLoader(clinictest.New(snap))

	got, err := loader.Load(context.Background(), security.AllBranches(), clinic.LoadOptions{Visits: true, Payments: true})
	require.NoError(t, err)

	assert.Len(t, got.Branches, 2)
	assert.Len(t, got.Patients, 2)
	assert.Len(t, got.Visits, 2)
	assert.Len(t, got.Payments, 2)
}

func TestLoader_SingleBranch(t *testing.T) {
	snap, a, _ := twoBranches()
	loader := clinic.NewLoader(clinictest.New(snap))

	got, err := loader.Load(context.Background(), security.SingleBranch(a), clinic.LoadOptions{Payments: true})
	require.NoError(t, err)

	require.Len(t, got.Branches, 1)
	assert.Equal(t, "Baghdad", got.Branches[0].Name)
	require.Len(t, got.Patients, 1)
	assert.Equal(t, a, got.Patients[0].BranchID)
	require.Len(t, got.Payments, 1)
	assert.Equal(t, a, got.Payments[0].BranchID)
	assert.Empty(t, got.Visits, "visits not requested")
}

func TestLoader_EmptyScopeSkipsStorage(t *testing.T) {
	snap, _, _ := twoBranches()
	repo := clinictest.New(snap)
	loader := clinic.NewLoader(repo)

	got, err := loader.Load(context.Background(), security.NoBranches(), clinic.LoadOptions{Visits: true, Payments: true})
	require.NoError(t, err)

	assert.Empty(t, got.Patients)
	assert.Empty(t, got.Payments)
	assert.Zero(t, repo.Calls)
}

func TestLoader_PropagatesFetchError(t *testing.T) {
	snap, _, _ := twoBranches()
	repo := clinictest.New(snap)
	repo.Err = errors.New("connection reset")

	_, err := clinic.NewLoader(repo).Load(context.Background(), security.AllBranches(), clinic.LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.Err)
}
