package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicstats/internal/core/apperror"
	appctx "clinicstats/internal/core/context"
	"clinicstats/internal/core/id"
	"clinicstats/internal/core/types"
	"clinicstats/internal/domain/auth"
	"clinicstats/internal/domain/clinic"
	"clinicstats/internal/domain/clinic/clinictest"
	"clinicstats/internal/domain/customstat"
	"clinicstats/internal/domain/reports"
	"clinicstats/internal/infrastructure/metrics"
	"clinicstats/internal/infrastructure/storage/postgres"
	"clinicstats/pkg/logger"
)

type fakeDB struct{ err error }

func (f fakeDB) Ping(context.Context) error { return f.err }

func (f fakeDB) Stats() postgres.PoolStats { return postgres.PoolStats{MaxConns: 4} }

type statStore struct {
	mu    sync.Mutex
	stats map[id.ID]customstat.CustomStat
}

func (s *statStore) List(_ context.Context, f customstat.ListFilter) ([]customstat.CustomStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []customstat.CustomStat
	for _, st := range s.stats {
		if (st.IsGlobal && f.IncludeGlobal) || (!st.IsGlobal && (f.BranchID == nil || *st.BranchID == *f.BranchID)) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *statStore) Get(_ context.Context, statID id.ID) (*customstat.CustomStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[statID]
	if !ok {
		return nil, apperror.NewNotFound("custom stat", statID.String())
	}
	return &st, nil
}

func (s *statStore) Create(_ context.Context, stat *customstat.CustomStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[stat.ID] = *stat
	return nil
}

func (s *statStore) Update(ctx context.Context, stat *customstat.CustomStat) error {
	return s.Create(ctx, stat)
}

func (s *statStore) Delete(_ context.Context, statID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stats, statID)
	return nil
}

type inlineTx struct{}

func (inlineTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type apiFixture struct {
	router  *gin.Engine
	jwt     *auth.JWTService
	branchA id.ID
	branchB id.ID
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	a, b := id.New(), id.New()
	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	p1, p2, p3 := id.New(), id.New(), id.New()

	snap := clinic.Snapshot{
		Branches: []clinic.Branch{{ID: a, Name: "Baghdad"}, {ID: b, Name: "Basra"}},
		Patients: []clinic.Patient{
			{ID: p1, BranchID: a, Name: "Ali", Age: 30, IsAmputee: true, TotalCost: types.NewMoneyFromInt(1000), CreatedAt: day},
			{ID: p2, BranchID: a, Name: "Sara", Age: 45, IsPhysiotherapy: true, TotalCost: types.NewMoneyFromInt(500), CreatedAt: day},
			{ID: p3, BranchID: b, Name: "Omar", Age: 60, IsMedicalSupport: true, TotalCost: types.NewMoneyFromInt(200), CreatedAt: day},
		},
		Payments: []clinic.Payment{
			{ID: id.New(), PatientID: p1, BranchID: a, Amount: types.NewMoneyFromInt(400), Date: day},
			{ID: id.New(), PatientID: p3, BranchID: b, Amount: types.NewMoneyFromInt(200), Date: day},
		},
	}

	loader := clinic.NewLoader(clinictest.New(snap))
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	store := &statStore{stats: make(map[id.ID]customstat.CustomStat)}

	router := NewRouter(RouterConfig{
		Mode:         gin.TestMode,
		Version:      "test",
		Logger:       logger.Default(),
		JWTValidator: jwtService,
		Database:     fakeDB{},
		Metrics:      metrics.New(),
		Reports:      reports.NewService(loader),
		CustomStats:  customstat.NewService(store, loader, inlineTx{}, nil),
	})

	return &apiFixture{router: router, jwt: jwtService, branchA: a, branchB: b}
}

func (f *apiFixture) token(t *testing.T, role string, branch *id.ID) string {
	t.Helper()
	user := appctx.UserContext{UserID: "u-" + role, Role: role}
	if branch != nil {
		user.BranchID = branch.String()
	}
	token, _, err := f.jwt.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestRouter_HealthAndMetricsArePublic(t *testing.T) {
	f := newAPIFixture(t)

	rec, body := f.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, body = f.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, _ = f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clinicstats_http_requests_total")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	f := newAPIFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/v1/reports/all-branches", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperror.CodeUnauthorized, body["code"])

	rec, _ = f.do(t, http.MethodGet, "/api/v1/reports/all-branches", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_DetailedLedger(t *testing.T) {
	f := newAPIFixture(t)
	clerk := f.token(t, appctx.RoleBranch, &f.branchA)

	rec, body := f.do(t, http.MethodGet, "/api/v1/reports/detailed/"+f.branchA.String(), clerk, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Baghdad", body["branchName"])

	overall := body["overall"].(map[string]any)
	assert.Equal(t, 1500.0, overall["totalCost"])
	assert.Equal(t, 400.0, overall["totalPaid"])
	assert.Equal(t, 1100.0, overall["remaining"])

	rec, body = f.do(t, http.MethodGet, "/api/v1/reports/detailed/"+f.branchB.String(), clerk, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperror.CodeForbidden, body["code"])

	rec, body = f.do(t, http.MethodGet, "/api/v1/reports/detailed/not-a-uuid", clerk, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperror.CodeInvalidInput, body["code"])
}

func TestRouter_AllBranches(t *testing.T) {
	f := newAPIFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/v1/reports/all-branches", f.token(t, appctx.RoleAdmin, nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body, 2)

	basra := body[f.branchB.String()].(map[string]any)
	assert.Equal(t, "Basra", basra["branchName"])
	assert.Equal(t, 0.0, basra["remaining"])

	rec, body = f.do(t, http.MethodGet, "/api/v1/reports/all-branches", f.token(t, appctx.RoleBranch, &f.branchA), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body, 1)
	assert.Contains(t, body, f.branchA.String())
}

func TestRouter_StatisticsNarrowing(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.token(t, appctx.RoleAdmin, nil)

	rec, body := f.do(t, http.MethodGet, "/api/v1/statistics/overview?branchId="+f.branchB.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, 1.0, summary["totalPatients"])
	assert.Equal(t, 100.0, summary["collectionRate"])

	clerk := f.token(t, appctx.RoleBranch, &f.branchA)
	rec, _ = f.do(t, http.MethodGet, "/api/v1/statistics/overview?branchId="+f.branchB.String(), clerk, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/statistics/revenue-by-treatment?branchId=bad", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CustomStatLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	clerk := f.token(t, appctx.RoleBranch, &f.branchA)

	rec, body := f.do(t, http.MethodPost, "/api/v1/custom-stats", clerk, map[string]any{
		"name":     "Patients",
		"statType": "count",
		"category": "patients",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	statID := body["id"].(string)
	assert.Equal(t, f.branchA.String(), body["branchId"])

	rec, body = f.do(t, http.MethodGet, "/api/v1/custom-stats/"+statID+"/calculate", clerk, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, body["value"])
	assert.Equal(t, true, body["available"])
	assert.Contains(t, body["label"], "مريض")

	rec, _ = f.do(t, http.MethodPost, "/api/v1/custom-stats", clerk, map[string]any{
		"name":     "Everyone",
		"statType": "count",
		"category": "patients",
		"isGlobal": true,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	other := f.token(t, appctx.RoleBranch, &f.branchB)
	rec, _ = f.do(t, http.MethodDelete, "/api/v1/custom-stats/"+statID, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = f.do(t, http.MethodDelete, "/api/v1/custom-stats/"+statID, clerk, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, _ = f.do(t, http.MethodGet, "/api/v1/custom-stats/"+statID, clerk, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CustomStatValidation(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.token(t, appctx.RoleAdmin, nil)

	rec, body := f.do(t, http.MethodPost, "/api/v1/custom-stats", adminToken, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperror.CodeValidation, body["code"])

	rec, _ = f.do(t, http.MethodPost, "/api/v1/custom-stats", adminToken, map[string]any{
		"name":     "x",
		"statType": "median",
		"category": "patients",
		"isGlobal": true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
