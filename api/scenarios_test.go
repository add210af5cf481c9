package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/budget-engine/api"
	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/store/sqlite"
)

// =============================================================================
// FULL-STACK SCENARIOS - HTTP facade over :memory: SQLite
// =============================================================================

func newSQLiteEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := budget.NewService(st, st, st, st, st)
	svc.Now = func() time.Time {
		return time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	}

	ctx := context.Background()
	require.NoError(t, st.SaveAccount(ctx, budget.AccountRef{ID: "acct-cash", Name: "Cash", Type: "cash", Active: true}))
	require.NoError(t, st.SaveAccount(ctx, budget.AccountRef{ID: "acct-equity", Name: "Funding equity", Type: "equity", Active: true}))

	h := api.NewHandler(svc, st, st)
	h.Sweeper = api.NewSweeper(svc, "@hourly")
	return &testEnv{router: api.NewRouter(h, []string{"*"}), svc: svc}
}

func TestScenario_SQLite_FullLifecycle(t *testing.T) {
	// Full end-to-end over the real store: create with at_least(2) of
	// three approvers, vote to quorum, fund to the ceiling, archive with
	// funds untouched.

	env := newSQLiteEnv(t)
	b := env.createBudget(t, createReq())

	rec := env.do(t, "POST", "/api/budgets/"+b.ID+"/approve", api.ApproveRequest{ApproverID: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", decodeBudget(t, rec).Status)

	rec = env.do(t, "POST", "/api/budgets/"+b.ID+"/approve", api.ApproveRequest{ApproverID: "bob"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", decodeBudget(t, rec).Status)

	rec = env.do(t, "POST", "/api/budgets/"+b.ID+"/fund", fundReq("500000", "fund-1"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto := decodeBudget(t, rec)
	assert.Equal(t, "500000", dto.AvailableAmount)
	assert.Equal(t, "0", dto.SpentAmount)

	req := httptest.NewRequest("DELETE", "/api/budgets/"+b.ID, nil)
	req.Header.Set("X-Actor-ID", "admin-1")
	del := httptest.NewRecorder()
	env.router.ServeHTTP(del, req)
	require.Equal(t, http.StatusOK, del.Code)
	archived := decodeBudget(t, del)
	assert.Equal(t, "archived", archived.Status)
	assert.Equal(t, "500000", archived.AvailableAmount, "archival does not alter funds")
}

func TestScenario_SQLite_RecurringChainOverHTTP(t *testing.T) {
	// Create a monthly chain and advance it twice through the facade; the
	// unique successor index makes the repeat advance a 204.

	env := newSQLiteEnv(t)
	root := env.createBudget(t, recurringCreateReq())

	rec := env.do(t, "POST", "/api/budgets/"+root.ID+"/advance", api.AdvanceRequest{AsOf: "2024-02-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	gen1 := decodeBudget(t, rec)
	assert.Equal(t, "2024-02-01", gen1.StartDate)

	rec = env.do(t, "POST", "/api/budgets/"+root.ID+"/advance", api.AdvanceRequest{AsOf: "2024-02-01"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, "POST", "/api/budgets/"+root.ID+"/advance", api.AdvanceRequest{AsOf: "2024-04-01"})
	require.Equal(t, http.StatusCreated, rec.Code)
	gen2 := decodeBudget(t, rec)
	assert.Equal(t, "2024-03-01", gen2.StartDate)
	assert.Equal(t, root.ID, gen2.OriginalBudgetID)

	// The whole chain is visible in the listing.
	rec = env.do(t, "GET", "/api/budgets?organization_id=org-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []api.BudgetDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 3)
}
