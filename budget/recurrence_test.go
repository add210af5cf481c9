package budget_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newMonthlyRoot(t *testing.T, recurrenceEnd *budget.Date) budget.Budget {
	t.Helper()
	b, err := budget.NewBudget(budget.NewBudgetInput{
		OrganizationID:      "org-1",
		Name:                "Ops monthly",
		TotalAmount:         budget.NewMoneyFromInt(10000),
		AvailableAmount:     budget.Zero(),
		StartDate:           budget.NewDate(2024, time.January, 1),
		EndDate:             budget.NewDate(2024, time.January, 31),
		ApprovalRequirement: budget.RequireOne,
		ApproverIDs:         []budget.ApproverID{"alice", "bob"},
		BudgetedAccountID:   "acct-ops",
		RecurrenceType:      budget.RecurrenceMonthly,
		RecurrenceInterval:  1,
		RecurrenceEndDate:   recurrenceEnd,
	}, testNow)
	require.NoError(t, err)
	return b
}

// =============================================================================
// PERIOD MATH
// =============================================================================

func TestNextOccurrence_MonthlyPeriodMath(t *testing.T) {
	// GIVEN: Monthly root 2024-01-01 .. 2024-01-31 (30-day span)
	// WHEN:  Advancing on 2024-01-31
	// THEN:  Successor spans 2024-02-01 .. 2024-03-02, span preserved

	root := newMonthlyRoot(t, nil)

	next, err := budget.NextOccurrence(root, budget.NewDate(2024, time.January, 31), testNow)
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.Equal(t, "2024-02-01", next.StartDate.String())
	assert.Equal(t, "2024-03-02", next.EndDate.String())
	assert.Equal(t, budget.DaysBetween(root.StartDate, root.EndDate),
		budget.DaysBetween(next.StartDate, next.EndDate))
}

func TestNextOccurrence_MonthEndAnchor_NoMonthSkipped(t *testing.T) {
	// GIVEN: A monthly chain anchored on Jan 31
	// WHEN:  Advancing generation by generation
	// THEN:  The chain clamps to Feb 29 instead of jumping to March

	root := newMonthlyRoot(t, nil)
	root.StartDate = budget.NewDate(2024, time.January, 31)
	root.EndDate = budget.NewDate(2024, time.February, 28)

	gen1, err := budget.NextOccurrence(root, budget.NewDate(2024, time.February, 28), testNow)
	require.NoError(t, err)
	require.NotNil(t, gen1)
	assert.Equal(t, "2024-02-29", gen1.StartDate.String())

	gen2, err := budget.NextOccurrence(*gen1, gen1.EndDate, testNow)
	require.NoError(t, err)
	require.NotNil(t, gen2)
	assert.Equal(t, "2024-03-29", gen2.StartDate.String(),
		"after a clamp the chain advances from the clamped day")
}

func TestNextOccurrence_AllRecurrenceTypes(t *testing.T) {
	cases := []struct {
		name      string
		recurType budget.RecurrenceType
		interval  int
		wantStart string
	}{
		{"daily x1", budget.RecurrenceDaily, 1, "2024-01-02"},
		{"daily x10", budget.RecurrenceDaily, 10, "2024-01-11"},
		{"weekly x1", budget.RecurrenceWeekly, 1, "2024-01-08"},
		{"monthly x1", budget.RecurrenceMonthly, 1, "2024-02-01"},
		{"monthly x2", budget.RecurrenceMonthly, 2, "2024-03-01"},
		{"quarterly x1", budget.RecurrenceQuarterly, 1, "2024-04-01"},
		{"annually x1", budget.RecurrenceAnnually, 1, "2025-01-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := newMonthlyRoot(t, nil)
			root.RecurrenceType = tc.recurType
			root.RecurrenceInterval = tc.interval

			next, err := budget.NextOccurrence(root, budget.NewDate(2025, time.December, 31), testNow)
			require.NoError(t, err)
			require.NotNil(t, next)
			assert.Equal(t, tc.wantStart, next.StartDate.String())
		})
	}
}

// =============================================================================
// GATING
// =============================================================================

func TestNextOccurrence_PeriodNotEnded(t *testing.T) {
	root := newMonthlyRoot(t, nil)

	next, err := budget.NextOccurrence(root, budget.NewDate(2024, time.January, 15), testNow)
	require.NoError(t, err)
	assert.Nil(t, next, "nothing spawns while the period is still running")
}

func TestNextOccurrence_EndDateDay_IsDue(t *testing.T) {
	root := newMonthlyRoot(t, nil)

	next, err := budget.NextOccurrence(root, root.EndDate, testNow)
	require.NoError(t, err)
	assert.NotNil(t, next, "the period's last day counts as ended")
}

func TestNextOccurrence_NonRecurring(t *testing.T) {
	b := newPendingBudget(t, budget.RequireOne, 0, "alice")

	next, err := budget.NextOccurrence(b, budget.NewDate(2030, time.January, 1), testNow)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextOccurrence_ArchivedRoot_StopsChain(t *testing.T) {
	root := newMonthlyRoot(t, nil)
	archived, _, err := budget.Archive(root, "admin-1", testNow)
	require.NoError(t, err)

	next, err := budget.NextOccurrence(archived, budget.NewDate(2024, time.February, 15), testNow)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextOccurrence_RecurrenceEndDate_Exhausts(t *testing.T) {
	// GIVEN: Chain ends 2024-01-15; the next start would be 2024-02-01
	// THEN:  Chain is exhausted, nothing spawns

	end := budget.NewDate(2024, time.January, 15)
	root := newMonthlyRoot(t, &end)

	next, err := budget.NextOccurrence(root, budget.NewDate(2024, time.March, 1), testNow)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextOccurrence_RecurrenceEndDate_ExactBoundary(t *testing.T) {
	// The chain end is inclusive: a successor starting exactly on it spawns.

	end := budget.NewDate(2024, time.February, 1)
	root := newMonthlyRoot(t, &end)

	next, err := budget.NextOccurrence(root, budget.NewDate(2024, time.March, 1), testNow)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "2024-02-01", next.StartDate.String())
}

// =============================================================================
// SUCCESSOR STATE
// =============================================================================

func TestNextOccurrence_SuccessorResetsState(t *testing.T) {
	// GIVEN: An approved, partly funded root with votes recorded
	// WHEN:  The successor spawns
	// THEN:  It is pending, unfunded, votes reset; policy and amounts carry over

	root := newMonthlyRoot(t, nil)
	root, _, err := budget.RecordApproval(root, "alice", testNow)
	require.NoError(t, err)
	require.Equal(t, budget.StatusApproved, root.Status)
	root, _, err = budget.Fund(root, budget.NewMoneyFromInt(5000), "acct-cash", "acct-equity", testNow)
	require.NoError(t, err)

	next, err := budget.NextOccurrence(root, budget.NewDate(2024, time.February, 1), testNow)
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.Equal(t, budget.StatusPending, next.Status)
	assert.True(t, next.AvailableAmount.IsZero(), "successors start unfunded")
	assert.True(t, next.TotalAmount.Equal(root.TotalAmount))
	assert.Equal(t, 0, next.ApprovalCount(), "votes reset")
	require.Len(t, next.Approvers, 2)
	assert.Equal(t, root.ID, next.OriginalBudgetID)
	assert.False(t, next.IsRecurringParent)
	assert.NotEqual(t, root.ID, next.ID)
}

func TestNextOccurrence_SuccessorLinksToChainRoot(t *testing.T) {
	// A successor of a successor still links to the original root, so the
	// chain never forks.

	root := newMonthlyRoot(t, nil)

	gen1, err := budget.NextOccurrence(root, budget.NewDate(2024, time.February, 1), testNow)
	require.NoError(t, err)
	require.NotNil(t, gen1)

	gen2, err := budget.NextOccurrence(*gen1, budget.NewDate(2024, time.April, 1), testNow)
	require.NoError(t, err)
	require.NotNil(t, gen2)

	assert.Equal(t, root.ID, gen1.OriginalBudgetID)
	assert.Equal(t, root.ID, gen2.OriginalBudgetID)
	assert.Equal(t, "2024-03-01", gen2.StartDate.String())
}
