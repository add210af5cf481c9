package budget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// FUNDING CEILING TESTS
// =============================================================================

func TestFund_CreditsAvailable(t *testing.T) {
	b := newPendingBudget(t, budget.RequireOne, 0, "alice")

	funded, postings, err := budget.Fund(b, budget.NewMoneyFromInt(90), "acct-cash", "acct-equity", testNow)

	require.NoError(t, err)
	assert.True(t, funded.AvailableAmount.Equal(budget.NewMoneyFromInt(90)))
	require.Len(t, postings, 2)
}

func TestFund_CeilingExact(t *testing.T) {
	// GIVEN: total 100, already funded 90
	// WHEN:  funding 20 then funding 10
	// THEN:  20 breaks the ceiling and fails whole; 10 lands exactly at 100

	b, err := budget.NewBudget(budget.NewBudgetInput{
		Name:                "Ceiling",
		TotalAmount:         budget.NewMoneyFromInt(100),
		AvailableAmount:     budget.NewMoneyFromInt(90),
		StartDate:           date(2024, 1, 1),
		EndDate:             date(2024, 3, 31),
		ApprovalRequirement: budget.RequireOne,
		ApproverIDs:         []budget.ApproverID{"alice"},
	}, testNow)
	require.NoError(t, err)

	_, _, err = budget.Fund(b, budget.NewMoneyFromInt(20), "acct-cash", "acct-equity", testNow)
	assert.ErrorIs(t, err, budget.ErrInvariantViolation)
	assert.True(t, b.AvailableAmount.Equal(budget.NewMoneyFromInt(90)),
		"failed funding must not partially apply")

	funded, _, err := budget.Fund(b, budget.NewMoneyFromInt(10), "acct-cash", "acct-equity", testNow)
	require.NoError(t, err)
	assert.True(t, funded.AvailableAmount.Equal(budget.NewMoneyFromInt(100)))
	assert.True(t, funded.SpentAmount().IsZero())
}

func TestFund_NonPositiveAmount(t *testing.T) {
	b := newPendingBudget(t, budget.RequireOne, 0, "alice")

	_, _, err := budget.Fund(b, budget.Zero(), "acct-cash", "acct-equity", testNow)
	assert.ErrorIs(t, err, budget.ErrInvalidAmount)

	_, _, err = budget.Fund(b, budget.NewMoneyFromInt(-5), "acct-cash", "acct-equity", testNow)
	assert.ErrorIs(t, err, budget.ErrInvalidAmount)
}

// =============================================================================
// STATUS GATE TESTS
// =============================================================================

func TestFund_ArchivedBudget_Refused(t *testing.T) {
	b := newPendingBudget(t, budget.RequireOne, 0, "alice")
	archived, _, err := budget.Archive(b, "admin-1", testNow)
	require.NoError(t, err)

	_, _, err = budget.Fund(archived, budget.NewMoneyFromInt(10), "acct-cash", "acct-equity", testNow)
	assert.ErrorIs(t, err, budget.ErrInvalidState)
}

func TestFund_RejectedBudget_Allowed(t *testing.T) {
	// Money can be reserved against a rejected budget before the final call;
	// only archival closes funding.

	b := newPendingBudget(t, budget.RequireOne, 0, "alice")
	rejected, _, err := budget.Reject(b, "alice", "needs rework", testNow)
	require.NoError(t, err)

	funded, postings, err := budget.Fund(rejected, budget.NewMoneyFromInt(10), "acct-cash", "acct-equity", testNow)
	require.NoError(t, err)
	assert.True(t, funded.AvailableAmount.Equal(budget.NewMoneyFromInt(10)))
	assert.Len(t, postings, 2)
}

// =============================================================================
// POSTING SHAPE TESTS
// =============================================================================

func TestFund_EmitsBalancedPair(t *testing.T) {
	// GIVEN: Any funding transaction
	// THEN: Exactly one debit on the source and one credit on the equity
	//       account, equal amounts, tagged with the budget

	b := newPendingBudget(t, budget.RequireOne, 0, "alice")
	amount := budget.MustMoney("1234.56")

	_, postings, err := budget.Fund(b, amount, "acct-cash", "acct-equity", testNow)
	require.NoError(t, err)
	require.Len(t, postings, 2)

	debit, credit := postings[0], postings[1]
	assert.Equal(t, budget.Debit, debit.Side)
	assert.Equal(t, budget.AccountID("acct-cash"), debit.AccountID)
	assert.Equal(t, budget.Credit, credit.Side)
	assert.Equal(t, budget.AccountID("acct-equity"), credit.AccountID)

	assert.True(t, debit.Amount.Equal(amount))
	assert.True(t, credit.Amount.Equal(amount))
	assert.True(t, budget.Balanced(postings))

	for _, p := range postings {
		assert.Equal(t, b.ID, p.BudgetID)
		assert.NotEmpty(t, p.ID)
	}
}
