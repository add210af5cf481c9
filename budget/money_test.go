package budget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// CONSTRUCTOR TESTS
// =============================================================================

func TestMoney_Constructors(t *testing.T) {
	assert.True(t, budget.Zero().IsZero())
	assert.Equal(t, "123.45", budget.NewMoneyFromMinorUnits(12345, 2).String())
	assert.Equal(t, "500", budget.NewMoneyFromInt(500).String())

	m, err := budget.NewMoneyFromString("499.99")
	require.NoError(t, err)
	assert.Equal(t, "499.99", m.String())

	_, err = budget.NewMoneyFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := budget.MustMoney("100.10")
	b := budget.MustMoney("0.20")

	assert.Equal(t, "100.3", a.Add(b).String())
	assert.Equal(t, "99.9", a.Sub(b).String())
	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.LessThan(a))
	assert.True(t, a.Sub(a).IsZero())
	assert.True(t, b.Sub(a).IsNegative())
}

func TestMoney_NoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not 0.30000000000000004
	sum := budget.MustMoney("0.1").Add(budget.MustMoney("0.2"))
	assert.True(t, sum.Equal(budget.MustMoney("0.3")))
}

// =============================================================================
// RECONCILIATION IDENTITY TESTS
// =============================================================================

func TestReconcile_DerivesSpent(t *testing.T) {
	// GIVEN: total 500000, available 350000
	// THEN: spent is derived as 150000

	spent, err := budget.Reconcile(budget.NewMoneyFromInt(500000), budget.NewMoneyFromInt(350000))
	require.NoError(t, err)
	assert.True(t, spent.Equal(budget.NewMoneyFromInt(150000)))
}

func TestReconcile_AvailableExceedsTotal_Fails(t *testing.T) {
	_, err := budget.Reconcile(budget.NewMoneyFromInt(100), budget.NewMoneyFromInt(101))

	require.Error(t, err)
	assert.ErrorIs(t, err, budget.ErrInvariantViolation)

	var iv *budget.InvariantViolationError
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "available exceeds total", iv.Detail)
}

func TestReconcile_NegativeOperands_Fail(t *testing.T) {
	_, err := budget.Reconcile(budget.NewMoneyFromInt(-1), budget.Zero())
	assert.ErrorIs(t, err, budget.ErrInvariantViolation)

	_, err = budget.Reconcile(budget.NewMoneyFromInt(100), budget.NewMoneyFromInt(-1))
	assert.ErrorIs(t, err, budget.ErrInvariantViolation)
}

func TestReconcile_ZeroBudget_IsValid(t *testing.T) {
	spent, err := budget.Reconcile(budget.Zero(), budget.Zero())
	require.NoError(t, err)
	assert.True(t, spent.IsZero())
}
