package budget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// QUORUM EVALUATION TESTS
// =============================================================================

func votes(approved ...bool) []budget.Approver {
	out := make([]budget.Approver, len(approved))
	for i, a := range approved {
		out[i] = budget.Approver{
			ApproverID: budget.ApproverID(string(rune('a' + i))),
			Approved:   a,
		}
	}
	return out
}

func TestEvaluateQuorum_RequireOne(t *testing.T) {
	cases := []struct {
		name      string
		approvers []budget.Approver
		want      bool
	}{
		{"no votes", votes(false, false, false), false},
		{"one of three", votes(false, true, false), true},
		{"all of three", votes(true, true, true), true},
		{"single approver voted", votes(true), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := budget.EvaluateQuorum(budget.RequireOne, 0, tc.approvers)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateQuorum_RequireAtLeast(t *testing.T) {
	cases := []struct {
		name      string
		required  int
		approvers []budget.Approver
		want      bool
	}{
		{"below threshold", 2, votes(true, false, false), false},
		{"at threshold", 2, votes(true, true, false), true},
		{"above threshold", 2, votes(true, true, true), true},
		{"threshold equals set size", 3, votes(true, true, true), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := budget.EvaluateQuorum(budget.RequireAtLeast, tc.required, tc.approvers)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateQuorum_RequireAtLeast_InvalidThreshold(t *testing.T) {
	// Thresholds outside 1..len(approvers) are a policy error, not a quorum
	// outcome.
	_, err := budget.EvaluateQuorum(budget.RequireAtLeast, 0, votes(false, false))
	assert.ErrorIs(t, err, budget.ErrInvalidApprovalPolicy)

	_, err = budget.EvaluateQuorum(budget.RequireAtLeast, 3, votes(false, false))
	assert.ErrorIs(t, err, budget.ErrInvalidApprovalPolicy)
}

func TestEvaluateQuorum_RequireAll(t *testing.T) {
	cases := []struct {
		name      string
		approvers []budget.Approver
		want      bool
	}{
		{"none voted", votes(false, false), false},
		{"partial", votes(true, false), false},
		{"all voted", votes(true, true), true},
		{"single approver is unanimous", votes(true), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := budget.EvaluateQuorum(budget.RequireAll, 0, tc.approvers)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateQuorum_EmptyApprovers_FailsClosed(t *testing.T) {
	// GIVEN: No approvers configured
	// WHEN: Evaluating any policy
	// THEN: Never satisfied; explicit configuration error

	for _, req := range []budget.ApprovalRequirement{
		budget.RequireOne, budget.RequireAtLeast, budget.RequireAll,
	} {
		satisfied, err := budget.EvaluateQuorum(req, 1, nil)
		assert.False(t, satisfied, "policy %q must not be satisfied by an empty set", req)
		assert.ErrorIs(t, err, budget.ErrUnconfiguredApprovers)
	}
}

func TestEvaluateQuorum_UnknownRequirement(t *testing.T) {
	_, err := budget.EvaluateQuorum(budget.ApprovalRequirement("majority"), 0, votes(true))
	assert.ErrorIs(t, err, budget.ErrInvalidApprovalPolicy)
}
