/*
quorum.go - Approval policy evaluation

PURPOSE:
  Decide whether a budget's current approver-vote set satisfies its approval
  policy. This is a pure, deterministic function with no side effects; the
  lifecycle state machine delegates to it after every recorded vote.

POLICIES:
  one       satisfied iff at least one approver has voted yes
  at_least  satisfied iff yes-votes >= RequiredApprovals
  all       satisfied iff every approver has voted yes

FAIL CLOSED:
  An empty approver set never satisfies any policy; evaluation returns
  ErrUnconfiguredApprovers rather than silently approving.

UNIQUENESS:
  Approver identity is deduplicated at budget creation (NewBudget). This
  function assumes uniqueness and does not re-check it.

SEE ALSO:
  - lifecycle.go: RecordApproval, the only engine caller
*/
package budget

// EvaluateQuorum reports whether the vote set satisfies the approval policy.
func EvaluateQuorum(requirement ApprovalRequirement, requiredApprovals int, approvers []Approver) (bool, error) {
	if len(approvers) == 0 {
		return false, ErrUnconfiguredApprovers
	}

	approved := 0
	for _, a := range approvers {
		if a.Approved {
			approved++
		}
	}

	switch requirement {
	case RequireOne:
		return approved >= 1, nil
	case RequireAtLeast:
		if requiredApprovals < 1 || requiredApprovals > len(approvers) {
			return false, ErrInvalidApprovalPolicy
		}
		return approved >= requiredApprovals, nil
	case RequireAll:
		return approved == len(approvers), nil
	default:
		return false, ErrInvalidApprovalPolicy
	}
}
