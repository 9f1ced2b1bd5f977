package model

// Verdict is the tri-state classification assigned to one required check.
type Verdict string

const (
	VerdictSuccess Verdict = "success"
	VerdictFailure Verdict = "failure"
	VerdictPending Verdict = "pending"
)

// BranchOutcome is the aggregate of all required-check verdicts for a branch.
// It is computed fresh on each evaluation and never persisted as state; the
// Decision audit log records it for observability only.
type BranchOutcome string

const (
	OutcomeAllSuccess    BranchOutcome = "all_success"
	OutcomeHasFailure    BranchOutcome = "has_failure"
	OutcomeIndeterminate BranchOutcome = "indeterminate"
)

// RemovalReason explains why the merge-intent label was removed. The two
// reasons drive different log messages even though the mechanical effect
// (label removal) is identical.
type RemovalReason string

const (
	// ReasonOutstandingReviews: no required checks remain unresolved, so a
	// still-blocked PR must be waiting on reviews.
	ReasonOutstandingReviews RemovalReason = "outstanding_reviews"
	// ReasonStatusChecks: at least one required check failed.
	ReasonStatusChecks RemovalReason = "status_checks"
)

// GateAction is what the decision engine chose to do for a blocked PR.
type GateAction string

const (
	ActionNone        GateAction = "none"
	ActionRemoveLabel GateAction = "remove_label"
	ActionMerge       GateAction = "merge"
)
