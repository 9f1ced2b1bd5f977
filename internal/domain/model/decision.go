package model

import "time"

// Decision is one audit-log entry recording what the merge gate decided for a
// pull request evaluation. Evaluations aborted by fetch errors are not recorded.
type Decision struct {
	ID           int64
	RepoFullName string
	PRNumber     int
	HeadSHA      string
	Outcome      BranchOutcome // Aggregate verdict that produced the action.
	Action       GateAction
	Reason       RemovalReason // Empty unless Action is remove_label.
	CreatedAt    time.Time
}
