package model

// CheckRun is an individual CI/CD check run from the GitHub Checks API.
type CheckRun struct {
	ID         int64  // GitHub check run ID.
	Name       string // Check run name (e.g., "build", "lint").
	Status     string // queued, in_progress, completed, waiting, requested, pending.
	Conclusion string // success, failure, neutral, cancelled, skipped, timed_out, action_required.
	DetailsURL string // URL to the check run details page.
}

// CommitStatus is an individual legacy-style status entry from the GitHub
// Status API.
type CommitStatus struct {
	Context     string // CI service identifier (e.g., "ci/circleci").
	State       string // success, failure, pending, error.
	Description string // Human-readable description of the status.
	TargetURL   string // URL for more details on the status.
}

// BranchProtection is the subset of a branch's protection rules the merge
// gate cares about. RequiredChecks is empty when Protected is false.
type BranchProtection struct {
	Protected      bool
	RequiredChecks []string // Required status check contexts / check run names.
}
