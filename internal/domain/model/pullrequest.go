package model

import "time"

// PullRequest represents a GitHub pull request as seen by the merge gate.
type PullRequest struct {
	Number         int
	RepoFullName   string // "owner/repo" format.
	Title          string
	Author         string
	IsDraft        bool
	URL            string
	Branch         string // Head branch name.
	BaseBranch     string // Target branch name.
	HeadSHA        string
	Labels         []string
	MergeableState string // clean, blocked, dirty, behind, unstable, unknown ("" until fetched).
	UpdatedAt      time.Time
}

// HasLabel reports whether the PR carries the given label.
func (pr PullRequest) HasLabel(label string) bool {
	for _, l := range pr.Labels {
		if l == label {
			return true
		}
	}
	return false
}
