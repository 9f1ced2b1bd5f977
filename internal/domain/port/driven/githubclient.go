package driven

import (
	"context"

	"github.com/MclaughlinSteve/github-automerge/internal/domain/model"
)

// GitHubClient defines the driven port for interacting with the GitHub API.
type GitHubClient interface {
	// FetchOpenPullRequests returns all open pull requests for the repository.
	FetchOpenPullRequests(ctx context.Context, repoFullName string) ([]model.PullRequest, error)
	// FetchPullRequest returns a single pull request with its current
	// mergeable state populated (the list endpoint omits it).
	FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error)
	// FetchBranchProtection returns the protection rules for the given branch.
	// An unprotected branch yields Protected=false with no required checks,
	// not an error.
	FetchBranchProtection(ctx context.Context, repoFullName string, branch string) (*model.BranchProtection, error)
	// FetchCheckRuns returns all check runs for the given ref (commit SHA or branch).
	FetchCheckRuns(ctx context.Context, repoFullName string, ref string) ([]model.CheckRun, error)
	// FetchStatuses returns the individual legacy status entries for the given ref.
	FetchStatuses(ctx context.Context, repoFullName string, ref string) ([]model.CommitStatus, error)

	// RemoveLabel removes a label from a pull request. Removing a label that
	// is already absent is a no-op, not an error.
	RemoveLabel(ctx context.Context, repoFullName string, prNumber int, label string) error
	// MergePullRequest merges a pull request with the given method
	// ("merge", "squash", or "rebase").
	MergePullRequest(ctx context.Context, repoFullName string, prNumber int, method string) error
}
