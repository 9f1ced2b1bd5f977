// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/MclaughlinSteve/github-automerge/internal/domain/model"
	"github.com/MclaughlinSteve/github-automerge/internal/domain/port/driven"
)

// GateService evaluates a labeled pull request against its branch protection
// rules and either merges it, removes the merge-intent label, or leaves it
// alone. Each evaluation is a pure function of the current GitHub snapshot;
// no state is carried between calls.
type GateService struct {
	ghClient    driven.GitHubClient
	decisions   driven.DecisionStore
	label       string
	mergeMethod string
}

// NewGateService creates a new GateService with all required dependencies.
func NewGateService(ghClient driven.GitHubClient, decisions driven.DecisionStore, label, mergeMethod string) *GateService {
	return &GateService{
		ghClient:    ghClient,
		decisions:   decisions,
		label:       label,
		mergeMethod: mergeMethod,
	}
}

// EvaluatePullRequest re-fetches the PR for its current mergeable state and
// dispatches on it: clean PRs are merged, blocked PRs go through the required
// check evaluation, everything else waits for the next cycle. Any fetch
// failure aborts the evaluation with no action taken.
func (s *GateService) EvaluatePullRequest(ctx context.Context, pr model.PullRequest) error {
	fresh, err := s.ghClient.FetchPullRequest(ctx, pr.RepoFullName, pr.Number)
	if err != nil {
		return err
	}

	// The label may have been removed between discovery and evaluation.
	if fresh.IsDraft || !fresh.HasLabel(s.label) {
		return nil
	}

	switch fresh.MergeableState {
	case "clean":
		return s.merge(ctx, *fresh)
	case "blocked":
		return s.evaluateBlocked(ctx, *fresh)
	default:
		slog.Debug("pr not actionable this cycle",
			"repo", fresh.RepoFullName,
			"pr", fresh.Number,
			"mergeable_state", fresh.MergeableState,
		)
		return nil
	}
}

// merge merges a clean PR with the configured merge method and records the
// decision.
func (s *GateService) merge(ctx context.Context, pr model.PullRequest) error {
	if err := s.ghClient.MergePullRequest(ctx, pr.RepoFullName, pr.Number, s.mergeMethod); err != nil {
		return err
	}

	slog.Info("pr merged",
		"repo", pr.RepoFullName,
		"pr", pr.Number,
		"method", s.mergeMethod,
	)

	s.record(ctx, pr, "", model.ActionMerge, "")
	return nil
}

// evaluateBlocked runs the required-check evaluation for a PR that GitHub
// reports as blocked. An unprotected base branch (or one with no required
// checks) means the block must stem from reviews, so the label is removed
// without fetching any check data. Any fetch failure aborts with no action
// rather than guessing from a partial snapshot.
func (s *GateService) evaluateBlocked(ctx context.Context, pr model.PullRequest) error {
	protection, err := s.ghClient.FetchBranchProtection(ctx, pr.RepoFullName, pr.BaseBranch)
	if err != nil {
		return err
	}

	if protection == nil || !protection.Protected || len(protection.RequiredChecks) == 0 {
		return s.removeLabel(ctx, pr, model.OutcomeAllSuccess, model.ReasonOutstandingReviews)
	}

	checkRuns, err := s.ghClient.FetchCheckRuns(ctx, pr.RepoFullName, pr.HeadSHA)
	if err != nil {
		return err
	}

	statuses, err := s.ghClient.FetchStatuses(ctx, pr.RepoFullName, pr.HeadSHA)
	if err != nil {
		return err
	}

	verdicts := resolveRequiredChecks(protection.RequiredChecks, checkRunsByName(checkRuns), statusesByContext(statuses))
	outcome := aggregateVerdicts(verdicts)

	switch outcome {
	case model.OutcomeAllSuccess:
		return s.removeLabel(ctx, pr, outcome, model.ReasonOutstandingReviews)
	case model.OutcomeHasFailure:
		return s.removeLabel(ctx, pr, outcome, model.ReasonStatusChecks)
	default:
		slog.Debug("required checks still pending",
			"repo", pr.RepoFullName,
			"pr", pr.Number,
			"required", len(verdicts),
		)
		s.record(ctx, pr, outcome, model.ActionNone, "")
		return nil
	}
}

// removeLabel removes the merge-intent label and records the decision.
// Removing an already-absent label is a no-op in the adapter, so removal is
// idempotent across evaluations.
func (s *GateService) removeLabel(ctx context.Context, pr model.PullRequest, outcome model.BranchOutcome, reason model.RemovalReason) error {
	if err := s.ghClient.RemoveLabel(ctx, pr.RepoFullName, pr.Number, s.label); err != nil {
		return err
	}

	slog.Info("merge label removed",
		"repo", pr.RepoFullName,
		"pr", pr.Number,
		"label", s.label,
		"reason", string(reason),
	)

	s.record(ctx, pr, outcome, model.ActionRemoveLabel, reason)
	return nil
}

// record appends the decision to the audit log. Audit failures are logged but
// never fail the evaluation; the label/merge side effect already happened.
func (s *GateService) record(ctx context.Context, pr model.PullRequest, outcome model.BranchOutcome, action model.GateAction, reason model.RemovalReason) {
	d := model.Decision{
		RepoFullName: pr.RepoFullName,
		PRNumber:     pr.Number,
		HeadSHA:      pr.HeadSHA,
		Outcome:      outcome,
		Action:       action,
		Reason:       reason,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.decisions.Record(ctx, d); err != nil {
		slog.Error("record decision failed", "repo", pr.RepoFullName, "pr", pr.Number, "error", err)
	}
}

// classifyStatus maps a legacy Status API entry to a verdict. Unknown states
// (including "success" and the empty string) count as success; the Status API
// is open-world here.
func classifyStatus(status model.CommitStatus) model.Verdict {
	switch status.State {
	case "failure", "error":
		return model.VerdictFailure
	case "pending":
		return model.VerdictPending
	default:
		return model.VerdictSuccess
	}
}

// classifyCheck maps a Checks API run to a verdict. The failure conclusions
// win regardless of the status field; otherwise any completed run counts as
// success and everything else (queued, in_progress, ...) is pending.
func classifyCheck(run model.CheckRun) model.Verdict {
	switch run.Conclusion {
	case "failure", "action_required", "cancelled", "timed_out":
		return model.VerdictFailure
	}

	if run.Status == "completed" {
		return model.VerdictSuccess
	}
	return model.VerdictPending
}

// checkRunsByName indexes check runs by name. Duplicate names keep the last
// occurrence.
func checkRunsByName(runs []model.CheckRun) map[string]model.CheckRun {
	m := make(map[string]model.CheckRun, len(runs))
	for _, run := range runs {
		m[run.Name] = run
	}
	return m
}

// statusesByContext indexes status entries by context. Duplicate contexts keep
// the last occurrence.
func statusesByContext(statuses []model.CommitStatus) map[string]model.CommitStatus {
	m := make(map[string]model.CommitStatus, len(statuses))
	for _, status := range statuses {
		m[status.Context] = status
	}
	return m
}

// resolveRequiredChecks assigns a verdict to every required check name. The
// check-run map takes precedence over the status map when a name exists in
// both (check runs are the modern API); a name absent from both is pending.
func resolveRequiredChecks(required []string, checkMap map[string]model.CheckRun, statusMap map[string]model.CommitStatus) map[string]model.Verdict {
	verdicts := make(map[string]model.Verdict, len(required))

	for _, name := range required {
		if run, ok := checkMap[name]; ok {
			verdicts[name] = classifyCheck(run)
		} else if status, ok := statusMap[name]; ok {
			verdicts[name] = classifyStatus(status)
		} else {
			verdicts[name] = model.VerdictPending
		}
	}

	return verdicts
}

// aggregateVerdicts folds per-check verdicts into one branch outcome.
// Any failure dominates; otherwise a single pending verdict makes the result
// indeterminate.
func aggregateVerdicts(verdicts map[string]model.Verdict) model.BranchOutcome {
	var hasFailure, hasPending bool

	for _, v := range verdicts {
		switch v {
		case model.VerdictFailure:
			hasFailure = true
		case model.VerdictPending:
			hasPending = true
		}
	}

	if hasFailure {
		return model.OutcomeHasFailure
	}
	if hasPending {
		return model.OutcomeIndeterminate
	}
	return model.OutcomeAllSuccess
}
