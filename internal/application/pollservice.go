package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/MclaughlinSteve/github-automerge/internal/domain/port/driven"
)

// refreshRequest represents a manual refresh trigger.
type refreshRequest struct {
	repoFullName string
	done         chan error
}

// PollService orchestrates periodic GitHub polling: it discovers open pull
// requests carrying the merge-intent label in the watched repositories and
// hands each one to the gate service for evaluation.
type PollService struct {
	ghClient  driven.GitHubClient
	gate      *GateService
	repos     []string
	label     string
	interval  time.Duration
	refreshCh chan refreshRequest
}

// NewPollService creates a new PollService with all required dependencies.
func NewPollService(ghClient driven.GitHubClient, gate *GateService, repos []string, label string, interval time.Duration) *PollService {
	return &PollService{
		ghClient:  ghClient,
		gate:      gate,
		repos:     repos,
		label:     label,
		interval:  interval,
		refreshCh: make(chan refreshRequest),
	}
}

// Start begins the polling loop. It runs an immediate poll, then polls on the
// configured interval. It also listens for manual refresh requests. Start
// blocks until the context is canceled.
func (s *PollService) Start(ctx context.Context) {
	if err := s.pollAll(ctx); err != nil {
		slog.Error("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("poll service stopped")
			return
		case <-ticker.C:
			if err := s.pollAll(ctx); err != nil {
				slog.Error("poll cycle failed", "error", err)
			}
		case req := <-s.refreshCh:
			req.done <- s.handleRefresh(ctx, req)
		}
	}
}

// Refresh triggers a manual poll, bypassing the polling interval. An empty
// repoFullName polls all watched repositories. It blocks until the poll
// completes or the context is canceled.
func (s *PollService) Refresh(ctx context.Context, repoFullName string) error {
	done := make(chan error, 1)
	req := refreshRequest{
		repoFullName: repoFullName,
		done:         done,
	}

	select {
	case s.refreshCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollAll polls every watched repository for labeled PRs.
func (s *PollService) pollAll(ctx context.Context) error {
	start := time.Now()

	var pollErrors int
	for _, repo := range s.repos {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := s.pollRepo(ctx, repo); err != nil {
			slog.Error("repo poll failed", "repo", repo, "error", err)
			pollErrors++
		}
	}

	slog.Info("poll cycle complete",
		"repos", len(s.repos),
		"errors", pollErrors,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// pollRepo discovers labeled PRs in a single repository and evaluates each
// one. Per-PR evaluation failures are logged but do not abort the remaining
// PRs in the cycle.
func (s *PollService) pollRepo(ctx context.Context, repoFullName string) error {
	prs, err := s.ghClient.FetchOpenPullRequests(ctx, repoFullName)
	if err != nil {
		return err
	}

	var labeled, evalErrors int
	for _, pr := range prs {
		if pr.IsDraft || !pr.HasLabel(s.label) {
			continue
		}
		labeled++

		if err := s.gate.EvaluatePullRequest(ctx, pr); err != nil {
			slog.Error("pr evaluation failed", "repo", repoFullName, "pr", pr.Number, "error", err)
			evalErrors++
		}
	}

	slog.Info("repo polled",
		"repo", repoFullName,
		"fetched", len(prs),
		"labeled", labeled,
		"errors", evalErrors,
	)

	return nil
}

// handleRefresh dispatches a manual refresh request.
func (s *PollService) handleRefresh(ctx context.Context, req refreshRequest) error {
	if req.repoFullName != "" {
		return s.pollRepo(ctx, req.repoFullName)
	}
	return s.pollAll(ctx)
}
