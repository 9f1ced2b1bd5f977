package driven

import (
	"context"

	"github.com/MclaughlinSteve/github-automerge/internal/domain/model"
)

// DecisionStore defines the driven port for persisting merge-gate decisions.
type DecisionStore interface {
	// Record appends a decision to the audit log.
	Record(ctx context.Context, d model.Decision) error
	// ListRecent returns the most recent decisions, newest first, up to limit.
	ListRecent(ctx context.Context, limit int) ([]model.Decision, error)
	// ListByRepo returns the most recent decisions for one repository,
	// newest first, up to limit.
	ListByRepo(ctx context.Context, repoFullName string, limit int) ([]model.Decision, error)
}
