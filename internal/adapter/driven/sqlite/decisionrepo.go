package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/MclaughlinSteve/github-automerge/internal/domain/model"
	"github.com/MclaughlinSteve/github-automerge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DecisionStore = (*DecisionRepo)(nil)

// DecisionRepo is the SQLite implementation of the DecisionStore port interface.
type DecisionRepo struct {
	db *DB
}

// NewDecisionRepo creates a new DecisionRepo backed by the given DB.
func NewDecisionRepo(db *DB) *DecisionRepo {
	return &DecisionRepo{db: db}
}

// Record appends a decision to the audit log.
func (r *DecisionRepo) Record(ctx context.Context, d model.Decision) error {
	const query = `
		INSERT INTO decisions (repo_full_name, pr_number, head_sha, outcome, action, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		d.RepoFullName, d.PRNumber, d.HeadSHA,
		string(d.Outcome), string(d.Action), string(d.Reason),
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert decision for %s#%d: %w", d.RepoFullName, d.PRNumber, err)
	}

	return nil
}

// ListRecent returns the most recent decisions, newest first, up to limit.
func (r *DecisionRepo) ListRecent(ctx context.Context, limit int) ([]model.Decision, error) {
	const query = `
		SELECT id, repo_full_name, pr_number, head_sha, outcome, action, reason, created_at
		FROM decisions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent decisions: %w", err)
	}
	defer rows.Close()

	return collectDecisions(rows)
}

// ListByRepo returns the most recent decisions for one repository, newest
// first, up to limit.
func (r *DecisionRepo) ListByRepo(ctx context.Context, repoFullName string, limit int) ([]model.Decision, error) {
	const query = `
		SELECT id, repo_full_name, pr_number, head_sha, outcome, action, reason, created_at
		FROM decisions
		WHERE repo_full_name = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repoFullName, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions for %s: %w", repoFullName, err)
	}
	defer rows.Close()

	return collectDecisions(rows)
}

// collectDecisions scans all rows into decisions.
func collectDecisions(rows rowIterator) ([]model.Decision, error) {
	var decisions []model.Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}

	return decisions, nil
}

// rowIterator is the subset of *sql.Rows used by collectDecisions.
type rowIterator interface {
	Next() bool
	Err() error
	scanner
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(s scanner) (*model.Decision, error) {
	var d model.Decision
	var outcome, action, reason, createdAt string

	err := s.Scan(&d.ID, &d.RepoFullName, &d.PRNumber, &d.HeadSHA, &outcome, &action, &reason, &createdAt)
	if err != nil {
		return nil, err
	}

	d.Outcome = model.BranchOutcome(outcome)
	d.Action = model.GateAction(action)
	d.Reason = model.RemovalReason(reason)

	d.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &d, nil
}

// parseTime parses a timestamp string in any of the formats SQLite may store.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}
