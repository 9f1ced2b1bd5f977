package httphandler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/MclaughlinSteve/github-automerge/internal/adapter/driving/http"
	"github.com/MclaughlinSteve/github-automerge/internal/application"
	"github.com/MclaughlinSteve/github-automerge/internal/domain/model"
)

// stubDecisionStore implements driven.DecisionStore for handler tests.
type stubDecisionStore struct {
	recent []model.Decision
	byRepo map[string][]model.Decision
	err    error

	lastLimit int
}

func (s *stubDecisionStore) Record(_ context.Context, d model.Decision) error {
	s.recent = append(s.recent, d)
	return nil
}

func (s *stubDecisionStore) ListRecent(_ context.Context, limit int) ([]model.Decision, error) {
	s.lastLimit = limit
	return s.recent, s.err
}

func (s *stubDecisionStore) ListByRepo(_ context.Context, repo string, limit int) ([]model.Decision, error) {
	s.lastLimit = limit
	return s.byRepo[repo], s.err
}

// stubGitHub implements driven.GitHubClient; the poll loop needs one to
// satisfy the refresh endpoint.
type stubGitHub struct{}

func (stubGitHub) FetchOpenPullRequests(_ context.Context, _ string) ([]model.PullRequest, error) {
	return []model.PullRequest{}, nil
}
func (stubGitHub) FetchPullRequest(_ context.Context, _ string, _ int) (*model.PullRequest, error) {
	return nil, nil
}
func (stubGitHub) FetchBranchProtection(_ context.Context, _ string, _ string) (*model.BranchProtection, error) {
	return nil, nil
}
func (stubGitHub) FetchCheckRuns(_ context.Context, _ string, _ string) ([]model.CheckRun, error) {
	return nil, nil
}
func (stubGitHub) FetchStatuses(_ context.Context, _ string, _ string) ([]model.CommitStatus, error) {
	return nil, nil
}
func (stubGitHub) RemoveLabel(_ context.Context, _ string, _ int, _ string) error { return nil }
func (stubGitHub) MergePullRequest(_ context.Context, _ string, _ int, _ string) error {
	return nil
}

func newTestServer(t *testing.T, store *stubDecisionStore) *httptest.Server {
	t.Helper()

	gh := stubGitHub{}
	gate := application.NewGateService(gh, store, "automerge", "squash")
	pollSvc := application.NewPollService(gh, gate, []string{"org/repo"}, "automerge", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go pollSvc.Start(ctx)

	h := httphandler.NewHandler(store, pollSvc, slog.Default())
	server := httptest.NewServer(httphandler.NewServeMux(h, slog.Default()))
	t.Cleanup(server.Close)

	return server
}

func TestListDecisions(t *testing.T) {
	store := &stubDecisionStore{
		recent: []model.Decision{
			{
				ID:           1,
				RepoFullName: "org/repo",
				PRNumber:     7,
				HeadSHA:      "abc123",
				Outcome:      model.OutcomeHasFailure,
				Action:       model.ActionRemoveLabel,
				Reason:       model.ReasonStatusChecks,
				CreatedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}
	server := newTestServer(t, store)

	resp, err := http.Get(server.URL + "/api/v1/decisions")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)

	assert.Equal(t, "org/repo", body[0]["repository"])
	assert.Equal(t, float64(7), body[0]["pr_number"])
	assert.Equal(t, "abc123", body[0]["head_sha"])
	assert.Equal(t, "has_failure", body[0]["outcome"])
	assert.Equal(t, "remove_label", body[0]["action"])
	assert.Equal(t, "status_checks", body[0]["reason"])
	assert.Equal(t, "2026-08-01T12:00:00Z", body[0]["created_at"])

	assert.Equal(t, 50, store.lastLimit, "default limit applies")
}

func TestListDecisions_RepoFilterAndLimit(t *testing.T) {
	store := &stubDecisionStore{
		byRepo: map[string][]model.Decision{
			"org/one": {{ID: 2, RepoFullName: "org/one", PRNumber: 3, Action: model.ActionMerge}},
		},
	}
	server := newTestServer(t, store)

	resp, err := http.Get(server.URL + "/api/v1/decisions?repo=org/one&limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "org/one", body[0]["repository"])
	assert.Equal(t, 5, store.lastLimit)
}

func TestListDecisions_InvalidLimit(t *testing.T) {
	server := newTestServer(t, &stubDecisionStore{})

	for _, limit := range []string{"zero", "0", "-3"} {
		resp, err := http.Get(server.URL + "/api/v1/decisions?limit=" + limit)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "limit=%s", limit)
	}
}

func TestListDecisions_StoreError(t *testing.T) {
	server := newTestServer(t, &stubDecisionStore{err: assert.AnError})

	resp, err := http.Get(server.URL + "/api/v1/decisions")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestListDecisions_Empty(t *testing.T) {
	server := newTestServer(t, &stubDecisionStore{})

	resp, err := http.Get(server.URL + "/api/v1/decisions")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body, "should return empty JSON array, not null")
	assert.Empty(t, body)
}

func TestRefresh(t *testing.T) {
	server := newTestServer(t, &stubDecisionStore{})

	resp, err := http.Post(server.URL+"/api/v1/refresh?repo=org/repo", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &stubDecisionStore{})

	resp, err := http.Get(server.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["time"])
}
