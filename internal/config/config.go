// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken  string
	Repos        []string
	MergeLabel   string
	MergeMethod  string
	PollInterval time.Duration
	ListenAddr   string
	DBPath       string
}

// Load reads configuration from environment variables and returns a validated
// Config. AUTOMERGE_GITHUB_TOKEN and AUTOMERGE_REPOS (comma-separated
// owner/repo list) are required. Optional variables with defaults:
// AUTOMERGE_MERGE_LABEL (automerge), AUTOMERGE_MERGE_METHOD (squash),
// AUTOMERGE_POLL_INTERVAL (1m), AUTOMERGE_LISTEN_ADDR (127.0.0.1:8080),
// AUTOMERGE_DB_PATH (automerge.db).
func Load() (*Config, error) {
	token := os.Getenv("AUTOMERGE_GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("AUTOMERGE_GITHUB_TOKEN is required")
	}

	var repos []string
	for _, name := range strings.Split(os.Getenv("AUTOMERGE_REPOS"), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.Contains(name, "/") {
			return nil, fmt.Errorf("AUTOMERGE_REPOS entry %q is not in owner/repo format", name)
		}
		repos = append(repos, name)
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("AUTOMERGE_REPOS is required (comma-separated owner/repo list)")
	}

	mergeLabel := "automerge"
	if v, ok := os.LookupEnv("AUTOMERGE_MERGE_LABEL"); ok && v != "" {
		mergeLabel = v
	}

	mergeMethod := "squash"
	if v, ok := os.LookupEnv("AUTOMERGE_MERGE_METHOD"); ok {
		switch v {
		case "merge", "squash", "rebase":
			mergeMethod = v
		default:
			return nil, fmt.Errorf("AUTOMERGE_MERGE_METHOD must be merge, squash, or rebase, got %q", v)
		}
	}

	pollInterval := time.Minute
	if v, ok := os.LookupEnv("AUTOMERGE_POLL_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("AUTOMERGE_POLL_INTERVAL has invalid duration %q: %w", v, err)
		}
		pollInterval = parsed
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("AUTOMERGE_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "automerge.db"
	if v, ok := os.LookupEnv("AUTOMERGE_DB_PATH"); ok {
		dbPath = v
	}

	return &Config{
		GitHubToken:  token,
		Repos:        repos,
		MergeLabel:   mergeLabel,
		MergeMethod:  mergeMethod,
		PollInterval: pollInterval,
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
	}, nil
}
