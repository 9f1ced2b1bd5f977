package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MclaughlinSteve/github-automerge/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// DecisionResponse is the JSON representation of one audit-log entry.
type DecisionResponse struct {
	ID         int64  `json:"id"`
	Repository string `json:"repository"`
	PRNumber   int    `json:"pr_number"`
	HeadSHA    string `json:"head_sha"`
	Outcome    string `json:"outcome,omitempty"`
	Action     string `json:"action"`
	Reason     string `json:"reason,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func newHealthResponse() HealthResponse {
	return HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
}

// toDecisionResponse converts a domain Decision to its JSON representation.
func toDecisionResponse(d model.Decision) DecisionResponse {
	return DecisionResponse{
		ID:         d.ID,
		Repository: d.RepoFullName,
		PRNumber:   d.PRNumber,
		HeadSHA:    d.HeadSHA,
		Outcome:    string(d.Outcome),
		Action:     string(d.Action),
		Reason:     string(d.Reason),
		CreatedAt:  d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
