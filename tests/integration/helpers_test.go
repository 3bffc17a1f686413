//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
)

// sessionView is the subset of the session payload these tests read.
type sessionView struct {
	SessionID  string   `json:"session_id"`
	ExerciseID string   `json:"exercise_id"`
	State      string   `json:"state"`
	Responses  []string `json:"responses"`
	CanCheck   bool     `json:"can_check"`
	Verdict    *struct {
		Correct  bool   `json:"correct"`
		Feedback string `json:"feedback"`
	} `json:"verdict"`
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

func doJSON(t *testing.T, method, path string, payload interface{}, wantStatus int, dst interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", baseURL(), path), body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, raw)
	}
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
}

func visit(t *testing.T, slug, id string) sessionView {
	t.Helper()
	var view sessionView
	doJSON(t, http.MethodPost, fmt.Sprintf("/v1/topics/%s/exercises/%s/visit", slug, id), nil, http.StatusCreated, &view)
	if view.SessionID == "" {
		t.Fatalf("empty session id in visit response")
	}
	return view
}
