package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MikeSquared-Agency/neuropilot/internal/anthropic"
	"github.com/MikeSquared-Agency/neuropilot/internal/coach"
	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/scenario"
)

type stubLLM struct{ err error }

func (s stubLLM) Complete(context.Context, string, []anthropic.Message, int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "Hey, pull up a chair!", nil
}

type failingScorer struct{}

func (failingScorer) Evaluate(context.Context, string, []conversation.Turn, string) (*feedback.Result, error) {
	return nil, errors.New("overloaded")
}

func (failingScorer) Inline(context.Context, string, string) (string, bool, error) {
	return "", false, errors.New("overloaded")
}

func newTestServer(t *testing.T, token string, llm stubLLM) *Server {
	t.Helper()
	cat, err := scenario.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := coach.New(cat, llm, nil, nil, nil, 0, logger)
	return NewServer(8760, token, "test-model", svc, logger)
}

func do(t *testing.T, srv *Server, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, "secret", stubLLM{})

	w := do(t, srv, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t, "", stubLLM{})

	w := do(t, srv, "GET", "/api/v1/status", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["agent"] != "neuropilot" {
		t.Errorf("expected agent neuropilot, got %v", body["agent"])
	}
	if body["model"] != "test-model" {
		t.Errorf("expected model test-model, got %v", body["model"])
	}
}

func TestBearerAuth(t *testing.T) {
	srv := newTestServer(t, "secret", stubLLM{})

	tests := []struct {
		name   string
		header []string
		want   int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong", []string{"Authorization", "Bearer nope"}, http.StatusUnauthorized},
		{"not bearer", []string{"Authorization", "secret"}, http.StatusUnauthorized},
		{"valid", []string{"Authorization", "Bearer secret"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, "GET", "/api/v1/scenarios", nil, tt.header...)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t, "", stubLLM{})

	w := do(t, srv, "GET", "/api/v1/scenarios", nil)
	var scn map[string][]map[string]any
	if err := json.NewDecoder(w.Body).Decode(&scn); err != nil {
		t.Fatalf("decode scenarios: %v", err)
	}
	if len(scn["scenarios"]) != 4 {
		t.Errorf("expected 4 scenarios, got %d", len(scn["scenarios"]))
	}

	w = do(t, srv, "GET", "/api/v1/avatars", nil)
	var av map[string][]map[string]any
	if err := json.NewDecoder(w.Body).Decode(&av); err != nil {
		t.Fatalf("decode avatars: %v", err)
	}
	if len(av["avatars"]) != 5 {
		t.Errorf("expected 5 avatars, got %d", len(av["avatars"]))
	}
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t, "", stubLLM{})

	w := do(t, srv, "POST", "/api/v1/sessions", map[string]string{"scenario": "office_lunch", "avatar": "alex"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	var started coach.Started
	if err := json.NewDecoder(w.Body).Decode(&started); err != nil {
		t.Fatalf("decode start: %v", err)
	}
	if started.Opening == "" {
		t.Error("expected an opening line")
	}
	base := "/api/v1/sessions/" + started.SessionID.String()

	w = do(t, srv, "POST", base+"/turns", map[string]string{"message": "Fine."})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	var turn coach.TurnResult
	if err := json.NewDecoder(w.Body).Decode(&turn); err != nil {
		t.Fatalf("decode turn: %v", err)
	}
	if turn.MessageCount != 1 || len(turn.Rules) != 1 || turn.Rules[0] != "brevity" {
		t.Errorf("unexpected turn %+v", turn)
	}
	if turn.FeedbackStatus != coach.FeedbackDisabled {
		t.Errorf("feedback status = %s", turn.FeedbackStatus)
	}

	w = do(t, srv, "GET", base+"/scores", nil)
	if w.Code != http.StatusOK {
		t.Errorf("scores: expected 200, got %d", w.Code)
	}

	w = do(t, srv, "DELETE", base, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("end: expected 200, got %d: %s", w.Code, w.Body)
	}
	var sum coach.Summary
	if err := json.NewDecoder(w.Body).Decode(&sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.UserTurns != 1 {
		t.Errorf("user turns = %d", sum.UserTurns)
	}

	w = do(t, srv, "POST", base+"/turns", map[string]string{"message": "hello?"})
	if w.Code != http.StatusNotFound {
		t.Errorf("ended session: expected 404, got %d", w.Code)
	}
}

func TestStartSession_Errors(t *testing.T) {
	srv := newTestServer(t, "", stubLLM{})

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing scenario", map[string]string{}, http.StatusBadRequest},
		{"unknown scenario", map[string]string{"scenario": "karaoke"}, http.StatusNotFound},
		{"unknown avatar", map[string]string{"scenario": "office_lunch", "avatar": "riley"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, "POST", "/api/v1/sessions", tt.body)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body)
			}
		})
	}

	req := httptest.NewRequest("POST", "/api/v1/sessions", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: expected 400, got %d", w.Code)
	}
}

func TestStartSession_UpstreamFailure(t *testing.T) {
	srv := newTestServer(t, "", stubLLM{err: errors.New("overloaded")})

	w := do(t, srv, "POST", "/api/v1/sessions", map[string]string{"scenario": "office_lunch"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestSessionRoutes_BadID(t *testing.T) {
	srv := newTestServer(t, "", stubLLM{})

	w := do(t, srv, "GET", "/api/v1/sessions/not-a-uuid/scores", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	w = do(t, srv, "GET", "/api/v1/sessions/6f1c2a3e-8d4b-4c5a-9e7f-0a1b2c3d4e5f/scores", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := newTestServer(t, "", stubLLM{})

	w := do(t, srv, "GET", "/nonexistent", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestTip_UpstreamFailure(t *testing.T) {
	cat, err := scenario.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := coach.New(cat, stubLLM{}, failingScorer{}, nil, nil, 0, logger)
	srv := NewServer(8760, "", "test-model", svc, logger)

	w := do(t, srv, "POST", "/api/v1/sessions", map[string]string{"scenario": "office_lunch", "avatar": "alex"})
	var started coach.Started
	if err := json.NewDecoder(w.Body).Decode(&started); err != nil {
		t.Fatalf("decode start: %v", err)
	}

	w = do(t, srv, "POST", "/api/v1/sessions/"+started.SessionID.String()+"/tip", map[string]string{"message": "k"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d: %s", w.Code, w.Body)
	}
}
