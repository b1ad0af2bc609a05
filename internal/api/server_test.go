package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/northbeam-labs/scribe/internal/analysis"
	"github.com/northbeam-labs/scribe/internal/review"
)

type fakeAnalyzer struct {
	analysis analysis.Analysis
	response string
}

func (f *fakeAnalyzer) Analyze(text string) analysis.Analysis { return f.analysis }
func (f *fakeAnalyzer) Respond(an analysis.Analysis) string   { return f.response }

type fakeReviewer struct {
	batch     *review.Batch
	commits   []review.Commit
	stageErr  error
	statusErr error
	commit    *review.Commit
	results   []review.ProcessResult

	stagedText string
}

func (f *fakeReviewer) Stage(ctx context.Context, userID uuid.UUID, text string, an analysis.Analysis) (*review.Batch, []review.Commit, error) {
	f.stagedText = text
	return f.batch, f.commits, f.stageErr
}

func (f *fakeReviewer) SetStatus(ctx context.Context, commitID uuid.UUID, to review.Status, notes, message string) (*review.Commit, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.commit, nil
}

func (f *fakeReviewer) ProcessApproved(ctx context.Context, userID uuid.UUID, commitIDs []uuid.UUID) []review.ProcessResult {
	return f.results
}

type fakeBatchReader struct {
	batch   *review.Batch
	commits []review.Commit
	batches []review.Batch
	err     error
}

func (f *fakeBatchReader) GetBatch(ctx context.Context, id uuid.UUID) (*review.Batch, error) {
	return f.batch, f.err
}

func (f *fakeBatchReader) ListBatchCommits(ctx context.Context, batchID uuid.UUID) ([]review.Commit, error) {
	return f.commits, nil
}

func (f *fakeBatchReader) ListUserBatches(ctx context.Context, userID uuid.UUID, limit int) ([]review.Batch, error) {
	return f.batches, f.err
}

func newTestServer(analyzer Analyzer, reviewer Reviewer, batches BatchReader) *Server {
	return NewServer(8460, "", analyzer, reviewer, batches, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeReviewer{}, &fakeBatchReader{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

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
	srv := newTestServer(&fakeAnalyzer{}, &fakeReviewer{}, &fakeBatchReader{})

	req := httptest.NewRequest("GET", "/api/v1/scribe/status", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["service"] != "scribe" {
		t.Errorf("expected service scribe, got %q", body["service"])
	}
}

func TestAnalyzeAutoStagesCommits(t *testing.T) {
	batchID := uuid.New()
	an := analysis.Analysis{Actions: []analysis.Action{{}}}
	reviewer := &fakeReviewer{
		batch:   &review.Batch{ID: batchID},
		commits: []review.Commit{{ID: uuid.New(), BatchID: batchID}},
	}
	srv := newTestServer(&fakeAnalyzer{analysis: an, response: "noted"}, reviewer, &fakeBatchReader{})

	w := postJSON(t, srv, "/api/v1/analyze", AnalyzeRequest{
		UserID: uuid.New().String(),
		Text:   "I know Go",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Batch == nil || resp.Batch.ID != batchID {
		t.Errorf("expected staged batch in response, got %+v", resp.Batch)
	}
	if resp.Response != "noted" {
		t.Errorf("expected analyzer response, got %q", resp.Response)
	}
	if reviewer.stagedText != "I know Go" {
		t.Errorf("expected original text staged, got %q", reviewer.stagedText)
	}
}

func TestAnalyzeManualDoesNotStage(t *testing.T) {
	an := analysis.Analysis{Actions: []analysis.Action{{}}}
	reviewer := &fakeReviewer{batch: &review.Batch{ID: uuid.New()}}
	srv := newTestServer(&fakeAnalyzer{analysis: an}, reviewer, &fakeBatchReader{})

	w := postJSON(t, srv, "/api/v1/analyze", AnalyzeRequest{
		UserID: uuid.New().String(),
		Text:   "I know Go",
		Mode:   "manual",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp AnalyzeResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Batch != nil {
		t.Errorf("manual mode must not stage, got batch %+v", resp.Batch)
	}
	if reviewer.stagedText != "" {
		t.Error("manual mode must not call Stage")
	}
}

func TestAnalyzeValidation(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeReviewer{}, &fakeBatchReader{})

	tests := []struct {
		name string
		req  AnalyzeRequest
	}{
		{"missing text", AnalyzeRequest{UserID: uuid.New().String()}},
		{"blank text", AnalyzeRequest{UserID: uuid.New().String(), Text: "   "}},
		{"bad user id", AnalyzeRequest{UserID: "nope", Text: "hello"}},
		{"bad mode", AnalyzeRequest{UserID: uuid.New().String(), Text: "hello", Mode: "turbo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postJSON(t, srv, "/api/v1/analyze", tt.req); w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestGetBatch(t *testing.T) {
	batchID := uuid.New()
	reader := &fakeBatchReader{
		batch:   &review.Batch{ID: batchID, Total: 2},
		commits: []review.Commit{{ID: uuid.New()}, {ID: uuid.New()}},
	}
	srv := newTestServer(&fakeAnalyzer{}, &fakeReviewer{}, reader)

	req := httptest.NewRequest("GET", "/api/v1/batches/"+batchID.String(), nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp BatchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Batch.ID != batchID || len(resp.Commits) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetBatchNotFound(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeReviewer{}, &fakeBatchReader{err: review.ErrNotFound})

	req := httptest.NewRequest("GET", "/api/v1/batches/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSetCommitStatusConflict(t *testing.T) {
	reviewer := &fakeReviewer{statusErr: review.ErrInvalidTransition}
	srv := newTestServer(&fakeAnalyzer{}, reviewer, &fakeBatchReader{})

	w := postJSON(t, srv, "/api/v1/commits/"+uuid.New().String()+"/status", StatusRequest{Status: "committed"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestSetCommitStatusNotFound(t *testing.T) {
	reviewer := &fakeReviewer{statusErr: review.ErrNotFound}
	srv := newTestServer(&fakeAnalyzer{}, reviewer, &fakeBatchReader{})

	w := postJSON(t, srv, "/api/v1/commits/"+uuid.New().String()+"/status", StatusRequest{Status: "approved"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSetCommitStatusOK(t *testing.T) {
	commitID := uuid.New()
	reviewer := &fakeReviewer{commit: &review.Commit{ID: commitID, Status: review.StatusApproved}}
	srv := newTestServer(&fakeAnalyzer{}, reviewer, &fakeBatchReader{})

	w := postJSON(t, srv, "/api/v1/commits/"+commitID.String()+"/status", StatusRequest{Status: "approved"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var c review.Commit
	json.NewDecoder(w.Body).Decode(&c)
	if c.Status != review.StatusApproved {
		t.Errorf("expected approved, got %s", c.Status)
	}
}

func TestProcessCommits(t *testing.T) {
	id := uuid.New()
	reviewer := &fakeReviewer{results: []review.ProcessResult{
		{CommitID: id, Outcome: review.ProcessCommitted},
	}}
	srv := newTestServer(&fakeAnalyzer{}, reviewer, &fakeBatchReader{})

	w := postJSON(t, srv, "/api/v1/commits/process", ProcessRequest{
		UserID:    uuid.New().String(),
		CommitIDs: []string{id.String()},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Committed int                    `json:"committed"`
		Results   []review.ProcessResult `json:"results"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Committed != 1 || len(resp.Results) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestProcessCommitsValidation(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeReviewer{}, &fakeBatchReader{})

	tests := []struct {
		name string
		req  ProcessRequest
	}{
		{"bad user", ProcessRequest{UserID: "nope", CommitIDs: []string{uuid.New().String()}}},
		{"no commits", ProcessRequest{UserID: uuid.New().String()}},
		{"bad commit id", ProcessRequest{UserID: uuid.New().String(), CommitIDs: []string{"nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postJSON(t, srv, "/api/v1/commits/process", tt.req); w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestBearerTokenGate(t *testing.T) {
	srv := NewServer(8460, "secret", &fakeAnalyzer{}, &fakeReviewer{}, &fakeBatchReader{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Health stays open.
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("health should not require auth, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/v1/scribe/status", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/v1/scribe/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", w.Code)
	}
}
