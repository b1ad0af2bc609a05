package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/northbeam-labs/scribe/internal/analysis"
	"github.com/northbeam-labs/scribe/internal/review"
)

// AnalyzeRequest is the payload for POST /api/v1/analyze. Mode "auto" stages
// the extracted actions as a pending batch; "manual" returns them unstaged.
type AnalyzeRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
	Mode   string `json:"mode,omitempty"`
}

type AnalyzeResponse struct {
	Analysis analysis.Analysis `json:"analysis"`
	Response string            `json:"response"`
	Batch    *review.Batch     `json:"batch,omitempty"`
	Commits  []review.Commit   `json:"commits,omitempty"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = "auto"
	}
	if mode != "auto" && mode != "manual" {
		writeError(w, http.StatusBadRequest, "mode must be auto or manual")
		return
	}

	an := s.analyzer.Analyze(req.Text)
	resp := AnalyzeResponse{
		Analysis: an,
		Response: s.analyzer.Respond(an),
	}

	if mode == "auto" && len(an.Actions) > 0 {
		batch, commits, err := s.reviewer.Stage(r.Context(), userID, req.Text, an)
		if err != nil {
			s.logger.Error("staging failed", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to stage commits")
			return
		}
		resp.Batch = batch
		resp.Commits = commits
	}

	writeJSON(w, http.StatusOK, resp)
}

type BatchResponse struct {
	Batch   *review.Batch   `json:"batch"`
	Commits []review.Commit `json:"commits"`
}

func (s *Server) getBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch id")
		return
	}

	batch, err := s.batches.GetBatch(r.Context(), batchID)
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			writeError(w, http.StatusNotFound, "batch not found")
			return
		}
		s.logger.Error("get batch failed", "batch_id", batchID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load batch")
		return
	}

	commits, err := s.batches.ListBatchCommits(r.Context(), batchID)
	if err != nil {
		s.logger.Error("list batch commits failed", "batch_id", batchID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load commits")
		return
	}

	writeJSON(w, http.StatusOK, BatchResponse{Batch: batch, Commits: commits})
}

func (s *Server) listBatches(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			writeError(w, http.StatusBadRequest, "limit must be 1-100")
			return
		}
	}

	batches, err := s.batches.ListUserBatches(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error("list batches failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list batches")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"batches": batches,
		"count":   len(batches),
	})
}

// StatusRequest is the payload for POST /api/v1/commits/{commitID}/status.
type StatusRequest struct {
	Status        string `json:"status"`
	ReviewNotes   string `json:"review_notes,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"`
}

func (s *Server) setCommitStatus(w http.ResponseWriter, r *http.Request) {
	commitID, err := uuid.Parse(chi.URLParam(r, "commitID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid commit id")
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	c, err := s.reviewer.SetStatus(r.Context(), commitID, review.Status(req.Status), req.ReviewNotes, req.CommitMessage)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidTransition):
			writeError(w, http.StatusConflict, "invalid status transition")
		case errors.Is(err, review.ErrNotFound):
			writeError(w, http.StatusNotFound, "commit not found")
		default:
			s.logger.Error("set commit status failed", "commit_id", commitID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update commit")
		}
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// ProcessRequest is the payload for POST /api/v1/commits/process.
type ProcessRequest struct {
	UserID    string   `json:"user_id"`
	CommitIDs []string `json:"commit_ids"`
}

func (s *Server) processCommits(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}
	if len(req.CommitIDs) == 0 {
		writeError(w, http.StatusBadRequest, "commit_ids is required")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.CommitIDs))
	for _, raw := range req.CommitIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid commit id: "+raw)
			return
		}
		ids = append(ids, id)
	}

	results := s.reviewer.ProcessApproved(r.Context(), userID, ids)

	committed := 0
	for _, res := range results {
		if res.Outcome == review.ProcessCommitted {
			committed++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results":   results,
		"committed": committed,
	})
}
