package review

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/northbeam-labs/scribe/internal/extraction"
)

// Status is the review lifecycle state of one commit.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCommitted Status = "committed"
)

// ErrInvalidTransition is returned for any transition the state machine does
// not allow; the commit is left untouched.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrNotFound is returned when a commit or batch id resolves to nothing.
var ErrNotFound = errors.New("not found")

// CanTransition reports whether the state machine permits from → to.
// pending → approved|rejected, approved → committed; everything else is
// rejected. Rejected is terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusCommitted
	}
	return false
}

// Commit is the persisted review record of one candidate action. It is
// mutated only through status transitions and never deleted.
type Commit struct {
	ID             uuid.UUID             `json:"id"`
	BatchID        uuid.UUID             `json:"batch_id"`
	UserID         uuid.UUID             `json:"user_id"`
	ExtractionType extraction.ActionType `json:"extraction_type"`
	Status         Status                `json:"status"`
	Confidence     float64               `json:"confidence"`
	Summary        string                `json:"summary"`
	OriginalText   string                `json:"original_text"`
	Action         extraction.Action     `json:"extracted_data"`
	SuggestedEdits string                `json:"suggested_edits,omitempty"`
	CommitMessage  string                `json:"commit_message,omitempty"`
	ReviewNotes    string                `json:"review_notes,omitempty"`
	TargetLayer    string                `json:"target_layer"`
	CreatedAt      time.Time             `json:"created_at"`
	ReviewedAt     *time.Time            `json:"reviewed_at,omitempty"`
	CommittedAt    *time.Time            `json:"committed_at,omitempty"`
}

// Batch groups the commits staged from one conversation. The counters are
// maintained transactionally with commit status changes and always equal the
// per-status counts of the owned commits.
type Batch struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Title          string    `json:"batch_title"`
	BatchType      string    `json:"batch_type"`
	SessionSummary string    `json:"session_summary,omitempty"`
	Total          int       `json:"total_commits"`
	Pending        int       `json:"pending_commits"`
	Approved       int       `json:"approved_commits"`
	Rejected       int       `json:"rejected_commits"`
	Committed      int       `json:"committed_commits"`
	Status         string    `json:"batch_status"`
	CreatedAt      time.Time `json:"created_at"`
}

// BatchStatus derives the batch's display status from its counters.
func BatchStatus(b Batch) string {
	if b.Pending > 0 {
		return "reviewing"
	}
	return "reviewed"
}
