package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/northbeam-labs/scribe/internal/extraction"
	"github.com/northbeam-labs/scribe/internal/review"
)

// counterColumn maps a commit status to the batch counter it feeds. The
// batch counters are only ever touched in the same transaction as the commit
// row, keeping total == pending + approved + rejected + committed invariant.
var counterColumn = map[review.Status]string{
	review.StatusPending:   "pending_commits",
	review.StatusApproved:  "approved_commits",
	review.StatusRejected:  "rejected_commits",
	review.StatusCommitted: "committed_commits",
}

func (s *Store) CreateBatch(ctx context.Context, b *review.Batch) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO conversation_batches
			(id, user_id, batch_title, batch_type, session_summary,
			 total_commits, pending_commits, approved_commits, rejected_commits, committed_commits,
			 batch_status, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, 0, 0, 0, $6, now())`,
		b.ID, b.UserID, b.Title, b.BatchType, b.SessionSummary, b.Status,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (s *Store) CreateCommit(ctx context.Context, c *review.Commit) error {
	payload, err := json.Marshal(c.Action)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO commits
			(id, batch_id, user_id, extraction_type, status, confidence, summary,
			 original_text, extracted_data, suggested_edits, commit_message, review_notes,
			 target_layer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())`,
		c.ID, c.BatchID, c.UserID, string(c.ExtractionType), string(c.Status), c.Confidence,
		c.Summary, c.OriginalText, payload, c.SuggestedEdits, c.CommitMessage, c.ReviewNotes,
		c.TargetLayer,
	)
	if err != nil {
		return fmt.Errorf("insert commit: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE conversation_batches
		SET total_commits = total_commits + 1, %s = %s + 1
		WHERE id = $1`, counterColumn[c.Status], counterColumn[c.Status])
	if _, err := tx.Exec(ctx, query, c.BatchID); err != nil {
		return fmt.Errorf("bump batch counters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// TransitionCommit moves a commit from → to and shifts the batch counters in
// the same transaction. It is compare-and-swap on status: when the commit is
// no longer in from, nothing changes and false is returned.
func (s *Store) TransitionCommit(ctx context.Context, id uuid.UUID, from, to review.Status, notes, message string) (bool, error) {
	fromCol, ok := counterColumn[from]
	if !ok {
		return false, fmt.Errorf("unknown status %q", from)
	}
	toCol, ok := counterColumn[to]
	if !ok {
		return false, fmt.Errorf("unknown status %q", to)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	stamp := "reviewed_at"
	if to == review.StatusCommitted {
		stamp = "committed_at"
	}
	query := fmt.Sprintf(`
		UPDATE commits
		SET status = $1,
		    review_notes = CASE WHEN $2 <> '' THEN $2 ELSE review_notes END,
		    commit_message = CASE WHEN $3 <> '' THEN $3 ELSE commit_message END,
		    %s = now()
		WHERE id = $4 AND status = $5
		RETURNING batch_id`, stamp)

	var batchID uuid.UUID
	err = tx.QueryRow(ctx, query, string(to), notes, message, id, string(from)).Scan(&batchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update commit: %w", err)
	}

	counters := fmt.Sprintf(`
		UPDATE conversation_batches
		SET %s = %s - 1,
		    %s = %s + 1,
		    batch_status = CASE WHEN pending_commits - CASE WHEN $2 = 'pending_commits' THEN 1 ELSE 0 END > 0
		                   THEN 'reviewing' ELSE 'reviewed' END
		WHERE id = $1`, fromCol, fromCol, toCol, toCol)
	if _, err := tx.Exec(ctx, counters, batchID, fromCol); err != nil {
		return false, fmt.Errorf("shift batch counters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

const commitColumns = `
	id, batch_id, user_id, extraction_type, status, confidence, summary,
	original_text, extracted_data, suggested_edits, commit_message, review_notes,
	target_layer, created_at, reviewed_at, committed_at`

func (s *Store) GetCommit(ctx context.Context, id uuid.UUID) (*review.Commit, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+commitColumns+` FROM commits WHERE id = $1`, id)
	return scanCommit(row)
}

func (s *Store) ListBatchCommits(ctx context.Context, batchID uuid.UUID) ([]review.Commit, error) {
	rows, err := s.pool.Query(ctx, `SELECT`+commitColumns+` FROM commits WHERE batch_id = $1 ORDER BY created_at`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list batch commits: %w", err)
	}
	defer rows.Close()

	var out []review.Commit
	for rows.Next() {
		c, err := scanCommit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanCommit(row pgx.Row) (*review.Commit, error) {
	var c review.Commit
	var extractionType, status string
	var payload []byte
	err := row.Scan(
		&c.ID, &c.BatchID, &c.UserID, &extractionType, &status, &c.Confidence, &c.Summary,
		&c.OriginalText, &payload, &c.SuggestedEdits, &c.CommitMessage, &c.ReviewNotes,
		&c.TargetLayer, &c.CreatedAt, &c.ReviewedAt, &c.CommittedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, review.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan commit: %w", err)
	}
	c.ExtractionType = extraction.ActionType(extractionType)
	c.Status = review.Status(status)
	if err := json.Unmarshal(payload, &c.Action); err != nil {
		return nil, fmt.Errorf("unmarshal action: %w", err)
	}
	return &c, nil
}

const batchColumns = `
	id, user_id, batch_title, batch_type, session_summary,
	total_commits, pending_commits, approved_commits, rejected_commits, committed_commits,
	batch_status, created_at`

func (s *Store) GetBatch(ctx context.Context, id uuid.UUID) (*review.Batch, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+batchColumns+` FROM conversation_batches WHERE id = $1`, id)
	return scanBatch(row)
}

func (s *Store) ListUserBatches(ctx context.Context, userID uuid.UUID, limit int) ([]review.Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT`+batchColumns+` FROM conversation_batches WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list user batches: %w", err)
	}
	defer rows.Close()

	var out []review.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func scanBatch(row pgx.Row) (*review.Batch, error) {
	var b review.Batch
	err := row.Scan(
		&b.ID, &b.UserID, &b.Title, &b.BatchType, &b.SessionSummary,
		&b.Total, &b.Pending, &b.Approved, &b.Rejected, &b.Committed,
		&b.Status, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, review.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	return &b, nil
}
