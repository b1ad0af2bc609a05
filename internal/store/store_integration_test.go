//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/northbeam-labs/scribe/internal/extraction"
	"github.com/northbeam-labs/scribe/internal/review"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_SkillFindOrCreate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	name := "it-skill-" + uuid.New().String()[:8]

	if _, found, err := s.FindSkill(ctx, name); err != nil || found {
		t.Fatalf("expected no pre-existing skill, found=%v err=%v", found, err)
	}

	id, err := s.CreateSkill(ctx, name, "Technical", "intermediate")
	if err != nil {
		t.Fatalf("CreateSkill failed: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected non-nil skill ID")
	}

	// Create again with the same name; the advisory lock path must return
	// the existing row instead of inserting a second one.
	again, err := s.CreateSkill(ctx, name, "Technical", "intermediate")
	if err != nil {
		t.Fatalf("second CreateSkill failed: %v", err)
	}
	if again != id {
		t.Errorf("expected same skill id, got %s and %s", id, again)
	}

	foundID, found, err := s.FindSkill(ctx, name)
	if err != nil || !found || foundID != id {
		t.Errorf("FindSkill: found=%v id=%s err=%v", found, foundID, err)
	}
}

func TestIntegration_LinkUserSkillIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	skillID, err := s.CreateSkill(ctx, "it-link-"+uuid.New().String()[:8], "Technical", "intermediate")
	if err != nil {
		t.Fatalf("CreateSkill failed: %v", err)
	}

	linked, err := s.LinkUserSkill(ctx, userID, skillID, "intermediate", 2)
	if err != nil {
		t.Fatalf("LinkUserSkill failed: %v", err)
	}
	if !linked {
		t.Fatal("first link should report linked")
	}

	linked, err = s.LinkUserSkill(ctx, userID, skillID, "expert", 5)
	if err != nil {
		t.Fatalf("second LinkUserSkill failed: %v", err)
	}
	if linked {
		t.Error("second link should be a no-op")
	}
}

func TestIntegration_ObjectiveDedupeByTitle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := uuid.New()
	title := "it-objective-" + uuid.New().String()[:8]

	id, added, err := s.AddObjective(ctx, userID, title, "professional", "medium", "quarter", "")
	if err != nil || !added {
		t.Fatalf("AddObjective: added=%v err=%v", added, err)
	}

	// Same title differing only in case resolves to the existing objective.
	dup, added, err := s.AddObjective(ctx, userID, strings.ToUpper(title), "professional", "high", "year", "")
	if err != nil {
		t.Fatalf("duplicate AddObjective failed: %v", err)
	}
	if added {
		t.Error("duplicate title should not add")
	}
	if dup != id {
		t.Errorf("expected same objective id, got %s and %s", id, dup)
	}
}

func TestIntegration_CommitLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	batch := &review.Batch{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "integration batch",
		BatchType: "conversation",
		Status:    "reviewing",
	}
	if err := s.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("CreateBatch failed: %v", err)
	}

	c := &review.Commit{
		ID:             uuid.New(),
		BatchID:        batch.ID,
		UserID:         userID,
		ExtractionType: extraction.ActionSkill,
		Status:         review.StatusPending,
		Confidence:     0.8,
		Summary:        "Add skill \"Go\"",
		OriginalText:   "I know Go",
		Action: extraction.Action{
			Type:   extraction.ActionSkill,
			Entity: "Go",
			Skill:  &extraction.SkillDetails{Proficiency: "intermediate", YearsExperience: 2},
		},
		TargetLayer: "profile",
	}
	if err := s.CreateCommit(ctx, c); err != nil {
		t.Fatalf("CreateCommit failed: %v", err)
	}

	got, err := s.GetCommit(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCommit failed: %v", err)
	}
	if got.Status != review.StatusPending || got.Action.Entity != "Go" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	b, err := s.GetBatch(ctx, batch.ID)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if b.Total != 1 || b.Pending != 1 {
		t.Errorf("expected counters 1/1, got total=%d pending=%d", b.Total, b.Pending)
	}

	changed, err := s.TransitionCommit(ctx, c.ID, review.StatusPending, review.StatusApproved, "ok", "")
	if err != nil || !changed {
		t.Fatalf("TransitionCommit: changed=%v err=%v", changed, err)
	}

	// Stale CAS must not change anything.
	changed, err = s.TransitionCommit(ctx, c.ID, review.StatusPending, review.StatusRejected, "", "")
	if err != nil {
		t.Fatalf("stale TransitionCommit errored: %v", err)
	}
	if changed {
		t.Error("stale transition should report no change")
	}

	b, _ = s.GetBatch(ctx, batch.ID)
	if b.Pending != 0 || b.Approved != 1 {
		t.Errorf("expected counters shifted, got pending=%d approved=%d", b.Pending, b.Approved)
	}

	commits, err := s.ListBatchCommits(ctx, batch.ID)
	if err != nil || len(commits) != 1 {
		t.Fatalf("ListBatchCommits: n=%d err=%v", len(commits), err)
	}
	if commits[0].ReviewNotes != "ok" {
		t.Errorf("expected review notes persisted, got %q", commits[0].ReviewNotes)
	}

	batches, err := s.ListUserBatches(ctx, userID, 10)
	if err != nil || len(batches) != 1 {
		t.Fatalf("ListUserBatches: n=%d err=%v", len(batches), err)
	}
}

func TestIntegration_GetCommitNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetCommit(context.Background(), uuid.New())
	if !errors.Is(err, review.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
