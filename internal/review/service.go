// Package review owns the commit lifecycle: staging extracted candidates as
// pending commits, human review transitions, and applying approved commits
// through the resolver.
package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/northbeam-labs/scribe/internal/analysis"
	"github.com/northbeam-labs/scribe/internal/broadcast"
	"github.com/northbeam-labs/scribe/internal/extraction"
	"github.com/northbeam-labs/scribe/internal/resolver"
)

// CommitStore is the persistence the review service needs. TransitionCommit
// is compare-and-swap on the current status: it returns false, changing
// nothing, when the commit is no longer in the expected state.
type CommitStore interface {
	CreateBatch(ctx context.Context, b *Batch) error
	CreateCommit(ctx context.Context, c *Commit) error
	GetCommit(ctx context.Context, id uuid.UUID) (*Commit, error)
	TransitionCommit(ctx context.Context, id uuid.UUID, from, to Status, notes, message string) (bool, error)
}

// Applier applies one approved action against the profile store.
type Applier interface {
	Apply(ctx context.Context, userID uuid.UUID, act extraction.Action) resolver.Result
}

// GraphMirror receives committed facts as idempotent upserts.
type GraphMirror interface {
	UpsertNode(userID uuid.UUID, kind, name string, nodeID uuid.UUID) error
	UpsertRelationship(userID uuid.UUID, relationship string, targetID uuid.UUID) error
}

type Service struct {
	store     CommitStore
	applier   Applier
	publisher broadcast.Publisher
	graph     GraphMirror
	logger    *slog.Logger
}

func NewService(store CommitStore, applier Applier, publisher broadcast.Publisher, graph GraphMirror, logger *slog.Logger) *Service {
	return &Service{store: store, applier: applier, publisher: publisher, graph: graph, logger: logger}
}

// Stage persists the analysis result as a batch of pending commits and
// notifies the user's live session of each staged candidate.
func (s *Service) Stage(ctx context.Context, userID uuid.UUID, text string, an analysis.Analysis) (*Batch, []Commit, error) {
	batch := &Batch{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          batchTitle(an),
		BatchType:      "conversation",
		SessionSummary: sessionSummary(an),
		Status:         "reviewing",
	}
	if err := s.store.CreateBatch(ctx, batch); err != nil {
		return nil, nil, fmt.Errorf("create batch: %w", err)
	}

	commits := make([]Commit, 0, len(an.Actions))
	for _, act := range an.Actions {
		c := Commit{
			ID:             uuid.New(),
			BatchID:        batch.ID,
			UserID:         userID,
			ExtractionType: act.Type,
			Status:         StatusPending,
			Confidence:     act.Confidence,
			Summary:        summarize(act.Action),
			OriginalText:   text,
			Action:         act.Action,
			TargetLayer:    targetLayer(act.Type),
		}
		if err := s.store.CreateCommit(ctx, &c); err != nil {
			return nil, nil, fmt.Errorf("create commit: %w", err)
		}
		commits = append(commits, c)

		if err := s.publisher.Publish(userID, broadcast.Event{
			Type:       broadcast.EventConversationUpdate,
			ActionType: string(act.Type),
			Entity:     act.Entity,
			Details:    act.Action,
		}); err != nil {
			s.logger.Warn("session publish failed", "user_id", userID, "error", err)
		}
	}

	batch.Total = len(commits)
	batch.Pending = len(commits)
	batch.Status = BatchStatus(*batch)
	return batch, commits, nil
}

// SetStatus applies a human review decision. Only approved and rejected are
// reachable through review; committing happens via ProcessApproved.
func (s *Service) SetStatus(ctx context.Context, commitID uuid.UUID, to Status, notes, message string) (*Commit, error) {
	if to != StatusApproved && to != StatusRejected {
		return nil, ErrInvalidTransition
	}

	c, err := s.store.GetCommit(ctx, commitID)
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}
	if !CanTransition(c.Status, to) {
		return nil, ErrInvalidTransition
	}

	changed, err := s.store.TransitionCommit(ctx, commitID, c.Status, to, notes, message)
	if err != nil {
		return nil, fmt.Errorf("transition commit: %w", err)
	}
	if !changed {
		return nil, ErrInvalidTransition
	}

	s.logger.Info("commit reviewed", "commit_id", commitID, "status", string(to))
	return s.store.GetCommit(ctx, commitID)
}

// ProcessOutcome is the per-commit result of ProcessApproved. The four cases
// stay distinct so the review UI can render "nothing to do", "duplicate" and
// "failed, retry" differently.
type ProcessOutcome string

const (
	ProcessCommitted ProcessOutcome = "committed"
	ProcessDuplicate ProcessOutcome = "duplicate"
	ProcessFailed    ProcessOutcome = "failed"
	ProcessSkipped   ProcessOutcome = "skipped"
)

type ProcessResult struct {
	CommitID uuid.UUID      `json:"commit_id"`
	Outcome  ProcessOutcome `json:"outcome"`
	Message  string         `json:"message,omitempty"`
}

// ProcessApproved applies each approved commit through the resolver and
// transitions it to committed. Commits not currently approved are skipped
// with no state change; one failing action never aborts its siblings.
// Session and graph events are emitted after each mutation commits, in
// processing order.
func (s *Service) ProcessApproved(ctx context.Context, userID uuid.UUID, commitIDs []uuid.UUID) []ProcessResult {
	results := make([]ProcessResult, 0, len(commitIDs))
	for _, id := range commitIDs {
		results = append(results, s.processOne(ctx, userID, id))
	}
	return results
}

func (s *Service) processOne(ctx context.Context, userID uuid.UUID, id uuid.UUID) ProcessResult {
	c, err := s.store.GetCommit(ctx, id)
	if err != nil {
		return ProcessResult{CommitID: id, Outcome: ProcessFailed, Message: fmt.Sprintf("load commit: %v", err)}
	}
	if c.UserID != userID {
		return ProcessResult{CommitID: id, Outcome: ProcessSkipped, Message: "commit belongs to another user"}
	}
	if c.Status != StatusApproved {
		return ProcessResult{CommitID: id, Outcome: ProcessSkipped, Message: fmt.Sprintf("commit is %s, not approved", c.Status)}
	}

	res := s.applier.Apply(ctx, userID, c.Action)
	switch res.Outcome {
	case resolver.OutcomeFailed:
		// Leave the commit approved so the review UI can offer a retry.
		return ProcessResult{CommitID: id, Outcome: ProcessFailed, Message: res.Err.Error()}
	case resolver.OutcomeApplied, resolver.OutcomeAlreadyExists:
		changed, err := s.store.TransitionCommit(ctx, id, StatusApproved, StatusCommitted, "", c.CommitMessage)
		if err != nil {
			return ProcessResult{CommitID: id, Outcome: ProcessFailed, Message: fmt.Sprintf("mark committed: %v", err)}
		}
		if !changed {
			return ProcessResult{CommitID: id, Outcome: ProcessSkipped, Message: "commit state changed concurrently"}
		}
	}

	if res.Outcome == resolver.OutcomeAlreadyExists {
		return ProcessResult{CommitID: id, Outcome: ProcessDuplicate, Message: res.Message}
	}

	s.emitCommitted(userID, c, res)
	return ProcessResult{CommitID: id, Outcome: ProcessCommitted, Message: res.Message}
}

// emitCommitted fans out the post-commit notifications. Failures are logged
// only; they never affect the commit result.
func (s *Service) emitCommitted(userID uuid.UUID, c *Commit, res resolver.Result) {
	if res.EntityCreated {
		if err := s.publisher.Publish(userID, broadcast.Event{
			Type:       broadcast.EventNodeAdded,
			ActionType: string(c.ExtractionType),
			Entity:     c.Action.Entity,
		}); err != nil {
			s.logger.Warn("session publish failed", "user_id", userID, "error", err)
		}
		if err := s.graph.UpsertNode(userID, nodeKind(c.ExtractionType), c.Action.Entity, res.EntityID); err != nil {
			s.logger.Warn("graph mirror publish failed", "user_id", userID, "error", err)
		}
	}

	if err := s.publisher.Publish(userID, broadcast.Event{
		Type:       broadcast.EventRelationshipAdded,
		ActionType: string(c.ExtractionType),
		Entity:     c.Action.Entity,
		Details:    c.Action,
	}); err != nil {
		s.logger.Warn("session publish failed", "user_id", userID, "error", err)
	}
	if err := s.graph.UpsertRelationship(userID, relationship(c.ExtractionType), res.EntityID); err != nil {
		s.logger.Warn("graph mirror publish failed", "user_id", userID, "error", err)
	}
}

func summarize(act extraction.Action) string {
	switch act.Type {
	case extraction.ActionSkill:
		return fmt.Sprintf("Add skill %q (%s, %dy)", act.Entity, act.Skill.Proficiency, act.Skill.YearsExperience)
	case extraction.ActionCompany:
		if act.Company.Role != "" {
			return fmt.Sprintf("Add work experience at %q as %s", act.Entity, act.Company.Role)
		}
		return fmt.Sprintf("Add work experience at %q", act.Entity)
	case extraction.ActionEducation:
		return fmt.Sprintf("Add education at %q", act.Entity)
	case extraction.ActionObjective:
		return fmt.Sprintf("Add objective %q (%s priority)", act.Entity, act.Objective.Priority)
	case extraction.ActionKeyResult:
		return fmt.Sprintf("Track key result %q", act.Entity)
	}
	return fmt.Sprintf("Update %q", act.Entity)
}

func targetLayer(t extraction.ActionType) string {
	switch t {
	case extraction.ActionObjective, extraction.ActionKeyResult:
		return "goals"
	}
	return "profile"
}

func nodeKind(t extraction.ActionType) string {
	switch t {
	case extraction.ActionSkill:
		return "Skill"
	case extraction.ActionCompany:
		return "Company"
	case extraction.ActionEducation:
		return "Institution"
	case extraction.ActionObjective:
		return "Objective"
	case extraction.ActionKeyResult:
		return "KeyResult"
	}
	return "Entity"
}

func relationship(t extraction.ActionType) string {
	switch t {
	case extraction.ActionSkill:
		return "HAS_SKILL"
	case extraction.ActionCompany:
		return "WORKED_AT"
	case extraction.ActionEducation:
		return "STUDIED_AT"
	case extraction.ActionObjective:
		return "HAS_OBJECTIVE"
	case extraction.ActionKeyResult:
		return "TRACKS"
	}
	return "RELATED_TO"
}

func batchTitle(an analysis.Analysis) string {
	if len(an.Actions) == 0 {
		return "Conversation: nothing extracted"
	}
	first := an.Actions[0].Entity
	if len(an.Actions) == 1 {
		return fmt.Sprintf("Profile updates: %s", first)
	}
	return fmt.Sprintf("Profile updates: %s (+%d more)", first, len(an.Actions)-1)
}

func sessionSummary(an analysis.Analysis) string {
	return fmt.Sprintf("%d candidate facts, %d commitment insights, dominant type %s",
		len(an.Actions), len(an.Insights), an.DominantCommitmentType)
}
