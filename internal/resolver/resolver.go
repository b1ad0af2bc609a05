// Package resolver applies approved candidate actions against the user's
// profile with find-or-create semantics. Every operation is safe to invoke
// twice: the second call detects the existing link and reports a duplicate
// instead of doubling data.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/northbeam-labs/scribe/internal/extraction"
)

// Outcome is the three-way result surface the review UI depends on:
// applied, duplicate no-op, or failure. These are never collapsed.
type Outcome string

const (
	OutcomeApplied       Outcome = "applied"
	OutcomeAlreadyExists Outcome = "already_exists"
	OutcomeFailed        Outcome = "failed"
)

// Result reports what one Apply call did. EntityID is the profile entity the
// action resolved to (existing or freshly created); EntityCreated is true
// when a new node was created rather than reused.
type Result struct {
	Outcome       Outcome
	EntityID      uuid.UUID
	EntityCreated bool
	Message       string
	Err           error
}

// ProfileStore is the persistence the resolver needs. Find methods match by
// case-insensitive name containment. Link methods return false when the user
// already has the row, without creating anything.
type ProfileStore interface {
	FindSkill(ctx context.Context, name string) (uuid.UUID, bool, error)
	CreateSkill(ctx context.Context, name, category, difficulty string) (uuid.UUID, error)
	LinkUserSkill(ctx context.Context, userID, skillID uuid.UUID, proficiency string, years int) (bool, error)

	FindCompany(ctx context.Context, name string) (uuid.UUID, bool, error)
	CreateCompany(ctx context.Context, name, website, industry string) (uuid.UUID, error)
	AddWorkExperience(ctx context.Context, userID, companyID uuid.UUID, role string, start time.Time, end *time.Time, current bool) (bool, error)

	FindInstitution(ctx context.Context, name string) (uuid.UUID, bool, error)
	CreateInstitution(ctx context.Context, name, instType, country string) (uuid.UUID, error)
	AddEducation(ctx context.Context, userID, institutionID uuid.UUID, degree, field string, start, end time.Time) (bool, error)

	AddObjective(ctx context.Context, userID uuid.UUID, title, category, priority, timeframe, targetDate string) (uuid.UUID, bool, error)
	AddKeyResult(ctx context.Context, userID uuid.UUID, title string, target float64, unit, measurement string) (uuid.UUID, bool, error)
}

type Resolver struct {
	store  ProfileStore
	logger *slog.Logger
	now    func() time.Time
}

func New(store ProfileStore, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger, now: time.Now}
}

// Apply resolves one approved action against the user's profile. Failures
// are logged here; the caller decides whether to skip or surface them.
func (r *Resolver) Apply(ctx context.Context, userID uuid.UUID, act extraction.Action) Result {
	res := r.apply(ctx, userID, act)
	if res.Outcome == OutcomeFailed {
		r.logger.Error("resolver apply failed",
			"type", string(act.Type),
			"entity", act.Entity,
			"error", res.Err,
		)
	}
	return res
}

func (r *Resolver) apply(ctx context.Context, userID uuid.UUID, act extraction.Action) Result {
	switch act.Type {
	case extraction.ActionSkill:
		return r.applySkill(ctx, userID, act)
	case extraction.ActionCompany:
		return r.applyCompany(ctx, userID, act)
	case extraction.ActionEducation:
		return r.applyEducation(ctx, userID, act)
	case extraction.ActionObjective:
		return r.applyObjective(ctx, userID, act)
	case extraction.ActionKeyResult:
		return r.applyKeyResult(ctx, userID, act)
	}
	return Result{Outcome: OutcomeFailed, Err: fmt.Errorf("unsupported action type %q", act.Type)}
}

func (r *Resolver) applySkill(ctx context.Context, userID uuid.UUID, act extraction.Action) Result {
	proficiency, years := "intermediate", 2
	if act.Skill != nil {
		if act.Skill.Proficiency != "" {
			proficiency = act.Skill.Proficiency
		}
		if act.Skill.YearsExperience > 0 {
			years = act.Skill.YearsExperience
		}
	}

	skillID, found, err := r.store.FindSkill(ctx, act.Entity)
	if err != nil {
		return failed("find skill", err)
	}
	created := false
	if !found {
		skillID, err = r.store.CreateSkill(ctx, act.Entity, skillCategory(act.Entity), proficiency)
		if err != nil {
			return failed("create skill", err)
		}
		created = true
	}

	linked, err := r.store.LinkUserSkill(ctx, userID, skillID, proficiency, years)
	if err != nil {
		return failed("link skill", err)
	}
	if !linked {
		return Result{Outcome: OutcomeAlreadyExists, EntityID: skillID, Message: "Skill already exists"}
	}
	return Result{Outcome: OutcomeApplied, EntityID: skillID, EntityCreated: created, Message: fmt.Sprintf("Added skill %q", act.Entity)}
}

func (r *Resolver) applyCompany(ctx context.Context, userID uuid.UUID, act extraction.Action) Result {
	role, industry := "Software Engineer", "Technology"
	var end *time.Time
	if act.Company != nil {
		if act.Company.Role != "" {
			role = act.Company.Role
		}
		if act.Company.Industry != "" {
			industry = act.Company.Industry
		}
		end = act.Company.EndDate
	}

	companyID, found, err := r.store.FindCompany(ctx, act.Entity)
	if err != nil {
		return failed("find company", err)
	}
	created := false
	if !found {
		companyID, err = r.store.CreateCompany(ctx, act.Entity, placeholderWebsite(act.Entity), industry)
		if err != nil {
			return failed("create company", err)
		}
		created = true
	}

	start := r.now().AddDate(-1, 0, 0)
	current := end == nil
	added, err := r.store.AddWorkExperience(ctx, userID, companyID, role, start, end, current)
	if err != nil {
		return failed("add work experience", err)
	}
	if !added {
		return Result{Outcome: OutcomeAlreadyExists, EntityID: companyID, Message: "Work experience already exists"}
	}
	return Result{Outcome: OutcomeApplied, EntityID: companyID, EntityCreated: created, Message: fmt.Sprintf("Added work experience at %q", act.Entity)}
}

func (r *Resolver) applyEducation(ctx context.Context, userID uuid.UUID, act extraction.Action) Result {
	degree, field := "Bachelor's", "General Studies"
	if act.Education != nil {
		if act.Education.Degree != "" {
			degree = act.Education.Degree
		}
		if act.Education.FieldOfStudy != "" {
			field = act.Education.FieldOfStudy
		}
	}

	instID, found, err := r.store.FindInstitution(ctx, act.Entity)
	if err != nil {
		return failed("find institution", err)
	}
	created := false
	if !found {
		instID, err = r.store.CreateInstitution(ctx, act.Entity, "University", "United States")
		if err != nil {
			return failed("create institution", err)
		}
		created = true
	}

	now := r.now()
	added, err := r.store.AddEducation(ctx, userID, instID, degree, field, now.AddDate(-4, 0, 0), now.AddDate(-1, 0, 0))
	if err != nil {
		return failed("add education", err)
	}
	if !added {
		return Result{Outcome: OutcomeAlreadyExists, EntityID: instID, Message: "Education already exists"}
	}
	return Result{Outcome: OutcomeApplied, EntityID: instID, EntityCreated: created, Message: fmt.Sprintf("Added education at %q", act.Entity)}
}

func (r *Resolver) applyObjective(ctx context.Context, userID uuid.UUID, act extraction.Action) Result {
	category, priority, timeframe, targetDate := "professional", "medium", "quarter", ""
	if act.Objective != nil {
		category = act.Objective.Category
		priority = act.Objective.Priority
		timeframe = act.Objective.Timeframe
		targetDate = act.Objective.TargetDate
	}
	id, added, err := r.store.AddObjective(ctx, userID, act.Entity, category, priority, timeframe, targetDate)
	if err != nil {
		return failed("add objective", err)
	}
	if !added {
		return Result{Outcome: OutcomeAlreadyExists, EntityID: id, Message: "Objective already exists"}
	}
	return Result{Outcome: OutcomeApplied, EntityID: id, EntityCreated: true, Message: fmt.Sprintf("Added objective %q", act.Entity)}
}

func (r *Resolver) applyKeyResult(ctx context.Context, userID uuid.UUID, act extraction.Action) Result {
	target, unit, measurement := 1.0, "", "boolean"
	if act.KeyResult != nil {
		target = act.KeyResult.TargetValue
		unit = act.KeyResult.Unit
		measurement = act.KeyResult.MeasurementType
	}
	id, added, err := r.store.AddKeyResult(ctx, userID, act.Entity, target, unit, measurement)
	if err != nil {
		return failed("add key result", err)
	}
	if !added {
		return Result{Outcome: OutcomeAlreadyExists, EntityID: id, Message: "Key result already exists"}
	}
	return Result{Outcome: OutcomeApplied, EntityID: id, EntityCreated: true, Message: fmt.Sprintf("Added key result %q", act.Entity)}
}

func failed(op string, err error) Result {
	return Result{Outcome: OutcomeFailed, Err: fmt.Errorf("%s: %w", op, err)}
}

// skillCategories maps name fragments to skill categories; first match wins,
// everything else lands in Technical.
var skillCategories = []struct{ keyword, category string }{
	{"javascript", "Programming"},
	{"typescript", "Programming"},
	{"python", "Programming"},
	{"java", "Programming"},
	{"golang", "Programming"},
	{"rust", "Programming"},
	{"ruby", "Programming"},
	{"react", "Frontend"},
	{"vue", "Frontend"},
	{"angular", "Frontend"},
	{"css", "Frontend"},
	{"html", "Frontend"},
	{"node", "Backend"},
	{"django", "Backend"},
	{"spring", "Backend"},
	{"rails", "Backend"},
	{"graphql", "Backend"},
	{"api", "Backend"},
	{"aws", "Cloud"},
	{"azure", "Cloud"},
	{"gcp", "Cloud"},
	{"kubernetes", "Cloud"},
	{"docker", "Cloud"},
	{"terraform", "Cloud"},
	{"sql", "Database"},
	{"postgres", "Database"},
	{"mysql", "Database"},
	{"mongo", "Database"},
	{"redis", "Database"},
}

func skillCategory(name string) string {
	lower := strings.ToLower(name)
	for _, kw := range skillCategories {
		if strings.Contains(lower, kw.keyword) {
			return kw.category
		}
	}
	return "Technical"
}

func placeholderWebsite(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return fmt.Sprintf("https://www.%s.com", b.String())
}
