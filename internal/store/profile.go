package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Find methods match by case-insensitive name containment and report
// found=false on no match. Create methods serialize on the lowercased name
// with an advisory lock and re-check inside the transaction, so two
// concurrent creates for the same entity resolve to one row. Link methods
// rely on unique constraints: a second identical link reports false with no
// new row, which is what makes resolver retries idempotent.

func (s *Store) FindSkill(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.findByName(ctx, "skills", name)
}

func (s *Store) CreateSkill(ctx context.Context, name, category, difficulty string) (uuid.UUID, error) {
	return s.createNamed(ctx, name, `
		INSERT INTO skills (id, name, category, difficulty, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		"skills", category, difficulty)
}

func (s *Store) LinkUserSkill(ctx context.Context, userID, skillID uuid.UUID, proficiency string, years int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO user_skills (id, user_id, skill_id, proficiency, years_experience, showcase, created_at)
		VALUES ($1, $2, $3, $4, $5, true, now())
		ON CONFLICT (user_id, skill_id) DO NOTHING`,
		uuid.New(), userID, skillID, proficiency, years,
	)
	if err != nil {
		return false, fmt.Errorf("link user skill: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) FindCompany(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.findByName(ctx, "companies", name)
}

func (s *Store) CreateCompany(ctx context.Context, name, website, industry string) (uuid.UUID, error) {
	return s.createNamed(ctx, name, `
		INSERT INTO companies (id, name, website, industry, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		"companies", website, industry)
}

func (s *Store) AddWorkExperience(ctx context.Context, userID, companyID uuid.UUID, role string, start time.Time, end *time.Time, current bool) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO work_experiences (id, user_id, company_id, role, start_date, end_date, is_current, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id, company_id) DO NOTHING`,
		uuid.New(), userID, companyID, role, start, end, current,
	)
	if err != nil {
		return false, fmt.Errorf("add work experience: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) FindInstitution(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.findByName(ctx, "institutions", name)
}

func (s *Store) CreateInstitution(ctx context.Context, name, instType, country string) (uuid.UUID, error) {
	return s.createNamed(ctx, name, `
		INSERT INTO institutions (id, name, institution_type, country, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		"institutions", instType, country)
}

func (s *Store) AddEducation(ctx context.Context, userID, institutionID uuid.UUID, degree, field string, start, end time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO user_educations (id, user_id, institution_id, degree, field_of_study, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id, institution_id) DO NOTHING`,
		uuid.New(), userID, institutionID, degree, field, start, end,
	)
	if err != nil {
		return false, fmt.Errorf("add education: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) AddObjective(ctx context.Context, userID uuid.UUID, title, category, priority, timeframe, targetDate string) (uuid.UUID, bool, error) {
	id := uuid.New()
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO objectives (id, user_id, title, category, priority, timeframe, target_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id, lower(title)) DO NOTHING`,
		id, userID, title, category, priority, timeframe, targetDate,
	)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("add objective: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, _, err := s.findUserTitled(ctx, "objectives", userID, title)
		return existing, false, err
	}
	return id, true, nil
}

func (s *Store) AddKeyResult(ctx context.Context, userID uuid.UUID, title string, target float64, unit, measurement string) (uuid.UUID, bool, error) {
	id := uuid.New()
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO key_results (id, user_id, title, target_value, unit, measurement_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id, lower(title)) DO NOTHING`,
		id, userID, title, target, unit, measurement,
	)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("add key result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, _, err := s.findUserTitled(ctx, "key_results", userID, title)
		return existing, false, err
	}
	return id, true, nil
}

// findByName is the shared case-insensitive containment lookup. Table names
// are fixed call-site literals, never user input.
func (s *Store) findByName(ctx context.Context, table, name string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	query := fmt.Sprintf(`SELECT id FROM %s WHERE name ILIKE '%%' || $1 || '%%' ORDER BY created_at LIMIT 1`, table)
	err := s.pool.QueryRow(ctx, query, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find in %s: %w", table, err)
	}
	return id, true, nil
}

func (s *Store) findUserTitled(ctx context.Context, table string, userID uuid.UUID, title string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	query := fmt.Sprintf(`SELECT id FROM %s WHERE user_id = $1 AND lower(title) = lower($2) LIMIT 1`, table)
	err := s.pool.QueryRow(ctx, query, userID, title).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find in %s: %w", table, err)
	}
	return id, true, nil
}

// createNamed inserts a named entity under an advisory lock keyed by the
// lowercased name, re-checking for a concurrent insert first. extra are the
// two trailing column values after (id, name).
func (s *Store) createNamed(ctx context.Context, name, insertSQL, table string, extra ...any) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, table+":"+strings.ToLower(name)); err != nil {
		return uuid.Nil, fmt.Errorf("advisory lock: %w", err)
	}

	var existing uuid.UUID
	query := fmt.Sprintf(`SELECT id FROM %s WHERE name ILIKE '%%' || $1 || '%%' ORDER BY created_at LIMIT 1`, table)
	err = tx.QueryRow(ctx, query, name).Scan(&existing)
	if err == nil {
		return existing, tx.Commit(ctx)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("re-check %s: %w", table, err)
	}

	id := uuid.New()
	args := append([]any{id, name}, extra...)
	if _, err := tx.Exec(ctx, insertSQL, args...); err != nil {
		return uuid.Nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}
