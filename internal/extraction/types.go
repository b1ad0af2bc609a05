package extraction

import "time"

// ActionType identifies which profile fact family a candidate belongs to.
type ActionType string

const (
	ActionSkill     ActionType = "skill"
	ActionCompany   ActionType = "company"
	ActionEducation ActionType = "education"
	ActionObjective ActionType = "objective"
	ActionKeyResult ActionType = "key_result"
	ActionNone      ActionType = "none"
)

// Action is a single unconfirmed candidate fact extracted from narrated text.
// Exactly one of the detail fields is set, matching Type. Actions are value
// objects: produced once by the engine and never mutated afterwards.
type Action struct {
	Type       ActionType        `json:"type"`
	Entity     string            `json:"entity"`
	Confidence float64           `json:"confidence"`
	Skill      *SkillDetails     `json:"skill,omitempty"`
	Company    *CompanyDetails   `json:"company,omitempty"`
	Education  *EducationDetails `json:"education,omitempty"`
	Objective  *ObjectiveDetails `json:"objective,omitempty"`
	KeyResult  *KeyResultDetails `json:"key_result,omitempty"`
}

// SkillDetails carries the fields valid for a skill candidate.
type SkillDetails struct {
	Proficiency     string `json:"proficiency"`      // beginner | intermediate | advanced | expert
	YearsExperience int    `json:"years_experience"` // default 2
}

// CompanyDetails carries the fields valid for a company/role candidate.
type CompanyDetails struct {
	Role     string     `json:"role,omitempty"`
	Industry string     `json:"industry,omitempty"` // unset when no keyword matched
	EndDate  *time.Time `json:"end_date,omitempty"`
}

// EducationDetails carries the fields valid for an education candidate.
type EducationDetails struct {
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
}

// ObjectiveDetails carries the fields valid for an objective candidate.
type ObjectiveDetails struct {
	Category   string `json:"category"`  // learning | professional | health | personal
	Priority   string `json:"priority"`  // high | medium | low
	Timeframe  string `json:"timeframe"` // quarter | month | year | ongoing
	TargetDate string `json:"target_date,omitempty"`
}

// KeyResultDetails carries the fields valid for a key-result candidate.
type KeyResultDetails struct {
	TargetValue     float64 `json:"target_value"`
	Unit            string  `json:"unit,omitempty"`
	MeasurementType string  `json:"measurement_type"` // percentage | currency | number | boolean
}

// Valid reports whether the action's detail variant matches its type and the
// entity survived cleanup. The engine only emits valid actions; callers that
// construct actions by hand (tests, resolver fakes) use this as the gate.
func (a Action) Valid() bool {
	if len(a.Entity) < 2 {
		return false
	}
	switch a.Type {
	case ActionSkill:
		return a.Skill != nil
	case ActionCompany:
		return a.Company != nil
	case ActionEducation:
		return a.Education != nil
	case ActionObjective:
		return a.Objective != nil
	case ActionKeyResult:
		return a.KeyResult != nil
	}
	return false
}
