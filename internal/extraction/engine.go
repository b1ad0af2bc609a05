// Package extraction turns free-form narrated text into typed candidate
// profile facts. Extraction is rule-based: every candidate comes from a
// fixed pattern table, so the same text always yields the same actions.
// The engine touches no network and no storage.
package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Engine runs the five pattern families against input text.
// It is stateless and safe for concurrent use.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

var sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)

// Extract returns every candidate action found in text. Overlapping matches
// across families are all kept; duplicates within one family (same entity,
// case-insensitive) collapse to the first rule that produced them. Malformed
// or empty input yields an empty list, never an error.
func (e *Engine) Extract(text string) []Action {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []Action
	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		out = append(out, runFamily(skillRules, sentence)...)
		out = append(out, runFamily(companyRules, sentence)...)
		out = append(out, runFamily(educationRules, sentence)...)
		out = append(out, runFamily(objectiveRules, sentence)...)
		out = append(out, runFamily(keyResultRules, sentence)...)
	}
	return dedupeByFamily(out)
}

func runFamily(rules []rule, sentence string) []Action {
	var out []Action
	for _, r := range rules {
		m := r.re.FindStringSubmatch(sentence)
		if m == nil {
			continue
		}
		for _, a := range r.extract(m, sentence, r.confidence) {
			if a.Valid() {
				out = append(out, a)
			}
		}
	}
	return out
}

// dedupeByFamily drops repeat candidates for the same (type, entity) pair,
// keeping the first occurrence. Cross-family overlap on the same substring
// is deliberately preserved; the resolver settles duplicates later.
func dedupeByFamily(actions []Action) []Action {
	seen := make(map[string]bool, len(actions))
	out := actions[:0]
	for _, a := range actions {
		key := string(a.Type) + "\x00" + strings.ToLower(a.Entity)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// --- skill extractors ---

func extractSkillWithYears(m []string, sentence string, conf float64) []Action {
	years, _ := strconv.Atoi(m[1])
	if years <= 0 {
		years = 2
	}
	var out []Action
	for _, entity := range splitEntityList(m[2]) {
		out = append(out, Action{
			Type:       ActionSkill,
			Entity:     entity,
			Confidence: conf,
			Skill:      &SkillDetails{Proficiency: "intermediate", YearsExperience: years},
		})
	}
	return out
}

func extractQualifiedSkills(m []string, sentence string, conf float64) []Action {
	qualifier := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
	proficiency := proficiencyByQualifier[qualifier]
	if proficiency == "" {
		proficiency = "intermediate"
	}
	var out []Action
	for _, entity := range splitEntityList(m[2]) {
		out = append(out, Action{
			Type:       ActionSkill,
			Entity:     entity,
			Confidence: conf,
			Skill:      &SkillDetails{Proficiency: proficiency, YearsExperience: yearsNear(sentence)},
		})
	}
	return out
}

func extractPlainSkills(m []string, sentence string, conf float64) []Action {
	var out []Action
	for _, entity := range splitEntityList(m[1]) {
		out = append(out, Action{
			Type:       ActionSkill,
			Entity:     entity,
			Confidence: conf,
			Skill:      &SkillDetails{Proficiency: "intermediate", YearsExperience: yearsNear(sentence)},
		})
	}
	return out
}

// yearsNear returns the first "<N> year(s)" figure in the sentence the match
// came from, defaulting to 2 when absent.
func yearsNear(sentence string) int {
	if m := yearsNearRe.FindStringSubmatch(sentence); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 2
}

// --- company extractors ---

func extractCompanyRole(m []string, sentence string, conf float64) []Action {
	entity := cleanEntity(companyTailRe.ReplaceAllString(m[1], ""))
	details := &CompanyDetails{
		Role:     cleanEntity(m[2]),
		Industry: lookupIndustry(entity + " " + sentence),
		EndDate:  endDateNear(sentence),
	}
	return []Action{{Type: ActionCompany, Entity: entity, Confidence: conf, Company: details}}
}

func extractRoleAtCompany(m []string, sentence string, conf float64) []Action {
	entity := cleanEntity(companyTailRe.ReplaceAllString(m[2], ""))
	details := &CompanyDetails{
		Role:     cleanEntity(m[1]),
		Industry: lookupIndustry(entity + " " + sentence),
		EndDate:  endDateNear(sentence),
	}
	return []Action{{Type: ActionCompany, Entity: entity, Confidence: conf, Company: details}}
}

func lookupIndustry(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range industryKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.value
		}
	}
	return ""
}

func endDateNear(sentence string) *time.Time {
	m := endYearRe.FindStringSubmatch(sentence)
	if m == nil {
		return nil
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

// --- education extractors ---

func extractDegree(m []string, sentence string, conf float64) []Action {
	return []Action{{
		Type:       ActionEducation,
		Entity:     cleanEntity(m[3]),
		Confidence: conf,
		Education: &EducationDetails{
			Degree:       normalizeDegree(m[1]),
			FieldOfStudy: cleanEntity(m[2]),
		},
	}}
}

func extractStudiedAt(m []string, sentence string, conf float64) []Action {
	return []Action{{
		Type:       ActionEducation,
		Entity:     cleanEntity(m[2]),
		Confidence: conf,
		Education:  &EducationDetails{FieldOfStudy: cleanEntity(m[1])},
	}}
}

func extractInstitution(m []string, sentence string, conf float64) []Action {
	return []Action{{
		Type:       ActionEducation,
		Entity:     cleanEntity(m[1]),
		Confidence: conf,
		Education:  &EducationDetails{},
	}}
}

func normalizeDegree(raw string) string {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(raw), ".")) {
	case "bachelor", "bachelor's":
		return "Bachelor's"
	case "master", "master's":
		return "Master's"
	case "phd", "ph.d", "doctorate":
		return "PhD"
	case "mba":
		return "MBA"
	case "associate", "associate's":
		return "Associate's"
	}
	return strings.TrimSpace(raw)
}

// --- objective extractor ---

func extractObjective(m []string, sentence string, conf float64) []Action {
	goal := m[1]
	targetDate := ""
	if idx := targetDateRe.FindStringSubmatchIndex(goal); idx != nil {
		targetDate = strings.TrimSpace(goal[idx[2]:idx[3]])
		goal = goal[:idx[0]]
	}
	entity := cleanEntity(goal)
	return []Action{{
		Type:       ActionObjective,
		Entity:     entity,
		Confidence: conf,
		Objective: &ObjectiveDetails{
			Category:   lookupKeyword(sentence, categoryKeywords, "professional"),
			Priority:   lookupKeyword(sentence, priorityKeywords, "medium"),
			Timeframe:  lookupKeyword(sentence, timeframeKeywords, "quarter"),
			TargetDate: targetDate,
		},
	}}
}

func lookupKeyword(text string, table []keywordRule, fallback string) string {
	lower := strings.ToLower(text)
	for _, kw := range table {
		if strings.Contains(lower, kw.keyword) {
			return kw.value
		}
	}
	return fallback
}

// --- key-result extractors ---

func extractNumericKeyResult(m []string, sentence string, conf float64) []Action {
	value, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return nil
	}
	unit := strings.TrimSpace(m[4])
	if m[2] == "$" && unit == "" {
		unit = "$"
	}
	return []Action{{
		Type:       ActionKeyResult,
		Entity:     cleanEntity(m[1]),
		Confidence: conf,
		KeyResult: &KeyResultDetails{
			TargetValue:     value,
			Unit:            unit,
			MeasurementType: measurementType(m[2], unit),
		},
	}}
}

func extractBooleanKeyResult(m []string, sentence string, conf float64) []Action {
	return []Action{{
		Type:       ActionKeyResult,
		Entity:     cleanEntity(m[1]),
		Confidence: conf,
		KeyResult: &KeyResultDetails{
			TargetValue:     1,
			MeasurementType: "boolean",
		},
	}}
}

func measurementType(dollar, unit string) string {
	switch {
	case dollar == "$", unit == "dollars":
		return "currency"
	case unit == "%", unit == "percent":
		return "percentage"
	default:
		return "number"
	}
}

// --- entity cleanup ---

// connectorWords are stripped from the edges of a captured entity.
var connectorWords = map[string]bool{
	"and": true, "or": true, "with": true, "the": true,
	"a": true, "an": true, "my": true, "in": true, "at": true, "of": true,
}

var entityListSplitRe = regexp.MustCompile(`(?i)\s*(?:,|\band\b|\bor\b)\s*`)

// splitEntityList breaks a captured phrase like "JavaScript, Go and React"
// into individual cleaned entities, discarding anything shorter than two
// characters after cleanup.
func splitEntityList(raw string) []string {
	parts := entityListSplitRe.Split(raw, -1)
	var out []string
	for _, p := range parts {
		if entity := cleanEntity(p); len(entity) >= 2 {
			out = append(out, entity)
		}
	}
	return out
}

func cleanEntity(raw string) string {
	words := strings.Fields(strings.Trim(strings.TrimSpace(raw), `.,;:!?"'`))
	for len(words) > 0 && connectorWords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	for len(words) > 0 && connectorWords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
