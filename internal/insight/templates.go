package insight

import (
	"fmt"
	"strings"
)

// The four narrative collections are fixed, type-keyed templates
// parameterized by the extracted entity. Deterministic lookups only.

var significanceTemplates = map[CommitmentType]string{
	TypeLife:         "Committing to %s touches how you define a life well lived, not just what you do next.",
	TypeProfessional: "Your dedication to %s shapes the professional identity you are building.",
	TypeGrowth:       "Working on %s is a commitment to who you are becoming, not only what you achieve.",
	TypeRelationship: "Standing by %s says as much about your values as about the relationship itself.",
	TypeSkill:        "Mastering %s is a long conversation between patience and ambition.",
}

var stepTemplates = map[CommitmentType][]string{
	TypeLife: {
		"Write down what %s looks like one year from now",
		"Identify the single habit that most supports %s",
		"Tell someone you trust about this commitment",
	},
	TypeProfessional: {
		"Break %s into quarterly milestones",
		"Find a mentor who has already achieved %s",
		"Review progress toward %s monthly",
	},
	TypeGrowth: {
		"Pick one measurable behavior tied to %s",
		"Schedule a weekly reflection on %s",
		"Note setbacks around %s without judgment",
	},
	TypeRelationship: {
		"Set aside regular, protected time for %s",
		"Name one concrete way to show up for %s this week",
	},
	TypeSkill: {
		"Block recurring practice time for %s",
		"Find a project that forces you to use %s",
		"Track hours spent on %s",
	},
}

var riskTemplates = map[CommitmentType][]string{
	TypeLife: {
		"Life-scale commitments fade without daily anchors",
		"Absolute framing can turn one setback into perceived failure",
	},
	TypeProfessional: {
		"External validation may lag behind effort on %s",
		"Burnout risk if %s crowds out recovery time",
	},
	TypeGrowth: {
		"Progress on %s is hard to see day to day",
		"Self-criticism can undermine the change itself",
	},
	TypeRelationship: {
		"Unspoken expectations around %s breed resentment",
		"Overcommitting leaves no room for your own needs",
	},
	TypeSkill: {
		"Plateaus in %s test motivation hardest",
		"Comparing your start to others' mastery of %s",
	},
}

var metricTemplates = map[CommitmentType][]string{
	TypeLife: {
		"Still acting on %s after 90 days",
		"Can describe %s progress without prompting",
	},
	TypeProfessional: {
		"Concrete milestone toward %s reached each quarter",
		"Feedback from peers reflects growth toward %s",
	},
	TypeGrowth: {
		"Weekly reflections on %s logged",
		"Observable behavior change noted by others",
	},
	TypeRelationship: {
		"Consistent time invested in %s",
		"Fewer unresolved tensions over time",
	},
	TypeSkill: {
		"Practice hours on %s logged weekly",
		"Completed a real project using %s",
	},
}

func fillTemplates(templates []string, entity string) []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		if strings.Contains(t, "%s") {
			out[i] = fmt.Sprintf(t, entity)
		} else {
			out[i] = t
		}
	}
	return out
}
