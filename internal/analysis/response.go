package analysis

import (
	"fmt"
	"strings"

	"github.com/northbeam-labs/scribe/internal/insight"
)

// questionBanks hold the reflective follow-up questions per commitment type.
// The %s slot takes the top insight's entity.
var questionBanks = map[insight.CommitmentType][]string{
	insight.TypeLife: {
		"What would honoring %s look like on your hardest day?",
		"Who do you become if you keep this promise about %s?",
		"What are you willing to give up to protect %s?",
	},
	insight.TypeProfessional: {
		"What does success with %s look like in five years?",
		"Which part of %s is within your control this quarter?",
		"Who has walked the path toward %s before you?",
	},
	insight.TypeGrowth: {
		"How will you notice the first small shift in %s?",
		"What old habit stands between you and %s?",
		"What would your future self thank you for doing about %s today?",
	},
	insight.TypeRelationship: {
		"What does showing up for %s look like this week?",
		"What do you need in return while you give to %s?",
	},
	insight.TypeSkill: {
		"What project would force %s out of theory and into practice?",
		"How many hours can you truly protect for %s each week?",
		"What does good enough at %s look like, and what does mastery add?",
	},
}

var typeLabels = map[insight.CommitmentType]string{
	insight.TypeLife:         "life commitment",
	insight.TypeProfessional: "professional commitment",
	insight.TypeGrowth:       "personal growth",
	insight.TypeRelationship: "relationship commitment",
	insight.TypeSkill:        "skill commitment",
}

// Respond renders a short natural-language acknowledgment of the analysis:
// insight count, a tone clause gated by the commitment score, the dominant
// type, and, when any insight carries high or life-changing intensity, one
// reflective question drawn from the type's bank via the injected picker.
func (a *Analyzer) Respond(an Analysis) string {
	n := len(an.Insights)
	if n == 0 {
		return "I didn't pick up any commitments in that. Tell me more about what you're working toward."
	}

	var b strings.Builder
	noun := "commitments"
	if n == 1 {
		noun = "commitment"
	}
	fmt.Fprintf(&b, "I heard %d %s in what you shared. ", n, noun)

	switch {
	case an.CommitmentScore >= 80:
		b.WriteString("There's deep conviction in how you said it. ")
	case an.CommitmentScore >= 60:
		b.WriteString("There's good commitment energy here. ")
	default:
		b.WriteString("I sense some hesitation in the phrasing. ")
	}

	dominant := insight.CommitmentType(an.DominantCommitmentType)
	if label, ok := typeLabels[dominant]; ok {
		fmt.Fprintf(&b, "The strongest theme is %s.", label)
	}

	top := topInsight(an.Insights)
	if top != nil && (top.Intensity == insight.IntensityHigh || top.Intensity == insight.IntensityLifeChanging) {
		bank := questionBanks[top.Type]
		if len(bank) > 0 {
			q := bank[a.pick(len(bank))]
			b.WriteString(" ")
			fmt.Fprintf(&b, q, top.Entity)
		}
	}

	return b.String()
}
