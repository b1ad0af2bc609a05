// Package analysis combines the extraction engine and the commitment
// analyzer into a single pass over narrated text, derives an overall
// commitment score, and renders a short reflective acknowledgment.
package analysis

import (
	"math"
	"math/rand"
	"strings"

	"github.com/northbeam-labs/scribe/internal/extraction"
	"github.com/northbeam-labs/scribe/internal/insight"
)

// Action is an extraction candidate together with its linked commitment
// insight, when one mentions the same entity.
type Action struct {
	extraction.Action
	Insight *insight.Commitment `json:"commitment_insight,omitempty"`
}

// Analysis is the aggregate result of one analysis pass. It is derived on
// every call and never persisted as its own entity.
type Analysis struct {
	Actions                 []Action            `json:"actions"`
	Insights                []insight.Commitment `json:"commitment_insights"`
	PhilosophicalReflection string              `json:"philosophical_reflection"`
	CommitmentScore         int                 `json:"commitment_score"`
	DominantCommitmentType  string              `json:"dominant_commitment_type"`
}

// Picker selects an index in [0, n). The reflective question choice is the
// only randomized step in the whole pipeline; injecting the picker keeps
// tests deterministic.
type Picker func(n int) int

type Analyzer struct {
	engine   *extraction.Engine
	analyzer *insight.Analyzer
	pick     Picker
}

func New(engine *extraction.Engine, analyzer *insight.Analyzer, pick Picker) *Analyzer {
	if pick == nil {
		pick = rand.Intn
	}
	return &Analyzer{engine: engine, analyzer: analyzer, pick: pick}
}

var intensityWeights = map[insight.Intensity]int{
	insight.IntensityLow:          1,
	insight.IntensityMedium:       2,
	insight.IntensityHigh:         3,
	insight.IntensityLifeChanging: 4,
}

// Analyze runs both analyzers over text and links each action to the first
// insight whose entity is a case-insensitive substring match (either
// direction) of the action's entity. At most one link per action.
func (a *Analyzer) Analyze(text string) Analysis {
	actions := a.engine.Extract(text)
	insights := a.analyzer.Analyze(text)

	linked := make([]Action, len(actions))
	for i, act := range actions {
		linked[i] = Action{Action: act}
		for j := range insights {
			if entitiesOverlap(act.Entity, insights[j].Entity) {
				linked[i].Insight = &insights[j]
				break
			}
		}
	}

	return Analysis{
		Actions:                 linked,
		Insights:                insights,
		PhilosophicalReflection: reflection(insights),
		CommitmentScore:         Score(insights),
		DominantCommitmentType:  DominantType(insights),
	}
}

func entitiesOverlap(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// Score is round(100 · Σ weight / (4 · N)) over all N insights, 0 when N=0.
// Always within [0, 100].
func Score(insights []insight.Commitment) int {
	if len(insights) == 0 {
		return 0
	}
	sum := 0
	for _, c := range insights {
		w := intensityWeights[c.Intensity]
		if w == 0 {
			w = 1
		}
		sum += w
	}
	return int(math.Round(100 * float64(sum) / (4 * float64(len(insights)))))
}

// DominantType is the commitment type with the highest occurrence count.
// Ties break toward the earlier entry in insight.TypeOrder. "none" when no
// insights were found.
func DominantType(insights []insight.Commitment) string {
	if len(insights) == 0 {
		return "none"
	}
	counts := make(map[insight.CommitmentType]int, len(insights))
	for _, c := range insights {
		counts[c.Type]++
	}
	best := insight.TypeOrder[0]
	bestCount := -1
	for _, t := range insight.TypeOrder {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return string(best)
}

func reflection(insights []insight.Commitment) string {
	top := topInsight(insights)
	if top == nil {
		return ""
	}
	return top.PhilosophicalSignificance
}

// topInsight is the insight with the heaviest intensity, first-seen wins.
func topInsight(insights []insight.Commitment) *insight.Commitment {
	var top *insight.Commitment
	for i := range insights {
		if top == nil || intensityWeights[insights[i].Intensity] > intensityWeights[top.Intensity] {
			top = &insights[i]
		}
	}
	return top
}
