// Package insight scans narrated text for commitment-style language and
// classifies each occurrence along type, intensity and timeframe axes.
// Like extraction, it is pure pattern matching over fixed tables.
package insight

import (
	"fmt"
	"strings"
)

// Analyzer runs the five commitment pattern families. Stateless, safe for
// concurrent use.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// contextWindow is the number of characters on each side of a match that the
// indicator cues are evaluated against.
const contextWindow = 50

// Analyze returns one Commitment per pattern occurrence that has a
// resolvable entity. Matches whose trailing text is empty after cleanup are
// discarded rather than emitted.
func (a *Analyzer) Analyze(text string) []Commitment {
	var out []Commitment
	for _, fam := range families {
		for _, re := range fam.patterns {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				c, ok := buildCommitment(fam, text, loc[0], loc[1])
				if ok {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

func buildCommitment(fam family, text string, start, end int) (Commitment, bool) {
	entity := entityAfter(text, end)
	if entity == "" {
		return Commitment{}, false
	}

	sentence := sentenceAround(text, start)
	lower := strings.ToLower(sentence)

	c := Commitment{
		Type:                      fam.ctype,
		Intensity:                 classifyIntensity(lower),
		Timeframe:                 classifyTimeframe(lower),
		Category:                  fam.category,
		Entity:                    entity,
		CommitmentStatement:       strings.TrimSpace(sentence),
		PhilosophicalSignificance: fmt.Sprintf(significanceTemplates[fam.ctype], entity),
		ActionableSteps:           fillTemplates(stepTemplates[fam.ctype], entity),
		CommitmentIndicators:      indicators(text, start, end),
		RiskFactors:               fillTemplates(riskTemplates[fam.ctype], entity),
		SuccessMetrics:            fillTemplates(metricTemplates[fam.ctype], entity),
	}
	return c, true
}

// entityAfter takes the text immediately following the matched phrase up to
// the next sentence boundary and strips leading connector words.
func entityAfter(text string, from int) string {
	rest := text[from:]
	if i := strings.IndexAny(rest, ".!?\n"); i >= 0 {
		rest = rest[:i]
	}
	words := strings.Fields(rest)
	for len(words) > 0 && isConnector(words[0]) {
		words = words[1:]
	}
	entity := strings.Trim(strings.Join(words, " "), `.,;:!?"'`)
	if len(entity) < 2 {
		return ""
	}
	return entity
}

func isConnector(w string) bool {
	switch strings.ToLower(w) {
	case "and", "or", "with", "the", "a", "an", "to", "my", "that":
		return true
	}
	return false
}

func sentenceAround(text string, pos int) string {
	start := 0
	for i := pos - 1; i >= 0; i-- {
		if c := text[i]; c == '.' || c == '!' || c == '?' || c == '\n' {
			start = i + 1
			break
		}
	}
	end := len(text)
	for i := pos; i < len(text); i++ {
		if c := text[i]; c == '.' || c == '!' || c == '?' || c == '\n' {
			end = i
			break
		}
	}
	return text[start:end]
}

func classifyIntensity(lower string) Intensity {
	for _, tier := range intensityTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(lower, kw) {
				return tier.intensity
			}
		}
	}
	return IntensityLow
}

func classifyTimeframe(lower string) Timeframe {
	for _, tier := range timeframeTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(lower, kw) {
				return tier.timeframe
			}
		}
	}
	return TimeframeImmediate
}

// indicators collects the diagnostic labels whose cue words appear within
// contextWindow characters of the match.
func indicators(text string, start, end int) []string {
	lo := start - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindow
	if hi > len(text) {
		hi = len(text)
	}
	window := strings.ToLower(text[lo:hi])

	var out []string
	for _, cue := range indicatorCues {
		for _, kw := range cue.keywords {
			if strings.Contains(window, kw) {
				out = append(out, cue.label)
				break
			}
		}
	}
	if len(out) == 0 {
		return []string{defaultIndicator}
	}
	return out
}
