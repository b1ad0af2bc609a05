package insight

import "regexp"

// family groups the trigger phrases for one commitment type. The entity is
// whatever follows the matched phrase up to the next sentence boundary, so
// the patterns themselves carry no capture groups.
type family struct {
	ctype    CommitmentType
	category string
	patterns []*regexp.Regexp
}

var families = []family{
	{
		ctype:    TypeLife,
		category: "life",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bnever give up on\b`),
			regexp.MustCompile(`(?i)\bi (?:will )?dedicate my life to\b`),
			regexp.MustCompile(`(?i)\bmy life'?s (?:mission|purpose) is\b`),
			regexp.MustCompile(`(?i)\bi vow to\b`),
			regexp.MustCompile(`(?i)\bfor the rest of my life i will\b`),
		},
	},
	{
		ctype:    TypeProfessional,
		category: "career",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bmy career goal is\b`),
			regexp.MustCompile(`(?i)\bi (?:am|'m) committed to my career\b`),
			regexp.MustCompile(`(?i)\bi will become\b`),
			regexp.MustCompile(`(?i)\bi will advance\b`),
			regexp.MustCompile(`(?i)\bi am determined to reach\b`),
		},
	},
	{
		ctype:    TypeGrowth,
		category: "growth",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bi want to grow\b`),
			regexp.MustCompile(`(?i)\bi (?:am|'m) working on myself\b`),
			regexp.MustCompile(`(?i)\bi (?:am|'m) determined to improve\b`),
			regexp.MustCompile(`(?i)\bi commit to improving\b`),
			regexp.MustCompile(`(?i)\bbecome a better\b`),
		},
	},
	{
		ctype:    TypeRelationship,
		category: "relationship",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bi will always be there for\b`),
			regexp.MustCompile(`(?i)\bi (?:am|'m) devoted to\b`),
			regexp.MustCompile(`(?i)\bmy commitment to my (?:family|partner|friends) is\b`),
			regexp.MustCompile(`(?i)\bi will never let down\b`),
		},
	},
	{
		ctype:    TypeSkill,
		category: "skill",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bi will master\b`),
			regexp.MustCompile(`(?i)\bi (?:am|'m) committed to learning\b`),
			regexp.MustCompile(`(?i)\bi will practice\b`),
			regexp.MustCompile(`(?i)\bdedicated to learning\b`),
			regexp.MustCompile(`(?i)\bi commit to studying\b`),
		},
	},
}

// Intensity tiers, most absolute language first. The first tier with any
// keyword present in the sentence wins; nothing matched means low.
var intensityTiers = []struct {
	intensity Intensity
	keywords  []string
}{
	{IntensityLifeChanging, []string{"never", "always", "forever", "completely", "absolutely"}},
	{IntensityHigh, []string{"must", "committed", "dedicated", "promise", "vow"}},
	{IntensityMedium, []string{"will", "going to", "decided"}},
}

// Timeframe tiers, longest horizon first; nothing matched means immediate.
var timeframeTiers = []struct {
	timeframe Timeframe
	keywords  []string
}{
	{TimeframeLifelong, []string{"rest of my life", "forever", "lifelong", "as long as i live"}},
	{TimeframeLongTerm, []string{"years", "long term", "long-term", "someday", "career"}},
	{TimeframeShortTerm, []string{"months", "this year", "soon", "few weeks"}},
}

// indicatorCues map a cue in the ±50 character window around the match to a
// short diagnostic label. With no cue present the single default indicator
// "stated intent" is used.
var indicatorCues = []struct {
	label    string
	keywords []string
}{
	{"absolute language", []string{"never", "always", "forever", "completely"}},
	{"self-sacrifice framing", []string{"give up", "sacrifice", "whatever it takes", "no matter what"}},
	{"public declaration", []string{"promise", "vow", "swear"}},
	{"time-bound commitment", []string{"year", "month", "week", "day", "by "}},
}

const defaultIndicator = "stated intent"
