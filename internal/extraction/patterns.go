package extraction

import "regexp"

// rule pairs one compiled pattern with the function that turns its matches
// into candidate actions. Rules run in table order against each sentence;
// every rule that fires contributes candidates independently.
type rule struct {
	re         *regexp.Regexp
	confidence float64
	extract    func(m []string, sentence string, conf float64) []Action
}

var skillRules = []rule{
	{
		// "I have 5 years of experience with Python"
		re:         regexp.MustCompile(`(?i)\b(\d+)\+?\s+years?(?:\s+of)?\s+experience\s+(?:with|in|using)\s+(.+)$`),
		confidence: 0.9,
		extract:    extractSkillWithYears,
	},
	{
		// "I'm skilled in JavaScript and React", "expert in Go"
		re:         regexp.MustCompile(`(?i)\b(expert in|advanced in|skilled in|proficient in|proficient with|good at|experienced with|experienced in|strong in|learning|new to)\s+(.+)$`),
		confidence: 0.8,
		extract:    extractQualifiedSkills,
	},
	{
		// "I know SQL", "I work with Kubernetes"
		re:         regexp.MustCompile(`(?i)\bi\s+(?:know|use|work with)\s+(.+)$`),
		confidence: 0.6,
		extract:    extractPlainSkills,
	},
}

var companyRules = []rule{
	{
		// "I worked at Google as a backend engineer"
		re:         regexp.MustCompile(`(?i)\bwork(?:ed|ing|s)?\s+(?:at|for)\s+(.+?)(?:\s+as\s+an?\s+(.+?))?$`),
		confidence: 0.85,
		extract:    extractCompanyRole,
	},
	{
		// "I joined Stripe", "employed by Acme Corp"
		re:         regexp.MustCompile(`(?i)\b(?:i\s+joined|employed\s+(?:at|by))\s+(.+?)(?:\s+as\s+an?\s+(.+?))?$`),
		confidence: 0.8,
		extract:    extractCompanyRole,
	},
	{
		// "I'm a data scientist at Netflix"
		re:         regexp.MustCompile(`(?i)\bi(?:'m|\s+am)\s+an?\s+(.+?)\s+at\s+(.+)$`),
		confidence: 0.8,
		extract:    extractRoleAtCompany,
	},
}

var educationRules = []rule{
	{
		// "bachelor's in computer science from MIT"
		re:         regexp.MustCompile(`(?i)\b(bachelor(?:'s)?|master(?:'s)?|ph\.?d\.?|doctorate|mba|associate(?:'s)?)\s+(?:degree\s+)?(?:of|in)?\s*(.*?)\s*(?:from|at)\s+(.+)$`),
		confidence: 0.9,
		extract:    extractDegree,
	},
	{
		// "I studied physics at Stanford"
		re:         regexp.MustCompile(`(?i)\bstud(?:ied|ying)\s+(.+?)\s+at\s+(.+)$`),
		confidence: 0.85,
		extract:    extractStudiedAt,
	},
	{
		// "I graduated from Berkeley"
		re:         regexp.MustCompile(`(?i)\b(?:graduated\s+from|graduate\s+of|attended)\s+(.+)$`),
		confidence: 0.8,
		extract:    extractInstitution,
	},
}

var objectiveRules = []rule{
	{
		// "My goal is to become a staff engineer by next June"
		re:         regexp.MustCompile(`(?i)\b(?:my\s+goal\s+is\s+to|my\s+objective\s+is\s+to|i\s+want\s+to|i\s+aim\s+to|i\s+plan\s+to|i\s+intend\s+to|i'?m\s+working\s+towards?)\s+(.+)$`),
		confidence: 0.75,
		extract:    extractObjective,
	},
}

var keyResultRules = []rule{
	{
		// "increase signups to 500", "grow revenue by $20k", "cut churn by 5%"
		re:         regexp.MustCompile(`(?i)\b(?:increase|grow|improve|boost|raise|double|reduce|decrease|cut|reach|hit|achieve)\s+(.+?)\s+(?:to|by)\s+(\$?)(\d+(?:\.\d+)?)\s*(%|percent|k|m|million|thousand|dollars|users|points)?`),
		confidence: 0.8,
		extract:    extractNumericKeyResult,
	},
	{
		// "ship the onboarding redesign", a done/not-done result
		re:         regexp.MustCompile(`(?i)\b(?:complete|finish|launch|ship|deliver)\s+(.+)$`),
		confidence: 0.6,
		extract:    extractBooleanKeyResult,
	},
}

// industryKeywords maps name fragments to the industry recorded on a company
// candidate. First match in table order wins; no match leaves industry unset.
var industryKeywords = []keywordRule{
	{"tech", "Technology"},
	{"software", "Technology"},
	{"labs", "Technology"},
	{"bank", "Finance"},
	{"capital", "Finance"},
	{"financ", "Finance"},
	{"invest", "Finance"},
	{"health", "Healthcare"},
	{"medic", "Healthcare"},
	{"pharma", "Healthcare"},
	{"hospital", "Healthcare"},
	{"retail", "Retail"},
	{"shop", "Retail"},
	{"store", "Retail"},
	{"consult", "Consulting"},
	{"school", "Education"},
	{"universit", "Education"},
	{"academy", "Education"},
	{"media", "Media"},
	{"news", "Media"},
	{"studio", "Media"},
}

// keywordRule is one entry in a fixed classifier table. Tables are scanned
// in order; the first fragment contained in the text wins.
type keywordRule struct{ keyword, value string }

var categoryKeywords = []keywordRule{
	{"learn", "learning"},
	{"study", "learning"},
	{"course", "learning"},
	{"certif", "learning"},
	{"read", "learning"},
	{"promot", "professional"},
	{"career", "professional"},
	{"job", "professional"},
	{"lead", "professional"},
	{"senior", "professional"},
	{"staff", "professional"},
	{"manager", "professional"},
	{"health", "health"},
	{"fitness", "health"},
	{"run", "health"},
	{"weight", "health"},
	{"gym", "health"},
	{"sleep", "health"},
	{"family", "personal"},
	{"travel", "personal"},
	{"hobby", "personal"},
	{"home", "personal"},
}

var priorityKeywords = []keywordRule{
	{"urgent", "high"},
	{"critical", "high"},
	{"asap", "high"},
	{"immediately", "high"},
	{"must", "high"},
	{"top priority", "high"},
	{"someday", "low"},
	{"eventually", "low"},
	{"maybe", "low"},
	{"at some point", "low"},
}

var timeframeKeywords = []keywordRule{
	{"this month", "month"},
	{"next month", "month"},
	{"30 days", "month"},
	{"this year", "year"},
	{"next year", "year"},
	{"annual", "year"},
	{"12 months", "year"},
	{"ongoing", "ongoing"},
	{"continuous", "ongoing"},
	{"every day", "ongoing"},
	{"every week", "ongoing"},
	{"this quarter", "quarter"},
	{"next quarter", "quarter"},
}

// proficiencyByQualifier maps the captured skill qualifier phrase to a
// proficiency level. Anything absent defaults to intermediate.
var proficiencyByQualifier = map[string]string{
	"expert in":       "expert",
	"advanced in":     "advanced",
	"skilled in":      "intermediate",
	"proficient in":   "intermediate",
	"proficient with": "intermediate",
	"good at":         "intermediate",
	"experienced with": "intermediate",
	"experienced in":  "intermediate",
	"strong in":       "intermediate",
	"learning":        "beginner",
	"new to":          "beginner",
}

var (
	targetDateRe = regexp.MustCompile(`(?i)\b(?:by|within)\s+([a-z0-9][a-z0-9 ,]*?)(?:[.!?]|$)`)
	yearsNearRe  = regexp.MustCompile(`(?i)\b(\d+)\+?\s+years?\b`)
	endYearRe    = regexp.MustCompile(`(?i)\b(?:until|left\s+in)\s+(\d{4})\b`)

	// companyTailRe trims tenure clauses off a captured company name so
	// "Acme Corp until 2020" resolves to the entity "Acme Corp".
	companyTailRe = regexp.MustCompile(`(?i)\s+(?:until|since|from|left\s+in)\b.*$`)
)
