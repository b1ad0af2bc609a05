package insight

// CommitmentType classifies what kind of commitment the speaker is voicing.
type CommitmentType string

const (
	TypeLife         CommitmentType = "life_commitment"
	TypeProfessional CommitmentType = "professional_commitment"
	TypeGrowth       CommitmentType = "personal_growth"
	TypeRelationship CommitmentType = "relationship_commitment"
	TypeSkill        CommitmentType = "skill_commitment"
)

// TypeOrder is the fixed enumeration used wherever commitment types need a
// stable ordering (dominant-type tie breaks, response templates).
var TypeOrder = []CommitmentType{
	TypeLife,
	TypeProfessional,
	TypeGrowth,
	TypeRelationship,
	TypeSkill,
}

// Intensity grades how strongly the commitment is worded.
type Intensity string

const (
	IntensityLow          Intensity = "low"
	IntensityMedium       Intensity = "medium"
	IntensityHigh         Intensity = "high"
	IntensityLifeChanging Intensity = "life_changing"
)

// Timeframe grades the horizon of the commitment.
type Timeframe string

const (
	TimeframeImmediate Timeframe = "immediate"
	TimeframeShortTerm Timeframe = "short_term"
	TimeframeLongTerm  Timeframe = "long_term"
	TimeframeLifelong  Timeframe = "lifelong"
)

// Commitment is one classified statement of personal intent. Records are
// never mutated after the analyzer produces them.
type Commitment struct {
	Type                      CommitmentType `json:"type"`
	Intensity                 Intensity      `json:"intensity"`
	Timeframe                 Timeframe      `json:"timeframe"`
	Category                  string         `json:"category"`
	Entity                    string         `json:"entity"`
	CommitmentStatement       string         `json:"commitment_statement"`
	PhilosophicalSignificance string         `json:"philosophical_significance"`
	ActionableSteps           []string       `json:"actionable_steps"`
	CommitmentIndicators      []string       `json:"commitment_indicators"`
	RiskFactors               []string       `json:"risk_factors"`
	SuccessMetrics            []string       `json:"success_metrics"`
}
