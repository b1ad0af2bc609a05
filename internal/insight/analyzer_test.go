package insight

import (
	"strings"
	"testing"
)

func TestAnalyzeLifeCommitment(t *testing.T) {
	a := NewAnalyzer()

	insights := a.Analyze("I will never give up on my dream of becoming an engineer")
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d: %+v", len(insights), insights)
	}
	c := insights[0]
	if c.Type != TypeLife {
		t.Errorf("expected life_commitment, got %s", c.Type)
	}
	if c.Entity != "dream of becoming an engineer" {
		t.Errorf("unexpected entity %q", c.Entity)
	}
	if c.Intensity != IntensityLifeChanging {
		t.Errorf("expected life_changing intensity, got %s", c.Intensity)
	}
	if c.Timeframe != TimeframeImmediate {
		t.Errorf("expected immediate timeframe, got %s", c.Timeframe)
	}
	if !strings.Contains(c.PhilosophicalSignificance, "dream of becoming an engineer") {
		t.Errorf("significance should mention the entity, got %q", c.PhilosophicalSignificance)
	}
	if len(c.ActionableSteps) == 0 || len(c.RiskFactors) == 0 || len(c.SuccessMetrics) == 0 {
		t.Errorf("expected populated narrative fields, got %+v", c)
	}
}

func TestAnalyzeIntensityTiers(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name      string
		text      string
		intensity Intensity
	}{
		{"absolute beats high", "I vow to never stop coding", IntensityLifeChanging},
		{"high", "I am committed to learning Spanish", IntensityHigh},
		{"medium", "I will become a great mentor", IntensityMedium},
		{"low", "I am devoted to my partner", IntensityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := a.Analyze(tt.text)
			if len(insights) == 0 {
				t.Fatal("expected at least one insight")
			}
			if got := insights[0].Intensity; got != tt.intensity {
				t.Errorf("expected intensity %s, got %s", tt.intensity, got)
			}
		})
	}
}

func TestAnalyzeTimeframes(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name      string
		text      string
		timeframe Timeframe
	}{
		{"lifelong", "For the rest of my life I will support my family", TimeframeLifelong},
		{"long term", "I will master Go over the next few years", TimeframeLongTerm},
		{"short term", "I vow to finish the marathon this year", TimeframeShortTerm},
		{"immediate", "I will practice piano", TimeframeImmediate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := a.Analyze(tt.text)
			if len(insights) == 0 {
				t.Fatal("expected at least one insight")
			}
			if got := insights[0].Timeframe; got != tt.timeframe {
				t.Errorf("expected timeframe %s, got %s", tt.timeframe, got)
			}
		})
	}
}

func TestAnalyzeIndicators(t *testing.T) {
	a := NewAnalyzer()

	insights := a.Analyze("I vow to finish the marathon this year")
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	got := insights[0].CommitmentIndicators
	want := map[string]bool{"public declaration": false, "time-bound commitment": false}
	for _, label := range got {
		if _, ok := want[label]; ok {
			want[label] = true
		}
	}
	for label, found := range want {
		if !found {
			t.Errorf("expected indicator %q in %v", label, got)
		}
	}
}

func TestAnalyzeDefaultIndicator(t *testing.T) {
	a := NewAnalyzer()

	insights := a.Analyze("I am devoted to Maria")
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	got := insights[0].CommitmentIndicators
	if len(got) != 1 || got[0] != defaultIndicator {
		t.Errorf("expected only the default indicator, got %v", got)
	}
}

func TestAnalyzeOverlappingFamilies(t *testing.T) {
	a := NewAnalyzer()

	// "I will become" (professional) and "become a better" (growth) both fire.
	insights := a.Analyze("I will become a better person")
	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %d: %+v", len(insights), insights)
	}
	if insights[0].Type != TypeProfessional || insights[1].Type != TypeGrowth {
		t.Errorf("expected professional then growth, got %s then %s",
			insights[0].Type, insights[1].Type)
	}
}

func TestAnalyzeDiscardsEntitylessMatches(t *testing.T) {
	a := NewAnalyzer()

	tests := []string{
		"I vow to.",
		"",
		"Nothing committal in this sentence at all.",
	}
	for _, text := range tests {
		if insights := a.Analyze(text); len(insights) != 0 {
			t.Errorf("%q: expected no insights, got %+v", text, insights)
		}
	}
}
