package classifier

import (
	"context"
	"strings"
	"testing"

	"strandmine/internal/config"
)

func TestNullClassifierAlwaysParallel(t *testing.T) {
	parallel, confidence, err := NullClassifier{}.Score(context.Background(), Features{
		DifferenceRatio: 0.9, LengthCorrelation: -0.8, PValue: 0.5, NChunks: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parallel {
		t.Fatal("expected NullClassifier to always report parallel=true")
	}
	if confidence != 1 {
		t.Fatalf("expected confidence 1, got %f", confidence)
	}
}

func TestNewLLMClassifierUnsupportedProvider(t *testing.T) {
	_, err := NewLLMClassifier(config.ClassifierConfig{Provider: "not-a-real-provider"})
	if err == nil {
		t.Fatal("expected an error for an unsupported provider")
	}
}

func TestNewLLMClassifierAnthropicDefaultsModel(t *testing.T) {
	c, err := NewLLMClassifier(config.ClassifierConfig{Provider: "anthropic", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.model == "" {
		t.Fatal("expected a default model to be set")
	}
}

func TestNewLLMClassifierOpenAIDefaultsModel(t *testing.T) {
	c, err := NewLLMClassifier(config.ClassifierConfig{Provider: "openai", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.model == "" {
		t.Fatal("expected a default model to be set")
	}
}

func TestParseVerdictExtractsFromSurroundingProse(t *testing.T) {
	raw := "Sure, here is my judgement:\n{\"parallel\": true, \"confidence\": 0.82}\nHope that helps."
	v, err := parseVerdict(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Parallel || v.Confidence != 0.82 {
		t.Fatalf("got %+v, want parallel=true confidence=0.82", v)
	}
}

func TestParseVerdictRejectsNonJSON(t *testing.T) {
	if _, err := parseVerdict("no json here at all"); err == nil {
		t.Fatal("expected an error for a response with no JSON object")
	}
}

func TestPromptForIncludesAllFeatures(t *testing.T) {
	p := promptFor(Features{DifferenceRatio: 0.1, LengthCorrelation: 0.9, PValue: 0.03, NChunks: 5})
	for _, want := range []string{"0.100000", "0.900000", "0.030000", "5"} {
		if !strings.Contains(p, want) {
			t.Fatalf("expected prompt to mention %q, got: %s", want, p)
		}
	}
}
