package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"

	"strandmine/internal/config"
)

// verdict is the structured judgement a provider is asked to return,
// parsed out of the model's text response.
type verdict struct {
	Parallel   bool    `json:"parallel"`
	Confidence float64 `json:"confidence"`
}

// LLMClassifier prompts a hosted model with a document pair's alignment
// features and asks for a parallel/non-parallel judgement — a stand-in
// for the unspecified maxent training pipeline in the original approach.
type LLMClassifier struct {
	provider string
	model    string

	anthropicSDK anthropic.Client
	openaiSDK    openai.Client
}

// NewLLMClassifier builds a classifier backed by cfg.Provider
// ("anthropic" or "openai"). The caller is expected to only construct
// one when cfg.Enabled is true; construction itself does not validate
// the API key against the provider.
func NewLLMClassifier(cfg config.ClassifierConfig) (*LLMClassifier, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	c := &LLMClassifier{provider: provider, model: cfg.Model}

	switch provider {
	case "anthropic":
		opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(cfg.BaseURL))
		}
		c.anthropicSDK = anthropic.NewClient(opts...)
		if c.model == "" {
			c.model = string(anthropic.ModelClaude3_7SonnetLatest)
		}
	case "openai":
		opts := []openaioption.RequestOption{openaioption.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, openaioption.WithBaseURL(cfg.BaseURL))
		}
		c.openaiSDK = openai.NewClient(opts...)
		if c.model == "" {
			c.model = "gpt-4o-mini"
		}
	default:
		return nil, fmt.Errorf("classifier: unsupported provider %q", cfg.Provider)
	}
	return c, nil
}

// Score implements Classifier by asking the configured provider to judge
// f and parsing its response as a verdict. Any parse failure degrades to
// parallel=true at zero confidence rather than propagating a hard error —
// the classifier is advisory, never load-bearing for output correctness.
func (c *LLMClassifier) Score(ctx context.Context, f Features) (bool, float64, error) {
	prompt := promptFor(f)

	var raw string
	var err error
	switch c.provider {
	case "anthropic":
		raw, err = c.scoreAnthropic(ctx, prompt)
	case "openai":
		raw, err = c.scoreOpenAI(ctx, prompt)
	default:
		return true, 0, fmt.Errorf("classifier: unsupported provider %q", c.provider)
	}
	if err != nil {
		return true, 0, err
	}

	v, perr := parseVerdict(raw)
	if perr != nil {
		return true, 0, nil
	}
	return v.Parallel, v.Confidence, nil
}

func (c *LLMClassifier) scoreAnthropic(ctx context.Context, prompt string) (string, error) {
	resp, err := c.anthropicSDK.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 128,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	return sb.String(), nil
}

func (c *LLMClassifier) scoreOpenAI(ctx context.Context, prompt string) (string, error) {
	resp, err := c.openaiSDK.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("classifier: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// promptFor renders f as a terse feature description and asks for a
// single JSON object back, matching the shape parseVerdict expects.
func promptFor(f Features) string {
	return fmt.Sprintf(
		"You are judging whether two web documents are parallel translations of "+
			"one another, given structural alignment statistics.\n"+
			"difference_ratio=%f length_correlation=%f p_value=%f n_chunks=%d "+
			"n_chunk_beads=%d n_gap_beads=%d\n"+
			"Respond with exactly one JSON object: {\"parallel\": bool, \"confidence\": 0..1}.",
		f.DifferenceRatio, f.LengthCorrelation, f.PValue, f.NChunks,
		f.NChunkBeads, f.NGapBeads,
	)
}

// parseVerdict extracts the {"parallel":...,"confidence":...} object
// from raw, tolerating surrounding prose by scanning for the outermost
// braces.
func parseVerdict(raw string) (verdict, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return verdict{}, fmt.Errorf("classifier: no JSON object in response")
	}
	var v verdict
	if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err != nil {
		return verdict{}, err
	}
	return v, nil
}
