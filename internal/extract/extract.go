// Package extract turns source material into queck quizzes with an
// OpenAI-compatible model. Responses are decoded leniently, repaired
// where choice lists allow it, and re-validated strictly before they
// reach the caller.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/extract/prompts"
	"github.com/queckhq/queck/internal/queck"
)

// Options tune one extraction run.
type Options struct {
	// ForceSingleSelect turns choice lists with exactly one correct
	// choice into single select even when the model tagged them multiple
	// select.
	ForceSingleSelect bool
	// Extra holds additional instructions appended to the prompt.
	Extra string
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates an extraction client. baseURL may be empty for the
// default OpenAI endpoint.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Extract pulls every question out of the given material into a quiz.
func (c *Client) Extract(ctx context.Context, text string, opts Options) (*queck.Queck, error) {
	user, err := prompts.Extraction(prompts.ExtractionData{Text: text, Extra: opts.Extra})
	if err != nil {
		return nil, err
	}
	return c.complete(ctx, user, opts)
}

// Generate writes a new quiz from a free-form request.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (*queck.Queck, error) {
	return c.complete(ctx, prompt, opts)
}

func (c *Client) complete(ctx context.Context, user string, opts Options) (*queck.Queck, error) {
	system, err := prompts.System()
	if err != nil {
		return nil, err
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}
	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)
	return Decode(raw, opts)
}

// codeFencePattern matches a JSON object optionally wrapped in a
// markdown code fence.
var codeFencePattern = regexp.MustCompile("(?s)^(?:```[^\n]*\n)?(\\{.*\\})(?:\n```)?")

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFencePattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// Decode turns a raw model response into a validated quiz. The response
// may be wrapped in a code fence. Choice lists are repaired where
// possible, then the quiz is serialized and re-loaded without repair
// flags so the result is guaranteed to be a valid document.
func Decode(raw string, opts Options) (*queck.Queck, error) {
	content := stripCodeFence(raw)
	q, err := queck.LoadNotebook([]byte(content), answer.Context{
		IgnoreNCorrect:    true,
		FixMultipleSelect: true,
		ForceSingleSelect: opts.ForceSingleSelect,
	})
	if err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, content)
	}
	data, err := queck.Dump(q, queck.DumpOptions{})
	if err != nil {
		return nil, fmt.Errorf("serializing extracted quiz: %w", err)
	}
	strict, err := queck.Load(data, answer.Context{})
	if err != nil {
		return nil, fmt.Errorf("extracted quiz failed validation: %w", err)
	}
	return strict, nil
}
