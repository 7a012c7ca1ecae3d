// Package claude is a model-backed Responder. The generation model is
// an external collaborator; this adapter only formats the enhanced
// context into a prompt and returns the model's text.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/meneportal/ltm-bridge/bridge"
)

// Config configures the Claude responder.
type Config struct {
	// Model is the Claude model identifier.
	Model string

	// MaxTokens caps the response length. Default: 1024.
	MaxTokens int64
}

// Responder generates responses with the Anthropic API.
type Responder struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

var _ bridge.Responder = (*Responder)(nil)

// New creates a Claude responder around an existing client.
func New(client *anthropic.Client, cfg Config) *Responder {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &Responder{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Respond implements bridge.Responder.
func (r *Responder) Respond(ctx context.Context, agent, query string, ectx *bridge.EnhancedContext) (string, error) {
	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: r.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(agent, ectx)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("claude returned no text content")
	}
	return text, nil
}

// systemPrompt folds the agent profile, retrieved passages and prior
// conversation summaries into one grounding prompt.
func systemPrompt(agent string, ectx *bridge.EnhancedContext) string {
	var sb strings.Builder

	if ectx.HasProfile {
		fmt.Fprintf(&sb, "You are %s, %s. Personality: %s. Specialties: %s.\n",
			ectx.Profile.Name, ectx.Profile.Role, ectx.Profile.Personality,
			strings.Join(ectx.Profile.Specialties, ", "))
	} else {
		fmt.Fprintf(&sb, "You are %s, a helpful assistant.\n", agent)
	}

	if len(ectx.Documents) > 0 {
		sb.WriteString("\nRelevant documents:\n")
		for i, doc := range ectx.Documents {
			fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, doc.Source, doc.Text)
		}
	}

	if len(ectx.Memories) > 0 {
		sb.WriteString("\nPrior conversations:\n")
		for i, m := range ectx.Memories {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, m.Summary)
		}
	}

	sb.WriteString("\nAnswer the user grounded in the context above.")
	return sb.String()
}
