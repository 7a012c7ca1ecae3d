package bridge

import (
	"context"
	"fmt"
	"strings"
)

// Responder turns the enhanced context into a response string.
// The default implementation is deterministic; model-backed
// implementations live behind the same boundary.
type Responder interface {
	Respond(ctx context.Context, agent, query string, ectx *EnhancedContext) (string, error)
}

// TemplateResponder assembles a deterministic response: a
// profile-flavored opener, clauses acknowledging retrieved documents
// and prior conversations when present, and a restatement of the query.
type TemplateResponder struct{}

// Respond implements Responder. It never fails.
func (TemplateResponder) Respond(ctx context.Context, agent, query string, ectx *EnhancedContext) (string, error) {
	var sb strings.Builder

	if ectx.HasProfile {
		sb.WriteString(fmt.Sprintf("Hello! I'm %s, your %s. With my %s nature,",
			ectx.Profile.Name, strings.ToLower(ectx.Profile.Role), strings.ToLower(ectx.Profile.Personality)))
	} else {
		sb.WriteString(fmt.Sprintf("Hi! I'm %s.", agent))
	}

	if len(ectx.Documents) > 0 {
		sb.WriteString(" Based on relevant documents I found,")
	}
	if len(ectx.Memories) > 0 {
		sb.WriteString(" Considering our previous conversations,")
	}

	sb.WriteString(fmt.Sprintf(" I understand you're asking: %q. Let me provide you with a comprehensive response.", query))
	return sb.String(), nil
}
