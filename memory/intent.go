package memory

import "strings"

// intentRule pairs a category with the markers that select it.
// Rules are evaluated in order, first match wins.
type intentRule struct {
	category string
	markers  []string
}

// intentRules is the fixed classification table. Priority matters:
// "Please build a report" carries both a request and a command marker
// and classifies as a request because request rules come first after
// question rules.
var intentRules = []intentRule{
	{"question", []string{"what", "how", "why", "when", "where", "which", "?"}},
	{"request", []string{"please", "can you", "could you", "would you"}},
	{"command", []string{"do", "make", "create", "build", "generate"}},
	{"information", []string{"tell me", "explain", "describe", "show me"}},
}

// ClassifyIntent classifies a user message into one of the fixed
// categories, defaulting to "general" when no marker matches.
func ClassifyIntent(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range intentRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.category
			}
		}
	}
	return "general"
}
