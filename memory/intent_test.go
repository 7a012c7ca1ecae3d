package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meneportal/ltm-bridge/memory"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"What time is it?", "question"},
		{"how does photosynthesis work", "question"},
		{"Is this thing on?", "question"},
		{"Please send the summary", "request"},
		{"could you pull the latest figures", "request"},
		{"generate the quarterly chart", "command"},
		{"tell me about the greenhouse", "information"},
		{"good morning", "general"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, memory.ClassifyIntent(tt.message), "message: %q", tt.message)
	}
}

func TestClassifyIntent_PriorityOrder(t *testing.T) {
	// Carries both a request marker ("please") and a command marker
	// ("build"); the request rule is checked first and wins.
	assert.Equal(t, "request", memory.ClassifyIntent("Please build a report"))

	// A question marker beats a politeness marker.
	assert.Equal(t, "question", memory.ClassifyIntent("What should I do, please?"))
}
