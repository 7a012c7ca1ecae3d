// Package agents holds the static profile table for the named
// conversational agents. The roster is built once at startup and is
// read-only afterwards.
package agents

import (
	"sort"
	"strings"
)

// Profile describes one agent.
type Profile struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Personality string   `json:"personality"`
	Specialties []string `json:"specialties"`
}

// Roster is an immutable lookup table keyed by lowercase agent name.
type Roster struct {
	profiles map[string]Profile
}

// NewRoster builds a roster from profiles. Names are lowercased for
// lookup; later duplicates win.
func NewRoster(profiles ...Profile) *Roster {
	table := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		table[strings.ToLower(p.Name)] = p
	}
	return &Roster{profiles: table}
}

// DefaultRoster returns the built-in agent profiles.
func DefaultRoster() *Roster {
	return NewRoster(
		Profile{
			Name:        "mene",
			Role:        "Master Orchestrator & User-Facing Assistant",
			Personality: "Intelligent, supportive, strategic",
			Specialties: []string{"orchestration", "user_interaction", "strategic_planning"},
		},
		Profile{
			Name:        "bonny",
			Role:        "Research Specialist & Botanical Scientist",
			Personality: "Curious, thorough, scientific",
			Specialties: []string{"research", "botanical_science", "data_analysis"},
		},
	)
}

// Get looks up a profile by name, case-insensitively. A missing
// profile yields an empty Profile and false, never an error.
func (r *Roster) Get(name string) (Profile, bool) {
	p, ok := r.profiles[strings.ToLower(name)]
	return p, ok
}

// List returns all profiles sorted by name.
func (r *Roster) List() []Profile {
	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
