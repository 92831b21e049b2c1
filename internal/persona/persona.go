// Package persona holds the read-only table of chat personas. A persona is a
// fixed system prompt plus the model parameters used with it; behaviour
// differs between personas only through those values.
package persona

import (
	"fmt"
	"sort"
	"strings"
)

// ID identifies a persona.
type ID string

// Supported personas.
const (
	Alan     ID = "alan"
	Amanda   ID = "amanda"
	Investor ID = "investor"
)

// DefaultMaxTokens is the output cap used by every persona.
const DefaultMaxTokens = 1024

// Persona is a named chat identity. Values are immutable after start-up.
type Persona struct {
	ID          ID
	DisplayName string
	Prompt      string
	Model       string
	MaxTokens   int
	Greeting    string
}

// ErrUnknown is returned by Parse and Store.Lookup for identifiers outside the table.
type ErrUnknown struct {
	Value string
}

func (e *ErrUnknown) Error() string {
	return fmt.Sprintf("unknown persona %q", e.Value)
}

// Parse validates s as a persona identifier. Matching is case-insensitive.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := defaults[id]; !ok {
		return "", &ErrUnknown{Value: s}
	}
	return id, nil
}

var defaults = map[ID]Persona{
	Alan: {
		ID:          Alan,
		DisplayName: "Alan",
		Prompt:      alanPrompt,
		Model:       "claude-sonnet-4-20250514",
		MaxTokens:   DefaultMaxTokens,
		Greeting:    "Oh hello gorgeous! 👋 I'm here to help with your Spanish villa - cleaning, pools, gardens, the LOT. What can I do for you, love?",
	},
	Amanda: {
		ID:          Amanda,
		DisplayName: "Amanda",
		Prompt:      amandaPrompt,
		Model:       "claude-sonnet-4-20250514",
		MaxTokens:   DefaultMaxTokens,
		Greeting:    "Hello darling! 💕 Welcome to VillaCare. I'm here to make sure your Spanish villa is absolutely taken care of. How can I help you today, lovely?",
	},
	Investor: {
		ID:          Investor,
		DisplayName: "VillaCare",
		Prompt:      investorPrompt,
		Model:       "claude-opus-4-5-20251101",
		MaxTokens:   DefaultMaxTokens,
		Greeting:    "Hi! I'm the VillaCare investor agent. Ask me anything about the business, market opportunity, or our expansion plans.",
	},
}

// Store is a flat lookup table from ID to Persona. The zero value is not
// usable; call Default.
type Store struct {
	personas map[ID]Persona
}

// Default returns the store with the built-in personas.
func Default() *Store {
	m := make(map[ID]Persona, len(defaults))
	for id, p := range defaults {
		m[id] = p
	}
	return &Store{personas: m}
}

// WithModel returns a copy of the store with the model of one persona
// replaced. An empty model leaves the store unchanged.
func (s *Store) WithModel(id ID, model string) (*Store, error) {
	p, ok := s.personas[id]
	if !ok {
		return nil, &ErrUnknown{Value: string(id)}
	}
	m := make(map[ID]Persona, len(s.personas))
	for k, v := range s.personas {
		m[k] = v
	}
	if model != "" {
		p.Model = model
		m[id] = p
	}
	return &Store{personas: m}, nil
}

// Lookup returns the persona for id.
func (s *Store) Lookup(id ID) (Persona, error) {
	p, ok := s.personas[id]
	if !ok {
		return Persona{}, &ErrUnknown{Value: string(id)}
	}
	return p, nil
}

// IDs returns every persona identifier in lexical order.
func (s *Store) IDs() []ID {
	ids := make([]ID, 0, len(s.personas))
	for id := range s.personas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
