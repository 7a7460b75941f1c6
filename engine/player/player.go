// Package player owns the player's bounded coherence pool and the set of
// acquired knowledge modules. All clamping happens here — callers pass
// requested magnitudes and get back the delta actually applied.
package player

import (
	"fmt"
	"sort"
)

// State is the player's resource state.
type State struct {
	coherence int
	max       int
	knowledge map[string]bool
}

// New creates a player with the given starting and maximum coherence.
func New(start, max int) *State {
	if start > max {
		start = max
	}
	if start < 0 {
		start = 0
	}
	return &State{
		coherence: start,
		max:       max,
		knowledge: map[string]bool{},
	}
}

// Coherence returns the current coherence value.
func (p *State) Coherence() int { return p.coherence }

// Max returns the coherence ceiling.
func (p *State) Max() int { return p.max }

// Alive reports whether coherence is above zero.
func (p *State) Alive() bool { return p.coherence > 0 }

// Gain raises coherence by amount, clamping at the maximum.
// Returns the amount actually added. Negative amounts are an error.
func (p *State) Gain(amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("gain amount must be non-negative, got %d", amount)
	}
	before := p.coherence
	p.coherence += amount
	if p.coherence > p.max {
		p.coherence = p.max
	}
	return p.coherence - before, nil
}

// Lose lowers coherence by amount, clamping at zero.
// Returns the amount actually subtracted. Negative amounts are an error.
func (p *State) Lose(amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("lose amount must be non-negative, got %d", amount)
	}
	before := p.coherence
	p.coherence -= amount
	if p.coherence < 0 {
		p.coherence = 0
	}
	return before - p.coherence, nil
}

// AddKnowledge inserts a knowledge module id. Returns true if the id was
// newly inserted — callers use this to decide whether to announce it.
func (p *State) AddKnowledge(id string) bool {
	if p.knowledge[id] {
		return false
	}
	p.knowledge[id] = true
	return true
}

// HasKnowledge reports whether the module has been acquired.
func (p *State) HasKnowledge(id string) bool { return p.knowledge[id] }

// KnowledgeCount returns the number of acquired modules.
func (p *State) KnowledgeCount() int { return len(p.knowledge) }

// Knowledge returns the acquired module ids in sorted order.
func (p *State) Knowledge() []string {
	ids := make([]string, 0, len(p.knowledge))
	for id := range p.knowledge {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Record is the JSON-serializable form of the player state.
type Record struct {
	Coherence    int      `json:"coherence"`
	MaxCoherence int      `json:"max_coherence"`
	Knowledge    []string `json:"knowledge_modules"`
}

// ToRecord snapshots the state for saving.
func (p *State) ToRecord() Record {
	return Record{
		Coherence:    p.coherence,
		MaxCoherence: p.max,
		Knowledge:    p.Knowledge(),
	}
}

// FromRecord rebuilds player state from a save record. Missing fields
// default rather than fail so older save files keep loading.
func FromRecord(r Record) *State {
	p := &State{
		coherence: r.Coherence,
		max:       r.MaxCoherence,
		knowledge: map[string]bool{},
	}
	if p.max <= 0 {
		p.max = p.coherence
	}
	if p.coherence > p.max {
		p.coherence = p.max
	}
	if p.coherence < 0 {
		p.coherence = 0
	}
	for _, id := range r.Knowledge {
		p.knowledge[id] = true
	}
	return p
}
