// Package quest tracks the find-the-specialists objective: a fixed target
// set of NPC ids and the growing subset already satisfied.
package quest

import "sort"

// Tracker owns the quest objective state.
type Tracker struct {
	targets   map[string]bool
	completed map[string]bool
	active    bool
	bonus     int
}

// New creates a tracker for the given target NPC ids and completion bonus.
func New(targets []string, bonus int) *Tracker {
	t := &Tracker{
		targets:   map[string]bool{},
		completed: map[string]bool{},
		bonus:     bonus,
	}
	for _, id := range targets {
		t.targets[id] = true
	}
	return t
}

// Activate marks the quest active. Returns false if it already was.
func (t *Tracker) Activate() bool {
	if t.active {
		return false
	}
	t.active = true
	return true
}

// Active reports whether the quest has been activated.
func (t *Tracker) Active() bool { return t.active }

// CompleteObjective records an NPC as satisfied. Re-completing an NPC is a
// no-op. Returns whether the whole quest became complete as a result.
func (t *Tracker) CompleteObjective(npcID string) bool {
	if t.completed[npcID] {
		return false
	}
	wasComplete := t.Complete()
	t.completed[npcID] = true
	return !wasComplete && t.Complete()
}

// Complete reports whether every target is in the completed set. Completed
// NPCs outside the target set are harmless and ignored.
func (t *Tracker) Complete() bool {
	for id := range t.targets {
		if !t.completed[id] {
			return false
		}
	}
	return true
}

// Remaining returns the still-outstanding target ids, sorted.
func (t *Tracker) Remaining() []string {
	var out []string
	for id := range t.targets {
		if !t.completed[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Bonus returns the configured reward if the quest is complete, else 0.
func (t *Tracker) Bonus() int {
	if t.Complete() {
		return t.bonus
	}
	return 0
}

// Record is the JSON-serializable form of the quest state.
type Record struct {
	Active    bool     `json:"active"`
	Completed []string `json:"completed"`
}

// ToRecord snapshots the quest state. Targets and bonus are configuration,
// not state, so they are not persisted.
func (t *Tracker) ToRecord() Record {
	ids := make([]string, 0, len(t.completed))
	for id := range t.completed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return Record{Active: t.active, Completed: ids}
}

// ApplyRecord restores persisted quest state onto a configured tracker.
// Missing fields default: a zero Record leaves the tracker fresh.
func (t *Tracker) ApplyRecord(r Record) {
	t.active = r.Active
	t.completed = map[string]bool{}
	for _, id := range r.Completed {
		t.completed[id] = true
	}
}
