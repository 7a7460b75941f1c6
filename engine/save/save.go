// Package save implements JSON serialization and deserialization of the
// session state. Every consumer defaults missing keys so older save files
// keep loading.
package save

import (
	"encoding/json"
	"sort"

	"github.com/nathoo/mindspire/engine"
	"github.com/nathoo/mindspire/engine/player"
	"github.com/nathoo/mindspire/engine/quest"
	"github.com/nathoo/mindspire/types"
)

// ConvRecord is the persisted slice of one conversation: only what can't
// be rebuilt from the seed.
type ConvRecord struct {
	Completed bool `json:"completed"`
	Cursor    int  `json:"current_question_idx"`
}

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version       string                `json:"version"`
	Game          string                `json:"game"`
	Floor         int                   `json:"floor"`
	Pos           types.Point           `json:"pos"`
	Player        player.Record         `json:"player"`
	Quest         quest.Record          `json:"quest"`
	BonusAwarded  bool                  `json:"bonus_awarded"`
	Completed     []string              `json:"completed_npcs"`
	Conversations map[string]ConvRecord `json:"conversations"`
	Opinions      map[string]int        `json:"opinions"`
	RNGSeed       int64                 `json:"rng_seed"`
	RNGPosition   int64                 `json:"rng_position"`
}

// Capture serializes the session to JSON bytes.
func Capture(s *engine.Session) ([]byte, error) {
	data := SaveData{
		Version:       s.Defs.Game.Version,
		Game:          s.Defs.Game.Title,
		Floor:         s.Floor,
		Pos:           s.Pos,
		Player:        s.Player.ToRecord(),
		Quest:         s.Quest.ToRecord(),
		BonusAwarded:  s.BonusAwarded(),
		Completed:     sortedKeys(s.Completed),
		Conversations: map[string]ConvRecord{},
		Opinions:      s.Opinions,
		RNGSeed:       s.RNG.Seed(),
		RNGPosition:   s.RNG.Position(),
	}
	for id, conv := range s.Conversations {
		data.Conversations[id] = ConvRecord{Completed: conv.Completed, Cursor: conv.Cursor}
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData, defaulting nil maps and
// slices so callers never see them.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Conversations == nil {
		sd.Conversations = map[string]ConvRecord{}
	}
	if sd.Opinions == nil {
		sd.Opinions = map[string]int{}
	}
	if sd.Completed == nil {
		sd.Completed = []string{}
	}
	return &sd, nil
}

// Apply restores loaded save data onto a session. The session must have
// been constructed with the save's RNG seed so the question draw matches;
// Apply then overlays the persisted cursor and completion state.
func Apply(s *engine.Session, sd *SaveData) {
	s.Floor = sd.Floor
	s.Pos = sd.Pos
	s.Player = player.FromRecord(sd.Player)
	s.Quest.ApplyRecord(sd.Quest)
	s.SetBonusAwarded(sd.BonusAwarded)
	s.Opinions = sd.Opinions

	s.Completed = map[string]bool{}
	for _, id := range sd.Completed {
		s.Completed[id] = true
	}

	for id, cr := range sd.Conversations {
		conv, ok := s.Conversations[id]
		if !ok {
			continue // NPC no longer defined; stale entry is harmless
		}
		conv.Completed = cr.Completed
		conv.Cursor = cr.Cursor
		if conv.Cursor < 0 {
			conv.Cursor = 0
		}
		// A save written under a different draw config can carry a cursor
		// past this session's question count. Clamping alone would leave a
		// conversation that indexes past its questions when re-opened, so
		// a cursor at the count always means completed.
		if conv.Cursor >= len(conv.Questions) {
			conv.Cursor = len(conv.Questions)
			conv.Completed = true
		}
	}

	s.EndConversation()
	s.RNG = engine.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Keep the save file diffable.
	sort.Strings(out)
	return out
}
