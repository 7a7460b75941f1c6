// Package engine implements the game session: one object owning the
// player's resources, the quest tracker, the NPC completion registry, and
// the active conversation slot. All mutation goes through Session methods;
// the UI layers only read.
package engine

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nathoo/mindspire/engine/floor"
	"github.com/nathoo/mindspire/engine/player"
	"github.com/nathoo/mindspire/engine/quest"
	"github.com/nathoo/mindspire/engine/state"
	"github.com/nathoo/mindspire/types"
)

// Session is the complete mutable game state plus its immutable inputs.
type Session struct {
	Defs   *state.Defs
	Diff   types.Difficulty
	Player *player.State
	Quest  *quest.Tracker
	RNG    *RNG

	Floor int
	Pos   types.Point

	// Conversations holds per-NPC dialogue state, keyed by NPC id. The
	// question draw happens once, in New, and is never mutated after.
	Conversations map[string]*types.Conversation
	Completed     map[string]bool
	Opinions      map[string]int

	// active is the NPC id of the open conversation, "" when none.
	// Checked once at the entry of each answer operation.
	active string

	bonusAwarded bool
	won          bool
	over         bool

	log zerolog.Logger
}

// New creates a session from definitions and difficulty. The question
// sequence for every conversational NPC is drawn here, deterministically
// from the seed: NPCs are visited in sorted id order, so the same seed
// always yields the same draw (save files rely on this).
func New(defs *state.Defs, diff types.Difficulty, seed int64, log zerolog.Logger) *Session {
	s := &Session{
		Defs:          defs,
		Diff:          diff,
		Player:        player.New(diff.StartCoherence, diff.MaxCoherence),
		RNG:           NewRNG(seed),
		Floor:         defs.Game.StartFloor,
		Conversations: map[string]*types.Conversation{},
		Completed:     map[string]bool{},
		Opinions:      map[string]int{},
		log:           log,
	}
	s.Pos = defs.StartPos(s.Floor)

	var questTargets []string
	for _, id := range sortedNPCIDs(defs) {
		npc := defs.NPCs[id]
		if categoryIn(npc.Category, diff.QuestCategories) {
			questTargets = append(questTargets, id)
		}
		if !conversational(npc.Category) || len(npc.Questions) == 0 {
			continue
		}
		s.Conversations[id] = &types.Conversation{
			NPCID:     id,
			Questions: s.drawQuestions(npc),
		}
	}
	s.Quest = quest.New(questTargets, diff.QuestBonus)

	return s
}

// drawQuestions shuffles the NPC's question pool and takes this session's
// count: the fixed boss count for bosses, otherwise a value in the
// configured range. Counts clamp to the pool size.
func (s *Session) drawQuestions(npc types.NPCDef) []string {
	pool := make([]string, len(npc.Questions))
	copy(pool, npc.Questions)
	s.RNG.Shuffle(pool)

	n := s.RNG.Between(s.Diff.QuestionsMin, s.Diff.QuestionsMax)
	if npc.Category == types.CategoryBoss {
		n = s.Diff.BossQuestions
	}
	if n > len(pool) {
		n = len(pool)
	}
	if n < 1 {
		n = 1
	}
	return pool[:n]
}

// conversational reports whether NPCs of this category quiz the player.
func conversational(c types.Category) bool {
	switch c {
	case types.CategorySpecialist, types.CategoryEnemy, types.CategoryBoss:
		return true
	}
	return false
}

// BonusAwarded reports whether the quest completion bonus has been paid.
func (s *Session) BonusAwarded() bool { return s.bonusAwarded }

// SetBonusAwarded restores the bonus-paid flag from a save.
func (s *Session) SetBonusAwarded(v bool) { s.bonusAwarded = v }

// GameOver reports whether coherence collapse ended the session.
func (s *Session) GameOver() bool { return s.over }

// GameWon reports whether the victory condition has been met.
func (s *Session) GameWon() bool { return s.won }

// Active returns the NPC id of the open conversation, if any.
func (s *Session) Active() (string, bool) {
	return s.active, s.active != ""
}

// CurrentQuestion returns the question at the active conversation's cursor.
func (s *Session) CurrentQuestion() (types.Question, bool) {
	if s.active == "" {
		return types.Question{}, false
	}
	conv := s.Conversations[s.active]
	if conv == nil || conv.Completed || conv.Cursor >= len(conv.Questions) {
		return types.Question{}, false
	}
	return s.Defs.Questions[conv.Questions[conv.Cursor]], true
}

// EndConversation closes the active conversation without resolving it.
// Cursor and completion state persist; talking again resumes in place.
func (s *Session) EndConversation() {
	s.active = ""
}

// Move shifts the player by one tile if the destination is walkable and
// unoccupied. Returns whether the player actually moved.
func (s *Session) Move(dx, dy int) bool {
	if s.over || s.won || s.active != "" {
		return false
	}
	dest := types.Point{X: s.Pos.X + dx, Y: s.Pos.Y + dy}
	if !s.Defs.Walkable(s.Floor, dest) || s.occupied(dest) {
		return false
	}
	s.Pos = dest
	return true
}

// occupied reports whether an NPC or terminal stands on the tile.
func (s *Session) occupied(p types.Point) bool {
	for _, id := range s.Defs.NPCsOnFloor(s.Floor) {
		if s.Defs.NPCs[id].Pos == p {
			return true
		}
	}
	for _, id := range s.Defs.TerminalsOnFloor(s.Floor) {
		if s.Defs.Terminals[id].Pos == p {
			return true
		}
	}
	return false
}

// Interact resolves the closest interactable within reach and acts on it:
// terminals display their text, helpers restore coherence once, quest
// givers drive the quest tracker, and conversational NPCs open their
// conversation. Already-completed NPCs return flavor only.
func (s *Session) Interact() types.InteractionResult {
	if s.over || s.won {
		return types.InteractionResult{Message: "The tower is silent."}
	}

	var npcs, terminals []floor.Candidate
	for _, id := range s.Defs.NPCsOnFloor(s.Floor) {
		npcs = append(npcs, floor.Candidate{ID: id, Pos: s.Defs.NPCs[id].Pos})
	}
	for _, id := range s.Defs.TerminalsOnFloor(s.Floor) {
		terminals = append(terminals, floor.Candidate{ID: id, Pos: s.Defs.Terminals[id].Pos})
	}

	target, ok := floor.Closest(s.Pos, npcs, terminals, s.Defs.StairsAt(s.Floor))
	if !ok {
		return types.InteractionResult{Message: "There is nothing here to interact with."}
	}

	switch target.Kind {
	case floor.TargetTerminal:
		term := s.Defs.Terminals[target.ID]
		s.log.Debug().Str("terminal", target.ID).Msg("terminal read")
		return types.InteractionResult{
			Success: true,
			Kind:    types.InteractTerminal,
			Message: term.Text,
		}
	case floor.TargetStairs:
		return types.InteractionResult{
			Success: true,
			Message: "A stairwell spirals upward. (press > to climb)",
		}
	default:
		return s.interactNPC(target.ID)
	}
}

func (s *Session) interactNPC(npcID string) types.InteractionResult {
	npc := s.Defs.NPCs[npcID]

	if s.Completed[npcID] && npc.Category != types.CategoryQuest {
		msg := npc.Flavor
		if msg == "" {
			msg = fmt.Sprintf("%s nods at you, satisfied.", npc.Name)
		}
		return types.InteractionResult{Success: true, Kind: types.InteractFlavor, Message: msg}
	}

	switch npc.Category {
	case types.CategoryHelper:
		gained, _ := s.Player.Gain(s.Diff.HelperRestore)
		s.Completed[npcID] = true
		s.log.Debug().Str("npc", npcID).Int("restored", gained).Msg("helper interaction")
		return types.InteractionResult{
			Success: true,
			Kind:    types.InteractHelper,
			Message: fmt.Sprintf("%s: %s (+%d coherence)", npc.Name, npc.Greeting, gained),
		}

	case types.CategoryQuest:
		return s.interactQuestGiver(npc)

	default:
		// Specialist, enemy, boss: open the conversation.
		conv := s.Conversations[npcID]
		if conv == nil {
			return types.InteractionResult{
				Success: true,
				Kind:    types.InteractFlavor,
				Message: fmt.Sprintf("%s has nothing to ask you.", npc.Name),
			}
		}
		s.active = npcID
		s.log.Debug().Str("npc", npcID).Int("cursor", conv.Cursor).Msg("conversation opened")
		return types.InteractionResult{
			Success: true,
			Kind:    types.InteractConversation,
			NPCID:   npcID,
			Message: fmt.Sprintf("%s: %s", npc.Name, npc.Greeting),
		}
	}
}

func (s *Session) interactQuestGiver(npc types.NPCDef) types.InteractionResult {
	if s.Quest.Activate() {
		s.Completed[npc.ID] = true
		names := s.npcNames(s.Quest.Remaining())
		msg := fmt.Sprintf("%s: %s", npc.Name, npc.Greeting)
		if len(names) > 0 {
			msg += fmt.Sprintf(" (Seek out: %s)", strings.Join(names, ", "))
		}
		return types.InteractionResult{Success: true, Kind: types.InteractQuest, Message: msg}
	}

	if s.Quest.Complete() && !s.bonusAwarded {
		s.bonusAwarded = true
		gained, _ := s.Player.Gain(s.Quest.Bonus())
		return types.InteractionResult{
			Success: true,
			Kind:    types.InteractQuest,
			Message: fmt.Sprintf("%s: You found them all. (+%d coherence)", npc.Name, gained),
		}
	}

	if s.Quest.Complete() {
		return types.InteractionResult{
			Success: true,
			Kind:    types.InteractFlavor,
			Message: fmt.Sprintf("%s waves. Nothing more is asked of you.", npc.Name),
		}
	}

	names := s.npcNames(s.Quest.Remaining())
	return types.InteractionResult{
		Success: true,
		Kind:    types.InteractQuest,
		Message: fmt.Sprintf("%s: Still waiting on %s.", npc.Name, strings.Join(names, ", ")),
	}
}

// UseStairs attempts the floor transition. Ascending requires standing at
// a stairwell and having completed every NPC in the floor's required set.
func (s *Session) UseStairs() types.StairsResult {
	if s.over || s.won {
		return types.StairsResult{Message: "The tower is silent."}
	}
	if s.active != "" {
		return types.StairsResult{Message: "You are in the middle of a conversation."}
	}

	stairs := s.Defs.StairsAt(s.Floor)
	if !floor.OnStairs(s.Pos, stairs) {
		return types.StairsResult{Message: "You are not at the stairwell."}
	}

	fd, _ := s.Defs.Floor(s.Floor)
	if missing := floor.MissingRequirements(fd.Required, s.Completed); len(missing) > 0 {
		return types.StairsResult{
			Message: fmt.Sprintf("The stairwell hums and resists. You still need: %s.",
				strings.Join(s.npcNames(missing), ", ")),
		}
	}

	next := s.Floor + 1
	if _, ok := s.Defs.Floor(next); !ok {
		return types.StairsResult{Message: "The stairs lead nowhere."}
	}

	s.Floor = next
	s.Pos = s.Defs.StartPos(next)
	s.log.Info().Int("floor", next).Msg("floor ascended")
	return types.StairsResult{
		Success:      true,
		FloorChanged: true,
		NewFloor:     next,
		Message:      fmt.Sprintf("You climb to floor %d.", next),
	}
}

// npcNames maps NPC ids to display names.
func (s *Session) npcNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, s.Defs.NPCName(id))
	}
	return names
}

func sortedNPCIDs(defs *state.Defs) []string {
	// NPCsOnFloor already sorts per floor; collect across all floors in
	// floor order so the draw order is stable.
	var ids []string
	seen := map[string]bool{}
	for f := 0; f <= defs.MaxFloor(); f++ {
		for _, id := range defs.NPCsOnFloor(f) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func categoryIn(c types.Category, list []types.Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}
