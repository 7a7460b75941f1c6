package engine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nathoo/mindspire/engine/state"
	"github.com/nathoo/mindspire/types"
)

func mcQuestion(id string) types.Question {
	return types.Question{
		ID:    id,
		Kind:  types.KindMultipleChoice,
		Topic: "data_structures",
		Text:  "Which structure is FIFO?",
		Choices: []types.Choice{
			{Text: "Queue", Correct: true, Response: "A queue it is.", Knowledge: "fifo"},
			{Text: "Stack", Correct: false, Response: "A stack is LIFO.", Penalty: 2},
		},
	}
}

func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:      "Test Tower",
			Version:    "0.1.0",
			StartFloor: 1,
			Bosses:     []string{"overmind"},
		},
		Floors: map[int]types.FloorDef{
			1: {
				Number: 1,
				Layout: []string{
					"#############",
					"#@..........#",
					"#...........#",
					"#...........#",
					"#...........#",
					"#...........#",
					"#..........>#",
					"#############",
				},
				Required: []string{"ada"},
			},
			2: {
				Number: 2,
				Layout: []string{
					"#####",
					"#@..#",
					"#####",
				},
				Final: true,
			},
		},
		NPCs: map[string]types.NPCDef{
			"ada": {
				ID: "ada", Name: "Ada", Category: types.CategorySpecialist,
				Floor: 1, Pos: types.Point{X: 11, Y: 1},
				Greeting:  "Let us talk structures.",
				Questions: []string{"q1", "q2"},
			},
			"glitch": {
				ID: "glitch", Name: "The Glitch", Category: types.CategoryEnemy,
				Floor: 1, Pos: types.Point{X: 6, Y: 1},
				Greeting:  "Wrong answers cost you here.",
				Questions: []string{"e1", "e2"},
			},
			"medic": {
				ID: "medic", Name: "Medic", Category: types.CategoryHelper,
				Floor: 1, Pos: types.Point{X: 1, Y: 4},
				Greeting: "Let me patch you up.",
			},
			"archivist": {
				ID: "archivist", Name: "Archivist", Category: types.CategoryQuest,
				Floor: 1, Pos: types.Point{X: 6, Y: 4},
				Greeting: "Find the specialists.",
			},
			"sage": {
				ID: "sage", Name: "Sage", Category: types.CategorySpecialist,
				Floor: 1, Pos: types.Point{X: 11, Y: 4},
				Greeting:  "Complexity is everything.",
				Questions: []string{"qb", "qn"},
			},
			"overmind": {
				ID: "overmind", Name: "Overmind", Category: types.CategoryBoss,
				Floor: 2, Pos: types.Point{X: 2, Y: 1},
				Greeting:  "One final question.",
				Questions: []string{"b1", "b2"},
			},
		},
		Terminals: map[string]types.TerminalDef{
			"term1": {
				ID: "term1", Floor: 1, Pos: types.Point{X: 1, Y: 6},
				Text: "LOG 0x1F: the tower remembers.",
			},
		},
		Questions: map[string]types.Question{
			"q1": mcQuestion("q1"),
			"q2": mcQuestion("q2"),
			"e1": mcQuestion("e1"),
			"e2": mcQuestion("e2"),
			"b1": mcQuestion("b1"),
			"b2": mcQuestion("b2"),
			"qb": {
				ID: "qb", Kind: types.KindShortAnswer, Topic: "complexity",
				Text:   "Time complexity of binary search?",
				Accept: "O(logn)|logarithmic", Mode: types.MatchComplexity,
				CorrectText: "Sharp.", IncorrectText: "Think halves.",
				Knowledge: "binary_search",
			},
			"qn": {
				ID: "qn", Kind: types.KindShortAnswer, Topic: "math",
				Text:   "Approximate value of pi?",
				Accept: "3.14159", Mode: types.MatchNumeric,
				CorrectText: "Close enough.", IncorrectText: "Not even close.",
			},
		},
	}
}

func testDiff() types.Difficulty {
	return types.Difficulty{
		StartCoherence:    20,
		MaxCoherence:      30,
		CorrectGain:       5,
		WrongPenalty:      5,
		EnemyWrongPenalty: 10,
		QuestionsMin:      2,
		QuestionsMax:      2,
		BossQuestions:     1,
		HelperRestore:     10,
		QuestBonus:        25,
		QuestCategories:   []types.Category{types.CategorySpecialist},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return New(testDefs(), testDiff(), 7, zerolog.Nop())
}

// talkTo teleports the player next to the NPC and opens its conversation.
func talkTo(t *testing.T, s *Session, npcID string) {
	t.Helper()
	npc := s.Defs.NPCs[npcID]
	s.Pos = types.Point{X: npc.Pos.X - 1, Y: npc.Pos.Y}
	res := s.Interact()
	if res.Kind != types.InteractConversation || res.NPCID != npcID {
		t.Fatalf("expected conversation with %s, got %+v", npcID, res)
	}
}

func TestNew_QuestionDrawIsDeterministic(t *testing.T) {
	a := New(testDefs(), testDiff(), 42, zerolog.Nop())
	b := New(testDefs(), testDiff(), 42, zerolog.Nop())

	for id, conv := range a.Conversations {
		if !reflect.DeepEqual(conv.Questions, b.Conversations[id].Questions) {
			t.Errorf("draw for %s differs between sessions with same seed", id)
		}
	}
}

func TestNew_BossGetsFixedQuestionCount(t *testing.T) {
	s := newTestSession(t)

	if got := len(s.Conversations["overmind"].Questions); got != 1 {
		t.Errorf("boss question count = %d, want 1", got)
	}
	if got := len(s.Conversations["ada"].Questions); got != 2 {
		t.Errorf("specialist question count = %d, want 2", got)
	}
}

func TestAnswerChoice_NotInConversation(t *testing.T) {
	s := newTestSession(t)

	res := s.AnswerChoice(0)
	if res.Accepted {
		t.Error("expected rejection outside a conversation")
	}
	if !strings.Contains(res.Message, "not in a conversation") {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestAnswerChoice_InvalidIndex(t *testing.T) {
	s := newTestSession(t)
	talkTo(t, s, "ada")

	before := s.Conversations["ada"].Cursor
	res := s.AnswerChoice(5)
	if res.Accepted {
		t.Error("out-of-bounds index should be rejected")
	}
	if !strings.Contains(res.Message, "Invalid answer choice") {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if s.Conversations["ada"].Cursor != before {
		t.Error("invalid choice must not advance the cursor")
	}
}

func TestAnswerChoice_CorrectAdvancesAndCompletes(t *testing.T) {
	s := newTestSession(t)
	talkTo(t, s, "ada")

	first := s.AnswerChoice(0)
	if !first.Accepted || first.Done {
		t.Fatalf("first answer = %+v, want accepted and not done", first)
	}
	if got := s.Conversations["ada"].Cursor; got != 1 {
		t.Errorf("cursor after first answer = %d, want 1", got)
	}
	if s.Player.Coherence() != 25 {
		t.Errorf("coherence = %d, want 25", s.Player.Coherence())
	}

	second := s.AnswerChoice(0)
	if !second.Accepted || !second.Done {
		t.Fatalf("second answer = %+v, want accepted and done", second)
	}
	if !strings.Contains(second.Message, "no more questions") {
		t.Errorf("completion message missing, got %q", second.Message)
	}
	if !s.Conversations["ada"].Completed {
		t.Error("conversation should be completed")
	}
	if !s.Completed["ada"] {
		t.Error("ada should be in the completed registry")
	}
	if _, open := s.Active(); open {
		t.Error("conversation should be closed after completion")
	}
	if s.Opinions["ada"] != 2 {
		t.Errorf("opinion = %d, want 2", s.Opinions["ada"])
	}
}

func TestAnswerChoice_WrongDoesNotAdvance(t *testing.T) {
	s := newTestSession(t)
	talkTo(t, s, "ada")

	res := s.AnswerChoice(1)
	if res.Accepted {
		t.Error("wrong answer should not be accepted")
	}
	if got := s.Conversations["ada"].Cursor; got != 0 {
		t.Errorf("cursor after wrong answer = %d, want 0", got)
	}
	if s.Player.Coherence() != 15 {
		t.Errorf("coherence = %d, want 15 (normal penalty)", s.Player.Coherence())
	}
	if s.Opinions["ada"] != -1 {
		t.Errorf("opinion = %d, want -1", s.Opinions["ada"])
	}

	// Same question is still active.
	q, ok := s.CurrentQuestion()
	if !ok || q.ID != s.Conversations["ada"].Questions[0] {
		t.Error("the same question should remain active after a wrong answer")
	}
}

func TestAnswerChoice_EnemyPenalty(t *testing.T) {
	s := newTestSession(t)
	talkTo(t, s, "glitch")

	s.AnswerChoice(1)
	// Enemy penalty 10 plus the choice's hostile penalty 2.
	if s.Player.Coherence() != 8 {
		t.Errorf("coherence = %d, want 8 (enemy penalty + choice penalty)", s.Player.Coherence())
	}
}

func TestAnswerText_WrongQuestionType(t *testing.T) {
	s := newTestSession(t)
	talkTo(t, s, "ada")

	res := s.AnswerText("queue")
	if res.Accepted {
		t.Error("typed answer to a multiple-choice question should be rejected")
	}
	if s.Conversations["ada"].Cursor != 0 {
		t.Error("type mismatch must not advance the cursor")
	}
}

func TestAnswerText_MatchModes(t *testing.T) {
	s := newTestSession(t)
	talkTo(t, s, "sage")

	answers := map[string]string{
		"qb": "O(log n)",
		"qn": "3.14",
	}
	for i := 0; i < 2; i++ {
		q, ok := s.CurrentQuestion()
		if !ok {
			t.Fatalf("no current question at step %d", i)
		}
		res := s.AnswerText(answers[q.ID])
		if !res.Accepted {
			t.Fatalf("answer %q to %s not accepted: %q", answers[q.ID], q.ID, res.Message)
		}
	}
	if !s.Conversations["sage"].Completed {
		t.Error("sage conversation should be completed")
	}
}

func TestAnswerText_KnowledgeGrantedOnce(t *testing.T) {
	s := newTestSession(t)
	talkTo(t, s, "ada")

	res := s.AnswerChoice(0)
	if !res.NewKnow {
		t.Error("first correct answer should grant new knowledge")
	}
	res = s.AnswerChoice(0)
	if res.NewKnow {
		t.Error("same knowledge module should not be granted twice")
	}
	if s.Player.KnowledgeCount() != 1 {
		t.Errorf("knowledge count = %d, want 1", s.Player.KnowledgeCount())
	}
}

func TestCoherenceCollapse_TearsDownConversation(t *testing.T) {
	diff := testDiff()
	diff.StartCoherence = 10
	s := New(testDefs(), diff, 7, zerolog.Nop())
	talkTo(t, s, "glitch")

	// One wrong answer: 10 enemy penalty drains 10 exactly.
	res := s.AnswerChoice(1)
	if !res.GameOver {
		t.Fatal("expected game over on coherence collapse")
	}
	if !s.GameOver() {
		t.Error("session should be over")
	}
	if _, open := s.Active(); open {
		t.Error("conversation must be torn down on collapse")
	}

	after := s.AnswerChoice(0)
	if after.Accepted {
		t.Error("no answers should be possible after collapse")
	}
}

func TestInteract_Terminal(t *testing.T) {
	s := newTestSession(t)
	s.Pos = types.Point{X: 2, Y: 6} // beside term1

	res := s.Interact()
	if res.Kind != types.InteractTerminal {
		t.Fatalf("expected terminal interaction, got %+v", res)
	}
	if !strings.Contains(res.Message, "tower remembers") {
		t.Errorf("terminal text missing: %q", res.Message)
	}
}

func TestInteract_HelperRestoresOnce(t *testing.T) {
	s := newTestSession(t)
	s.Player.Lose(15) // down to 5
	npc := s.Defs.NPCs["medic"]
	s.Pos = types.Point{X: npc.Pos.X + 1, Y: npc.Pos.Y}

	res := s.Interact()
	if res.Kind != types.InteractHelper {
		t.Fatalf("expected helper interaction, got %+v", res)
	}
	if s.Player.Coherence() != 15 {
		t.Errorf("coherence = %d, want 15", s.Player.Coherence())
	}

	// Second contact is flavor only.
	res = s.Interact()
	if res.Kind != types.InteractFlavor {
		t.Errorf("repeat helper contact should be flavor, got %+v", res)
	}
	if s.Player.Coherence() != 15 {
		t.Error("repeat helper contact must not restore again")
	}
}

func TestInteract_QuestGiverFlow(t *testing.T) {
	s := newTestSession(t)
	npc := s.Defs.NPCs["archivist"]
	s.Pos = types.Point{X: npc.Pos.X + 1, Y: npc.Pos.Y}

	res := s.Interact()
	if res.Kind != types.InteractQuest || !s.Quest.Active() {
		t.Fatalf("first contact should activate the quest, got %+v", res)
	}

	// Repeat contact with objectives outstanding reports the remaining names.
	res = s.Interact()
	if !strings.Contains(res.Message, "Ada") || !strings.Contains(res.Message, "Sage") {
		t.Errorf("expected remaining specialists listed, got %q", res.Message)
	}

	// Complete both specialists, then collect the bonus.
	s.Quest.CompleteObjective("ada")
	s.Quest.CompleteObjective("sage")
	before := s.Player.Coherence()
	res = s.Interact()
	if !strings.Contains(res.Message, "found them all") {
		t.Errorf("expected bonus message, got %q", res.Message)
	}
	if s.Player.Coherence() <= before && before < s.Player.Max() {
		t.Error("bonus should raise coherence")
	}

	// The bonus pays out only once.
	s.Player.Lose(5)
	mid := s.Player.Coherence()
	s.Interact()
	if s.Player.Coherence() != mid {
		t.Error("bonus must not be paid twice")
	}
}

func TestUseStairs_GatedOnRequiredNPCs(t *testing.T) {
	s := newTestSession(t)
	s.Pos = types.Point{X: 11, Y: 6} // on the stairs

	res := s.UseStairs()
	if res.Success {
		t.Fatal("stairs should be gated while ada is incomplete")
	}
	if !strings.Contains(res.Message, "Ada") {
		t.Errorf("gate message should name the missing NPC, got %q", res.Message)
	}

	s.Completed["ada"] = true
	res = s.UseStairs()
	if !res.Success || !res.FloorChanged || res.NewFloor != 2 {
		t.Fatalf("expected ascent to floor 2, got %+v", res)
	}
	if s.Floor != 2 {
		t.Errorf("floor = %d, want 2", s.Floor)
	}
}

func TestUseStairs_NotOnStairs(t *testing.T) {
	s := newTestSession(t)
	s.Pos = types.Point{X: 1, Y: 1}

	if res := s.UseStairs(); res.Success {
		t.Error("stairs should require standing at the stairwell")
	}
}

func TestVictory_BossOnFinalFloor(t *testing.T) {
	s := newTestSession(t)
	s.Completed["ada"] = true
	s.Floor = 2
	s.Pos = types.Point{X: 1, Y: 1}

	talkTo(t, s, "overmind")
	res := s.AnswerChoice(0) // boss has exactly one question

	if !res.Done || !res.GameWon {
		t.Fatalf("expected victory, got %+v", res)
	}
	if !s.GameWon() {
		t.Error("session should be won")
	}
}

func TestCompletingBossOffFinalFloorDoesNotWin(t *testing.T) {
	s := newTestSession(t)
	talkTo(t, s, "ada")

	s.AnswerChoice(0)
	res := s.AnswerChoice(0)
	if res.GameWon || s.GameWon() {
		t.Error("completing a non-boss specialist must not win the game")
	}
}

func TestQuestObjective_OnlyConfiguredCategoriesCount(t *testing.T) {
	s := newTestSession(t)

	// The enemy completes but is not a quest category.
	talkTo(t, s, "glitch")
	s.AnswerChoice(0)
	s.AnswerChoice(0)

	if !s.Completed["glitch"] {
		t.Fatal("glitch should be completed")
	}
	if got := s.Quest.Remaining(); !reflect.DeepEqual(got, []string{"ada", "sage"}) {
		t.Errorf("quest remaining = %v, want [ada sage]", got)
	}
}

func TestMove_WallsAndOccupancyBlock(t *testing.T) {
	s := newTestSession(t)
	s.Pos = types.Point{X: 1, Y: 1}

	if s.Move(0, -1) {
		t.Error("moving into a wall should fail")
	}
	if !s.Move(1, 0) {
		t.Error("moving into open floor should succeed")
	}

	s.Pos = types.Point{X: 5, Y: 1} // beside the glitch
	if s.Move(1, 0) {
		t.Error("moving onto an occupied tile should fail")
	}
}

func TestMove_BlockedDuringConversation(t *testing.T) {
	s := newTestSession(t)
	talkTo(t, s, "ada")

	if s.Move(0, 1) {
		t.Error("movement should be blocked during a conversation")
	}
}
