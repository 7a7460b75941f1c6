// Package types defines the shared data structures for the Mindspire engine.
// This package contains only type definitions — no logic, no methods.
package types

// QuestionKind tags how a question is asked and answered.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindShortAnswer    QuestionKind = "short_answer"
	KindYesNo          QuestionKind = "yes_no"
)

// MatchMode selects the free-text matching strategy.
type MatchMode string

const (
	MatchExact      MatchMode = "exact"
	MatchComplexity MatchMode = "complexity"
	MatchNumeric    MatchMode = "numeric"
)

// Category classifies an NPC's interaction behavior.
type Category string

const (
	CategorySpecialist Category = "specialist"
	CategoryHelper     Category = "helper"
	CategoryEnemy      Category = "enemy"
	CategoryQuest      Category = "quest"
	CategoryBoss       Category = "boss"
)

// Choice is one selectable answer of a multiple-choice question.
type Choice struct {
	Text      string
	Correct   bool
	Response  string // shown after selecting this choice
	Knowledge string // knowledge module granted when correct (optional)
	Penalty   int    // extra penalty when wrong and the speaker is hostile
}

// Question is a single prompt.
// Multiple-choice questions carry Choices; text questions carry Accept
// (a "|"-separated list of accepted strings) plus a match mode.
type Question struct {
	ID            string
	Kind          QuestionKind
	Topic         string
	Text          string
	Choices       []Choice
	Accept        string
	Mode          MatchMode
	CaseSensitive bool
	CorrectText   string
	IncorrectText string
	Knowledge     string // knowledge module granted on a correct text answer
}

// Point is a tile coordinate on a floor grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NPCDef is the immutable definition of an NPC loaded from content.
type NPCDef struct {
	ID        string
	Name      string
	Glyph     string
	Category  Category
	Floor     int
	Pos       Point
	Greeting  string
	Questions []string // question IDs this NPC may draw from
	Flavor    string   // shown when the NPC is already completed
}

// TerminalDef is a lore terminal placed on a floor.
type TerminalDef struct {
	ID    string
	Floor int
	Pos   Point
	Text  string
}

// FloorDef is one level of the tower.
type FloorDef struct {
	Number   int
	Name     string
	Layout   []string // ASCII rows: '#' wall, '.' open, '>' stairs up
	Required []string // NPC IDs that must be completed before ascending
	Final    bool
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title      string
	Author     string
	Version    string
	Intro      string
	StartFloor int
	Bosses     []string // NPC IDs whose completion on the final floor wins the game
}

// Conversation is the per-NPC dialogue state. Questions holds the drawn,
// shuffled question IDs for this session; Cursor advances by exactly one
// per correct answer and Completed flips when Cursor reaches the end.
type Conversation struct {
	NPCID     string
	Questions []string
	Cursor    int
	Completed bool
}

// Difficulty is the read-only tuning record consumed by the engine.
type Difficulty struct {
	StartCoherence    int
	MaxCoherence      int
	CorrectGain       int
	WrongPenalty      int
	EnemyWrongPenalty int
	QuestionsMin      int
	QuestionsMax      int
	BossQuestions     int
	HelperRestore     int
	QuestBonus        int
	QuestCategories   []Category // categories whose completion counts toward the quest
}

// AnswerResult is the outcome of submitting one answer.
type AnswerResult struct {
	Accepted bool
	Message  string
	NewKnow  bool // a knowledge module was newly granted
	Done     bool // the conversation completed on this answer
	GameOver bool // coherence hit zero; the conversation was torn down
	GameWon  bool
}

// InteractionKind identifies what the player interacted with.
type InteractionKind string

const (
	InteractNone         InteractionKind = "none"
	InteractTerminal     InteractionKind = "terminal"
	InteractConversation InteractionKind = "conversation"
	InteractHelper       InteractionKind = "helper"
	InteractQuest        InteractionKind = "quest"
	InteractFlavor       InteractionKind = "flavor"
)

// InteractionResult is the outcome of an interact command.
type InteractionResult struct {
	Success bool
	Kind    InteractionKind
	Message string
	NPCID   string // set when Kind == InteractConversation
}

// StairsResult is the outcome of a use-stairs command.
type StairsResult struct {
	Success      bool
	Message      string
	FloorChanged bool
	NewFloor     int
}
