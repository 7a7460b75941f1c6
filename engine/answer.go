package engine

import (
	"fmt"

	"github.com/nathoo/mindspire/engine/match"
	"github.com/nathoo/mindspire/types"
)

// AnswerChoice resolves a multiple-choice answer by index into the current
// question's choice list.
func (s *Session) AnswerChoice(index int) types.AnswerResult {
	conv, res, ok := s.answerPrecheck()
	if !ok {
		return res
	}

	q := s.Defs.Questions[conv.Questions[conv.Cursor]]
	if q.Kind != types.KindMultipleChoice {
		return types.AnswerResult{Message: "This question wants a typed answer."}
	}
	if index < 0 || index >= len(q.Choices) {
		return types.AnswerResult{Message: "Invalid answer choice."}
	}

	choice := q.Choices[index]
	return s.resolveAnswer(conv, q, choice.Correct, &choice)
}

// AnswerText resolves a free-text answer against the current question's
// accepted strings using its configured match mode.
func (s *Session) AnswerText(raw string) types.AnswerResult {
	conv, res, ok := s.answerPrecheck()
	if !ok {
		return res
	}

	q := s.Defs.Questions[conv.Questions[conv.Cursor]]
	if q.Kind == types.KindMultipleChoice {
		return types.AnswerResult{Message: "Pick one of the listed answers."}
	}

	correct := match.Match(raw, q.Accept, q.Mode, q.CaseSensitive)
	return s.resolveAnswer(conv, q, correct, nil)
}

// answerPrecheck validates that an answer can be processed at all. A
// completed conversation receiving another answer is acknowledged and
// closed rather than treated as an error — a double-submit guard.
func (s *Session) answerPrecheck() (*types.Conversation, types.AnswerResult, bool) {
	if s.active == "" {
		return nil, types.AnswerResult{Message: "You are not in a conversation."}, false
	}
	conv := s.Conversations[s.active]
	if conv.Completed {
		name := s.Defs.NPCName(s.active)
		s.active = ""
		return nil, types.AnswerResult{
			Accepted: true,
			Done:     true,
			Message:  fmt.Sprintf("%s has nothing more to ask.", name),
		}, false
	}
	return conv, types.AnswerResult{}, true
}

// resolveAnswer applies the consequences of a verdict: coherence change,
// knowledge grant, opinion shift, cursor advance, completion and victory
// checks, and the coherence-collapse teardown. Clamping is the resource
// manager's job; no bounds logic lives here.
func (s *Session) resolveAnswer(conv *types.Conversation, q types.Question, correct bool, choice *types.Choice) types.AnswerResult {
	npc := s.Defs.NPCs[conv.NPCID]
	res := types.AnswerResult{Accepted: correct}

	if correct {
		s.Opinions[conv.NPCID]++
		gained, _ := s.Player.Gain(s.Diff.CorrectGain)

		if id := rewardKnowledge(q, choice); id != "" {
			res.NewKnow = s.Player.AddKnowledge(id)
			if res.NewKnow {
				res.Message = appendLine(res.Message, fmt.Sprintf("[Knowledge gained: %s]", id))
			}
		}

		conv.Cursor++
		first := fmt.Sprintf("%s (+%d coherence)", responseText(q, choice, true), gained)
		res.Message = prependLine(first, res.Message)

		if conv.Cursor == len(conv.Questions) {
			s.completeConversation(conv, npc, &res)
		}
	} else {
		s.Opinions[conv.NPCID]--
		penalty := s.Diff.WrongPenalty
		if npc.Category == types.CategoryEnemy {
			penalty = s.Diff.EnemyWrongPenalty
			if choice != nil && choice.Penalty > 0 {
				penalty += choice.Penalty
			}
		}
		lost, _ := s.Player.Lose(penalty)
		res.Message = fmt.Sprintf("%s (-%d coherence)", responseText(q, choice, false), lost)
	}

	s.log.Debug().
		Str("npc", conv.NPCID).
		Str("question", q.ID).
		Bool("correct", correct).
		Int("coherence", s.Player.Coherence()).
		Msg("answer resolved")

	// Coherence collapse supersedes the normal flow: tear down the
	// conversation even mid-question.
	if !s.Player.Alive() {
		s.active = ""
		s.over = true
		res.GameOver = true
		res.Message = appendLine(res.Message, "Your coherence collapses. The tower goes dark.")
	}

	return res
}

// completeConversation marks the conversation done and applies the
// cross-cutting completion effects: registry, quest objective, victory.
func (s *Session) completeConversation(conv *types.Conversation, npc types.NPCDef, res *types.AnswerResult) {
	conv.Completed = true
	s.Completed[npc.ID] = true
	s.active = ""
	res.Done = true
	res.Message = appendLine(res.Message, fmt.Sprintf("%s has no more questions for you.", npc.Name))

	if categoryIn(npc.Category, s.Diff.QuestCategories) {
		if s.Quest.CompleteObjective(npc.ID) {
			res.Message = appendLine(res.Message, "[Quest objective complete — all specialists found!]")
		}
	}

	if s.Defs.IsFinalFloor(s.Floor) && s.Defs.IsBoss(npc.ID) {
		s.won = true
		res.GameWon = true
		res.Message = appendLine(res.Message, "The Mindspire falls quiet. You have reached the top.")
	}

	s.log.Info().Str("npc", npc.ID).Msg("conversation completed")
}

// rewardKnowledge picks the knowledge module attached to the resolved
// answer: the choice's module for multiple-choice, the question's for text.
func rewardKnowledge(q types.Question, choice *types.Choice) string {
	if choice != nil && choice.Knowledge != "" {
		return choice.Knowledge
	}
	return q.Knowledge
}

// responseText selects the post-answer line: the chosen answer's response
// when present, else the question's configured correct/incorrect text.
func responseText(q types.Question, choice *types.Choice, correct bool) string {
	if choice != nil && choice.Response != "" {
		return choice.Response
	}
	if correct {
		if q.CorrectText != "" {
			return q.CorrectText
		}
		return "Correct."
	}
	if q.IncorrectText != "" {
		return q.IncorrectText
	}
	return "That is not right."
}

func appendLine(base, line string) string {
	if base == "" {
		return line
	}
	return base + "\n" + line
}

func prependLine(line, base string) string {
	if base == "" {
		return line
	}
	return line + "\n" + base
}
