package study

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/kuizlet/internal/domain"
)

// LearnOptions builds the answer options for the current card in Learn
// mode: the correct value plus up to three distractors drawn uniformly
// without replacement from the rest of the deck, shuffled together.
// Empty values are dropped, so a deck full of blank cards can yield fewer
// than four options. Options are regenerated every time the current card
// changes.
//
// When promptIsTerm is true the prompt side shows the term, so the options
// are definitions; otherwise the options are terms (the default).
func LearnOptions(cards []domain.Card, current domain.Card, promptIsTerm bool) []string {
	distractors := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		if card.ID != current.ID {
			distractors = append(distractors, card)
		}
	}

	side := func(card domain.Card) string {
		if promptIsTerm {
			return card.Definition
		}
		return card.Term
	}

	pickCount := 3
	if len(distractors) < pickCount {
		pickCount = len(distractors)
	}
	options := []string{side(current)}
	for _, card := range PickRandom(distractors, pickCount) {
		options = append(options, side(card))
	}

	nonEmpty := options[:0]
	for _, option := range options {
		if option != "" {
			nonEmpty = append(nonEmpty, option)
		}
	}
	return Shuffle(nonEmpty)
}

// QuestionType distinguishes multiple-choice from typed-answer questions.
type QuestionType string

// Question types.
const (
	QuestionMultipleChoice QuestionType = "mc"
	QuestionTyped          QuestionType = "typed"
)

// Question is a single practice-test item. The prompt is the card's
// definition and the expected answer its term. Options is populated only
// for multiple-choice questions.
type Question struct {
	ID      string       `json:"id"`
	CardID  string       `json:"cardId"`
	Type    QuestionType `json:"type"`
	Prompt  string       `json:"prompt"`
	Answer  string       `json:"answer"`
	Options []string     `json:"options,omitempty"`
}

// NewPracticeTest generates a test over the whole deck: the deck is
// shuffled, the first ceil(n/2) cards become multiple-choice questions
// (correct term plus up to three random distractor terms, shuffled), the
// rest become typed-answer questions, and the combined list is shuffled
// again before presentation.
func NewPracticeTest(cards []domain.Card) []Question {
	if len(cards) == 0 {
		return []Question{}
	}

	shuffled := Shuffle(cards)
	half := int(math.Ceil(float64(len(shuffled)) / 2))

	questions := make([]Question, 0, len(shuffled))
	for i, card := range shuffled {
		question := Question{
			ID:     uuid.NewString(),
			CardID: card.ID,
			Prompt: card.Definition,
			Answer: card.Term,
		}
		if i < half {
			question.Type = QuestionMultipleChoice
			question.Options = mcOptions(shuffled, card)
		} else {
			question.Type = QuestionTyped
		}
		questions = append(questions, question)
	}
	return Shuffle(questions)
}

func mcOptions(cards []domain.Card, current domain.Card) []string {
	others := make([]string, 0, len(cards)-1)
	for _, card := range cards {
		if card.ID != current.ID {
			others = append(others, card.Term)
		}
	}
	pickCount := 3
	if len(others) < pickCount {
		pickCount = len(others)
	}

	options := append([]string{current.Term}, PickRandom(others, pickCount)...)
	nonEmpty := options[:0]
	for _, option := range options {
		if option != "" {
			nonEmpty = append(nonEmpty, option)
		}
	}
	return Shuffle(nonEmpty)
}

// AnswerMatches reports whether a recorded answer matches the expected
// term: comparison is trimmed and case-insensitive, for both question
// types.
func AnswerMatches(answer, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(expected))
}

// TestScore is the graded result of a practice test.
type TestScore struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// GradeTest scores the recorded answers against the question list.
// Unanswered questions count as incorrect; the percentage is rounded to
// the nearest integer.
func GradeTest(questions []Question, answers map[string]string) TestScore {
	score := TestScore{Total: len(questions)}
	for _, question := range questions {
		answer, ok := answers[question.ID]
		if !ok || answer == "" {
			continue
		}
		if AnswerMatches(answer, question.Answer) {
			score.Correct++
		}
	}
	if score.Total > 0 {
		score.Percentage = int(math.Round(float64(score.Correct) / float64(score.Total) * 100))
	}
	return score
}
