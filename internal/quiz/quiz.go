// Package quiz derives a small multiple-choice question set from the latest
// agent utterance and scores a user's run through it.
package quiz

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/AlizayAyesha/voxly/internal/model"
)

// QuestionCount is the fixed size of every generated set.
const QuestionCount = 3

const seedExcerptLen = 30

// template is one canned question shape. Options are stored with the
// correct answer first and rotated deterministically per seed.
type template struct {
	prompt      func(seed string) string
	options     [4]string
	explanation string
}

var templates = [QuestionCount]template{
	{
		prompt: func(seed string) string {
			return fmt.Sprintf("What does this phrase mean in English: %q?", excerpt(seed))
		},
		options:     [4]string{"Greeting", "Question", "Farewell", "Thank you"},
		explanation: "This is a greeting phrase used to start a conversation.",
	},
	{
		prompt: func(string) string {
			return `Select the correct translation for "Hello"`
		},
		options:     [4]string{"Hola", "Adiós", "Gracias", "Por favor"},
		explanation: `"Hola" means "Hello" in Spanish.`,
	},
	{
		prompt: func(string) string {
			return `How would you say "Good morning" in Spanish?`
		},
		options:     [4]string{"Buenos días", "Buenas noches", "Buenas tardes", "Hola"},
		explanation: `"Buenos días" means "Good morning" in Spanish.`,
	},
}

// Engine holds the current question set and the attempts of the active run.
// A new Generate discards both.
type Engine struct {
	mu        sync.Mutex
	questions []model.QuizQuestion
	attempts  map[int64]model.QuizAttempt
	nextID    int64
}

// NewEngine creates an empty quiz engine.
func NewEngine() *Engine {
	return &Engine{attempts: make(map[int64]model.QuizAttempt)}
}

// Generate builds the question set for a seed utterance. The result always
// has exactly QuestionCount entries for a non-empty seed and is nil for an
// empty one. Generation is deterministic: the same seed yields the same
// questions and option order.
func (e *Engine) Generate(seed string) []model.QuizQuestion {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil
	}

	offset := int(hashSeed(seed) % 4)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.questions = e.questions[:0]
	e.attempts = make(map[int64]model.QuizAttempt)

	for _, tpl := range templates {
		e.nextID++
		options := make([]string, 4)
		for i, opt := range tpl.options {
			options[(i+offset)%4] = opt
		}
		e.questions = append(e.questions, model.QuizQuestion{
			ID:           e.nextID,
			Prompt:       tpl.prompt(seed),
			Options:      options,
			CorrectIndex: offset,
			Explanation:  tpl.explanation,
		})
	}
	return e.snapshotLocked()
}

// Current returns a copy of the active question set; empty when no set has
// been generated or the last run finished.
func (e *Engine) Current() []model.QuizQuestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// RecordAnswer stores an attempt for a question. Re-answering the same
// question overwrites the prior attempt (last-write-wins).
func (e *Engine) RecordAnswer(questionID int64, selectedIndex int) (model.QuizAttempt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var q *model.QuizQuestion
	for i := range e.questions {
		if e.questions[i].ID == questionID {
			q = &e.questions[i]
			break
		}
	}
	if q == nil {
		return model.QuizAttempt{}, fmt.Errorf("%w: unknown question %d", model.ErrValidation, questionID)
	}
	if selectedIndex < 0 || selectedIndex >= len(q.Options) {
		return model.QuizAttempt{}, fmt.Errorf("%w: option index %d out of range", model.ErrValidation, selectedIndex)
	}

	attempt := model.QuizAttempt{
		QuestionID:    questionID,
		SelectedIndex: selectedIndex,
		Correct:       selectedIndex == q.CorrectIndex,
	}
	e.attempts[questionID] = attempt
	return attempt, nil
}

// Explanation returns the explanation text for a question.
func (e *Engine) Explanation(questionID int64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, q := range e.questions {
		if q.ID == questionID {
			return q.Explanation
		}
	}
	return ""
}

// Finish scores the run (count of correct attempts over the set length) and
// discards the question set and attempts.
func (e *Engine) Finish() (score, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	total = len(e.questions)
	for _, a := range e.attempts {
		if a.Correct {
			score++
		}
	}
	e.questions = nil
	e.attempts = make(map[int64]model.QuizAttempt)
	return score, total
}

// Reset discards the current set and attempts without scoring.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.questions = nil
	e.attempts = make(map[int64]model.QuizAttempt)
}

func (e *Engine) snapshotLocked() []model.QuizQuestion {
	if len(e.questions) == 0 {
		return nil
	}
	out := make([]model.QuizQuestion, len(e.questions))
	copy(out, e.questions)
	return out
}

func excerpt(seed string) string {
	runes := []rune(seed)
	if len(runes) <= seedExcerptLen {
		return seed
	}
	return string(runes[:seedExcerptLen]) + "..."
}

func hashSeed(seed string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return h.Sum32()
}
