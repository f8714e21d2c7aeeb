package model

import (
	"errors"
	"time"
)

// Speaker identifies who produced a conversation turn.
type Speaker string

const (
	SpeakerAgent Speaker = "agent"
	SpeakerUser  Speaker = "user"
)

// ChatRole is a role in the flat role/content list sent to the vendor API.
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of a conversation history as the vendor sees it.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// AudioActivity is the single audio-producing or -consuming activity of a
// session. Speaking and recording can never be active at the same time.
type AudioActivity string

const (
	ActivityIdle      AudioActivity = "idle"
	ActivitySpeaking  AudioActivity = "speaking"
	ActivityRecording AudioActivity = "recording"
)

// Valid reports whether a is one of the known activities.
func (a AudioActivity) Valid() bool {
	switch a {
	case ActivityIdle, ActivitySpeaking, ActivityRecording:
		return true
	}
	return false
}

// ConversationTurn is one utterance in a session. Turns are append-only and
// never mutated after creation.
type ConversationTurn struct {
	ID         int64     `json:"id"`
	Speaker    Speaker   `json:"speaker"`
	Text       string    `json:"text"`
	Language   string    `json:"language,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SessionSnapshot is an immutable copy of the active session state handed to
// callers. History order is chronological.
type SessionSnapshot struct {
	Active           bool               `json:"active"`
	LanguageCode     string             `json:"language_code,omitempty"`
	LanguageName     string             `json:"language_name,omitempty"`
	History          []ConversationTurn `json:"history"`
	CurrentAgentText string             `json:"current_agent_text,omitempty"`
	AudioActivity    AudioActivity      `json:"audio_activity"`
	Busy             bool               `json:"busy"`
	AudioURL         string             `json:"audio_url,omitempty"`
}

// QuizQuestion is a multiple-choice question derived from an agent utterance.
type QuizQuestion struct {
	ID           int64    `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// QuizAttempt records one answer to a question within a quiz run.
type QuizAttempt struct {
	QuestionID    int64 `json:"question_id"`
	SelectedIndex int   `json:"selected_index"`
	Correct       bool  `json:"correct"`
}

// LearningStats is the per-user progress accumulator shown in the sidebar.
type LearningStats struct {
	DailyStreak            int       `json:"daily_streak"`
	WordsLearned           int       `json:"words_learned"`
	ConversationsCompleted int       `json:"conversations_completed"`
	Progress               int       `json:"progress"`
	LastActiveAt           time.Time `json:"last_active_at"`
}

// SavedConversation is a completed session archived to the store.
type SavedConversation struct {
	ID        int64              `json:"id"`
	Language  string             `json:"language"`
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at"`
	Turns     []ConversationTurn `json:"turns"`
}

// QuizResult is one finished quiz run.
type QuizResult struct {
	ID      int64     `json:"id"`
	Seed    string    `json:"seed"`
	Score   int       `json:"score"`
	Total   int       `json:"total"`
	TakenAt time.Time `json:"taken_at"`
}

// Sentinel errors shared across packages; handlers map them to HTTP statuses.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNoSession     = errors.New("no active session")
	ErrSessionActive = errors.New("session already active")
	ErrBusy          = errors.New("request already in flight")
)
