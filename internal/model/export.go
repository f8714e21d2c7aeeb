package model

import "time"

// PracticeExport is the top-level JSON structure produced by the export
// subcommand.
type PracticeExport struct {
	ExportedAt    time.Time           `json:"exported_at"`
	Stats         LearningStats       `json:"stats"`
	Conversations []SavedConversation `json:"conversations"`
	QuizResults   []QuizResult        `json:"quiz_results"`
}
