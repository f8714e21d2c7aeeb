package store

import (
	"fmt"
	"time"

	"github.com/AlizayAyesha/voxly/internal/model"
)

// ExportAll builds the export-ready snapshot of everything the store holds:
// stats, archived conversations, and quiz history.
func (s *Store) ExportAll() (model.PracticeExport, error) {
	var export model.PracticeExport

	stats, err := s.Stats()
	if err != nil {
		return export, fmt.Errorf("read stats: %w", err)
	}

	convs, err := s.ListConversations()
	if err != nil {
		return export, fmt.Errorf("list conversations: %w", err)
	}

	results, err := s.ListQuizResults()
	if err != nil {
		return export, fmt.Errorf("list quiz results: %w", err)
	}

	export.ExportedAt = time.Now()
	export.Stats = stats
	export.Conversations = convs
	export.QuizResults = results
	return export, nil
}
