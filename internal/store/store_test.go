package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/AlizayAyesha/voxly/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func saveTestConversation(t *testing.T, s *Store, lang string, turnCount int) int64 {
	t.Helper()
	now := time.Now()
	turns := make([]model.ConversationTurn, 0, turnCount)
	for i := 0; i < turnCount; i++ {
		speaker := model.SpeakerAgent
		if i%2 == 1 {
			speaker = model.SpeakerUser
		}
		turns = append(turns, model.ConversationTurn{
			ID:         int64(i + 1),
			Speaker:    speaker,
			Text:       "turn",
			OccurredAt: now,
		})
	}
	id, err := s.SaveConversation(model.SavedConversation{
		Language:  lang,
		StartedAt: now.Add(-time.Minute),
		EndedAt:   now,
		Turns:     turns,
	})
	if err != nil {
		t.Fatalf("saveTestConversation: %v", err)
	}
	return id
}

func TestStatsSeeded(t *testing.T) {
	s := newTestStore(t)

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.DailyStreak != 0 || st.WordsLearned != 0 || st.ConversationsCompleted != 0 || st.Progress != 0 {
		t.Errorf("expected zeroed stats, got %+v", st)
	}
	if !st.LastActiveAt.IsZero() {
		t.Errorf("expected zero last_active_at, got %v", st.LastActiveAt)
	}
}

func TestApplyQuizResult(t *testing.T) {
	s := newTestStore(t)

	if err := s.ApplyQuizResult(2, 3); err != nil {
		t.Fatalf("ApplyQuizResult: %v", err)
	}
	st, _ := s.Stats()
	if st.WordsLearned != 4 {
		t.Errorf("words learned = %d, want 4", st.WordsLearned)
	}
	// floor(2*20/3) = 13
	if st.Progress != 13 {
		t.Errorf("progress = %d, want 13", st.Progress)
	}

	// Progress caps at 100.
	for i := 0; i < 10; i++ {
		if err := s.ApplyQuizResult(3, 3); err != nil {
			t.Fatalf("ApplyQuizResult: %v", err)
		}
	}
	st, _ = s.Stats()
	if st.Progress != 100 {
		t.Errorf("progress = %d, want cap 100", st.Progress)
	}
}

func TestApplyQuizResultValidation(t *testing.T) {
	s := newTestStore(t)

	if err := s.ApplyQuizResult(1, 0); !errors.Is(err, model.ErrValidation) {
		t.Errorf("zero total: got %v, want ErrValidation", err)
	}
	if err := s.ApplyQuizResult(4, 3); !errors.Is(err, model.ErrValidation) {
		t.Errorf("score above total: got %v, want ErrValidation", err)
	}
	if err := s.ApplyQuizResult(-1, 3); !errors.Is(err, model.ErrValidation) {
		t.Errorf("negative score: got %v, want ErrValidation", err)
	}
}

func TestIncrementConversationsStreak(t *testing.T) {
	s := newTestStore(t)
	day1 := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	// First ever conversation starts a streak of 1.
	if err := s.IncrementConversations(day1); err != nil {
		t.Fatalf("IncrementConversations: %v", err)
	}
	st, _ := s.Stats()
	if st.ConversationsCompleted != 1 || st.DailyStreak != 1 {
		t.Errorf("after first: %+v", st)
	}

	// Same day keeps the streak.
	if err := s.IncrementConversations(day1.Add(2 * time.Hour)); err != nil {
		t.Fatalf("IncrementConversations: %v", err)
	}
	st, _ = s.Stats()
	if st.ConversationsCompleted != 2 || st.DailyStreak != 1 {
		t.Errorf("after same day: %+v", st)
	}

	// Next day extends it.
	if err := s.IncrementConversations(day1.Add(24 * time.Hour)); err != nil {
		t.Fatalf("IncrementConversations: %v", err)
	}
	st, _ = s.Stats()
	if st.DailyStreak != 2 {
		t.Errorf("after next day: streak = %d, want 2", st.DailyStreak)
	}

	// A gap resets to 1.
	if err := s.IncrementConversations(day1.Add(5 * 24 * time.Hour)); err != nil {
		t.Fatalf("IncrementConversations: %v", err)
	}
	st, _ = s.Stats()
	if st.DailyStreak != 1 {
		t.Errorf("after gap: streak = %d, want 1", st.DailyStreak)
	}
	if st.ConversationsCompleted != 4 {
		t.Errorf("conversations = %d, want 4", st.ConversationsCompleted)
	}
}

func TestConversationRoundTrip(t *testing.T) {
	s := newTestStore(t)

	id := saveTestConversation(t, s, "es", 3)
	conv, err := s.GetConversation(id)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if conv.Language != "es" {
		t.Errorf("language = %q, want es", conv.Language)
	}
	if len(conv.Turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(conv.Turns))
	}
	if conv.Turns[0].Speaker != model.SpeakerAgent {
		t.Errorf("first speaker = %q, want agent", conv.Turns[0].Speaker)
	}

	// Not found.
	if _, err := s.GetConversation(9999); err != sql.ErrNoRows {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestListConversations(t *testing.T) {
	s := newTestStore(t)

	convs, err := s.ListConversations()
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 0 {
		t.Fatalf("expected empty list, got %d", len(convs))
	}

	saveTestConversation(t, s, "es", 1)
	saveTestConversation(t, s, "fr", 5)

	convs, err = s.ListConversations()
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	// Newest first.
	if convs[0].Language != "fr" {
		t.Errorf("expected fr first, got %q", convs[0].Language)
	}

	count, err := s.ConversationCount()
	if err != nil {
		t.Fatalf("ConversationCount: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestQuizResults(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SaveQuizResult("¡Hola!", 2, 3, time.Now()); err != nil {
		t.Fatalf("SaveQuizResult: %v", err)
	}
	if _, err := s.SaveQuizResult("Bonjour!", 3, 3, time.Now()); err != nil {
		t.Fatalf("SaveQuizResult: %v", err)
	}

	results, err := s.ListQuizResults()
	if err != nil {
		t.Fatalf("ListQuizResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Seed != "Bonjour!" {
		t.Errorf("expected newest first, got %q", results[0].Seed)
	}
	if results[1].Score != 2 || results[1].Total != 3 {
		t.Errorf("unexpected result: %+v", results[1])
	}
}

func TestExportAll(t *testing.T) {
	s := newTestStore(t)

	saveTestConversation(t, s, "de", 2)
	if _, err := s.SaveQuizResult("seed", 1, 3, time.Now()); err != nil {
		t.Fatalf("SaveQuizResult: %v", err)
	}
	if err := s.ApplyQuizResult(1, 3); err != nil {
		t.Fatalf("ApplyQuizResult: %v", err)
	}

	export, err := s.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if export.ExportedAt.IsZero() {
		t.Error("exported_at not set")
	}
	if len(export.Conversations) != 1 {
		t.Errorf("conversations = %d, want 1", len(export.Conversations))
	}
	if len(export.QuizResults) != 1 {
		t.Errorf("quiz results = %d, want 1", len(export.QuizResults))
	}
	if export.Stats.WordsLearned != 2 {
		t.Errorf("stats words = %d, want 2", export.Stats.WordsLearned)
	}
}
