// Package store persists learning progress, archived conversations, and
// quiz history in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlizayAyesha/voxly/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS learning_stats (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		daily_streak INTEGER NOT NULL DEFAULT 0,
		words_learned INTEGER NOT NULL DEFAULT 0,
		conversations_completed INTEGER NOT NULL DEFAULT 0,
		progress INTEGER NOT NULL DEFAULT 0,
		last_active_at DATETIME
	);

	INSERT OR IGNORE INTO learning_stats (id) VALUES (1);

	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		language TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		turns TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS quiz_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		score INTEGER NOT NULL,
		total INTEGER NOT NULL,
		taken_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Stats returns the singleton learning stats row.
func (s *Store) Stats() (model.LearningStats, error) {
	var st model.LearningStats
	var lastActive sql.NullTime
	err := s.db.QueryRow(
		`SELECT daily_streak, words_learned, conversations_completed, progress, last_active_at
		 FROM learning_stats WHERE id = 1`,
	).Scan(&st.DailyStreak, &st.WordsLearned, &st.ConversationsCompleted, &st.Progress, &lastActive)
	if err != nil {
		return st, err
	}
	if lastActive.Valid {
		st.LastActiveAt = lastActive.Time
	}
	return st, nil
}

// ApplyQuizResult folds a finished quiz run into the progress accumulator:
// two words learned per correct answer, progress bumped by the run's share
// of twenty percent, capped at one hundred.
func (s *Store) ApplyQuizResult(score, total int) error {
	if total <= 0 {
		return fmt.Errorf("%w: quiz total must be positive", model.ErrValidation)
	}
	if score < 0 || score > total {
		return fmt.Errorf("%w: score %d out of range 0..%d", model.ErrValidation, score, total)
	}
	progressDelta := (score * 20) / total
	_, err := s.db.Exec(
		`UPDATE learning_stats
		 SET words_learned = words_learned + ?,
		     progress = MIN(100, progress + ?)
		 WHERE id = 1`,
		score*2, progressDelta,
	)
	return err
}

// IncrementConversations bumps the completed-conversation counter and
// maintains the daily streak: same day keeps it, the next day extends it,
// anything else resets it to one.
func (s *Store) IncrementConversations(now time.Time) error {
	st, err := s.Stats()
	if err != nil {
		return err
	}

	streak := 1
	if !st.LastActiveAt.IsZero() {
		today := now.Truncate(24 * time.Hour)
		last := st.LastActiveAt.Truncate(24 * time.Hour)
		switch today.Sub(last) {
		case 0:
			streak = st.DailyStreak
			if streak == 0 {
				streak = 1
			}
		case 24 * time.Hour:
			streak = st.DailyStreak + 1
		}
	}

	_, err = s.db.Exec(
		`UPDATE learning_stats
		 SET conversations_completed = conversations_completed + 1,
		     daily_streak = ?,
		     last_active_at = ?
		 WHERE id = 1`,
		streak, now,
	)
	return err
}

// SaveConversation archives a completed session transcript.
func (s *Store) SaveConversation(conv model.SavedConversation) (int64, error) {
	turns, err := json.Marshal(conv.Turns)
	if err != nil {
		return 0, fmt.Errorf("marshal turns: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO conversations (language, started_at, ended_at, turns) VALUES (?, ?, ?, ?)`,
		conv.Language, conv.StartedAt, conv.EndedAt, string(turns),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetConversation returns one archived conversation by ID.
func (s *Store) GetConversation(id int64) (model.SavedConversation, error) {
	var conv model.SavedConversation
	var turns string
	err := s.db.QueryRow(
		`SELECT id, language, started_at, ended_at, turns FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.Language, &conv.StartedAt, &conv.EndedAt, &turns)
	if err != nil {
		return conv, err
	}
	if err := json.Unmarshal([]byte(turns), &conv.Turns); err != nil {
		return conv, fmt.Errorf("unmarshal turns: %w", err)
	}
	return conv, nil
}

// ListConversations returns all archived conversations, newest first.
func (s *Store) ListConversations() ([]model.SavedConversation, error) {
	rows, err := s.db.Query(
		`SELECT id, language, started_at, ended_at, turns FROM conversations ORDER BY id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var convs []model.SavedConversation
	for rows.Next() {
		var conv model.SavedConversation
		var turns string
		if err := rows.Scan(&conv.ID, &conv.Language, &conv.StartedAt, &conv.EndedAt, &turns); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(turns), &conv.Turns); err != nil {
			return nil, fmt.Errorf("unmarshal turns for conversation %d: %w", conv.ID, err)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// ConversationCount returns the number of archived conversations.
func (s *Store) ConversationCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count)
	return count, err
}

// SaveQuizResult records one finished quiz run.
func (s *Store) SaveQuizResult(seed string, score, total int, takenAt time.Time) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO quiz_results (seed, score, total, taken_at) VALUES (?, ?, ?, ?)`,
		seed, score, total, takenAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListQuizResults returns all quiz results, newest first.
func (s *Store) ListQuizResults() ([]model.QuizResult, error) {
	rows, err := s.db.Query(
		`SELECT id, seed, score, total, taken_at FROM quiz_results ORDER BY id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.QuizResult
	for rows.Next() {
		var r model.QuizResult
		if err := rows.Scan(&r.ID, &r.Seed, &r.Score, &r.Total, &r.TakenAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
