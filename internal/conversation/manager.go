// Package conversation owns the single active practice session and drives
// it through the speech provider gateway: turn-taking, subtitle history,
// audio synthesis, and quiz seeding.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AlizayAyesha/voxly/internal/language"
	"github.com/AlizayAyesha/voxly/internal/model"
)

// ApologyText is the canned agent line appended when reply generation
// fails. The user is never left without a response.
const ApologyText = "I'm sorry, something went wrong. Please try again."

// Gateway is the boundary to the external reply/synthesis vendor.
type Gateway interface {
	Reply(ctx context.Context, userText string, history []model.ChatMessage, languageName string) (string, error)
	Synthesize(ctx context.Context, text, language string) (string, error)
}

// QuizSeeder receives each new agent utterance as a quiz generation seed.
type QuizSeeder interface {
	Generate(seed string) []model.QuizQuestion
	Reset()
}

// Archiver persists completed conversations. Failures are logged, never
// surfaced to the user.
type Archiver interface {
	SaveConversation(conv model.SavedConversation) (int64, error)
	IncrementConversations(now time.Time) error
}

// Manager owns the active session. All methods are safe for concurrent use;
// the busy flag guarantees at most one in-flight gateway call.
type Manager struct {
	gw      Gateway
	quiz    QuizSeeder
	archive Archiver
	timeout time.Duration

	mu         sync.Mutex
	active     bool
	lang       language.Descriptor
	history    []model.ConversationTurn
	agentText  string
	activity   model.AudioActivity
	busy       bool
	audioURL   string
	startedAt  time.Time
	epoch      uint64
	cancel     context.CancelFunc
	sessionCtx context.Context
	nextTurnID int64
}

// NewManager creates a Manager. archive may be nil when no persistence is
// configured (tests).
func NewManager(gw Gateway, quiz QuizSeeder, archive Archiver, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Manager{
		gw:       gw,
		quiz:     quiz,
		archive:  archive,
		timeout:  timeout,
		activity: model.ActivityIdle,
	}
}

// Start begins a fresh session in the given language. An unknown code falls
// back to the default language instead of failing. The greeting turn is
// appended immediately; the manager stays busy for the synthesis round trip
// and the returned snapshot carries the greeting audio URL when synthesis
// succeeded. A synthesis failure only skips playback.
func (m *Manager) Start(ctx context.Context, code string) (model.SessionSnapshot, error) {
	m.mu.Lock()
	if m.active {
		m.mu.Unlock()
		return model.SessionSnapshot{}, model.ErrSessionActive
	}

	desc, ok := language.Lookup(code)
	if !ok {
		slog.Warn("unsupported language, using default", "code", code)
		desc = language.Default()
	}

	sessionCtx, cancel := context.WithCancel(context.Background())
	m.active = true
	m.lang = desc
	m.history = nil
	m.agentText = ""
	m.activity = model.ActivityIdle
	m.audioURL = ""
	m.startedAt = time.Now()
	m.sessionCtx = sessionCtx
	m.cancel = cancel
	m.epoch++
	epoch := m.epoch

	greeting := language.Greeting(desc.Code)
	m.appendTurnLocked(model.SpeakerAgent, greeting, desc.NativeName)
	m.agentText = greeting
	m.busy = true
	m.mu.Unlock()

	synthCtx, synthCancel := context.WithTimeout(sessionCtx, m.timeout)
	audioURL, err := m.gw.Synthesize(synthCtx, greeting, desc.Code)
	synthCancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		// Session ended or restarted while synthesis was in flight.
		return m.snapshotLocked(), nil
	}
	m.busy = false
	if err != nil {
		slog.Warn("greeting synthesis failed, skipping playback", "error", err)
	} else {
		m.audioURL = audioURL
	}
	return m.snapshotLocked(), nil
}

// End stops the session: cancels in-flight gateway work, archives a
// non-empty transcript, and resets all state. Idempotent.
func (m *Manager) End() {
	m.mu.Lock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.epoch++

	var archived *model.SavedConversation
	if m.active && len(m.history) > 0 {
		turns := make([]model.ConversationTurn, len(m.history))
		copy(turns, m.history)
		archived = &model.SavedConversation{
			Language:  m.lang.Code,
			StartedAt: m.startedAt,
			EndedAt:   time.Now(),
			Turns:     turns,
		}
	}

	m.active = false
	m.history = nil
	m.agentText = ""
	m.activity = model.ActivityIdle
	m.busy = false
	m.audioURL = ""
	m.sessionCtx = nil
	if m.quiz != nil {
		m.quiz.Reset()
	}
	m.mu.Unlock()

	if archived != nil && m.archive != nil {
		if _, err := m.archive.SaveConversation(*archived); err != nil {
			slog.Error("archive conversation", "error", err)
		}
		if err := m.archive.IncrementConversations(archived.EndedAt); err != nil {
			slog.Error("update conversation stats", "error", err)
		}
	}
}

// Submit handles one user utterance: it appends the user turn immediately,
// asks the gateway for a reply under the configured timeout, appends the
// agent turn (or the canned apology on failure), triggers synthesis, and
// seeds the quiz engine. The returned error reports gateway failures for
// logging; the snapshot is valid either way.
func (m *Manager) Submit(ctx context.Context, text string) (model.SessionSnapshot, error) {
	text = strings.TrimSpace(text)

	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return model.SessionSnapshot{}, model.ErrNoSession
	}
	if text == "" {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, fmt.Errorf("%w: utterance must not be empty", model.ErrValidation)
	}
	if m.busy {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, model.ErrBusy
	}

	m.appendTurnLocked(model.SpeakerUser, text, m.lang.NativeName)
	m.busy = true
	epoch := m.epoch
	langName := m.lang.Name
	langCode := m.lang.Code
	history := m.chatHistoryLocked()
	sessionCtx := m.sessionCtx
	m.mu.Unlock()

	replyCtx, replyCancel := context.WithTimeout(sessionCtx, m.timeout)
	reply, err := m.gw.Reply(replyCtx, text, history, langName)
	replyCancel()

	m.mu.Lock()
	if m.epoch != epoch {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, model.ErrNoSession
	}

	if err != nil {
		m.appendTurnLocked(model.SpeakerAgent, ApologyText, m.lang.NativeName)
		m.agentText = ApologyText
		m.busy = false
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, fmt.Errorf("submit utterance: %w", err)
	}

	m.appendTurnLocked(model.SpeakerAgent, reply, m.lang.NativeName)
	m.agentText = reply
	m.mu.Unlock()

	if m.quiz != nil {
		m.quiz.Generate(reply)
	}

	synthCtx, synthCancel := context.WithTimeout(sessionCtx, m.timeout)
	audioURL, synthErr := m.gw.Synthesize(synthCtx, reply, langCode)
	synthCancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return m.snapshotLocked(), model.ErrNoSession
	}
	m.busy = false
	if synthErr != nil {
		slog.Warn("reply synthesis failed, skipping playback", "error", synthErr)
		m.audioURL = ""
	} else {
		m.audioURL = audioURL
	}
	return m.snapshotLocked(), nil
}

// SetAudioActivity records playback/microphone state driven by events
// external to the manager. Speaking and recording are a single enum, so the
// two can never be set simultaneously.
func (m *Manager) SetAudioActivity(a model.AudioActivity) error {
	if !a.Valid() {
		return fmt.Errorf("%w: unknown audio activity %q", model.ErrValidation, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return model.ErrNoSession
	}
	m.activity = a
	return nil
}

// Active reports whether a session is running.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Snapshot returns an immutable copy of the current session state.
func (m *Manager) Snapshot() model.SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) appendTurnLocked(speaker model.Speaker, text, langTag string) {
	m.nextTurnID++
	m.history = append(m.history, model.ConversationTurn{
		ID:         m.nextTurnID,
		Speaker:    speaker,
		Text:       text,
		Language:   langTag,
		OccurredAt: time.Now(),
	})
}

// chatHistoryLocked maps the turn history to the flat role/content list the
// gateway expects. The just-appended user turn is excluded; the gateway
// receives it as the standalone user text.
func (m *Manager) chatHistoryLocked() []model.ChatMessage {
	if len(m.history) <= 1 {
		return nil
	}
	msgs := make([]model.ChatMessage, 0, len(m.history)-1)
	for _, t := range m.history[:len(m.history)-1] {
		role := model.ChatRoleUser
		if t.Speaker == model.SpeakerAgent {
			role = model.ChatRoleAssistant
		}
		msgs = append(msgs, model.ChatMessage{Role: role, Content: t.Text})
	}
	return msgs
}

func (m *Manager) snapshotLocked() model.SessionSnapshot {
	snap := model.SessionSnapshot{
		Active:           m.active,
		CurrentAgentText: m.agentText,
		AudioActivity:    m.activity,
		Busy:             m.busy,
		AudioURL:         m.audioURL,
	}
	if m.active {
		snap.LanguageCode = m.lang.Code
		snap.LanguageName = m.lang.Name
	}
	if len(m.history) > 0 {
		snap.History = make([]model.ConversationTurn, len(m.history))
		copy(snap.History, m.history)
	}
	return snap
}

// IsGatewayFailure reports whether err is a vendor failure that was already
// degraded gracefully (apology appended) rather than a precondition error.
func IsGatewayFailure(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, model.ErrValidation) &&
		!errors.Is(err, model.ErrBusy) &&
		!errors.Is(err, model.ErrNoSession) &&
		!errors.Is(err, model.ErrSessionActive)
}
