// Package gateway adapts the external speech/text vendor: one operation
// maps a user utterance plus history to an agent reply, the other maps text
// to a synthesized audio file served under the public audio path.
package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/AlizayAyesha/voxly/internal/gateway/prompts"
	"github.com/AlizayAyesha/voxly/internal/model"
)

// PublicAudioPath is the URL prefix audio files are served from.
const PublicAudioPath = "/audio/"

// Fallback voice when a language has no dedicated entry.
const defaultVoice = "alloy"

// languageVoices maps a locale code or English name to a vendor voice.
// Every observed language currently shares the neutral voice.
var languageVoices = map[string]string{
	"Spanish": "alloy",
	"Urdu":    "alloy",
	"Arabic":  "alloy",
	"French":  "alloy",
	"German":  "alloy",
	"Chinese": "alloy",
	"English": "alloy",
}

// ReplyGenerationError wraps a failed reply call. Callers are expected to
// supply a fallback utterance instead of surfacing this to the user.
type ReplyGenerationError struct {
	Err error
}

func (e *ReplyGenerationError) Error() string {
	return "reply generation failed: " + e.Err.Error()
}

func (e *ReplyGenerationError) Unwrap() error { return e.Err }

// SynthesisError wraps a failed speech synthesis call. Playback is skipped
// on failure; the conversation must not block on it.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return "speech synthesis failed: " + e.Err.Error()
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Client wraps an OpenAI-compatible API client for replies and TTS.
type Client struct {
	api       *openai.Client
	chatModel string
	ttsModel  string
	audioDir  string
}

// New creates a gateway client and ensures the audio directory exists.
func New(baseURL, apiKey, chatModel, ttsModel, audioDir string) (*Client, error) {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &Client{
		api:       openai.NewClientWithConfig(config),
		chatModel: chatModel,
		ttsModel:  ttsModel,
		audioDir:  audioDir,
	}, nil
}

// Ping verifies the vendor endpoint is reachable and the key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("vendor health check: %w", err)
	}
	return nil
}

// Reply sends the user's utterance and prior history to the vendor and
// returns the agent's reply text. languageName must be one of the fixed
// teaching profiles; callers validate this before the call.
func (c *Client) Reply(ctx context.Context, userText string, history []model.ChatMessage, languageName string) (string, error) {
	if _, ok := prompts.ProfileFor(languageName); !ok {
		return "", &ReplyGenerationError{Err: fmt.Errorf("no teaching profile for language %q", languageName)}
	}

	chatMsgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompts.System()},
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == model.ChatRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chatMsgs = append(chatMsgs, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	chatMsgs = append(chatMsgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    chatMsgs,
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return "", &ReplyGenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ReplyGenerationError{Err: fmt.Errorf("vendor returned no choices")}
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		reply = "I didn't catch that. Could you please repeat?"
	}
	slog.Debug("reply generated", "language", languageName, "chars", len(reply))
	return reply, nil
}

// Synthesize converts text to speech, writes the mp3 under the audio
// directory, and returns its public URL. There is no cleanup policy for
// generated files.
func (c *Client) Synthesize(ctx context.Context, text, language string) (string, error) {
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(c.ttsModel),
		Input: text,
		Voice: openai.SpeechVoice(VoiceFor(language)),
	})
	if err != nil {
		return "", &SynthesisError{Err: err}
	}
	defer resp.Close()

	filename := audioFilename()
	f, err := os.Create(filepath.Join(c.audioDir, filename))
	if err != nil {
		return "", &SynthesisError{Err: fmt.Errorf("create audio file: %w", err)}
	}
	defer f.Close()

	if _, err := io.Copy(f, resp); err != nil {
		return "", &SynthesisError{Err: fmt.Errorf("write audio file: %w", err)}
	}

	slog.Debug("audio synthesized", "file", filename, "language", language)
	return PublicAudioPath + filename, nil
}

// AudioDir returns the directory synthesized files are written to.
func (c *Client) AudioDir() string { return c.audioDir }

// VoiceFor returns the vendor voice for a language, defaulting to the
// neutral voice.
func VoiceFor(language string) string {
	if v, ok := languageVoices[language]; ok {
		return v
	}
	return defaultVoice
}

// audioFilename generates a unique mp3 name: tts-<epoch millis>-<suffix>.mp3.
func audioFilename() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("tts-%d-%s.mp3", time.Now().UnixMilli(), suffix)
}
