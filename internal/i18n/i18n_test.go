package i18n

import (
	"context"
	"strings"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "quiz.empty")
	if !strings.Contains(got, "No quiz questions") {
		t.Errorf("T(quiz.empty) = %q", got)
	}

	got = T(ctx, "session.none")
	if !strings.Contains(got, "No conversation is active") {
		t.Errorf("T(session.none) = %q", got)
	}
}

func TestTranslateSpanish(t *testing.T) {
	ctx := initLang(t, "es")

	got := T(ctx, "quiz.empty")
	if !strings.Contains(got, "Aún no hay preguntas") {
		t.Errorf("T(quiz.empty) = %q", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "quiz.completed", map[string]any{"Score": 2, "Total": 3})
	if got != "Quiz completed: 2 of 3 correct." {
		t.Errorf("Td(quiz.completed) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "does.not.exist")
	if got != "does.not.exist" {
		t.Errorf("T on missing key = %q, want the key itself", got)
	}
}
