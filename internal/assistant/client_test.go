package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juvshop/juv-backend/internal/session"
	"github.com/juvshop/juv-backend/pkg/config"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewService(config.AssistantConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Model:          "gpt-4o",
		RequestTimeout: 2 * time.Second,
	}, logger.New(logger.Options{ServiceName: "test"}), nil)
	require.NoError(t, err)
	return svc
}

func completionBody(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func TestAskSendsHistoryAndSystemPrompt(t *testing.T) {
	var captured chatRequest
	svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("Рекомендую кольцо из белого золота.")))
	})

	history := []session.Turn{
		{Role: session.RoleUser, Text: "Какие камни подходят к зелёным глазам?"},
		{Role: session.RoleAssistant, Text: "Изумруды и перидоты."},
	}
	answer, err := svc.Ask(context.Background(), "А из металлов?", history)
	require.NoError(t, err)
	assert.Equal(t, "Рекомендую кольцо из белого золота.", answer)

	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "JUV")
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
	assert.Equal(t, "А из металлов?", captured.Messages[3].Content)
	assert.Equal(t, maxTokens, captured.MaxTokens)
	assert.InDelta(t, temperature, captured.Temperature, 0.001)
}

func TestAskTruncatesLongReplies(t *testing.T) {
	long := strings.Repeat("о", 800)
	svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody(long)))
	})

	answer, err := svc.Ask(context.Background(), "Расскажите про пробы", nil)
	require.NoError(t, err)
	assert.Equal(t, replyLimit, len([]rune(answer)))
	assert.True(t, strings.HasSuffix(answer, "…"))
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := svc.Ask(context.Background(), "   ", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestAskAPIErrorIsDependencyError(t *testing.T) {
	svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit"}}`))
	})

	_, err := svc.Ask(context.Background(), "Вопрос", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestAskTimeoutIsDependencyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	svc, err := NewService(config.AssistantConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Model:          "gpt-4o",
		RequestTimeout: 20 * time.Millisecond,
	}, logger.New(logger.Options{ServiceName: "test"}), nil)
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), "Вопрос", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresAPIKey(t *testing.T) {
	_, err := NewService(config.AssistantConfig{}, logger.New(logger.Options{ServiceName: "test"}), nil)
	require.Error(t, err)
}
