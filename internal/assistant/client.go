package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/juvshop/juv-backend/internal/session"
	"github.com/juvshop/juv-backend/pkg/config"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
	"github.com/juvshop/juv-backend/pkg/metrics"
)

// Service answers jewelry questions through a chat-completions API,
// threading the caller's recent conversation history into the request.
type Service interface {
	Ask(ctx context.Context, question string, history []session.Turn) (string, error)
}

type service struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logg       *logger.Logger
	metrics    *metrics.BotMetrics
}

// NewService builds the completion client from config.
func NewService(cfg config.AssistantConfig, logg *logger.Logger, botMetrics *metrics.BotMetrics) (Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("assistant api key required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &service{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logg:       logg,
		metrics:    botMetrics,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (s *service) Ask(ctx context.Context, question string, history []session.Turn) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "question must not be empty")
	}

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: question})

	payload, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build completion request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := s.httpClient.Do(req)
	s.metrics.ObserveAssistant(time.Since(started))
	if err != nil {
		s.metrics.IncAssistantFailure()
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "completion request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		s.metrics.IncAssistantFailure()
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read completion response")
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		s.metrics.IncAssistantFailure()
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode completion response")
	}
	if resp.StatusCode != http.StatusOK {
		s.metrics.IncAssistantFailure()
		msg := fmt.Sprintf("completion api status %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", pkgerrors.New(pkgerrors.CodeDependency, msg)
	}
	if len(parsed.Choices) == 0 {
		s.metrics.IncAssistantFailure()
		return "", pkgerrors.New(pkgerrors.CodeDependency, "completion response has no choices")
	}

	answer := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if answer == "" {
		s.metrics.IncAssistantFailure()
		return "", pkgerrors.New(pkgerrors.CodeDependency, "completion response is empty")
	}
	return truncateRunes(answer, replyLimit), nil
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
