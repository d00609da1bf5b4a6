package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
)

// DefaultAPIBase is the production Telegram Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// Sender is the outbound Telegram surface the dispatcher needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

// Client talks to the Telegram Bot API over HTTP.
type Client struct {
	httpClient *http.Client
	apiBase    string
	token      string
}

// NewClient builds a Telegram client. apiBase falls back to the production
// endpoint when empty.
func NewClient(token, apiBase string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token required")
	}
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    apiBase,
		token:      token,
	}, nil
}

type sendMessageRequest struct {
	ChatID      int64                 `json:"chat_id"`
	Text        string                `json:"text"`
	ParseMode   string                `json:"parse_mode,omitempty"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type answerCallbackRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
}

type chatActionRequest struct {
	ChatID int64  `json:"chat_id"`
	Action string `json:"action"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: markup,
	})
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", answerCallbackRequest{CallbackQueryID: callbackID})
}

func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return c.call(ctx, "sendChatAction", chatActionRequest{ChatID: chatID, Action: action})
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode telegram request")
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "telegram request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read telegram response")
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode telegram response")
	}
	if !parsed.OK {
		msg := parsed.Description
		if msg == "" {
			msg = fmt.Sprintf("telegram api status %d", resp.StatusCode)
		}
		return pkgerrors.New(pkgerrors.CodeDependency, msg)
	}
	return nil
}
