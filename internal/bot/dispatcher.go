package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/juvshop/juv-backend/internal/assistant"
	"github.com/juvshop/juv-backend/internal/session"
	"github.com/juvshop/juv-backend/pkg/enums"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
	"github.com/juvshop/juv-backend/pkg/metrics"
)

type userStore interface {
	Ensure(ctx context.Context, telegramID int64, username, firstName *string) error
	Count(ctx context.Context) (int64, error)
}

type orderCounter interface {
	Count(ctx context.Context) (int64, error)
}

type activityLog interface {
	Record(ctx context.Context, telegramID int64, username *string, action enums.ActionType, metadata map[string]any)
	CountSince(ctx context.Context, cutoff time.Time) (int64, error)
}

// Dispatcher routes webhook updates to command, callback, and free-text
// handlers. Every handled update produces exactly one reply; internal
// failures degrade to an apology message instead of silence.
type Dispatcher struct {
	sender    Sender
	sessions  session.Service
	assistant assistant.Service
	users     userStore
	orders    orderCounter
	activity  activityLog
	logg      *logger.Logger
	metrics   *metrics.BotMetrics

	webAppURL   string
	adminChatID int64
}

// DispatcherParams collects the dispatcher dependencies.
type DispatcherParams struct {
	Sender      Sender
	Sessions    session.Service
	Assistant   assistant.Service
	Users       userStore
	Orders      orderCounter
	Activity    activityLog
	Logger      *logger.Logger
	Metrics     *metrics.BotMetrics
	WebAppURL   string
	AdminChatID int64
}

// NewDispatcher builds the update dispatcher.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Sender == nil {
		return nil, fmt.Errorf("telegram sender required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session service required")
	}
	if params.Assistant == nil {
		return nil, fmt.Errorf("assistant service required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order counter required")
	}
	if params.Activity == nil {
		return nil, fmt.Errorf("activity log required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.WebAppURL == "" {
		return nil, fmt.Errorf("webapp url required")
	}
	return &Dispatcher{
		sender:      params.Sender,
		sessions:    params.Sessions,
		assistant:   params.Assistant,
		users:       params.Users,
		orders:      params.Orders,
		activity:    params.Activity,
		logg:        params.Logger,
		metrics:     params.Metrics,
		webAppURL:   params.WebAppURL,
		adminChatID: params.AdminChatID,
	}, nil
}

// HandleUpdate processes one webhook update. It never returns an error:
// the webhook acknowledges Telegram regardless, so failures end here as
// logs and fallback replies.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update Update) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		d.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	default:
		d.metrics.IncUpdate("ignored")
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *Message) {
	from := msg.From
	chatID := msg.Chat.ID
	ctx = d.logg.WithChatID(ctx, chatID)

	if err := d.users.Ensure(ctx, from.ID, from.Username, firstNamePtr(from)); err != nil {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "user.ensure.failed")
	}

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "/") {
		d.metrics.IncUpdate("command")
		d.handleCommand(ctx, from, chatID, commandName(text))
		return
	}
	d.metrics.IncUpdate("text")
	d.handleFreeText(ctx, from, chatID, text)
}

func (d *Dispatcher) handleCommand(ctx context.Context, from *User, chatID int64, command string) {
	switch command {
	case "/start":
		d.activity.Record(ctx, from.ID, from.Username, enums.ActionStartBot, nil)
		d.reply(ctx, chatID, welcomeText(from.FirstName), nil)
	case "/shop":
		d.activity.Record(ctx, from.ID, from.Username, enums.ActionOpenWebApp, nil)
		d.reply(ctx, chatID, shopText, shopKeyboard(d.webAppURL))
	case "/assistant":
		d.activateAssistant(ctx, from, chatID, assistantActivatedText)
	case "/stop":
		wasActive, err := d.sessions.Deactivate(ctx, from.ID)
		if err != nil {
			d.logg.Error(ctx, "session.deactivate.failed", err)
			d.reply(ctx, chatID, assistantErrorText, nil)
			return
		}
		if wasActive {
			d.activity.Record(ctx, from.ID, from.Username, enums.ActionStopSupport, nil)
			d.reply(ctx, chatID, assistantStoppedText, nil)
			return
		}
		d.reply(ctx, chatID, assistantNotActiveText, nil)
	case "/menu":
		d.activity.Record(ctx, from.ID, from.Username, enums.ActionOpenMenu, nil)
		d.reply(ctx, chatID, menuText, menuKeyboard(d.webAppURL, d.isAdmin(from.ID)))
	case "/help":
		d.reply(ctx, chatID, helpText, nil)
	case "/stats":
		d.replyStats(ctx, from.ID, chatID)
	default:
		d.reply(ctx, chatID, unknownCommandText, nil)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, query *CallbackQuery) {
	d.metrics.IncUpdate("callback")

	chatID := query.From.ID
	if query.Message != nil {
		chatID = query.Message.Chat.ID
	}
	ctx = d.logg.WithChatID(ctx, chatID)

	switch query.Data {
	case "help_assistant":
		d.activateAssistant(ctx, query.From, chatID, assistantHelpText)
	case "info":
		d.reply(ctx, chatID, infoText, nil)
	case "stats":
		d.replyStats(ctx, query.From.ID, chatID)
	}

	// Clears the client-side loading state; a failure here is cosmetic.
	if err := d.sender.AnswerCallbackQuery(ctx, query.ID); err != nil {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "callback.answer.failed")
	}
}

func (d *Dispatcher) handleFreeText(ctx context.Context, from *User, chatID int64, text string) {
	active, err := d.sessions.Active(ctx, from.ID)
	if err != nil {
		d.logg.Error(ctx, "session.load.failed", err)
		d.reply(ctx, chatID, assistantErrorText, nil)
		return
	}
	if !active || text == "" {
		d.reply(ctx, chatID, idleHintText, nil)
		return
	}

	d.activity.Record(ctx, from.ID, from.Username, enums.ActionAIQuestion, map[string]any{"question": text})

	if err := d.sender.SendChatAction(ctx, chatID, "typing"); err != nil {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "chat_action.failed")
	}

	history, err := d.sessions.History(ctx, from.ID)
	if err != nil {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "session.history.failed")
	}

	answer, err := d.assistant.Ask(ctx, text, history)
	if err != nil {
		d.logg.Error(ctx, "assistant.ask.failed", err)
		d.activity.Record(ctx, from.ID, from.Username, enums.ActionAIError, map[string]any{
			"question": text,
			"error":    err.Error(),
		})
		d.reply(ctx, chatID, assistantErrorText, nil)
		return
	}

	// A /stop racing the completion call leaves the session idle; the
	// answer is still delivered, only the history write is skipped.
	if err := d.sessions.RecordExchange(ctx, from.ID, text, answer); err != nil &&
		!pkgerrors.HasCode(err, pkgerrors.CodeInvalidState) {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "session.record.failed")
	}

	d.activity.Record(ctx, from.ID, from.Username, enums.ActionAIResponse, map[string]any{
		"question": text,
		"response": snippet(answer, 100),
	})
	d.reply(ctx, chatID, assistantReplyText(answer), nil)
}

func (d *Dispatcher) activateAssistant(ctx context.Context, from *User, chatID int64, text string) {
	d.activity.Record(ctx, from.ID, from.Username, enums.ActionCallSupport, nil)
	if err := d.sessions.Activate(ctx, from.ID); err != nil {
		d.logg.Error(ctx, "session.activate.failed", err)
		d.reply(ctx, chatID, assistantErrorText, nil)
		return
	}
	d.reply(ctx, chatID, text, nil)
}

func (d *Dispatcher) replyStats(ctx context.Context, userID, chatID int64) {
	if !d.isAdmin(userID) {
		d.reply(ctx, chatID, statsForbiddenText, nil)
		return
	}

	userCount, err := d.users.Count(ctx)
	if err != nil {
		d.logg.Error(ctx, "stats.users.failed", err)
		d.reply(ctx, chatID, statsErrorText, nil)
		return
	}
	orderCount, err := d.orders.Count(ctx)
	if err != nil {
		d.logg.Error(ctx, "stats.orders.failed", err)
		d.reply(ctx, chatID, statsErrorText, nil)
		return
	}
	dayActivity, err := d.activity.CountSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		d.logg.Error(ctx, "stats.activity.failed", err)
		d.reply(ctx, chatID, statsErrorText, nil)
		return
	}

	d.reply(ctx, chatID, statsText(userCount, orderCount, dayActivity), nil)
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) {
	if err := d.sender.SendMessage(ctx, chatID, text, markup); err != nil {
		d.logg.Error(ctx, "telegram.send.failed", err)
	}
}

func (d *Dispatcher) isAdmin(userID int64) bool {
	return d.adminChatID != 0 && userID == d.adminChatID
}

// commandName strips arguments and the @botname suffix.
func commandName(text string) string {
	command := strings.Fields(text)[0]
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return command
}

func firstNamePtr(from *User) *string {
	if from.FirstName == "" {
		return nil
	}
	name := from.FirstName
	return &name
}

func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
