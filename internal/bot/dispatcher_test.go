package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juvshop/juv-backend/internal/session"
	"github.com/juvshop/juv-backend/pkg/enums"
	"github.com/juvshop/juv-backend/pkg/logger"
)

const (
	testAdminID int64 = 195830791
	testUserID  int64 = 42
)

type sentMessage struct {
	ChatID int64
	Text   string
	Markup *InlineKeyboardMarkup
}

type stubSender struct {
	sent      []sentMessage
	answered  []string
	actions   []string
	sendErr   error
	answerErr error
}

func (s *stubSender) SendMessage(_ context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, sentMessage{ChatID: chatID, Text: text, Markup: markup})
	return nil
}

func (s *stubSender) AnswerCallbackQuery(_ context.Context, callbackID string) error {
	s.answered = append(s.answered, callbackID)
	return s.answerErr
}

func (s *stubSender) SendChatAction(_ context.Context, _ int64, action string) error {
	s.actions = append(s.actions, action)
	return nil
}

type stubAssistant struct {
	answer string
	err    error
	asked  []string
	seen   [][]session.Turn
}

func (s *stubAssistant) Ask(_ context.Context, question string, history []session.Turn) (string, error) {
	s.asked = append(s.asked, question)
	s.seen = append(s.seen, history)
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

type stubUsers struct {
	ensured []int64
	count   int64
}

func (s *stubUsers) Ensure(_ context.Context, telegramID int64, _, _ *string) error {
	s.ensured = append(s.ensured, telegramID)
	return nil
}

func (s *stubUsers) Count(context.Context) (int64, error) { return s.count, nil }

type stubOrders struct{ count int64 }

func (s *stubOrders) Count(context.Context) (int64, error) { return s.count, nil }

type loggedAction struct {
	TelegramID int64
	Action     enums.ActionType
	Metadata   map[string]any
}

type stubActivity struct {
	actions []loggedAction
	daily   int64
}

func (s *stubActivity) Record(_ context.Context, telegramID int64, _ *string, action enums.ActionType, metadata map[string]any) {
	s.actions = append(s.actions, loggedAction{TelegramID: telegramID, Action: action, Metadata: metadata})
}

func (s *stubActivity) CountSince(context.Context, time.Time) (int64, error) {
	return s.daily, nil
}

func (s *stubActivity) actionTypes() []enums.ActionType {
	types := make([]enums.ActionType, 0, len(s.actions))
	for _, action := range s.actions {
		types = append(types, action.Action)
	}
	return types
}

type fixture struct {
	dispatcher *Dispatcher
	sender     *stubSender
	assistant  *stubAssistant
	users      *stubUsers
	activity   *stubActivity
	sessions   session.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sender := &stubSender{}
	assist := &stubAssistant{answer: "Сапфиры хорошо держат повседневную носку."}
	userStub := &stubUsers{count: 7}
	activityStub := &stubActivity{daily: 12}
	sessions, err := session.NewService(session.NewMemoryStore())
	require.NoError(t, err)

	dispatcher, err := NewDispatcher(DispatcherParams{
		Sender:      sender,
		Sessions:    sessions,
		Assistant:   assist,
		Users:       userStub,
		Orders:      &stubOrders{count: 3},
		Activity:    activityStub,
		Logger:      logger.New(logger.Options{ServiceName: "test"}),
		WebAppURL:   "https://juv-app.vercel.app/",
		AdminChatID: testAdminID,
	})
	require.NoError(t, err)

	return &fixture{
		dispatcher: dispatcher,
		sender:     sender,
		assistant:  assist,
		users:      userStub,
		activity:   activityStub,
		sessions:   sessions,
	}
}

func messageUpdate(userID int64, text string) Update {
	username := "juv_fan"
	return Update{
		UpdateID: 1,
		Message: &Message{
			From: &User{ID: userID, Username: &username, FirstName: "Анна"},
			Chat: Chat{ID: userID},
			Text: text,
		},
	}
}

func callbackUpdate(userID int64, data string) Update {
	return Update{
		UpdateID: 2,
		CallbackQuery: &CallbackQuery{
			ID:      "cb-1",
			From:    &User{ID: userID},
			Message: &Message{Chat: Chat{ID: userID}},
			Data:    data,
		},
	}
}

func TestStartCommandWelcomesAndEnsuresUser(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.HandleUpdate(context.Background(), messageUpdate(testUserID, "/start"))

	require.Len(t, f.sender.sent, 1)
	assert.Contains(t, f.sender.sent[0].Text, "Анна")
	assert.Equal(t, []int64{testUserID}, f.users.ensured)
	assert.Equal(t, []enums.ActionType{enums.ActionStartBot}, f.activity.actionTypes())
}

func TestShopCommandSendsWebAppButton(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.HandleUpdate(context.Background(), messageUpdate(testUserID, "/shop"))

	require.Len(t, f.sender.sent, 1)
	markup := f.sender.sent[0].Markup
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 1)
	require.NotNil(t, markup.InlineKeyboard[0][0].WebApp)
	assert.Equal(t, "https://juv-app.vercel.app/", markup.InlineKeyboard[0][0].WebApp.URL)
}

func TestAssistantCommandActivatesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "/assistant"))

	active, err := f.sessions.Active(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, active)
	require.Len(t, f.sender.sent, 1)
	assert.Contains(t, f.sender.sent[0].Text, "активирован")
}

func TestStopCommandReportsWhetherAssistantWasActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "/stop"))
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, assistantNotActiveText, f.sender.sent[0].Text)

	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "/assistant"))
	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "/stop"))
	require.Len(t, f.sender.sent, 3)
	assert.Equal(t, assistantStoppedText, f.sender.sent[2].Text)

	active, err := f.sessions.Active(ctx, testUserID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestFreeTextWhileIdleGetsHintNotAssistant(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.HandleUpdate(context.Background(), messageUpdate(testUserID, "Когда доставка?"))

	assert.Empty(t, f.assistant.asked)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, idleHintText, f.sender.sent[0].Text)
}

func TestFreeTextWhileActiveAsksAssistantAndRecordsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "/assistant"))
	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "Какие камни для кольца?"))

	require.Len(t, f.assistant.asked, 1)
	assert.Equal(t, "Какие камни для кольца?", f.assistant.asked[0])
	assert.Equal(t, []string{"typing"}, f.sender.actions)

	require.Len(t, f.sender.sent, 2)
	assert.Contains(t, f.sender.sent[1].Text, f.assistant.answer)

	history, err := f.sessions.History(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, session.RoleUser, history[0].Role)
	assert.Equal(t, session.RoleAssistant, history[1].Role)

	types := f.activity.actionTypes()
	assert.Contains(t, types, enums.ActionAIQuestion)
	assert.Contains(t, types, enums.ActionAIResponse)
}

func TestSecondQuestionCarriesPriorHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "/assistant"))
	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "Первый вопрос"))
	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "Второй вопрос"))

	require.Len(t, f.assistant.seen, 2)
	assert.Empty(t, f.assistant.seen[0])
	require.Len(t, f.assistant.seen[1], 2)
	assert.Equal(t, "Первый вопрос", f.assistant.seen[1][0].Text)
}

func TestAssistantFailureSendsApologyAndLogsError(t *testing.T) {
	f := newFixture(t)
	f.assistant.err = fmt.Errorf("rate limited")
	ctx := context.Background()

	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "/assistant"))
	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "Вопрос"))

	require.Len(t, f.sender.sent, 2)
	assert.Equal(t, assistantErrorText, f.sender.sent[1].Text)
	assert.Contains(t, f.activity.actionTypes(), enums.ActionAIError)

	history, err := f.sessions.History(ctx, testUserID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestStatsCommandAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "/stats"))
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, statsForbiddenText, f.sender.sent[0].Text)

	f.dispatcher.HandleUpdate(ctx, messageUpdate(testAdminID, "/stats"))
	require.Len(t, f.sender.sent, 2)
	assert.Contains(t, f.sender.sent[1].Text, "Пользователей: 7")
	assert.Contains(t, f.sender.sent[1].Text, "Заказов: 3")
	assert.Contains(t, f.sender.sent[1].Text, "Активность (24ч): 12")
}

func TestMenuShowsStatsButtonOnlyForAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dispatcher.HandleUpdate(ctx, messageUpdate(testUserID, "/menu"))
	f.dispatcher.HandleUpdate(ctx, messageUpdate(testAdminID, "/menu"))

	require.Len(t, f.sender.sent, 2)
	assert.Len(t, f.sender.sent[0].Markup.InlineKeyboard, 3)
	assert.Len(t, f.sender.sent[1].Markup.InlineKeyboard, 4)
}

func TestCallbackHelpAssistantActivatesAndAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dispatcher.HandleUpdate(ctx, callbackUpdate(testUserID, "help_assistant"))

	active, err := f.sessions.Active(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, active)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, assistantHelpText, f.sender.sent[0].Text)
	assert.Equal(t, []string{"cb-1"}, f.sender.answered)
}

func TestCallbackInfoSendsCompanyInfo(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.HandleUpdate(context.Background(), callbackUpdate(testUserID, "info"))

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, infoText, f.sender.sent[0].Text)
	assert.Equal(t, []string{"cb-1"}, f.sender.answered)
}

func TestUnknownCommandGetsHelpPointer(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.HandleUpdate(context.Background(), messageUpdate(testUserID, "/unknown"))

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, unknownCommandText, f.sender.sent[0].Text)
}

func TestCommandWithBotSuffixAndArgs(t *testing.T) {
	assert.Equal(t, "/start", commandName("/start@juv_bot arg"))
	assert.Equal(t, "/help", commandName("/help"))
}

func TestEmptyUpdateIsIgnored(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.HandleUpdate(context.Background(), Update{UpdateID: 9})

	assert.Empty(t, f.sender.sent)
}
