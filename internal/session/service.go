package session

import (
	"context"
	"fmt"

	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
)

// Service enforces the conversation-mode state machine and the history cap.
type Service interface {
	// Activate puts the user into assistant mode and clears any stale
	// history. Calling it while already active is a no-op beyond the clear.
	Activate(ctx context.Context, telegramID int64) error
	// Deactivate returns the user to idle and clears history. The returned
	// bool reports whether the assistant was active, so callers can pick a
	// different acknowledgement message.
	Deactivate(ctx context.Context, telegramID int64) (bool, error)
	// RecordExchange appends one question/answer pair, evicting the oldest
	// pairs beyond the cap. It fails with an invalid-state error when the
	// user is not in assistant mode.
	RecordExchange(ctx context.Context, telegramID int64, userText, assistantText string) error
	// History returns the ordered prior turns, empty when no session exists.
	History(ctx context.Context, telegramID int64) ([]Turn, error)
	// Active reports whether the user is currently in assistant mode.
	Active(ctx context.Context, telegramID int64) (bool, error)
}

type service struct {
	store Store
}

// NewService builds a session service over the provided store.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{store: store}, nil
}

func (s *service) Activate(ctx context.Context, telegramID int64) error {
	// History is cleared unconditionally on every activation so a fresh
	// conversation never sees stale turns.
	record := &Record{Mode: ModeAwaitingInput}
	if err := s.store.Save(ctx, telegramID, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate assistant")
	}
	return nil
}

func (s *service) Deactivate(ctx context.Context, telegramID int64) (bool, error) {
	record, err := s.store.Load(ctx, telegramID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	wasActive := record != nil && record.Mode == ModeAwaitingInput
	if err := s.store.Delete(ctx, telegramID); err != nil {
		return wasActive, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate assistant")
	}
	return wasActive, nil
}

func (s *service) RecordExchange(ctx context.Context, telegramID int64, userText, assistantText string) error {
	record, err := s.store.Load(ctx, telegramID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if record == nil || record.Mode != ModeAwaitingInput {
		return pkgerrors.New(pkgerrors.CodeInvalidState, "assistant is not active")
	}

	record.History = append(record.History,
		Turn{Role: RoleUser, Text: userText},
		Turn{Role: RoleAssistant, Text: assistantText},
	)
	// Evict whole exchanges so the history always starts with a user turn.
	for len(record.History) > HistoryCap {
		record.History = record.History[2:]
	}

	if err := s.store.Save(ctx, telegramID, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	return nil
}

func (s *service) History(ctx context.Context, telegramID int64) ([]Turn, error) {
	record, err := s.store.Load(ctx, telegramID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if record == nil {
		return nil, nil
	}
	return record.History, nil
}

func (s *service) Active(ctx context.Context, telegramID int64) (bool, error) {
	record, err := s.store.Load(ctx, telegramID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return record != nil && record.Mode == ModeAwaitingInput, nil
}
