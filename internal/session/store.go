package session

import "context"

// Store persists per-user conversation records. Implementations return
// (nil, nil) from Load when no record exists.
type Store interface {
	Load(ctx context.Context, telegramID int64) (*Record, error)
	Save(ctx context.Context, telegramID int64, record *Record) error
	Delete(ctx context.Context, telegramID int64) error
}
