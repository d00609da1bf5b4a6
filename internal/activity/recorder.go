package activity

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/juvshop/juv-backend/pkg/db/models"
	"github.com/juvshop/juv-backend/pkg/enums"
	"github.com/juvshop/juv-backend/pkg/logger"
)

// Recorder writes user activity events. Record is fire-and-forget: the
// write happens on its own goroutine with a fresh deadline, and failures
// are logged, never returned, so business flow is untouched.
type Recorder struct {
	db   *gorm.DB
	logg *logger.Logger
	// sync forces inline writes; used by tests and the stats query path.
	sync bool
}

// NewRecorder builds an async activity recorder.
func NewRecorder(db *gorm.DB, logg *logger.Logger) *Recorder {
	return &Recorder{db: db, logg: logg}
}

// NewSyncRecorder builds a recorder that writes inline. Tests use it to
// observe rows deterministically.
func NewSyncRecorder(db *gorm.DB, logg *logger.Logger) *Recorder {
	return &Recorder{db: db, logg: logg, sync: true}
}

// Record persists one action event for the user.
func (r *Recorder) Record(ctx context.Context, telegramID int64, username *string, action enums.ActionType, metadata map[string]any) {
	if r == nil || r.db == nil {
		return
	}
	entry := models.ActionLog{
		TelegramID:       telegramID,
		TelegramUsername: username,
		ActionType:       action,
		Metadata:         metadata,
	}
	if r.sync {
		r.write(ctx, entry)
		return
	}
	go func() {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		r.write(writeCtx, entry)
	}()
}

func (r *Recorder) write(ctx context.Context, entry models.ActionLog) {
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil && r.logg != nil {
		logCtx := r.logg.WithFields(ctx, map[string]any{
			"action_type": entry.ActionType,
			"telegram_id": entry.TelegramID,
		})
		r.logg.Warn(logCtx, "activity.write.failed")
	}
}

// CountSince returns the number of events recorded at or after the cutoff.
func (r *Recorder) CountSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.ActionLog{}).
		Where("created_at >= ?", cutoff).
		Count(&n).Error
	return n, err
}
