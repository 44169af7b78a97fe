package contract

import (
	"context"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
)

//go:generate mockgen -package mocks -destination ../../../mocks/service.go -source service.go

// ReminderService is the only entry point the rest of the bot uses to
// manage reminders.
type ReminderService interface {
	Add(ctx context.Context, userID, userName, message string, scheduledFor time.Time) (string, error)
	AddFromIntent(ctx context.Context, userID, userName string, intent *entity.ReminderIntent) (*entity.Reminder, error)
	ListByUser(ctx context.Context, userID string, filter *entity.ReminderFilter) ([]*entity.Reminder, error)
	DeleteByID(ctx context.Context, id, userID string) (bool, error)
	DeleteByCriteria(ctx context.Context, userID string, criteria entity.DeleteCriteria) (*entity.DeleteResult, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	Stats(ctx context.Context) (*entity.ReminderStats, error)
	FormatList(reminders []*entity.Reminder) string
}
