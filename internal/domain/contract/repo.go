package contract

import (
	"context"

	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
)

//go:generate mockgen -package mocks -destination ../../../mocks/repo.go -source repo.go

// DataManager aggregates all repository interfaces
type DataManager interface {
	WithTransaction(ctx context.Context, fn func(dm DataManager) error) error
	Reminder() ReminderRepo
}

// ReminderRepo is the durable source of truth for reminders.
// Retirement marks records as sent; listing queries only see unsent rows.
type ReminderRepo interface {
	Create(ctx context.Context, reminder *entity.Reminder) error
	GetByID(ctx context.Context, id string) (*entity.Reminder, error)
	GetPendingByUser(ctx context.Context, userID string) ([]*entity.Reminder, error)
	GetAllPending(ctx context.Context) ([]*entity.Reminder, error)
	MarkSent(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteSentOlderThan(ctx context.Context, days int) (int64, error)
	Stats(ctx context.Context) (*entity.ReminderStats, error)
}
