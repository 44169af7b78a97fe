package contract

import (
	"context"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
)

//go:generate mockgen -package mocks -destination ../../../mocks/notifier.go -source notifier.go

// Notifier delivers a text to a single user. Delivery is best effort.
type Notifier interface {
	Send(ctx context.Context, userID, text string) error
}

// TextCompleter is a language model able to answer a single prompt.
type TextCompleter interface {
	IsConfigured() bool
	Complete(ctx context.Context, instructions, input string) (string, error)
}

// IntentParser turns free text into a reminder intent. It returns nil when
// the text does not ask for a reminder.
type IntentParser interface {
	Parse(ctx context.Context, text string, now time.Time) (*entity.ReminderIntent, error)
}
