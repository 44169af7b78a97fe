package service

import (
	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
	"github.com/diegoclair/team-assistant-bot/internal/domain/matcher"
)

type Instance struct {
	Reminder  *reminderService
	Scheduler *scheduler
}

// NewInstance wires the scheduler and the reminder facade around the same
// store and notifier. completer may be nil; matching then uses keywords only.
func NewInstance(dm contract.DataManager, notifier contract.Notifier, completer contract.TextCompleter, opts Options) *Instance {
	scheduler := newScheduler(dm, notifier, opts)

	return &Instance{
		Reminder:  newReminder(dm, scheduler, matcher.NewSemantic(completer), opts),
		Scheduler: scheduler,
	}
}
