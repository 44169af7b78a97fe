package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
	"github.com/diegoclair/team-assistant-bot/internal/domain/matcher"
)

var _ contract.ReminderService = (*reminderService)(nil)

type reminderService struct {
	dm        contract.DataManager
	scheduler *scheduler
	semantic  *matcher.Semantic
	opts      Options
	now       func() time.Time
}

func newReminder(dm contract.DataManager, scheduler *scheduler, semantic *matcher.Semantic, opts Options) *reminderService {
	return &reminderService{
		dm:        dm,
		scheduler: scheduler,
		semantic:  semantic,
		opts:      opts.withDefaults(),
		now:       time.Now,
	}
}

func (s *reminderService) Add(ctx context.Context, userID, userName, message string, scheduledFor time.Time) (string, error) {
	reminder, err := s.add(ctx, userID, userName, message, scheduledFor)
	if err != nil {
		return "", err
	}
	return reminder.ID, nil
}

func (s *reminderService) AddFromIntent(ctx context.Context, userID, userName string, intent *entity.ReminderIntent) (*entity.Reminder, error) {
	if intent == nil {
		return nil, domain.ErrNoIntent
	}

	scheduledFor, err := ParseDate(intent.Date, s.opts.Location)
	if err != nil {
		return nil, err
	}

	return s.add(ctx, userID, userName, intent.Message, scheduledFor)
}

func (s *reminderService) add(ctx context.Context, userID, userName, message string, scheduledFor time.Time) (*entity.Reminder, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	if scheduledFor.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if scheduledFor.Sub(s.now()) < s.opts.MinLeadTime {
		return nil, domain.ErrTooSoon
	}

	reminder := &entity.Reminder{
		UserID:       userID,
		UserName:     userName,
		Message:      message,
		ScheduledFor: scheduledFor.UTC(),
	}

	if err := s.dm.Reminder().Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	// durable first, then armed; a lost arm is recovered by the sweep
	if !s.scheduler.Arm(reminder) {
		log.Printf("Reminder %s stored but not armed, sweep will pick it up", reminder.ID)
	}

	log.Printf("Reminder %s created for user %s at %s", reminder.ID, userID, reminder.ScheduledFor.Format(time.RFC3339))
	return reminder, nil
}

func (s *reminderService) ListByUser(ctx context.Context, userID string, filter *entity.ReminderFilter) ([]*entity.Reminder, error) {
	reminders, err := s.dm.Reminder().GetPendingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].ScheduledFor.Before(reminders[j].ScheduledFor)
	})

	if filter.IsEmpty() {
		return reminders, nil
	}

	if filter.Date != nil {
		reminders = matcher.ByDateWindow(reminders, *filter.Date, domain.DefaultWindowHours)
	}
	for _, query := range []string{filter.Keyword, filter.Description} {
		if query != "" {
			reminders = s.semantic.Select(ctx, reminders, query, 0)
		}
	}

	return reminders, nil
}

// DeleteByID removes a pending reminder owned by userID. Reminders owned by
// someone else are reported as not found.
func (s *reminderService) DeleteByID(ctx context.Context, id, userID string) (bool, error) {
	reminder, err := s.dm.Reminder().GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get reminder: %w", err)
	}
	if reminder == nil || reminder.UserID != userID || !reminder.Pending() {
		return false, nil
	}

	return s.scheduler.Cancel(ctx, id)
}

func (s *reminderService) DeleteByCriteria(ctx context.Context, userID string, criteria entity.DeleteCriteria) (*entity.DeleteResult, error) {
	var targets []*entity.Reminder

	if len(criteria.IDs) > 0 {
		for _, id := range criteria.IDs {
			reminder, err := s.dm.Reminder().GetByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to get reminder: %w", err)
			}
			if reminder != nil && reminder.UserID == userID && reminder.Pending() {
				targets = append(targets, reminder)
			}
		}
	} else {
		candidates, err := s.dm.Reminder().GetPendingByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list reminders: %w", err)
		}
		if len(candidates) == 0 {
			return &entity.DeleteResult{Message: domain.EmptyListMessage}, nil
		}

		if !hasCriteria(criteria) {
			return &entity.DeleteResult{Message: "Informe o que devo apagar: id, data, texto ou descrição."}, nil
		}
		targets = matcher.Limit(s.selectTargets(ctx, candidates, criteria), criteria.Count)
	}

	if len(targets) == 0 {
		return &entity.DeleteResult{Message: "Nenhum lembrete corresponde ao que você pediu."}, nil
	}

	deleted, err := s.deleteReminders(ctx, targets)
	if err != nil {
		return nil, err
	}

	result := &entity.DeleteResult{
		Success:         len(deleted) > 0,
		DeletedIDs:      make([]string, 0, len(deleted)),
		DeletedMessages: make([]string, 0, len(deleted)),
		Count:           len(deleted),
	}
	for _, r := range deleted {
		result.DeletedIDs = append(result.DeletedIDs, r.ID)
		result.DeletedMessages = append(result.DeletedMessages, r.Message)
	}

	if result.Success {
		result.Message = fmt.Sprintf("%d %s.", result.Count, plural(result.Count, "lembrete removido", "lembretes removidos"))
	} else {
		result.Message = "Nenhum lembrete foi removido."
	}

	return result, nil
}

func hasCriteria(c entity.DeleteCriteria) bool {
	return c.Date != nil || strings.TrimSpace(c.Message) != "" || strings.TrimSpace(c.Description) != ""
}

// selectTargets narrows candidates by every criterion given: date window,
// literal message keywords, then free-text description.
func (s *reminderService) selectTargets(ctx context.Context, candidates []*entity.Reminder, c entity.DeleteCriteria) []*entity.Reminder {
	targets := candidates
	if c.Date != nil {
		targets = matcher.ByDateWindow(targets, *c.Date, domain.DefaultWindowHours)
	}
	if message := strings.TrimSpace(c.Message); message != "" {
		targets = matcher.ByKeyword(targets, message)
	}
	if description := strings.TrimSpace(c.Description); description != "" {
		targets = s.semantic.Select(ctx, targets, description, 0)
	}
	return targets
}

// deleteReminders deletes targets in one transaction and only then disarms
// them. A failed transaction leaves every target pending and still armed; a
// timer firing mid-transaction re-reads the store and sees the outcome.
func (s *reminderService) deleteReminders(ctx context.Context, targets []*entity.Reminder) ([]*entity.Reminder, error) {
	var deleted []*entity.Reminder
	err := s.dm.WithTransaction(ctx, func(tx contract.DataManager) error {
		deleted = deleted[:0]
		for _, r := range targets {
			ok, err := tx.Reminder().Delete(ctx, r.ID)
			if err != nil {
				return err
			}
			if ok {
				deleted = append(deleted, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete reminders: %w", err)
	}

	// targets missing from deleted were already gone, so their timers are stale too
	for _, r := range targets {
		s.scheduler.Disarm(r.ID)
	}

	return deleted, nil
}

// DeleteAllByUser disarms the user's timers once the rows are gone. Timers
// firing in between find nothing in the store.
func (s *reminderService) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	count, err := s.dm.Reminder().DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user reminders: %w", err)
	}

	s.scheduler.DisarmUser(userID)
	return count, nil
}

func (s *reminderService) Stats(ctx context.Context) (*entity.ReminderStats, error) {
	stats, err := s.dm.Reminder().Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder stats: %w", err)
	}
	return stats, nil
}

func (s *reminderService) FormatList(reminders []*entity.Reminder) string {
	return FormatList(reminders, s.now(), s.opts.Location)
}
