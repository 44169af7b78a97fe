package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
	"github.com/google/uuid"
)

const reminderColumns = `id, user_id, user_name, message, scheduled_for, created_at, sent, sent_at`

type reminderRepo struct {
	db dbConn
}

func newReminderRepo(db dbConn) contract.ReminderRepo {
	return &reminderRepo{db: db}
}

func (r *reminderRepo) Create(ctx context.Context, reminder *entity.Reminder) error {
	query := `
		INSERT INTO reminders (id, user_id, user_name, message, scheduled_for, created_at, sent)
		VALUES (?, ?, ?, ?, ?, ?, 0)
	`

	id := uuid.New().String()
	createdAt := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		id,
		reminder.UserID,
		reminder.UserName,
		reminder.Message,
		formatTime(reminder.ScheduledFor),
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	reminder.ID = id
	reminder.CreatedAt = createdAt.Truncate(time.Millisecond)
	reminder.ScheduledFor = reminder.ScheduledFor.UTC().Truncate(time.Millisecond)
	reminder.Sent = false
	reminder.SentAt = nil
	return nil
}

func (r *reminderRepo) GetByID(ctx context.Context, id string) (*entity.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = ?`

	reminder, err := scanReminder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return reminder, nil
}

func (r *reminderRepo) GetPendingByUser(ctx context.Context, userID string) ([]*entity.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE user_id = ? AND sent = 0
		ORDER BY scheduled_for ASC
	`

	return r.queryReminders(ctx, query, userID)
}

func (r *reminderRepo) GetAllPending(ctx context.Context) ([]*entity.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE sent = 0
		ORDER BY scheduled_for ASC
	`

	return r.queryReminders(ctx, query)
}

func (r *reminderRepo) MarkSent(ctx context.Context, id, userID string) error {
	query := `
		UPDATE reminders SET
			sent = 1,
			sent_at = ?
		WHERE id = ? AND user_id = ? AND sent = 0
	`

	_, err := r.db.ExecContext(ctx, query, formatTime(time.Now()), id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder as sent: %w", err)
	}

	return nil
}

func (r *reminderRepo) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM reminders WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete reminder: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

func (r *reminderRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM reminders WHERE user_id = ? AND sent = 0`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user reminders: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

func (r *reminderRepo) DeleteSentOlderThan(ctx context.Context, days int) (int64, error) {
	query := `DELETE FROM reminders WHERE sent = 1 AND sent_at < ?`

	cutoff := time.Now().AddDate(0, 0, -days)
	result, err := r.db.ExecContext(ctx, query, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old reminders: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

func (r *reminderRepo) Stats(ctx context.Context) (*entity.ReminderStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN sent = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN sent = 1 THEN 1 ELSE 0 END), 0)
		FROM reminders
	`

	stats := &entity.ReminderStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Pending, &stats.Sent)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder stats: %w", err)
	}

	return stats, nil
}

func (r *reminderRepo) queryReminders(ctx context.Context, query string, args ...interface{}) ([]*entity.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*entity.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row rowScanner) (*entity.Reminder, error) {
	reminder := &entity.Reminder{}
	var scheduledFor, createdAt string
	var sentAt sql.NullString

	err := row.Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.UserName,
		&reminder.Message,
		&scheduledFor,
		&createdAt,
		&reminder.Sent,
		&sentAt,
	)
	if err != nil {
		return nil, err
	}

	if reminder.ScheduledFor, err = parseTime(scheduledFor); err != nil {
		return nil, err
	}
	if reminder.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sentAt.Valid {
		t, err := parseTime(sentAt.String)
		if err != nil {
			return nil, err
		}
		reminder.SentAt = &t
	}

	return reminder, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(domain.TimeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(domain.TimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored time %q: %w", value, err)
	}
	return t, nil
}
