package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
)

var intentLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate reads an ISO-8601 date. Values without a zone are read in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, domain.ErrInvalidDate
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range intentLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, value)
}

// FormatNotification is the text delivered when a reminder fires.
func FormatNotification(reminder *entity.Reminder) string {
	return fmt.Sprintf("🔔 *Lembrete:* %s", reminder.Message)
}

// FormatList renders reminders for display: duplicates of the same message
// at the same instant collapse, entries are sorted by due time.
func FormatList(reminders []*entity.Reminder, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	type key struct {
		message string
		at      int64
	}
	seen := make(map[key]bool, len(reminders))
	unique := make([]*entity.Reminder, 0, len(reminders))
	for _, r := range reminders {
		k := key{message: r.Message, at: r.ScheduledFor.UnixMilli()}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, r)
	}

	if len(unique) == 0 {
		return domain.EmptyListMessage
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].ScheduledFor.Before(unique[j].ScheduledFor)
	})

	var b strings.Builder
	b.WriteString("*Seus lembretes:*\n")
	for i, r := range unique {
		fmt.Fprintf(&b, "%d. %s - %s (%s)\n",
			i+1,
			r.Message,
			r.ScheduledFor.In(loc).Format(domain.DisplayLayout),
			RelativeTime(r.ScheduledFor, now),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RelativeTime describes how far at is from now in days, hours or minutes.
func RelativeTime(at, now time.Time) string {
	d := at.Sub(now)
	if d < time.Minute {
		return "agora"
	}

	if days := int(d / (24 * time.Hour)); days > 0 {
		return fmt.Sprintf("em %d %s", days, plural(days, "dia", "dias"))
	}
	if hours := int(d / time.Hour); hours > 0 {
		return fmt.Sprintf("em %d %s", hours, plural(hours, "hora", "horas"))
	}
	minutes := int(d / time.Minute)
	return fmt.Sprintf("em %d %s", minutes, plural(minutes, "minuto", "minutos"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
