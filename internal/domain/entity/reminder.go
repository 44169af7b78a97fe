package entity

import "time"

// Reminder is a user-owned notification due at ScheduledFor.
type Reminder struct {
	ID           string
	UserID       string
	UserName     string
	Message      string
	ScheduledFor time.Time
	CreatedAt    time.Time
	Sent         bool
	SentAt       *time.Time
}

// Pending reports whether the reminder has not been retired yet.
func (r *Reminder) Pending() bool {
	return !r.Sent
}

type ReminderStats struct {
	Total   int64
	Pending int64
	Sent    int64
}

// ReminderFilter narrows a user's pending list. Zero values are ignored.
type ReminderFilter struct {
	Date        *time.Time
	Keyword     string
	Description string
}

// IsEmpty reports whether no filter dimension is set.
func (f *ReminderFilter) IsEmpty() bool {
	return f == nil || (f.Date == nil && f.Keyword == "" && f.Description == "")
}

// DeleteCriteria selects reminders for bulk deletion. IDs take precedence over
// every other field. Count caps how many matches are deleted (0 means all).
type DeleteCriteria struct {
	IDs         []string
	Message     string
	Date        *time.Time
	Description string
	Count       int
}

type DeleteResult struct {
	Success         bool
	DeletedIDs      []string
	DeletedMessages []string
	Count           int
	Message         string
}

// ReminderIntent is what the intent parser extracts from free text.
// Date is an ISO-8601 string.
type ReminderIntent struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}
