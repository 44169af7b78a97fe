package domain

import "time"

// Scheduler tuning defaults, overridable through config.
const (
	// FireEpsilon is how close to due a reminder must be to fire right away
	// instead of arming a timer.
	FireEpsilon = time.Second

	DefaultMinLeadTime       = 10 * time.Second
	DefaultNotifyTimeout     = 10 * time.Second
	DefaultSweepInterval     = 5 * time.Minute
	DefaultRetentionInterval = 24 * time.Hour
	DefaultRetentionDays     = 30
	DefaultDeliveryAttempts  = 1
	DeliveryRetryBackoff     = 2 * time.Second
)

// ModelTimeout bounds a single language model call. It is shorter than a
// slash command deadline so the store work that follows still has time.
const ModelTimeout = 2 * time.Second

// DefaultWindowHours is the date-window width used when filtering by date.
const DefaultWindowHours = 24

// TimeLayout is the on-disk representation of every timestamp. Fixed width
// so that lexical comparison in SQL matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// DisplayLayout renders dates for users.
const DisplayLayout = "02/01/2006 15:04"

// NoMatchMarker is what the semantic backend answers when nothing is relevant.
const NoMatchMarker = "NONE"

// EmptyListMessage is shown when a user has no pending reminders.
const EmptyListMessage = "Você não tem lembretes pendentes."

// Stopwords are ignored by the keyword matcher.
var Stopwords = map[string]bool{
	"que": true, "com": true, "para": true, "pra": true, "por": true,
	"uma": true, "uns": true, "das": true, "dos": true, "nas": true,
	"nos": true, "sobre": true, "lembrete": true, "lembretes": true,
	"lembrar": true, "the": true, "and": true, "for": true, "with": true,
	"about": true, "reminder": true, "reminders": true,
}
