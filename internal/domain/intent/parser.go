package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
)

const instructions = `You extract reminders from chat messages.
Current date and time: %s (timezone %s).
If the message asks to be reminded of something, answer ONLY with JSON:
{"date": "<ISO-8601 date-time with offset>", "message": "<what to remind>"}
Resolve relative expressions ("in 10 minutes", "amanhã às 9h") against the current date.
If the message is not a reminder request answer exactly: null`

var _ contract.IntentParser = (*Parser)(nil)

// Parser asks the language model first and falls back to a small rule set
// when the model is unavailable or answers something unusable.
type Parser struct {
	completer    contract.TextCompleter
	loc          *time.Location
	modelTimeout time.Duration
}

type Option func(*Parser)

// WithModelTimeout caps each model call. The default is domain.ModelTimeout.
func WithModelTimeout(d time.Duration) Option {
	return func(p *Parser) {
		p.modelTimeout = d
	}
}

func NewParser(completer contract.TextCompleter, loc *time.Location, opts ...Option) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	p := &Parser{completer: completer, loc: loc, modelTimeout: domain.ModelTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Parse(ctx context.Context, text string, now time.Time) (*entity.ReminderIntent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if p.completer != nil && p.completer.IsConfigured() {
		intent, ok := p.parseWithModel(ctx, text, now)
		if ok {
			return intent, nil
		}
	}

	return ParseRules(text, now, p.loc), nil
}

// parseWithModel reports ok=false when the answer cannot be trusted.
func (p *Parser) parseWithModel(ctx context.Context, text string, now time.Time) (*entity.ReminderIntent, bool) {
	prompt := fmt.Sprintf(instructions, now.In(p.loc).Format(time.RFC3339), p.loc.String())

	if p.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.modelTimeout)
		defer cancel()
	}

	answer, err := p.completer.Complete(ctx, prompt, text)
	if err != nil {
		log.Printf("Intent model failed, using rules: %v", err)
		return nil, false
	}

	answer = stripCodeFence(answer)
	if answer == "" {
		return nil, false
	}
	if answer == "null" {
		return nil, true
	}

	var intent entity.ReminderIntent
	if err := json.Unmarshal([]byte(answer), &intent); err != nil {
		log.Printf("Intent model returned unusable answer %q, using rules", answer)
		return nil, false
	}
	if strings.TrimSpace(intent.Date) == "" || strings.TrimSpace(intent.Message) == "" {
		return nil, false
	}

	return &intent, true
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var leadWords = map[string]bool{"in": true, "em": true, "daqui": true}

var connectors = map[string]bool{
	"to": true, "about": true, "de": true, "para": true, "pra": true, "que": true, "a": true,
}

var dayWords = map[string]bool{"tomorrow": true, "amanhã": true, "amanha": true}

// ParseRules understands "in 10 minutes to <message>", "em 2 horas <message>",
// "tomorrow <message>" and messages starting with an ISO date-time. It
// returns nil for anything else.
func ParseRules(text string, now time.Time, loc *time.Location) *entity.ReminderIntent {
	if loc == nil {
		loc = time.UTC
	}

	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil
	}

	if at, rest, ok := leadingDate(fields, loc); ok {
		return newIntent(at, rest)
	}

	first := strings.ToLower(fields[0])
	if dayWords[first] {
		return newIntent(now.Add(24*time.Hour), stripConnector(fields[1:]))
	}
	if !leadWords[first] {
		return nil
	}

	rest := fields[1:]
	if first == "daqui" && len(rest) > 0 && strings.EqualFold(rest[0], "a") {
		rest = rest[1:]
	}

	d, consumed, ok := parseDuration(rest)
	if !ok {
		return nil
	}
	return newIntent(now.Add(d), stripConnector(rest[consumed:]))
}

func newIntent(at time.Time, message []string) *entity.ReminderIntent {
	if len(message) == 0 {
		return nil
	}
	return &entity.ReminderIntent{
		Date:    at.Format(time.RFC3339),
		Message: strings.Join(message, " "),
	}
}

func stripConnector(fields []string) []string {
	if len(fields) > 1 && connectors[strings.ToLower(fields[0])] {
		return fields[1:]
	}
	return fields
}

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func leadingDate(fields []string, loc *time.Location) (time.Time, []string, bool) {
	if len(fields) > 2 {
		if t, err := time.ParseInLocation("2006-01-02 15:04", fields[0]+" "+fields[1], loc); err == nil {
			return t, fields[2:], true
		}
	}
	if t, err := time.Parse(time.RFC3339, fields[0]); err == nil {
		return t, fields[1:], true
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, fields[0], loc); err == nil {
			return t, fields[1:], true
		}
	}
	return time.Time{}, nil, false
}

// parseDuration reads "10 minutes", "2 horas" or the compact "10min" form
// from the start of fields.
func parseDuration(fields []string) (time.Duration, int, bool) {
	if len(fields) == 0 {
		return 0, 0, false
	}

	numPart, unitPart := splitNumber(fields[0])
	consumed := 1
	if unitPart == "" {
		if len(fields) < 2 {
			return 0, 0, false
		}
		unitPart = fields[1]
		consumed = 2
	}

	value, err := strconv.Atoi(numPart)
	if err != nil || value <= 0 {
		return 0, 0, false
	}

	unit, ok := unitDuration(unitPart)
	if !ok {
		return 0, 0, false
	}
	return time.Duration(value) * unit, consumed, true
}

func splitNumber(s string) (string, string) {
	for i, r := range s {
		if !unicode.IsDigit(r) {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func unitDuration(unit string) (time.Duration, bool) {
	unit = strings.TrimRight(strings.ToLower(unit), ",.")
	unit = strings.TrimSuffix(unit, "s")

	switch unit {
	case "", "second", "segundo", "seg":
		return time.Second, true
	case "m", "min", "minute", "minuto":
		return time.Minute, true
	case "h", "hr", "hour", "hora":
		return time.Hour, true
	case "d", "day", "dia":
		return 24 * time.Hour, true
	case "week", "semana":
		return 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}
