// Package matcher selects a subset of a user's reminders from free text or
// date criteria. Every function is pure over its inputs.
package matcher

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ByDateWindow returns the candidates scheduled within windowHours of target.
// A non-positive window uses domain.DefaultWindowHours.
func ByDateWindow(candidates []*entity.Reminder, target time.Time, windowHours int) []*entity.Reminder {
	if windowHours <= 0 {
		windowHours = domain.DefaultWindowHours
	}
	window := time.Duration(windowHours) * time.Hour

	var matches []*entity.Reminder
	for _, r := range candidates {
		diff := r.ScheduledFor.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff <= window {
			matches = append(matches, r)
		}
	}
	return matches
}

// ByKeyword scores candidates by how many query tokens appear in their
// message. A candidate containing the whole query wins outright and skips
// token scoring.
func ByKeyword(candidates []*entity.Reminder, query string) []*entity.Reminder {
	needle := normalize(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	messages := make([]string, len(candidates))
	var exact []*entity.Reminder
	for i, r := range candidates {
		messages[i] = normalize(r.Message)
		if strings.Contains(messages[i], needle) {
			exact = append(exact, r)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	type scored struct {
		reminder *entity.Reminder
		score    int
	}
	var hits []scored
	for i, r := range candidates {
		score := 0
		for _, token := range tokens {
			if strings.Contains(messages[i], token) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{reminder: r, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	matches := make([]*entity.Reminder, len(hits))
	for i, h := range hits {
		matches[i] = h.reminder
	}
	return matches
}

// Tokenize splits text on anything that is not a letter or digit, folds
// case and accents, and drops stopwords and tokens shorter than 3 runes.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	var tokens []string
	for _, f := range fields {
		if len([]rune(f)) < 3 || domain.Stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// Limit caps matches at max. Zero or negative means no cap.
func Limit(matches []*entity.Reminder, max int) []*entity.Reminder {
	if max > 0 && len(matches) > max {
		return matches[:max]
	}
	return matches
}

// normalize lowercases s and strips diacritics so "João" matches "joao".
// Transformers keep state, so a fresh chain is built per call.
func normalize(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
