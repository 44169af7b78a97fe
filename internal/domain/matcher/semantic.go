package matcher

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
)

const semanticInstructions = `You select reminders that match a user's request.
You receive a numbered list of reminders and a request.
Answer ONLY with the numbers of the relevant reminders separated by commas (example: 1,3).
If none is relevant answer exactly ` + domain.NoMatchMarker + `.`

// Semantic delegates relevance to a language model and falls back to
// ByKeyword whenever the model is missing, fails or answers garbage.
type Semantic struct {
	Completer contract.TextCompleter
	// Timeout caps each model call; zero means the caller's deadline only.
	Timeout time.Duration
}

func NewSemantic(completer contract.TextCompleter) *Semantic {
	return &Semantic{Completer: completer, Timeout: domain.ModelTimeout}
}

// Select returns the candidates relevant to query, capped at max when max > 0.
func (s *Semantic) Select(ctx context.Context, candidates []*entity.Reminder, query string, max int) []*entity.Reminder {
	if len(candidates) == 0 || strings.TrimSpace(query) == "" {
		return nil
	}

	if s == nil || s.Completer == nil || !s.Completer.IsConfigured() {
		return Limit(ByKeyword(candidates, query), max)
	}

	modelCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		modelCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	answer, err := s.Completer.Complete(modelCtx, semanticInstructions, buildPrompt(candidates, query))
	if err != nil {
		log.Printf("Semantic match failed, falling back to keywords: %v", err)
		return Limit(ByKeyword(candidates, query), max)
	}

	matches, ok := parseSelection(answer, candidates)
	if !ok {
		log.Printf("Semantic match returned unusable answer %q, falling back to keywords", answer)
		return Limit(ByKeyword(candidates, query), max)
	}

	return Limit(matches, max)
}

func buildPrompt(candidates []*entity.Reminder, query string) string {
	var b strings.Builder
	b.WriteString("Reminders:\n")
	for i, r := range candidates {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, r.Message, r.ScheduledFor.UTC().Format(domain.TimeLayout))
	}
	fmt.Fprintf(&b, "\nRequest: %s", query)
	return b.String()
}

// parseSelection reads "1, 3" style answers. The absence marker is a valid
// empty selection; anything else unparseable reports ok=false.
func parseSelection(answer string, candidates []*entity.Reminder) ([]*entity.Reminder, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, false
	}
	if strings.EqualFold(strings.Trim(answer, ". "), domain.NoMatchMarker) {
		return nil, true
	}

	seen := make(map[int]bool)
	var matches []*entity.Reminder
	for _, part := range strings.Split(answer, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > len(candidates) {
			return nil, false
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		matches = append(matches, candidates[n-1])
	}
	return matches, true
}
