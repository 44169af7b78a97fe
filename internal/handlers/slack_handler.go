package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
	slackcmd "github.com/diegoclair/team-assistant-bot/internal/domain/slack"
	"github.com/diegoclair/team-assistant-bot/internal/domain/service"
	"github.com/slack-go/slack"
)

// Slack expects an answer to a slash command within three seconds.
const commandTimeout = 3 * time.Second

type SlackHandler struct {
	reminderService contract.ReminderService
	intentParser    contract.IntentParser
	signingSecret   string
	loc             *time.Location
	now             func() time.Time
}

func New(reminderService contract.ReminderService, intentParser contract.IntentParser, signingSecret string, loc *time.Location) *SlackHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SlackHandler{
		reminderService: reminderService,
		intentParser:    intentParser,
		signingSecret:   signingSecret,
		loc:             loc,
		now:             time.Now,
	}
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	// Verify request from Slack
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if _, err := verifier.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := verifier.Ensure(); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	response := h.Process(r.Context(), s)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Process answers a slash command. It is shared by the HTTP endpoint and the
// Socket Mode runner.
func (h *SlackHandler) Process(ctx context.Context, slashCmd slack.SlashCommand) *slack.Msg {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd, err := slackcmd.ParseCommand(slashCmd.Text, h.loc)
	if err != nil {
		return h.createErrorResponse("Informe o que devo apagar: id, data, texto, descrição ou `all`.")
	}

	return h.handleCommand(ctx, cmd, &slashCmd)
}

func (h *SlackHandler) handleCommand(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	switch cmd.Type {
	case slackcmd.CmdAdd:
		return h.handleAdd(ctx, cmd, slashCmd)
	case slackcmd.CmdList:
		return h.handleList(ctx, cmd, slashCmd)
	case slackcmd.CmdDelete:
		return h.handleDelete(ctx, cmd, slashCmd)
	case slackcmd.CmdStats:
		return h.handleStats(ctx)
	case slackcmd.CmdHelp:
		return h.handleHelp()
	default:
		return h.createErrorResponse("Comando não reconhecido")
	}
}

func (h *SlackHandler) handleAdd(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	intent, err := h.intentParser.Parse(ctx, cmd.Text, h.now())
	if err != nil {
		log.Printf("Failed to parse reminder intent for user %s: %v", slashCmd.UserID, err)
		return h.createErrorResponse("Erro ao entender o lembrete")
	}
	if intent == nil {
		return h.createErrorResponse("Não entendi o lembrete. Exemplo: `/lembrete em 10 minutos falar com o João`")
	}

	reminder, err := h.reminderService.AddFromIntent(ctx, slashCmd.UserID, slashCmd.UserName, intent)
	if err != nil {
		return h.createErrorResponse(addErrorMessage(err, slashCmd.UserID))
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text: fmt.Sprintf("✅ Lembrete criado para %s (%s): %s\nID: `%s`",
			reminder.ScheduledFor.In(h.loc).Format(domain.DisplayLayout),
			service.RelativeTime(reminder.ScheduledFor, h.now()),
			reminder.Message,
			reminder.ID,
		),
	}
}

func addErrorMessage(err error, userID string) string {
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		return "O lembrete precisa de um texto."
	case errors.Is(err, domain.ErrInvalidDate):
		return "Não consegui entender a data do lembrete."
	case errors.Is(err, domain.ErrTooSoon):
		return "O horário do lembrete precisa estar no futuro."
	case errors.Is(err, domain.ErrNoIntent):
		return "Não entendi o lembrete."
	default:
		log.Printf("Failed to create reminder for user %s: %v", userID, err)
		return "Erro ao criar lembrete"
	}
}

func (h *SlackHandler) handleList(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	filter := &entity.ReminderFilter{
		Date:        cmd.Date,
		Description: cmd.Text,
	}

	reminders, err := h.reminderService.ListByUser(ctx, slashCmd.UserID, filter)
	if err != nil {
		log.Printf("Failed to list reminders for user %s: %v", slashCmd.UserID, err)
		return h.createErrorResponse("Erro ao listar lembretes")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         h.reminderService.FormatList(reminders),
	}
}

func (h *SlackHandler) handleDelete(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	switch {
	case cmd.All:
		count, err := h.reminderService.DeleteAllByUser(ctx, slashCmd.UserID)
		if err != nil {
			log.Printf("Failed to delete reminders for user %s: %v", slashCmd.UserID, err)
			return h.createErrorResponse("Erro ao apagar lembretes")
		}
		if count == 0 {
			return h.createResponse(domain.EmptyListMessage)
		}
		return h.createResponse(fmt.Sprintf("🗑️ %d lembrete(s) removido(s).", count))

	case cmd.ID != "":
		deleted, err := h.reminderService.DeleteByID(ctx, cmd.ID, slashCmd.UserID)
		if err != nil {
			log.Printf("Failed to delete reminder %s for user %s: %v", cmd.ID, slashCmd.UserID, err)
			return h.createErrorResponse("Erro ao apagar lembrete")
		}
		if !deleted {
			return h.createErrorResponse("Lembrete não encontrado.")
		}
		return h.createResponse("🗑️ Lembrete removido.")
	}

	result, err := h.reminderService.DeleteByCriteria(ctx, slashCmd.UserID, entity.DeleteCriteria{
		Date:        cmd.Date,
		Description: cmd.Text,
		Count:       cmd.Limit,
	})
	if err != nil {
		log.Printf("Failed to delete reminders by criteria for user %s: %v", slashCmd.UserID, err)
		return h.createErrorResponse("Erro ao apagar lembretes")
	}

	if !result.Success {
		return h.createResponse(result.Message)
	}

	var text strings.Builder
	text.WriteString("🗑️ " + result.Message)
	for _, message := range result.DeletedMessages {
		text.WriteString("\n• " + message)
	}
	return h.createResponse(text.String())
}

func (h *SlackHandler) handleStats(ctx context.Context) *slack.Msg {
	stats, err := h.reminderService.Stats(ctx)
	if err != nil {
		log.Printf("Failed to get reminder stats: %v", err)
		return h.createErrorResponse("Erro ao buscar estatísticas")
	}

	return h.createResponse(fmt.Sprintf("*Estatísticas:*\nTotal: %d\nPendentes: %d\nEnviados: %d",
		stats.Total, stats.Pending, stats.Sent))
}

func (h *SlackHandler) handleHelp() *slack.Msg {
	return h.createResponse(slackcmd.GetHelpText())
}

func (h *SlackHandler) createResponse(text string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         text,
	}
}

func (h *SlackHandler) createErrorResponse(message string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("❌ %s", message),
	}
}
