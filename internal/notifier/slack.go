package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
	"github.com/slack-go/slack"
)

var _ contract.Notifier = (*SlackNotifier)(nil)

// SlackNotifier delivers reminders as direct messages from the bot.
type SlackNotifier struct {
	client contract.SlackClient
}

func NewSlack(client contract.SlackClient) *SlackNotifier {
	return &SlackNotifier{client: client}
}

// Send posts text to the user's DM. Posting to a user ID opens the DM channel.
func (n *SlackNotifier) Send(ctx context.Context, userID, text string) error {
	_, _, err := n.client.PostMessageContext(ctx, userID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(false),
	)
	if err == nil {
		return nil
	}

	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		switch slackErr.Err {
		case "user_not_found", "channel_not_found", "user_disabled", "account_inactive":
			return fmt.Errorf("%w: %s", domain.ErrRecipientNotFound, slackErr.Err)
		}
	}

	return fmt.Errorf("failed to send message to user %s: %w", userID, err)
}
