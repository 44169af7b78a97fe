package contract

import (
	"context"

	"github.com/slack-go/slack"
)

//go:generate mockgen -package mocks -destination ../../../mocks/slack.go -source slack.go

// SlackClient defines the interface for Slack operations
// This allows mocking in tests while keeping the real implementation simple
type SlackClient interface {
	// PostMessageContext sends a message to a Slack channel, or to a user's DM
	// when channelID is a user ID
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}
