package handlers

import (
	"context"
	"log"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// SocketRunner receives slash commands over Socket Mode, for workspaces where
// the bot cannot expose a public HTTP endpoint.
type SocketRunner struct {
	client  *socketmode.Client
	handler *SlackHandler
}

// NewSocketRunner needs api built with slack.OptionAppLevelToken.
func NewSocketRunner(api *slack.Client, handler *SlackHandler) *SocketRunner {
	return &SocketRunner{
		client:  socketmode.New(api),
		handler: handler,
	}
}

// Run blocks until ctx is cancelled or the connection fails for good.
func (r *SocketRunner) Run(ctx context.Context) error {
	go r.listen(ctx)
	return r.client.RunContext(ctx)
}

func (r *SocketRunner) listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-r.client.Events:
			if !ok {
				return
			}
			if evt.Request == nil {
				r.logEvent(evt)
				continue
			}

			response, handled := r.processEvent(ctx, evt)
			if !handled {
				r.client.Ack(*evt.Request)
				continue
			}
			r.client.Ack(*evt.Request, response)
		}
	}
}

// processEvent reports handled=false for events the bot does not answer.
func (r *SocketRunner) processEvent(ctx context.Context, evt socketmode.Event) (*slack.Msg, bool) {
	if evt.Type != socketmode.EventTypeSlashCommand {
		return nil, false
	}

	cmd, ok := evt.Data.(slack.SlashCommand)
	if !ok {
		log.Printf("Ignoring slash command event with unexpected payload %T", evt.Data)
		return nil, false
	}

	return r.handler.Process(ctx, cmd), true
}

func (r *SocketRunner) logEvent(evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		log.Println("Connecting to Slack with Socket Mode...")
	case socketmode.EventTypeConnected:
		log.Println("Connected to Slack with Socket Mode")
	case socketmode.EventTypeConnectionError:
		log.Printf("Socket Mode connection failed, retrying: %v", evt.Data)
	}
}
