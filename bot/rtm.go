package bot

import (
	"context"

	"github.com/nlopes/slack"
	"github.com/pkg/errors"
)

// ErrInvalidAuth is returned by Run when Slack rejects the bot token.
var ErrInvalidAuth = errors.New("slack rejected the bot token")

// EventStream is a real-time connection delivering Slack events. NewRTMStream
// adapts a *slack.RTM.
type EventStream interface {
	ManageConnection()
	Disconnect() error
	Events() <-chan slack.RTMEvent
}

// Run consumes the event stream until ctx is done or the connection is
// refused. In-flight replies are waited for before Run returns.
func (b *Bot) Run(ctx context.Context, rtm EventStream) error {
	go rtm.ManageConnection()
	defer b.inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			b.disconnect(rtm)
			return nil

		case msg, ok := <-rtm.Events():
			if !ok {
				return nil
			}
			if err := b.handleEvent(ctx, msg.Data); err != nil {
				b.disconnect(rtm)
				return err
			}
		}
	}
}

func (b *Bot) disconnect(rtm EventStream) {
	if err := rtm.Disconnect(); err != nil {
		b.logf("disconnecting: %v\n", err)
	}
}

// handleEvent routes one RTM event.
func (b *Bot) handleEvent(ctx context.Context, data interface{}) error {
	switch event := data.(type) {
	case *slack.ConnectedEvent:
		b.logf("Connected, connection count: %d\n", event.ConnectionCount)
		b.start(ctx)

	case *slack.MessageEvent:
		b.HandleMessage(ctx, event)

	case *slack.ChannelCreatedEvent:
		b.dir.PutChannel(Channel{ID: event.Channel.ID, Name: event.Channel.Name})

	case *slack.ChannelRenameEvent:
		b.dir.PutChannel(Channel{ID: event.Channel.ID, Name: event.Channel.Name})

	case *slack.RTMError:
		b.logf("rtm error: %s\n", event.Error())

	case *slack.InvalidAuthEvent:
		return ErrInvalidAuth
	}

	return nil
}

// start loads the roster and resolves the bot user once the connection is
// established.
func (b *Bot) start(ctx context.Context) {
	b.logf("Determining users and channels\n")
	if err := b.dir.Load(ctx, b.roster); err != nil {
		b.logf("%s\n", err)
		return
	}

	id := b.resolveIdentity()
	if id == nil {
		b.logf("could not find bot in the list of names, check if the bot is called %q\n", b.name)
		return
	}
	b.logf("Initialized %s with ID: %s\n", id.Name, id.ID)
}
