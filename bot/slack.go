package bot

import (
	"context"

	"github.com/nlopes/slack"
)

// SlackRoster implements Roster with the Slack Web API.
type SlackRoster struct {
	API *slack.Client
}

// Users lists every user of the workspace.
func (r SlackRoster) Users(ctx context.Context) ([]slack.User, error) {
	return r.API.GetUsersContext(ctx)
}

// Channels lists the public, unarchived channels of the workspace.
func (r SlackRoster) Channels(ctx context.Context) ([]slack.Channel, error) {
	return r.API.GetChannelsContext(ctx, true)
}

// SlackPoster implements Poster with the Slack Web API.
type SlackPoster struct {
	API *slack.Client
}

// PostToChannel posts text to #channelName as the bot user.
func (p SlackPoster) PostToChannel(ctx context.Context, channelName, text string) error {
	_, _, err := p.API.PostMessageContext(ctx, "#"+channelName,
		slack.MsgOptionAsUser(true),
		slack.MsgOptionText(text, false),
	)
	return err
}

type rtmStream struct {
	*slack.RTM
}

// NewRTMStream adapts rtm to EventStream.
func NewRTMStream(rtm *slack.RTM) EventStream {
	return rtmStream{RTM: rtm}
}

func (s rtmStream) Events() <-chan slack.RTMEvent {
	return s.IncomingEvents
}
