package bot

import (
	"strings"

	"github.com/nlopes/slack"
)

// Public channel IDs always start with 'C'; direct messages use 'D' and
// private groups 'G'.
const publicChannelMarker = "C"

// Eligible reports whether event should be classified at all. An unresolved
// identity makes every event ineligible.
func Eligible(event *slack.MessageEvent, identity *Identity) bool {
	if event == nil {
		return false
	}
	return isChatMessage(event) &&
		isChannelConversation(event) &&
		isNotSelfAuthored(event, identity)
}

func isChatMessage(event *slack.MessageEvent) bool {
	return event.Type == "message" && event.Text != ""
}

func isChannelConversation(event *slack.MessageEvent) bool {
	return strings.HasPrefix(event.Channel, publicChannelMarker)
}

func isNotSelfAuthored(event *slack.MessageEvent, identity *Identity) bool {
	return identity != nil && event.User != identity.ID
}
