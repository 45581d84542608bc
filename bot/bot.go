// Package bot implements the sniper Slack bot: it filters incoming RTM
// messages, classifies them against an ordered rule table and posts at
// most one reply per message.
package bot

import (
	"context"
	"sync"

	"github.com/nlopes/slack"
	"go.opencensus.io/trace"
)

type (
	// Logger function
	Logger func(message string, args ...interface{})

	// Identity is the bot's own user record.
	Identity struct {
		ID   string
		Name string
	}

	// Poster posts a message to a channel as the bot user.
	Poster interface {
		PostToChannel(ctx context.Context, channelName, text string) error
	}

	// Bot structure
	Bot struct {
		name    string
		devMode bool
		rules   Rules
		roster  Roster
		poster  Poster
		dir     *Directory
		logf    Logger

		mu       sync.RWMutex
		identity *Identity

		inflight sync.WaitGroup
	}
)

// New will create a new Slack bot. name is the Slack user name the bot runs
// as and is used to find its own user record in the roster.
func New(name string, rules Rules, roster Roster, poster Poster, devMode bool, log Logger) *Bot {
	return &Bot{
		name:    name,
		devMode: devMode,
		rules:   rules,
		roster:  roster,
		poster:  poster,
		dir:     NewDirectory(),
		logf:    log,
	}
}

// Identity returns the resolved bot user, or nil before it is known.
func (b *Bot) Identity() *Identity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.identity == nil {
		return nil
	}
	id := *b.identity
	return &id
}

// SetIdentity fixes the bot user. Later calls are ignored.
func (b *Bot) SetIdentity(id Identity) {
	b.mu.Lock()
	if b.identity == nil {
		b.identity = &id
	}
	b.mu.Unlock()
}

// Directory returns the channel and user snapshot the bot replies from.
func (b *Bot) Directory() *Directory { return b.dir }

// Ready reports whether the bot has loaded its directory and knows who it is.
func (b *Bot) Ready() bool {
	return b.dir.Loaded() && b.Identity() != nil
}

// Wait blocks until all in-flight replies have been posted or dropped.
func (b *Bot) Wait() {
	b.inflight.Wait()
}

// resolveIdentity returns the bot user, looking it up in the directory on
// first use.
func (b *Bot) resolveIdentity() *Identity {
	if id := b.Identity(); id != nil {
		return id
	}

	u, ok := b.dir.UserByName(b.name)
	if !ok {
		return nil
	}
	b.SetIdentity(Identity{ID: u.ID, Name: u.Name})
	return b.Identity()
}

// HandleMessage will process the incoming message and respond appropriately.
//
// Every failure ends silently with no reply. Canned replies are produced
// inline, remote replies in the background; the post itself always happens
// off the caller's goroutine so HandleMessage never waits on Slack.
func (b *Bot) HandleMessage(ctx context.Context, event *slack.MessageEvent) {
	identity := b.resolveIdentity()
	if !Eligible(event, identity) {
		return
	}

	if b.devMode {
		b.logf("channel: %s -> message: %q\n", event.Channel, event.Text)
	}

	rule, ok := b.rules.Classify(event.Text)
	if !ok {
		return
	}

	channel, ok := b.dir.Channel(event.Channel)
	if !ok {
		b.logf("dropping %s reply for unknown channel %s\n", rule.Name, event.Channel)
		return
	}

	ctx, span := trace.StartSpan(ctx, "bot.HandleMessage")
	span.AddAttributes(
		trace.StringAttribute("rule", rule.Name),
		trace.StringAttribute("channel", channel.Name),
	)

	var text string
	if !rule.Remote {
		text, ok = b.produce(ctx, rule)
		if !ok {
			span.End()
			return
		}
	}

	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		defer span.End()

		if rule.Remote {
			if text, ok = b.produce(ctx, rule); !ok {
				return
			}
		}
		b.respond(ctx, channel, text)
	}()
}

// produce runs the rule's Reply. ok is false when there is nothing to post.
func (b *Bot) produce(ctx context.Context, rule Rule) (text string, ok bool) {
	text, err := rule.Reply(ctx)
	if err != nil {
		b.logf("%s: no reply: %v\n", rule.Name, err)
		return "", false
	}
	return text, text != ""
}

func (b *Bot) respond(ctx context.Context, channel Channel, text string) {
	if b.devMode {
		b.logf("should reply in #%s with %s\n", channel.Name, text)
		return
	}

	err := b.poster.PostToChannel(ctx, channel.Name, text)
	if err != nil {
		b.logf("%s\n", err)
	}
}
