package bot

import (
	"context"
	"sync"

	"github.com/nlopes/slack"
	"github.com/pkg/errors"
)

type (
	// Channel describes a Slack channel.
	Channel struct {
		ID   string
		Name string
	}

	// Roster lists the users and channels of a workspace.
	Roster interface {
		Users(ctx context.Context) ([]slack.User, error)
		Channels(ctx context.Context) ([]slack.Channel, error)
	}

	// Directory is an in-memory snapshot of the workspace roster.
	Directory struct {
		mu       sync.RWMutex
		loaded   bool
		users    map[string]slack.User
		channels map[string]Channel
	}
)

// NewDirectory returns an empty *Directory.
func NewDirectory() *Directory {
	return &Directory{
		users:    map[string]slack.User{},
		channels: map[string]Channel{},
	}
}

// Load replaces the snapshot with the current roster.
func (d *Directory) Load(ctx context.Context, r Roster) error {
	users, err := r.Users(ctx)
	if err != nil {
		return errors.Wrap(err, "loading users")
	}
	channels, err := r.Channels(ctx)
	if err != nil {
		return errors.Wrap(err, "loading channels")
	}

	byName := make(map[string]slack.User, len(users))
	for _, u := range users {
		// first user wins on duplicate names
		if _, ok := byName[u.Name]; !ok {
			byName[u.Name] = u
		}
	}
	byID := make(map[string]Channel, len(channels))
	for _, c := range channels {
		byID[c.ID] = Channel{ID: c.ID, Name: c.Name}
	}

	d.mu.Lock()
	d.users = byName
	d.channels = byID
	d.loaded = true
	d.mu.Unlock()

	return nil
}

// Loaded reports whether Load has succeeded at least once.
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Channel looks up a channel by ID.
func (d *Directory) Channel(id string) (Channel, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.channels[id]
	return c, ok
}

// PutChannel adds or renames a channel.
func (d *Directory) PutChannel(c Channel) {
	d.mu.Lock()
	d.channels[c.ID] = c
	d.mu.Unlock()
}

// UserByName looks up a user by name.
func (d *Directory) UserByName(name string) (slack.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[name]
	return u, ok
}
