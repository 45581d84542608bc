package bot

import (
	"context"
	"strings"
)

type (
	// Condition reports whether already lower-cased message text matches.
	Condition func(text string) bool

	// Reply produces the text to post. An error or an empty string means
	// there is nothing to say.
	Reply func(ctx context.Context) (string, error)

	// Rule pairs a Condition with the Reply it triggers.
	Rule struct {
		Name  string
		Match Condition
		Reply Reply

		// Remote is set when Reply does I/O. Remote replies run off the
		// event loop.
		Remote bool
	}

	// Rules is an ordered rule table.
	Rules []Rule
)

// Classify returns the first rule matching text. Matching is case-insensitive.
func (rs Rules) Classify(text string) (Rule, bool) {
	text = strings.ToLower(text)
	for _, r := range rs {
		if r.Match(text) {
			return r, true
		}
	}
	return Rule{}, false
}
