// Package handlers defines the rules the sniper bot replies with.
package handlers

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"

	"github.com/gobridge/sniper/bot"
)

// Rule names.
const (
	MapOrVersionRule = "map-or-version"
	SniperRule       = "sniper-mention"
)

var (
	// "map" or "version" in English or Thai; the Thai "version" may drop
	// its silent ร์.
	mapOrVersionRE = regexp.MustCompile(`(map|แมพ|version|เวอ(ร์)?ชั่น)`)
	// "sni", "sniper" or the Thai สไน, สไนเปอ, สไนเปอร์.
	sniperRE = regexp.MustCompile(`(sni(per)?|สไน(เปอ(ร์)?)?)`)
)

// Quotes are the canned replies to a sniper mention.
var Quotes = []string{
	"แทง จิ๊กโก๋",
	"อ้ายเซ่อ!",
	"แปบดิสัส กูคูลดาวน์อยู่..",
}

const versionReply = "แมพล่าสัส v%s เชื่อกูดิ กูส่องทุกวัน"

// VersionSource looks up the latest game version.
type VersionSource interface {
	Latest(ctx context.Context) (string, error)
}

// Matches will return a condition that is true when re matches anywhere in
// the message, partial words included.
func Matches(re *regexp.Regexp) bot.Condition {
	return re.MatchString
}

// PickQuote returns a uniformly chosen quote. intn must return a value in
// [0, n) like rand.Intn.
func PickQuote(quotes []string, intn func(n int) int) string {
	if len(quotes) == 0 {
		return ""
	}
	return quotes[intn(len(quotes))]
}

// Sniper replies with a random quote when a message mentions a sniper.
func Sniper(quotes []string) bot.Rule {
	return bot.Rule{
		Name:  SniperRule,
		Match: Matches(sniperRE),
		Reply: func(context.Context) (string, error) {
			return PickQuote(quotes, rand.Intn), nil
		},
	}
}

// MapOrVersion replies with the latest version from src when a message asks
// about the map or the version.
func MapOrVersion(src VersionSource) bot.Rule {
	return bot.Rule{
		Name:   MapOrVersionRule,
		Match:  Matches(mapOrVersionRE),
		Remote: true,
		Reply: func(ctx context.Context) (string, error) {
			version, err := src.Latest(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(versionReply, version), nil
		},
	}
}

// Default returns the rule table in priority order: a message asking for the
// map or version never also gets a sniper quote.
func Default(src VersionSource) bot.Rules {
	return bot.Rules{
		MapOrVersion(src),
		Sniper(Quotes),
	}
}
