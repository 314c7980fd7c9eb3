// Package bot contains the in-process state engine: command parsing and
// dispatch, permission evaluation, the restricted-user rate limiter, and the
// auto-response table. It turns inbound chat events into replies and
// mutations of the queue, game, and shoutout state it owns.
package bot

import "strings"

// Event is one inbound chat line with the issuer's role flags, as delivered
// by the chat transport.
type Event struct {
	User       string
	Text       string
	Mod        bool
	Subscriber bool
	Founder    bool
}

// IsSubscriber folds the founder badge into subscriber status; founders keep
// their perks.
func (e Event) IsSubscriber() bool {
	return e.Subscriber || e.Founder
}

// foldASCII lowercases, trims, and drops any non-ASCII rune. Usernames and
// message text are compared in this normalized form everywhere.
func foldASCII(s string) string {
	s = strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(strings.TrimSpace(s))
}
