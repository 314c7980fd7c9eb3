// Package shoutout tracks automatic and manual streamer shoutouts. Every
// chatter is evaluated at most once per process lifetime for the automatic
// path; the manual command bypasses that gate. The approved-streamer list is
// persisted back to its file only when a new streamer is added.
package shoutout

import (
	"log/slog"
	"sort"
	"strings"
)

const usernamePlaceholder = "${username}"

// The broadcaster asking for their own shoutout gets a joke, not a plug.
const selfShoutoutReply = "Jebaited"

type Tracker struct {
	channel  string
	template string

	checked  map[string]bool
	approved map[string]bool // streamer -> already shouted out this session
	custom   map[string]string
	ignored  map[string]bool

	persist func(users []string) error
}

// NewTracker builds a tracker. approved lists the streamers eligible for an
// automatic shoutout; custom maps usernames to per-user message overrides;
// ignored users never receive a shoutout. persist is called with the full
// approved list when Approve inserts a new streamer (nil disables it).
func NewTracker(channel, template string, approved []string, custom map[string]string, ignored []string, persist func([]string) error) *Tracker {
	t := &Tracker{
		channel:  channel,
		template: template,
		checked:  map[string]bool{},
		approved: map[string]bool{},
		custom:   map[string]string{},
		ignored:  map[string]bool{},
		persist:  persist,
	}
	for _, u := range approved {
		t.approved[strings.ToLower(u)] = false
	}
	for u, msg := range custom {
		t.custom[strings.ToLower(u)] = msg
	}
	for _, u := range ignored {
		t.ignored[strings.ToLower(u)] = true
	}
	return t
}

// SetCustom replaces the custom override table. Used by the data file
// watcher for live reloads.
func (t *Tracker) SetCustom(custom map[string]string) {
	t.custom = map[string]string{}
	for u, msg := range custom {
		t.custom[strings.ToLower(u)] = msg
	}
}

// Evaluate runs the automatic shoutout check for a chatter. The first time a
// user is seen they get a shoutout iff they are an approved streamer who has
// not been shouted out yet; either way the user is marked checked, so the
// automatic path fires at most once per user per session.
func (t *Tracker) Evaluate(user string) (string, bool) {
	if t.checked[user] {
		return "", false
	}
	t.checked[user] = true
	shouted, approved := t.approved[user]
	if !approved || shouted {
		return "", false
	}
	t.approved[user] = true
	msg, ok := t.message(user)
	return msg, ok
}

// Manual produces a shoutout for an arbitrary target, bypassing the
// once-per-session gate. The broadcaster gets a fixed joke reply; ignored
// users are refused silently.
func (t *Tracker) Manual(target string) (string, bool) {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return "", false
	}
	if target == t.channel {
		return selfShoutoutReply, true
	}
	t.checked[target] = true
	return t.message(target)
}

// Approve registers a streamer for automatic shoutouts. A newly inserted
// streamer is marked as already shouted (the owner just plugged them by
// hand) and the approved list file is rewritten. Approving an existing
// streamer changes nothing.
func (t *Tracker) Approve(streamer string) bool {
	streamer = strings.ToLower(strings.TrimSpace(streamer))
	if streamer == "" {
		return false
	}
	if _, ok := t.approved[streamer]; ok {
		return false
	}
	t.approved[streamer] = true
	if t.persist != nil {
		if err := t.persist(t.approvedList()); err != nil {
			slog.Error("approved streamer list write failed; insert stays committed", slog.String("streamer", streamer), slog.Any("err", err))
		}
	}
	return true
}

// Checked reports whether the user has already been evaluated this session.
func (t *Tracker) Checked(user string) bool { return t.checked[user] }

func (t *Tracker) message(user string) (string, bool) {
	if t.ignored[user] {
		return "", false
	}
	msg := t.template
	if custom, ok := t.custom[user]; ok {
		msg = custom
	}
	return strings.ReplaceAll(msg, usernamePlaceholder, user), true
}

func (t *Tracker) approvedList() []string {
	users := make([]string, 0, len(t.approved))
	for u := range t.approved {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}
