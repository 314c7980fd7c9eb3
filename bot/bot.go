package bot

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xcornflowerx/flowerbot/game"
	"github.com/xcornflowerx/flowerbot/queue"
	"github.com/xcornflowerx/flowerbot/shoutout"
	"github.com/xcornflowerx/flowerbot/telemetry"
)

// Sender delivers a reply to chat, fire-and-forget.
type Sender interface {
	Say(text string)
}

// Notifier plays a sound effect for a named event, fire-and-forget. Failures
// are the notifier's problem; the bot never waits on it.
type Notifier interface {
	Play(event string)
}

// Options wires a Bot together. Queues is required; Game may be nil when the
// flowermons feature is disabled; Sound may be nil when no sound side
// channel is configured.
type Options struct {
	Channel                string
	TrustedUsers           []string
	RestrictedUsers        []string
	RestrictedCommandLimit int
	Responses              map[string][]string
	Shoutouts              *shoutout.Tracker
	Queues                 *queue.Manager
	Game                   *game.Engine
	SubsOnly               bool
	Sender                 Sender
	Sound                  Notifier
}

// Bot owns every piece of session state and processes one chat event at a
// time. All handling happens under a single mutex, so the queue manager and
// game engine below it need no locking of their own.
type Bot struct {
	mu sync.Mutex

	channel   string
	trusted   map[string]bool
	limiter   *rateLimiter
	responder *responder
	shoutouts *shoutout.Tracker
	queues    *queue.Manager
	game      *game.Engine
	subsOnly  bool

	deaths int

	sender Sender
	sound  Notifier
}

func New(opts Options) *Bot {
	trusted := map[string]bool{}
	for _, u := range opts.TrustedUsers {
		trusted[u] = true
	}
	// The broadcaster always has mod-equivalent authority.
	if opts.Channel != "" {
		trusted[opts.Channel] = true
	}
	return &Bot{
		channel:   opts.Channel,
		trusted:   trusted,
		limiter:   newRateLimiter(opts.RestrictedUsers, opts.RestrictedCommandLimit),
		responder: newResponder(opts.Responses),
		shoutouts: opts.Shoutouts,
		queues:    opts.Queues,
		game:      opts.Game,
		subsOnly:  opts.SubsOnly,
		sender:    opts.Sender,
		sound:     opts.Sound,
	}
}

// SetResponses swaps the auto-response table (live reload path).
func (b *Bot) SetResponses(responses map[string][]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responder.setResponses(responses)
}

// DeathCount returns the current death counter (status endpoint).
func (b *Bot) DeathCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deaths
}

// HandleMessage processes one inbound chat event end to end: shoutout and
// auto-response paths for plain chat, or parse → rate limit → permissions →
// dispatch for commands. Replies go out through the Sender as a side effect.
func (b *Bot) HandleMessage(ctx context.Context, ev Event) {
	ev.User = foldASCII(ev.User)
	ev.Text = foldASCII(ev.Text)
	if ev.User == "" || ev.Text == "" {
		return
	}
	ctx = telemetry.WithCorrelation(ctx, uuid.NewString())
	telemetry.IncCounter(telemetry.MessagesSeen)

	b.mu.Lock()
	defer b.mu.Unlock()

	cmd, isCommand := ParseCommand(ev.Text)
	if !isCommand {
		b.handleChat(ctx, ev)
		return
	}

	// The response table is consulted before dispatch, so a trigger styled
	// like a command ("!discord") replies instead of falling through the
	// router silently.
	if msg, ok := b.responder.Lookup(ev.Text); ok {
		telemetry.IncCounter(telemetry.AutoResponses)
		telemetry.LoggerWithCorr(ctx).Debug("auto response", "trigger", ev.Text)
		b.say(msg)
		return
	}

	if !b.limiter.Allow(ev.User) {
		telemetry.IncCounter(telemetry.CommandsSuppressed)
		b.say("@" + ev.User + " you have used up your commands for this stream, give it a rest!")
		return
	}

	perms := EvaluatePermissions(ev, b.trusted, b.channel)
	ctx, span := telemetry.StartSpan(ctx, "flowerbot/bot", "command",
		attribute.String("command", cmd.Name),
		attribute.String("user", ev.User),
	)
	defer span.End()

	telemetry.IncCounter(telemetry.CommandsDispatched)
	telemetry.LoggerWithCorr(ctx).Debug("command received", "command", cmd.Name, "user", ev.User, "args", cmd.Args)
	b.dispatch(ctx, ev, perms, cmd)
}

// handleChat runs the non-command paths: at-most-once automatic shoutout
// evaluation, then the exact-match auto-response table.
func (b *Bot) handleChat(ctx context.Context, ev Event) {
	if b.shoutouts != nil {
		if msg, ok := b.shoutouts.Evaluate(ev.User); ok {
			telemetry.IncCounter(telemetry.Shoutouts)
			b.say(msg)
			b.play(ev.User)
		}
	}
	if msg, ok := b.responder.Lookup(ev.Text); ok {
		telemetry.IncCounter(telemetry.AutoResponses)
		telemetry.LoggerWithCorr(ctx).Debug("auto response", "trigger", ev.Text)
		b.say(msg)
	}
}

func (b *Bot) say(text string) {
	if b.sender != nil && text != "" {
		b.sender.Say(text)
	}
}

func (b *Bot) play(event string) {
	if b.sound != nil {
		b.sound.Play(event)
	}
}
