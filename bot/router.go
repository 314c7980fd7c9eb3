package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/xcornflowerx/flowerbot/game"
	"github.com/xcornflowerx/flowerbot/queue"
	"github.com/xcornflowerx/flowerbot/telemetry"
)

const flowermonsHelpURL = "https://github.com/xcornflowerx/flowerbot/blob/master/docs/Flowermons.md"

// dispatch routes one parsed, rate-limited command. Branch order: death
// counter, queue-name joins, queue operations, capture economy, manual
// shoutout, owner administration. A command that matches no branch — or
// matches one the issuer isn't authorized for — is dropped without a reply;
// chat is noisy enough without "unknown command" spam.
func (b *Bot) dispatch(ctx context.Context, ev Event, perms Permissions, cmd Command) {
	// A command named after a configured queue is a join.
	if cmd.Kind == KindNone && b.queues.Has(cmd.Name) {
		cmd.Kind = KindQueueJoin
	}

	switch cmd.Kind {
	case KindDeath:
		b.say(fmt.Sprintf("@%s's current death count is %d", b.channel, b.deaths))

	case KindDeathAdd:
		if !perms.Elevated {
			return
		}
		b.deaths++
		telemetry.SetDeathCount(b.deaths)
		b.say(fmt.Sprintf("%s's current death count is now %d BibleThump", b.channel, b.deaths))

	case KindDeathReset:
		if !perms.Elevated {
			return
		}
		b.deaths = 0
		telemetry.SetDeathCount(0)
		b.say(fmt.Sprintf("%s reset their current death count", b.channel))

	case KindDeathInit:
		if !perms.Elevated || len(cmd.Args) == 0 {
			return
		}
		n, err := strconv.Atoi(cmd.Args[0])
		if err != nil {
			return
		}
		b.deaths = n
		telemetry.SetDeathCount(n)
		b.say(fmt.Sprintf("%s initialized their current death count to %d", b.channel, n))

	case KindQueueJoin:
		b.joinQueue(ev.User, cmd.Name)

	case KindLeave:
		if name, ok := b.queues.Leave(ev.User); ok {
			b.updateQueueDepth()
			b.say(fmt.Sprintf("@%s has left the %s queue", ev.User, name))
		}
		// Not in any queue: stay silent.

	case KindNext:
		if !perms.Owner || len(cmd.Args) == 0 || !b.queues.Has(cmd.Args[0]) {
			return
		}
		name := cmd.Args[0]
		advanced, next, ok := b.queues.Advance(name)
		if !ok {
			b.say(fmt.Sprintf("The %s queue is empty.", name))
			return
		}
		b.updateQueueDepth()
		msg := fmt.Sprintf("@%s you're up in the %s queue!", advanced, name)
		if next != "" {
			msg += fmt.Sprintf(" Next up is @%s!", next)
		}
		b.say(msg)

	case KindWin:
		if !perms.Owner || len(cmd.Args) == 0 || !b.queues.Has(cmd.Args[0]) {
			return
		}
		wins := b.queues.RecordWin(cmd.Args[0])
		b.say(fmt.Sprintf("The %s queue now has %d %s! GG", cmd.Args[0], wins, plural(wins, "win", "wins")))

	case KindScore:
		if b.queues.Empty() {
			return
		}
		parts := make([]string, 0, len(b.queues.Names()))
		for _, name := range b.queues.Names() {
			parts = append(parts, fmt.Sprintf("%s (%d)", name, b.queues.Score(name)))
		}
		b.say("Current scores: " + strings.Join(parts, "  //  "))

	case KindQueues:
		if b.queues.Empty() {
			return
		}
		parts := make([]string, 0, len(b.queues.Names()))
		for _, name := range b.queues.Names() {
			members := b.queues.Members(name)
			if len(members) == 0 {
				parts = append(parts, name+": (empty)")
			} else {
				parts = append(parts, name+": "+strings.Join(members, ", "))
			}
		}
		b.say(strings.Join(parts, "  //  "))

	case KindSpot:
		if name, pos, ok := b.queues.Position(ev.User); ok {
			b.say(fmt.Sprintf("@%s you're #%d in the %s queue!", ev.User, pos, name))
		} else {
			b.say(fmt.Sprintf("@%s you're not in any queue right now - !queues shows what's open", ev.User))
		}

	case KindQueueInit:
		if !perms.Owner {
			return
		}
		if err := b.queues.Configure(cmd.Args, ReservedKeywords()); err != nil {
			var rne *queue.ReservedNameError
			if errors.As(err, &rne) {
				b.say(fmt.Sprintf("Can't open a queue named %q - that's already a command!", rne.Name))
			}
			return
		}
		b.updateQueueDepth()
		if names := b.queues.Names(); len(names) > 0 {
			b.say("Queues are open: " + strings.Join(names, ", "))
		} else {
			b.say("Queues are closed.")
		}

	case KindFlowermonsHelp:
		b.say("The Flowermons help doc can be found here: " + flowermonsHelpURL)
		b.say("Flowermons commands list: !catch !flowerdex !leaders")

	case KindAddBalls:
		b.addBalls(ctx, ev, perms, cmd.Args)

	case KindFlowerdex, KindCatch, KindLeaders:
		if b.game == nil {
			return
		}
		if b.subsOnly && !ev.IsSubscriber() {
			b.say("Flowermons is running in subs-only mode.")
			return
		}
		switch cmd.Kind {
		case KindFlowerdex:
			b.say(b.dexSummary(ev.User, ev.IsSubscriber()))
		case KindCatch:
			b.catch(ctx, ev)
		case KindLeaders:
			b.sayLeaders()
		}

	case KindShoutout:
		if !perms.Elevated || len(cmd.Args) == 0 {
			return
		}
		if msg, ok := b.shoutouts.Manual(cmd.Args[0]); ok {
			telemetry.IncCounter(telemetry.Shoutouts)
			b.say(msg)
			b.play(strings.ToLower(cmd.Args[0]))
		}

	case KindStreamerAddNew:
		if !perms.Owner || len(cmd.Args) == 0 {
			return
		}
		if b.shoutouts.Approve(cmd.Args[0]) {
			telemetry.LoggerWithCorr(ctx).Info("approved streamer added", "streamer", cmd.Args[0])
		}

	default:
		// Unmatched commands fall through silently.
	}
}

func (b *Bot) joinQueue(user, name string) {
	pos, err := b.queues.Join(user, name)
	if err != nil {
		var aqe *queue.AlreadyQueuedError
		if errors.As(err, &aqe) {
			b.say(fmt.Sprintf("@%s you're already waiting in the %s queue!", user, aqe.Queue))
		}
		return
	}
	b.updateQueueDepth()
	b.say(fmt.Sprintf("@%s you're #%d in the %s queue!", user, pos, name))
}

func (b *Bot) catch(ctx context.Context, ev Event) {
	res, err := b.game.Catch(ev.User, ev.IsSubscriber())
	if err != nil {
		switch {
		case errors.Is(err, game.ErrNoBalls):
			b.say(fmt.Sprintf("@%s, you do not have any flowerballs left! BibleThump", ev.User))
		case errors.Is(err, game.ErrNoDex):
			telemetry.RecordError(trace.SpanFromContext(ctx), err)
			telemetry.LoggerWithCorr(ctx).Error("catch with empty dex", "user", ev.User)
		}
		return
	}
	telemetry.IncCounter(telemetry.Catches)
	shinyNote := ""
	if res.Shiny {
		telemetry.IncCounter(telemetry.ShinyCatches)
		shinyNote = " and it was * SHINY * !!!"
		b.play("shiny")
	}
	b.say(fmt.Sprintf("@%s caught %s%s! %s", ev.User, titleCase(res.Species), shinyNote, b.dexSummary(ev.User, ev.IsSubscriber())))
}

// dexSummary is the completion line appended to catch replies and returned
// by !flowerdex.
func (b *Bot) dexSummary(user string, subscriber bool) string {
	caught, shinies := b.game.CaughtCount(user)
	if caught == 0 {
		return fmt.Sprintf("@%s you have not caught any flowermons yet :(", user)
	}
	msg := fmt.Sprintf("@%s your FlowerDex is %s%% complete", user, formatPct(b.game.Completion(user)))
	if shinies > 0 {
		msg += fmt.Sprintf(" (%d %s caught!)", shinies, plural(shinies, "shiny", "shinies"))
	}
	msg += fmt.Sprintf(" and you have %d Flowerballs left!", b.game.Balance(user, subscriber))
	return msg
}

func (b *Bot) sayLeaders() {
	groups := b.game.Leaders()
	if len(groups) == 0 {
		return
	}
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%s (%s%%)", strings.Join(g.Users, ", "), formatPct(g.Completion)))
	}
	b.say("Current top 5 FlowerDex leaders are: " + strings.Join(parts, "  //  "))
}

func (b *Bot) addBalls(ctx context.Context, ev Event, perms Permissions, args []string) {
	if !perms.Owner || b.game == nil || len(args) < 3 {
		return
	}
	target := strings.ToLower(args[0])
	mode := args[1]
	amountF, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return
	}
	balance, err := b.game.AddCurrency(target, mode, int(amountF), ev.IsSubscriber())
	if err != nil {
		if errors.Is(err, game.ErrInvalidMode) {
			b.say(fmt.Sprintf("%q is an invalid way to add balls for a user", mode))
		} else {
			telemetry.LoggerWithCorr(ctx).Error("addballs failed", "target", target, "err", err)
		}
		return
	}
	b.say(fmt.Sprintf("%s now has %d flowerballs!", target, balance))
}

func (b *Bot) updateQueueDepth() {
	total := 0
	for _, name := range b.queues.Names() {
		total += len(b.queues.Members(name))
	}
	telemetry.SetQueueDepth(total)
}

// formatPct prints completion values with the one decimal place they are
// rounded to, so 50 reads as "50.0".
func formatPct(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 1, 64)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
