// Package chat connects the bot to Twitch IRC. It adapts inbound private
// messages into bot events and exposes a rate-limited, fire-and-forget Say
// for replies. Credentials come from the config; the bot core never sees
// them.
package chat

import (
	"context"
	"log/slog"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"golang.org/x/time/rate"

	"github.com/xcornflowerx/flowerbot/bot"
)

// Twitch caps regular accounts at 20 messages per 30 seconds; stay under it
// with a small burst allowance.
var sendLimit = rate.NewLimiter(rate.Limit(20.0/30.0), 5)

type Client struct {
	irc     *twitch.Client
	channel string
	limiter *rate.Limiter
}

// NewClient builds the IRC client and wires inbound messages into handle.
// handle runs on the client's reader goroutine; the bot serializes
// internally.
func NewClient(username, oauth, channel string, handle func(bot.Event)) *Client {
	irc := twitch.NewClient(username, oauth)
	irc.OnPrivateMessage(func(msg twitch.PrivateMessage) {
		handle(bot.Event{
			User:       msg.User.Name,
			Text:       msg.Message,
			Mod:        msg.User.Badges["moderator"] > 0 || msg.User.Badges["broadcaster"] > 0,
			Subscriber: msg.User.Badges["subscriber"] > 0,
			Founder:    msg.User.Badges["founder"] > 0,
		})
	})
	return &Client{irc: irc, channel: channel, limiter: sendLimit}
}

// Say sends a chat line, fire-and-forget. Lines over the outbound rate cap
// are dropped with a log entry rather than queued; replies are only useful
// while the conversation they answer is on screen.
func (c *Client) Say(text string) {
	if !c.limiter.Allow() {
		slog.Warn("outbound message dropped by rate limit", slog.String("text", text))
		return
	}
	c.irc.Say(c.channel, text)
}

// Run joins the channel and blocks on the IRC connection until ctx is
// cancelled or the connection fails.
func (c *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := c.irc.Disconnect(); err != nil {
			slog.Error("irc disconnect", slog.Any("err", err))
		}
		close(done)
	}()

	c.irc.Join(c.channel)
	slog.Info("joining channel", slog.String("channel", c.channel))
	if err := c.irc.Connect(); err != nil {
		select {
		case <-ctx.Done():
			// Shutdown path; Disconnect makes Connect return an error.
		default:
			return err
		}
	}
	<-done
	return nil
}
