// Package sound is the optional sound-effect side channel. Events map to
// audio files which are handed to an external player binary. Everything is
// fire-and-forget: a missing mapping is silence, a failed playback is a log
// line, and the reply path never waits on either.
package sound

import (
	"context"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"
)

const playTimeout = 30 * time.Second

type Player struct {
	dir      string
	player   string
	mappings map[string]string
}

// NewPlayer builds a player. dir holds the audio files, player is the
// command invoked with the file path as its single argument (e.g. mpv,
// paplay), mappings maps event names to file names. Any empty argument
// disables playback entirely.
func NewPlayer(dir, player string, mappings map[string]string) *Player {
	if dir == "" || player == "" || len(mappings) == 0 {
		return nil
	}
	return &Player{dir: dir, player: player, mappings: mappings}
}

// Play starts playback for the named event and returns immediately.
func (p *Player) Play(event string) {
	if p == nil {
		return
	}
	file, ok := p.mappings[event]
	if !ok {
		return
	}
	path := filepath.Join(p.dir, file)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()
		if err := exec.CommandContext(ctx, p.player, path).Run(); err != nil {
			slog.Error("sound playback failed", slog.String("event", event), slog.String("file", path), slog.Any("err", err))
		}
	}()
}
