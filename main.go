// Command flowerbot is the channel chat bot. It:
//   - Loads configuration and initializes structured logging.
//   - Loads the flat data files (approved streamers, custom shoutouts,
//     auto responses, the flowermons dex and capture ledger).
//   - Connects to Twitch IRC and routes every message through the bot core.
//   - Watches the editable data files and hot-reloads them on change.
//   - Exposes a minimal HTTP server with /healthz, /status, and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xcornflowerx/flowerbot/bot"
	"github.com/xcornflowerx/flowerbot/chat"
	"github.com/xcornflowerx/flowerbot/config"
	"github.com/xcornflowerx/flowerbot/game"
	"github.com/xcornflowerx/flowerbot/queue"
	"github.com/xcornflowerx/flowerbot/server"
	"github.com/xcornflowerx/flowerbot/shoutout"
	"github.com/xcornflowerx/flowerbot/sound"
	"github.com/xcornflowerx/flowerbot/store"
	"github.com/xcornflowerx/flowerbot/telemetry"
)

const version = "1.0.0"

func main() {
	startTime := time.Now()

	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.ValidateChatReady(); err != nil {
		slog.Error("chat config incomplete", slog.Any("err", err))
		os.Exit(1)
	}

	telemetry.Init()
	shutdownTracing, err := telemetry.InitTracing("flowerbot", version)
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdownTracing()

	// Data files. Missing files read as empty; the features degrade rather
	// than block startup.
	approved, err := store.ReadLines(cfg.ShoutoutUsersFile)
	if err != nil {
		slog.Error("approved streamers load failed", slog.String("path", cfg.ShoutoutUsersFile), slog.Any("err", err))
		os.Exit(1)
	}
	custom := loadCustomShoutouts(cfg.CustomShoutoutsFile)
	responses := loadAutoResponses(cfg.AutoResponsesFile)

	shoutouts := shoutout.NewTracker(cfg.TwitchChannel, cfg.ShoutoutTemplate, approved, custom, cfg.IgnoredUsers, func(users []string) error {
		return store.WriteLines(cfg.ShoutoutUsersFile, users)
	})

	var engine *game.Engine
	if cfg.FlowermonsEnabled {
		dex, err := store.ReadLines(cfg.DexFile)
		if err != nil {
			slog.Error("flowermons dex load failed", slog.String("path", cfg.DexFile), slog.Any("err", err))
			os.Exit(1)
		}
		ledger, err := store.ReadLedger(cfg.LedgerFile)
		if err != nil {
			slog.Error("flowermons ledger load failed", slog.String("path", cfg.LedgerFile), slog.Any("err", err))
			os.Exit(1)
		}
		engine = game.NewEngine(dex, ledger, cfg.DefaultBallLimit, cfg.SubsBallLimit, func(l map[string]*store.LedgerEntry) error {
			return store.WriteLedger(cfg.LedgerFile, l)
		})
		slog.Info("flowermons enabled", slog.Int("dex_size", engine.DexSize()), slog.Int("known_users", len(ledger)), slog.Bool("subs_only", cfg.FlowermonsSubsOnly))
	}

	var notifier bot.Notifier
	if p := sound.NewPlayer(cfg.SFXDir, cfg.SFXPlayer, loadSFXMappings(cfg.SFXMappingsFile)); p != nil {
		notifier = p
		slog.Info("sound effects enabled", slog.String("dir", cfg.SFXDir), slog.String("player", cfg.SFXPlayer))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var b *bot.Bot
	ircClient := chat.NewClient(cfg.TwitchBotUsername, cfg.TwitchOAuthToken, cfg.TwitchChannel, func(ev bot.Event) {
		b.HandleMessage(ctx, ev)
	})

	b = bot.New(bot.Options{
		Channel:                cfg.TwitchChannel,
		TrustedUsers:           cfg.TrustedUsers,
		RestrictedUsers:        cfg.RestrictedUsers,
		RestrictedCommandLimit: cfg.RestrictedCommandLimit,
		Responses:              responses,
		Shoutouts:              shoutouts,
		Queues:                 queue.NewManager(),
		Game:                   engine,
		SubsOnly:               cfg.FlowermonsSubsOnly,
		Sender:                 ircClient,
		Sound:                  notifier,
	})

	// Hot reload for the files the streamer edits by hand between (or during)
	// streams. The approved list and ledger are bot-written, so they are not
	// watched; re-reading our own rewrites would be noise.
	if err := store.Watch(func() {
		b.SetResponses(loadAutoResponses(cfg.AutoResponsesFile))
		shoutouts.SetCustom(loadCustomShoutouts(cfg.CustomShoutoutsFile))
		slog.Info("data files reloaded")
	}, cfg.AutoResponsesFile, cfg.CustomShoutoutsFile); err != nil {
		slog.Warn("file watcher unavailable", slog.Any("err", err))
	}

	go func() {
		if err := server.Start(ctx, cfg.HTTPAddr, b, server.Info{
			Channel:           cfg.TwitchChannel,
			FlowermonsEnabled: cfg.FlowermonsEnabled,
			Started:           startTime,
		}); err != nil {
			slog.Error("http server exited", slog.Any("err", err))
		}
	}()

	slog.Info("connecting to chat", slog.String("channel", cfg.TwitchChannel), slog.String("bot", cfg.TwitchBotUsername))
	if err := ircClient.Run(ctx); err != nil {
		slog.Error("chat connection failed", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

// loadCustomShoutouts reads the per-user shoutout override table
// (TWITCH_USERNAME<tab>SHOUTOUT_MESSAGE with a header row). Errors log and
// read as empty.
func loadCustomShoutouts(path string) map[string]string {
	rows, err := store.ReadTSV(path)
	if err != nil {
		slog.Error("custom shoutouts load failed", slog.String("path", path), slog.Any("err", err))
		return nil
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		user := strings.ToLower(row["TWITCH_USERNAME"])
		if user == "" || row["SHOUTOUT_MESSAGE"] == "" {
			continue
		}
		out[user] = row["SHOUTOUT_MESSAGE"]
	}
	return out
}

// loadAutoResponses reads the auto-response table (MESSAGE<tab>RESPONSE with
// a header row). A trigger message may appear on multiple rows; one response
// is picked at random per match.
func loadAutoResponses(path string) map[string][]string {
	rows, err := store.ReadTSV(path)
	if err != nil {
		slog.Error("auto responses load failed", slog.String("path", path), slog.Any("err", err))
		return nil
	}
	out := make(map[string][]string, len(rows))
	for _, row := range rows {
		trigger := strings.ToLower(row["MESSAGE"])
		if trigger == "" || row["RESPONSE"] == "" {
			continue
		}
		out[trigger] = append(out[trigger], row["RESPONSE"])
	}
	return out
}

// loadSFXMappings reads the event-to-audio-file table (EVENT<tab>FILE with a
// header row). A missing file disables the sound side channel.
func loadSFXMappings(path string) map[string]string {
	rows, err := store.ReadTSV(path)
	if err != nil {
		slog.Error("sfx mappings load failed", slog.String("path", path), slog.Any("err", err))
		return nil
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		event := strings.ToLower(row["EVENT"])
		if event == "" || row["FILE"] == "" {
			continue
		}
		out[event] = row["FILE"]
	}
	return out
}
