// Package config loads environment variables and provides a typed Config used across the bot.
// It applies sensible defaults so the binary can run locally with minimal setup.
// For required chat credentials, use ValidateChatReady.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// Twitch
	TwitchChannel     string
	TwitchBotUsername string
	TwitchOAuthToken  string

	// Access control
	TrustedUsers    []string
	IgnoredUsers    []string
	RestrictedUsers []string
	// Number of commands a restricted user may issue before suppression.
	RestrictedCommandLimit int

	// Storage
	DataDir             string
	ShoutoutUsersFile   string
	CustomShoutoutsFile string
	AutoResponsesFile   string
	DexFile             string
	LedgerFile          string

	// Shoutouts
	ShoutoutTemplate string

	// Flowermons
	FlowermonsEnabled  bool
	FlowermonsSubsOnly bool
	DefaultBallLimit   int
	SubsBallLimit      int

	// Sound side channel
	SFXDir          string
	SFXPlayer       string
	SFXMappingsFile string

	// HTTP
	HTTPAddr string
}

const defaultShoutoutTemplate = "@${username} is also a streamer! Check them out some time at https://www.twitch.tv/${username}"

// Load reads environment variables and applies defaults. It doesn't fail if Twitch creds are
// missing; use ValidateChatReady() when you require a live chat connection. Missing optional
// variables disable features (e.g., flowermons, sound effects).
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.TwitchChannel = normalize(os.Getenv("TWITCH_CHANNEL"))
	cfg.TwitchBotUsername = os.Getenv("TWITCH_BOT_USERNAME")
	cfg.TwitchOAuthToken = os.Getenv("TWITCH_OAUTH_TOKEN")

	cfg.TrustedUsers = splitUsers(os.Getenv("TRUSTED_USERS"))
	if cfg.TwitchChannel != "" && !contains(cfg.TrustedUsers, cfg.TwitchChannel) {
		// The broadcaster always carries mod-equivalent authority.
		cfg.TrustedUsers = append(cfg.TrustedUsers, cfg.TwitchChannel)
	}
	cfg.IgnoredUsers = splitUsers(os.Getenv("IGNORED_USERS"))
	cfg.RestrictedUsers = splitUsers(os.Getenv("RESTRICTED_USERS"))
	cfg.RestrictedCommandLimit = readInt("RESTRICTED_COMMAND_LIMIT", 5)

	cfg.DataDir = os.Getenv("DATA_DIR")
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	cfg.ShoutoutUsersFile = fileInDataDir(cfg.DataDir, "SHOUTOUT_USERS_FILE", "approved_streamers.txt")
	cfg.CustomShoutoutsFile = fileInDataDir(cfg.DataDir, "CUSTOM_SHOUTOUTS_FILE", "custom_shoutouts.tsv")
	cfg.AutoResponsesFile = fileInDataDir(cfg.DataDir, "AUTO_RESPONSES_FILE", "auto_responses.tsv")
	cfg.DexFile = fileInDataDir(cfg.DataDir, "FLOWERMONS_DEX_FILE", "flowermons.txt")
	cfg.LedgerFile = fileInDataDir(cfg.DataDir, "FLOWERMONS_LEDGER_FILE", "flowermons_user_data.tsv")

	cfg.ShoutoutTemplate = os.Getenv("SHOUTOUT_MESSAGE_TEMPLATE")
	if cfg.ShoutoutTemplate == "" {
		cfg.ShoutoutTemplate = defaultShoutoutTemplate
	}

	cfg.FlowermonsEnabled = readBool("FLOWERMONS_ENABLED", false)
	cfg.FlowermonsSubsOnly = readBool("FLOWERMONS_SUBS_ONLY", false)
	cfg.DefaultBallLimit = readInt("FLOWERMONS_DEFAULT_BALL_LIMIT", 3)
	cfg.SubsBallLimit = readInt("FLOWERMONS_SUBS_BALL_LIMIT", 10)

	cfg.SFXDir = os.Getenv("SFX_DIR")
	cfg.SFXPlayer = os.Getenv("SFX_PLAYER")
	cfg.SFXMappingsFile = fileInDataDir(cfg.DataDir, "SFX_MAPPINGS_FILE", "sfx_mappings.tsv")

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg, nil
}

// ValidateChatReady checks required fields for connecting to Twitch chat.
func (c *Config) ValidateChatReady() error {
	if c.TwitchChannel == "" || c.TwitchBotUsername == "" || c.TwitchOAuthToken == "" {
		return fmt.Errorf("missing twitch env: require TWITCH_CHANNEL, TWITCH_BOT_USERNAME, TWITCH_OAUTH_TOKEN")
	}
	return nil
}

func fileInDataDir(dataDir, env, def string) string {
	name := os.Getenv(env)
	if name == "" {
		name = def
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dataDir, name)
}

func splitUsers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = normalize(p)
		if p == "" || contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func readInt(name string, def int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func readBool(name string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
