package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TWITCH_CHANNEL", "")
	t.Setenv("DATA_DIR", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RestrictedCommandLimit != 5 {
		t.Errorf("RestrictedCommandLimit = %d, want 5", cfg.RestrictedCommandLimit)
	}
	if cfg.DefaultBallLimit != 3 || cfg.SubsBallLimit != 10 {
		t.Errorf("ball limits = %d/%d, want 3/10", cfg.DefaultBallLimit, cfg.SubsBallLimit)
	}
	if cfg.LedgerFile != filepath.Join("data", "flowermons_user_data.tsv") {
		t.Errorf("unexpected ledger path %q", cfg.LedgerFile)
	}
	if cfg.ShoutoutTemplate == "" {
		t.Errorf("expected default shoutout template")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
}

func TestLoadTrustedUsersIncludesBroadcaster(t *testing.T) {
	t.Setenv("TWITCH_CHANNEL", "Xcornflowerx")
	t.Setenv("TRUSTED_USERS", "ModOne, modtwo,modone")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []string{"modone", "modtwo", "xcornflowerx"}
	if len(cfg.TrustedUsers) != len(want) {
		t.Fatalf("TrustedUsers = %v, want %v", cfg.TrustedUsers, want)
	}
	for i, u := range want {
		if cfg.TrustedUsers[i] != u {
			t.Errorf("TrustedUsers[%d] = %q, want %q", i, cfg.TrustedUsers[i], u)
		}
	}
}

func TestValidateChatReady(t *testing.T) {
	t.Setenv("TWITCH_CHANNEL", "chan")
	t.Setenv("TWITCH_BOT_USERNAME", "bot")
	t.Setenv("TWITCH_OAUTH_TOKEN", "oauth:token")
	cfg, _ := Load()
	if err := cfg.ValidateChatReady(); err != nil {
		t.Errorf("expected valid chat config, got %v", err)
	}
	t.Setenv("TWITCH_CHANNEL", "")
	cfg, _ = Load()
	if err := cfg.ValidateChatReady(); err == nil {
		t.Errorf("expected error when missing twitch envs")
	}
}

func TestLoadFlowermonsFlags(t *testing.T) {
	t.Setenv("FLOWERMONS_ENABLED", "true")
	t.Setenv("FLOWERMONS_SUBS_ONLY", "1")
	t.Setenv("FLOWERMONS_DEFAULT_BALL_LIMIT", "7")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.FlowermonsEnabled || !cfg.FlowermonsSubsOnly {
		t.Errorf("expected flowermons flags set, got %+v", cfg)
	}
	if cfg.DefaultBallLimit != 7 {
		t.Errorf("DefaultBallLimit = %d, want 7", cfg.DefaultBallLimit)
	}
}
