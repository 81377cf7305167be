package store

import "testing"

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("TASKTRACK_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg.Backend != "" {
		t.Fatalf("expected empty config, got %+v", cfg)
	}

	cfg.Backend = "json"
	cfg.IndexMode = "legacy"
	cfg.TUI = &TUIConfig{Glyphs: "ascii"}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Backend != "json" || got.IndexMode != "legacy" || got.TUI == nil || got.TUI.Glyphs != "ascii" {
		t.Fatalf("unexpected config: %+v", got)
	}
}
