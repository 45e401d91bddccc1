package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `corpora_dir: /srv/corpora
order: 2
max_bytes: 1048576
steps: 25
seed: 7
stop: [".", "!"]
stream_mode: typewriter
log_level: debug
server_address: 0.0.0.0:9090
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.CorporaDir != "/srv/corpora" || cfg.StreamMode != "typewriter" || cfg.ServerAddress != "0.0.0.0:9090" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Order == nil || *cfg.Order != 2 || cfg.MaxBytes == nil || *cfg.MaxBytes != 1<<20 {
		t.Fatalf("unexpected model settings %+v", cfg)
	}
	if len(cfg.Stop) != 2 || cfg.Stop[1] != "!" {
		t.Fatalf("unexpected stop tokens %q", cfg.Stop)
	}

	d := cfg.generationDefaults()
	if d.Steps == nil || *d.Steps != 25 || d.Seed == nil || *d.Seed != 7 {
		t.Fatalf("unexpected generation defaults %+v", d)
	}
}

func TestLoadConfigFileMissingAndInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := loadConfigFile(filepath.Join(dir, "absent.yaml"))
	if err != nil || cfg.Order != nil || cfg.CorporaDir != "" {
		t.Fatalf("a missing file should give a zero config, got %+v %v", cfg, err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("order: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfigFile(bad); err == nil {
		t.Fatal("expected a parse error")
	}

	if d := (Config{}).generationDefaults(); d.Steps != nil || d.Seed != nil {
		t.Fatalf("empty config should set no defaults, got %+v", d)
	}
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv("BABBLE_CONFIG", "/etc/babble.yaml")
	if got := configPath(); got != "/etc/babble.yaml" {
		t.Fatalf("configPath() = %q", got)
	}
}
