package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/autobrr/go-mediaprobe/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if resolved != path {
		t.Fatalf("resolved=%q want %q", resolved, path)
	}
	want := config.Default()
	if cfg.Probe != want.Probe || cfg.Output != want.Output || cfg.Logging != want.Logging {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Probe.MaxReadBytes != 16<<20 || cfg.Probe.Jobs != 4 || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected default values: %+v", cfg)
	}
}

func TestLoadDefaultPathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.Reset()
	t.Cleanup(homedir.Reset)

	_, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected no config in temp HOME")
	}
	want := filepath.Join(home, ".config", "mediaprobe", "config.toml")
	if resolved != want {
		t.Fatalf("resolved=%q want %q", resolved, want)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
[probe]
max_read_bytes = 1048576
jobs = 8

[output]
format = " JSON "

[logging]
level = "DEBUG"
format = "xml"
max_size_mb = 0
max_backups = -2
`)
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Probe.MaxReadBytes != 1<<20 || cfg.Probe.Jobs != 8 {
		t.Fatalf("unexpected probe section: %+v", cfg.Probe)
	}
	if cfg.Output.Format != config.OutputJSON {
		t.Fatalf("output format=%q", cfg.Output.Format)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 0 {
		t.Fatalf("unexpected rotation settings: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"small read window": "[probe]\nmax_read_bytes = 1024\n",
		"too many jobs":     "[probe]\njobs = 65\n",
		"negative jobs":     "[probe]\njobs = -1\n",
		"output format":     "[output]\nformat = \"xml\"\n",
		"log level":         "[logging]\nlevel = \"verbose\"\n",
	}
	for name, body := range cases {
		_, _, _, err := config.Load(writeConfig(t, body))
		if !errors.Is(err, config.ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, _, _, err := config.Load(writeConfig(t, "[probe]\nparse_speed = 0.5\n"))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestSampleConfigLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("Load sample: exists=%v err=%v", exists, err)
	}
	want := config.Default()
	if cfg.Probe != want.Probe || cfg.Output != want.Output || cfg.Logging != want.Logging {
		t.Fatalf("sample config diverges from defaults: %+v", cfg)
	}

	var raw map[string]any
	if err := toml.Unmarshal([]byte(config.Sample()), &raw); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	for _, section := range []string{"probe", "output", "logging"} {
		if _, ok := raw[section]; !ok {
			t.Fatalf("sample is missing [%s]", section)
		}
	}
}
