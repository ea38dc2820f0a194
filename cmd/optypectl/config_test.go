package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/simctl/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServiceConfigDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `serve_addr = "127.0.0.1:7020"
peer_manifests = ["peers/a.toml", "  ", "peers/b.toml"]
`)
	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := serviceConfig{
		Name:          "optypectl",
		ServeAddr:     "127.0.0.1:7020",
		PeerManifests: []string{"peers/a.toml", "peers/b.toml"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadServiceConfigRejectsUnknownKey(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "name = \"x\"\nserve = \":1\"\n")
	_, err := loadServiceConfig(path)
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}
