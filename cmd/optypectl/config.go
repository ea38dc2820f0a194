package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Name          string   `toml:"name"`
	ServeAddr     string   `toml:"serve_addr"`
	PeerManifests []string `toml:"peer_manifests"`
}

type serviceConfig struct {
	Name          string
	ServeAddr     string
	PeerManifests []string
}

func defaultServiceConfig() serviceConfig {
	return serviceConfig{Name: "optypectl"}
}

func loadServiceConfig(path string) (serviceConfig, error) {
	cfg := defaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serviceConfig{}, fmt.Errorf("load optypectl config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return serviceConfig{}, fmt.Errorf("load optypectl config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("name") {
		if name := strings.TrimSpace(raw.Name); name != "" {
			cfg.Name = name
		}
	}
	if meta.IsDefined("serve_addr") {
		cfg.ServeAddr = strings.TrimSpace(raw.ServeAddr)
	}
	if meta.IsDefined("peer_manifests") {
		for _, p := range raw.PeerManifests {
			if p = strings.TrimSpace(p); p != "" {
				cfg.PeerManifests = append(cfg.PeerManifests, p)
			}
		}
	}
	return cfg, nil
}
