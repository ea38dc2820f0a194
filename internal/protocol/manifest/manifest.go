// Package manifest publishes a registry's wire table as TOML and checks a
// peer's table against the local one before a session is trusted.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/simctl/internal/protocol/optype"
	"github.com/rs/zerolog/log"
)

// Version is the manifest format version this package reads and writes.
const Version = 1

var (
	ErrUnsupportedVersion = errors.New("manifest: unsupported version")
	ErrSkew               = errors.New("manifest: wire table skew")
	ErrUnknownKey         = errors.New("manifest: unknown key")
)

// Entry is one operation row.
type Entry struct {
	Name   string `toml:"name"`
	Marker string `toml:"marker"`
	ID     int32  `toml:"id"`
}

// Manifest is the published wire table.
type Manifest struct {
	Version    int     `toml:"version"`
	Operations []Entry `toml:"operations"`
}

// FromRegistry snapshots r ordered by id.
func FromRegistry(r *optype.Registry) Manifest {
	variants := r.Variants()
	m := Manifest{Version: Version, Operations: make([]Entry, 0, len(variants))}
	for _, v := range variants {
		m.Operations = append(m.Operations, Entry{Name: v.Name, Marker: string(v.Marker), ID: v.ID})
	}
	return m
}

// Variants converts entries back into catalog variants in file order.
func (m Manifest) Variants() []optype.Variant {
	out := make([]optype.Variant, 0, len(m.Operations))
	for _, e := range m.Operations {
		out = append(out, optype.Variant{Name: e.Name, Marker: optype.Marker(e.Marker), ID: e.ID})
	}
	return out
}

// Registry builds a sealed registry from the manifest. A manifest with
// duplicate or negative ids fails with the same errors as a bad catalog.
func (m Manifest) Registry(opts ...optype.Option) (*optype.Registry, error) {
	return optype.Build(m.Variants(), opts...)
}

func Encode(w io.Writer, m Manifest) error {
	if m.Version == 0 {
		m.Version = Version
	}
	if err := toml.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("manifest encode failed: %w", err)
	}
	return nil
}

func Decode(r io.Reader) (Manifest, error) {
	var m Manifest
	meta, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest parse failed: %w", err)
	}
	if err := rejectUndecoded(meta); err != nil {
		return Manifest{}, fmt.Errorf("manifest parse failed: %w", err)
	}
	if m.Version != Version {
		return Manifest{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}
	return m, nil
}

// Load reads a manifest file.
func Load(path string) (Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest load failed (%s): %w", path, err)
	}
	if err := rejectUndecoded(meta); err != nil {
		return Manifest{}, fmt.Errorf("manifest load failed (%s): %w", path, err)
	}
	if m.Version != Version {
		return Manifest{}, fmt.Errorf("manifest load failed (%s): %w: %d", path, ErrUnsupportedVersion, m.Version)
	}
	log.Debug().Str("path", path).Int("operations", len(m.Operations)).Msg("manifest.Load ok")
	return m, nil
}

// A misspelled table would otherwise decode to an empty wire table and
// surface later as skew.
func rejectUndecoded(meta toml.MetaData) error {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: %q", ErrUnknownKey, undecoded[0].String())
	}
	return nil
}

// Write stores m at path, refusing to replace an existing file unless
// overwrite is set.
func Write(path string, m Manifest, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("manifest already exists: %s", path)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("manifest write failed (%s): %w", path, err)
	}
	if err := Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Change is a marker both sides know under different ids or names.
type Change struct {
	Marker string
	Local  Entry
	Peer   Entry
}

// SkewError lists every difference between a peer manifest and the local
// registry.
type SkewError struct {
	Missing []Entry
	Unknown []Entry
	Changed []Change
}

func (e *SkewError) Error() string {
	parts := make([]string, 0, 3)
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("peer missing %d", len(e.Missing)))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("peer unknown %d", len(e.Unknown)))
	}
	if len(e.Changed) > 0 {
		parts = append(parts, fmt.Sprintf("changed %d", len(e.Changed)))
	}
	return "manifest: wire table skew: " + strings.Join(parts, ", ")
}

func (e *SkewError) Is(target error) bool {
	return target == ErrSkew
}

// Check compares a peer manifest against r. Entries are matched by
// marker; a marker present on both sides must carry the same id and name.
func Check(peer Manifest, r *optype.Registry) error {
	local := FromRegistry(r)
	localByMarker := make(map[string]Entry, len(local.Operations))
	for _, e := range local.Operations {
		localByMarker[e.Marker] = e
	}

	skew := &SkewError{}
	seen := make(map[string]struct{}, len(peer.Operations))
	for _, pe := range peer.Operations {
		seen[pe.Marker] = struct{}{}
		le, ok := localByMarker[pe.Marker]
		if !ok {
			skew.Unknown = append(skew.Unknown, pe)
			continue
		}
		if le.ID != pe.ID || le.Name != pe.Name {
			skew.Changed = append(skew.Changed, Change{Marker: pe.Marker, Local: le, Peer: pe})
		}
	}
	for _, le := range local.Operations {
		if _, ok := seen[le.Marker]; !ok {
			skew.Missing = append(skew.Missing, le)
		}
	}

	if len(skew.Missing) == 0 && len(skew.Unknown) == 0 && len(skew.Changed) == 0 {
		log.Debug().Int("operations", len(peer.Operations)).Msg("manifest.Check ok")
		return nil
	}
	sort.Slice(skew.Unknown, func(i, j int) bool { return skew.Unknown[i].ID < skew.Unknown[j].ID })
	sort.Slice(skew.Changed, func(i, j int) bool { return skew.Changed[i].Local.ID < skew.Changed[j].Local.ID })
	log.Warn().
		Int("missing", len(skew.Missing)).
		Int("unknown", len(skew.Unknown)).
		Int("changed", len(skew.Changed)).
		Msg("manifest.Check skew")
	return skew
}
