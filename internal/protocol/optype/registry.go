package optype

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Observer receives lookup failures from a sealed Registry. Calls happen on
// the lookup path, so implementations must be safe for concurrent use and
// must not block.
type Observer interface {
	UnknownIdentifier(id int32)
	UnknownType(marker Marker)
}

type nopObserver struct{}

func (nopObserver) UnknownIdentifier(int32) {}
func (nopObserver) UnknownType(Marker)      {}

// Option configures Build.
type Option func(*Registry)

// WithObserver routes lookup failures to o.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observer = o
		}
	}
}

// Registry is the sealed bidirectional lookup over a variant set. It is
// never written after Build returns and is safe for concurrent reads.
type Registry struct {
	byID     map[int32]Variant
	byMarker map[Marker]Variant
	ordered  []Variant
	observer Observer
}

// Build validates and registers variants in order, returning a sealed
// Registry. Any error discards everything registered so far.
func Build(variants []Variant, opts ...Option) (*Registry, error) {
	r := &Registry{
		byID:     make(map[int32]Variant, len(variants)),
		byMarker: make(map[Marker]Variant, len(variants)),
		ordered:  make([]Variant, 0, len(variants)),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, v := range variants {
		if err := r.register(v); err != nil {
			log.Error().Err(err).Int32("id", v.ID).Str("marker", string(v.Marker)).Msg("optype.Build rejected variant")
			return nil, err
		}
	}
	log.Info().Int("variants", len(r.ordered)).Msg("optype.Build sealed")
	return r, nil
}

// MustBuild is Build for process startup, where a bad catalog is fatal.
func MustBuild(variants []Variant, opts ...Option) *Registry {
	r, err := Build(variants, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default builds a Registry over Catalog().
func Default(opts ...Option) (*Registry, error) {
	return Build(Catalog(), opts...)
}

// register checks both keys before writing either mapping.
func (r *Registry) register(v Variant) error {
	if v.ID < 0 {
		return InvalidIdentifierError{Variant: v}
	}
	if strings.TrimSpace(v.Name) == "" {
		return InvalidVariantError{Variant: v, Reason: "name is required"}
	}
	if strings.TrimSpace(string(v.Marker)) == "" {
		return InvalidVariantError{Variant: v, Reason: "payload marker is required"}
	}
	if existing, ok := r.byID[v.ID]; ok {
		return DuplicateIdentifierError{ID: v.ID, Existing: existing, New: v}
	}
	if existing, ok := r.byMarker[v.Marker]; ok {
		return DuplicateTypeError{Marker: v.Marker, Existing: existing, New: v}
	}
	r.byID[v.ID] = v
	r.byMarker[v.Marker] = v
	r.ordered = append(r.ordered, v)
	log.Debug().Int32("id", v.ID).Str("name", v.Name).Str("marker", string(v.Marker)).Msg("optype.Build registered")
	return nil
}

// Extend returns a new sealed Registry holding r's variants followed by
// variants. r is left unchanged whether or not Extend succeeds.
func (r *Registry) Extend(variants ...Variant) (*Registry, error) {
	all := make([]Variant, 0, len(r.ordered)+len(variants))
	all = append(all, r.ordered...)
	all = append(all, variants...)
	return Build(all, WithObserver(r.observer))
}

// ResolveByID returns the variant registered under id.
func (r *Registry) ResolveByID(id int32) (Variant, error) {
	v, ok := r.byID[id]
	if !ok {
		r.observer.UnknownIdentifier(id)
		return Variant{}, UnknownIdentifierError{ID: id}
	}
	return v, nil
}

// ResolveByType returns the variant whose payload marker is marker.
func (r *Registry) ResolveByType(marker Marker) (Variant, error) {
	v, ok := r.byMarker[marker]
	if !ok {
		r.observer.UnknownType(marker)
		return Variant{}, UnknownTypeError{Marker: marker}
	}
	return v, nil
}

// ResolvePayload returns the variant to send p under.
func (r *Registry) ResolvePayload(p Payload) (Variant, error) {
	if p == nil {
		r.observer.UnknownType("")
		return Variant{}, UnknownTypeError{}
	}
	return r.ResolveByType(p.Marker())
}

// NewPayloadFor resolves a received wire id and returns an empty payload
// of the matching concrete type.
func (r *Registry) NewPayloadFor(id int32) (Variant, Payload, error) {
	v, err := r.ResolveByID(id)
	if err != nil {
		return Variant{}, nil, err
	}
	p, err := NewPayload(v.Marker)
	if err != nil {
		// Registered (e.g. from a manifest) but with no payload shape here.
		r.observer.UnknownType(v.Marker)
		return Variant{}, nil, err
	}
	return v, p, nil
}

// IdentifierOf returns the wire id of v.
func IdentifierOf(v Variant) int32 {
	return v.WireID()
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id int32) bool {
	_, ok := r.byID[id]
	return ok
}

func (r *Registry) Len() int {
	return len(r.ordered)
}

// Variants returns the registered variants ordered by id.
func (r *Registry) Variants() []Variant {
	out := make([]Variant, len(r.ordered))
	copy(out, r.ordered)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
