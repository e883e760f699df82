package provider

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnavailable is returned when no usable provider can be selected.
var ErrUnavailable = errors.New("provider unavailable")

// Credentials maps provider IDs to their secret (API key, token or, for
// self-hosted providers, an endpoint). Empty values count as absent.
type Credentials map[ID]string

// Snapshot is a consistent view of the registry's mutable state.
type Snapshot struct {
	ID    ID     `json:"provider"`
	Name  string `json:"name"`
	Model string `json:"model"`
	// Usable reports whether the active provider has a credential.
	Usable    bool `json:"usable"`
	Available []ID `json:"available"`
}

// Selection is a provider chosen for one call, with its model resolved.
type Selection struct {
	Descriptor Descriptor
	Model      string
}

// Registry tracks provider availability and the active provider and model.
// It is safe for concurrent use; concurrent SetActive calls are
// last-writer-wins.
type Registry struct {
	mu        sync.RWMutex
	catalog   []Descriptor
	index     map[ID]int
	available map[ID]bool

	active ID
	// modelOverride applies only to overrideOwner.
	modelOverride string
	overrideOwner ID
}

// NewRegistry creates a registry over catalog with the given initial
// active provider and optional model override. No provider is available
// until Initialize is called.
func NewRegistry(catalog []Descriptor, active ID, model string) *Registry {
	r := &Registry{
		catalog:   catalog,
		index:     make(map[ID]int, len(catalog)),
		available: make(map[ID]bool, len(catalog)),
		active:    active,
	}
	for i, d := range catalog {
		r.index[d.ID] = i
	}
	if model = strings.TrimSpace(model); model != "" {
		r.modelOverride = model
		r.overrideOwner = active
	}
	return r
}

// Initialize marks each catalog provider available iff creds holds a
// non-empty value for it. It never fails; a provider with no credential is
// simply unavailable.
func (r *Registry) Initialize(creds Credentials) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.catalog {
		r.available[d.ID] = strings.TrimSpace(creds[d.ID]) != ""
	}
}

// ListAvailable returns available descriptors in canonical catalog order.
func (r *Registry) ListAvailable() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.catalog))
	for _, d := range r.catalog {
		if r.available[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

// All returns every descriptor in canonical order, available or not.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.catalog))
	copy(out, r.catalog)
	return out
}

// Descriptor looks up a provider by ID.
func (r *Registry) Descriptor(id ID) (Descriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.catalog[i], true
}

// IsAvailable reports whether id has a credential.
func (r *Registry) IsAvailable(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.available[id]
}

// SetActive makes id the active provider. It succeeds only when id is
// available. A non-empty modelOverride replaces the stored override; an
// empty one leaves it untouched. On rejection nothing changes.
//
// The override is scoped to the provider it was set with: ResolveModel
// returns it for that provider only and every other provider resolves to
// its default model.
func (r *Registry) SetActive(id ID, modelOverride string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.available[id] {
		return false
	}
	r.active = id
	if m := strings.TrimSpace(modelOverride); m != "" {
		r.modelOverride = m
		r.overrideOwner = id
	}
	return true
}

// ResolveModel returns the override for id when one is set, else the
// descriptor's default model.
func (r *Registry) ResolveModel(id ID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveModelLocked(id)
}

func (r *Registry) resolveModelLocked(id ID) string {
	if r.modelOverride != "" && r.overrideOwner == id {
		return r.modelOverride
	}
	d, ok := r.Descriptor(id)
	if !ok {
		return ""
	}
	return d.DefaultModel()
}

// Current returns the active provider with its resolved model, plus the
// IDs of every available provider.
func (r *Registry) Current() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		ID:     r.active,
		Model:  r.resolveModelLocked(r.active),
		Usable: r.available[r.active],
	}
	for _, d := range r.catalog {
		if r.available[d.ID] {
			s.Available = append(s.Available, d.ID)
		}
	}
	if d, ok := r.Descriptor(r.active); ok {
		s.Name = d.DisplayName
	}
	return s
}

// Select picks the provider for one call: override when given and
// available, otherwise the active provider. State is read once under the
// lock so the call sees a consistent provider and model.
func (r *Registry) Select(override ID) (Selection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id := r.active
	if override != "" && r.available[override] {
		id = override
	}
	if !r.available[id] {
		if override != "" && override != id {
			return Selection{}, fmt.Errorf("%w: neither %q nor active %q has a credential", ErrUnavailable, override, id)
		}
		return Selection{}, fmt.Errorf("%w: %q has no credential", ErrUnavailable, id)
	}

	d, ok := r.Descriptor(id)
	if !ok {
		return Selection{}, fmt.Errorf("%w: unknown provider %q", ErrUnavailable, id)
	}
	return Selection{Descriptor: d, Model: r.resolveModelLocked(id)}, nil
}
