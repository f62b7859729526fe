package providers

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNoProvidersEnabled is returned at construction time when the
	// configuration enables zero providers. Dispatch never starts with an
	// empty chain.
	ErrNoProvidersEnabled = errors.New("no providers enabled")

	// ErrProviderNotFound is returned when a provider name is not in the chain.
	ErrProviderNotFound = errors.New("provider not found")
)

// Descriptor identifies one configured provider. Immutable once loaded;
// created at startup from configuration and never mutated afterwards.
type Descriptor struct {
	// Name of the provider (e.g., "groq").
	Name string

	// BaseURL of the provider endpoint.
	BaseURL string

	// Model identifier to request.
	Model string

	// APIKey used for authentication. Never logged.
	APIKey string

	// Timeout applied to each call against this provider.
	Timeout time.Duration

	// Enabled providers participate in the chain; disabled ones are
	// skipped without a network call.
	Enabled bool
}

// ChainEntry pairs a descriptor with the client that serves it.
type ChainEntry struct {
	Descriptor Descriptor
	Client     Client
}

// Status reports a provider's last-known reachability for introspection.
// It never triggers a live call.
type Status struct {
	Name      string     `json:"name"`
	Model     string     `json:"model"`
	Enabled   bool       `json:"enabled"`
	Reachable *bool      `json:"reachable,omitempty"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
}

// Registry holds the ordered provider chain built once at startup. The chain
// is read-only and safe for concurrent reads; only the reachability record
// is mutable, behind its own lock.
type Registry struct {
	chain []ChainEntry

	mu        sync.RWMutex
	reachable map[string]bool
	lastSeen  map[string]time.Time
}

// NewRegistry builds the provider chain in configuration order. The first
// entry is the primary. It fails fast when no entry is enabled, so a
// misconfigured process never reaches its first request.
func NewRegistry(entries ...ChainEntry) (*Registry, error) {
	enabled := 0
	for _, e := range entries {
		if e.Descriptor.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return nil, ErrNoProvidersEnabled
	}

	return &Registry{
		chain:     entries,
		reachable: make(map[string]bool),
		lastSeen:  make(map[string]time.Time),
	}, nil
}

// Chain returns the ordered provider chain. Callers must not mutate it.
func (r *Registry) Chain() []ChainEntry {
	return r.chain
}

// Count returns the number of enabled providers in the chain.
func (r *Registry) Count() int {
	count := 0
	for _, e := range r.chain {
		if e.Descriptor.Enabled {
			count++
		}
	}
	return count
}

// MarkReachable records the outcome of a provider attempt for later
// introspection.
func (r *Registry) MarkReachable(name string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reachable[name] = ok
	r.lastSeen[name] = time.Now()
}

// Statuses reports the chain contents with last-known reachability, in
// chain order. Providers that have not been attempted yet have no
// reachability verdict.
func (r *Registry) Statuses() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]Status, 0, len(r.chain))
	for _, e := range r.chain {
		s := Status{
			Name:    e.Descriptor.Name,
			Model:   e.Descriptor.Model,
			Enabled: e.Descriptor.Enabled,
		}
		if ok, seen := r.reachable[e.Descriptor.Name]; seen {
			reachable := ok
			s.Reachable = &reachable
			last := r.lastSeen[e.Descriptor.Name]
			s.LastSeen = &last
		}
		statuses = append(statuses, s)
	}
	return statuses
}

// Models returns the configured model per provider, keyed by provider name.
func (r *Registry) Models() map[string]string {
	models := make(map[string]string, len(r.chain))
	for _, e := range r.chain {
		if e.Descriptor.Enabled {
			models[e.Descriptor.Name] = e.Descriptor.Model
		}
	}
	return models
}

// Primary returns the first enabled descriptor in the chain.
func (r *Registry) Primary() (Descriptor, error) {
	for _, e := range r.chain {
		if e.Descriptor.Enabled {
			return e.Descriptor, nil
		}
	}
	return Descriptor{}, ErrProviderNotFound
}
