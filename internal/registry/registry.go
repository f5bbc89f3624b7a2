// Package registry holds the PDF text extraction backends and dispatches
// documents to them in priority order.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrExtractionFailed is returned when every backend failed or produced
	// no text.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrNoExtractor is returned when no backend accepts the document.
	ErrNoExtractor = errors.New("no extraction backend available")
)

// Extractor is implemented by each PDF text extraction backend.
type Extractor interface {
	// Name returns the backend's unique identifier.
	Name() string

	// QuickCheck performs a cheap check on the raw bytes.
	// Returns true if the backend MIGHT read the document (false = skip).
	QuickCheck(data []byte) bool

	// Priority determines the fallback order.
	// Lower number = tried first. The preferred backend has the lowest value.
	Priority() int

	// Extract returns the document text.
	Extract(ctx context.Context, data []byte) (string, error)
}

// Registry holds the registered backends.
type Registry struct {
	mu sync.RWMutex

	// extractors sorted by Priority (ascending) once sorted is set.
	extractors []Extractor
	sorted     bool
}

// New creates a new Registry instance.
func New() *Registry {
	return &Registry{}
}

// Global default registry.
var defaultRegistry = New()

// Default returns the global registry instance.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a backend to the default registry.
// Called during init() in each backend package.
func Register(e Extractor) {
	defaultRegistry.Register(e)
}

// Register adds a backend to the registry.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = append(r.extractors, e)
	r.sorted = false
}

// Sort orders backends by priority.
func (r *Registry) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sortLocked()
}

func (r *Registry) sortLocked() {
	if r.sorted {
		return
	}
	sort.SliceStable(r.extractors, func(i, j int) bool {
		return r.extractors[i].Priority() < r.extractors[j].Priority()
	})
	r.sorted = true
}

// Extractors returns the backends in fallback order.
func (r *Registry) Extractors() []Extractor {
	r.Sort()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Extractor, len(r.extractors))
	copy(out, r.extractors)
	return out
}

// Names returns the backend names in fallback order.
func (r *Registry) Names() []string {
	var names []string
	for _, e := range r.Extractors() {
		names = append(names, e.Name())
	}
	return names
}

// Select returns a registry holding only the named backends, keeping
// their priorities. Unknown names are an error.
func (r *Registry) Select(names []string) (*Registry, error) {
	byName := make(map[string]Extractor)
	for _, e := range r.Extractors() {
		byName[e.Name()] = e
	}

	sel := New()
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		e, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown extraction backend %q", name)
		}
		sel.Register(e)
	}
	return sel, nil
}

// Extract tries each backend in priority order and returns the text of the
// first one that succeeds with non-blank output, together with its name.
// Every attempt is reported, including the skipped and failed ones.
func (r *Registry) Extract(ctx context.Context, data []byte) (string, string, []Attempt, error) {
	var attempts []Attempt

	for _, e := range r.Extractors() {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Backend: e.Name(), Err: err})
			break
		}
		if !e.QuickCheck(data) {
			attempts = append(attempts, Attempt{Backend: e.Name(), Skipped: true})
			continue
		}

		text, err := e.Extract(ctx, data)
		a := Attempt{Backend: e.Name(), Err: err, Chars: len(text)}
		if err == nil && strings.TrimSpace(text) == "" {
			a.Err = errEmptyText
		}
		attempts = append(attempts, a)
		if a.Err == nil {
			return text, e.Name(), attempts, nil
		}
	}

	return "", "", attempts, attemptsError(attempts)
}

var errEmptyText = errors.New("no text extracted")

func attemptsError(attempts []Attempt) error {
	var errs []error
	for _, a := range attempts {
		if a.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Backend, a.Err))
		}
	}
	if len(errs) == 0 {
		return ErrNoExtractor
	}
	return fmt.Errorf("%w: %w", ErrExtractionFailed, errors.Join(errs...))
}
