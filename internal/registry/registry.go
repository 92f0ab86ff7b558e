// Package registry maps tracker type identifiers to their implementations.
//
// Implementations are registered explicitly: compiled-in trackers at
// process start (see app.New), plugin trackers by the plugin loader. There is
// no implicit discovery.
//
//	reg := registry.New()
//	if err := reg.Register(github.Type{}); err != nil { ... }
//	impl, err := reg.Resolve("github")
package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/schema"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
)

// Implementation is a tracker type.
type Implementation interface {
	// TypeID returns the identifier used in the "type" key of a tracker.
	TypeID() string

	// Schema declares the configuration keys of the tracker type.
	Schema() schema.Schema

	// NewClient builds a client from validated configuration values.
	NewClient(values map[string]any) (tracker.Client, error)
}

// Identified is implemented by implementations whose identity is not their
// Go value. Two implementations with equal identities are the same
// implementation, even when loaded separately.
type Identified interface {
	Identity() string
}

// sameImplementation reports whether a and b are one implementation:
// equal identities when both declare one, equal values otherwise.
func sameImplementation(a, b Implementation) bool {
	ia, okA := a.(Identified)
	ib, okB := b.(Identified)
	if okA && okB {
		return ia.Identity() == ib.Identity()
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// Registry resolves tracker type identifiers to implementations.
type Registry struct {
	mu    sync.RWMutex
	impls map[string][]Implementation
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{impls: make(map[string][]Implementation)}
}

// Register adds impl under its type identifier. Its schema is validated first;
// an invalid schema is a fatal schema violation. Registering the same
// implementation twice is a no-op.
func (r *Registry) Register(impl Implementation) error {
	typeID := impl.TypeID()
	if typeID == "" {
		return errors.SchemaViolation(fmt.Sprintf("tracker implementation %T declares an empty type", impl))
	}
	s := impl.Schema()
	if err := s.Validate(); err != nil {
		return errors.Wrap(errors.ExitValidation, fmt.Sprintf("tracker type %q has an invalid schema", typeID), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.impls[typeID] {
		if sameImplementation(existing, impl) {
			return nil
		}
	}
	r.impls[typeID] = append(r.impls[typeID], impl)
	return nil
}

// Resolve returns the single implementation declaring typeID.
func (r *Registry) Resolve(typeID string) (Implementation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impls := r.impls[typeID]
	switch len(impls) {
	case 0:
		return nil, errors.UnknownType(typeID)
	case 1:
		return impls[0], nil
	default:
		return nil, errors.AmbiguousType(typeID, len(impls))
	}
}

// Types returns the registered type identifiers, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.impls))
	for t := range r.impls {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DisplayName returns a title-cased label for typeID.
func DisplayName(typeID string) string {
	return cases.Title(language.English).String(typeID)
}
