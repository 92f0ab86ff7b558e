package config

import (
	"maps"
	"sort"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
)

// Mode selects how secrets are handled.
type Mode int

const (
	// Interactive sessions prompt for secrets right before use and never
	// read or write them from the document.
	Interactive Mode = iota

	// NonInteractive sessions read secrets from the document and persist
	// them in clear.
	NonInteractive
)

// PersistSecrets reports whether secrets are read from and written to the
// document.
func (m Mode) PersistSecrets() bool {
	return m == NonInteractive
}

func (m Mode) String() string {
	if m == NonInteractive {
		return "non-interactive"
	}
	return "interactive"
}

// Entity is a validated key/value container owned by a tracker or account.
type Entity struct {
	Owner  string
	Values map[string]any

	// refs holds the ${VAR} form of values expanded on Load.
	refs map[string]string
}

// NewEntity creates an entity holding a copy of values.
func NewEntity(owner string, values map[string]any) *Entity {
	v := make(map[string]any, len(values))
	maps.Copy(v, values)
	return &Entity{Owner: owner, Values: v}
}

// Validate fails with a MissingKeys schema violation naming every required
// key that is absent or empty.
func (e *Entity) Validate(required []string) error {
	var missing []string
	for _, key := range required {
		if !e.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.MissingKeys(e.Owner, missing)
	}
	return nil
}

// Has reports whether key holds a non-empty value.
func (e *Entity) Has(key string) bool {
	v, ok := e.Values[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// Get returns the raw value of key.
func (e *Entity) Get(key string) (any, bool) {
	v, ok := e.Values[key]
	return v, ok
}

// Set stores value under key.
func (e *Entity) Set(key string, value any) {
	e.Values[key] = value
}

// Load stores a document value under key. A string referencing environment
// variables is expanded, and the reference is kept for Persisted.
func (e *Entity) Load(key string, value any) {
	if s, ok := value.(string); ok && envRef.MatchString(s) {
		if e.refs == nil {
			e.refs = make(map[string]string)
		}
		e.refs[key] = s
		value = expandEnv(s)
	}
	e.Values[key] = value
}

// Persisted returns the document form of key: the original reference while
// the value still equals its expansion, the value itself otherwise.
func (e *Entity) Persisted(key string) (any, bool) {
	v, ok := e.Values[key]
	if !ok {
		return nil, false
	}
	if ref, found := e.reference(key, v); found {
		return ref, true
	}
	return v, true
}

func (e *Entity) reference(key string, value any) (string, bool) {
	ref, ok := e.refs[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return ref, ok && s == expandEnv(ref)
}

// String returns the string value of key, or "".
func (e *Entity) String(key string) string {
	s, _ := e.Values[key].(string)
	return s
}

// Delete removes key.
func (e *Entity) Delete(key string) {
	delete(e.Values, key)
	delete(e.refs, key)
}

// DropSecrets removes secret keys from the entity unless the mode persists
// secrets. It reports whether any secret was present, which is worth a
// warning: the document exposes credentials that will not be used.
func (e *Entity) DropSecrets(secrets []string, mode Mode) bool {
	if mode.PersistSecrets() {
		return false
	}
	exposed := false
	for _, key := range secrets {
		if e.Has(key) {
			exposed = true
			logging.Warn("ignoring secret stored in clear", "owner", e.Owner, "key", key)
		}
		e.Delete(key)
	}
	return exposed
}
