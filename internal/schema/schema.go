// Package schema declares the configuration keys a tracker type understands.
//
// Every tracker type publishes a Schema splitting its keys into three
// disjoint classes:
//
//   - mandatory keys, which must be present in every configuration;
//   - secret keys, which are prompted for at use time and only stored in
//     clear when the session explicitly persists secrets;
//   - optional keys, which carry a default applied when the key is absent.
//
// One key identifies the remote project (IdentKey) and must belong to exactly
// one of the three classes.
package schema

import (
	"fmt"
	"slices"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// IdentKey is the key naming the remote project or workspace of a tracker.
const IdentKey = "project"

// Optional is an optional key with its default value.
type Optional struct {
	Key     string
	Default any
}

// Schema declares the keys of a tracker type.
type Schema struct {
	Mandatory   []string
	Secret      []string
	Optional    []Optional
	Description map[string]string
}

// Validate checks that the key classes are pairwise disjoint and that
// IdentKey is declared exactly once.
func (s *Schema) Validate() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.Mandatory, validation.Each(validation.Required)),
		validation.Field(&s.Secret, validation.Each(validation.Required)),
	); err != nil {
		return err
	}

	seen := make(map[string]string)
	check := func(class, key string) error {
		if key == "" {
			return fmt.Errorf("%s key cannot be empty", class)
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("key %q declared as both %s and %s", key, prev, class)
		}
		seen[key] = class
		return nil
	}
	for _, k := range s.Mandatory {
		if err := check("mandatory", k); err != nil {
			return err
		}
	}
	for _, k := range s.Secret {
		if err := check("secret", k); err != nil {
			return err
		}
	}
	for _, o := range s.Optional {
		if err := check("optional", o.Key); err != nil {
			return err
		}
	}
	if _, ok := seen[IdentKey]; !ok {
		return fmt.Errorf("identifying key %q is not declared", IdentKey)
	}
	return nil
}

// IsMandatory reports whether key is a mandatory key.
func (s *Schema) IsMandatory(key string) bool {
	return slices.Contains(s.Mandatory, key)
}

// IsSecret reports whether key is a secret key.
func (s *Schema) IsSecret(key string) bool {
	return slices.Contains(s.Secret, key)
}

// IsOptional reports whether key is an optional key.
func (s *Schema) IsOptional(key string) bool {
	_, ok := s.Default(key)
	return ok
}

// Default returns the default of an optional key.
func (s *Schema) Default(key string) (any, bool) {
	for _, o := range s.Optional {
		if o.Key == key {
			return o.Default, true
		}
	}
	return nil, false
}

// Describe returns the human description of key, or the key itself.
func (s *Schema) Describe(key string) string {
	if d, ok := s.Description[key]; ok && d != "" {
		return d
	}
	return key
}

// Required returns the keys that must be present in a raw configuration:
// the mandatory keys, plus the secret keys when secrets are persisted.
func (s *Schema) Required(persistSecrets bool) []string {
	keys := slices.Clone(s.Mandatory)
	if persistSecrets {
		keys = append(keys, s.Secret...)
	}
	return keys
}

// Persisted returns the keys written back to a document, in schema order.
func (s *Schema) Persisted(persistSecrets bool) []string {
	keys := s.Required(persistSecrets)
	for _, o := range s.Optional {
		keys = append(keys, o.Key)
	}
	return keys
}

// Keys returns every declared key, sorted.
func (s *Schema) Keys() []string {
	keys := s.Persisted(true)
	sort.Strings(keys)
	return keys
}
