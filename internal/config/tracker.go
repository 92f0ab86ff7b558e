package config

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
	"github.com/firefly-engineering/bountybridge/internal/registry"
	"github.com/firefly-engineering/bountybridge/internal/schema"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

// TypeKey is the document key holding a tracker's type identifier.
const TypeKey = "type"

// MaxAttempts caps how many times credentials are collected for one entity
// in an interactive session.
const MaxAttempts = 3

// Tracker is one configured tracker instance.
type Tracker struct {
	Name string
	Type string
	Mode Mode

	// SecretsPresentButNotAllowed is set when the document stored secrets
	// that an interactive session discarded.
	SecretsPresentButNotAllowed bool

	entity  *Entity
	impl    registry.Implementation
	schema  schema.Schema
	secrets map[string]string
	client  tracker.Client
}

func resolveTracker(reg *registry.Registry, name, typeID string, mode Mode) (*Tracker, error) {
	if err := ValidateName(name); err != nil {
		return nil, errors.SchemaViolation(fmt.Sprintf("tracker %q: %v", name, err))
	}
	impl, err := reg.Resolve(typeID)
	if err != nil {
		return nil, fmt.Errorf("tracker %s: %w", name, err)
	}
	return &Tracker{
		Name:    name,
		Type:    typeID,
		Mode:    mode,
		entity:  NewEntity(fmt.Sprintf("tracker %s (%s)", name, typeID), nil),
		impl:    impl,
		schema:  impl.Schema(),
		secrets: make(map[string]string),
	}, nil
}

// TrackerFromDocument builds a tracker from its document values. It fails
// with a MissingKeys schema violation, before any client is created, when a
// required key is absent. Secrets are only kept in non-interactive mode.
func TrackerFromDocument(reg *registry.Registry, name, typeID string, raw map[string]any, mode Mode) (*Tracker, error) {
	t, err := resolveTracker(reg, name, typeID, mode)
	if err != nil {
		return nil, err
	}

	for key, value := range raw {
		switch {
		case key == TypeKey:
		case t.schema.IsMandatory(key) || t.schema.IsSecret(key) || t.schema.IsOptional(key):
			t.entity.Load(key, value)
		default:
			logging.Warn("ignoring unknown tracker key", "tracker", name, "key", key)
		}
	}

	if t.entity.DropSecrets(t.schema.Secret, mode) {
		t.SecretsPresentButNotAllowed = true
		logging.UserWarning("Tracker %s stores secrets in clear; they are ignored in interactive mode", name)
	}

	if err := t.entity.Validate(t.schema.Required(mode.PersistSecrets())); err != nil {
		return nil, err
	}
	t.applyDefaults()
	return t, nil
}

// TrackerFromInteractiveSession prompts for every mandatory and optional key
// of typeID, then connects. In non-interactive mode secrets are collected
// too, since they will be persisted.
func TrackerFromInteractiveSession(ctx context.Context, reg *registry.Registry, p tui.Prompter, name, typeID string, mode Mode) (*Tracker, error) {
	t, err := resolveTracker(reg, name, typeID, mode)
	if err != nil {
		return nil, err
	}

	p.Show(fmt.Sprintf("Configuring %s tracker %s", registry.DisplayName(typeID), name))
	for _, key := range t.schema.Mandatory {
		value, err := askRequired(p, t.schema.Describe(key)+":", "")
		if err != nil {
			return nil, err
		}
		t.entity.Set(key, value)
	}
	for _, opt := range t.schema.Optional {
		def := fmt.Sprint(opt.Default)
		if strings.Contains(def, "\n") {
			t.entity.Set(opt.Key, opt.Default)
			continue
		}
		value, err := p.Ask(t.schema.Describe(opt.Key)+":", def)
		if err != nil {
			return nil, err
		}
		t.entity.Set(opt.Key, value)
	}
	if err := t.entity.Validate(t.schema.Mandatory); err != nil {
		return nil, err
	}

	if mode.PersistSecrets() {
		if err := t.collectSecrets(p); err != nil {
			return nil, err
		}
	}
	if err := t.Connect(ctx, p); err != nil {
		return nil, err
	}
	return t, nil
}

func askRequired(p tui.Prompter, label, def string) (string, error) {
	for range MaxAttempts {
		value, err := p.Ask(label, def)
		if err != nil {
			return "", err
		}
		if value = strings.TrimSpace(value); value != "" {
			return value, nil
		}
		p.Show("A value is required.")
	}
	return "", errors.ValidationError(fmt.Sprintf("no value given for %q", strings.TrimSuffix(label, ":")))
}

func (t *Tracker) applyDefaults() {
	for _, opt := range t.schema.Optional {
		if !t.entity.Has(opt.Key) {
			t.entity.Set(opt.Key, opt.Default)
		}
	}
}

// collectSecrets prompts for every secret key. In non-interactive mode the
// answers are stored so they get persisted.
func (t *Tracker) collectSecrets(p tui.Prompter) error {
	for _, key := range t.schema.Secret {
		value, err := p.AskSecret(t.schema.Describe(key) + ":")
		if err != nil {
			return err
		}
		if t.Mode.PersistSecrets() {
			t.entity.Set(key, value)
		} else {
			t.secrets[key] = value
		}
	}
	return nil
}

// Connect creates the client, authenticates and checks that the project
// exists. Interactive sessions collect secrets first and retry a failed
// attempt up to MaxAttempts times; otherwise the first failure is returned.
func (t *Tracker) Connect(ctx context.Context, p tui.Prompter) error {
	interactive := t.Mode == Interactive && p != nil
	for attempt := 1; ; attempt++ {
		if interactive {
			if err := t.collectSecrets(p); err != nil {
				return err
			}
		}

		err := t.connectOnce(ctx)
		if err == nil {
			logging.Debug("tracker connected", "tracker", t.Name, "type", t.Type, "project", t.Project())
			return nil
		}
		if !interactive || attempt >= MaxAttempts || !retryable(err) {
			return err
		}
		logging.UserWarning("%v", err)

		if errors.GetExitCode(err) == errors.ExitProgramAccess {
			project, askErr := askRequired(p, t.schema.Describe(schema.IdentKey)+":", t.Project())
			if askErr != nil {
				return askErr
			}
			t.entity.Set(schema.IdentKey, project)
		}
	}
}

func retryable(err error) bool {
	code := errors.GetExitCode(err)
	return code == errors.ExitLoginFailed || code == errors.ExitProgramAccess
}

func (t *Tracker) connectOnce(ctx context.Context) error {
	values := t.Values()
	for k, v := range t.secrets {
		values[k] = v
	}

	client, err := t.impl.NewClient(values)
	if err != nil {
		return errors.Wrap(errors.ExitValidation, fmt.Sprintf("tracker %s: cannot create client", t.Name), err)
	}
	if err := client.Authenticate(ctx); err != nil {
		return errors.AuthenticationFailed(t.Type, t.Name, err)
	}
	if _, err := client.GetProject(ctx, t.Project()); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.ProjectNotFound(t.Type, t.Name, t.Project(), err)
		}
		return errors.AuthenticationFailed(t.Type, t.Name, err)
	}
	t.client = client
	return nil
}

// ToDocument returns the document values of the tracker: its type, mandatory
// and optional keys, and secret keys when the mode persists secrets. Values
// loaded from ${VAR} references are written back as references.
func (t *Tracker) ToDocument() map[string]any {
	out := map[string]any{TypeKey: t.Type}
	for _, key := range t.schema.Persisted(t.Mode.PersistSecrets()) {
		if v, ok := t.entity.Persisted(key); ok {
			out[key] = v
		}
	}
	return out
}

// Values returns a copy of the non-secret configuration values (plus secrets
// in non-interactive mode).
func (t *Tracker) Values() map[string]any {
	return maps.Clone(t.entity.Values)
}

// Value returns a configuration value.
func (t *Tracker) Value(key string) (any, bool) {
	return t.entity.Get(key)
}

// Project returns the identifying project key.
func (t *Tracker) Project() string {
	return tracker.String(t.entity.Values, schema.IdentKey)
}

// Template returns the template stored under key (title or body template).
func (t *Tracker) Template(key string) string {
	return tracker.String(t.entity.Values, key)
}

// Schema returns the key schema of the tracker type.
func (t *Tracker) Schema() schema.Schema {
	return t.schema
}

// Client returns the connected client, or nil before Connect succeeded.
func (t *Tracker) Client() tracker.Client {
	return t.client
}

func (t *Tracker) String() string {
	return fmt.Sprintf("%s (%s: %s)", t.Name, t.Type, t.Project())
}
