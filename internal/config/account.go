package config

import (
	"context"
	"fmt"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
	"github.com/firefly-engineering/bountybridge/internal/platform"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

// Account document keys.
const (
	KeyLogin      = "login"
	KeyAPIURL     = "api_url"
	KeyMFAEnabled = "mfa_enabled"
	KeyPassword   = "password"
	KeyMFASecret  = "mfa_secret"
)

// Account is a platform account and the programs it imports from.
type Account struct {
	Name       string
	Login      string
	APIURL     string
	MFAEnabled bool
	Mode       Mode

	// Password and MFASecret are only read from and written to the
	// document in non-interactive mode.
	Password  string
	MFASecret string

	SecretsPresentButNotAllowed bool

	Programs []*Program

	client platform.Client
	source *Entity
}

// Validate checks the account fields.
func (a *Account) Validate() error {
	persist := a.Mode.PersistSecrets()
	err := validation.ValidateStruct(a,
		validation.Field(&a.Login, validation.Required),
		validation.Field(&a.APIURL, validation.Required, is.URL),
		validation.Field(&a.Password, validation.When(persist, validation.Required)),
		validation.Field(&a.MFASecret, validation.When(persist && a.MFAEnabled, validation.Required)),
	)
	if err != nil {
		return errors.Wrap(errors.ExitValidation, fmt.Sprintf("account %s", a.Name), err)
	}
	return nil
}

// secretKeys returns the secret keys the account needs.
func (a *Account) secretKeys() []string {
	if a.MFAEnabled {
		return []string{KeyPassword, KeyMFASecret}
	}
	return []string{KeyPassword}
}

// AccountFromDocument builds an account and its programs. Program tracker
// references are checked with known.
func AccountFromDocument(name string, doc AccountDocument, mode Mode, known func(string) bool) (*Account, []ReferentialWarning, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, errors.SchemaViolation(fmt.Sprintf("account %q: %v", name, err))
	}

	apiURL := doc.APIURL
	if apiURL == "" {
		apiURL = platform.DefaultAPIURL
	}
	entity := NewEntity("account "+name, nil)
	entity.Load(KeyLogin, doc.Login)
	entity.Load(KeyAPIURL, apiURL)
	entity.Load(KeyPassword, doc.Password)
	entity.Load(KeyMFASecret, doc.MFASecret)

	a := &Account{
		Name:       name,
		Login:      entity.String(KeyLogin),
		APIURL:     entity.String(KeyAPIURL),
		MFAEnabled: doc.MFAEnabled,
		Mode:       mode,
		source:     entity,
	}
	if entity.DropSecrets(a.secretKeys(), mode) {
		a.SecretsPresentButNotAllowed = true
		logging.UserWarning("Account %s stores secrets in clear; they are ignored in interactive mode", name)
	}
	required := []string{KeyLogin, KeyAPIURL}
	if mode.PersistSecrets() {
		required = append(required, a.secretKeys()...)
		a.Password = entity.String(KeyPassword)
		a.MFASecret = entity.String(KeyMFASecret)
	}
	if err := entity.Validate(required); err != nil {
		return nil, nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}

	var warnings []ReferentialWarning
	for _, pd := range doc.Programs {
		if a.Program(pd.Slug) != nil {
			return nil, warnings, errors.SchemaViolation(fmt.Sprintf("account %s: duplicate program %s", name, pd.Slug))
		}
		p, w, err := ProgramFromDocument(pd.Slug, pd.Trackers, known)
		warnings = append(warnings, w...)
		if err != nil {
			return nil, warnings, err
		}
		a.Programs = append(a.Programs, p)
	}
	return a, warnings, nil
}

// AccountFromInteractiveSession prompts for the account fields. Programs are
// added by the caller.
func AccountFromInteractiveSession(p tui.Prompter, name string, mode Mode) (*Account, error) {
	if err := ValidateName(name); err != nil {
		return nil, errors.SchemaViolation(fmt.Sprintf("account %q: %v", name, err))
	}
	a := &Account{Name: name, Mode: mode}

	var err error
	if a.Login, err = askRequired(p, "Platform login:", ""); err != nil {
		return nil, err
	}
	if a.APIURL, err = p.Ask("API URL:", platform.DefaultAPIURL); err != nil {
		return nil, err
	}
	if a.MFAEnabled, err = p.Confirm("Is MFA enabled on this account?", false); err != nil {
		return nil, err
	}
	if mode.PersistSecrets() {
		if err := a.collectSecrets(p); err != nil {
			return nil, err
		}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Account) collectSecrets(p tui.Prompter) error {
	var err error
	if a.Password, err = p.AskSecret(fmt.Sprintf("Password for %s:", a.Login)); err != nil {
		return err
	}
	if a.MFAEnabled {
		if a.MFASecret, err = p.AskSecret("MFA secret (TOTP seed):"); err != nil {
			return err
		}
	}
	return nil
}

func (a *Account) credentials() platform.Credentials {
	return platform.Credentials{
		APIURL:    a.APIURL,
		Login:     a.Login,
		Password:  a.Password,
		MFASecret: a.MFASecret,
	}
}

// Connect authenticates against the platform and checks that every program
// is accessible, with the same retry policy as Tracker.Connect.
func (a *Account) Connect(ctx context.Context, factory platform.Factory, p tui.Prompter) error {
	interactive := a.Mode == Interactive && p != nil
	for attempt := 1; ; attempt++ {
		if interactive {
			if err := a.collectSecrets(p); err != nil {
				return err
			}
		}
		err := a.connectOnce(ctx, factory)
		if err == nil {
			logging.Debug("account connected", "account", a.Name, "programs", len(a.Programs))
			return nil
		}
		if !interactive || attempt >= MaxAttempts || !retryable(err) {
			return err
		}
		logging.UserWarning("%v", err)
	}
}

func (a *Account) connectOnce(ctx context.Context, factory platform.Factory) error {
	client := factory(a.credentials())
	if err := client.Authenticate(ctx); err != nil {
		return errors.AuthenticationFailed("account", a.Name, err)
	}
	for _, prog := range a.Programs {
		if err := checkProgram(ctx, client, a.Name, prog.Slug); err != nil {
			return err
		}
	}
	a.client = client
	return nil
}

func checkProgram(ctx context.Context, client platform.Client, account, slug string) error {
	if _, err := client.Program(ctx, slug); err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			return errors.AuthenticationFailed("account", account, err)
		}
		return errors.ProgramNotFound(account, slug, err)
	}
	return nil
}

// CheckProgram verifies that a connected account can access slug.
func (a *Account) CheckProgram(ctx context.Context, slug string) error {
	if a.client == nil {
		return fmt.Errorf("account %s is not connected", a.Name)
	}
	return checkProgram(ctx, a.client, a.Name, slug)
}

// Client returns the connected platform client, or nil before Connect.
func (a *Account) Client() platform.Client {
	return a.client
}

// Program returns the program with slug, or nil.
func (a *Account) Program(slug string) *Program {
	for _, p := range a.Programs {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}

// RemoveProgram drops the program with slug.
func (a *Account) RemoveProgram(slug string) bool {
	i := slices.IndexFunc(a.Programs, func(p *Program) bool { return p.Slug == slug })
	if i < 0 {
		return false
	}
	a.Programs = slices.Delete(a.Programs, i, i+1)
	return true
}

// persisted returns the ${VAR} reference value was loaded from, if it still
// expands to value.
func (a *Account) persisted(key, value string) string {
	if a.source == nil {
		return value
	}
	if ref, ok := a.source.reference(key, value); ok {
		return ref
	}
	return value
}

// ToDocument returns the document form of the account. Program references
// to trackers missing from tree are dropped with a warning.
func (a *Account) ToDocument(tree *Tree) (AccountDocument, []ReferentialWarning) {
	doc := AccountDocument{
		Login:      a.persisted(KeyLogin, a.Login),
		APIURL:     a.persisted(KeyAPIURL, a.APIURL),
		MFAEnabled: a.MFAEnabled,
	}
	if a.Mode.PersistSecrets() {
		doc.Password = a.persisted(KeyPassword, a.Password)
		if a.MFAEnabled {
			doc.MFASecret = a.persisted(KeyMFASecret, a.MFASecret)
		}
	}
	var warnings []ReferentialWarning
	for _, p := range a.Programs {
		pd := ProgramDocument{Slug: p.Slug}
		for _, name := range p.Trackers {
			if tree.IsOrphan(name) {
				warnings = append(warnings, ReferentialWarning{Program: p.Slug, Tracker: name, Reason: ReasonUnknown})
				continue
			}
			pd.Trackers = append(pd.Trackers, name)
		}
		doc.Programs = append(doc.Programs, pd)
	}
	return doc, warnings
}
