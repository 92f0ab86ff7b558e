// Package plugin loads tracker types provided by external executables.
//
// A plugin manifest entry names a search path and the modules found in it:
//
//	plugins:
//	  - package: acme-trackers
//	    search_path: /opt/acme/trackers
//	    modules:
//	      - youtrack
//	      - "redmine --api v2"
//
// Each module is an executable resolved inside the search path. Asked
// "describe", it prints its type identifier and key schema as JSON. Client
// operations ("authenticate", "get-project", "create-issue") receive a JSON
// request on stdin and answer with a JSON response on stdout.
//
// Loading is all-or-nothing: every module of every entry is resolved and
// described before any implementation is registered.
package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
	"github.com/firefly-engineering/bountybridge/internal/registry"
	"github.com/firefly-engineering/bountybridge/internal/system"
)

// Spec is a plugin manifest entry.
type Spec struct {
	Package    string   `yaml:"package" toml:"package"`
	SearchPath string   `yaml:"search_path" toml:"search_path"`
	Modules    []string `yaml:"modules" toml:"modules"`
}

// Loader resolves plugin modules. A loader keeps no state between calls.
type Loader struct {
	FS   system.FileSystem
	Exec system.CommandExecutor
}

// NewLoader creates a loader on the real file system.
func NewLoader() *Loader {
	return &Loader{FS: system.DefaultFS(), Exec: system.DefaultExecutor()}
}

// Load resolves every module of specs. A missing search path fails with
// PathNotFound before any module is run.
func (l *Loader) Load(ctx context.Context, specs []Spec) ([]*Implementation, error) {
	for _, spec := range specs {
		if !l.FS.IsDir(spec.SearchPath) {
			return nil, errors.PathNotFound(spec.SearchPath)
		}
	}

	var impls []*Implementation
	for _, spec := range specs {
		for _, module := range spec.Modules {
			impl, err := l.loadModule(ctx, spec, module)
			if err != nil {
				return nil, errors.PluginLoadFailed(module, err)
			}
			logging.Debug("plugin module loaded", "package", spec.Package, "module", module, "type", impl.TypeID())
			impls = append(impls, impl)
		}
	}
	return impls, nil
}

// Register loads specs and registers the resulting implementations. Nothing
// is registered when any module fails to load.
func (l *Loader) Register(ctx context.Context, reg *registry.Registry, specs []Spec) ([]*Implementation, error) {
	impls, err := l.Load(ctx, specs)
	if err != nil {
		return nil, err
	}
	for _, impl := range impls {
		if err := reg.Register(impl); err != nil {
			return nil, errors.PluginLoadFailed(impl.Module, err)
		}
	}
	return impls, nil
}

func (l *Loader) loadModule(ctx context.Context, spec Spec, module string) (*Implementation, error) {
	words, err := shellquote.Split(module)
	if err != nil {
		return nil, fmt.Errorf("invalid module command line: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("empty module name")
	}

	path, err := securejoin.SecureJoin(spec.SearchPath, words[0])
	if err != nil {
		return nil, fmt.Errorf("failed to resolve module path: %w", err)
	}
	if path != filepath.Join(spec.SearchPath, words[0]) {
		return nil, fmt.Errorf("module %s escapes search path %s", words[0], spec.SearchPath)
	}
	if !l.FS.Exists(path) {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}

	impl := &Implementation{
		Module: module,
		Path:   path,
		Args:   words[1:],
		exec:   l.Exec,
	}
	out, err := impl.run(ctx, "describe", "")
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(out, &impl.desc); err != nil {
		return nil, fmt.Errorf("malformed describe output: %w", err)
	}
	if impl.desc.Type == "" {
		return nil, fmt.Errorf("describe output has no type")
	}
	s := impl.Schema()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("tracker type %q: %w", impl.desc.Type, err)
	}
	return impl, nil
}
