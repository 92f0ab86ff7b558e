package cmd

import (
	"context"

	"github.com/firefly-engineering/bountybridge/internal/app"
	"github.com/firefly-engineering/bountybridge/internal/config"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

// paths returns the configured paths.
func paths() *config.Paths {
	return app.Default.Paths
}

// modeFor maps the --non-interactive flag onto a configuration mode.
func modeFor(nonInteractive bool) config.Mode {
	if nonInteractive {
		return config.NonInteractive
	}
	return config.Interactive
}

// prompterFor returns the prompter used to collect secrets, or nil when
// secrets come from the document.
func prompterFor(mode config.Mode) tui.Prompter {
	if mode.PersistSecrets() {
		return nil
	}
	return app.Default.Prompter
}

// connectTree loads the document and connects every tracker and account.
func connectTree(ctx context.Context, mode config.Mode) (*config.Tree, error) {
	a := app.Default
	tree, err := a.LoadTree(ctx, mode)
	if err != nil {
		return nil, err
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	if err := tree.Connect(ctx, a.PlatformFactory, prompterFor(mode)); err != nil {
		return nil, err
	}
	return tree, nil
}
