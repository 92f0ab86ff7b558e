package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/bountybridge/internal/errors"
)

func knownSet(names ...string) func(string) bool {
	set := make(map[string]bool)
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestProgramFromDocument_DropsUnknown(t *testing.T) {
	p, warnings, err := ProgramFromDocument("acme", []string{"a", "missing", "b"}, knownSet("a", "b"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, p.Trackers)
	require.Len(t, warnings, 1)
	assert.Equal(t, "missing", warnings[0].Tracker)
	assert.Equal(t, "acme", warnings[0].Program)
	assert.Contains(t, warnings[0].String(), "missing")
}

func TestProgramFromDocument_NoResolvableTracker(t *testing.T) {
	_, warnings, err := ProgramFromDocument("acme", []string{"x", "y"}, knownSet("a"))
	require.Error(t, err)
	assert.Equal(t, errors.ExitValidation, errors.GetExitCode(err))
	assert.Len(t, warnings, 2)

	_, _, err = ProgramFromDocument("acme", nil, knownSet("a"))
	require.Error(t, err)
}

func TestProgramFromDocument_CollapsesDuplicates(t *testing.T) {
	p, warnings, err := ProgramFromDocument("acme", []string{"b", "a", "b"}, knownSet("a", "b"))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"b", "a"}, p.Trackers)
}

func TestProgramFromDocument_RequiresSlug(t *testing.T) {
	_, _, err := ProgramFromDocument("", []string{"a"}, knownSet("a"))
	var missing *errors.MissingKeysError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"slug"}, missing.Keys)
}

func TestProgram_LinkUnlink(t *testing.T) {
	p := &Program{Slug: "acme"}
	assert.True(t, p.Link("a"))
	assert.False(t, p.Link("a"))
	assert.True(t, p.Link("b"))
	assert.True(t, p.HasTracker("b"))

	assert.True(t, p.Unlink("a"))
	assert.False(t, p.Unlink("a"))
	assert.Equal(t, []string{"b"}, p.Trackers)
}
