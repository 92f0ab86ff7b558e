package config

import (
	"testing"

	"github.com/firefly-engineering/bountybridge/internal/registry"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
)

func newTestRegistry(t *testing.T) (*registry.Registry, tracker.MockType) {
	t.Helper()
	mock := tracker.NewMockType("mock")
	reg := registry.New()
	if err := reg.Register(mock); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return reg, mock
}

func rawTracker(project string, extra ...string) map[string]any {
	raw := map[string]any{TypeKey: "mock", "project": project}
	for i := 0; i+1 < len(extra); i += 2 {
		raw[extra[i]] = extra[i+1]
	}
	return raw
}
