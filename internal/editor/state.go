package editor

import (
	"fmt"
	"slices"

	"github.com/firefly-engineering/bountybridge/internal/errors"
)

// State is the lifecycle state of an edit session.
type State int

const (
	// Clean is a loaded, unmodified tree.
	Clean State = iota
	// Editing means entities are being added or removed.
	Editing
	// Reconciling means programs are being walked through the keep/drop/add loop.
	Reconciling
	// Persisted means the tree was written back. Terminal.
	Persisted
	// Discarded means the changes were thrown away. Terminal.
	Discarded
)

var stateNames = map[State]string{
	Clean:       "clean",
	Editing:     "editing",
	Reconciling: "reconciling",
	Persisted:   "persisted",
	Discarded:   "discarded",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var transitions = map[State][]State{
	Clean:       {Editing, Discarded},
	Editing:     {Reconciling, Persisted, Discarded},
	Reconciling: {Persisted, Discarded},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to State) bool {
	return slices.Contains(transitions[from], to)
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

func illegalTransition(from, to State) error {
	return errors.New(errors.ExitGeneralError, fmt.Sprintf("illegal editor transition %s -> %s", from, to))
}
