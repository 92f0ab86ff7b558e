// Package ledger records which reports were imported into which tracker.
// Entries are stored as JSON Lines in a single file under the state
// directory, so later runs skip reports that already have an issue.
package ledger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
	"github.com/firefly-engineering/bountybridge/internal/system"
)

// Entry is a single imported report.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Account   string    `json:"account,omitempty"`
	Program   string    `json:"program"`
	Report    string    `json:"report"`
	Tracker   string    `json:"tracker"`
	IssueID   string    `json:"issue_id,omitempty"`
	IssueURL  string    `json:"issue_url,omitempty"`
}

type key struct {
	program, report, tracker string
}

func (e Entry) key() key {
	return key{e.Program, e.Report, e.Tracker}
}

// Ledger appends entries to a JSONL file and answers whether a report was
// already imported.
type Ledger struct {
	path string
	fs   system.FileSystem

	seen   map[key]bool
	loaded bool
}

// New creates a ledger stored at path.
func New(path string, fsys system.FileSystem) *Ledger {
	return &Ledger{path: path, fs: fsys, seen: make(map[key]bool)}
}

// Path returns the ledger file.
func (l *Ledger) Path() string {
	return l.path
}

// Record appends entry to the ledger.
func (l *Ledger) Record(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := l.load(); err != nil {
		return err
	}

	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	if err := l.fs.AppendFile(l.path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}

	l.seen[entry.key()] = true
	return nil
}

// Imported reports whether report of program was already posted to tracker.
func (l *Ledger) Imported(program, report, tracker string) (bool, error) {
	if err := l.load(); err != nil {
		return false, err
	}
	return l.seen[key{program, report, tracker}], nil
}

// Entries reads every entry in file order.
func (l *Ledger) Entries() ([]Entry, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			logging.Debug("skipping malformed ledger line", "path", l.path, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("error reading ledger: %w", err)
	}
	return entries, nil
}

func (l *Ledger) load() error {
	if l.loaded {
		return nil
	}
	entries, err := l.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		l.seen[e.key()] = true
	}
	l.loaded = true
	return nil
}
