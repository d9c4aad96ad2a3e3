// Package history keeps the log of previously accepted commands and persists
// it between sessions.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/josephlewis42/mysh/core/shell"
	"github.com/spf13/afero"
)

// DefaultFilename is the name of the history file in the launch directory.
const DefaultFilename = "mysh_history.txt"

// separator splits entries in the history file. Commas inside a command are
// not escaped, so such a command is read back as two entries.
const separator = ","

// ErrNoSuchEntry is returned when a replay index is out of range.
var ErrNoSuchEntry = errors.New("no such history entry")

// ReplayChainError is returned when the entry selected for replay is itself a
// replay.
type ReplayChainError struct {
	Index int
	Entry *shell.Command
}

func (e *ReplayChainError) Error() string {
	return fmt.Sprintf("history entry %d (%q) is itself a replay", e.Index, e.Entry.Raw)
}

// Entry is a single line of the history listing.
type Entry struct {
	Index int
	Raw   string
}

// Store is an ordered log of commands backed by a file.
type Store struct {
	fs     afero.Fs
	path   string
	parser shell.Parser

	// entries are kept newest first.
	entries []*shell.Command
}

// NewStore creates an empty store persisted to path on the given filesystem.
// The parser is used to rebuild commands read back from the file.
func NewStore(fs afero.Fs, path string, parser shell.Parser) *Store {
	return &Store{
		fs:     fs,
		path:   path,
		parser: parser,
	}
}

// Path returns the location of the history file.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Append records a command as the newest entry.
func (s *Store) Append(cmd *shell.Command) {
	s.entries = append([]*shell.Command{cmd}, s.entries...)
}

// List returns the entries oldest first, numbering them from zero. Each
// command's replay index is updated to match.
func (s *Store) List() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		cmd := s.entries[i]
		cmd.SetReplayIndex(len(out))
		out = append(out, Entry{Index: len(out), Raw: cmd.Raw})
	}
	return out
}

// Find renumbers the history and returns the entry at index i.
//
// Entries that are themselves replays can't be replayed, a *ReplayChainError
// is returned for them.
func (s *Store) Find(i int) (*shell.Command, error) {
	s.List()

	if i < 0 || i >= len(s.entries) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchEntry, i)
	}

	cmd := s.entries[len(s.entries)-1-i]
	if cmd.Verb == shell.VerbReplay {
		return nil, &ReplayChainError{Index: i, Entry: cmd}
	}
	return cmd, nil
}

// Clear removes every entry and deletes the history file.
func (s *Store) Clear() error {
	s.entries = nil

	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load appends the entries of the history file in file order. A missing file
// is treated as an empty history.
func (s *Store) Load() error {
	contents, err := afero.ReadFile(s.fs, s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	}

	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		for _, raw := range strings.Split(line, separator) {
			cmd, err := s.parser.Parse(raw)
			if err != nil || len(cmd.Tokens) == 0 {
				// Blank or unsplittable entries carry nothing to replay.
				continue
			}
			s.Append(cmd)
		}
	}

	return nil
}

// Save writes the entries oldest first on a single line. Nothing is written
// if the history is empty.
func (s *Store) Save() error {
	if len(s.entries) == 0 {
		return nil
	}

	raws := make([]string, 0, len(s.entries))
	for _, entry := range s.List() {
		raws = append(raws, entry.Raw)
	}

	out := strings.Join(raws, separator) + "\n"
	return afero.WriteFile(s.fs, s.path, []byte(out), 0600)
}
