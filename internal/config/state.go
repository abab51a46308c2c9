package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/freshedit/fresh/internal/ferrors"
)

// State is the persisted, non-settings session state (§6): recent files,
// search/replace history, and window layout on exit. It is its own TOML
// file (Paths.StateFile) separate from the config layers, since it is
// written constantly (on every file open, every search) rather than edited
// by a human.
type State struct {
	RecentFiles   []RecentFile `toml:"recent_files"`
	SearchHistory []string     `toml:"search_history"`
	ReplaceHistory []string    `toml:"replace_history"`
	Layout        *Layout      `toml:"layout,omitempty"`
}

// RecentFile is one entry in the recent-files list.
type RecentFile struct {
	Path     string    `toml:"path"`
	OpenedAt time.Time `toml:"opened_at"`
}

// Layout is the window split/tab arrangement saved on exit, keyed by pane
// id so the renderer's split tree can be reconstructed without depending
// on this package.
type Layout struct {
	Splits []SplitState `toml:"splits"`
}

// SplitState describes one leaf pane's tabs and active index.
type SplitState struct {
	Path      string   `toml:"path"`
	Tabs      []string `toml:"tabs"`
	ActiveTab int      `toml:"active_tab"`
}

const maxRecentFiles = 50
const maxHistoryEntries = 200

// LoadState reads the persisted state file, returning an empty State if
// it doesn't exist yet.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &State{}, nil
	}
	if err != nil {
		return nil, ferrors.IO("state.load", err)
	}
	var s State
	if _, err := toml.Decode(string(data), &s); err != nil {
		return nil, ferrors.Config(path, err)
	}
	return &s, nil
}

// Save persists s to path via the same atomic-rename write that Config
// layers use.
func (s *State) Save(path string) error {
	return writeAtomicTOML(path, s)
}

// TouchRecentFile moves path to the front of the recent-files list,
// inserting it if new, and trims to maxRecentFiles.
func (s *State) TouchRecentFile(path string, at time.Time) {
	filtered := s.RecentFiles[:0:0]
	for _, rf := range s.RecentFiles {
		if rf.Path != path {
			filtered = append(filtered, rf)
		}
	}
	s.RecentFiles = append([]RecentFile{{Path: path, OpenedAt: at}}, filtered...)
	if len(s.RecentFiles) > maxRecentFiles {
		s.RecentFiles = s.RecentFiles[:maxRecentFiles]
	}
}

// PushSearchHistory records a search query, most recent first, deduped.
func (s *State) PushSearchHistory(query string) {
	s.SearchHistory = pushHistory(s.SearchHistory, query)
}

// PushReplaceHistory records a replacement string, most recent first, deduped.
func (s *State) PushReplaceHistory(repl string) {
	s.ReplaceHistory = pushHistory(s.ReplaceHistory, repl)
}

func pushHistory(h []string, entry string) []string {
	if entry == "" {
		return h
	}
	filtered := h[:0:0]
	for _, e := range h {
		if e != entry {
			filtered = append(filtered, e)
		}
	}
	h = append([]string{entry}, filtered...)
	if len(h) > maxHistoryEntries {
		h = h[:maxHistoryEntries]
	}
	return h
}
