package search

import (
	"context"

	"charm.land/lipgloss/v2"

	"github.com/freshedit/fresh/internal/editor"
	"github.com/freshedit/fresh/internal/marker"
	"github.com/freshedit/fresh/internal/overlay"
)

const (
	namespaceMatches = "search"
	namespaceCurrent = "search-current"
)

var (
	matchFace   overlay.Face = overlay.Background{Color: lipgloss.Color("3")}
	currentFace overlay.Face = overlay.Background{Color: lipgloss.Color("4")}
)

// matchHandle anchors one match's span to a pair of markers so it tracks
// edits for free, using gravities opposite overlay.Manager's decoration
// default: Start uses right gravity so text typed exactly at a match's
// first byte pushes the match forward instead of being absorbed into it;
// End uses left gravity so text typed exactly at a match's last byte
// isn't silently appended into the match (§4.5 "Current-match tracking").
type matchHandle struct {
	start, end marker.ID
}

// Session is one active search/browse session over a buffer (§4.5,
// scenarios 1 and 3): it owns the live match list, tracks which match is
// "current" across edits, and drives the incremental "search" namespace
// highlight.
type Session struct {
	state   *editor.EditorState
	engine  *Engine
	pattern string
	opts    Options

	matches []matchHandle
	current int // index into matches; meaningless when len(matches)==0
	wrapped bool
}

// NewSession compiles pattern, finds every match in [scopeStart, scopeEnd)
// (pass 0, state.Tree.Len() for whole-buffer search; a narrower range scopes
// to "Find in Selection", §4.5), and establishes the current match as the
// first one at or after cursor — wrapping to the first match overall (and
// setting the one-shot wrapped flag) if cursor is after every match.
func NewSession(ctx context.Context, engine *Engine, state *editor.EditorState, pattern string, opts Options, cursor int64, scopeStart, scopeEnd int64) (*Session, error) {
	re, err := engine.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	found, err := scanRangeAll(ctx, state.Tree, re, scopeStart, scopeEnd)
	if err != nil {
		return nil, err
	}

	s := &Session{state: state, engine: engine, pattern: pattern, opts: opts}
	s.matches = make([]matchHandle, len(found))
	for i, m := range found {
		s.matches[i] = matchHandle{
			start: state.Markers.Create(m.Start, marker.GravityRight),
			end:   state.Markers.Create(m.End, marker.GravityLeft),
		}
	}

	s.current = 0
	for i, m := range found {
		if m.Start >= cursor {
			s.current = i
			break
		}
		if i == len(found)-1 {
			s.wrapped = len(found) > 0
		}
	}
	s.highlight()
	return s, nil
}

// Close releases every match marker and clears the highlight namespaces —
// the "Esc closes search" / clear_highlights path.
func (s *Session) Close() {
	for _, h := range s.matches {
		s.state.Markers.Remove(h.start)
		s.state.Markers.Remove(h.end)
	}
	s.matches = nil
	s.state.Overlays.ClearNamespace(namespaceMatches)
	s.state.Overlays.ClearNamespace(namespaceCurrent)
}

// Len reports how many matches the session found.
func (s *Session) Len() int { return len(s.matches) }

// CurrentIndex returns the 1-based position of the current match for
// status-line display ("Match 3 of 3"), or 0 if there are no matches.
func (s *Session) CurrentIndex() int {
	if len(s.matches) == 0 {
		return 0
	}
	return s.current + 1
}

// resolve returns handle's current byte range, or false if either marker
// has been removed.
func (s *Session) resolve(h matchHandle) (Match, bool) {
	start, ok1 := s.state.Markers.Position(h.start)
	end, ok2 := s.state.Markers.Position(h.end)
	if !ok1 || !ok2 {
		return Match{}, false
	}
	return Match{Start: start, End: end}, true
}

// Current returns the current match's live byte range.
func (s *Session) Current() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	return s.resolve(s.matches[s.current])
}

// FindNext advances to the next match in list order (not cursor order),
// wrapping to the first match and setting the one-shot wrapped flag when it
// runs off the end — the normalized behavior of §4.5 "Current-match
// tracking" / the Open Question in §9: an edit re-anchors match offsets via
// their markers but never reorders or renumbers the list, so advancing is a
// plain circular index step regardless of what the buffer has done to the
// underlying offsets since the list was built.
func (s *Session) FindNext() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.current++
	if s.current >= len(s.matches) {
		s.current = 0
		s.wrapped = true
	}
	s.highlight()
	return s.resolve(s.matches[s.current])
}

// FindPrevious is FindNext's mirror image.
func (s *Session) FindPrevious() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.current--
	if s.current < 0 {
		s.current = len(s.matches) - 1
		s.wrapped = true
	}
	s.highlight()
	return s.resolve(s.matches[s.current])
}

// ConsumeWrapped reports whether the most recent navigation wrapped around
// the buffer, and clears the flag — it is a one-shot status, read once by
// the status line (§4.5 "Wrap-around").
func (s *Session) ConsumeWrapped() bool {
	w := s.wrapped
	s.wrapped = false
	return w
}

// Retarget recompiles pattern/opts and rebuilds the match list in place —
// called on every keystroke while the search prompt is open so highlighting
// stays incremental without tearing down and recreating the Session.
func (s *Session) Retarget(ctx context.Context, pattern string, opts Options, cursor int64, scopeStart, scopeEnd int64) error {
	for _, h := range s.matches {
		s.state.Markers.Remove(h.start)
		s.state.Markers.Remove(h.end)
	}
	s.matches = nil
	s.current = 0
	s.wrapped = false
	s.pattern, s.opts = pattern, opts

	re, err := s.engine.Compile(pattern, opts)
	if err != nil {
		s.highlight()
		return err
	}
	found, err := scanRangeAll(ctx, s.state.Tree, re, scopeStart, scopeEnd)
	if err != nil {
		return err
	}
	s.matches = make([]matchHandle, len(found))
	for i, m := range found {
		s.matches[i] = matchHandle{
			start: s.state.Markers.Create(m.Start, marker.GravityRight),
			end:   s.state.Markers.Create(m.End, marker.GravityLeft),
		}
	}
	for i, m := range found {
		if m.Start >= cursor {
			s.current = i
			break
		}
	}
	s.highlight()
	return nil
}

// highlight redraws the "search" and "search-current" overlay namespaces
// from the live match list (§4.5 "Incremental highlighting runs on every
// keystroke... highlights are overlays in the 'search' namespace cleared
// before each query").
func (s *Session) highlight() {
	s.state.Overlays.ClearNamespace(namespaceMatches)
	s.state.Overlays.ClearNamespace(namespaceCurrent)
	for i, h := range s.matches {
		m, ok := s.resolve(h)
		if !ok {
			continue
		}
		ns, face := namespaceMatches, matchFace
		if i == s.current {
			ns, face = namespaceCurrent, currentFace
		}
		s.state.Overlays.Add(m.Start, m.End, face, 0, ns)
	}
}
