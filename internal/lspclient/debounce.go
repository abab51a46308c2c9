package lspclient

import "time"

// CompletionTrigger implements the completion half of §4.6 "Debounced
// triggers": a trigger character fires immediately (no scheduling at all —
// the caller just issues the request), a word character reschedules a
// timer quick_suggestions_delay_ms out, and the main loop polls Due on
// idle ticks rather than blocking on it.
type CompletionTrigger struct {
	due     time.Time
	pending bool
}

// ScheduleWord (re)starts the debounce window after a word-character
// keystroke, discarding any previously scheduled fire time.
func (t *CompletionTrigger) ScheduleWord(delay time.Duration) {
	t.due = time.Now().Add(delay)
	t.pending = true
}

// Cancel clears a scheduled trigger, e.g. on cursor movement that isn't a
// typed character.
func (t *CompletionTrigger) Cancel() { t.pending = false }

// Due reports whether the scheduled trigger has elapsed. The caller should
// issue the completion request and call Cancel to consume it.
func (t *CompletionTrigger) Due() bool {
	return t.pending && !time.Now().Before(t.due)
}

// SemanticTokensFullTrigger implements §4.6's "scheduled for now + 500ms
// after each edit; reissued if still due on the next idle tick" — a tick
// that finds it still pending doesn't clear it;
// the caller re-issues semanticTokens/full and the next edit reschedules.
type SemanticTokensFullTrigger struct {
	due     time.Time
	pending bool
}

const semanticTokensFullDelay = 500 * time.Millisecond

// ScheduleAfterEdit (re)starts the 500ms window following a buffer edit.
func (t *SemanticTokensFullTrigger) ScheduleAfterEdit() {
	t.due = time.Now().Add(semanticTokensFullDelay)
	t.pending = true
}

// Due reports whether the window has elapsed.
func (t *SemanticTokensFullTrigger) Due() bool {
	return t.pending && !time.Now().Before(t.due)
}

// Fired clears the schedule once the caller has issued the request.
func (t *SemanticTokensFullTrigger) Fired() { t.pending = false }

const semanticTokensRangeDelay = 50 * time.Millisecond

// semanticTokensRangeKey identifies one semantic-tokens-range request for
// deduplication: the same (start, end) against the same buffer version is
// the same request (§4.6 "suppressed if an identical (start, end,
// buffer_version) range is in-flight or was applied").
type semanticTokensRangeKey struct {
	start, end int64
	version    uint64
}

// SemanticTokensRangeTrigger debounces and deduplicates the viewport's
// semantic-tokens-range requests (§4.6, §4.7). One instance per buffer.
type SemanticTokensRangeTrigger struct {
	due     time.Time
	pending bool
	key     semanticTokensRangeKey

	inFlight map[semanticTokensRangeKey]bool
	applied  map[semanticTokensRangeKey]bool
}

func NewSemanticTokensRangeTrigger() *SemanticTokensRangeTrigger {
	return &SemanticTokensRangeTrigger{
		inFlight: make(map[semanticTokensRangeKey]bool),
		applied:  make(map[semanticTokensRangeKey]bool),
	}
}

// Request schedules a range request for (start, end) at version, unless an
// identical one is already in flight or was already applied. Returns false
// when the request was suppressed as a duplicate.
func (t *SemanticTokensRangeTrigger) Request(start, end int64, version uint64) bool {
	key := semanticTokensRangeKey{start, end, version}
	if t.inFlight[key] || t.applied[key] {
		return false
	}
	t.key = key
	t.due = time.Now().Add(semanticTokensRangeDelay)
	t.pending = true
	return true
}

// Due returns the scheduled key and true once its debounce window has
// elapsed; the caller should mark it in-flight and issue the request.
func (t *SemanticTokensRangeTrigger) Due() (semanticTokensRangeKey, bool) {
	if t.pending && !time.Now().Before(t.due) {
		return t.key, true
	}
	return semanticTokensRangeKey{}, false
}

// MarkInFlight consumes the pending schedule for key and records it as
// outstanding so a repeat Request for the same key is suppressed.
func (t *SemanticTokensRangeTrigger) MarkInFlight(key semanticTokensRangeKey) {
	if t.pending && t.key == key {
		t.pending = false
	}
	t.inFlight[key] = true
}

// MarkApplied records key's result as applied to the viewport, still
// suppressing a repeat until the buffer's version moves past it.
func (t *SemanticTokensRangeTrigger) MarkApplied(key semanticTokensRangeKey) {
	delete(t.inFlight, key)
	t.applied[key] = true
}

// MarkFailed drops key from in-flight without marking it applied, letting
// a later Request for the same range retry.
func (t *SemanticTokensRangeTrigger) MarkFailed(key semanticTokensRangeKey) {
	delete(t.inFlight, key)
}

// Invalidate drops every cached key for a version other than current,
// since an edit invalidates the whole token store (§4.7 "any edit
// invalidates") and stale keys would otherwise accumulate forever.
func (t *SemanticTokensRangeTrigger) Invalidate(current uint64) {
	for k := range t.applied {
		if k.version != current {
			delete(t.applied, k)
		}
	}
	for k := range t.inFlight {
		if k.version != current {
			delete(t.inFlight, k)
		}
	}
}
