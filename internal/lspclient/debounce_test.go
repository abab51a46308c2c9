package lspclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompletionTriggerDebounce(t *testing.T) {
	var trig CompletionTrigger
	assert.False(t, trig.Due(), "no schedule yet")

	trig.ScheduleWord(5 * time.Millisecond)
	assert.False(t, trig.Due(), "window hasn't elapsed")

	time.Sleep(10 * time.Millisecond)
	assert.True(t, trig.Due())
}

func TestCompletionTriggerRescheduleOnKeystroke(t *testing.T) {
	var trig CompletionTrigger
	trig.ScheduleWord(5 * time.Millisecond)
	time.Sleep(3 * time.Millisecond)
	trig.ScheduleWord(5 * time.Millisecond) // keystroke resets the window
	time.Sleep(3 * time.Millisecond)
	assert.False(t, trig.Due(), "rescheduling should have pushed the fire time out")
	time.Sleep(5 * time.Millisecond)
	assert.True(t, trig.Due())
}

func TestCompletionTriggerCancel(t *testing.T) {
	var trig CompletionTrigger
	trig.ScheduleWord(1 * time.Millisecond)
	trig.Cancel()
	time.Sleep(5 * time.Millisecond)
	assert.False(t, trig.Due())
}

func TestSemanticTokensFullTriggerStaysDueUntilFired(t *testing.T) {
	var trig SemanticTokensFullTrigger
	trig.ScheduleAfterEdit()
	assert.False(t, trig.Due())
	time.Sleep(semanticTokensFullDelay + 5*time.Millisecond)
	assert.True(t, trig.Due())
	// "reissued if still due on the next idle tick" — a second poll before
	// Fired must still report due.
	assert.True(t, trig.Due())
	trig.Fired()
	assert.False(t, trig.Due())
}

func TestSemanticTokensRangeTriggerDedupAndDebounce(t *testing.T) {
	trig := NewSemanticTokensRangeTrigger()

	ok := trig.Request(0, 100, 1)
	assert.True(t, ok)

	// A second identical request before the first fires just restarts the
	// debounce window (ordinary debounce behavior) — suppression is only
	// for ranges already in flight or applied, checked below.
	ok = trig.Request(0, 100, 1)
	assert.True(t, ok)

	_, due := trig.Due()
	assert.False(t, due, "50ms window hasn't elapsed")

	time.Sleep(semanticTokensRangeDelay + 5*time.Millisecond)
	key, due := trig.Due()
	assert.True(t, due)
	assert.Equal(t, semanticTokensRangeKey{start: 0, end: 100, version: 1}, key)

	trig.MarkInFlight(key)
	// Still suppressed: now in-flight rather than pending.
	ok = trig.Request(0, 100, 1)
	assert.False(t, ok)

	trig.MarkApplied(key)
	// Still suppressed: now recorded as applied.
	ok = trig.Request(0, 100, 1)
	assert.False(t, ok)

	// A different range is independent.
	ok = trig.Request(100, 200, 1)
	assert.True(t, ok)

	// A new buffer version invalidates the cache for the old version.
	trig.Invalidate(2)
	ok = trig.Request(0, 100, 1)
	assert.True(t, ok, "invalidated version should no longer suppress")
}

func TestSemanticTokensRangeTriggerMarkFailedAllowsRetry(t *testing.T) {
	trig := NewSemanticTokensRangeTrigger()
	trig.Request(0, 10, 1)
	time.Sleep(semanticTokensRangeDelay + 5*time.Millisecond)
	key, due := trig.Due()
	assert.True(t, due)
	trig.MarkInFlight(key)

	trig.MarkFailed(key)
	ok := trig.Request(0, 10, 1)
	assert.True(t, ok, "a failed request must be retryable")
}
