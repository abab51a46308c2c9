package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThumbSizeConstantAcrossScrollPositions(t *testing.T) {
	for _, totalLines := range []int{50, 100, 200, 500} {
		const viewportLines = 22
		const trackHeight = 24

		want := ThumbSize(viewportLines, totalLines, trackHeight)
		for topLine := 0; topLine <= totalLines-viewportLines; topLine += 7 {
			got := ThumbSize(viewportLines, totalLines, trackHeight)
			assert.Equal(t, want, got, "topLine=%d totalLines=%d", topLine, totalLines)
		}
	}
}

func TestThumbStartAtTopIsTrackTop(t *testing.T) {
	size := ThumbSize(22, 200, 24)
	start := ThumbStart(0, 22, 200, 24, size)
	assert.Equal(t, 0, start)
}

func TestThumbStartAtMaxIsTrackBottom(t *testing.T) {
	const viewportLines, totalLines, trackHeight = 22, 200, 24
	size := ThumbSize(viewportLines, totalLines, trackHeight)
	maxTop := totalLines - viewportLines
	start := ThumbStart(maxTop, viewportLines, totalLines, trackHeight, size)
	assert.Equal(t, trackHeight-size, start)
}

func TestThumbFillsTrackWhenContentFits(t *testing.T) {
	size := ThumbSize(30, 20, 24)
	assert.Equal(t, 24, size)
}

func TestThumbForBytesIsConstantSize(t *testing.T) {
	size1, _ := ThumbForBytes(0, 1<<20, 24)
	size2, _ := ThumbForBytes(1<<19, 1<<20, 24)
	assert.Equal(t, 1, size1)
	assert.Equal(t, 1, size2)
}

func TestThumbForBytesAtEndIsTrackBottom(t *testing.T) {
	size, start := ThumbForBytes(1<<20, 1<<20, 24)
	assert.Equal(t, 24-size, start)
}

func TestTopLineFromThumbRowInvertsThumbStart(t *testing.T) {
	const viewportLines, totalLines, trackHeight = 22, 200, 24
	size := ThumbSize(viewportLines, totalLines, trackHeight)
	for _, topLine := range []int64{0, 50, 100, 178} {
		row := ThumbStart(int(topLine), viewportLines, totalLines, trackHeight, size)
		got := TopLineFromThumbRow(row, viewportLines, totalLines, trackHeight, size)
		// Rounding to track rows and back isn't always exact: one row spans
		// denom/room lines, so the result lands within half a row's span
		// plus half a line of the original (178/21 rows: at most 4 lines).
		maxDiff := int64((totalLines - viewportLines + trackHeight - size) / (2 * (trackHeight - size)))
		diff := got - topLine
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, maxDiff)
	}
}
