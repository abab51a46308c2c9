package viewport

import "math"

// ThumbSize returns the scrollbar thumb size S, clamped to [1, trackHeight]
// (§4.4 "Scrollbar"). It depends only on (viewportLines, totalLines), so
// it is constant across every scroll position for a fixed pair — the
// invariant §8 tests directly.
func ThumbSize(viewportLines, totalLines, trackHeight int) int {
	if trackHeight <= 0 {
		return 0
	}
	if totalLines <= 0 || viewportLines >= totalLines {
		return trackHeight
	}
	s := int(math.Round(float64(viewportLines) / float64(totalLines) * float64(trackHeight)))
	return clampInt(s, 1, trackHeight)
}

// ThumbStart returns the track row the thumb begins at for the given
// topLine, per §4.4: round(top_line / (total_lines - viewport_lines) *
// (track_height - S)).
func ThumbStart(topLine, viewportLines, totalLines, trackHeight, thumbSize int) int {
	denom := totalLines - viewportLines
	if denom <= 0 {
		return 0
	}
	room := trackHeight - thumbSize
	start := int(math.Round(float64(topLine) / float64(denom) * float64(room)))
	return clampInt(start, 0, room)
}

// ThumbForBytes computes the scrollbar position for a buffer whose exact
// line count isn't cheaply available (large files, §4.1): the thumb is a
// constant 1 row, positioned proportionally to byte offset rather than
// line number. Constant size trivially satisfies the "thumb size is
// constant across scroll positions" invariant.
func ThumbForBytes(topByte, totalBytes int64, trackHeight int) (size, start int) {
	size = 1
	if trackHeight <= 0 {
		return size, 0
	}
	if totalBytes <= 0 {
		return size, 0
	}
	room := trackHeight - size
	start = int(math.Round(float64(topByte) / float64(totalBytes) * float64(room)))
	return size, clampInt(start, 0, room)
}

// TopLineFromThumbRow inverts ThumbStart: given where the user dragged the
// thumb to, returns the top line that would place it there.
func TopLineFromThumbRow(thumbRow, viewportLines, totalLines, trackHeight, thumbSize int) int64 {
	room := trackHeight - thumbSize
	if room <= 0 {
		return 0
	}
	denom := totalLines - viewportLines
	if denom <= 0 {
		return 0
	}
	line := int64(math.Round(float64(thumbRow) / float64(room) * float64(denom)))
	return clampInt64(line, 0, int64(denom))
}

// TopLineFromTrackClick computes the top line for a click on the track
// outside the thumb — jump directly to the proportional position under
// the cursor rather than paging.
func TopLineFromTrackClick(clickRow, trackHeight, totalLines, viewportLines int) int64 {
	denom := totalLines - viewportLines
	if denom <= 0 || trackHeight <= 0 {
		return 0
	}
	line := int64(math.Round(float64(clickRow) / float64(trackHeight) * float64(denom)))
	return clampInt64(line, 0, int64(denom))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
