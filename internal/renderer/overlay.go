package renderer

// OverlayAnchor positions a popup relative to either the terminal viewport
// or its content bounds. Adapted from the teacher's pkg/pitui overlay
// geometry (pitui.OverlayAnchor/resolveOverlayLayout): that file is
// self-contained (unlike pitui's tui.go, it defines every type it uses),
// so the math below is a direct port, restructured as free functions since
// this package has no single TUI god-object to hang them off of.
type OverlayAnchor int

const (
	AnchorCenter OverlayAnchor = iota
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
	AnchorTopCenter
	AnchorBottomCenter
	AnchorLeftCenter
	AnchorRightCenter
)

// OverlayMargin is spacing from the terminal edges reserved before an
// overlay is positioned.
type OverlayMargin struct {
	Top, Right, Bottom, Left int
}

// SizeValue is either an absolute column/row count or a percentage of the
// reference dimension. Use SizeAbs/SizePct.
type SizeValue struct {
	abs   int
	pct   float64
	isPct bool
	isSet bool
}

func SizeAbs(n int) SizeValue      { return SizeValue{abs: n, isSet: true} }
func SizePct(p float64) SizeValue  { return SizeValue{pct: p, isPct: true, isSet: true} }

func (v SizeValue) resolve(ref int) (int, bool) {
	if !v.isSet {
		return 0, false
	}
	if v.isPct {
		return int(float64(ref) * v.pct / 100), true
	}
	return v.abs, true
}

// OverlayOptions configures a popup's placement: completion menus anchor
// bottom-left of the cursor's content position, the settings dialog
// centers on the viewport, the rename prompt anchors just above the
// cursor.
type OverlayOptions struct {
	Width     SizeValue
	MinWidth  int
	MaxHeight SizeValue

	Anchor  OverlayAnchor
	OffsetX int
	OffsetY int

	Row SizeValue
	Col SizeValue

	Margin OverlayMargin
}

// ResolveOverlayLayout determines the width, row, col, and maxHeight for a
// popup of overlayHeight rows against a termW x termH viewport.
func ResolveOverlayLayout(opts OverlayOptions, overlayHeight, termW, termH int) (width, row, col, maxH int, maxHSet bool) {
	mTop := max(0, opts.Margin.Top)
	mRight := max(0, opts.Margin.Right)
	mBottom := max(0, opts.Margin.Bottom)
	mLeft := max(0, opts.Margin.Left)

	availW := max(1, termW-mLeft-mRight)
	availH := max(1, termH-mTop-mBottom)

	if w, ok := opts.Width.resolve(termW); ok {
		width = w
	} else {
		width = min(80, availW)
	}
	if opts.MinWidth > 0 && width < opts.MinWidth {
		width = opts.MinWidth
	}
	width = clamp(width, 1, availW)

	if mh, ok := opts.MaxHeight.resolve(termH); ok {
		maxH = clamp(mh, 1, availH)
		maxHSet = true
	}

	effectiveH := overlayHeight
	if maxHSet && effectiveH > maxH {
		effectiveH = maxH
	}

	if opts.Row.isSet {
		if opts.Row.isPct {
			maxRow := max(0, availH-effectiveH)
			row = mTop + int(float64(maxRow)*opts.Row.pct/100)
		} else {
			row = opts.Row.abs
		}
	} else {
		row = anchorRow(opts.Anchor, effectiveH, availH, mTop)
	}

	if opts.Col.isSet {
		if opts.Col.isPct {
			maxCol := max(0, availW-width)
			col = mLeft + int(float64(maxCol)*opts.Col.pct/100)
		} else {
			col = opts.Col.abs
		}
	} else {
		col = anchorCol(opts.Anchor, width, availW, mLeft)
	}

	row += opts.OffsetY
	col += opts.OffsetX

	row = clamp(row, mTop, termH-mBottom-effectiveH)
	col = clamp(col, mLeft, termW-mRight-width)

	return
}

func anchorRow(a OverlayAnchor, h, availH, mTop int) int {
	switch a {
	case AnchorTopLeft, AnchorTopCenter, AnchorTopRight:
		return mTop
	case AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight:
		return mTop + availH - h
	default:
		return mTop + (availH-h)/2
	}
}

func anchorCol(a OverlayAnchor, w, availW, mLeft int) int {
	switch a {
	case AnchorTopLeft, AnchorLeftCenter, AnchorBottomLeft:
		return mLeft
	case AnchorTopRight, AnchorRightCenter, AnchorBottomRight:
		return mLeft + availW - w
	default:
		return mLeft + (availW-w)/2
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
