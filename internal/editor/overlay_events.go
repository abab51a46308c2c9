package editor

import "github.com/freshedit/fresh/internal/overlay"

// AddOverlay creates a decoration spanning [Start, End).
type AddOverlay struct {
	Start, End int64
	Face       overlay.Face
	Priority   int
	Namespace  string
}

func (AddOverlay) isEvent() {}

// RemoveOverlay destroys one overlay by id.
type RemoveOverlay struct{ ID uint64 }

func (RemoveOverlay) isEvent() {}

// RemoveOverlaysInRange destroys every overlay starting within [Start, End).
type RemoveOverlaysInRange struct{ Start, End int64 }

func (RemoveOverlaysInRange) isEvent() {}

// ClearNamespace destroys every overlay tagged with Namespace.
type ClearNamespace struct{ Namespace string }

func (ClearNamespace) isEvent() {}

// ClearOverlays destroys every overlay in the buffer.
type ClearOverlays struct{}

func (ClearOverlays) isEvent() {}

// AddMarginAnnotation adds a gutter glyph anchored at Position.
type AddMarginAnnotation struct {
	Position int64
	Glyph    string
	Style    overlay.Style
	Kind     string
}

func (AddMarginAnnotation) isEvent() {}

// RemoveMarginAnnotationsOfKind clears gutter glyphs of a given kind,
// e.g. republishing a fresh diagnostic set.
type RemoveMarginAnnotationsOfKind struct{ Kind string }

func (RemoveMarginAnnotationsOfKind) isEvent() {}
