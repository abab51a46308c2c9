// Package ferrors defines the editor's error kinds (see spec §7) and the
// propagation rules the event loop relies on to decide whether to retry,
// log-and-drop, or surface a status line.
package ferrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error for the event-loop handler. Most editor code
// should return a wrapped *Error via one of the constructors below rather
// than a kind directly, so that Is/As and pkg/errors' stack traces keep
// working.
type Kind int

const (
	// KindIO covers chunk load, save, and directory-listing failures.
	// Retried a bounded number of times by the caller before surfacing.
	KindIO Kind = iota
	// KindProtocol covers a malformed LSP message. The offending message
	// is logged and dropped; the server connection stays alive.
	KindProtocol
	// KindStaleResponse covers an LSP response whose request id no
	// longer matches a pending request. Dropped silently.
	KindStaleResponse
	// KindContentModified covers LSP's -32801 ContentModified, downgraded
	// to an informational status message.
	KindContentModified
	// KindInvalidRange covers a defensive bounds violation (offset/line
	// out of range). Never causes a panic; callers clamp instead.
	KindInvalidRange
	// KindConfig covers a malformed setting value. The field falls back
	// to its default and is flagged in the settings UI.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindProtocol:
		return "protocol"
	case KindStaleResponse:
		return "stale_response"
	case KindContentModified:
		return "content_modified"
	case KindInvalidRange:
		return "invalid_range"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is the concrete error type carried through the editor. Op names the
// failing operation (e.g. "chunk.load", "lsp.decode") for log messages.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a bare *Error (no Op, no Err) with the same
// Kind, which is how the IsIO/IsProtocol/... helpers below match an error
// of a kind against their unexported sentinels.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Op == "" && other.Err == nil && other.Kind == e.Kind
}

func newKind(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

// IO wraps err as a KindIO error for op.
func IO(op string, err error) error { return newKind(KindIO, op, err) }

// Protocol wraps err as a KindProtocol error for op.
func Protocol(op string, err error) error { return newKind(KindProtocol, op, err) }

// StaleResponse constructs a KindStaleResponse error naming the mismatched id.
func StaleResponse(op string, id int64) error {
	return newKind(KindStaleResponse, op, fmt.Errorf("stale response id %d", id))
}

// ContentModified constructs a KindContentModified error from an LSP error.
func ContentModified(op string, err error) error {
	return newKind(KindContentModified, op, err)
}

// InvalidRange constructs a KindInvalidRange error describing a clamped access.
func InvalidRange(op string, err error) error { return newKind(KindInvalidRange, op, err) }

// Config wraps err as a KindConfig error for the given dotted setting path.
func Config(path string, err error) error {
	return newKind(KindConfig, "config:"+path, err)
}

// bare-kind sentinels (no op/err attached) that the Is* helpers below pass
// to errors.Is.
var (
	ioSentinel       = &Error{Kind: KindIO}
	protocolSentinel = &Error{Kind: KindProtocol}
	staleSentinel    = &Error{Kind: KindStaleResponse}
	cmSentinel       = &Error{Kind: KindContentModified}
	rangeSentinel    = &Error{Kind: KindInvalidRange}
	configSentinel   = &Error{Kind: KindConfig}
)

// IsIO reports whether err is (or wraps) a KindIO error.
func IsIO(err error) bool { return errors.Is(err, ioSentinel) }

// IsProtocol reports whether err is (or wraps) a KindProtocol error.
func IsProtocol(err error) bool { return errors.Is(err, protocolSentinel) }

// IsStaleResponse reports whether err is (or wraps) a KindStaleResponse error.
func IsStaleResponse(err error) bool { return errors.Is(err, staleSentinel) }

// IsContentModified reports whether err is (or wraps) a KindContentModified error.
func IsContentModified(err error) bool { return errors.Is(err, cmSentinel) }

// IsInvalidRange reports whether err is (or wraps) a KindInvalidRange error.
func IsInvalidRange(err error) bool { return errors.Is(err, rangeSentinel) }

// IsConfig reports whether err is (or wraps) a KindConfig error.
func IsConfig(err error) bool { return errors.Is(err, configSentinel) }

// AsError extracts the *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
