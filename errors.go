package deflatekit

import "github.com/elliotnunn/deflatekit/internal/codecerr"

// The observable error values spec.md §6/§7 define. Callers match against
// these with errors.Is; ErrorKind/KindOf classify any error (including ones
// from zlib/gzip, which wrap the same sentinels) without string matching.
var (
	ErrBadData           = codecerr.ErrBadData
	ErrShortInput        = codecerr.ErrShortInput
	ErrInsufficientSpace = codecerr.ErrInsufficientSpace
	ErrShortOutput       = codecerr.ErrShortOutput
	ErrInvalidInput      = codecerr.ErrInvalidInput
)

// ErrorKind classifies an error into the design-level taxonomy spec.md §7
// names (FormatError, TruncatedInput, BufferExhausted, PolicyDenied,
// ResourceExhausted, surfaced here as BadData/ShortInput/InsufficientSpace/
// ShortOutput/InvalidInput/Other).
type ErrorKind = codecerr.Kind

const (
	KindOther             = codecerr.KindOther
	KindBadData           = codecerr.KindBadData
	KindShortInput        = codecerr.KindShortInput
	KindInsufficientSpace = codecerr.KindInsufficientSpace
	KindShortOutput       = codecerr.KindShortOutput
	KindInvalidInput      = codecerr.KindInvalidInput
)

// KindOf reports which taxonomy bucket err falls into.
func KindOf(err error) ErrorKind {
	return codecerr.KindOf(err)
}
