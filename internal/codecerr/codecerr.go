// Package codecerr defines the observable error taxonomy every public
// deflatekit operation reports through: a small set of sentinel values
// plus a Kind() accessor, so callers can switch on category without
// string-matching error messages, mirroring the teacher's per-package
// "var Err... = errors.New(...)" sentinel blocks.
package codecerr

import "errors"

// Kind classifies an error into one of the design-level taxonomy buckets
// spec.md §7 defines.
type Kind int

const (
	// KindOther covers anything not otherwise classified (e.g. allocation
	// failure surfaced from the runtime rather than a policy check).
	KindOther Kind = iota
	// KindBadData: header or bitstream violates the wire grammar, or a
	// back-reference points outside the already-produced output.
	KindBadData
	// KindShortInput: more input bytes are needed to make progress, but
	// the supplied buffer ended first.
	KindShortInput
	// KindInsufficientSpace: the caller's destination buffer is too small
	// to hold the compressed (or bounded-decompressed) output.
	KindInsufficientSpace
	// KindShortOutput: decompression produced fewer bytes than the
	// caller's expected_size promised before input ran out.
	KindShortOutput
	// KindInvalidInput: a caller-configured policy rejected the request
	// outright (level out of range, ratio/memory limit exceeded, aliased
	// input/output buffers) before any decoding was attempted.
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindBadData:
		return "BadData"
	case KindShortInput:
		return "ShortInput"
	case KindInsufficientSpace:
		return "InsufficientSpace"
	case KindShortOutput:
		return "ShortOutput"
	case KindInvalidInput:
		return "InvalidInput"
	default:
		return "Other"
	}
}

// Sentinel errors, one per Kind other than KindOther (BadData, ShortInput,
// InsufficientSpace and InvalidInput stand for spec.md §7's FormatError,
// TruncatedInput, BufferExhausted and PolicyDenied; ResourceExhausted has
// no sentinel and reports as KindOther), wrapped with fmt.Errorf("%w: ...") by callers that have more context to
// add (invalid symbol value, which limit was exceeded, and so on).
var (
	ErrBadData           = errors.New("deflatekit: bad data")
	ErrShortInput        = errors.New("deflatekit: short input")
	ErrInsufficientSpace = errors.New("deflatekit: insufficient space")
	ErrShortOutput       = errors.New("deflatekit: short output")
	ErrInvalidInput      = errors.New("deflatekit: invalid input")
)

// KindOf reports which taxonomy bucket err falls into by unwrapping it down
// to one of the package sentinels. Errors not wrapping any sentinel report
// KindOther.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrBadData):
		return KindBadData
	case errors.Is(err, ErrShortInput):
		return KindShortInput
	case errors.Is(err, ErrInsufficientSpace):
		return KindInsufficientSpace
	case errors.Is(err, ErrShortOutput):
		return KindShortOutput
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindOther
	}
}
