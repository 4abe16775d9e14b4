package deflatekit

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/elliotnunn/deflatekit/internal/codecerr"
)

// DefaultRatioLimit is the default bound on expectedSize relative to input
// length, guarding against a small compressed input claiming to expand into
// an enormous output (the classic zip-bomb shape).
const DefaultRatioLimit = 2000

// maxMemoryEnv overrides the process-wide default memory cap a zero Limits
// value applies, the same env-var-override-with-panic-on-malformed-value
// shape the teacher uses for its own memory budget (a BEGB gigabyte count,
// parsed with strconv.ParseFloat and validated for NaN/Inf/negative).
const maxMemoryEnv = "DEFLATEKIT_MAX_MEMORY_GB"

func defaultMaxMemory() uint64 {
	e := os.Getenv(maxMemoryEnv)
	if e == "" {
		return 0 // unbounded unless the caller sets Limits.MaxMemory explicitly
	}
	f, err := strconv.ParseFloat(e, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		panic("malformed " + maxMemoryEnv + " environment variable, should be a number of gigabytes: " + e)
	}
	return uint64(f * 1024 * 1024 * 1024)
}

// Limits gates how large a decompression is allowed to claim it will be
// before any output buffer is sized, per spec.md's `set_max_memory_limit`/
// `set_limit_ratio` knobs. The zero value is the default policy:
// DefaultRatioLimit for the ratio check, and defaultMaxMemory() (unbounded
// unless DEFLATEKIT_MAX_MEMORY_GB is set) for the memory cap.
type Limits struct {
	// MaxMemory caps expectedSize outright; 0 selects defaultMaxMemory().
	MaxMemory uint64
	// Ratio caps expectedSize at Ratio*inputLen+4096; 0 selects
	// DefaultRatioLimit.
	Ratio float64
}

// check enforces both knobs against a proposed expectedSize for a
// decompression reading inputLen compressed bytes.
func (l Limits) check(inputLen, expectedSize int) error {
	ratio := l.Ratio
	if ratio == 0 {
		ratio = DefaultRatioLimit
	}
	if cap := ratio*float64(inputLen) + 4096; float64(expectedSize) > cap {
		return fmt.Errorf("%w: expected size %d exceeds ratio limit %.0f for %d input bytes", codecerr.ErrInvalidInput, expectedSize, cap, inputLen)
	}

	maxMemory := l.MaxMemory
	if maxMemory == 0 {
		maxMemory = defaultMaxMemory()
	}
	if maxMemory != 0 && uint64(expectedSize) > maxMemory {
		return fmt.Errorf("%w: expected size %d exceeds memory limit %d", codecerr.ErrInvalidInput, expectedSize, maxMemory)
	}
	return nil
}
