package deflatekit

import (
	"fmt"

	"github.com/elliotnunn/deflatekit/internal/codecerr"
)

// MinLevel and MaxLevel bound the compression levels this codec accepts.
// Level 0 stores input verbatim; levels 1-12 trade search effort for ratio
// per internal/parser's strategy table.
const (
	MinLevel = 0
	MaxLevel = 12
)

// checkLevel rejects a level outside [MinLevel, MaxLevel]. Unlike
// internal/parser.ForLevel (which silently clamps, since a match-finder
// tuning table always needs some number), the public façade treats an
// out-of-range level as a caller error.
func checkLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("%w: level %d outside [%d,%d]", codecerr.ErrInvalidInput, level, MinLevel, MaxLevel)
	}
	return nil
}

// FlushMode governs how a compressed stream is terminated.
type FlushMode int

const (
	// FlushNone leaves the bitstream open: the last block is not marked
	// final, so further compressed data (e.g. from internal/chunked) can
	// follow it directly.
	FlushNone FlushMode = iota
	// FlushSync emits a sync-flush marker (an empty stored block with
	// BFINAL=0) after the last block, letting a reader recover every byte
	// emitted so far while keeping the stream open for more blocks.
	FlushSync
	// FlushFinish marks the last block BFINAL=1, ending the stream.
	FlushFinish
)
