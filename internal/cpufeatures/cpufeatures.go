// Package cpufeatures is a one-shot latch that detects available SIMD
// instruction sets and selects among registered implementations of a given
// kernel. Every kernel registered today is scalar Go — this module's
// reference corpus carries golang.org/x/sys/cpu for feature detection but
// no hand-written assembly to dispatch to — but the selection plumbing
// itself is real, not a stub: a future AVX2 match-length kernel would
// register here and Select would start returning it on capable hardware
// without any caller-visible change.
package cpufeatures

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// Level names a capability tier a kernel implementation may require.
type Level int

const (
	LevelScalar Level = iota
	LevelSSE41
	LevelAVX2
)

// Kernel pairs an implementation with the minimum Level it requires.
// Select returns the highest-Level kernel the running CPU supports.
type Kernel struct {
	Level Level
	Impl  any
}

var (
	once      sync.Once
	available Level
)

func detect() {
	available = LevelScalar
	if cpu.X86.HasSSE41 {
		available = LevelSSE41
	}
	if cpu.X86.HasAVX2 {
		available = LevelAVX2
	}
}

// Available reports the highest SIMD tier detected on this CPU, computing
// it exactly once per process.
func Available() Level {
	once.Do(detect)
	return available
}

// Select returns the Impl of the highest-Level kernel in kernels whose
// Level does not exceed what Available reports, preferring later entries
// at a tied Level (so callers list scalar first, specialized variants
// after). It panics if kernels is empty or none qualify, since a LevelScalar
// entry should always be present as the universal fallback.
func Select(kernels []Kernel) any {
	tier := Available()

	var chosen any
	haveChosen := false
	for _, k := range kernels {
		if k.Level <= tier {
			chosen = k.Impl
			haveChosen = true
		}
	}
	if !haveChosen {
		panic("cpufeatures: no registered kernel supports this CPU (missing a LevelScalar fallback?)")
	}
	return chosen
}
