package blockio

// copyMatch appends a length-byte back-reference at distance dist into
// dst[:out], writing dst[out:out+length]. Go's builtin copy handles the
// non-overlapping case (dist>=length) correctly on its own, but DEFLATE
// matches routinely have dist<length (the whole point of run-length
// patterns like "aaaa...a" or "abcabcabc..."), where copy's
// forward-overlap semantics would read bytes this call hasn't written
// yet. The three remaining branches are spec.md §4.7's overlap classes,
// each picked so the byte-by-byte fallback is only used for the
// narrowest possible distance range.
func copyMatch(dst []byte, out, dist, length int) {
	src := out - dist

	if dist >= length {
		copy(dst[out:out+length], dst[src:src+length])
		return
	}

	if dist == 1 {
		b := dst[src]
		end := out + length
		for i := out; i < end; i++ {
			dst[i] = b
		}
		return
	}

	if dist < 8 {
		// The source and destination windows overlap within a single
		// pattern period shorter than a word; replicate byte by byte
		// so each write is visible to the reads that depend on it.
		d := dst[src : src+dist]
		end := out + length
		for i := out; i < end; i++ {
			dst[i] = d[(i-out)%dist]
		}
		return
	}

	// dist >= 8 and dist < length: repeatedly copy whatever portion of
	// the pattern has already been written, doubling the available
	// run each time, so only O(log(length/dist)) copy calls are needed
	// instead of one per byte.
	written := dist
	copy(dst[out:out+written], dst[src:src+written])
	for written < length {
		n := written
		if out+written+n > out+length {
			n = length - written
		}
		copy(dst[out+written:out+written+n], dst[out:out+n])
		written += n
	}
}
