// Package deflatekit implements a DEFLATE (RFC 1951), zlib (RFC 1950), and
// gzip (RFC 1952) codec: LZ77 match finding, canonical Huffman coding, and
// the bit-level block writer/reader live in internal packages; this package
// is the public façade over them, plus chunked/batch parallel dispatch and
// the security knobs that bound decompression's memory use.
package deflatekit
