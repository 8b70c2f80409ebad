// Package kif defines the narrow seam a compressed sibling container
// format (KIF) would plug into. No KIF wire format is implemented here
// — that container is out of scope — only the Compressor contract that
// `nifindex write --kif` exercises today with a single concrete
// adapter, and that a future KIF writer could reuse without this
// package needing to change.
package kif

import "io"

// Compressor wraps one payload's worth of bytes for storage and
// reverses the operation. Implementations must round-trip: Decompress
// must return exactly what was passed to Compress.
type Compressor interface {
	// Compress writes the compressed form of src to dst.
	Compress(dst io.Writer, src []byte) error
	// Decompress writes the decompressed form of src to dst.
	Decompress(dst io.Writer, src []byte) error
	// Name identifies the compression scheme, for diagnostics and for
	// a future KIF container's own format tag.
	Name() string
}
