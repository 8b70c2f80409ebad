package nifparse

import (
	"bytes"

	"nif/internal/ast"
)

// cookie2026 and cookie2024 are the only two magic cookies a reader may
// accept. Unknown versions are rejected with UnrecognizedVersion.
var (
	cookie2026 = []byte("(.nif26)")
	cookie2024 = []byte("(.nif24)")
)

// readVersionCookie matches the mandatory first bytes of the file with
// no preceding whitespace tolerated, returning the recognized version
// and the number of bytes it occupies. The 2024 cookie is accepted
// for back-compat; the writer never emits it.
func readVersionCookie(data []byte) (version int, n int, ok bool) {
	if bytes.HasPrefix(data, cookie2026) {
		return 26, len(cookie2026), true
	}
	if bytes.HasPrefix(data, cookie2024) {
		return 24, len(cookie2024), true
	}
	return 0, 0, false
}

// The 2024 grammar let a compound node carry its own prefix (line-info
// and comment attached to the CompoundNode value itself); the 2026
// grammar moves the prefix onto the surrounding Node. Both placements
// produce byte-identical source text — a prefix can only occur in the
// one textual position immediately before a node's opening token — so
// in this library's unified representation (Prefix lives directly on
// ast.Node, with no separate CompoundNode layer) the two grammars
// parse identically. normalizeLegacyPrefix exists as the single named
// hook for that equivalence, so a future split of Node from
// CompoundNode has one place to add real divergent handling.
func normalizeLegacyPrefix(p ast.Prefix) ast.Prefix { return p }
