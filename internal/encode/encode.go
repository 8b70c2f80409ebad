// Package encode implements the canonical identifier encoder: a pure,
// deterministic function from a parsed tree to an identifier-safe
// string, with back-reference compression for repeated identifiers,
// symbols, and node-kind tags.
//
// Design note on the documented collision class (Open Question 3,
// carried forward as specified): dots inside a Symbol's bytes are
// never escaped, so a Symbol "foo.0" and the two-atom sequence
// "foo" " " "0" (which the rewrite table turns into "foo_0") are only
// distinguishable by surrounding structure, not by the dot itself.
// This implementation also treats every literal byte outside the
// letter/digit/byte>=128 set — including a number's own '-' sign and a
// float's 'E' exponent marker, since 'E' is independently a reserved
// letter — as subject to the same X<HH> escaping rule as any other
// content byte, per a strict reading of step 6. No special case is
// carved out for sign or exponent bytes beyond what step 6 already
// says, since the specification does not request one.
package encode

import (
	"strconv"

	"nif/internal/ast"
)

const hexDigits = "0123456789ABCDEF"

func isReservedLetter(b byte) bool {
	switch b {
	case 'A', 'Z', 'E', '_', 'O', 'U', 'X', 'R', 'K':
		return true
	default:
		return false
	}
}

func isPlainIdentByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b >= 128
}

// coder holds the state threaded through one Node call: the output
// buffer and the two back-reference tables.
type coder struct {
	arena *ast.Arena
	buf   []byte

	identFirstSeen map[string]int
	identCount     int

	kindFirstSeen map[string]int
	kindCount     int
}

// Node encodes the single tree rooted at ref to its canonical
// identifier string.
func Node(arena *ast.Arena, ref ast.Ref) string {
	c := &coder{
		arena:          arena,
		identFirstSeen: make(map[string]int),
		kindFirstSeen:  make(map[string]int),
	}
	c.emit(ref)
	return stripTrailingCloses(string(c.buf))
}

func stripTrailingCloses(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == 'Z' {
		i--
	}
	return s[:i]
}

// appendEscaped appends the canonical encoding of one raw content byte:
// reserved letters and any byte outside letter/digit/>=128 become
// X<HH>; allowDot additionally passes a literal '.' through unescaped
// (the one documented exception, for Symbol bytes).
func appendEscaped(buf []byte, b byte, allowDot bool) []byte {
	if isReservedLetter(b) {
		return append(buf, 'X', hexDigits[b>>4], hexDigits[b&0x0F])
	}
	if allowDot && b == '.' {
		return append(buf, '.')
	}
	if isPlainIdentByte(b) {
		return append(buf, b)
	}
	return append(buf, 'X', hexDigits[b>>4], hexDigits[b&0x0F])
}

func encodeContent(bytes []byte, allowDot bool) []byte {
	out := make([]byte, 0, len(bytes))
	for _, b := range bytes {
		out = appendEscaped(out, b, allowDot)
	}
	return out
}

// identRef records one occurrence of an identifier/symbol/SymbolDef
// atom's encoded body in the shared back-reference table, returning
// either the original encoded bytes or a shorter "R<index>" reference.
func (c *coder) identRef(raw []byte, encoded []byte) []byte {
	key := string(raw)
	idx := c.identCount
	c.identCount++
	firstIdx, seen := c.identFirstSeen[key]
	if !seen {
		c.identFirstSeen[key] = idx
		return encoded
	}
	candidate := "R" + strconv.Itoa(firstIdx)
	if len(candidate) < len(encoded) {
		return []byte(candidate)
	}
	return encoded
}

func (c *coder) kindRef(raw []byte, encoded []byte) []byte {
	key := string(raw)
	idx := c.kindCount
	c.kindCount++
	firstIdx, seen := c.kindFirstSeen[key]
	if !seen {
		c.kindFirstSeen[key] = idx
		return encoded
	}
	candidate := "K" + strconv.Itoa(firstIdx)
	if len(candidate) < len(encoded) {
		return []byte(candidate)
	}
	return encoded
}

func (c *coder) emit(ref ast.Ref) {
	node := c.arena.Get(ref)
	switch node.Kind {
	case ast.KindEmpty:
		c.buf = append(c.buf, 'E')
	case ast.KindIdentifier:
		encoded := encodeContent(node.Bytes, false)
		c.buf = append(c.buf, c.identRef(node.Bytes, encoded)...)
	case ast.KindSymbol:
		encoded := encodeContent(node.Bytes, true)
		c.buf = append(c.buf, c.identRef(node.Bytes, encoded)...)
	case ast.KindSymbolDef:
		c.buf = append(c.buf, 'O')
		encoded := encodeContent(node.Bytes, true)
		c.buf = append(c.buf, c.identRef(node.Bytes, encoded)...)
	case ast.KindIntLit, ast.KindUIntLit, ast.KindFloatLit:
		c.emitNumber(node)
	case ast.KindCharLit:
		c.buf = appendEscaped(c.buf, '\'', false)
		if len(node.Bytes) == 1 {
			c.buf = appendEscaped(c.buf, node.Bytes[0], false)
		}
		c.buf = appendEscaped(c.buf, '\'', false)
	case ast.KindStringLit:
		c.buf = append(c.buf, 'U')
		c.buf = append(c.buf, encodeContent(node.Bytes, false)...)
		c.buf = append(c.buf, 'U')
	case ast.KindCompound:
		c.emitCompound(ref, node)
	}
}

func (c *coder) emitNumber(node *ast.Node) {
	if node.Num.Sign == ast.Negative {
		c.buf = appendEscaped(c.buf, '-', false)
	}
	c.buf = append(c.buf, encodeContent(node.Num.Digits, false)...)
	if node.Kind == ast.KindFloatLit {
		if node.Num.Frac != nil {
			c.buf = appendEscaped(c.buf, '.', false)
			c.buf = append(c.buf, encodeContent(node.Num.Frac, false)...)
		}
		if node.Num.Exp != nil {
			c.buf = appendEscaped(c.buf, 'E', false)
			c.buf = append(c.buf, encodeContent(node.Num.Exp, false)...)
		}
	}
	if node.Kind == ast.KindUIntLit {
		c.buf = append(c.buf, 'u')
	}
}

func (c *coder) emitCompound(ref ast.Ref, node *ast.Node) {
	_ = ref
	c.buf = append(c.buf, 'A')
	tagEncoded := encodeContent(node.Tag, false)
	c.buf = append(c.buf, c.kindRef(node.Tag, tagEncoded)...)
	for _, child := range node.Children {
		if c.arena.Get(child).Kind == ast.KindCompound {
			c.emit(child)
			continue
		}
		c.buf = append(c.buf, '_')
		c.emit(child)
	}
	c.buf = append(c.buf, 'Z')
}
