// Package nifwrite serializes a parsed (or programmatically built) NIF
// tree back to bytes: directive emission in a stable order, compound
// and atom formatting, line-info delta re-emission, and in-place
// `.indexat` patching via io.WriterAt.
package nifwrite

import (
	"fmt"
	"io"
	"strconv"

	"nif/internal/ast"
	"nif/internal/escape"
)

// IndexAtPad is the number of ASCII bytes reserved for the `.indexat`
// digits region: enough for "+" plus an 11-digit decimal offset, per
// the design note that a fixed pad of at least 12 bytes accommodates
// any offset up to roughly 10^11 bytes.
const IndexAtPad = 12

// VisibilityFunc lets a caller mark individual global symbols Hidden;
// any symbol not mentioned defaults to Exported.
type VisibilityFunc func(symbol []byte) ast.Visibility

// Options configures one Write call.
type Options struct {
	// WriteIndex requests that an exported-symbol index be computed
	// while writing and emitted as a trailing `.index`, with
	// `.indexat` patched in place afterward. Requires w to implement
	// io.WriterAt.
	WriteIndex bool
	Visibility VisibilityFunc
}

func (o Options) visibilityOf(symbol []byte) ast.Visibility {
	if o.Visibility == nil {
		return ast.Exported
	}
	return o.Visibility(symbol)
}

// countingWriter tracks the absolute byte offset written so far.
type countingWriter struct {
	w      io.Writer
	offset int64
	err    error
}

func (c *countingWriter) write(p []byte) {
	if c.err != nil {
		return
	}
	n, err := c.w.Write(p)
	c.offset += int64(n)
	if err != nil {
		c.err = err
	}
}

func (c *countingWriter) writeString(s string) { c.write([]byte(s)) }
func (c *countingWriter) writeByte(b byte)      { c.write([]byte{b}) }

type indexEntry struct {
	visibility ast.Visibility
	symbol     []byte
	offset     int64
}

// writer bundles the state threaded through one Write call: the sink,
// the arena the tree lives in, the caller's options, and the
// exported-symbol registry accumulated as body nodes are emitted.
type writer struct {
	cw       *countingWriter
	arena    *ast.Arena
	opts     Options
	registry []indexEntry
}

// Write serializes module (whose nodes live in arena) to w. If
// opts.WriteIndex is set, w must additionally implement io.WriterAt, or
// NonSeekableSinkWithIndex is returned; the total byte count written is
// returned alongside any error.
func Write(arena *ast.Arena, module *ast.Module, w io.Writer, opts Options) (int64, error) {
	wr := &writer{cw: &countingWriter{w: w}, arena: arena, opts: opts}
	cw := wr.cw
	cw.writeString("(.nif26)")

	var indexAtDigitsOffset int64 = -1
	if opts.WriteIndex {
		cw.writeString("\n(.indexat ")
		indexAtDigitsOffset = cw.offset
		for i := 0; i < IndexAtPad; i++ {
			cw.writeByte(' ')
		}
		cw.writeString(")")
	}

	wr.writeOtherDirectives(module)

	for _, ref := range module.Body {
		cw.writeString("\n")
		wr.writeNode(ref)
	}

	if cw.err != nil {
		return cw.offset, cw.err
	}

	if opts.WriteIndex {
		cw.writeString("\n")
		indexStart := cw.offset
		cw.writeString("(.index")
		var cum int64
		for _, e := range wr.registry {
			delta := e.offset - cum
			cum = e.offset
			tag := "x"
			if e.visibility == ast.Hidden {
				tag = "h"
			}
			cw.writeString(fmt.Sprintf("\n  (%s %s %s)", tag, escapeIdentBytes(e.symbol), formatSignedDecimal(delta)))
		}
		cw.writeString("\n)")

		if cw.err != nil {
			return cw.offset, cw.err
		}

		wa, ok := w.(io.WriterAt)
		if !ok {
			return cw.offset, &Error{Kind: NonSeekableSinkWithIndex, Msg: "an index was requested but the sink does not implement io.WriterAt"}
		}
		patch := formatSignedDecimal(indexStart)
		if len(patch) > IndexAtPad {
			return cw.offset, &Error{Kind: IndexPadInsufficient, Msg: fmt.Sprintf("offset %d needs %d bytes, pad is %d", indexStart, len(patch), IndexAtPad)}
		}
		padded := make([]byte, IndexAtPad)
		copy(padded, patch)
		for i := len(patch); i < IndexAtPad; i++ {
			padded[i] = ' '
		}
		if _, err := wa.WriteAt(padded, indexAtDigitsOffset); err != nil {
			return cw.offset, err
		}
	}

	return cw.offset, cw.err
}

func formatSignedDecimal(v int64) string {
	if v < 0 {
		return "-" + strconv.FormatInt(-v, 10)
	}
	return "+" + strconv.FormatInt(v, 10)
}

func (wr *writer) writeOtherDirectives(module *ast.Module) {
	var unusedNames, vendors, platforms, configs, others []ast.Directive
	for _, d := range module.Directives {
		switch d.Kind {
		case ast.DirectiveVersion, ast.DirectiveIndexAt:
			// handled by Write itself
		case ast.DirectiveUnusedName:
			unusedNames = append(unusedNames, d)
		case ast.DirectiveVendor:
			vendors = append(vendors, d)
		case ast.DirectivePlatform:
			platforms = append(platforms, d)
		case ast.DirectiveConfig:
			configs = append(configs, d)
		default:
			others = append(others, d)
		}
	}
	cw := wr.cw
	for _, d := range unusedNames {
		cw.writeString("\n(.unusedname ")
		cw.write(escapeIdentBytes(d.UnusedName))
		cw.writeString(")")
	}
	for _, d := range vendors {
		wr.writeOpaqueStringDirective(".vendor", d.StringArg)
	}
	for _, d := range platforms {
		wr.writeOpaqueStringDirective(".platform", d.StringArg)
	}
	for _, d := range configs {
		wr.writeOpaqueStringDirective(".config", d.StringArg)
	}
	for _, d := range others {
		wr.writeOtherDirective(d)
	}
}

func (wr *writer) writeOpaqueStringDirective(tag string, value []byte) {
	cw := wr.cw
	cw.writeString("\n(")
	cw.writeString(tag)
	cw.writeString(" \"")
	cw.write(escape.Encode(value, escape.StringOrChar, nil))
	cw.writeString("\")")
}

func (wr *writer) writeOtherDirective(d ast.Directive) {
	cw := wr.cw
	switch d.Kind {
	case ast.DirectiveLang, ast.DirectiveDialect:
		tag := ".lang"
		if d.Kind == ast.DirectiveDialect {
			tag = ".dialect"
		}
		cw.writeString("\n(")
		cw.writeString(tag)
		cw.writeString(" \"")
		cw.write(escape.Encode(d.LangName, escape.StringOrChar, nil))
		cw.writeString("\"")
		for _, ref := range d.LangBody {
			cw.writeString(" ")
			wr.writeNode(ref)
		}
		cw.writeString(")")
	case ast.DirectiveUnknown:
		cw.writeString("\n")
		wr.writeNode(d.Raw)
	}
}

func escapeIdentBytes(b []byte) []byte {
	return escape.Encode(b, escape.Identifier, nil)
}

// writeNode emits one node's prefix and body, recording a registry
// entry whenever a compound's first child is a global SymbolDef.
func (wr *writer) writeNode(ref ast.Ref) {
	cw := wr.cw
	node := wr.arena.Get(ref)
	writePrefix(cw, node.Prefix)

	if node.Kind != ast.KindCompound {
		writeAtom(cw, node)
		return
	}

	start := cw.offset
	if len(node.Children) > 0 {
		first := wr.arena.Get(node.Children[0])
		if first.Kind == ast.KindSymbolDef && ast.IsGlobalSymbol(first.Bytes) {
			wr.registry = append(wr.registry, indexEntry{
				visibility: wr.opts.visibilityOf(first.Bytes),
				symbol:     first.Bytes,
				offset:     start,
			})
		}
	}

	cw.writeByte('(')
	cw.write(node.Tag)
	for _, child := range node.Children {
		cw.writeByte(' ')
		wr.writeNode(child)
	}
	cw.writeByte(')')
}

func writeAtom(cw *countingWriter, node *ast.Node) {
	switch node.Kind {
	case ast.KindEmpty:
		cw.writeByte('.')
	case ast.KindIdentifier, ast.KindSymbol:
		cw.write(escapeIdentBytes(node.Bytes))
	case ast.KindSymbolDef:
		cw.writeByte(':')
		cw.write(escapeIdentBytes(node.Bytes))
	case ast.KindIntLit:
		writeNumber(cw, node.Num, false)
	case ast.KindUIntLit:
		writeNumber(cw, node.Num, false)
		cw.writeByte('u')
	case ast.KindFloatLit:
		writeNumber(cw, node.Num, true)
	case ast.KindCharLit:
		cw.writeByte('\'')
		if len(node.Bytes) == 1 {
			cw.write(escape.Encode(node.Bytes, escape.StringOrChar, nil))
		}
		cw.writeByte('\'')
	case ast.KindStringLit:
		cw.writeByte('"')
		cw.write(escape.Encode(node.Bytes, escape.StringOrChar, nil))
		cw.writeByte('"')
	}
}

func writeNumber(cw *countingWriter, num ast.Number, isFloat bool) {
	if num.Sign == ast.Negative {
		cw.writeByte('-')
	} else {
		cw.writeByte('+')
	}
	cw.write(num.Digits)
	if isFloat {
		if num.Frac != nil {
			cw.writeByte('.')
			cw.write(num.Frac)
		}
		if num.Exp != nil {
			cw.writeByte('E')
			cw.write(num.Exp)
		}
	}
}

func writePrefix(cw *countingWriter, p ast.Prefix) {
	if p.LineInfo.Kind != ast.LineInfoNone {
		writeSignedInt(cw, p.LineInfo.Col)
		if p.LineInfo.Kind == ast.LineInfoColLine || p.LineInfo.Kind == ast.LineInfoColLineFile {
			cw.writeByte(',')
			writeSignedInt(cw, p.LineInfo.Line)
		}
		if p.LineInfo.Kind == ast.LineInfoColLineFile {
			cw.writeByte(',')
			cw.write(escape.Encode(p.LineInfo.File, escape.LineInfoFile, nil))
		}
	}
	if p.HasComment {
		cw.writeByte('#')
		cw.write(escape.Encode(p.Comment, escape.Comment, nil))
		cw.writeByte('#')
	}
}

func writeSignedInt(cw *countingWriter, v int32) {
	if v < 0 {
		cw.writeByte('~')
		cw.writeString(strconv.FormatInt(int64(-v), 10))
		return
	}
	cw.writeString(strconv.FormatInt(int64(v), 10))
}
