// Package nifparse implements the NIF recursive-descent parser: magic
// cookie and directive recognition, body parsing, symbol
// classification and trailing-dot expansion, and the trailing `.index`
// structure.
package nifparse

import (
	"path/filepath"
	"strconv"
	"strings"

	"nif/internal/ast"
	"nif/internal/bytesrc"
	"nif/internal/escape"
	"nif/internal/lex"
)

// Options configures a single Parse call.
type Options struct {
	// Filename, if set, is used to derive ModuleSuffix (the leading
	// dot-separated stem component) when Suffix is not set explicitly.
	Filename string
	// Suffix overrides the module suffix used for trailing-dot Symbol
	// expansion. Takes precedence over Filename.
	Suffix string
	// Strict turns IndexOffsetMismatch and UnsupportedDirective into
	// fatal errors instead of warnings.
	Strict bool
}

// Result bundles everything one Parse call produces.
type Result struct {
	Arena    *ast.Arena
	Module   *ast.Module
	Warnings []Warning
}

// Parse parses a complete NIF module from data.
func Parse(data []byte, opts Options) (*Result, error) {
	p := &parser{
		r:                    bytesrc.New(data),
		arena:                ast.NewArena(),
		opts:                 opts,
		module:               &ast.Module{},
		indexDirectiveOffset: -1,
	}
	p.module.ModuleSuffix = deriveSuffix(opts)

	version, n, ok := readVersionCookie(data)
	if !ok {
		return nil, &Error{Kind: UnrecognizedVersion, Offset: 0, Msg: "missing or unrecognized magic cookie"}
	}
	p.r.Advance(n)
	p.module.Directives = append(p.module.Directives, ast.Directive{
		Kind:    ast.DirectiveVersion,
		Version: ast.Version(version),
	})

	if err := p.parseTopLevel(); err != nil {
		return nil, err
	}
	if err := p.resolveSymbols(); err != nil {
		return nil, err
	}
	if err := p.crossCheckIndexAt(); err != nil {
		return nil, err
	}

	return &Result{Arena: p.arena, Module: p.module, Warnings: p.warnings}, nil
}

func deriveSuffix(opts Options) string {
	if opts.Suffix != "" {
		return opts.Suffix
	}
	if opts.Filename == "" {
		return ""
	}
	base := filepath.Base(opts.Filename)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

type parser struct {
	r        *bytesrc.Reader
	arena    *ast.Arena
	opts     Options
	module   *ast.Module
	warnings []Warning
	langStack []string

	indexDirectiveOffset int
}

func (p *parser) warn(k Kind, offset int, msg string) {
	p.warnings = append(p.warnings, Warning{Kind: k, Offset: offset, Msg: msg})
}

// parseTopLevel drives directive recognition, body parsing, and the
// optional trailing index, in whichever order they appear.
func (p *parser) parseTopLevel() error {
	for {
		p.r.SkipWhitespace()
		if p.r.AtEnd() {
			return nil
		}
		b := p.r.Peek()
		if b != '(' {
			// A bare atom (or a malformed prefix) at top level is
			// treated as body content.
			ref, err := p.parseNode()
			if err != nil {
				return err
			}
			p.module.Body = append(p.module.Body, ref)
			continue
		}
		// Look ahead past '(' to see whether this is a directive tag
		// (leading '.') or ordinary body compound.
		next := p.r.PeekAt(1)
		if next != '.' {
			ref, err := p.parseNode()
			if err != nil {
				return err
			}
			p.module.Body = append(p.module.Body, ref)
			continue
		}
		start := p.r.Offset()
		ref, tag, err := p.parseCompoundRaw()
		if err != nil {
			return err
		}
		if string(tag) == ".index" {
			p.indexDirectiveOffset = start
			if err := p.parseIndexBody(ref); err != nil {
				return err
			}
			continue
		}
		if err := p.convertDirective(start, tag, ref); err != nil {
			return err
		}
	}
}

// convertDirective turns an already-parsed compound whose tag begins
// with '.' into an ast.Directive and appends it to the module.
func (p *parser) convertDirective(start int, tag []byte, ref ast.Ref) error {
	node := p.arena.Get(ref)
	switch string(tag) {
	case ".indexat":
		if len(node.Children) != 1 {
			return &Error{Kind: BadNumber, Offset: start, Msg: ".indexat requires exactly one offset child"}
		}
		child := p.arena.Get(node.Children[0])
		offset, err := numberValue(child)
		if err != nil {
			return &Error{Kind: BadNumber, Offset: start, Msg: "malformed .indexat offset", Cause: err}
		}
		p.module.Directives = append(p.module.Directives, ast.Directive{
			Kind:          ast.DirectiveIndexAt,
			IndexAtOffset: offset,
			SpanStart:     start,
			SpanEnd:       p.r.Offset(),
		})
	case ".unusedname":
		var name []byte
		if len(node.Children) == 1 {
			name = p.arena.Get(node.Children[0]).Bytes
		}
		p.module.Directives = append(p.module.Directives, ast.Directive{Kind: ast.DirectiveUnusedName, UnusedName: name})
	case ".vendor":
		p.module.Directives = append(p.module.Directives, ast.Directive{Kind: ast.DirectiveVendor, StringArg: firstChildBytes(p.arena, node)})
	case ".platform":
		p.module.Directives = append(p.module.Directives, ast.Directive{Kind: ast.DirectivePlatform, StringArg: firstChildBytes(p.arena, node)})
	case ".config":
		p.module.Directives = append(p.module.Directives, ast.Directive{Kind: ast.DirectiveConfig, StringArg: firstChildBytes(p.arena, node)})
	case ".lang", ".dialect":
		kind := ast.DirectiveLang
		if string(tag) == ".dialect" {
			kind = ast.DirectiveDialect
		}
		var name []byte
		var body []ast.Ref
		if len(node.Children) > 0 {
			name = p.arena.Get(node.Children[0]).Bytes
			body = node.Children[1:]
		}
		p.module.Directives = append(p.module.Directives, ast.Directive{Kind: kind, LangName: name, LangBody: body})
	default:
		if p.opts.Strict {
			return &Error{Kind: UnsupportedDirective, Offset: start, Msg: "unrecognized directive " + string(tag)}
		}
		p.warn(UnsupportedDirective, start, "unrecognized directive "+string(tag)+" preserved opaquely")
		p.module.Directives = append(p.module.Directives, ast.Directive{Kind: ast.DirectiveUnknown, Raw: ref})
	}
	return nil
}

func firstChildBytes(a *ast.Arena, n *ast.Node) []byte {
	if len(n.Children) == 0 {
		return nil
	}
	return a.Get(n.Children[0]).Bytes
}

func numberValue(n *ast.Node) (int64, error) {
	if n.Kind != ast.KindIntLit && n.Kind != ast.KindUIntLit {
		return 0, &Error{Kind: BadNumber, Msg: "expected an integer atom"}
	}
	v, err := strconv.ParseInt(string(n.Num.Digits), 10, 64)
	if err != nil {
		return 0, err
	}
	if n.Num.Sign == ast.Negative {
		v = -v
	}
	return v, nil
}

// parseIndexBody parses the children of an already-opened `.index`
// compound into the module's Index, reconstructing absolute offsets by
// cumulative sum.
func (p *parser) parseIndexBody(ref ast.Ref) error {
	node := p.arena.Get(ref)
	idx := &ast.Index{}
	var cum int64
	for _, childRef := range node.Children {
		child := p.arena.Get(childRef)
		if child.Kind != ast.KindCompound || len(child.Children) != 2 {
			return &Error{Kind: BadNumber, Offset: child.Offset, Msg: "malformed .index entry"}
		}
		var vis ast.Visibility
		switch string(child.Tag) {
		case "x":
			vis = ast.Exported
		case "h":
			vis = ast.Hidden
		default:
			return &Error{Kind: BadNumber, Offset: child.Offset, Msg: "index entry tag must be x or h"}
		}
		symNode := p.arena.Get(child.Children[0])
		deltaNode := p.arena.Get(child.Children[1])
		delta, err := numberValue(deltaNode)
		if err != nil {
			return &Error{Kind: BadNumber, Offset: deltaNode.Offset, Msg: "malformed index offset delta", Cause: err}
		}
		cum += delta
		idx.Entries = append(idx.Entries, ast.IndexEntry{
			Visibility: vis,
			Symbol:     symNode.Bytes,
			Offset:     cum,
		})
	}
	p.module.Index = idx
	return nil
}

// crossCheckIndexAt verifies that a seen .indexat offset equals the
// byte position where the .index directive itself began, if both are
// present.
func (p *parser) crossCheckIndexAt() error {
	var indexAt *ast.Directive
	for i := range p.module.Directives {
		if p.module.Directives[i].Kind == ast.DirectiveIndexAt {
			indexAt = &p.module.Directives[i]
			break
		}
	}
	if indexAt == nil || p.module.Index == nil || p.indexDirectiveOffset < 0 {
		return nil
	}
	if indexAt.IndexAtOffset != int64(p.indexDirectiveOffset) {
		msg := "indexat offset does not match the actual start of .index"
		if p.opts.Strict {
			return &Error{Kind: IndexOffsetMismatch, Offset: indexAt.SpanStart, Msg: msg}
		}
		p.warn(IndexOffsetMismatch, indexAt.SpanStart, msg)
	}
	return nil
}

// parseNode parses an optional prefix followed by one compound-or-atom
// node, stamping it with offset and the active lang scope.
func (p *parser) parseNode() (ast.Ref, error) {
	prefix, err := p.parsePrefix()
	if err != nil {
		return 0, err
	}
	prefix = normalizeLegacyPrefix(prefix)

	p.r.SkipWhitespace()
	offset := p.r.Offset()
	var ref ast.Ref
	if p.r.Peek() == '(' {
		ref, _, err = p.parseCompoundWithPrefix(prefix)
	} else {
		ref, err = p.parseAtom(prefix)
	}
	if err != nil {
		return 0, err
	}
	node := p.arena.Get(ref)
	node.Offset = offset
	p.stampLangScope(ref)
	return ref, nil
}

func (p *parser) stampLangScope(ref ast.Ref) {
	if len(p.langStack) == 0 {
		return
	}
	scope := make([]string, len(p.langStack))
	copy(scope, p.langStack)
	p.arena.SetLangScope(ref, scope)
}

// parseCompoundRaw parses a compound with no prefix (used for
// top-level directive/index recognition, which never carry a prefix)
// and also returns its tag.
func (p *parser) parseCompoundRaw() (ast.Ref, []byte, error) {
	return p.parseCompoundWithPrefix(ast.Prefix{})
}

func (p *parser) parseCompoundWithPrefix(prefix ast.Prefix) (ast.Ref, []byte, error) {
	start := p.r.Offset()
	p.r.Advance(1) // consume '('
	tag, err := p.scanTag()
	if err != nil {
		return 0, nil, err
	}
	isLang := string(tag) == ".lang" || string(tag) == ".dialect"

	var children []ast.Ref
	first := true
	for {
		p.r.SkipWhitespace()
		switch p.r.Peek() {
		case -1:
			return 0, nil, &Error{Kind: UnterminatedCompound, Offset: start, Msg: "reached end of input with open ("}
		case ')':
			p.r.Advance(1)
			ref := p.arena.NewCompound(prefix, tag, children)
			node := p.arena.Get(ref)
			node.Offset = start
			p.stampLangScope(ref)
			if isLang {
				p.popLang()
			}
			return ref, tag, nil
		}
		if isLang && first {
			ref, err := p.parseNode()
			if err != nil {
				return 0, nil, err
			}
			children = append(children, ref)
			name := p.arena.Get(ref).Bytes
			p.pushLang(string(name))
			first = false
			continue
		}
		ref, err := p.parseNode()
		if err != nil {
			return 0, nil, err
		}
		children = append(children, ref)
		first = false
	}
}

func (p *parser) pushLang(name string) { p.langStack = append(p.langStack, name) }
func (p *parser) popLang() {
	if len(p.langStack) > 0 {
		p.langStack = p.langStack[:len(p.langStack)-1]
	}
}

// scanTag scans a compound's tag identifier: either a directive tag
// (leading '.') or an ordinary identifier.
func (p *parser) scanTag() ([]byte, error) {
	start := p.r.Offset()
	var buf []byte
	if p.r.Peek() == '.' {
		buf = append(buf, '.')
		p.r.Advance(1)
	}
	if !lex.IsIdentStart(byte(p.r.Peek())) {
		if len(buf) == 0 {
			return nil, &Error{Kind: UnterminatedCompound, Offset: start, Msg: "expected a tag identifier"}
		}
	}
	for {
		b := p.r.Peek()
		if b == -1 {
			break
		}
		if b == '\\' {
			decoded, consumed, err := p.scanEscapeHere()
			if err != nil {
				return nil, err
			}
			if !lex.IsIdentChar(decoded) && len(buf) > 0 {
				p.r.Advance(-consumed)
				break
			}
			buf = append(buf, decoded)
			continue
		}
		if lex.IsIdentChar(byte(b)) {
			buf = append(buf, byte(b))
			p.r.Advance(1)
			continue
		}
		break
	}
	return buf, nil
}

// scanEscapeHere decodes one \HH escape at the cursor and advances past
// it, returning the decoded byte.
func (p *parser) scanEscapeHere() (byte, int, error) {
	offset := p.r.Offset()
	raw := p.r.Slice(offset, min(offset+3, p.r.Len()))
	b, n, err := escape.DecodeOne(raw)
	if err != nil {
		return 0, 0, &Error{Kind: BadEscape, Offset: offset, Msg: "malformed \\HH escape", Cause: err}
	}
	p.r.Advance(n)
	return b, n, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
