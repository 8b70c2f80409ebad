package nifparse

import (
	"nif/internal/ast"
	"nif/internal/lex"
)

// parsePrefix consumes an optional {line-info, comment} prefix at the
// cursor. Either, both, or neither may be present; source order is
// always line-info then comment.
func (p *parser) parsePrefix() (ast.Prefix, error) {
	var prefix ast.Prefix
	p.r.SkipWhitespace()
	k := lex.Classify(p.r.Peek())
	if k == lex.KindLineInfo {
		li, err := p.scanLineInfo()
		if err != nil {
			return prefix, err
		}
		prefix.LineInfo = li
	}
	p.r.SkipWhitespace()
	if lex.Classify(p.r.Peek()) == lex.KindHash {
		comment, err := p.scanComment()
		if err != nil {
			return prefix, err
		}
		prefix.HasComment = true
		prefix.Comment = comment
	}
	return prefix, nil
}

// scanSignedInt parses one `~digits` or `digits` sub-token.
func (p *parser) scanSignedInt() (int32, error) {
	start := p.r.Offset()
	neg := false
	if p.r.Peek() == '~' {
		neg = true
		p.r.Advance(1)
	}
	digitsStart := p.r.Offset()
	var v int32
	for lex.IsDigit(byte(p.r.Peek())) {
		v = v*10 + int32(p.r.Peek()-'0')
		p.r.Advance(1)
	}
	if p.r.Offset() == digitsStart {
		return 0, &Error{Kind: BadLineInfo, Offset: start, Msg: "expected digits in line-info sub-token"}
	}
	if neg {
		v = -v
	}
	return v, nil
}

// scanLineInfo parses the `SignedInt (',' SignedInt (',' FileBytes)?)?`
// grammar, producing a Col, ColLine, or ColLineFile LineInfo.
func (p *parser) scanLineInfo() (ast.LineInfo, error) {
	var li ast.LineInfo
	var col int32
	if p.r.Peek() == ',' {
		// Col delta omitted (zero), leading straight into line delta.
		col = 0
	} else {
		v, err := p.scanSignedInt()
		if err != nil {
			return li, err
		}
		col = v
	}
	li.Kind = ast.LineInfoCol
	li.Col = col

	if p.r.Peek() != ',' {
		return li, nil
	}
	p.r.Advance(1) // consume ','
	line, err := p.scanSignedInt()
	if err != nil {
		return li, err
	}
	li.Kind = ast.LineInfoColLine
	li.Line = line

	if p.r.Peek() != ',' {
		return li, nil
	}
	p.r.Advance(1) // consume ','
	file, err := p.scanFileBytes()
	if err != nil {
		return li, err
	}
	li.Kind = ast.LineInfoColLineFile
	li.File = file
	return li, nil
}

// scanFileBytes scans the escaped filename sub-token of a ColLineFile
// line-info triple. The token is terminated by the start of the node
// it prefixes: whitespace, an opening '(', or a quote — whichever of
// those the writer chose to place immediately after it.
func (p *parser) scanFileBytes() ([]byte, error) {
	var out []byte
	for {
		b := p.r.Peek()
		if b == -1 || lex.IsWhitespace(byte(b)) || b == '(' || b == '"' || b == '\'' {
			break
		}
		if b == '\\' {
			decoded, _, err := p.scanEscapeHere()
			if err != nil {
				return nil, err
			}
			out = append(out, decoded)
			continue
		}
		out = append(out, byte(b))
		p.r.Advance(1)
	}
	return out, nil
}

// scanComment consumes `# ... #`, decoding escapes, stopping at the
// first unescaped '#'.
func (p *parser) scanComment() ([]byte, error) {
	start := p.r.Offset()
	p.r.Advance(1) // consume opening '#'
	var out []byte
	for {
		b := p.r.Peek()
		if b == -1 {
			return nil, &Error{Kind: UnterminatedComment, Offset: start, Msg: "comment not closed before end of input"}
		}
		if b == '#' {
			p.r.Advance(1)
			return out, nil
		}
		if b == '\\' {
			decoded, _, err := p.scanEscapeHere()
			if err != nil {
				return nil, err
			}
			out = append(out, decoded)
			continue
		}
		out = append(out, byte(b))
		p.r.Advance(1)
	}
}

// parseAtom scans and allocates one atom node, given its already-parsed
// prefix.
func (p *parser) parseAtom(prefix ast.Prefix) (ast.Ref, error) {
	offset := p.r.Offset()
	k := lex.Classify(p.r.Peek())
	switch k {
	case lex.KindClose:
		return 0, &Error{Kind: UnexpectedClose, Offset: offset, Msg: ") without matching ("}
	case lex.KindDot:
		p.r.Advance(1)
		return p.arena.NewEmpty(prefix), nil
	case lex.KindColon:
		p.r.Advance(1)
		kind, bytes, err := p.scanIdentOrSymbol()
		if err != nil {
			return 0, err
		}
		if kind != lex.KindIdentOrSym || ast.DotCount(bytes) == 0 {
			return 0, &Error{Kind: MalformedSymbol, Offset: offset, Msg: "SymbolDef prefix ':' must be followed by a Symbol"}
		}
		if err := validateSymbolShape(bytes, offset); err != nil {
			return 0, err
		}
		return p.arena.NewSymbolDef(prefix, bytes), nil
	case lex.KindNumber:
		return p.parseNumber(prefix, offset)
	case lex.KindChar:
		return p.parseChar(prefix, offset)
	case lex.KindString:
		return p.parseString(prefix, offset)
	case lex.KindHash:
		return 0, &Error{Kind: UnterminatedComment, Offset: offset, Msg: "unexpected '#' where an atom was expected"}
	case lex.KindLineInfo:
		return 0, &Error{Kind: BadLineInfo, Offset: offset, Msg: "unexpected line-info byte where an atom was expected"}
	default:
		_, bytes, err := p.scanIdentOrSymbol()
		if err != nil {
			return 0, err
		}
		if ast.DotCount(bytes) == 0 {
			return p.arena.NewIdentifier(prefix, bytes), nil
		}
		if err := validateSymbolShape(bytes, offset); err != nil {
			return 0, err
		}
		return p.arena.NewSymbol(prefix, bytes), nil
	}
}

// validateSymbolShape enforces invariant 1 (at least one dot, no
// leading dot) and the local-symbol digit-tail rule, deferring the
// check entirely for a trailing-dot symbol since its final shape is
// only known after module-suffix expansion.
func validateSymbolShape(bytes []byte, offset int) error {
	if len(bytes) == 0 || bytes[0] == '.' {
		return &Error{Kind: MalformedSymbol, Offset: offset, Msg: "a Symbol must not begin with a dot"}
	}
	if ast.HasTrailingDot(bytes) {
		return nil
	}
	if ast.DotCount(bytes) == 1 && !ast.IsLocalSymbol(bytes) {
		return &Error{Kind: MalformedSymbol, Offset: offset, Msg: "a single-dot Symbol requires an all-digit tail"}
	}
	return nil
}

// scanIdentOrSymbol scans `IdentStart IdentChar*` and, if a '.'
// immediately follows, continues consuming `(IdentChar|.)*`, returning
// the decoded bytes. The returned lex.Kind is always KindIdentOrSym;
// callers distinguish Identifier from Symbol by dot count.
func (p *parser) scanIdentOrSymbol() (lex.Kind, []byte, error) {
	var buf []byte
	first := true
	for {
		b := p.r.Peek()
		if b == -1 {
			break
		}
		if b == '\\' {
			decoded, _, err := p.scanEscapeHere()
			if err != nil {
				return 0, nil, err
			}
			ok := lex.IsIdentStart(decoded)
			if !first {
				ok = lex.IsIdentChar(decoded) || decoded == '.'
			}
			if !ok {
				return 0, nil, &Error{Kind: BadEscape, Offset: p.r.Offset(), Msg: "escape decodes to a byte invalid here"}
			}
			buf = append(buf, decoded)
			first = false
			continue
		}
		raw := byte(b)
		if first {
			if !lex.IsIdentStart(raw) {
				break
			}
		} else {
			if !(lex.IsIdentChar(raw) || raw == '.') {
				break
			}
		}
		buf = append(buf, raw)
		p.r.Advance(1)
		first = false
	}
	return lex.KindIdentOrSym, buf, nil
}

// parseNumber scans the `('+'|'-') digits ('.' digits)? ('E' ('+'|'-')?
// digits)? 'u'?` family, producing IntLit, UIntLit, or FloatLit.
func (p *parser) parseNumber(prefix ast.Prefix, offset int) (ast.Ref, error) {
	sign := ast.Positive
	if p.r.Peek() == '-' {
		sign = ast.Negative
	}
	p.r.Advance(1)

	digitsStart := p.r.Offset()
	for lex.IsDigit(byte(p.r.Peek())) {
		p.r.Advance(1)
	}
	digits := p.r.Slice(digitsStart, p.r.Offset())
	if len(digits) == 0 {
		return 0, &Error{Kind: BadNumber, Offset: offset, Msg: "expected digits after sign"}
	}

	num := ast.Number{Sign: sign, Digits: append([]byte(nil), digits...)}

	isFloat := false
	if p.r.Peek() == '.' {
		isFloat = true
		p.r.Advance(1)
		fracStart := p.r.Offset()
		for lex.IsDigit(byte(p.r.Peek())) {
			p.r.Advance(1)
		}
		num.Frac = append([]byte(nil), p.r.Slice(fracStart, p.r.Offset())...)
		if num.Frac == nil {
			num.Frac = []byte{}
		}
	}
	if p.r.Peek() == 'E' || p.r.Peek() == 'e' {
		isFloat = true
		p.r.Advance(1)
		expStart := p.r.Offset()
		if p.r.Peek() == '+' || p.r.Peek() == '-' {
			p.r.Advance(1)
		}
		for lex.IsDigit(byte(p.r.Peek())) {
			p.r.Advance(1)
		}
		num.Exp = append([]byte(nil), p.r.Slice(expStart, p.r.Offset())...)
		if num.Exp == nil {
			num.Exp = []byte{}
		}
	}

	if isFloat {
		return p.arena.NewFloatLit(prefix, num), nil
	}
	if p.r.Peek() == 'u' {
		p.r.Advance(1)
		return p.arena.NewUIntLit(prefix, num), nil
	}
	return p.arena.NewIntLit(prefix, num), nil
}

func (p *parser) parseChar(prefix ast.Prefix, offset int) (ast.Ref, error) {
	p.r.Advance(1) // consume opening '\''
	var b byte
	if p.r.Peek() == '\\' {
		decoded, _, err := p.scanEscapeHere()
		if err != nil {
			return 0, err
		}
		b = decoded
	} else if p.r.Peek() == -1 {
		return 0, &Error{Kind: UnterminatedChar, Offset: offset, Msg: "char literal not closed before end of input"}
	} else {
		b = byte(p.r.Peek())
		p.r.Advance(1)
	}
	if p.r.Peek() != '\'' {
		return 0, &Error{Kind: UnterminatedChar, Offset: offset, Msg: "expected closing '"}
	}
	p.r.Advance(1)
	return p.arena.NewCharLit(prefix, b), nil
}

func (p *parser) parseString(prefix ast.Prefix, offset int) (ast.Ref, error) {
	p.r.Advance(1) // consume opening '"'
	var out []byte
	for {
		b := p.r.Peek()
		if b == -1 {
			return 0, &Error{Kind: UnterminatedString, Offset: offset, Msg: "string literal not closed before end of input"}
		}
		if b == '"' {
			p.r.Advance(1)
			return p.arena.NewStringLit(prefix, out), nil
		}
		if b == '\\' {
			decoded, _, err := p.scanEscapeHere()
			if err != nil {
				return 0, err
			}
			out = append(out, decoded)
			continue
		}
		out = append(out, byte(b))
		p.r.Advance(1)
	}
}
