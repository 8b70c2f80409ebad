package ast

// Version identifies which magic cookie a module was parsed from (or
// should be written with). The writer only ever emits Version2026.
type Version int

const (
	Version2026 Version = 26
	Version2024 Version = 24 // accepted on read only, back-compat
)

// DirectiveKind discriminates the recognized directive set plus the
// catch-all Unknown arm that preserves forward compatibility for
// directives this library does not interpret.
type DirectiveKind uint8

const (
	DirectiveVersion DirectiveKind = iota
	DirectiveIndexAt
	DirectiveUnusedName
	DirectiveVendor
	DirectivePlatform
	DirectiveConfig
	DirectiveLang
	DirectiveDialect
	DirectiveUnknown
)

// Directive is a tagged variant over the recognized directive set. Only
// the fields relevant to Kind are populated; Unknown carries the raw
// compound node verbatim so it can be re-emitted byte-for-byte.
type Directive struct {
	Kind DirectiveKind

	// DirectiveVersion
	Version Version

	// DirectiveIndexAt
	IndexAtOffset int64
	// SpanStart/SpanEnd record the source byte span of the entire
	// .indexat directive (including trailing pad) so a writer can
	// later patch it in place without reparsing.
	SpanStart int
	SpanEnd   int

	// DirectiveUnusedName
	UnusedName []byte

	// DirectiveVendor / DirectivePlatform / DirectiveConfig
	StringArg []byte

	// DirectiveLang / DirectiveDialect
	LangName []byte
	LangBody []Ref

	// DirectiveUnknown
	Raw Ref
}

// Visibility is an index entry's exported/hidden marker.
type Visibility uint8

const (
	Exported Visibility = iota
	Hidden
)

func (v Visibility) WireByte() byte {
	if v == Hidden {
		return 'h'
	}
	return 'x'
}

// IndexEntry is one decoded (visibility, symbol, absolute offset)
// triple. On disk each entry's offset is diff-encoded from the
// previous entry's; in memory it is always absolute.
type IndexEntry struct {
	Visibility Visibility
	Symbol     []byte
	Offset     int64
}

// Index is the trailing, optional `.index` structure: the ordered list
// of exportable-symbol offsets.
type Index struct {
	Entries []IndexEntry
}

// Module is the root of a parsed NIF file: directives, then body
// nodes, then an optional index.
type Module struct {
	Directives []Directive
	Body       []Ref
	Index      *Index

	// ModuleSuffix is the leading dot-separated component of the
	// source filename stem, used for trailing-dot Symbol expansion. It
	// is empty when the module was parsed from bytes with no filename
	// and no caller-supplied suffix.
	ModuleSuffix string
}
