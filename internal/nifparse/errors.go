package nifparse

import "fmt"

// Kind enumerates the parser's typed error and warning conditions, as
// specified for the format's error handling design.
type Kind int

const (
	UnrecognizedVersion Kind = iota
	UnterminatedCompound
	UnexpectedClose
	BadEscape
	BadNumber
	BadLineInfo
	MalformedSymbol
	UnterminatedString
	UnterminatedChar
	UnterminatedComment
	IndexOffsetMismatch
	TrailingDotWithoutSuffix
	UnsupportedDirective
)

func (k Kind) String() string {
	switch k {
	case UnrecognizedVersion:
		return "UnrecognizedVersion"
	case UnterminatedCompound:
		return "UnterminatedCompound"
	case UnexpectedClose:
		return "UnexpectedClose"
	case BadEscape:
		return "BadEscape"
	case BadNumber:
		return "BadNumber"
	case BadLineInfo:
		return "BadLineInfo"
	case MalformedSymbol:
		return "MalformedSymbol"
	case UnterminatedString:
		return "UnterminatedString"
	case UnterminatedChar:
		return "UnterminatedChar"
	case UnterminatedComment:
		return "UnterminatedComment"
	case IndexOffsetMismatch:
		return "IndexOffsetMismatch"
	case TrailingDotWithoutSuffix:
		return "TrailingDotWithoutSuffix"
	case UnsupportedDirective:
		return "UnsupportedDirective"
	default:
		return "Unknown"
	}
}

// Error is the parser's typed failure. Every error carries the byte
// offset at which it was detected; lexer/parser errors are fatal to
// the current parse, so the caller never receives a partial tree
// alongside an Error.
type Error struct {
	Kind   Kind
	Offset int
	Msg    string
	Cause  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("nif: %s at offset %d: %s", e.Kind, e.Offset, e.Msg)
	}
	return fmt.Sprintf("nif: %s at offset %d", e.Kind, e.Offset)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is implements errors.Is against a bare Kind sentinel wrapped in an
// *Error, so callers can write
// errors.Is(err, nifparse.Sentinel(nifparse.MalformedSymbol)), or more
// simply compare (*Error).Kind after errors.As.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinel returns an *Error carrying only a Kind, usable as the
// target of errors.Is(err, nifparse.Sentinel(nifparse.BadEscape)).
func Sentinel(k Kind) *Error { return &Error{Kind: k} }

// Warning is a recoverable condition: the parse still produces a tree,
// but the caller should be told. IndexOffsetMismatch outside strict
// mode and UnsupportedDirective outside strict mode are the two kinds
// that can surface as warnings instead of fatal errors.
type Warning struct {
	Kind   Kind
	Offset int
	Msg    string
}

func (w Warning) String() string {
	return fmt.Sprintf("nif: warning: %s at offset %d: %s", w.Kind, w.Offset, w.Msg)
}
