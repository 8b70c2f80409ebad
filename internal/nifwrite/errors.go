package nifwrite

import "fmt"

// Kind enumerates the writer's own typed failure modes.
type Kind int

const (
	IndexPadInsufficient Kind = iota
	NonSeekableSinkWithIndex
)

func (k Kind) String() string {
	switch k {
	case IndexPadInsufficient:
		return "IndexPadInsufficient"
	case NonSeekableSinkWithIndex:
		return "NonSeekableSinkWithIndex"
	default:
		return "Unknown"
	}
}

// Error is the writer's typed failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("nif: %s: %s", e.Kind, e.Msg)
}
