// Package nifdiff renders unified diffs between two byte streams,
// using github.com/pmezard/go-difflib/difflib for the line-level
// algorithm: for showing where write(parse(b)) diverges from b, or how
// an on-disk `.index` differs from a freshly recomputed one. No other
// package in this module calls it; neither `nifindex check` nor the
// round-trip tests render diffs.
package nifdiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Options controls patch generation.
type Options struct {
	// MaxBytes guards against diffing pathologically large inputs; 0
	// means no limit. When exceeded, a placeholder is returned instead
	// of a full hunk set.
	MaxBytes int
	// Context is the number of context lines in unified hunks; 0
	// defaults to 3.
	Context int
}

// Bytes renders a unified diff between a (named aName) and b (named
// bName). Both are split on line boundaries, keeping the trailing
// newline, so a file missing a final newline still diffs cleanly.
func Bytes(aName string, a []byte, bName string, b []byte, opt Options) string {
	if opt.MaxBytes > 0 && len(a)+len(b) > opt.MaxBytes {
		return omitted(aName, bName)
	}
	ctx := opt.Context
	if ctx <= 0 {
		ctx = 3
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(a)),
		B:        splitLinesKeepNL(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return omitted(aName, bName)
	}
	return s
}

// Lines renders a unified diff between two pre-split line slices, such
// as rendered `(x sym +N)` index-entry lines rather than raw file
// bytes.
func Lines(aName string, a []string, bName string, b []string, opt Options) string {
	ctx := opt.Context
	if ctx <= 0 {
		ctx = 3
	}
	u := difflib.UnifiedDiff{A: a, B: b, FromFile: aName, ToFile: bName, Context: ctx}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return omitted(aName, bName)
	}
	return s
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return nil
	}
	return strings.SplitAfter(s, "\n")
}

func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}
