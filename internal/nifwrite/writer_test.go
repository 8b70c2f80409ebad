package nifwrite

import (
	"errors"
	"testing"

	"nif/internal/ast"
	"nif/internal/nifparse"
)

// seekableBuffer is a minimal io.Writer + io.WriterAt over a growable
// byte slice, standing in for an *os.File in these tests.
type seekableBuffer struct {
	buf []byte
	off int64
}

func (s *seekableBuffer) Write(p []byte) (int, error) {
	n, err := s.WriteAt(p, s.off)
	s.off += int64(n)
	return n, err
}

func (s *seekableBuffer) WriteAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > int64(len(s.buf)) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[off:end], p)
	return len(p), nil
}

func TestWriteRoundTrip(t *testing.T) {
	src := []byte(`(.nif26)(stmts (call print "hello world"))`)
	res, err := nifparse.Parse(src, nifparse.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf seekableBuffer
	if _, err := Write(res.Arena, res.Module, &buf, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	res2, err := nifparse.Parse(buf.buf, nifparse.Options{})
	if err != nil {
		t.Fatalf("re-parse of written output failed: %v\noutput:\n%s", err, buf.buf)
	}
	if len(res2.Module.Body) != 1 {
		t.Fatalf("expected one body form after round trip")
	}
	root := res2.Arena.Get(res2.Module.Body[0])
	if string(root.Tag) != "stmts" {
		t.Fatalf("unexpected round-tripped tag %q", root.Tag)
	}
}

func TestWriteIndexRoundTrip(t *testing.T) {
	src := []byte(`(.nif26)(proc :foo.0.mod (x)) (proc :bar.0.mod (y))`)
	res, err := nifparse.Parse(src, nifparse.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf seekableBuffer
	if _, err := Write(res.Arena, res.Module, &buf, Options{WriteIndex: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	res2, err := nifparse.Parse(buf.buf, nifparse.Options{})
	if err != nil {
		t.Fatalf("re-parse of indexed output failed: %v\noutput:\n%s", err, buf.buf)
	}
	if res2.Module.Index == nil || len(res2.Module.Index.Entries) != 2 {
		t.Fatalf("expected two index entries, got %+v", res2.Module.Index)
	}
	if len(res2.Warnings) != 0 {
		t.Fatalf("unexpected warnings on self-written index: %+v", res2.Warnings)
	}
	names := []string{string(res2.Module.Index.Entries[0].Symbol), string(res2.Module.Index.Entries[1].Symbol)}
	if names[0] != "foo.0.mod" || names[1] != "bar.0.mod" {
		t.Fatalf("unexpected index symbols: %v", names)
	}
}

func TestWriteIndexRequiresWriterAt(t *testing.T) {
	src := []byte(`(.nif26)(proc :foo.0.mod (x))`)
	res, err := nifparse.Parse(src, nifparse.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Write(res.Arena, res.Module, nonSeekableWriter{}, Options{WriteIndex: true})
	var werr *Error
	if !errors.As(err, &werr) || werr.Kind != NonSeekableSinkWithIndex {
		t.Fatalf("expected NonSeekableSinkWithIndex, got %v", err)
	}
}

type nonSeekableWriter struct{}

func (nonSeekableWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestWriteHiddenVisibility(t *testing.T) {
	src := []byte(`(.nif26)(proc :foo.0.mod (x))`)
	res, err := nifparse.Parse(src, nifparse.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf seekableBuffer
	opts := Options{WriteIndex: true, Visibility: func(symbol []byte) ast.Visibility {
		return ast.Hidden
	}}
	if _, err := Write(res.Arena, res.Module, &buf, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	res2, err := nifparse.Parse(buf.buf, nifparse.Options{})
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if res2.Module.Index.Entries[0].Visibility != ast.Hidden {
		t.Fatalf("expected Hidden visibility to round trip")
	}
}
