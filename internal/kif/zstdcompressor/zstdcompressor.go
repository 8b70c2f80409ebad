// Package zstdcompressor adapts github.com/klauspost/compress/zstd to
// the kif.Compressor contract: the one concrete compressor
// `nifindex write --kif` ships with.
package zstdcompressor

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Compressor is a kif.Compressor backed by zstd at the given level.
// A zero Level uses zstd's default encoder level.
type Compressor struct {
	Level zstd.EncoderLevel
}

// New returns a Compressor at zstd's default level.
func New() *Compressor {
	return &Compressor{Level: zstd.SpeedDefault}
}

func (c *Compressor) Name() string { return "zstd" }

func (c *Compressor) Compress(dst io.Writer, src []byte) error {
	level := c.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(level))
	if err != nil {
		return fmt.Errorf("zstdcompressor: new encoder: %w", err)
	}
	if _, err := enc.Write(src); err != nil {
		enc.Close()
		return fmt.Errorf("zstdcompressor: write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstdcompressor: close: %w", err)
	}
	return nil
}

func (c *Compressor) Decompress(dst io.Writer, src []byte) error {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("zstdcompressor: new decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(src, nil)
	if err != nil {
		return fmt.Errorf("zstdcompressor: decode: %w", err)
	}
	if _, err := dst.Write(out); err != nil {
		return fmt.Errorf("zstdcompressor: write decoded: %w", err)
	}
	return nil
}
