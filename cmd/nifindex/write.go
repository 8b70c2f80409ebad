package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"nif/internal/kif/zstdcompressor"
	"nif/internal/nifvalidate"
	"nif/internal/nifwrite"
)

var (
	writeNoIndex bool
	writeKif     bool
)

var writeCmd = &cobra.Command{
	Use:   "write <file|dir>...",
	Short: "Rewrite each file with a freshly computed index, patching .indexat in place",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		targets, err := resolveTargets(args)
		if err != nil {
			printErr("%v", err)
			os.Exit(1)
		}
		failed := false
		for _, path := range targets {
			log := cli.log.WithField("file", path)
			res, _, err := parseFile(path, cli.strict)
			if err != nil {
				log.WithError(err).Error("parse failed")
				printErr("%s: %v", path, err)
				failed = true
				continue
			}
			if err := nifvalidate.Tree(res.Arena, res.Module); err != nil {
				printErr("%s: refusing to write, structural validation failed:\n%s", path, err)
				failed = true
				continue
			}

			f, err := cli.fs.OpenFile(path, os.O_RDWR|os.O_TRUNC, 0o644)
			if err != nil {
				printErr("%s: %v", path, err)
				failed = true
				continue
			}
			_, err = nifwrite.Write(res.Arena, res.Module, f, nifwrite.Options{WriteIndex: !writeNoIndex})
			closeErr := f.Close()
			if err != nil {
				printErr("%s: write failed: %v", path, err)
				failed = true
				continue
			}
			if closeErr != nil {
				printErr("%s: %v", path, closeErr)
				failed = true
				continue
			}

			if writeKif {
				if err := writeKifSidecar(path); err != nil {
					printWarn("%s: kif sidecar failed: %v", path, err)
				}
			}

			log.Info("wrote fresh index")
			printOK("%s: written", path)
		}
		if failed {
			os.Exit(1)
		}
	},
}

// writeKifSidecar demonstrates the kif.Compressor seam: it compresses
// the just-written file's bytes and stores them alongside it as
// <path>.zstd (the compressor's Name as extension). No KIF container format is defined; this only exercises
// the compression contract end to end.
func writeKifSidecar(path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	c := zstdcompressor.New()
	var buf bytes.Buffer
	if err := c.Compress(&buf, data); err != nil {
		return err
	}
	return writeFile(path+"."+c.Name(), buf.Bytes())
}

func writeFile(path string, data []byte) error {
	f, err := cli.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

func init() {
	writeCmd.Flags().BoolVar(&writeNoIndex, "no-index", false, "write the file without a trailing .index")
	writeCmd.Flags().BoolVar(&writeKif, "kif", false, "also write a zstd-compressed sidecar demonstrating the kif.Compressor seam")
}
