package main

import (
	"os"

	"github.com/spf13/cobra"

	"nif/internal/nifindex"
	"nif/internal/nifvalidate"
)

var checkCmd = &cobra.Command{
	Use:   "check <file|dir>...",
	Short: "Recompute each file's index and report mismatches",
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
			for _, w := range res.Warnings {
				log.WithField("offset", w.Offset).Warn(w.String())
				printWarn("%s: %s", path, w.String())
			}

			mismatches := nifindex.Verify(res.Arena, res.Module, nil)
			for _, m := range mismatches {
				printErr("%s: index mismatch: %s", path, m.String())
				failed = true
			}

			verr := nifvalidate.Tree(res.Arena, res.Module)
			if verr != nil {
				printErr("%s: structural validation failed:\n%s", path, verr)
				failed = true
			}

			if len(mismatches) == 0 && verr == nil {
				printOK("%s: ok", path)
			}
		}
		if failed {
			os.Exit(1)
		}
	},
}
