package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// state bundles what every subcommand needs: a filesystem (so tests
// can swap in afero.NewMemMapFs()), a logger, and the strict flag.
type state struct {
	fs     afero.Fs
	log    *logrus.Logger
	strict bool
}

var cli = &state{
	fs:  afero.NewOsFs(),
	log: logrus.New(),
}

var rootCmd = &cobra.Command{
	Use:           "nifindex",
	Short:         "Check, write, encode, and inspect NIF interchange files",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			cli.log.SetLevel(logrus.DebugLevel)
		}
	},
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&cli.strict, "strict", false, "treat recoverable warnings (e.g. index offset mismatch) as fatal errors")
	cli.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(graphCmd)
}
