package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nif/internal/nifvalidate"
	"nif/internal/symgraph"
)

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Print the intra-module symbol-reference graph and dead-code hints",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		res, _, err := parseFile(path, cli.strict)
		if err != nil {
			printErr("%s: %v", path, err)
			os.Exit(1)
		}

		g := symgraph.BuildFrom(res.Arena, res.Module)
		for _, n := range g.Nodes {
			fmt.Println(n)
		}
		for _, e := range g.Edges {
			fmt.Printf("%s -> %s\n", e[0], e[1])
		}

		dead := nifvalidate.DeadCode(res.Arena, res.Module)
		for _, d := range dead {
			printWarn("%s: %s is defined but never referenced", path, d)
		}
	},
}
