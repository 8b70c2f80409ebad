package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nif/internal/ast"
	"nif/internal/encode"
)

var encodeSymbol string

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Print the canonical identifier encoding of a file's top-level forms",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		res, _, err := parseFile(path, cli.strict)
		if err != nil {
			printErr("%s: %v", path, err)
			os.Exit(1)
		}

		if encodeSymbol != "" {
			ref, ok := findSymbolDef(res.Arena, res.Module, encodeSymbol)
			if !ok {
				printErr("%s: no SymbolDef %q found", path, encodeSymbol)
				os.Exit(1)
			}
			fmt.Println(encode.Node(res.Arena, ref))
			return
		}

		for _, ref := range res.Module.Body {
			fmt.Println(encode.Node(res.Arena, ref))
		}
	},
}

func findSymbolDef(arena *ast.Arena, module *ast.Module, symbol string) (ast.Ref, bool) {
	var found ast.Ref
	var ok bool
	var walk func(ref ast.Ref)
	walk = func(ref ast.Ref) {
		if ok {
			return
		}
		node := arena.Get(ref)
		if node.Kind != ast.KindCompound {
			return
		}
		if len(node.Children) > 0 {
			first := arena.Get(node.Children[0])
			if first.Kind == ast.KindSymbolDef && string(first.Bytes) == symbol {
				found, ok = ref, true
				return
			}
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	for _, ref := range module.Body {
		walk(ref)
	}
	return found, ok
}

func init() {
	encodeCmd.Flags().StringVar(&encodeSymbol, "symbol", "", "encode only the compound introduced by this global symbol")
}
