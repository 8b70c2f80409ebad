package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nif/internal/ast"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print an indented tree view of a file's parsed forms",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		res, _, err := parseFile(path, cli.strict)
		if err != nil {
			printErr("%s: %v", path, err)
			os.Exit(1)
		}
		for _, d := range res.Module.Directives {
			fmt.Println(directiveLabel(d))
		}
		for _, ref := range res.Module.Body {
			dumpNode(res.Arena, ref, 0)
		}
	},
}

func directiveLabel(d ast.Directive) string {
	switch d.Kind {
	case ast.DirectiveVersion:
		return fmt.Sprintf(".nif%d", d.Version)
	case ast.DirectiveIndexAt:
		return fmt.Sprintf(".indexat +%d", d.IndexAtOffset)
	case ast.DirectiveUnusedName:
		return fmt.Sprintf(".unusedname %s", string(d.UnusedName))
	case ast.DirectiveVendor:
		return fmt.Sprintf(".vendor %q", string(d.StringArg))
	case ast.DirectivePlatform:
		return fmt.Sprintf(".platform %q", string(d.StringArg))
	case ast.DirectiveConfig:
		return fmt.Sprintf(".config %q", string(d.StringArg))
	case ast.DirectiveLang:
		return fmt.Sprintf(".lang %q", string(d.LangName))
	case ast.DirectiveDialect:
		return fmt.Sprintf(".dialect %q", string(d.LangName))
	default:
		return ".<unknown>"
	}
}

func dumpNode(arena *ast.Arena, ref ast.Ref, depth int) {
	node := arena.Get(ref)
	indent := strings.Repeat("  ", depth)
	switch node.Kind {
	case ast.KindCompound:
		fmt.Printf("%s(%s @%d\n", indent, string(node.Tag), node.Offset)
		for _, child := range node.Children {
			dumpNode(arena, child, depth+1)
		}
		fmt.Printf("%s)\n", indent)
	default:
		fmt.Printf("%s%s %q\n", indent, node.Kind, atomText(node))
	}
}

func atomText(node *ast.Node) string {
	switch node.Kind {
	case ast.KindEmpty:
		return "."
	case ast.KindIntLit, ast.KindUIntLit, ast.KindFloatLit:
		return string(node.Num.Digits)
	default:
		return string(node.Bytes)
	}
}
