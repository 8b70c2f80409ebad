package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"nif/internal/nifparse"
	"nif/internal/nifwalk"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
)

// resolveTargets expands each argument into a flat list of `.nif` file
// paths, in argument order: a file argument passes through unchanged, a
// directory argument is expanded via nifwalk into its files sorted by
// relative path. Directory expansion
// walks the real filesystem (nifwalk is os-based, matching the
// teacher's own walker), while individual files are read through
// cli.fs so single-file operations stay testable against an in-memory
// filesystem.
func resolveTargets(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			// Might exist only in the in-memory fs (tests); treat as a
			// plain file target and let the caller's read surface any error.
			out = append(out, a)
			continue
		}
		if !info.IsDir() {
			out = append(out, a)
			continue
		}
		files, err := nifwalk.CollectFiles(a, nifwalk.Options{
			Exclude:      map[string]struct{}{".git": {}},
			UseGitignore: true,
		})
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			out = append(out, f.AbsPath)
		}
	}
	return out, nil
}

func readFile(path string) ([]byte, error) {
	return afero.ReadFile(cli.fs, path)
}

func parseFile(path string, strict bool) (*nifparse.Result, []byte, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := nifparse.Parse(data, nifparse.Options{Filename: path, Strict: strict})
	if err != nil {
		return nil, data, err
	}
	return res, data, nil
}

func printErr(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errColor.Sprintf(format, args...))
}

func printWarn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnColor.Sprintf(format, args...))
}

func printOK(format string, args ...any) {
	fmt.Println(okColor.Sprintf(format, args...))
}
