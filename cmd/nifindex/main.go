// Command nifindex reads, checks, writes, and inspects NIF files: a
// multi-verb CLI consumer of the internal/nif* parser/serializer
// library.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
