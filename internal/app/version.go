package app

import (
	"fmt"
	"io"
)

// Version is set at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

// HasVersionFlag reports whether args ask for the version.
func HasVersionFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "-V", "--version", "-version":
			return true
		}
	}
	return false
}

// PrintVersion writes "threadrace <version>".
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "threadrace %s\n", Version)
}
