//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package cli

func terminalColumns(uintptr) (int, bool) { return 0, false }
