package main

import (
	"fmt"
	"os"
	"unicode"

	cmd "github.com/flowctl/flowctl/cmd/flowctl"
	"github.com/flowctl/flowctl/internal/obslog"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Defer order matters: RecoverAndPanic must be deferred first so it
	// runs last, after cleanup() has flushed pending events.
	defer obslog.RecoverAndPanic()
	cleanup := obslog.Init(cmd.Version)
	defer cleanup()

	if err := cmd.Execute(); err != nil {
		obslog.CaptureError(err)
		fmt.Fprintln(os.Stderr, capitalize(err.Error()))
		return 1
	}
	return 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
