package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/paceline/paceline/internal/infrastructure/cli"
)

func main() {
	os.Exit(run())
}

// run keeps the fail-soft contract: whatever goes wrong, stdout still gets a
// line (possibly empty) and diagnostics go to stderr only.
func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "panic:", r)
			fmt.Println()
			code = 1
		}
	}()

	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		fmt.Println()
		return 1
	}

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		fmt.Println()
		return 1
	}
	return 0
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("PACELINE_DEBUG"), "1") || strings.EqualFold(os.Getenv("PACELINE_DEBUG"), "true")
}
