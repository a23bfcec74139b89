package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rybkr/cmdsense/internal/cli"
	"github.com/rybkr/cmdsense/internal/termcolor"
)

// Build-time variables set via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])

	// --version is handled before app.Run because "--" prefixed args
	// would be treated as unknown commands by the dispatcher.
	for _, a := range args {
		if a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	app := cli.NewApp("cmdsense", version)
	app.Stderr = os.Stderr

	app.Register(&cli.Command{
		Name:    "suggest",
		Summary: "Suggest the closest matching commands for a query",
		Usage:   "cmdsense suggest [--algorithm <name>] [--cost <c>] [--threshold <t>] [-n <count>] <query>",
		Examples: []string{
			"cmdsense suggest wimich",
			"cmdsense suggest --algorithm levenshtein --cost 0.5 gti",
			"cmdsense suggest --threshold .6 -n3 pdw",
		},
		Run: func(args []string) int { return runSuggest(args, cw) },
	})

	app.Register(&cli.Command{
		Name:    "list",
		Summary: "List the executable commands on the search path",
		Usage:   "cmdsense list [--filter <substr>]",
		Examples: []string{
			"cmdsense list",
			"cmdsense list --filter kube",
		},
		Run: func(args []string) int { return runList(args, cw) },
	})

	app.Register(&cli.Command{
		Name:    "serve",
		Summary: "Run the live suggestion daemon",
		Usage:   "cmdsense serve [--addr <host:port>] [--threshold <t>] [-n <count>]",
		Examples: []string{
			"cmdsense serve",
			"cmdsense serve --addr 127.0.0.1:7421",
		},
		Run: func(args []string) int { return runServe(args) },
	})

	app.Register(&cli.Command{
		Name:    "update",
		Summary: "Update to the latest release",
		Usage:   "cmdsense update [--check]",
		Examples: []string{
			"cmdsense update",
			"cmdsense update --check",
		},
		Run: func(args []string) int { return runUpdate(args) },
	})

	app.Register(&cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "cmdsense version",
		Run:     func([]string) int { printVersion(); return 0 },
	})

	os.Exit(app.Run(args, cw))
}

func printVersion() {
	fmt.Printf("cmdsense %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  built:      %s\n", buildDate)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
