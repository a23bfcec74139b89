package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rybkr/cmdsense/internal/render"
	"github.com/rybkr/cmdsense/internal/suggest"
	"github.com/rybkr/cmdsense/internal/termcolor"
)

func runSuggest(args []string, cw *termcolor.Writer) int {
	var (
		algoTag       string
		costText      string
		thresholdText string
		query         string
	)
	maxResults := suggest.DefaultMaxResults

	for i := 0; i < len(args); i++ {
		switch {
		case (args[i] == "--algorithm" || args[i] == "-a") && i+1 < len(args):
			i++
			algoTag = args[i]
		case args[i] == "--cost" && i+1 < len(args):
			i++
			costText = args[i]
		case args[i] == "--threshold" && i+1 < len(args):
			i++
			thresholdText = args[i]
		case args[i] == "-n" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid -n value: %q\n", args[i])
				return 1
			}
			maxResults = n
		case strings.HasPrefix(args[i], "-n"):
			// Handle -n5 style
			n, err := strconv.Atoi(args[i][2:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid -n value: %q\n", args[i][2:])
				return 1
			}
			maxResults = n
		case strings.HasPrefix(args[i], "-"):
			fmt.Fprintf(os.Stderr, "error: unknown option: %q\n", args[i])
			return 1
		case query != "":
			fmt.Fprintf(os.Stderr, "error: exactly one query expected, got %q and %q\n", query, args[i])
			return 1
		default:
			query = args[i]
		}
	}

	if query == "" {
		fmt.Fprintln(os.Stderr, "error: missing query\nusage: cmdsense suggest [options] <query>")
		return 1
	}

	cfg, err := suggest.ParseConfig(algoTag, costText, thresholdText, maxResults, slog.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}

	scanner, err := scanCandidates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}

	matches := suggest.Rank(query, scanner.Names(), cfg)

	shown, err := render.Suggestions(query, matches, render.Options{
		Out:    os.Stdout,
		Colors: cw,
		Resolve: func(name string) (string, error) {
			if p, ok := scanner.Resolve(name); ok {
				return p, nil
			}
			return "", fmt.Errorf("%s: not found", name)
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if shown == 0 {
		fmt.Fprintf(os.Stderr, "no command on the search path resembles %q\n", query)
		return 1
	}
	return 0
}
