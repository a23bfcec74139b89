package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/rybkr/cmdsense/internal/render"
	"github.com/rybkr/cmdsense/internal/termcolor"
)

func runList(args []string, cw *termcolor.Writer) int {
	filter := ""

	for i := 0; i < len(args); i++ {
		switch {
		case (args[i] == "--filter" || args[i] == "-f") && i+1 < len(args):
			i++
			filter = args[i]
		default:
			fmt.Fprintf(os.Stderr, "error: unknown option: %q\n", args[i])
			return 1
		}
	}

	scanner, err := scanCandidates()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}

	names := scanner.Names()
	if filter != "" {
		// Subsequence matching, best matches first: "kctl" finds kubectl.
		ranks := fuzzy.RankFindFold(filter, names)
		sort.Sort(ranks)
		names = names[:0]
		for _, r := range ranks {
			names = append(names, r.Target)
		}
	}

	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "no commands found")
		return 1
	}

	if err := render.List(names, scanner.Resolve, render.Options{Out: os.Stdout, Colors: cw}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
