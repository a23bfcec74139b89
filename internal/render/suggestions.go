// Package render formats ranked suggestions and candidate listings for the
// terminal. It owns presentation only: scores arrive already filtered and
// ordered from the suggest package.
package render

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/pterm/pterm"

	"github.com/rybkr/cmdsense/internal/suggest"
	"github.com/rybkr/cmdsense/internal/termcolor"
)

// Options configures rendering. The zero value writes to stdout with
// automatic color and exec.LookPath verification.
type Options struct {
	// Out receives the rendered output. Defaults to os.Stdout.
	Out io.Writer
	// Colors applies highlighting. Defaults to an auto-detected stdout writer.
	Colors *termcolor.Writer
	// Resolve maps a candidate name to a concrete executable path. Names
	// that fail to resolve are dropped before display: the candidate list
	// may be stale by the time the user sees it. Defaults to exec.LookPath.
	Resolve func(name string) (string, error)
}

func (o *Options) fill() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Colors == nil {
		o.Colors = termcolor.NewWriter(os.Stdout, termcolor.ColorAuto)
	}
	if o.Resolve == nil {
		o.Resolve = exec.LookPath
	}
}

// Suggestions renders the ranked matches for query as a table of command,
// score, and resolved path, with the characters differing from the query
// highlighted. Returns the number of rows actually shown.
func Suggestions(query string, matches []suggest.Match, opts Options) (int, error) {
	opts.fill()

	data := pterm.TableData{{"COMMAND", "SCORE", "PATH"}}
	for _, m := range matches {
		path, err := opts.Resolve(m.Name)
		if err != nil {
			continue // disappeared since the scan; not worth suggesting
		}
		data = append(data, []string{
			Highlight(query, m.Name, opts.Colors),
			fmt.Sprintf("%.2f", m.Score),
			opts.Colors.Dim(path),
		})
	}

	shown := len(data) - 1
	if shown == 0 {
		return 0, nil
	}

	err := pterm.DefaultTable.
		WithHasHeader().
		WithWriter(opts.Out).
		WithData(data).
		Render()
	return shown, err
}

// List renders the candidate names one per line with their resolved origin.
// resolve may be nil when origins are unavailable.
func List(names []string, resolve func(string) (string, bool), opts Options) error {
	opts.fill()

	data := pterm.TableData{{"COMMAND", "PATH"}}
	for _, name := range names {
		origin := ""
		if resolve != nil {
			if p, ok := resolve(name); ok {
				origin = opts.Colors.Dim(p)
			}
		}
		data = append(data, []string{name, origin})
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithWriter(opts.Out).
		WithData(data).
		Render()
}
