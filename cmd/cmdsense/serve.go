package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rybkr/cmdsense/internal/server"
	"github.com/rybkr/cmdsense/internal/suggest"
)

const defaultAddr = "127.0.0.1:7421"

func runServe(args []string) int {
	addr := defaultAddr
	var thresholdText string
	maxResults := suggest.DefaultMaxResults

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--addr" && i+1 < len(args):
			i++
			addr = args[i]
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
		case args[i] == "--verbose" || args[i] == "-v":
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		default:
			fmt.Fprintf(os.Stderr, "error: unknown option: %q\n", args[i])
			return 1
		}
	}
	if !strings.Contains(addr, ":") {
		addr = "127.0.0.1:" + addr
	}

	cfg, err := suggest.ParseConfig("", "", thresholdText, maxResults, slog.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}

	srv := server.NewServer(newScanner(), cfg, addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		srv.Shutdown()
	}()

	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}
	return 0
}
