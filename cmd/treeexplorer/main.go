package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/treekit/cmd/treeexplorer/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	args := os.Args[1:]

	seed := int64(1)
	delayMs := 350
	debugMode := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--debug", "-d":
			debugMode = true
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("treeexplorer %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
			os.Exit(0)
		case "--seed":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --seed requires a value")
				os.Exit(1)
			}
			v, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: bad seed %q\n", args[i])
				os.Exit(1)
			}
			seed = v
		case "--delay":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --delay requires milliseconds")
				os.Exit(1)
			}
			v, err := strconv.Atoi(args[i])
			if err != nil || v < 0 {
				fmt.Fprintf(os.Stderr, "Error: bad delay %q\n", args[i])
				os.Exit(1)
			}
			delayMs = v
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown argument %q\n", args[i])
			printUsage()
			os.Exit(1)
		}
	}

	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}
	logger.Info("starting treeexplorer", "seed", seed, "delayMs", delayMs)

	m, err := NewModel(seed, delayMs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building tree: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
	logger.Info("treeexplorer exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: treeexplorer [--seed N] [--delay MS]\n")
	fmt.Fprintf(os.Stderr, "Try 'treeexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("treeexplorer - Interactive browser for lazily loaded trees")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  treeexplorer [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Launches a terminal UI over a synthetic lazily loaded tree. Only the")
	fmt.Println("  rows inside the viewport are materialized, so arbitrarily large trees")
	fmt.Println("  stay cheap to browse. Deferred subtrees resolve asynchronously with")
	fmt.Println("  simulated backend latency; results arriving after further edits are")
	fmt.Println("  discarded as stale.")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Move the cursor")
	fmt.Println("    →/l, Enter  Expand the selected node")
	fmt.Println("    ←/h         Collapse / jump to parent")
	fmt.Println("    pgup/pgdn   Page")
	fmt.Println("    g/G         Top / bottom")
	fmt.Println("    s           Sort the selected node's children")
	fmt.Println("    d           Delete the selected node")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  --seed N       Dataset seed (default 1)")
	fmt.Println("  --delay MS     Simulated resolve latency (default 350)")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.treeexplorer/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
}
