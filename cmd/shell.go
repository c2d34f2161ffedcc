package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-pass-network/internal/graph"
	"github.com/pable/go-pass-network/internal/report"
	"github.com/pable/go-pass-network/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("passnet shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	return shellLoop(db, os.Stdin)
}

func shellLoop(db *storage.DB, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		cPrompt.Print("passnet")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "summary":
			if err := printSummary(db); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <run-prefix> [--player <name>]")
				continue
			}
			if err := showRun(db, args[0], playerArg(args[1:]), 0); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "trend":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: trend <player name>")
				continue
			}
			if err := printTrend(db, strings.Join(args, " ")); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "nodes":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: nodes <run-prefix> [--player <name>]")
				continue
			}
			shellNodes(db, args[0], playerArg(args[1:]))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return scanner.Err()
}

// playerArg returns everything after --player, so names may contain spaces.
func playerArg(args []string) string {
	for i, a := range args {
		if a == "--player" {
			return strings.Join(args[i+1:], " ")
		}
	}
	return ""
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored runs"},
		{"summary", "database overview"},
		{"show <run-prefix>", "show a run's edges and category totals"},
		{"show <run-prefix> --player <name>", "same, highlighting one player"},
		{"nodes <run-prefix> [--player <name>]", "degree and clustering per player"},
		{"trend <player name>", "one player's passes per stored run"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	runs, err := db.ListRuns()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(runs) == 0 {
		cMuted.Println("No runs stored yet.")
		return
	}
	report.PrintRunList(os.Stdout, runs)
}

func shellNodes(db *storage.DB, prefix, player string) {
	run, err := findRun(db, prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	edges, err := db.GetEdges(run.ID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintRunSummary(os.Stdout, *run)
	report.PrintNodeTable(os.Stdout, graph.NodeMetrics(edges), player)
}
