package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nathoo/escapecore/loader"
	"github.com/nathoo/escapecore/records"
)

var (
	flagLimit  int
	flagRecent bool
)

var recordsCmd = &cobra.Command{
	Use:   "records <dir>",
	Short: "Show the best finished runs of a game",
	Long: `Display the best escapes of the game in <dir>: fewest turns first,
then fastest. --recent lists the latest runs instead, escaped or not.

Examples:
  escapecore records examples/escape-room
  escapecore records examples/escape-room --limit 3
  escapecore records examples/escape-room --recent`,
	Args: cobra.ExactArgs(1),
	Run:  runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	recordsCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the latest runs instead of the best")
}

func runRecords(_ *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	defs, err := loader.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}
	title := defs.Game.Title

	store, err := records.Open(cfg.Records.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening records database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var runs []records.Run
	if flagRecent {
		runs, err = store.RecentRuns(title, flagLimit)
	} else {
		runs, err = store.BestRuns(title, flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	if flagRecent {
		fmt.Printf("Recent Runs - %s\n\n", title)
	} else {
		fmt.Printf("Best Escapes - %s\n\n", title)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'escapecore play %s' to set the first record!\n", args[0])
		return
	}

	fmt.Printf("  %-4s  %-12s  %-5s  %-8s  %-8s  %s\n", "Rank", "Player", "Turns", "Time", "Escaped", "Date")
	fmt.Printf("  %-4s  %-12s  %-5s  %-8s  %-8s  %s\n", "----", "------", "-----", "----", "-------", "----")
	for i, r := range runs {
		escaped := "no"
		if r.Escaped {
			escaped = "yes"
		}
		fmt.Printf("  %-4d  %-12s  %-5d  %-8s  %-8s  %s\n",
			i+1, r.Player, r.Turns, r.Duration.Round(time.Second), escaped,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
