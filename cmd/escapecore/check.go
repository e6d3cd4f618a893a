package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/escapecore/loader"
)

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Validate a game directory",
	Long: `Load the game in <dir>, run every content check and print the
problems found. Exits with status 1 if the game cannot be played.

Examples:
  escapecore check examples/escape-room`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func runCheck(_ *cobra.Command, args []string) {
	dir := args[0]

	defs, warnings, err := loader.LoadWithWarnings(dir)
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if err != nil {
		var ve *loader.ValidationError
		if errors.As(err, &ve) {
			for _, e := range ve.Errors {
				fmt.Fprintf(os.Stderr, "error: %s\n", e)
			}
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("%s: %d rooms, %d objects, %d messages, %d warnings\n",
		defs.Game.Title, len(defs.Rooms), len(defs.Objects), len(defs.Messages), len(warnings))
}
