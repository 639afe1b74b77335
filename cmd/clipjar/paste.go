package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newPasteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "paste [index]",
		Short: "Print a history entry to stdout (like pbpaste)",
		Long: `Writes history entry <index> (default 0, the newest) to stdout without
touching the clipboard. File entries print one path per line; image
entries print their placeholder.

If no daemon is running the history log is read directly.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, args []string) error {
			index := 0
			if len(args) == 1 {
				var err error
				if index, err = parseIndex(args[0]); err != nil {
					return err
				}
			}
			return runPaste(cmd, v, index)
		},
	}

	addStoreFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runPaste(cmd *cobra.Command, v *viper.Viper, index int) error {
	entries, err := fetchHistory(cmd.Context(), v, "", index+1)
	if err != nil {
		return err
	}
	for _, we := range entries {
		if we.Index == index {
			_, err := io.WriteString(cmd.OutOrStdout(), entryPayload(we.Entry()))
			return err
		}
	}
	if index == 0 {
		// Empty history: print nothing, like pbpaste on an empty clipboard.
		return nil
	}
	return fmt.Errorf("no history entry %d (history has %d)", index, len(entries))
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid index %q: want a number from \"clipjar list\"", s)
	}
	return i, nil
}
