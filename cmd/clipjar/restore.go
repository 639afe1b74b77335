package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go.klb.dev/clipjar/internal/entry"
	"go.klb.dev/clipjar/internal/message"
)

func newRestoreCmd() *cobra.Command {
	var expect string

	cmd := &cobra.Command{
		Use:   "restore <index>",
		Short: "Put a history entry back on the clipboard",
		Long: `Copies history entry <index> (see "clipjar list") back onto the system
clipboard. The history itself is unchanged: restoring does not move the
entry to the front. File entries are restored as a file list.

New captures shift the numbers. With --expect the entry at <index> must
contain the given text (ignoring case), so a shifted number fails instead of
restoring something else.

Requires a running daemon.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return runRestore(cmd, index, expect)
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "fail unless the entry contains this text")
	return cmd
}

func runRestore(cmd *cobra.Command, index int, expect string) error {
	want, err := lookupEntry(cmd.Context(), index)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if expect != "" && !strings.Contains(strings.ToLower(want.Content), strings.ToLower(expect)) {
		return fmt.Errorf("restore: entry %d is %q, which does not contain %q",
			index, want.Entry().Preview(entry.DefaultPreviewWidth), expect)
	}

	// The daemon refuses if a capture moved another entry to index since
	// the lookup.
	reply, err := daemonRequest(cmd.Context(), &message.Message{Type: message.TypeRestore, Index: index, Entry: &want})
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if reply.Entry != nil {
		e := reply.Entry.Entry()
		fmt.Fprintf(cmd.OutOrStdout(), "restored %d: %s %s\n", index, e.Kind.Label(), e.Preview(entry.DefaultPreviewWidth))
	}
	return nil
}

// lookupEntry asks the daemon for the entry currently at index.
func lookupEntry(ctx context.Context, index int) (message.Entry, error) {
	reply, err := daemonRequest(ctx, &message.Message{Type: message.TypeList, Limit: index + 1})
	if err != nil {
		return message.Entry{}, err
	}
	for _, e := range reply.Entries {
		if e.Index == index {
			return e, nil
		}
	}
	return message.Entry{}, fmt.Errorf("no entry %d (history has %d)", index, len(reply.Entries))
}
