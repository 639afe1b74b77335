package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"go.klb.dev/clipjar/internal/message"
)

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy [text...]",
		Short: "Copy text to the clipboard (like pbcopy)",
		Long: `Places the arguments, or stdin when there are none, on the system
clipboard through the daemon. The daemon captures it like any other copy.

Requires a running daemon.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) > 0 {
				text = strings.Join(args, " ")
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}
			if text == "" {
				return nil
			}
			if _, err := daemonRequest(cmd.Context(), &message.Message{Type: message.TypeCopy, Text: text}); err != nil {
				return fmt.Errorf("copy: %w", err)
			}
			return nil
		},
	}
}
