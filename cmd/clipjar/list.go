package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultListLimit = 10

func newListCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "Show recent clipboard history",
		Long: `Shows the most recent history entries, newest first, numbered from 0.
The number is what "clipjar restore" and "clipjar paste" take.

With a query only entries containing it (ignoring case) are shown; their
numbers still refer to the full history.

If no daemon is running the history log is read directly.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, v, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	f.IntP("limit", "n", defaultListLimit, "maximum entries to show (0 = all)")
	f.StringP("output", "o", outputTable, "output format: table|plain|json")
	f.Int("width", 0, "preview width in columns (default: fit the terminal, or 80)")
	addStoreFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, v *viper.Viper, query string) error {
	entries, err := fetchHistory(cmd.Context(), v, query, v.GetInt("limit"))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	format := v.GetString("output")
	return renderHistory(out, entries, format, previewWidth(out, v.GetInt("width"), format))
}
