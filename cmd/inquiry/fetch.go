package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-inquiry/pkg/source"
)

func newFetchCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "fetch <token>",
		Short: "Fetch a shared template and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := source.Format(strings.ToLower(format))
			if f != source.FormatJSON && f != source.FormatYAML {
				return fmt.Errorf("unsupported format %q (json or yaml)", format)
			}
			tpl, _, err := a.template(cmd, "", args)
			if err != nil {
				return err
			}
			out, err := source.Encode(tpl, f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", string(source.FormatJSON), "output format: json or yaml")
	return cmd
}
