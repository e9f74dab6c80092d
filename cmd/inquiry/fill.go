package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/render"
	"github.com/goliatone/go-inquiry/pkg/renderers/tui"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		file   string
		dryRun bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "fill [token]",
		Short: "Fill a form in the terminal and submit it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, token, err := a.template(cmd, file, args)
			if err != nil {
				return err
			}

			sessionOpts := []form.Option{
				form.WithLogger(a.logger),
				form.WithLocale(a.cfg.Render.Locale),
			}
			if !dryRun {
				c, err := a.client()
				if err != nil {
					return err
				}
				sessionOpts = append(sessionOpts, form.WithSubmitter(c))
			}
			session := form.NewSession(tpl, token, sessionOpts...)

			r, err := tui.New(
				tui.WithPromptDriver(a.prompts),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			payload, err := r.Render(cmd.Context(), session, render.RenderOptions{Locale: a.cfg.Render.Locale})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				_, err = fmt.Fprintln(out, string(payload))
				return err
			}
			result, err := session.Submit(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, result.Message)
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "template file (JSON or YAML) instead of a share token")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the submission payload instead of sending it")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "dry-run output: json or pretty")
	return cmd
}
