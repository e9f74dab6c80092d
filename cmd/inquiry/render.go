package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/render"
	"github.com/goliatone/go-inquiry/pkg/renderers/vanilla"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		file     string
		renderer string
		output   string
		fragment bool
		action   string
	)
	cmd := &cobra.Command{
		Use:   "render [token]",
		Short: "Render a template as an HTML form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, token, err := a.template(cmd, file, args)
			if err != nil {
				return err
			}

			html, err := a.htmlRenderer(vanilla.WithFragment(fragment))
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			if err := registry.Register(html); err != nil {
				return err
			}
			r, err := registry.Get(renderer)
			if err != nil {
				return fmt.Errorf("%w (available: %v)", err, registry.List())
			}

			session := form.NewSession(tpl, token,
				form.WithLogger(a.logger),
				form.WithLocale(a.cfg.Render.Locale),
			)
			out, err := r.Render(cmd.Context(), session, render.RenderOptions{
				Action:       action,
				Locale:       a.cfg.Render.Locale,
				ThemeName:    a.cfg.Render.Theme,
				ThemeVariant: a.cfg.Render.Variant,
			})
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			a.logger.Info("form written", zap.String("path", output), zap.Int("bytes", len(out)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "template file (JSON or YAML) instead of a share token")
	cmd.Flags().StringVar(&renderer, "renderer", vanilla.Name, "renderer name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "emit only the <form> element")
	cmd.Flags().StringVar(&action, "action", "", "form action URL")
	return cmd
}
