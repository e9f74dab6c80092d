package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-inquiry/internal/server"
	"github.com/goliatone/go-inquiry/pkg/messages"
	"github.com/goliatone/go-inquiry/pkg/renderers/vanilla"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve inquiry forms over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			html, err := a.htmlRenderer(
				vanilla.WithStylesheets("/assets/"+vanilla.StylesheetName),
				vanilla.WithScripts("/assets/"+vanilla.ScriptName),
			)
			if err != nil {
				return err
			}

			srv, err := server.New(c,
				server.WithLogger(a.logger),
				server.WithRenderer(html),
				server.WithMessages(messages.Default(), a.cfg.Render.Locale),
				server.WithTheme(a.cfg.Render.Theme, a.cfg.Render.Variant),
				server.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
			)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), a.cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
