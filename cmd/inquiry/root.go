package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/internal/config"
	"github.com/goliatone/go-inquiry/internal/logging"
	"github.com/goliatone/go-inquiry/pkg/client"
	"github.com/goliatone/go-inquiry/pkg/contract"
	"github.com/goliatone/go-inquiry/pkg/messages"
	"github.com/goliatone/go-inquiry/pkg/model"
	"github.com/goliatone/go-inquiry/pkg/render"
	"github.com/goliatone/go-inquiry/pkg/renderers/tui"
	"github.com/goliatone/go-inquiry/pkg/renderers/vanilla"
	"github.com/goliatone/go-inquiry/pkg/source"
)

const userAgent = "go-inquiry"

// app carries state shared by the subcommands.
type app struct {
	configPath string
	envFile    string
	backend    string
	logLevel   string
	locale     string

	cfg    config.Config
	logger *zap.Logger

	// prompts replaces the survey driver of `fill`; set by tests.
	prompts tui.PromptDriver
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "inquiry",
		Short:         "Render and submit CRM inquiry forms shared by token",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file with INQUIRY_* overrides")
	flags.StringVar(&a.backend, "backend", "", "CRM backend base URL (or INQUIRY_BACKEND_BASE_URL)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.locale, "locale", "", "message locale (ko, en)")

	root.AddCommand(
		newFetchCmd(a),
		newRenderCmd(a),
		newFillCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	opts := []config.Option{config.WithEnvFile(a.envFile)}
	if a.configPath != "" {
		opts = append(opts, config.WithFile(a.configPath))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend.BaseURL = a.backend
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("locale") {
		cfg.Render.Locale = a.locale
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) client() (*client.Client, error) {
	if err := a.cfg.RequireBackend(); err != nil {
		return nil, err
	}
	opts := []client.Option{
		client.WithLogger(a.logger),
		client.WithTemplatePath(a.cfg.Backend.TemplatePath),
		client.WithSubmitPath(a.cfg.Backend.SubmitPath),
		client.WithMessages(messages.Default(), a.cfg.Render.Locale),
		client.WithUserAgent(userAgent),
	}
	if a.cfg.Contract.Validate {
		doc, err := contract.Default()
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithContract(doc))
	}
	return client.New(a.cfg.Backend.BaseURL, opts...)
}

// template resolves the template from --file or the token argument and
// returns it with the token used for submission.
func (a *app) template(cmd *cobra.Command, file string, args []string) (model.Template, string, error) {
	if file != "" {
		tpl, err := source.File(file).Load(cmd.Context())
		if err != nil {
			return model.Template{}, "", err
		}
		token := tpl.ShareToken
		if len(args) > 0 {
			token = args[0]
		}
		return tpl, token, nil
	}
	if len(args) == 0 {
		return model.Template{}, "", errors.New("a share token or --file is required")
	}

	c, err := a.client()
	if err != nil {
		return model.Template{}, "", err
	}
	tpl, err := source.Remote(c, args[0]).Load(cmd.Context())
	if err != nil {
		return model.Template{}, "", err
	}
	return tpl, args[0], nil
}

// htmlRenderer builds the vanilla renderer with the configured theme.
func (a *app) htmlRenderer(opts ...vanilla.Option) (*vanilla.Renderer, error) {
	opts = append([]vanilla.Option{vanilla.WithTranslator(messages.Default())}, opts...)
	if a.cfg.Render.ThemeFile != "" {
		data, err := os.ReadFile(a.cfg.Render.ThemeFile)
		if err != nil {
			return nil, fmt.Errorf("read theme manifest: %w", err)
		}
		manifest, err := render.ParseManifest(data)
		if err != nil {
			return nil, err
		}
		selector, err := render.NewManifestSelector(manifest)
		if err != nil {
			return nil, err
		}
		selector.SetDefaults(manifest.Name, a.cfg.Render.Variant)
		opts = append(opts, vanilla.WithThemeSelector(selector))
	}
	return vanilla.New(opts...)
}
