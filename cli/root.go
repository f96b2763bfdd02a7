// Package cli wires configuration, logging and the shell into the cobra
// command tree. Without a subcommand the desktop window is started.
package cli

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
	"github.com/michaelf2104/InternetProviderVisualization/cells"
	"github.com/michaelf2104/InternetProviderVisualization/config"
	"github.com/michaelf2104/InternetProviderVisualization/dataset"
	"github.com/michaelf2104/InternetProviderVisualization/gui"
	"github.com/michaelf2104/InternetProviderVisualization/logging"
	"github.com/michaelf2104/InternetProviderVisualization/shell"
)

type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// Context carries the loaded configuration and logger to subcommands.
type Context struct {
	Config *config.Config
	Logger logging.Logger
}

type contextKey struct{}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:   "netzwerkanalyse",
		Short: "Mobile network measurement heatmaps",
		Long: "netzwerkanalyse filters drive-test measurements by provider and city,\n" +
			"compares them with a previous dataset and writes interactive heatmaps.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		RunE:          runWindow,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newProcessCommand(), newCatalogCommand())
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return apperr.Wrap(err, apperr.CodeInvalidConfig, "cannot build logger")
	}
	logging.SetDefault(log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, contextKey{}, &Context{Config: cfg, Logger: log}))
	return nil
}

// FromCommand returns the Context stored by the root command.
func FromCommand(cmd *cobra.Command) (*Context, error) {
	if ctx := cmd.Context(); ctx != nil {
		if c, ok := ctx.Value(contextKey{}).(*Context); ok && c != nil {
			return c, nil
		}
	}
	return nil, apperr.New(apperr.CodeInvalidConfig, "command context not initialised")
}

// buildShell opens the optional cell directory and assembles the shell. The
// returned close func must be called when the shell is no longer used.
func buildShell(c *Context) (*shell.Shell, func(), error) {
	loader := dataset.NewLoader(c.Logger)
	closeFn := func() {}
	if path := c.Config.Cells.DBPath; path != "" {
		dir, err := cells.Open(path, c.Logger.Named("cells"))
		if err != nil {
			return nil, nil, err
		}
		loader = loader.WithCells(dir)
		closeFn = func() {
			if err := dir.Close(); err != nil {
				c.Logger.Warn("closing cell directory", logging.Err(err))
			}
		}
	}
	out := c.Config.Output
	sh := shell.New(shell.Paths{
		Heatmap:       out.HeatmapPath,
		CircleHeatmap: out.CircleHeatmapPath,
		Workbook:      out.Workbook,
	}, loader, c.Logger)
	return sh, closeFn, nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	c, err := FromCommand(cmd)
	if err != nil {
		return err
	}
	sh, closeFn, err := buildShell(c)
	if err != nil {
		return err
	}
	defer closeFn()

	a := app.NewWithID("de.netzwerkanalyse")
	gui.New(a, c.Config.Window, sh, c.Logger).ShowAndRun()
	return nil
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
