package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/michaelf2104/InternetProviderVisualization/catalog"
	"github.com/michaelf2104/InternetProviderVisualization/config"
	"github.com/michaelf2104/InternetProviderVisualization/shell"
)

type processOptions struct {
	previous string
	provider string
	region   string
}

func newProcessCommand() *cobra.Command {
	opts := &processOptions{}
	cmd := &cobra.Command{
		Use:   "process NEW_DATASET",
		Short: "Run one drop without the window",
		Long: "process behaves like dropping NEW_DATASET on the window, optionally after\n" +
			"dropping --previous as the previous dataset.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, opts, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.previous, "previous", "", "previous dataset to diff against")
	f.StringVar(&opts.provider, "provider", config.DefaultProvider, "provider name")
	f.StringVar(&opts.region, "region", config.DefaultRegion, "city")
	return cmd
}

func runProcess(cmd *cobra.Command, opts *processOptions, path string) error {
	c, err := FromCommand(cmd)
	if err != nil {
		return err
	}
	sh, closeFn, err := buildShell(c)
	if err != nil {
		return err
	}
	defer closeFn()

	if opts.previous != "" {
		sh.DropOld(opts.previous)
	}
	out := sh.DropNew(path, opts.provider, opts.region)
	printOutcome(cmd.OutOrStdout(), out)
	return out.Err
}

func printOutcome(w io.Writer, out shell.Outcome) {
	fmt.Fprintf(w, "run:     %s\n", out.RunID)
	fmt.Fprintf(w, "outcome: %s\n", out.Kind)
	fmt.Fprintf(w, "rows:    %d\n", out.Rows)
	for _, a := range out.Artifacts {
		fmt.Fprintf(w, "%s: %s\n", a.Kind, a.Path)
	}
	if out.ExportErr != nil {
		fmt.Fprintf(w, "export:  %v\n", out.ExportErr)
	}
}

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List providers with their network codes and the selectable cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Providers:")
			for _, p := range catalog.Providers() {
				codes, err := catalog.ProviderCodes(p)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "  %-11s %v\n", p, codes)
			}
			fmt.Fprintln(w, "Regions:")
			for _, r := range catalog.Regions() {
				fmt.Fprintf(w, "  %s\n", r)
			}
			return nil
		},
	}
}
