// Command fluxkit lists and runs the tutorial pipelines.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/fluxkit/tutorial"
	"github.com/kbukum/fluxkit/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configFile string
	logLevel   string
	all        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "fluxkit",
		Short:        "Reactive sequence tutorial",
		Long:         "fluxkit runs small reactive pipelines (map, filter, flatMap, zip, interval, retry) and logs what they emit.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default: searched from ./cmd/fluxkit/config.yml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, ex := range tutorial.Catalog() {
				timed := ""
				if ex.Timed {
					timed = "(timed)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", ex.Name, ex.Description, timed)
			}
			return w.Flush()
		},
	}
	rootCmd.AddCommand(listCmd)

	runCmd := &cobra.Command{
		Use:   "run [names...]",
		Short: "Run examples and log their output",
		Example: "  fluxkit run iterable zip-ranges\n" +
			"  fluxkit run --all --log-level debug",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExamples(cmd, opts, args)
		},
	}
	runCmd.Flags().BoolVar(&opts.all, "all", false, "Run every example in catalog order")
	rootCmd.AddCommand(runCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fluxkit", version.Get().String())
		},
	}
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
