package main

import (
	"time"

	"github.com/spf13/cobra"
)

// options holds the flag values of the root command.
type options struct {
	configPath string
	recursive  bool
	debounce   time.Duration
	include    []string
	exclude    []string
	format     string
	tag        string
	color      bool
	noColor    bool
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "multitail [flags] [DIR...]",
		Short: "Follow every file in one or more directories",
		Long: `Follow every file in one or more directories at once.

Each line appended to a file after startup is printed once, prefixed with
a tag naming its source. Lines are printed only when their newline has
been written. With no DIR the current directory is followed.`,
		Example: `  multitail /var/log/app /var/log/nginx
  multitail -r --include '*.log' ~/projects/service/logs
  multitail --format json --tag path .`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTail(cmd, opts, args)
		},
	}
	rootCmd.SetVersionTemplate("multitail {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "Also follow files in sub-directories")
	flags.DurationVar(&opts.debounce, "debounce", 0, "Per-file event debounce window (e.g. 10ms)")
	flags.StringArrayVar(&opts.include, "include", nil, "Only follow file names matching this glob (repeatable)")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "Skip file names matching this glob (repeatable)")
	flags.StringVar(&opts.format, "format", "", "Output format (text, json)")
	flags.StringVar(&opts.tag, "tag", "", "Line tag (dir, file, path)")
	flags.BoolVar(&opts.color, "color", false, "Always color tags")
	flags.BoolVar(&opts.noColor, "no-color", false, "Never color tags")
	flags.StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.MarkFlagsMutuallyExclusive("color", "no-color")

	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}
