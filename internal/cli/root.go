package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/provflow/pkg/buildinfo"
	"github.com/matzehuels/provflow/pkg/pipeline"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --verbose (-v): debug-level logging
//   - --config: TOML file with layout, ordering, cache, server and store
//     defaults; explicit flags win over it
//
// The logger is attached to every command's context and is also available
// as c.Logger.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Provflow draws province cluster timelines as alluvial diagrams",
		Long: `Provflow orders the categories of a clustering timeline so that the
alluvial diagram connecting consecutive years has as few crossing ribbons as
possible, then lays the diagram out for rendering.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if c.configPath != "" {
				cfg, err := pipeline.LoadConfig(c.configPath)
				if err != nil {
					return err
				}
				c.Config = cfg
				c.Logger.Debug("loaded config", "path", c.configPath)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (TOML)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.minimizeCommand())
	root.AddCommand(c.crossingsCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
