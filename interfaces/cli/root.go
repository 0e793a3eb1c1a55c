// Package cli implements graphctl, a command line tool for building,
// filtering and inspecting thought session graphs.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"thoughtgraph/application/ports"
	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/di"
)

type options struct {
	configDir string
	env       string
	notes     string
	noColor   bool
}

// NewRootCommand creates the graphctl command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "graphctl",
		Short:         "Build and inspect thought session graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", defaultConfigDir(), "directory holding base.yaml and <env>.yaml")
	flags.StringVar(&opts.env, "env", string(config.EnvironmentFromEnv()), "environment: development, test or production")
	flags.StringVar(&opts.notes, "notes", "", "read notes from this JSON file (\"-\" for stdin) instead of the configured source")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		buildCmd(opts),
		filterCmd(opts),
		settingsCmd(opts),
		orbitCmd(opts),
		serveCmd(opts),
	)
	return root
}

// Execute runs graphctl with the process arguments
func Execute(ctx context.Context, stderr io.Writer) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		bad.Fprintf(stderr, "graphctl: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the layered configuration and applies command line overrides
func (o *options) loadConfig() (*config.Loader, *config.Config, error) {
	loader := config.NewLoader(o.configDir, config.Environment(o.env))
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.notes != "" {
		cfg.Notes.Source = config.SourceFile
		cfg.Notes.File = o.notes
	}
	return loader, cfg, nil
}

// open loads the configuration and wires the application around clock
func (o *options) open(ctx context.Context, clock ports.Clock) (*di.Container, func(), error) {
	_, cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return di.InitializeContainer(ctx, cfg, clock)
}

func defaultConfigDir() string {
	if dir := os.Getenv("THOUGHTGRAPH_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
