package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"thoughtgraph/domain/settings"
	"thoughtgraph/infrastructure/clock"
	pkgerrors "thoughtgraph/pkg/errors"
)

func settingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the persisted display settings",
	}
	cmd.AddCommand(settingsShowCmd(opts), settingsSetCmd(opts), settingsResetCmd(opts))
	return cmd
}

func settingsShowCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := opts.open(ctx, clock.System{})
			if err != nil {
				return err
			}
			defer cleanup()

			current := c.Settings.Load(ctx)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), current)
			}
			printSettings(cmd, current)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func settingsSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set field=value...",
		Short: "Change settings; tagOverrides.<tag>= removes an override",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := make([][2]string, 0, len(args))
			for _, arg := range args {
				field, value, ok := strings.Cut(arg, "=")
				if !ok {
					return pkgerrors.NewValidationError(fmt.Sprintf("expected field=value, got %q", arg))
				}
				changes = append(changes, [2]string{strings.TrimSpace(field), value})
			}

			ctx := cmd.Context()
			c, cleanup, err := opts.open(ctx, clock.System{})
			if err != nil {
				return err
			}
			defer cleanup()

			c.Settings.Load(ctx)
			updated, err := c.Settings.Update(ctx, func(s *settings.DisplaySettings) error {
				for _, change := range changes {
					if err := s.SetField(change[0], change[1]); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			good.Fprintf(cmd.OutOrStdout(), "updated %d setting(s)\n\n", len(changes))
			printSettings(cmd, updated)
			return nil
		},
	}
}

func settingsResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Store the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := opts.open(ctx, clock.System{})
			if err != nil {
				return err
			}
			defer cleanup()

			reset, err := c.Settings.Reset(ctx)
			if err != nil {
				return err
			}
			good.Fprintln(cmd.OutOrStdout(), "settings reset to defaults")
			fmt.Fprintln(cmd.OutOrStdout())
			printSettings(cmd, reset)
			return nil
		},
	}
}

func printSettings(cmd *cobra.Command, s settings.DisplaySettings) {
	out := cmd.OutOrStdout()
	heading(out, "display settings")

	rows := make([][]string, 0, len(settings.FieldNames())+len(s.TagOverrides))
	for _, name := range settings.FieldNames() {
		value, _ := s.Field(name)
		rows = append(rows, []string{name, value})
	}

	tags := make([]string, 0, len(s.TagOverrides))
	for tag := range s.TagOverrides {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		rows = append(rows, []string{"tagOverrides." + tag, s.TagOverrides[tag]})
	}

	table(out, []string{"Field", "Value"}, rows)
}
