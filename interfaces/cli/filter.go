package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/infrastructure/clock"
)

func filterCmd(opts *options) *cobra.Command {
	var (
		expand []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show what is on screen with the given sessions expanded",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := opts.open(ctx, clock.System{})
			if err != nil {
				return err
			}
			defer cleanup()

			c.Settings.Load(ctx)
			if _, err := c.Graph.Reload(ctx); err != nil {
				return err
			}
			for _, id := range expand {
				if err := c.Adapter.Toggle(valueobjects.NodeID(id)); err != nil {
					return err
				}
			}

			scene := c.Renderer.Scene()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, scene)
			}

			heading(out, fmt.Sprintf("visible graph (%d nodes, %d links)", len(scene.Nodes), len(scene.Links)))
			rows := make([][]string, 0, len(scene.Nodes))
			for _, n := range scene.Nodes {
				rows = append(rows, []string{
					n.ID.String(),
					string(n.Class),
					n.Label,
					strconv.FormatFloat(n.Size, 'f', 1, 64),
					n.Color.String(),
				})
			}
			table(out, []string{"ID", "Class", "Label", "Size", "Color"}, rows)

			fmt.Fprintln(out)
			linkRows := make([][]string, 0, len(scene.Links))
			for _, l := range scene.Links {
				linkRows = append(linkRows, []string{l.Source.String(), l.Target.String(), string(l.Kind)})
			}
			table(out, []string{"Source", "Target", "Kind"}, linkRows)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&expand, "expand", nil, "session ids to expand")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the scene as JSON")
	return cmd
}
