package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/infrastructure/clock"
)

type buildOutput struct {
	Stats   aggregates.Stats `json:"stats"`
	Skipped []string         `json:"skipped"`
	Nodes   []entities.Node  `json:"nodes"`
	Links   []entities.Link  `json:"links"`
}

func buildCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the full graph from the notes and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, cleanup, err := opts.open(ctx, clock.System{})
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := c.Graph.Reload(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, buildOutput{
					Stats:   result.Snapshot.Stats(),
					Skipped: skippedLines(result.Skipped),
					Nodes:   result.Snapshot.Nodes(),
					Links:   result.Snapshot.Links(),
				})
			}

			heading(out, "graph")
			stats := result.Snapshot.Stats()
			table(out, []string{"Sessions", "Ideas", "Parent links", "Tag links"}, [][]string{{
				strconv.Itoa(stats.Sessions),
				strconv.Itoa(stats.Ideas),
				strconv.Itoa(stats.ParentLinks),
				strconv.Itoa(stats.TagLinks),
			}})

			if len(result.Skipped) > 0 {
				fmt.Fprintln(out)
				warn.Fprintf(out, "  %d input entries skipped\n", len(result.Skipped))
				for _, line := range skippedLines(result.Skipped) {
					subtle.Fprintf(out, "    %s\n", line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the whole snapshot as JSON")
	return cmd
}

func skippedLines(reports []domainservices.SkipReport) []string {
	lines := make([]string, 0, len(reports))
	for _, r := range reports {
		lines = append(lines, r.String())
	}
	return lines
}
