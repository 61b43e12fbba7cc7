package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var (
		top     int
		seasons []int
	)

	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Show dataset totals and the most frequent characters and writers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ctx.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			scope := res.Table
			if len(seasons) > 0 {
				scope = scope.FilterSeasons(seasons...)
			}
			overview := scope.Overview()
			characters := scope.TopCharacters(top)
			writers := scope.TopWriters(top)

			if ctx.jsonOutput() {
				return writeJSON(cmd, summaryJSON{
					LoadID:            res.LoadID,
					Source:            res.Path,
					Encoding:          res.Encoding,
					LoadedAt:          res.LoadedAt,
					SeasonFilter:      seasons,
					Seasons:           overview.Seasons,
					Episodes:          overview.Episodes,
					MeanViewers:       overview.MeanViewers,
					TopSeason:         overview.TopSeason,
					TopSeasonMean:     overview.TopSeasonMean,
					MaxSeasonEpisodes: overview.MaxSeasonEpisodes,
					Anomalies:         overview.Anomalies,
					RowsSkipped:       res.Skipped,
					RowsDropped:       res.Dropped,
					TopCharacters:     toCountJSON(characters),
					TopWriters:        toCountJSON(writers),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s (%s)\n", res.Path, res.Encoding)
			if len(seasons) > 0 {
				fmt.Fprintf(out, "Season filter: %s\n", joinInts(seasons))
			}
			fmt.Fprintf(out, "Seasons: %d\n", overview.Seasons)
			fmt.Fprintf(out, "Episodes: %d\n", overview.Episodes)
			fmt.Fprintf(out, "Mean viewers: %sM\n", formatViewers(overview.MeanViewers))
			if overview.Episodes > 0 {
				fmt.Fprintf(out, "Most watched season: %d (%sM per episode)\n", overview.TopSeason, formatViewers(overview.TopSeasonMean))
			}
			fmt.Fprintf(out, "Longest season: %d episodes\n", overview.MaxSeasonEpisodes)
			fmt.Fprintf(out, "Anomalies: %d\n", overview.Anomalies)
			if res.Skipped > 0 || res.Dropped > 0 {
				fmt.Fprintf(out, "Rows skipped: %d, dropped: %d\n", res.Skipped, res.Dropped)
			}

			for _, section := range []struct {
				title  string
				header string
				counts []countJSON
			}{
				{"Top characters", "Character", toCountJSON(characters)},
				{"Top writers", "Writer", toCountJSON(writers)},
			} {
				fmt.Fprintln(out)
				if len(section.counts) == 0 {
					fmt.Fprintf(out, "%s\n  none recorded\n", section.title)
					continue
				}
				view := tableView{
					title:   section.title,
					columns: []column{textColumn(section.header), numberColumn("Episodes")},
				}
				for _, c := range section.counts {
					view.add(c.Name, strconv.Itoa(c.Count))
				}
				fmt.Fprintln(out, view.render(out))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 5, "Number of characters and writers to list (0 lists all)")
	cmd.Flags().IntSliceVarP(&seasons, "season", "s", nil, "Only count these seasons (repeatable)")
	return cmd
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
