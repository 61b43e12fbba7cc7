package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSeasonsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seasons <file>",
		Short: "Show per-season viewer statistics and growth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ctx.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			summaries := res.Table.GroupBySeason()

			if ctx.jsonOutput() {
				views := make([]seasonJSON, 0, len(summaries))
				for _, s := range summaries {
					views = append(views, toSeasonJSON(s))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No episodes loaded")
				return nil
			}
			view := tableView{
				title: fmt.Sprintf("%s (%s)", res.Path, res.Encoding),
				columns: []column{
					numberColumn("Season"), numberColumn("Episodes"), numberColumn("Mean"), numberColumn("Median"),
					numberColumn("Min"), numberColumn("Max"), textColumn("Top episode"), numberColumn("Runtime"),
					numberColumn("Anomalies"), numberColumn("Growth"),
				},
			}
			episodes, anomalies := 0, 0
			for _, s := range summaries {
				episodes += s.Episodes
				anomalies += s.Anomalies
				view.add(
					strconv.Itoa(s.Season),
					strconv.Itoa(s.Episodes),
					formatViewers(s.MeanViewers),
					formatViewers(s.MedianViewers),
					formatViewers(s.MinViewers),
					formatViewers(s.MaxViewers),
					truncate(s.TopEpisode.DisplayLabel()+" "+s.TopEpisode.Title, 32),
					formatOptional(s.MeanRunningTime, 1),
					strconv.Itoa(s.Anomalies),
					formatPercent(s.Growth),
				)
			}
			view.totals = []string{"All", strconv.Itoa(episodes), formatViewers(res.Table.Overview().MeanViewers), "", "", "", "", "", strconv.Itoa(anomalies), ""}
			fmt.Fprintln(out, view.render(out))
			return nil
		},
	}
}
