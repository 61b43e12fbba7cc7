package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"episodestats/internal/analytics"
	"episodestats/internal/normalize"
	"episodestats/internal/textutil"
)

const (
	suggestionMinScore = 0.3
	suggestionLimit    = 3
)

type episodeFilters struct {
	seasons   []int
	writer    string
	character string
	from      string
	to        string
	anomalies bool
}

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	var filters episodeFilters

	cmd := &cobra.Command{
		Use:   "episodes <file>",
		Short: "List episodes with their derived metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ctx.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			view, err := applyFilters(res.Table, filters)
			if err != nil {
				return err
			}
			episodes := view.Episodes()

			if ctx.jsonOutput() {
				items := make([]episodeJSON, 0, len(episodes))
				for _, e := range episodes {
					items = append(items, toEpisodeJSON(e))
				}
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if len(episodes) == 0 {
				fmt.Fprintln(out, "No episodes match the filters")
				printSuggestions(cmd, res.Table, filters)
				return nil
			}
			grid := tableView{columns: []column{
				numberColumn("Season"), textColumn("Episode"), textColumn("Title"), textColumn("Aired"),
				numberColumn("Viewers"), numberColumn("Z"), numberColumn("MA5"), textColumn("Flags"),
			}}
			for _, e := range episodes {
				viewers := formatViewers(e.USViewers)
				if e.ViewersImputed {
					viewers += "*"
				}
				flags := make([]string, 0, 2)
				if e.IsAnomaly {
					flags = append(flags, "anomaly")
				}
				if e.IsTopDecile {
					flags = append(flags, "top")
				}
				grid.add(
					strconv.Itoa(e.Season),
					e.DisplayLabel(),
					truncate(e.Title, 40),
					formatDate(e.Airdate),
					viewers,
					formatOptional(e.ZScore, 2),
					formatOptional(e.MovingAverage5, 2),
					strings.Join(flags, ","),
				)
			}
			fmt.Fprintln(out, grid.render(out))
			fmt.Fprintf(out, "%d episode(s); * marks imputed viewer counts\n", len(episodes))
			return nil
		},
	}

	cmd.Flags().IntSliceVarP(&filters.seasons, "season", "s", nil, "Only include these seasons (repeatable)")
	cmd.Flags().StringVar(&filters.writer, "writer", "", "Only include episodes credited to this writer")
	cmd.Flags().StringVar(&filters.character, "character", "", "Only include episodes featuring this character")
	cmd.Flags().StringVar(&filters.from, "from", "", "Earliest air date (inclusive)")
	cmd.Flags().StringVar(&filters.to, "to", "", "Latest air date (inclusive)")
	cmd.Flags().BoolVar(&filters.anomalies, "anomalies", false, "Only include anomalous episodes")
	return cmd
}

func applyFilters(table *analytics.Table, filters episodeFilters) (*analytics.Table, error) {
	view := table
	if len(filters.seasons) > 0 {
		view = view.FilterSeasons(filters.seasons...)
	}
	if w := strings.TrimSpace(filters.writer); w != "" {
		view = view.FilterWriter(w)
	}
	if c := strings.TrimSpace(filters.character); c != "" {
		view = view.FilterCharacter(c)
	}
	if filters.from != "" || filters.to != "" {
		from, err := parseDateFlag("from", filters.from)
		if err != nil {
			return nil, err
		}
		to, err := parseDateFlag("to", filters.to)
		if err != nil {
			return nil, err
		}
		view = view.FilterDateRange(from, to)
	}
	if filters.anomalies {
		view = view.Anomalies()
	}
	return view, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, ok := normalize.Date(value)
	if !ok {
		return time.Time{}, fmt.Errorf("--%s: unrecognized date %q", name, value)
	}
	return parsed, nil
}

// printSuggestions offers close spellings when a name filter matched nothing.
func printSuggestions(cmd *cobra.Command, table *analytics.Table, filters episodeFilters) {
	out := cmd.OutOrStdout()
	for _, f := range []struct {
		flag   string
		query  string
		counts []analytics.Count
	}{
		{"writer", filters.writer, table.TopWriters(0)},
		{"character", filters.character, table.TopCharacters(0)},
	} {
		query := strings.TrimSpace(f.query)
		if query == "" {
			continue
		}
		names := make([]string, 0, len(f.counts))
		for _, c := range f.counts {
			names = append(names, c.Name)
		}
		matches := textutil.Suggest(query, names, suggestionMinScore, suggestionLimit)
		if len(matches) == 0 {
			continue
		}
		suggestions := make([]string, 0, len(matches))
		for _, m := range matches {
			suggestions = append(suggestions, strconv.Quote(m.Name))
		}
		fmt.Fprintf(out, "Did you mean --%s %s?\n", f.flag, strings.Join(suggestions, " or "))
	}
}
