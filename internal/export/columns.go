package export

import (
	"strconv"
	"strings"

	"episodestats/internal/analytics"
)

// Column headers. Derived headers must not classify into an unclaimed
// canonical field.
const (
	HeaderSeason      = "Season"
	HeaderEpisode     = "Episode"
	HeaderTitle       = "Title"
	HeaderViewers     = "U.S. viewers (millions)"
	HeaderRunningTime = "Running time (minutes)"
	HeaderAirdate     = "Air date"
	HeaderWriters     = "Writers"
	HeaderCharacters  = "Characters"
	HeaderGuests      = "Guests"

	HeaderEpisodeOrder = "Episode order"
	HeaderImputed      = "Viewers imputed"
	HeaderZScore       = "Z-score"
	HeaderAnomaly      = "Anomaly"
	HeaderTopDecile    = "Top decile"
	HeaderMovingAvg    = "MA5"
)

// EpisodeHeader is the export column order.
var EpisodeHeader = []string{
	HeaderSeason, HeaderEpisode, HeaderTitle, HeaderViewers, HeaderRunningTime,
	HeaderAirdate, HeaderWriters, HeaderCharacters, HeaderGuests,
	HeaderEpisodeOrder, HeaderImputed, HeaderZScore, HeaderAnomaly, HeaderTopDecile, HeaderMovingAvg,
}

const isoDate = "2006-01-02"

func episodeRecord(e analytics.Episode) []string {
	date := ""
	if e.Airdate != nil {
		date = e.Airdate.Format(isoDate)
	}
	return []string{
		strconv.Itoa(e.Season),
		e.EpisodeLabel,
		e.Title,
		formatFloat(e.USViewers),
		formatOptional(e.RunningTimeMinutes),
		date,
		ListLiteral(e.Writers),
		ListLiteral(e.Characters),
		ListLiteral(e.Guests),
		strconv.Itoa(e.EpisodeOrder),
		strconv.FormatBool(e.ViewersImputed),
		formatOptional(e.ZScore),
		strconv.FormatBool(e.IsAnomaly),
		strconv.FormatBool(e.IsTopDecile),
		formatOptional(e.MovingAverage5),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// ListLiteral renders values as a bracketed list of single-quoted strings.
func ListLiteral(values []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(literalEscaper.Replace(v))
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}
