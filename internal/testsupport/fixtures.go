package testsupport

import "testing"

// EpisodeHeader mimics a mis-decoded Wikipedia-style export: the "№" markers
// were saved as UTF-8 and read back as Windows-1252.
var EpisodeHeader = []string{
	"Season â„–",
	"Episode â„–",
	"Title",
	"U.S. viewers (millions)",
	"Running time",
	"Airdate",
	"Writer(s)",
	"Main",
	"Guest(s)",
}

// EpisodeRows returns a small two-season dataset with one missing viewer
// count, one unparsable season, and mixed list encodings.
func EpisodeRows() [][]string {
	return [][]string{
		EpisodeHeader,
		{"1", "1a", "Help Wanted", "3.7", "11 minutes", "May 1, 1999", "['Stephen Hillenburg', 'Derek Drymon']", "['SpongeBob', 'Squidward']", "[]"},
		{"1", "1b", "Reef Blower", "3.7", "11 minutes", "May 1, 1999", "Stephen Hillenburg", "SpongeBob, Squidward", ""},
		{"1", "2a", "Tea at the Treedome", "", "11 minutes 30 seconds", "1999-05-01", "Peter Burns; Paul Tibbitt", "SpongeBob|Sandy", "None"},
		{"1", "3a", "Bubblestand", "2.1", "11 minutes", "July 17, 1999", "Ennio Torresan", "['SpongeBob', \"Patrick\"]", ""},
		{"?", "4a", "Broken row", "9.9", "", "", "", "", ""},
		{"2", "21a", "Your Shoe's Untied", "2.9", "11 min", "October 26, 2000", "['Mr. Lawrence', 'Jay Lender']", "['SpongeBob', 'Patrick']", "['Ernest Borgnine']"},
		{"2", "21b", "Squid's Day Off", "3.3", "", "not a date", "Mr. Lawrence", "Squidward", ""},
	}
}

// WriteEpisodes writes the EpisodeRows fixture as episodes.csv under dir.
func WriteEpisodes(t testing.TB, dir string) string {
	t.Helper()
	return WriteCSV(t, dir, "episodes.csv", EpisodeRows())
}
