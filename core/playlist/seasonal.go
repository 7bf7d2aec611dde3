package playlist

import (
	"regexp"
	"strings"
	"time"

	"ChromaFM/model"
)

// remasterRe strips trailing remaster/reissue annotations so that
// "Song - 2011 Remaster" and "Song (Remastered)" fold onto "song".
var remasterRe = regexp.MustCompile(`(?i)\s*(?:[-–]\s*|[(\[])[^)\]]*\b(?:remaster(?:ed)?|reissue|deluxe|anniversary)\b[^)\]]*[)\]]?\s*$`)

// canonicalKey identifies re-releases of the same recording: casefolded
// title with remaster annotations stripped, plus the primary artist.
func canonicalKey(t model.Track) string {
	title := strings.TrimSpace(remasterRe.ReplaceAllString(strings.ToLower(t.Title), ""))
	return title + "|" + strings.ToLower(t.Artist)
}

// dedupRemasters keeps one track per canonical recording: the one with the
// earliest known release date, track ID breaking exact ties. Re-releases
// would otherwise pull a 1970s song into the season of its 2020 remaster.
func dedupRemasters(pool []model.Track) []model.Track {
	best := make(map[string]model.Track)
	order := make([]string, 0, len(pool))

	for _, t := range pool {
		key := canonicalKey(t)
		cur, ok := best[key]
		if !ok {
			best[key] = t
			order = append(order, key)
			continue
		}
		if earlierRelease(t, cur) {
			best[key] = t
		}
	}

	out := make([]model.Track, 0, len(best))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func earlierRelease(a, b model.Track) bool {
	az := a.ReleaseDate.IsZero()
	bz := b.ReleaseDate.IsZero()
	if az != bz {
		return bz // a known date beats an unknown one
	}
	if !az && !a.ReleaseDate.Equal(b.ReleaseDate) {
		return a.ReleaseDate.Before(b.ReleaseDate)
	}
	return a.ID < b.ID
}

// seasonOf maps a release date to its meteorological season.
func seasonOf(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "autumn"
	default:
		return "winter"
	}
}

// seasonal buckets tracks by the season of their (deduplicated) release
// date. Within a season, earlier releases come first; tracks without a
// release date are left out.
func (p *Partitioner) seasonal(pool []model.Track) []Playlist {
	buckets := make(map[string][]scoredTrack)
	for _, t := range dedupRemasters(pool) {
		if t.ReleaseDate.IsZero() {
			continue
		}
		// collect() sorts descending, so negate the timestamp to get
		// oldest-first within the season.
		buckets[seasonOf(t.ReleaseDate)] = append(buckets[seasonOf(t.ReleaseDate)], scoredTrack{
			id:    t.ID,
			score: -float64(t.ReleaseDate.Unix()),
		})
	}
	return p.collect("Season", buckets)
}
