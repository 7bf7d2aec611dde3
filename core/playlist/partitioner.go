package playlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"ChromaFM/core/artwork"
	"ChromaFM/core/color"
	"ChromaFM/core/mosaic"
	"ChromaFM/core/sequence"
	"ChromaFM/core/vibes"
	"ChromaFM/model"
)

var (
	// ErrPolicyUnsupported rejects unknown policy names before any work.
	ErrPolicyUnsupported = errors.New("unsupported playlist policy")
	// ErrEmptyPool rejects generation over an empty song pool.
	ErrEmptyPool = errors.New("empty song pool")
)

// Playlist is one generated ordered track list, ready for handoff to the
// playlist-creation collaborator.
type Playlist struct {
	Name     string   `json:"name"`
	TrackIDs []string `json:"trackIds"`
	// CoverColor, when set, is used to render a solid-color cover for the
	// created playlist.
	CoverColor *model.RGB `json:"coverColor,omitempty"`
}

// Partitioner is the top-level orchestrator: it analyzes the pool through
// the feature cache and partitions or orders it under the requested policy.
type Partitioner struct {
	analyzer  *Analyzer
	minTracks int // grouping buckets smaller than this are dropped
}

// NewPartitioner creates a partitioner. minTracks below 1 means no floor.
func NewPartitioner(analyzer *Analyzer, minTracks int) *Partitioner {
	if minTracks < 1 {
		minTracks = 1
	}
	return &Partitioner{analyzer: analyzer, minTracks: minTracks}
}

// Generate produces playlists for the pool under the given policy.
// Grouping policies return one playlist per bucket; ordering policies
// return a single sequenced playlist. Per-track analysis failures are
// reported in the manifest.
func (p *Partitioner) Generate(ctx context.Context, policy model.Policy, opts model.PolicyOptions, pool []model.Track) ([]Playlist, *Manifest, error) {
	if !policy.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrPolicyUnsupported, policy)
	}
	if len(pool) == 0 {
		return nil, nil, ErrEmptyPool
	}

	// Seasonal and vibes need no artwork analysis at all.
	switch policy {
	case model.PolicySeasonal:
		return p.seasonal(pool), newManifest(), nil
	case model.PolicyVibes:
		return p.vibes(pool), newManifest(), nil
	}

	features, manifest, err := p.analyzer.Analyze(ctx, pool, opts.Mood)
	if err != nil {
		return nil, manifest, err
	}

	switch policy {
	case model.PolicyColor:
		return p.byColor(features), manifest, nil
	case model.PolicyMood:
		return p.byMood(features), manifest, nil
	case model.PolicyTimeOfDay:
		return p.byTimeOfDay(features), manifest, nil
	case model.PolicyObjects:
		return p.byObjects(features, manifest), manifest, nil
	case model.PolicyGradient:
		return p.gradient(features, opts.Gradient), manifest, nil
	case model.PolicyImage:
		lists, err := p.mosaic(features, opts.Image)
		return lists, manifest, err
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrPolicyUnsupported, policy)
	}
}

// scoredTrack orders bucket members: descending score, track ID on ties.
type scoredTrack struct {
	id    string
	score float64
}

func sortBucket(tracks []scoredTrack) []string {
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].score != tracks[j].score {
			return tracks[i].score > tracks[j].score
		}
		return tracks[i].id < tracks[j].id
	})
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.id
	}
	return ids
}

// collect turns buckets into named playlists, dropping those under the
// minimum size, sorted by name for a stable result.
func (p *Partitioner) collect(prefix string, buckets map[string][]scoredTrack) []Playlist {
	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	lists := make([]Playlist, 0, len(names))
	for _, name := range names {
		members := buckets[name]
		if len(members) < p.minTracks {
			continue
		}
		lists = append(lists, Playlist{
			Name:     prefix + " - " + name,
			TrackIDs: sortBucket(members),
		})
	}
	return lists
}

func (p *Partitioner) byColor(features []TrackFeatures) []Playlist {
	buckets := make(map[string][]scoredTrack)
	for _, f := range features {
		name := color.NameOf(f.Record.Colors.Dominant())
		proportion := 0.0
		if len(f.Record.Colors.Clusters) > 0 {
			proportion = f.Record.Colors.Clusters[0].Proportion
		}
		buckets[name] = append(buckets[name], scoredTrack{id: f.Track.ID, score: proportion})
	}

	lists := p.collect("Color", buckets)
	for i := range lists {
		name := strings.TrimPrefix(lists[i].Name, "Color - ")
		if c, ok := color.PaletteColor(name); ok {
			c := c
			lists[i].CoverColor = &c
		}
	}
	return lists
}

func (p *Partitioner) byMood(features []TrackFeatures) []Playlist {
	buckets := make(map[string][]scoredTrack)
	for _, f := range features {
		best := f.Mood.Best()
		buckets[string(best)] = append(buckets[string(best)], scoredTrack{id: f.Track.ID, score: f.Mood[best]})
	}
	return p.collect("Mood", buckets)
}

func (p *Partitioner) byTimeOfDay(features []TrackFeatures) []Playlist {
	buckets := make(map[string][]scoredTrack)
	for _, f := range features {
		// Smaller distance means stronger affinity.
		buckets[string(f.TimeBin)] = append(buckets[string(f.TimeBin)], scoredTrack{id: f.Track.ID, score: -f.TimeDistance})
	}
	return p.collect("Time", buckets)
}

// byObjects may place one track in several buckets: a cover with both a
// dog and a car belongs in both playlists. Tracks whose record carries no
// tags (detector down when the artwork was analyzed) are skipped and
// manifested.
func (p *Partitioner) byObjects(features []TrackFeatures, manifest *Manifest) []Playlist {
	buckets := make(map[string][]scoredTrack)
	for _, f := range features {
		if len(f.Record.Objects) == 0 {
			manifest.Failures[f.Track.ID] = "no object tags available"
			continue
		}
		for _, tag := range f.Record.Objects {
			buckets[tag.Label] = append(buckets[tag.Label], scoredTrack{id: f.Track.ID, score: tag.Confidence})
		}
	}
	return p.collect("Objects", buckets)
}

func (p *Partitioner) gradient(features []TrackFeatures, opts *model.GradientOptions) []Playlist {
	rule := model.StartMinHue
	if opts != nil && opts.StartRule != "" {
		rule = opts.StartRule
	}

	entries := make([]sequence.Entry, len(features))
	for i, f := range features {
		entries[i] = sequence.Entry{TrackID: f.Track.ID, Color: f.Record.Colors.BlendedColor}
	}

	plan := sequence.Order(entries, rule)
	return []Playlist{{Name: "Gradient", TrackIDs: plan.TrackIDs()}}
}

func (p *Partitioner) mosaic(features []TrackFeatures, opts *model.ImageOptions) ([]Playlist, error) {
	if opts == nil || len(opts.Target) == 0 {
		return nil, fmt.Errorf("image policy requires a target image")
	}

	img, err := artwork.Decode(opts.Target)
	if err != nil {
		return nil, err
	}

	grid, err := mosaic.TargetGrid(img, opts.GridWidth, opts.GridHeight)
	if err != nil {
		return nil, err
	}

	candidates := make([]mosaic.Candidate, len(features))
	for i, f := range features {
		candidates[i] = mosaic.Candidate{TrackID: f.Track.ID, Color: f.Record.Colors.BlendedColor}
	}

	plan, err := mosaic.Assign(grid, candidates)
	if err != nil {
		return nil, err
	}
	return []Playlist{{Name: "Mosaic", TrackIDs: plan.TrackIDs()}}, nil
}

func (p *Partitioner) vibes(pool []model.Track) []Playlist {
	groups, unclassified := vibes.Cluster(pool, vibes.DefaultClusters)

	lists := make([]Playlist, 0, len(groups)+1)
	for _, g := range groups {
		if len(g.TrackIDs) < p.minTracks {
			continue
		}
		lists = append(lists, Playlist{Name: "Vibes - " + g.Name, TrackIDs: g.TrackIDs})
	}
	if len(unclassified) >= p.minTracks {
		lists = append(lists, Playlist{Name: "Vibes - unclassified", TrackIDs: unclassified})
	}
	return lists
}
