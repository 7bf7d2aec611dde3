// Package vibes groups tracks by audio-feature similarity. Unlike the
// mood classifier, which scores against fixed templates, this discovers
// the listener's own clusters with k-means.
package vibes

import (
	"sort"

	"ChromaFM/logger"
	"ChromaFM/model"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// featureNames defines the audio features used for clustering.
var featureNames = []string{"energy", "valence", "danceability", "acousticness"}

// Group is one discovered cluster of tracks.
type Group struct {
	Name     string
	TrackIDs []string
	Centroid map[string]float64
}

// DefaultClusters is the number of vibe groups formed by default.
const DefaultClusters = 4

type trackObservation struct {
	trackID string
	coords  clusters.Coordinates
}

func (o trackObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o trackObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Cluster partitions tracks into k vibe groups. Tracks without audio
// features cannot be placed and come back in the unclassified list, as do
// all tracks when there are fewer classifiable tracks than clusters.
func Cluster(tracks []model.Track, k int) ([]Group, []string) {
	if k <= 0 {
		k = DefaultClusters
	}

	var obs clusters.Observations
	var unclassified []string
	for _, t := range tracks {
		if t.Audio == nil {
			unclassified = append(unclassified, t.ID)
			continue
		}
		obs = append(obs, trackObservation{
			trackID: t.ID,
			coords: clusters.Coordinates{
				t.Audio.Energy,
				t.Audio.Valence,
				t.Audio.Danceability,
				t.Audio.Acousticness,
			},
		})
	}

	if len(obs) < k {
		for _, o := range obs {
			unclassified = append(unclassified, o.(trackObservation).trackID)
		}
		sort.Strings(unclassified)
		return nil, unclassified
	}

	km := kmeans.New()
	result, err := km.Partition(obs, k)
	if err != nil {
		logger.Warn("vibe clustering failed", logger.ErrorField(err))
		for _, o := range obs {
			unclassified = append(unclassified, o.(trackObservation).trackID)
		}
		sort.Strings(unclassified)
		return nil, unclassified
	}

	groups := make([]Group, 0, len(result))
	for _, cluster := range result {
		centroid := make(map[string]float64, len(featureNames))
		for i, name := range featureNames {
			if i < len(cluster.Center) {
				centroid[name] = cluster.Center[i]
			}
		}

		var ids []string
		for _, o := range cluster.Observations {
			if to, ok := o.(trackObservation); ok {
				ids = append(ids, to.trackID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		sort.Strings(ids)

		groups = append(groups, Group{
			Name:     nameFor(centroid),
			TrackIDs: ids,
			Centroid: centroid,
		})
	}

	// Stable group order: by name, then by first track.
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Name != groups[j].Name {
			return groups[i].Name < groups[j].Name
		}
		return groups[i].TrackIDs[0] < groups[j].TrackIDs[0]
	})

	// Disambiguate duplicate names.
	seen := make(map[string]int)
	for i := range groups {
		seen[groups[i].Name]++
		if n := seen[groups[i].Name]; n > 1 {
			groups[i].Name = groups[i].Name + " " + roman(n)
		}
	}

	sort.Strings(unclassified)
	return groups, unclassified
}

// nameFor derives a human-readable vibe name from a cluster centroid.
func nameFor(c map[string]float64) string {
	energy := c["energy"]
	valence := c["valence"]
	dance := c["danceability"]
	acoustic := c["acousticness"]

	switch {
	case energy >= 0.65 && valence >= 0.55:
		return "upbeat party"
	case energy >= 0.65 && valence < 0.45:
		return "dark drive"
	case acoustic >= 0.55 && energy < 0.45:
		return "mellow acoustic"
	case valence < 0.35 && energy < 0.5:
		return "blue hour"
	case dance >= 0.65:
		return "late groove"
	default:
		return "steady rotation"
	}
}

func roman(n int) string {
	switch n {
	case 2:
		return "II"
	case 3:
		return "III"
	case 4:
		return "IV"
	default:
		return "V"
	}
}
