package vibes

import (
	"testing"

	"ChromaFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterWithoutAudioFeatures(t *testing.T) {
	tracks := []model.Track{
		{ID: "c"}, {ID: "a"}, {ID: "b"},
	}

	groups, unclassified := Cluster(tracks, 2)
	assert.Nil(t, groups)
	assert.Equal(t, []string{"a", "b", "c"}, unclassified)
}

func TestClusterFewerTracksThanClusters(t *testing.T) {
	tracks := []model.Track{
		{ID: "t1", Audio: &model.AudioFeatures{Energy: 0.9, Valence: 0.8}},
		{ID: "t2", Audio: &model.AudioFeatures{Energy: 0.1, Valence: 0.2}},
		{ID: "noAudio"},
	}

	groups, unclassified := Cluster(tracks, 4)
	assert.Nil(t, groups, "fewer classifiable tracks than clusters cannot form groups")
	assert.Equal(t, []string{"noAudio", "t1", "t2"}, unclassified)
}

func TestClusterPartitionsEveryClassifiableTrack(t *testing.T) {
	tracks := make([]model.Track, 0, 21)
	for i := 0; i < 10; i++ {
		tracks = append(tracks, model.Track{
			ID:    idFor("hi", i),
			Audio: &model.AudioFeatures{Energy: 0.9, Valence: 0.85, Danceability: 0.8, Acousticness: 0.1},
		})
	}
	for i := 0; i < 10; i++ {
		tracks = append(tracks, model.Track{
			ID:    idFor("lo", i),
			Audio: &model.AudioFeatures{Energy: 0.1, Valence: 0.2, Danceability: 0.15, Acousticness: 0.9},
		})
	}
	tracks = append(tracks, model.Track{ID: "silent"})

	groups, unclassified := Cluster(tracks, 2)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"silent"}, unclassified)

	total := 0
	seen := make(map[string]bool)
	for _, g := range groups {
		assert.NotEmpty(t, g.Name)
		assert.NotEmpty(t, g.Centroid)
		total += len(g.TrackIDs)
		for _, id := range g.TrackIDs {
			assert.False(t, seen[id], "track %s assigned twice", id)
			seen[id] = true
		}
	}
	assert.Equal(t, 20, total)
}

func TestNameForCentroids(t *testing.T) {
	assert.Equal(t, "upbeat party", nameFor(map[string]float64{"energy": 0.8, "valence": 0.7}))
	assert.Equal(t, "dark drive", nameFor(map[string]float64{"energy": 0.8, "valence": 0.2}))
	assert.Equal(t, "mellow acoustic", nameFor(map[string]float64{"acousticness": 0.7, "energy": 0.3, "valence": 0.5}))
	assert.Equal(t, "blue hour", nameFor(map[string]float64{"energy": 0.4, "valence": 0.2}))
	assert.Equal(t, "late groove", nameFor(map[string]float64{"danceability": 0.8, "energy": 0.5, "valence": 0.5}))
	assert.Equal(t, "steady rotation", nameFor(map[string]float64{"energy": 0.5, "valence": 0.5}))
}

func idFor(prefix string, i int) string {
	return prefix + string(rune('a'+i))
}
