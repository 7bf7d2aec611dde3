package playlist

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"ChromaFM/cache"
	"ChromaFM/core/artwork"
	"ChromaFM/core/lyrics"
	"ChromaFM/core/mood"
	"ChromaFM/core/objects"
	"ChromaFM/logger"
	"ChromaFM/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ArtworkFetcher resolves artwork to its bytes and content key. knownKey
// is the track's previously resolved key, empty on first sight.
type ArtworkFetcher interface {
	Fetch(ctx context.Context, url, knownKey string) ([]byte, string, error)
}

// ColorExtractor clusters an image into a color profile.
type ColorExtractor interface {
	Extract(img image.Image) (*model.ColorProfile, error)
}

// TrackFeatures joins a track with its cached artwork record and the
// per-track mood/time classification derived from it.
type TrackFeatures struct {
	Track        model.Track
	Record       *model.FeatureRecord
	Mood         model.MoodScores
	TimeBin      mood.TimeBin
	TimeDistance float64
}

// Manifest reports the per-track failures of one analysis batch. A batch
// overall succeeds as long as at least one track was processed.
type Manifest struct {
	BatchID  string            `json:"batchId"`
	Failures map[string]string `json:"failures,omitempty"` // track id -> reason
}

func newManifest() *Manifest {
	return &Manifest{
		BatchID:  uuid.NewString(),
		Failures: make(map[string]string),
	}
}

// Analyzer runs batch feature analysis through the shared feature cache.
// Expensive artwork analysis happens at most once per unique cover
// globally; the cheap per-track mood arithmetic runs every time.
type Analyzer struct {
	cache      *cache.Cache
	fetcher    ArtworkFetcher
	colors     ColorExtractor
	objects    *objects.Extractor
	sentiment  lyrics.SentimentProvider // nil yields neutral sentiment
	classifier *mood.Classifier
	workers    int
}

// NewAnalyzer wires the extractors together. sentiment may be nil.
func NewAnalyzer(c *cache.Cache, fetcher ArtworkFetcher, colors ColorExtractor,
	obj *objects.Extractor, sentiment lyrics.SentimentProvider, workers int) *Analyzer {
	if workers <= 0 {
		workers = 8
	}
	return &Analyzer{
		cache:      c,
		fetcher:    fetcher,
		colors:     colors,
		objects:    obj,
		sentiment:  sentiment,
		classifier: mood.NewClassifier(mood.DefaultWeights()),
		workers:    workers,
	}
}

// Analyze resolves features for every track in the pool. Per-track
// failures land in the manifest; the batch fails only when nothing could
// be analyzed at all.
func (a *Analyzer) Analyze(ctx context.Context, tracks []model.Track, moodOpts *model.MoodOptions) ([]TrackFeatures, *Manifest, error) {
	classifier := a.classifier
	if moodOpts != nil && len(moodOpts.Weights) > 0 {
		classifier = mood.NewClassifier(mood.DefaultWeights().Override(moodOpts.Weights))
	}

	manifest := newManifest()
	results := make([]TrackFeatures, 0, len(tracks))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for _, track := range tracks {
		track := track
		g.Go(func() error {
			tf, reason := a.analyzeOne(gctx, track, classifier)
			mu.Lock()
			defer mu.Unlock()
			if reason != "" {
				manifest.Failures[track.ID] = reason
				return nil
			}
			results = append(results, *tf)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, manifest, err
	}

	if len(results) == 0 && len(tracks) > 0 {
		return nil, manifest, fmt.Errorf("analysis batch %s failed for all %d tracks", manifest.BatchID, len(tracks))
	}

	if len(manifest.Failures) > 0 {
		logger.Warn("analysis batch completed with failures",
			logger.String("batchId", manifest.BatchID),
			logger.Int("analyzed", len(results)),
			logger.Int("failed", len(manifest.Failures)))
	}
	return results, manifest, nil
}

// analyzeOne returns the track's features, or a failure reason.
func (a *Analyzer) analyzeOne(ctx context.Context, track model.Track, classifier *mood.Classifier) (*TrackFeatures, string) {
	if track.ArtworkURL == "" && track.ArtworkKey == "" {
		return nil, "track has no artwork"
	}

	data, key, err := a.fetcher.Fetch(ctx, track.ArtworkURL, track.ArtworkKey)
	if err != nil {
		return nil, fmt.Sprintf("artwork fetch failed: %v", err)
	}

	record, err := a.cache.GetOrCompute(ctx, key, func(cctx context.Context) (*model.FeatureRecord, error) {
		return a.computeRecord(cctx, track, key, data, classifier)
	})
	if err != nil {
		if errors.Is(err, artwork.ErrDecode) {
			return nil, "artwork could not be decoded"
		}
		return nil, fmt.Sprintf("feature computation failed: %v", err)
	}

	sentiment := 0.0
	if a.sentiment != nil {
		polarity, err := a.sentiment.Sentiment(ctx, track.Title, track.Artist)
		if err != nil {
			logger.Debug("sentiment unavailable, using neutral",
				logger.String("trackId", track.ID), logger.ErrorField(err))
		} else {
			sentiment = polarity
		}
	}

	scores := classifier.Score(&record.Colors, track.Audio, sentiment)
	bin, dist := classifier.TimeOfDay(&record.Colors, track.Audio)

	return &TrackFeatures{
		Track:        track,
		Record:       record,
		Mood:         scores,
		TimeBin:      bin,
		TimeDistance: dist,
	}, ""
}

// computeRecord is the cache-miss path: full artwork analysis. Object
// detection failing is a degradation, not a batch failure; the record is
// stored without tags and object policies skip the affected tracks.
func (a *Analyzer) computeRecord(ctx context.Context, track model.Track, key string, data []byte, classifier *mood.Classifier) (*model.FeatureRecord, error) {
	img, err := artwork.Decode(data)
	if err != nil {
		return nil, err
	}

	profile, err := a.colors.Extract(img)
	if err != nil {
		return nil, fmt.Errorf("color extraction failed: %w", err)
	}

	var tags []model.ObjectTag
	if a.objects.Available() {
		tags, err = a.objects.Extract(ctx, data)
		if err != nil {
			if !errors.Is(err, objects.ErrUnavailable) {
				return nil, fmt.Errorf("object extraction failed: %w", err)
			}
			logger.Warn("object detection degraded for artwork",
				logger.String("artworkKey", key), logger.ErrorField(err))
			tags = nil
		}
	}

	return &model.FeatureRecord{
		ArtworkKey: key,
		TrackID:    track.ID,
		Colors:     *profile,
		Objects:    tags,
		Mood:       classifier.Score(profile, track.Audio, 0),
		ComputedAt: time.Now().UTC(),
	}, nil
}
