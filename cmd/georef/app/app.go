package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/metadata"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/mission"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/projection"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/storage"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/terrain"
)

// Run georeferences every annotation of a mission: it loads the mission
// assets, rebuilds a camera pose from each asset's metadata bundle, projects
// the annotation polygons to geographic coordinates and persists the results.
func Run(ctx context.Context, config *Config, missionID int64, logger *slog.Logger) error {
	if _, err := os.Stat(config.Database.Path); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.Database.Path, err)
	}

	store := storage.NewSqliteStore(config.Database.Path)
	defer store.Close()

	projector, err := newProjector(config)
	if err != nil {
		return err
	}

	extractor := metadata.NewExtractor(
		metadata.WithDefaults(config.extractorDefaults()),
		metadata.WithProfiles(store),
		metadata.WithPitchConvention(config.pitchConvention()),
	)

	return georeference(ctx, store, projector, extractor, config, missionID, logger)
}

func newProjector(config *Config) (*projection.Projector, error) {
	cfg := projection.NewConfig(config.variant())
	if config.Projection.MaxIterations > 0 {
		cfg.MaxIterations = config.Projection.MaxIterations
	}
	if config.Projection.ConvergenceMeters > 0 {
		cfg.ConvergenceMeters = config.Projection.ConvergenceMeters
	}
	if config.Projection.GeoidCorrection != nil {
		cfg.GeoidCorrection = *config.Projection.GeoidCorrection
	}

	if cfg.Variant == projection.TerrainAware {
		grid, err := terrain.LoadASCIIGrid(config.Terrain.GridPath)
		if err != nil {
			return nil, fmt.Errorf("loading elevation grid: %w", err)
		}
		cfg.DSM = grid
	}

	return projection.New(cfg)
}

func georeference(
	ctx context.Context,
	store storage.Store,
	projector *projection.Projector,
	extractor *metadata.Extractor,
	config *Config,
	missionID int64,
	logger *slog.Logger,
) error {
	m, err := store.Mission(ctx, missionID)
	if err != nil {
		return fmt.Errorf("loading mission %d: %w", missionID, err)
	}

	assets, err := store.Assets(ctx, missionID)
	if err != nil {
		return fmt.Errorf("loading mission assets: %w", err)
	}

	logger.Info("georeferencing mission",
		slog.String("mission", m.Name),
		slog.String("variant", projector.Variant().String()),
		slog.String("assets", humanize.Comma(int64(len(assets)))))

	var stats runStats
	for _, asset := range assets {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = processAsset(ctx, store, projector, extractor, config, asset, &stats, logger); err != nil {
			return err
		}
	}

	logger.Info("mission georeferenced",
		slog.String("assets", humanize.Comma(stats.assets)),
		slog.String("skippedAssets", humanize.Comma(stats.skippedAssets)),
		slog.String("annotations", humanize.Comma(stats.annotations)),
		slog.String("georeferenced", humanize.Comma(stats.georeferenced)),
		slog.String("degraded", humanize.Comma(stats.degraded)),
		slog.String("failed", humanize.Comma(stats.failed)))
	return nil
}

type runStats struct {
	assets        int64
	skippedAssets int64
	annotations   int64
	georeferenced int64
	degraded      int64
	failed        int64
}

func processAsset(
	ctx context.Context,
	store storage.Store,
	projector *projection.Projector,
	extractor *metadata.Extractor,
	config *Config,
	asset *mission.Asset,
	stats *runStats,
	logger *slog.Logger,
) error {
	pose := extractor.Extract(ctx, asset.Metadata)
	if err := pose.Validate(); err != nil {
		logger.Warn("skipping asset with unusable pose",
			slog.Int64("assetID", asset.ID),
			slog.String("file", asset.FileName),
			slog.String("error", err.Error()))

		stats.skippedAssets++
		return nil
	}

	stats.assets++

	if footprint := projection.Footprint(pose, projector); footprint.Georeferenced() {
		c := footprint.Centroid
		if err := store.UpdateAssetCenter(ctx, asset.ID, c.Latitude, c.Longitude); err != nil {
			return fmt.Errorf("updating asset %d center: %w", asset.ID, err)
		}
	}

	annotations, err := store.Annotations(ctx, asset.ID)
	if err != nil {
		return fmt.Errorf("loading asset %d annotations: %w", asset.ID, err)
	}
	if len(annotations) == 0 {
		return nil
	}

	results := projectAnnotations(ctx, annotations, pose, projector, config.Workers)

	computedAt := time.Now().UTC()
	for i, annotation := range annotations {
		stats.annotations++

		result := results[i]
		if !result.Georeferenced() {
			stats.failed++

			logger.Warn("annotation could not be georeferenced",
				slog.Int64("annotationID", annotation.ID),
				slog.String("label", annotation.Label))

			// nil keeps any previously persisted coordinates in place
			if err = store.UpdateAnnotationGeoreference(ctx, annotation.ID, nil); err != nil {
				return fmt.Errorf("updating annotation %d: %w", annotation.ID, err)
			}
			continue
		}

		if result.Degraded() {
			stats.degraded++

			logger.Debug("annotation georeferenced with dropped vertices",
				slog.Int64("annotationID", annotation.ID),
				slog.Int("failedVertices", result.FailedVertices))
		}
		stats.georeferenced++

		g := mission.Georeference{
			Points:         result.Points,
			Centroid:       result.Centroid,
			FailedVertices: result.FailedVertices,
			ComputedAt:     computedAt,
		}
		if err = store.UpdateAnnotationGeoreference(ctx, annotation.ID, &g); err != nil {
			return fmt.Errorf("updating annotation %d: %w", annotation.ID, err)
		}
	}

	return nil
}
