package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/metadata"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/projection"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/storage"
)

// Run renders a mission overview map: the ground footprint of every image
// and the georeferenced annotation polygons on one scaled canvas.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	data, err := readMission(ctx, store, config.MissionID, logger)
	if err != nil {
		return err
	}

	logger.Info("rendering mission map",
		slog.String("mission", data.MissionName),
		slog.Int("footprints", len(data.Footprints)),
		slog.Int("annotations", len(data.Annotations)),
		slog.String("destination", config.OutputFile))

	renderer := NewMapRenderer(config.CanvasWidth, !config.NoAnnotations)
	img, err := renderer.Render(data)
	if err != nil {
		return err
	}

	if !config.NoAnnotations {
		if config.FontPath == "" {
			logger.Warn("no font provided, skipping the info panel")
		} else {
			annotator, err := NewAnnotator(config.FontPath)
			if err != nil {
				return err
			}
			if err = annotator.Annotate(img, data); err != nil {
				return err
			}
		}
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}

// readMission loads a mission and rebuilds each image footprint from the
// asset's metadata bundle. Annotation rings come straight from their
// persisted georeferencing results.
func readMission(ctx context.Context, store storage.Store, missionID int64, logger *slog.Logger) (*MapData, error) {
	m, err := store.Mission(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("loading mission %d: %w", missionID, err)
	}

	assets, err := store.Assets(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("loading mission assets: %w", err)
	}

	extractor := metadata.NewExtractor(metadata.WithProfiles(store))
	projector, err := projection.New(projection.NewConfig(projection.FlatGround))
	if err != nil {
		return nil, err
	}

	data := MapData{
		MissionName: m.Name,
		FlownAt:     m.FlownAt,
		AssetCount:  len(assets),
	}

	for _, asset := range assets {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		pose := extractor.Extract(ctx, asset.Metadata)
		if err := pose.Validate(); err != nil {
			logger.Debug("skipping asset with unusable pose",
				slog.Int64("assetID", asset.ID),
				slog.String("error", err.Error()))
			continue
		}

		if footprint := projection.Footprint(pose, projector); footprint.Georeferenced() {
			data.Footprints = append(data.Footprints, footprint.Points)
		}

		annotations, err := store.Annotations(ctx, asset.ID)
		if err != nil {
			return nil, fmt.Errorf("loading asset %d annotations: %w", asset.ID, err)
		}
		for _, annotation := range annotations {
			if annotation.Geo == nil || len(annotation.Geo.Points) == 0 {
				continue
			}
			data.Annotations = append(data.Annotations, annotation.Geo.Points)
			if annotation.Geo.Centroid != nil {
				data.Centroids = append(data.Centroids, *annotation.Geo.Centroid)
			}
		}
	}

	return &data, nil
}
