package storage

import (
	"context"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/metadata"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/mission"
)

// Store provides an interface for managing mission imagery storage
// operations: missions, image assets with their raw metadata bundles,
// annotations and georeferencing results. All write operations should be
// considered atomic.
type Store interface {
	// CreateMission registers a new flight and returns its unique identifier.
	CreateMission(ctx context.Context, m *mission.Mission) (missionID int64, err error)

	// Mission retrieves a mission by its ID.
	Mission(ctx context.Context, id int64) (*mission.Mission, error)

	// Missions returns all missions, ordered by flight time ascending.
	Missions(ctx context.Context) ([]*mission.Mission, error)

	// StoreAsset saves an image asset and its raw metadata bundle under a
	// mission and returns the asset ID.
	StoreAsset(ctx context.Context, missionID int64, a *mission.Asset) (assetID int64, err error)

	// Assets returns all assets of a mission, ordered by capture time.
	Assets(ctx context.Context, missionID int64) ([]*mission.Asset, error)

	// UpdateAssetCenter persists the georeferenced footprint centroid of an
	// asset.
	UpdateAssetCenter(ctx context.Context, assetID int64, lat, lon float64) error

	// StoreAnnotations saves annotations for an asset in a single
	// transaction and returns their IDs in input order.
	StoreAnnotations(ctx context.Context, assetID int64, annotations []*mission.Annotation) ([]int64, error)

	// Annotations returns all annotations of an asset, including any
	// previously persisted georeferencing results.
	Annotations(ctx context.Context, assetID int64) ([]*mission.Annotation, error)

	// UpdateAnnotationGeoreference persists the outcome of projecting one
	// annotation. Existing geo coordinates are kept when g is nil.
	UpdateAnnotationGeoreference(ctx context.Context, annotationID int64, g *mission.Georeference) error

	// Profile implements metadata.ProfileStore: calibrated camera intrinsics
	// by profile name, nil when unknown.
	Profile(ctx context.Context, name string) (*metadata.CameraProfile, error)

	// UpsertProfile creates or replaces a camera profile.
	UpsertProfile(ctx context.Context, p *metadata.CameraProfile) error

	// Close releases all database connections. Safe to call multiple times.
	Close() error
}
