package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/camera"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/metadata"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/mission"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()

	store := NewSqliteStore(filepath.Join(t.TempDir(), "mission.sqlite"))
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return store
}

func seedMission(t *testing.T, store *SqliteStore) int64 {
	t.Helper()

	id, err := store.CreateMission(context.Background(), &mission.Mission{
		Name:    "north paddock survey",
		FlownAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("creating mission: %v", err)
	}
	return id
}

func TestMissionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	id := seedMission(t, store)

	m, err := store.Mission(ctx, id)
	if err != nil {
		t.Fatalf("loading mission: %v", err)
	}
	if m.ID != id {
		t.Errorf("expected mission ID %d, got %d", id, m.ID)
	}
	if m.Name != "north paddock survey" {
		t.Errorf("unexpected mission name %q", m.Name)
	}
	if !m.FlownAt.Equal(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected flight time %v", m.FlownAt)
	}

	missions, err := store.Missions(ctx)
	if err != nil {
		t.Fatalf("listing missions: %v", err)
	}
	if len(missions) != 1 {
		t.Fatalf("expected 1 mission, got %d", len(missions))
	}
}

func TestAssetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	missionID := seedMission(t, store)

	assetID, err := store.StoreAsset(ctx, missionID, &mission.Asset{
		FileName:   "DJI_0042.JPG",
		CapturedAt: time.Date(2026, 3, 14, 9, 31, 12, 0, time.UTC),
		Metadata: map[string]any{
			"latitude":         -27.5,
			"longitude":        152.9,
			"gimbalPitch":      -90.0,
			"cameraProfile":    "zenmuse-p1",
			"imageWidth":       4000.0,
			"imageHeight":      3000.0,
			"horizontalFov":    84.0,
			"flightYaw":        12.5,
			"absoluteAltitude": 131.2,
		},
	})
	if err != nil {
		t.Fatalf("storing asset: %v", err)
	}

	assets, err := store.Assets(ctx, missionID)
	if err != nil {
		t.Fatalf("loading assets: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(assets))
	}

	a := assets[0]
	if a.ID != assetID || a.MissionID != missionID {
		t.Errorf("unexpected asset identity: %+v", a)
	}
	if a.FileName != "DJI_0042.JPG" {
		t.Errorf("unexpected file name %q", a.FileName)
	}
	if v, ok := a.Metadata["gimbalPitch"].(float64); !ok || v != -90 {
		t.Errorf("metadata bundle did not survive the round trip: %v", a.Metadata)
	}
	if a.CenterLat != nil || a.CenterLon != nil {
		t.Error("expected no footprint center before georeferencing")
	}

	if err = store.UpdateAssetCenter(ctx, assetID, -27.5001, 152.9002); err != nil {
		t.Fatalf("updating asset center: %v", err)
	}
	assets, err = store.Assets(ctx, missionID)
	if err != nil {
		t.Fatalf("reloading assets: %v", err)
	}
	if assets[0].CenterLat == nil || *assets[0].CenterLat != -27.5001 {
		t.Errorf("expected center latitude -27.5001, got %v", assets[0].CenterLat)
	}
}

func TestAnnotationGeoreferenceLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	missionID := seedMission(t, store)

	assetID, err := store.StoreAsset(ctx, missionID, &mission.Asset{
		FileName:   "DJI_0001.JPG",
		CapturedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("storing asset: %v", err)
	}

	ids, err := store.StoreAnnotations(ctx, assetID, []*mission.Annotation{
		{Label: "weed patch", Pixels: []camera.PixelPoint{{X: 10, Y: 10}, {X: 40, Y: 10}, {X: 40, Y: 30}}},
		{Label: "dam", Pixels: []camera.PixelPoint{{X: 100, Y: 200}}},
	})
	if err != nil {
		t.Fatalf("storing annotations: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 annotation IDs, got %d", len(ids))
	}

	annotations, err := store.Annotations(ctx, assetID)
	if err != nil {
		t.Fatalf("loading annotations: %v", err)
	}
	if len(annotations) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(annotations))
	}
	if annotations[0].Geo != nil {
		t.Error("expected no georeference before projection")
	}
	if len(annotations[0].Pixels) != 3 {
		t.Errorf("pixel polygon did not survive the round trip: %v", annotations[0].Pixels)
	}

	computedAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	g := mission.Georeference{
		Points: []geo.Point{
			{Latitude: -27.5001, Longitude: 152.9001},
			{Latitude: -27.5001, Longitude: 152.9003},
			{Latitude: -27.4999, Longitude: 152.9003},
			{Latitude: -27.5001, Longitude: 152.9001},
		},
		Centroid:       &geo.Point{Latitude: -27.5000, Longitude: 152.9002},
		FailedVertices: 1,
		ComputedAt:     computedAt,
	}
	if err = store.UpdateAnnotationGeoreference(ctx, ids[0], &g); err != nil {
		t.Fatalf("updating georeference: %v", err)
	}

	annotations, err = store.Annotations(ctx, assetID)
	if err != nil {
		t.Fatalf("reloading annotations: %v", err)
	}

	got := annotations[0].Geo
	if got == nil {
		t.Fatal("expected a persisted georeference")
	}
	if len(got.Points) != 4 {
		t.Errorf("expected 4 ring points, got %d", len(got.Points))
	}
	if got.Centroid == nil || got.Centroid.Latitude != -27.5 {
		t.Errorf("unexpected centroid %v", got.Centroid)
	}
	if got.FailedVertices != 1 {
		t.Errorf("expected 1 failed vertex, got %d", got.FailedVertices)
	}
	if !got.ComputedAt.Equal(computedAt) {
		t.Errorf("expected computed time %v, got %v", computedAt, got.ComputedAt)
	}

	// nil keeps the existing coordinates in place
	if err = store.UpdateAnnotationGeoreference(ctx, ids[0], nil); err != nil {
		t.Fatalf("nil georeference update: %v", err)
	}
	annotations, err = store.Annotations(ctx, assetID)
	if err != nil {
		t.Fatalf("reloading annotations: %v", err)
	}
	if annotations[0].Geo == nil || len(annotations[0].Geo.Points) != 4 {
		t.Error("nil update must not clear the persisted georeference")
	}
}

func TestCameraProfileUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedMission(t, store) // initializes the schema through the write path

	focal := 3666.666
	if err := store.UpsertProfile(ctx, &metadata.CameraProfile{
		Name:             "zenmuse-p1",
		HorizontalFOVDeg: 63.5,
		FocalLengthPx:    &focal,
	}); err != nil {
		t.Fatalf("upserting profile: %v", err)
	}

	p, err := store.Profile(ctx, "zenmuse-p1")
	if err != nil {
		t.Fatalf("loading profile: %v", err)
	}
	if p == nil {
		t.Fatal("expected a profile")
	}
	if p.HorizontalFOVDeg != 63.5 {
		t.Errorf("unexpected FOV %v", p.HorizontalFOVDeg)
	}
	if p.FocalLengthPx == nil || *p.FocalLengthPx != focal {
		t.Errorf("unexpected focal length %v", p.FocalLengthPx)
	}
	if p.PrincipalPointXPx != nil {
		t.Error("expected nil principal point")
	}

	// second upsert replaces the calibration
	if err = store.UpsertProfile(ctx, &metadata.CameraProfile{
		Name:             "zenmuse-p1",
		HorizontalFOVDeg: 62.0,
	}); err != nil {
		t.Fatalf("re-upserting profile: %v", err)
	}
	if p, err = store.Profile(ctx, "zenmuse-p1"); err != nil {
		t.Fatalf("reloading profile: %v", err)
	}
	if p.HorizontalFOVDeg != 62.0 {
		t.Errorf("expected replaced FOV 62.0, got %v", p.HorizontalFOVDeg)
	}
	if p.FocalLengthPx != nil {
		t.Error("expected replaced profile to drop the focal length")
	}

	if p, err = store.Profile(ctx, "unknown-camera"); err != nil {
		t.Fatalf("unknown profile lookup: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for an unknown profile, got %+v", p)
	}
}
