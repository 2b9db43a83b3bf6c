package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/camera"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/geo"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/metadata"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/mission"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func toAsset(data *assetData) (*mission.Asset, error) {
	a := mission.Asset{
		ID:         data.ID,
		MissionID:  data.MissionID,
		FileName:   data.FileName,
		CapturedAt: data.CapturedAt,
		CenterLat:  floatPtr(data.CenterLat),
		CenterLon:  floatPtr(data.CenterLon),
	}

	if data.Metadata.Valid && data.Metadata.String != "" {
		if err := json.Unmarshal([]byte(data.Metadata.String), &a.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling asset metadata: %w", err)
		}
	}
	return &a, nil
}

func toAnnotation(data *annotationData) (*mission.Annotation, error) {
	a := mission.Annotation{
		ID:      data.ID,
		AssetID: data.AssetID,
		Label:   data.Label,
	}

	if err := json.Unmarshal([]byte(data.PixelPoints), &a.Pixels); err != nil {
		return nil, fmt.Errorf("unmarshaling pixel points: %w", err)
	}

	if data.GeoreferencedAt.Valid {
		g := mission.Georeference{ComputedAt: data.GeoreferencedAt.Time}
		if data.GeoPoints.Valid && data.GeoPoints.String != "" {
			if err := json.Unmarshal([]byte(data.GeoPoints.String), &g.Points); err != nil {
				return nil, fmt.Errorf("unmarshaling geo points: %w", err)
			}
		}
		if data.CenterLat.Valid && data.CenterLon.Valid {
			g.Centroid = &geo.Point{
				Latitude:  data.CenterLat.Float64,
				Longitude: data.CenterLon.Float64,
			}
		}
		if data.FailedVertices.Valid {
			g.FailedVertices = int(data.FailedVertices.Int64)
		}
		a.Geo = &g
	}
	return &a, nil
}

func toProfile(data *profileData) *metadata.CameraProfile {
	return &metadata.CameraProfile{
		Name:              data.Name,
		HorizontalFOVDeg:  data.HorizontalFOV,
		FocalLengthPx:     floatPtr(data.FocalLengthPx),
		PrincipalPointXPx: floatPtr(data.PrincipalPointX),
		PrincipalPointYPx: floatPtr(data.PrincipalPointY),
	}
}

func marshalPixels(pixels []camera.PixelPoint) (string, error) {
	p, err := json.Marshal(pixels)
	if err != nil {
		return "", fmt.Errorf("marshaling pixel points: %w", err)
	}
	return string(p), nil
}

func marshalGeoPoints(points []geo.Point) (string, error) {
	p, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("marshaling geo points: %w", err)
	}
	return string(p), nil
}

func marshalMetadata(bundle map[string]any) (sql.NullString, error) {
	if bundle == nil {
		return sql.NullString{}, nil
	}

	p, err := json.Marshal(bundle)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshaling metadata: %w", err)
	}
	return sql.NullString{String: string(p), Valid: true}, nil
}
