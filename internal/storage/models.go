package storage

import (
	"database/sql"
	"time"
)

type assetData struct {
	ID         int64
	MissionID  int64
	FileName   string
	CapturedAt time.Time
	Metadata   sql.NullString
	CenterLat  sql.NullFloat64
	CenterLon  sql.NullFloat64
}

type annotationData struct {
	ID              int64
	AssetID         int64
	Label           string
	PixelPoints     string
	GeoPoints       sql.NullString
	CenterLat       sql.NullFloat64
	CenterLon       sql.NullFloat64
	FailedVertices  sql.NullInt64
	GeoreferencedAt sql.NullTime
}

type profileData struct {
	Name            string
	HorizontalFOV   float64
	FocalLengthPx   sql.NullFloat64
	PrincipalPointX sql.NullFloat64
	PrincipalPointY sql.NullFloat64
}
