package storage

import (
	_ "embed"
)

//go:embed schema.sql
var initSchemaSQL string

const (
	insertMissionSQL = `
INSERT INTO missions (name, flown_at)
VALUES (?, ?)`

	selectMissionSQL = `
SELECT
    id,
    name,
    flown_at
FROM missions
WHERE
    id = ?`

	selectMissionsSQL = `
SELECT
    id,
    name,
    flown_at
FROM missions
ORDER BY flown_at`

	insertAssetSQL = `
INSERT INTO assets (mission_id,
                    file_name,
                    captured_at,
                    metadata)
VALUES (?, ?, ?, ?)`

	selectAssetsSQL = `
SELECT
    id,
    mission_id,
    file_name,
    captured_at,
    metadata,
    center_lat,
    center_lon
FROM assets
WHERE
    mission_id = ?
ORDER BY captured_at, id`

	updateAssetCenterSQL = `
UPDATE assets
SET center_lat = ?,
    center_lon = ?
WHERE id = ?`

	insertAnnotationSQL = `
INSERT INTO annotations (asset_id,
                         label,
                         pixel_points)
VALUES (?, ?, ?)`

	selectAnnotationsSQL = `
SELECT
    id,
    asset_id,
    label,
    pixel_points,
    geo_points,
    center_lat,
    center_lon,
    failed_vertices,
    georeferenced_at
FROM annotations
WHERE
    asset_id = ?
ORDER BY id`

	updateAnnotationGeoSQL = `
UPDATE annotations
SET geo_points       = ?,
    center_lat       = ?,
    center_lon       = ?,
    failed_vertices  = ?,
    georeferenced_at = ?
WHERE id = ?`

	selectProfileSQL = `
SELECT
    name,
    horizontal_fov,
    focal_length_px,
    principal_point_x,
    principal_point_y
FROM camera_profiles
WHERE
    name = ?`

	upsertProfileSQL = `
INSERT INTO camera_profiles (name,
                             horizontal_fov,
                             focal_length_px,
                             principal_point_x,
                             principal_point_y)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET horizontal_fov    = excluded.horizontal_fov,
                                 focal_length_px   = excluded.focal_length_px,
                                 principal_point_x = excluded.principal_point_x,
                                 principal_point_y = excluded.principal_point_y`
)
