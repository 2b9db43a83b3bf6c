package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/metadata"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/mission"
)

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new database connection and initializes the
// schema using the Sqlite database
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateMission(ctx context.Context, m *mission.Mission) (missionID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertMissionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, m.Name, m.FlownAt.UTC())
	if err != nil {
		err = fmt.Errorf("inserting mission: %w", err)
		return
	}

	missionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting mission ID: %w", err)
	}
	return
}

func (s *SqliteStore) Mission(ctx context.Context, id int64) (m *mission.Mission, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectMissionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var row mission.Mission
	if err = stmt.QueryRowContext(ctx, id).Scan(&row.ID, &row.Name, &row.FlownAt); err != nil {
		err = fmt.Errorf("scanning mission: %w", err)
		return
	}
	return &row, nil
}

func (s *SqliteStore) Missions(ctx context.Context) (missions []*mission.Mission, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectMissionsSQL)
	if err != nil {
		err = fmt.Errorf("querying missions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var row mission.Mission
		if err = rows.Scan(&row.ID, &row.Name, &row.FlownAt); err != nil {
			err = fmt.Errorf("scanning mission: %w", err)
			return
		}
		missions = append(missions, &row)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) StoreAsset(ctx context.Context, missionID int64, a *mission.Asset) (assetID int64, err error) {
	meta, err := marshalMetadata(a.Metadata)
	if err != nil {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertAssetSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, missionID, a.FileName, a.CapturedAt.UTC(), meta)
	if err != nil {
		err = fmt.Errorf("inserting asset: %w", err)
		return
	}

	assetID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting asset ID: %w", err)
	}
	return
}

func (s *SqliteStore) Assets(ctx context.Context, missionID int64) (assets []*mission.Asset, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectAssetsSQL, missionID)
	if err != nil {
		err = fmt.Errorf("querying assets: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data assetData
		if err = rows.Scan(
			&data.ID,
			&data.MissionID,
			&data.FileName,
			&data.CapturedAt,
			&data.Metadata,
			&data.CenterLat,
			&data.CenterLon,
		); err != nil {
			err = fmt.Errorf("scanning asset: %w", err)
			return
		}

		var a *mission.Asset
		if a, err = toAsset(&data); err != nil {
			return
		}
		assets = append(assets, a)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) UpdateAssetCenter(ctx context.Context, assetID int64, lat, lon float64) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, updateAssetCenterSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if _, err = stmt.ExecContext(ctx, lat, lon, assetID); err != nil {
		return fmt.Errorf("updating asset center: %w", err)
	}
	return
}

func (s *SqliteStore) StoreAnnotations(ctx context.Context, assetID int64, annotations []*mission.Annotation) (ids []int64, err error) {
	if len(annotations) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return nil, fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, insertAnnotationSQL)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	ids = make([]int64, 0, len(annotations))
	for _, a := range annotations {
		var pixels string
		if pixels, err = marshalPixels(a.Pixels); err != nil {
			return nil, err
		}

		var result sql.Result
		if result, err = stmt.ExecContext(ctx, assetID, a.Label, pixels); err != nil {
			return nil, fmt.Errorf("inserting annotation: %w", err)
		}

		var id int64
		if id, err = result.LastInsertId(); err != nil {
			return nil, fmt.Errorf("getting annotation ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return ids, nil
}

func (s *SqliteStore) Annotations(ctx context.Context, assetID int64) (annotations []*mission.Annotation, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectAnnotationsSQL, assetID)
	if err != nil {
		err = fmt.Errorf("querying annotations: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data annotationData
		if err = rows.Scan(
			&data.ID,
			&data.AssetID,
			&data.Label,
			&data.PixelPoints,
			&data.GeoPoints,
			&data.CenterLat,
			&data.CenterLon,
			&data.FailedVertices,
			&data.GeoreferencedAt,
		); err != nil {
			err = fmt.Errorf("scanning annotation: %w", err)
			return
		}

		var a *mission.Annotation
		if a, err = toAnnotation(&data); err != nil {
			return
		}
		annotations = append(annotations, a)
	}
	err = rows.Err()
	return
}

// UpdateAnnotationGeoreference persists a projection outcome. A nil
// georeference is a no-op: failed conversions keep whatever geo coordinates
// the annotation already has.
func (s *SqliteStore) UpdateAnnotationGeoreference(ctx context.Context, annotationID int64, g *mission.Georeference) (err error) {
	if g == nil {
		return
	}

	var points sql.NullString
	if len(g.Points) > 0 {
		var p string
		if p, err = marshalGeoPoints(g.Points); err != nil {
			return
		}
		points = sql.NullString{String: p, Valid: true}
	}

	var lat, lon sql.NullFloat64
	if g.Centroid != nil {
		lat = sql.NullFloat64{Float64: g.Centroid.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: g.Centroid.Longitude, Valid: true}
	}

	computedAt := g.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now()
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, updateAnnotationGeoSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if _, err = stmt.ExecContext(ctx, points, lat, lon, g.FailedVertices, computedAt.UTC(), annotationID); err != nil {
		return fmt.Errorf("updating annotation georeference: %w", err)
	}
	return
}

func (s *SqliteStore) Profile(ctx context.Context, name string) (profile *metadata.CameraProfile, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectProfileSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var data profileData
	if err = stmt.QueryRowContext(ctx, name).Scan(
		&data.Name,
		&data.HorizontalFOV,
		&data.FocalLengthPx,
		&data.PrincipalPointX,
		&data.PrincipalPointY,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		err = fmt.Errorf("scanning camera profile: %w", err)
		return
	}
	return toProfile(&data), nil
}

func (s *SqliteStore) UpsertProfile(ctx context.Context, p *metadata.CameraProfile) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, upsertProfileSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if _, err = stmt.ExecContext(
		ctx,
		p.Name,
		p.HorizontalFOVDeg,
		nullFloat(p.FocalLengthPx),
		nullFloat(p.PrincipalPointXPx),
		nullFloat(p.PrincipalPointYPx),
	); err != nil {
		return fmt.Errorf("upserting camera profile: %w", err)
	}
	return
}

// Close closes the database connections
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
