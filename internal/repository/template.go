package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/locate-templates/internal/database"
	"github.com/deppfellow/locate-templates/internal/model"
	"github.com/jackc/pgx/v5"
)

// TemplateRepository runs the four template statements against the shared pool.
//
// Every method is a single statement: inserts are atomic and reads see
// whatever the store's isolation level shows at that moment.
type TemplateRepository struct {
	db *database.Database
}

func NewTemplateRepository(db *database.Database) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const insertLineLocateQuery = `
	INSERT INTO archive.line_locates (
		name, type, locate_narrative, work_prints, max_narrative_length, project_gid,
		note_distance_from_start_intersection,
		note_distance_from_end_intersection,
		note_address_at_start,
		note_address_at_end,
		include_gps_at_start,
		include_gps_at_end,
		include_gps_at_bearing
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING pk
`

const selectLineLocatesQuery = `
	SELECT pk, name, type, locate_narrative, work_prints, max_narrative_length, project_gid,
	       note_distance_from_start_intersection,
	       note_distance_from_end_intersection,
	       note_address_at_start, note_address_at_end,
	       include_gps_at_start, include_gps_at_end, include_gps_at_bearing
	FROM archive.line_locates
`

const insertPointLocateQuery = `
	INSERT INTO archive.point_locates (
		template_name, point_name, point_type, work_print,
		radius, location_direction, point_note, project_gid
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING pk
`

const selectPointLocatesQuery = `
	SELECT pk, template_name, point_name, point_type, work_print,
	       radius, location_direction, point_note, project_gid
	FROM archive.point_locates
`

// InsertLineLocate stores a line-locate template and returns its generated key.
func (r *TemplateRepository) InsertLineLocate(ctx context.Context, t model.NewLineLocateTemplate) (int64, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return 0, err
	}

	var pk int64
	err = pool.QueryRow(ctx, insertLineLocateQuery,
		t.Name,
		t.Type,
		t.LocateNarrative,
		t.WorkPrints,
		t.MaxLength,
		t.ProjectGID.String(),
		t.NoteDistanceFromStartIntersection,
		t.NoteDistanceFromEndIntersection,
		t.NoteAddressAtStart,
		t.NoteAddressAtEnd,
		t.IncludeGPSAtStart,
		t.IncludeGPSAtEnd,
		t.IncludeGPSAtBearing,
	).Scan(&pk)
	if err != nil {
		return 0, fmt.Errorf("failed to insert line locate template: %w", err)
	}

	return pk, nil
}

// ListLineLocates returns every row of archive.line_locates in storage order.
// An empty table yields an empty, non-nil slice.
func (r *TemplateRepository) ListLineLocates(ctx context.Context) ([]model.LineLocateTemplate, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, selectLineLocatesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query line locate templates: %w", err)
	}

	templates, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.LineLocateTemplate])
	if err != nil {
		return nil, fmt.Errorf("failed to collect line locate templates: %w", err)
	}
	if templates == nil {
		templates = []model.LineLocateTemplate{}
	}

	return templates, nil
}

// InsertPointLocate stores a point-locate template and returns its generated key.
func (r *TemplateRepository) InsertPointLocate(ctx context.Context, t model.NewPointLocateTemplate) (int64, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return 0, err
	}

	var pk int64
	err = pool.QueryRow(ctx, insertPointLocateQuery,
		t.TemplateName,
		t.PointName,
		t.PointType,
		t.WorkPrint,
		t.Radius,
		t.LocationDirection,
		t.PointNote,
		t.ProjectGID.String(),
	).Scan(&pk)
	if err != nil {
		return 0, fmt.Errorf("failed to insert point locate template: %w", err)
	}

	return pk, nil
}

// ListPointLocates returns every row of archive.point_locates in storage order.
func (r *TemplateRepository) ListPointLocates(ctx context.Context) ([]model.PointLocateTemplate, error) {
	pool, err := r.db.Acquire()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, selectPointLocatesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query point locate templates: %w", err)
	}

	templates, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.PointLocateTemplate])
	if err != nil {
		return nil, fmt.Errorf("failed to collect point locate templates: %w", err)
	}
	if templates == nil {
		templates = []model.PointLocateTemplate{}
	}

	return templates, nil
}
