// Package model holds the records exchanged between the service and the store.
//
// Row types carry two sets of tags: `db` names the column, `json` names the
// API field. This is the single place where storage names and API names may
// diverge (max_narrative_length <-> max_length).
package model

import "github.com/google/uuid"

// LineLocateTemplate is one row of archive.line_locates.
type LineLocateTemplate struct {
	PK              int64  `db:"pk" json:"pk"`
	Name            string `db:"name" json:"name"`
	Type            string `db:"type" json:"type"`
	LocateNarrative string `db:"locate_narrative" json:"locate_narrative"`
	WorkPrints      string `db:"work_prints" json:"work_prints"`
	MaxLength       int    `db:"max_narrative_length" json:"max_length"`
	ProjectGID      string `db:"project_gid" json:"project_gid"`

	NoteDistanceFromStartIntersection bool `db:"note_distance_from_start_intersection" json:"note_distance_from_start_intersection"`
	NoteDistanceFromEndIntersection   bool `db:"note_distance_from_end_intersection" json:"note_distance_from_end_intersection"`
	NoteAddressAtStart                bool `db:"note_address_at_start" json:"note_address_at_start"`
	NoteAddressAtEnd                  bool `db:"note_address_at_end" json:"note_address_at_end"`
	IncludeGPSAtStart                 bool `db:"include_gps_at_start" json:"include_gps_at_start"`
	IncludeGPSAtEnd                   bool `db:"include_gps_at_end" json:"include_gps_at_end"`
	IncludeGPSAtBearing               bool `db:"include_gps_at_bearing" json:"include_gps_at_bearing"`
}

// NewLineLocateTemplate is a validated line-locate template ready to insert.
// Flags omitted by the caller are already false.
type NewLineLocateTemplate struct {
	Name            string
	Type            string
	LocateNarrative string
	WorkPrints      string
	MaxLength       int
	ProjectGID      uuid.UUID

	NoteDistanceFromStartIntersection bool
	NoteDistanceFromEndIntersection   bool
	NoteAddressAtStart                bool
	NoteAddressAtEnd                  bool
	IncludeGPSAtStart                 bool
	IncludeGPSAtEnd                   bool
	IncludeGPSAtBearing               bool
}

// PointLocateTemplate is one row of archive.point_locates.
// Optional columns are pointers so NULL round-trips as JSON null.
type PointLocateTemplate struct {
	PK                int64   `db:"pk" json:"pk"`
	TemplateName      string  `db:"template_name" json:"template_name"`
	PointName         string  `db:"point_name" json:"point_name"`
	PointType         string  `db:"point_type" json:"point_type"`
	WorkPrint         string  `db:"work_print" json:"work_print"`
	Radius            *int    `db:"radius" json:"radius"`
	LocationDirection *string `db:"location_direction" json:"location_direction"`
	PointNote         *string `db:"point_note" json:"point_note"`
	ProjectGID        string  `db:"project_gid" json:"project_gid"`
}

// NewPointLocateTemplate is a validated point-locate template ready to insert.
type NewPointLocateTemplate struct {
	TemplateName      string
	PointName         string
	PointType         string
	WorkPrint         string
	Radius            *int
	LocationDirection *string
	PointNote         *string
	ProjectGID        uuid.UUID
}

// SaveResult is the response of every insert operation.
type SaveResult struct {
	Message string `json:"message"`
	PK      int64  `json:"pk"`
}
