package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Marker{},
	&MarkerSection{},
	&BusinessPhoto{},
	&Competitor{},
	&Review{},
	&ReviewPhoto{},
	&TileSync{},
}

// Identifiers and geohashes are unsigned 64-bit on the wire. Columns hold the
// same bit pattern as int64 so both SQLite and Postgres accept the full range.

////////////////////////
// MARKERS
////////////////////////

// Marker is one point of interest
type Marker struct {
	ID            int64      `json:"id" gorm:"primarykey;autoIncrement:false"`
	UpdatedAt     time.Time  `json:"updatedAt"`                                        // Time the row was last written
	LastUpdated   int64      `json:"lastUpdated" gorm:"index:idx_marker_last_updated"` // Service timestamp, unix seconds (0 = force resync)
	MarkerType    string     `json:"markerType" gorm:"size:32;index:idx_marker_type"`
	Name          string     `json:"name" gorm:"size:255"`
	Latitude      int32      `json:"latitude"`  // semicircles
	Longitude     int32      `json:"longitude"` // semicircles
	Geohash       int64      `json:"geohash" gorm:"index:idx_marker_geohash"`
	Location      geom.Point `json:"location"` // EPSG:3857
	SearchFilters int32      `json:"searchFilters"`

	SectionTitle int32          `json:"sectionTitle"`
	SectionNote  sql.NullString `json:"sectionNote"`

	Sections       []MarkerSection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MarkerID;"`
	BusinessPhotos []BusinessPhoto `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MarkerID;"`
	Competitors    []Competitor    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MarkerID;"`
}

func (*Marker) TableName() string {
	return "markers"
}

// MarkerSection holds one optional section of a marker as JSON
type MarkerSection struct {
	MarkerID int64          `json:"markerId" gorm:"primarykey;autoIncrement:false"`
	Kind     string         `json:"kind" gorm:"primarykey;size:32"` // Wire key of the section (e.g. "fuel")
	Data     datatypes.JSON `json:"data"`
}

func (*MarkerSection) TableName() string {
	return "marker_sections"
}

// BusinessPhoto is a photo attached to a business marker
type BusinessPhoto struct {
	ID          uint   `json:"id" gorm:"primarykey;autoIncrement;"`
	MarkerID    int64  `json:"markerId" gorm:"index:idx_business_photo_marker_id"`
	Ordinal     int32  `json:"ordinal"`
	DownloadURL string `json:"downloadUrl" gorm:"size:1024"`
}

func (*BusinessPhoto) TableName() string {
	return "business_photos"
}

// Competitor links a marker to a competing marker
type Competitor struct {
	ID           uint  `json:"id" gorm:"primarykey;autoIncrement;"`
	MarkerID     int64 `json:"markerId" gorm:"index:idx_competitor_marker_id"`
	Ordinal      int32 `json:"ordinal"`
	CompetitorID int64 `json:"competitorId"`
}

func (*Competitor) TableName() string {
	return "competitors"
}

////////////////////////
// REVIEWS
////////////////////////

// Review is a captain's review of a marker
type Review struct {
	ID          int64          `json:"id" gorm:"primarykey;autoIncrement:false"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	MarkerID    int64          `json:"markerId" gorm:"index:idx_review_marker_id"`
	LastUpdated int64          `json:"lastUpdated"`
	Rating      int32          `json:"rating"`
	Title       string         `json:"title" gorm:"size:255"`
	Text        string         `json:"text"`
	Response    sql.NullString `json:"response"` // Owner response
	VisitDate   string         `json:"visitDate" gorm:"size:32"`
	CaptainName string         `json:"captainName" gorm:"size:128"`
	Votes       int32          `json:"votes"`

	Photos []ReviewPhoto `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:ReviewID;"`
}

func (*Review) TableName() string {
	return "reviews"
}

// ReviewPhoto is a photo attached to a review
type ReviewPhoto struct {
	ID          uint   `json:"id" gorm:"primarykey;autoIncrement;"`
	ReviewID    int64  `json:"reviewId" gorm:"index:idx_review_photo_review_id"`
	Ordinal     int32  `json:"ordinal"`
	DownloadURL string `json:"downloadUrl" gorm:"size:1024"`
}

func (*ReviewPhoto) TableName() string {
	return "review_photos"
}

////////////////////////
// SYNC STATE
////////////////////////

// Sync domains recorded in TileSync.Domain
const (
	SyncDomainMarkers = "markers"
	SyncDomainReviews = "reviews"
)

// TileSync records when a tile's markers or reviews were last applied
type TileSync struct {
	TileX     int32     `json:"tileX" gorm:"primarykey;autoIncrement:false"`
	TileY     int32     `json:"tileY" gorm:"primarykey;autoIncrement:false"`
	Domain    string    `json:"domain" gorm:"primarykey;size:16"`
	AppliedAt time.Time `json:"appliedAt"`
	Records   int       `json:"records"` // Records in the last applied batch
}

func (*TileSync) TableName() string {
	return "tile_syncs"
}
