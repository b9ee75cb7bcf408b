// Package gormstorage implements the storage.Backend interface on top of GORM.
// Every Apply call runs in one transaction, so a batch is stored completely or not at all.
package gormstorage

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seamarks/poisync/internal/database"
	"github.com/seamarks/poisync/internal/model"
	"github.com/seamarks/poisync/internal/model/convert"
	"github.com/seamarks/poisync/pkg/core"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// Backend implements storage.Backend using GORM.
type Backend struct {
	deps Dependencies
	now  func() time.Time
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
		now:  time.Now,
	}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init runs schema migration.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("no database connection")
	}
	if err := database.Migrate(b.deps.DB); err != nil {
		return err
	}
	b.deps.Logger.Info().Str("dialect", b.deps.DB.Dialector.Name()).Msg("Storage schema ready")
	return nil
}

// Close is a no-op; the connection belongs to whoever opened it.
func (b *Backend) Close() error {
	return nil
}

// ApplyMarkerUpdates upserts live markers and deletes tombstoned ones in one transaction.
func (b *Backend) ApplyMarkerUpdates(markers []core.MarkerRecordCollection, tile *core.TileCoordinate) error {
	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range markers {
			if m.Marker.Deleted {
				if err := deleteMarker(tx, convert.IDToColumn(m.Marker.ID)); err != nil {
					return err
				}
				continue
			}
			if err := upsertMarker(tx, m); err != nil {
				return err
			}
		}
		return b.recordTile(tx, tile, model.SyncDomainMarkers, len(markers))
	})
	if err != nil {
		return fmt.Errorf("error applying marker updates: %w", err)
	}

	b.deps.Logger.Debug().Int("markers", len(markers)).Stringer("tile", tileStringer{tile}).Msg("Applied marker updates")
	return nil
}

// ApplyReviewUpdates upserts live reviews and deletes tombstoned ones in one transaction.
func (b *Backend) ApplyReviewUpdates(reviews []core.ReviewRecordCollection, tile *core.TileCoordinate) error {
	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		for _, r := range reviews {
			if r.Review.Deleted {
				if err := deleteReview(tx, convert.IDToColumn(r.Review.ID)); err != nil {
					return err
				}
				continue
			}
			if err := upsertReview(tx, r); err != nil {
				return err
			}
		}
		return b.recordTile(tx, tile, model.SyncDomainReviews, len(reviews))
	})
	if err != nil {
		return fmt.Errorf("error applying review updates: %w", err)
	}

	b.deps.Logger.Debug().Int("reviews", len(reviews)).Stringer("tile", tileStringer{tile}).Msg("Applied review updates")
	return nil
}

func deleteMarkerChildren(tx *gorm.DB, id int64) error {
	for _, child := range []any{&model.MarkerSection{}, &model.BusinessPhoto{}, &model.Competitor{}} {
		if err := tx.Where("marker_id = ?", id).Delete(child).Error; err != nil {
			return fmt.Errorf("error deleting %T for marker %d: %w", child, id, err)
		}
	}
	return nil
}

func deleteMarker(tx *gorm.DB, id int64) error {
	if err := deleteMarkerChildren(tx, id); err != nil {
		return err
	}
	if err := tx.Where("id = ?", id).Delete(&model.Marker{}).Error; err != nil {
		return fmt.Errorf("error deleting marker %d: %w", id, err)
	}
	return nil
}

func upsertMarker(tx *gorm.DB, m core.MarkerRecordCollection) error {
	rows, err := convert.CoreToMarkerRows(m)
	if err != nil {
		return err
	}
	id := rows.Marker.ID

	if err := deleteMarkerChildren(tx, id); err != nil {
		return err
	}
	err = tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows.Marker).Error
	if err != nil {
		return fmt.Errorf("error saving marker %d: %w", id, err)
	}

	if len(rows.Sections) > 0 {
		if err := tx.Create(&rows.Sections).Error; err != nil {
			return fmt.Errorf("error saving sections for marker %d: %w", id, err)
		}
	}
	if len(rows.BusinessPhotos) > 0 {
		if err := tx.Create(&rows.BusinessPhotos).Error; err != nil {
			return fmt.Errorf("error saving business photos for marker %d: %w", id, err)
		}
	}
	if len(rows.Competitors) > 0 {
		if err := tx.Create(&rows.Competitors).Error; err != nil {
			return fmt.Errorf("error saving competitors for marker %d: %w", id, err)
		}
	}
	return nil
}

func deleteReview(tx *gorm.DB, id int64) error {
	if err := tx.Where("review_id = ?", id).Delete(&model.ReviewPhoto{}).Error; err != nil {
		return fmt.Errorf("error deleting photos for review %d: %w", id, err)
	}
	if err := tx.Where("id = ?", id).Delete(&model.Review{}).Error; err != nil {
		return fmt.Errorf("error deleting review %d: %w", id, err)
	}
	return nil
}

func upsertReview(tx *gorm.DB, r core.ReviewRecordCollection) error {
	rows := convert.CoreToReviewRows(r)
	id := rows.Review.ID

	if err := tx.Where("review_id = ?", id).Delete(&model.ReviewPhoto{}).Error; err != nil {
		return fmt.Errorf("error deleting photos for review %d: %w", id, err)
	}
	err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows.Review).Error
	if err != nil {
		return fmt.Errorf("error saving review %d: %w", id, err)
	}
	if len(rows.Photos) > 0 {
		if err := tx.Create(&rows.Photos).Error; err != nil {
			return fmt.Errorf("error saving photos for review %d: %w", id, err)
		}
	}
	return nil
}

func (b *Backend) recordTile(tx *gorm.DB, tile *core.TileCoordinate, domain string, records int) error {
	if tile == nil {
		return nil
	}
	ts := model.TileSync{
		TileX:     tile.X,
		TileY:     tile.Y,
		Domain:    domain,
		AppliedAt: b.now(),
		Records:   records,
	}
	err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&ts).Error
	if err != nil {
		return fmt.Errorf("error recording sync of tile %s: %w", tile, err)
	}
	return nil
}

// LoadMarker reads a stored marker back into its core form.
func (b *Backend) LoadMarker(id uint64) (core.MarkerRecordCollection, error) {
	var rows convert.MarkerRows
	col := convert.IDToColumn(id)
	if err := b.deps.DB.Where("id = ?", col).First(&rows.Marker).Error; err != nil {
		return core.MarkerRecordCollection{}, err
	}
	if err := b.deps.DB.Where("marker_id = ?", col).Order("kind").Find(&rows.Sections).Error; err != nil {
		return core.MarkerRecordCollection{}, err
	}
	if err := b.deps.DB.Where("marker_id = ?", col).Order("id").Find(&rows.BusinessPhotos).Error; err != nil {
		return core.MarkerRecordCollection{}, err
	}
	if err := b.deps.DB.Where("marker_id = ?", col).Order("id").Find(&rows.Competitors).Error; err != nil {
		return core.MarkerRecordCollection{}, err
	}
	return convert.MarkerRowsToCore(rows)
}

// LoadReview reads a stored review back into its core form.
func (b *Backend) LoadReview(id uint64) (core.ReviewRecordCollection, error) {
	var rows convert.ReviewRows
	col := convert.IDToColumn(id)
	if err := b.deps.DB.Where("id = ?", col).First(&rows.Review).Error; err != nil {
		return core.ReviewRecordCollection{}, err
	}
	if err := b.deps.DB.Where("review_id = ?", col).Order("id").Find(&rows.Photos).Error; err != nil {
		return core.ReviewRecordCollection{}, err
	}
	return convert.ReviewRowsToCore(rows), nil
}

type tileStringer struct {
	tile *core.TileCoordinate
}

func (t tileStringer) String() string {
	if t.tile == nil {
		return "none"
	}
	return t.tile.String()
}
