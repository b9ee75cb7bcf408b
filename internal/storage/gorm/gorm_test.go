package gormstorage

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/seamarks/poisync/internal/database"
	"github.com/seamarks/poisync/internal/model"
	"github.com/seamarks/poisync/pkg/core"
)

var fixedNow = time.Date(2023, 4, 15, 10, 30, 0, 0, time.UTC)

// newTestBackend creates a migrated Backend on a file-backed SQLite DB.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := database.GetSqliteDB(filepath.Join(t.TempDir(), "poi.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	b := New(Dependencies{DB: db, Logger: zerolog.Nop()})
	b.now = func() time.Time { return fixedNow }
	require.NoError(t, b.Init())
	return b
}

func testMarker(id uint64) core.MarkerRecordCollection {
	m := core.NewMarkerRecordCollection()
	m.Marker = core.Marker{
		ID:            id,
		LastUpdated:   1681554600,
		Type:          core.MarkerTypeMarina,
		Position:      core.Position{Latitude: 311385128, Longitude: -955630223},
		Geohash:       0xd5b2c3a1e6f7a8b9,
		SearchFilters: 3,
		Name:          "Harbor",
	}
	m.Meta = core.MarkerMeta{SectionTitle: 7, SectionNote: core.Some("open daily")}
	m.Fuel = core.Some(core.Fuel{DieselPrice: 4.25, Currency: "USD"})
	m.Contact = core.Some(core.Contact{Phone: "555-0100", VHFChannel: "16"})
	m.BusinessPhotos = []core.BusinessPhoto{{Ordinal: 1, DownloadURL: "https://x/1.jpg"}, {Ordinal: 2, DownloadURL: "https://x/2.jpg"}}
	m.Competitors = []core.Competitor{{Ordinal: 1, CompetitorID: 99}}
	return m
}

func testReview(id uint64) core.ReviewRecordCollection {
	r := core.NewReviewRecordCollection()
	r.Review = core.Review{
		ID:          id,
		MarkerID:    1,
		Rating:      4,
		Title:       "Nice",
		Text:        "Friendly staff",
		Response:    core.Some("Thanks!"),
		VisitDate:   "2023-03-01",
		CaptainName: "Ahab",
		Votes:       2,
		LastUpdated: 1681554600,
	}
	r.Photos = []core.ReviewPhoto{{Ordinal: 1, DownloadURL: "https://x/r.jpg"}}
	return r
}

func count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestInit_NoDB(t *testing.T) {
	b := New(Dependencies{Logger: zerolog.Nop()})
	assert.Error(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestApplyMarkerUpdates_RoundTrip(t *testing.T) {
	b := newTestBackend(t)
	want := testMarker(1)

	require.NoError(t, b.ApplyMarkerUpdates([]core.MarkerRecordCollection{want}, nil))

	got, err := b.LoadMarker(1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, int64(0), count(t, b.DB(), &model.TileSync{}))
}

func TestApplyMarkerUpdates_FullRangeID(t *testing.T) {
	b := newTestBackend(t)
	want := testMarker(math.MaxUint64)

	require.NoError(t, b.ApplyMarkerUpdates([]core.MarkerRecordCollection{want}, nil))

	got, err := b.LoadMarker(math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got.Marker.ID)
}

func TestApplyMarkerUpdates_ReplacesOwnedRows(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.ApplyMarkerUpdates([]core.MarkerRecordCollection{testMarker(1)}, nil))

	updated := testMarker(1)
	updated.Marker.Name = "Harbor West"
	updated.Fuel = core.None[core.Fuel]()
	updated.Retail = core.Some(core.Retail{SectionNote: "bait"})
	updated.BusinessPhotos = []core.BusinessPhoto{}
	require.NoError(t, b.ApplyMarkerUpdates([]core.MarkerRecordCollection{updated}, nil))

	got, err := b.LoadMarker(1)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	assert.Equal(t, int64(1), count(t, b.DB(), &model.Marker{}))
	assert.Equal(t, int64(2), count(t, b.DB(), &model.MarkerSection{}))
	assert.Equal(t, int64(0), count(t, b.DB(), &model.BusinessPhoto{}))
}

func TestApplyMarkerUpdates_Tombstone(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.ApplyMarkerUpdates([]core.MarkerRecordCollection{testMarker(1), testMarker(2)}, nil))

	tomb := core.NewMarkerRecordCollection()
	tomb.Marker = core.Marker{ID: 1, Deleted: true}
	require.NoError(t, b.ApplyMarkerUpdates([]core.MarkerRecordCollection{tomb}, nil))

	_, err := b.LoadMarker(1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = b.LoadMarker(2)
	assert.NoError(t, err)

	assert.Equal(t, int64(1), count(t, b.DB(), &model.Marker{}))
	assert.Equal(t, int64(2), count(t, b.DB(), &model.MarkerSection{}))
	assert.Equal(t, int64(2), count(t, b.DB(), &model.BusinessPhoto{}))
	assert.Equal(t, int64(1), count(t, b.DB(), &model.Competitor{}))

	// tombstone for a record never stored
	tomb.Marker.ID = 42
	assert.NoError(t, b.ApplyMarkerUpdates([]core.MarkerRecordCollection{tomb}, nil))
}

func TestApplyMarkerUpdates_TileSync(t *testing.T) {
	b := newTestBackend(t)
	tile := core.TileCoordinate{X: 12, Y: -4}

	require.NoError(t, b.ApplyMarkerUpdates([]core.MarkerRecordCollection{testMarker(1), testMarker(2)}, &tile))
	require.NoError(t, b.ApplyMarkerUpdates([]core.MarkerRecordCollection{testMarker(3)}, &tile))

	var syncs []model.TileSync
	require.NoError(t, b.DB().Find(&syncs).Error)
	require.Len(t, syncs, 1)
	assert.Equal(t, int32(12), syncs[0].TileX)
	assert.Equal(t, int32(-4), syncs[0].TileY)
	assert.Equal(t, model.SyncDomainMarkers, syncs[0].Domain)
	assert.Equal(t, 1, syncs[0].Records)
	assert.True(t, fixedNow.Equal(syncs[0].AppliedAt))
}

func TestApplyReviewUpdates(t *testing.T) {
	b := newTestBackend(t)
	tile := core.TileCoordinate{X: 1, Y: 2}
	want := testReview(5)

	require.NoError(t, b.ApplyReviewUpdates([]core.ReviewRecordCollection{want, testReview(6)}, &tile))

	got, err := b.LoadReview(5)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	tomb := core.NewReviewRecordCollection()
	tomb.Review = core.Review{ID: 6, Deleted: true}
	require.NoError(t, b.ApplyReviewUpdates([]core.ReviewRecordCollection{tomb}, nil))

	_, err = b.LoadReview(6)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, int64(1), count(t, b.DB(), &model.ReviewPhoto{}))

	var ts model.TileSync
	require.NoError(t, b.DB().Where("domain = ?", model.SyncDomainReviews).First(&ts).Error)
	assert.Equal(t, 2, ts.Records)
}

func TestApplyReviewUpdates_ReplacesPhotos(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.ApplyReviewUpdates([]core.ReviewRecordCollection{testReview(5)}, nil))

	updated := testReview(5)
	updated.Review.Votes = 10
	updated.Review.Response = core.None[string]()
	updated.Photos = []core.ReviewPhoto{{Ordinal: 1, DownloadURL: "a"}, {Ordinal: 2, DownloadURL: "b"}}
	require.NoError(t, b.ApplyReviewUpdates([]core.ReviewRecordCollection{updated}, nil))

	got, err := b.LoadReview(5)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestApplyMarkerUpdates_EmptyBatch(t *testing.T) {
	b := newTestBackend(t)
	assert.NoError(t, b.ApplyMarkerUpdates(nil, nil))
	assert.NoError(t, b.ApplyReviewUpdates([]core.ReviewRecordCollection{}, nil))
}

func TestTileStringer(t *testing.T) {
	assert.Equal(t, "none", tileStringer{}.String())
	assert.Equal(t, "3,4", tileStringer{&core.TileCoordinate{X: 3, Y: 4}}.String())
}
