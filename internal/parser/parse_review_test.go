package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamarks/poisync/internal/jsonfield"
	"github.com/seamarks/poisync/pkg/core"
)

func TestParseReview(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		modify  func(r map[string]any)
		check   func(t *testing.T, rc core.ReviewRecordCollection)
		wantErr error
	}{
		{
			name:   "full review",
			modify: func(r map[string]any) {},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				r := rc.Review
				assert.Equal(t, uint64(987), r.ID)
				assert.Equal(t, uint64(12345), r.MarkerID)
				assert.Equal(t, int64(1681554600), r.LastUpdated)
				assert.Equal(t, "Cpt. Nemo", r.CaptainName)
				assert.Equal(t, "2023-04", r.VisitDate)
				assert.Equal(t, int32(4), r.Rating)
				assert.Equal(t, "Friendly staff.", r.Text)
				assert.Equal(t, "Great stop", r.Title)
				assert.Equal(t, int32(3), r.Votes)
				assert.False(t, r.Response.IsSet())
				assert.False(t, r.Deleted)
				assert.NotNil(t, rc.Photos)
				assert.Empty(t, rc.Photos)
			},
		},
		{
			name: "owner response",
			modify: func(r map[string]any) {
				r["response"] = "Thanks for visiting!"
			},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.Equal(t, "Thanks for visiting!", rc.Review.Response.MustGet())
			},
		},
		{
			name: "photos",
			modify: func(r map[string]any) {
				r["photos"] = []any{
					map[string]any{"ordinal": 1, "downloadUrl": "https://img/r1.jpg"},
					map[string]any{"ordinal": 2, "downloadUrl": "https://img/r2.jpg"},
				}
			},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.Equal(t, []core.ReviewPhoto{
					{Ordinal: 1, DownloadURL: "https://img/r1.jpg"},
					{Ordinal: 2, DownloadURL: "https://img/r2.jpg"},
				}, rc.Photos)
			},
		},
		{
			name: "one bad photo fails the review",
			modify: func(r map[string]any) {
				r["photos"] = []any{
					map[string]any{"ordinal": 1, "downloadUrl": "https://img/r1.jpg"},
					map[string]any{"ordinal": 2},
				}
			},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.Empty(t, rc.Photos)
				assert.Equal(t, "Great stop", rc.Review.Title)
			},
			wantErr: jsonfield.ErrMissing,
		},
		{
			name: "deleted review stops after identity",
			modify: func(r map[string]any) {
				r["status"] = "Deleted"
				delete(r, "title")
				delete(r, "poiId")
			},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.True(t, rc.Review.Deleted)
				assert.Equal(t, uint64(987), rc.Review.ID)
				assert.Equal(t, int64(1681554600), rc.Review.LastUpdated)
				assert.Zero(t, rc.Review.MarkerID)
				assert.Empty(t, rc.Review.Title)
			},
		},
		{
			name: "missing status keeps decoding but fails",
			modify: func(r map[string]any) {
				delete(r, "status")
			},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.False(t, rc.Review.Deleted)
				assert.Equal(t, "Great stop", rc.Review.Title)
				assert.Equal(t, uint64(12345), rc.Review.MarkerID)
			},
			wantErr: jsonfield.ErrMissing,
		},
		{
			name: "missing id stops decoding",
			modify: func(r map[string]any) {
				delete(r, "id")
			},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.Empty(t, rc.Review.Title)
			},
			wantErr: jsonfield.ErrMissing,
		},
		{
			name: "bad timestamp stops decoding",
			modify: func(r map[string]any) {
				r["lastUpdated"] = 1681554600
			},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.Zero(t, rc.Review.MarkerID)
			},
			wantErr: jsonfield.ErrWrongType,
		},
		{
			name: "fractional rating",
			modify: func(r map[string]any) {
				r["rating"] = 4.5
			},
			wantErr: jsonfield.ErrWrongType,
		},
		{
			name: "missing captain name",
			modify: func(r map[string]any) {
				delete(r, "captainName")
			},
			wantErr: jsonfield.ErrMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseReview()
			tt.modify(r)

			rc, err := p.ParseReview(toJSON(t, r))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.check != nil {
				tt.check(t, rc)
			}
		})
	}
}

func TestParseReviewSync(t *testing.T) {
	p := newTestParser()

	t.Run("all valid", func(t *testing.T) {
		other := baseReview()
		other["id"] = "988"
		reviews, err := p.ParseReviewSync(toJSON(t, []any{baseReview(), other}))
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, uint64(988), reviews[1].Review.ID)
	})

	t.Run("one invalid fails the batch", func(t *testing.T) {
		bad := baseReview()
		delete(bad, "votes")
		reviews, err := p.ParseReviewSync(toJSON(t, []any{baseReview(), bad}))
		require.Error(t, err)
		assert.Nil(t, reviews)
	})

	t.Run("not an array", func(t *testing.T) {
		_, err := p.ParseReviewSync([]byte(`{"reviews":[]}`))
		assert.ErrorIs(t, err, ErrNotArray)
	})
}

func TestParseReviewWebView(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		env     map[string]any
		check   func(t *testing.T, rc core.ReviewRecordCollection)
		wantErr error
	}{
		{
			name: "success",
			env:  map[string]any{"resultType": "ReviewSuccess", "data": baseReview()},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.Equal(t, "Great stop", rc.Review.Title)
			},
		},
		{
			name: "delete",
			env:  map[string]any{"resultType": "REVIEWDELETE", "data": map[string]any{"id": 987}},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.True(t, rc.Review.Deleted)
				assert.Equal(t, uint64(987), rc.Review.ID)
			},
		},
		{
			name: "flagged is a delete",
			env:  map[string]any{"resultType": "reviewflagged", "data": map[string]any{"id": "987"}},
			check: func(t *testing.T, rc core.ReviewRecordCollection) {
				assert.True(t, rc.Review.Deleted)
			},
		},
		{
			name:    "error",
			env:     map[string]any{"resultType": "ERROR"},
			wantErr: ErrResultError,
		},
		{
			name:    "marker result type",
			env:     map[string]any{"resultType": "SUCCESS", "data": baseMarker()},
			wantErr: ErrUnknownResultType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := p.ParseReviewWebView(toJSON(t, tt.env))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.check != nil {
				tt.check(t, rc)
			}
		})
	}
}
