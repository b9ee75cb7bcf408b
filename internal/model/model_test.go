package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"Marker", &Marker{}, "markers"},
		{"MarkerSection", &MarkerSection{}, "marker_sections"},
		{"BusinessPhoto", &BusinessPhoto{}, "business_photos"},
		{"Competitor", &Competitor{}, "competitors"},
		{"Review", &Review{}, "reviews"},
		{"ReviewPhoto", &ReviewPhoto{}, "review_photos"},
		{"TileSync", &TileSync{}, "tile_syncs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModels(t *testing.T) {
	assert.Len(t, DatabaseModels, 7)
	for _, m := range DatabaseModels {
		_, ok := m.(interface{ TableName() string })
		assert.True(t, ok, "%T has a table name", m)
	}
}
