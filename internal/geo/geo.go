package geo

import (
	"errors"
	"math"

	"github.com/mmcloughlin/geohash"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/seamarks/poisync/pkg/core"
	"github.com/wroge/wgs84"
)

// GEO POINTS
// Positions travel as WGS84 degrees and are held as semicircles (180 degrees = 2^31).
// Stored geometry is always EPSG:3857 so SQLite and PostGIS rows read back the same way.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

const semicirclesPerDegree = float64(1<<31) / 180

// DegreesToSemicircles converts degrees to semicircles, truncating toward zero.
// +180 wraps to the int32 minimum, which is the same meridian as -180.
func DegreesToSemicircles(deg float64) int32 {
	return int32(int64(deg * semicirclesPerDegree))
}

// SemicirclesToDegrees converts semicircles back to degrees.
func SemicirclesToDegrees(sc int32) float64 {
	return float64(sc) / semicirclesPerDegree
}

// PositionFromDegrees validates a WGS84 latitude/longitude and converts it to semicircles.
func PositionFromDegrees(latitude, longitude float64) (core.Position, error) {
	if math.IsNaN(latitude) || math.IsNaN(longitude) ||
		latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return core.Position{}, ErrInvalidCoordinates
	}
	return core.Position{
		Latitude:  DegreesToSemicircles(latitude),
		Longitude: DegreesToSemicircles(longitude),
	}, nil
}

// Geohash returns the 64-bit integer geohash of a WGS84 position.
func Geohash(latitude, longitude float64) uint64 {
	return geohash.EncodeInt(latitude, longitude)
}

// Coords3857From4326 creates a GPS point from a longitude and latitude
func Coords3857From4326(
	longitude float64,
	latitude float64,
) (
	point geom.Point,
	err error,
) {
	var x, y float64
	// if provided SRID was 4326, convert to 3857
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(longitude, latitude, 0)
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return geom.NewEmptyPoint(geom.DimXY), ErrInvalidCoordinates
	}
	point, err = geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
		},
	)
	return point, err
}

// PointFromPosition converts a semicircle position to a web-mercator point for storage.
func PointFromPosition(p core.Position) (geom.Point, error) {
	return Coords3857From4326(SemicirclesToDegrees(p.Longitude), SemicirclesToDegrees(p.Latitude))
}

// PositionFromPoint converts a stored web-mercator point back to semicircles.
func PositionFromPoint(pt geom.Point) (core.Position, error) {
	xy, ok := pt.Coordinates()
	if !ok {
		return core.Position{}, ErrInvalidCoordinates
	}
	f := wgs84.EPSG().Transform(3857, 4326)
	lon, lat, _ := f(xy.X, xy.Y, 0)
	return PositionFromDegrees(lat, lon)
}
