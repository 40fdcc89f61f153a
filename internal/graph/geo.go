package graph

import (
	"math"

	"github.com/atharv3903/campusnav/internal/model"
)

const earthRadiusM = 6371008.8

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b model.Coord) float64 {
	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Min(1, math.Sqrt(s)))
}

// projection is an equirectangular projection around a fixed origin. Good
// enough for a campus-sized graph; distances are in meters.
type projection struct {
	lat0, lon0 float64
	cosLat0    float64
}

func newProjection(origin model.Coord) projection {
	return projection{
		lat0:    origin.Lat,
		lon0:    origin.Lon,
		cosLat0: math.Cos(rad(origin.Lat)),
	}
}

func (p projection) xy(c model.Coord) [2]float64 {
	return [2]float64{
		earthRadiusM * rad(c.Lon-p.lon0) * p.cosLat0,
		earthRadiusM * rad(c.Lat-p.lat0),
	}
}
