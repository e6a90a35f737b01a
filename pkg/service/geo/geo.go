// Package geo resolves the operator location and lays out the vector map
// used when no map tiles are available.
package geo

import (
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
)

// Fallback is used when the device location is missing or invalid (New Delhi)
var Fallback = model.Location{Lat: 28.6139, Lng: 77.2090}

const (
	// Scale converts degrees to percent of the map canvas
	Scale = 3000.0

	visibleMin = -20.0
	visibleMax = 120.0
)

// Resolve returns the reported location, or Fallback when either
// coordinate is missing or out of range
func Resolve(lat, lng *float64) model.Location {
	if lat == nil || lng == nil {
		return Fallback
	}
	loc := model.Location{Lat: *lat, Lng: *lng}
	if !loc.Valid() {
		return Fallback
	}
	return loc
}

// Point is a position on the vector canvas in percent. The center maps to
// (50, 50) and north is up.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Visible reports whether the point is close enough to the canvas to draw
func (p Point) Visible() bool {
	return p.X >= visibleMin && p.X <= visibleMax && p.Y >= visibleMin && p.Y <= visibleMax
}

func Project(center, loc model.Location) Point {
	return Point{
		X: (loc.Lng-center.Lng)*Scale + 50,
		Y: -(loc.Lat-center.Lat)*Scale + 50,
	}
}

// Marker is one ambulance drawn on the vector map
type Marker struct {
	ID      string                `json:"id"`
	Label   string                `json:"label"`
	Status  types.AmbulanceStatus `json:"status"`
	Heading float64               `json:"heading"`
	Point
}

// VectorLayout projects ambulances around center and drops the ones that
// would land off canvas
func VectorLayout(center model.Location, ambulances []model.Ambulance) []Marker {
	markers := make([]Marker, 0, len(ambulances))
	for _, a := range ambulances {
		p := Project(center, a.Location)
		if !p.Visible() {
			continue
		}
		label := a.PlateNumber
		if r := []rune(label); len(r) > 4 {
			label = string(r[len(r)-4:])
		}
		markers = append(markers, Marker{
			ID:      a.ID,
			Label:   label,
			Status:  a.Status,
			Heading: a.Heading,
			Point:   p,
		})
	}
	return markers
}

// FleetCenter averages the positions of ambulances with a usable location.
// It returns Fallback when there are none.
func FleetCenter(ambulances []model.Ambulance) model.Location {
	var sumLat, sumLng float64
	n := 0
	for _, a := range ambulances {
		if a.Location.Lat == 0 || !a.Location.Valid() {
			continue
		}
		sumLat += a.Location.Lat
		sumLng += a.Location.Lng
		n++
	}
	if n == 0 {
		return Fallback
	}
	return model.Location{Lat: sumLat / float64(n), Lng: sumLng / float64(n)}
}
