package geofence

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"bikecare/internal/domain"
	"bikecare/internal/session"
	"bikecare/internal/utils"
)

// Service area: doorstep servicing is offered only around Shivaji Nagar.
const (
	CenterLat = 18.5204
	CenterLng = 73.8567
	RadiusKm  = 10.0
)

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is what gets stored once the user confirms where they are.
type Location struct {
	Point
	Address  string `json:"address,omitempty"`
	Serviced bool   `json:"serviced"`
}

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// InServiceArea reports whether p falls inside the serviced radius.
func InServiceArea(p Point) bool {
	return DistanceKm(p, Point{Lat: CenterLat, Lng: CenterLng}) <= RadiusKm
}

// Checker confirms a visitor's location against the service area and keeps
// the confirmed location in the session so the prompt is not shown again.
type Checker struct {
	Store     session.Store
	RequestID string
}

// Confirm validates the coordinates, stores the result, and reports whether
// the point is serviced. An out-of-area point is still stored so the UI can
// show the "we are not there yet" state instead of re-asking.
func (c Checker) Confirm(ctx context.Context, owner string, p Point, address string) (Location, error) {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return Location{}, domain.ValidationError{Field: "location", Msg: "coordinates out of range"}
	}

	loc := Location{Point: p, Address: address, Serviced: InServiceArea(p)}
	raw, err := json.Marshal(loc)
	if err != nil {
		return Location{}, domain.InternalError{Msg: "encode location", Err: err}
	}
	if err := c.Store.Set(ctx, owner, session.KeySelectedLocation, string(raw)); err != nil {
		return Location{}, err
	}

	utils.LogEvent(c.RequestID, "geofence", "confirm",
		fmt.Sprintf("lat=%.4f lng=%.4f serviced=%v", p.Lat, p.Lng, loc.Serviced))
	return loc, nil
}

// UseCenter stores the service-area center as the confirmed location, for
// users who skip the map and just pick the default city.
func (c Checker) UseCenter(ctx context.Context, owner string) (Location, error) {
	return c.Confirm(ctx, owner, Point{Lat: CenterLat, Lng: CenterLng}, "")
}

// Confirmed returns the previously stored location, if any.
func (c Checker) Confirmed(ctx context.Context, owner string) (Location, bool, error) {
	raw, ok, err := c.Store.Get(ctx, owner, session.KeySelectedLocation)
	if err != nil || !ok {
		return Location{}, false, err
	}
	var loc Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		// a corrupt slot should behave like an unconfirmed one
		_ = c.Store.Clear(ctx, owner, session.KeySelectedLocation)
		return Location{}, false, nil
	}
	return loc, true, nil
}
