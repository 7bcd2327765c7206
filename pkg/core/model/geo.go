// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean radius of the earth in kilometres.
const EarthRadiusKm = 6371.0088

// Coordinates represents a geographical location in degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Validate ensures that c latitude and longitude are in range.
func (c Coordinates) Validate() error {
	switch {
	case math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90:
		return fmt.Errorf("latitude out of range: %v", c.Latitude)
	case math.IsNaN(c.Longitude) || c.Longitude < -180 ||
		c.Longitude > 180:
		return fmt.Errorf("longitude out of range: %v", c.Longitude)
	}
	return nil
}

// DistanceTo returns the great-circle distance between c and d in
// kilometres using the haversine formula.
func (c Coordinates) DistanceTo(d Coordinates) float64 {
	lat1 := radians(c.Latitude)
	lat2 := radians(d.Latitude)
	dLat := lat2 - lat1
	dLon := radians(d.Longitude - c.Longitude)
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoundingBox is a latitude/longitude rectangle.
type BoundingBox struct {
	MinLatitude, MaxLatitude   float64
	MinLongitude, MaxLongitude float64
}

// BoundingBox returns a rectangle which contains every point whose
// distance from c is at most radiusKm. The rectangle may contain
// farther points too, so it is only useful for narrowing candidates.
// Near the poles, or when the box would cross the antimeridian, the
// full longitude range is used.
func (c Coordinates) BoundingBox(radiusKm float64) BoundingBox {
	dLat := degrees(radiusKm / EarthRadiusKm)
	b := BoundingBox{
		MinLatitude:  math.Max(-90, c.Latitude-dLat),
		MaxLatitude:  math.Min(90, c.Latitude+dLat),
		MinLongitude: -180,
		MaxLongitude: 180,
	}
	if b.MinLatitude <= -90 || b.MaxLatitude >= 90 {
		return b
	}
	dLon := degrees(math.Asin(
		math.Min(1, math.Sin(radiusKm/EarthRadiusKm)/
			math.Cos(radians(c.Latitude))),
	))
	if c.Longitude-dLon < -180 || c.Longitude+dLon > 180 {
		return b
	}
	b.MinLongitude = c.Longitude - dLon
	b.MaxLongitude = c.Longitude + dLon
	return b
}

// Contains reports whether c falls in the b rectangle.
func (b BoundingBox) Contains(c Coordinates) bool {
	return c.Latitude >= b.MinLatitude && c.Latitude <= b.MaxLatitude &&
		c.Longitude >= b.MinLongitude && c.Longitude <= b.MaxLongitude
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
