// Package geo provides the flat-Earth span approximations used in mission
// summaries. These are local equirectangular estimates valid over the short
// ranges a single survey covers; they are not geodesic calculations.
package geo

import "math"

// MetersPerDegreeLatitude is the nominal length of one degree of latitude.
const MetersPerDegreeLatitude = 111000.0

// LatitudeSpanMeters approximates the north-south extent of a latitude range.
func LatitudeSpanMeters(latMinDeg, latMaxDeg float64) float64 {
	return (latMaxDeg - latMinDeg) * MetersPerDegreeLatitude
}

// LongitudeSpanMeters approximates the east-west extent of a longitude range
// at the given mean latitude. Degrees of longitude shrink with cos(latitude).
func LongitudeSpanMeters(lonMinDeg, lonMaxDeg, meanLatDeg float64) float64 {
	return (lonMaxDeg - lonMinDeg) * MetersPerDegreeLatitude * math.Cos(meanLatDeg*math.Pi/180)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
