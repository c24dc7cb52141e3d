// Package report summarises a mission's pose table and renders the mission
// map figure that accompanies the extracted imagery.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/laurenkolinger/bag-metashape-export/internal/geo"
	"github.com/laurenkolinger/bag-metashape-export/internal/pose"
)

// Statistics is a read-only summary of one mission, computed once from the
// full pose table plus per-camera image counts.
type Statistics struct {
	StartTime    time.Time
	EndTime      time.Time
	DurationSecs float64

	LonMin, LonMax float64
	LatMin, LatMax float64
	LonSpanMeters  float64
	LatSpanMeters  float64

	AltMin, AltMax, AltMean float64

	PoseSamples int
	PoseRateHz  float64

	// ImageCounts maps camera role name to the number of frames extracted.
	ImageCounts map[string]int
}

// Compute aggregates the pose table. The lon/lat spans use the flat-Earth
// approximation from the geo package. A table with zero duration (a single
// sample, or duplicate timestamps only) reports a rate of zero.
func Compute(table *pose.Table) Statistics {
	s := Statistics{ImageCounts: make(map[string]int)}
	if table.Len() == 0 {
		return s
	}

	samples := table.Samples()
	lats := make([]float64, len(samples))
	alts := make([]float64, len(samples))

	s.LonMin, s.LonMax = samples[0].Longitude, samples[0].Longitude
	s.LatMin, s.LatMax = samples[0].Latitude, samples[0].Latitude
	s.AltMin, s.AltMax = samples[0].Altitude, samples[0].Altitude

	for i, p := range samples {
		lats[i] = p.Latitude
		alts[i] = p.Altitude
		s.LonMin = min(s.LonMin, p.Longitude)
		s.LonMax = max(s.LonMax, p.Longitude)
		s.LatMin = min(s.LatMin, p.Latitude)
		s.LatMax = max(s.LatMax, p.Latitude)
		s.AltMin = min(s.AltMin, p.Altitude)
		s.AltMax = max(s.AltMax, p.Altitude)
	}

	meanLat := stat.Mean(lats, nil)
	s.LonSpanMeters = geo.LongitudeSpanMeters(s.LonMin, s.LonMax, meanLat)
	s.LatSpanMeters = geo.LatitudeSpanMeters(s.LatMin, s.LatMax)
	s.AltMean = stat.Mean(alts, nil)

	first, last := table.First(), table.Last()
	s.StartTime = time.Unix(0, first.TimestampNanos)
	s.EndTime = time.Unix(0, last.TimestampNanos)
	s.DurationSecs = float64(last.TimestampNanos-first.TimestampNanos) / 1e9

	s.PoseSamples = table.Len()
	if s.DurationSecs > 0 {
		s.PoseRateHz = float64(s.PoseSamples) / s.DurationSecs
	}
	return s
}

// TextBlock renders the statistics panel shown on the mission map, one line
// per entry in a fixed layout.
func (s Statistics) TextBlock(bagName string) []string {
	lines := []string{
		"MISSION STATISTICS",
		strings.Repeat("=", 40),
		"",
		fmt.Sprintf("Bag File: %s", bagName),
		"",
		"TIME",
		fmt.Sprintf("  Start: %s", s.StartTime.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("  End: %s", s.EndTime.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("  Duration: %.1f seconds", s.DurationSecs),
		"",
		"LOCATION (WGS84)",
		fmt.Sprintf("  Longitude: %.6f° to %.6f°", s.LonMin, s.LonMax),
		fmt.Sprintf("  Latitude: %.6f° to %.6f°", s.LatMin, s.LatMax),
		fmt.Sprintf("  Span: %.1fm x %.1fm", s.LonSpanMeters, s.LatSpanMeters),
		"",
		"DEPTH / ALTITUDE",
		fmt.Sprintf("  DVL Altitude: %.2fm to %.2fm", s.AltMin, s.AltMax),
		fmt.Sprintf("  Mean Altitude: %.2fm", s.AltMean),
		"",
		"IMAGES EXTRACTED",
	}

	cameras := make([]string, 0, len(s.ImageCounts))
	for name := range s.ImageCounts {
		cameras = append(cameras, name)
	}
	sort.Strings(cameras)
	for _, name := range cameras {
		lines = append(lines, fmt.Sprintf("  %s camera: %d images", name, s.ImageCounts[name]))
	}

	lines = append(lines,
		"",
		"POSE DATA",
		fmt.Sprintf("  Samples: %d", s.PoseSamples),
		fmt.Sprintf("  Rate: %.1f Hz", s.PoseRateHz),
	)
	return lines
}
