// Package pose holds the navigation table extracted from a mission bag and
// the time interpolation used to georeference imagery against it.
package pose

import "sort"

// Sample is a single navigation fix from the vehicle's pose stream.
// Position is WGS84 degrees; attitude angles are radians in the body frame.
type Sample struct {
	TimestampNanos int64
	Longitude      float64 // degrees
	Latitude       float64 // degrees
	Depth          float64 // metres, positive down
	Altitude       float64 // metres above the seafloor (DVL)
	Heading        float64 // radians
	Pitch          float64 // radians
	Roll           float64 // radians
}

// Fix is an interpolated pose at an arbitrary query time. Angles stay in
// radians; conversion to degrees happens at export time.
type Fix struct {
	Longitude float64
	Latitude  float64
	Depth     float64
	Altitude  float64
	Heading   float64
	Pitch     float64
	Roll      float64
}

// Table is a time-ordered set of pose samples. Samples are sorted by
// timestamp at construction; bag delivery order is not trusted to be
// chronological.
type Table struct {
	samples []Sample
}

// NewTable copies the given samples into a table sorted by timestamp.
// The sort is stable so samples sharing a timestamp keep their bag order.
func NewTable(samples []Sample) *Table {
	s := make([]Sample, len(samples))
	copy(s, samples)
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].TimestampNanos < s[j].TimestampNanos
	})
	return &Table{samples: s}
}

// Len returns the number of samples in the table.
func (t *Table) Len() int { return len(t.samples) }

// Samples returns the sorted backing slice. Callers must not modify it.
func (t *Table) Samples() []Sample { return t.samples }

// First returns the earliest sample. Only valid when Len() > 0.
func (t *Table) First() Sample { return t.samples[0] }

// Last returns the latest sample. Only valid when Len() > 0.
func (t *Table) Last() Sample { return t.samples[len(t.samples)-1] }

// At interpolates every pose channel at the query timestamp. Each channel is
// treated as an independent piecewise-linear series over the shared timestamp
// axis. Queries outside the table's time range extrapolate along the nearest
// edge segment's slope rather than clamping, so a query far past the end of
// the mission can return positions well outside the travelled path. Angles
// are interpolated linearly in radians with no wraparound handling: a heading
// crossing the 0/2π boundary interpolates across the discontinuity.
//
// Returns ok=false only when the table is empty. A single-sample table
// returns that sample's values for any query time.
func (t *Table) At(tsNanos int64) (Fix, bool) {
	n := len(t.samples)
	if n == 0 {
		return Fix{}, false
	}
	if n == 1 {
		return t.samples[0].fix(), true
	}

	// Index of the segment [i, i+1] used for interpolation. Queries before
	// the first sample use the first segment; queries after the last use
	// the last segment (this is what makes out-of-range queries extrapolate).
	i := sort.Search(n, func(k int) bool {
		return t.samples[k].TimestampNanos >= tsNanos
	})
	if i > 0 {
		i--
	}
	if i > n-2 {
		i = n - 2
	}

	a, b := t.samples[i], t.samples[i+1]
	dt := float64(b.TimestampNanos - a.TimestampNanos)
	if dt == 0 {
		// Duplicate timestamps: slope is undefined, return the earlier sample.
		return a.fix(), true
	}
	w := float64(tsNanos-a.TimestampNanos) / dt

	lerp := func(x, y float64) float64 { return x + (y-x)*w }
	return Fix{
		Longitude: lerp(a.Longitude, b.Longitude),
		Latitude:  lerp(a.Latitude, b.Latitude),
		Depth:     lerp(a.Depth, b.Depth),
		Altitude:  lerp(a.Altitude, b.Altitude),
		Heading:   lerp(a.Heading, b.Heading),
		Pitch:     lerp(a.Pitch, b.Pitch),
		Roll:      lerp(a.Roll, b.Roll),
	}, true
}

func (s Sample) fix() Fix {
	return Fix{
		Longitude: s.Longitude,
		Latitude:  s.Latitude,
		Depth:     s.Depth,
		Altitude:  s.Altitude,
		Heading:   s.Heading,
		Pitch:     s.Pitch,
		Roll:      s.Roll,
	}
}
