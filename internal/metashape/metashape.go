// Package metashape produces the camera reference table that Agisoft
// Metashape imports to assign a geographic position and orientation to each
// extracted photo.
package metashape

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/laurenkolinger/bag-metashape-export/internal/extract"
	"github.com/laurenkolinger/bag-metashape-export/internal/geo"
	"github.com/laurenkolinger/bag-metashape-export/internal/pose"
)

// Header is the exact column layout Metashape's reference import expects.
var Header = []string{"label", "longitude", "latitude", "altitude", "yaw", "pitch", "roll"}

// Record georeferences one photo. Angles are degrees; Metashape's yaw column
// takes the vehicle heading.
type Record struct {
	Label     string
	Longitude float64
	Latitude  float64
	Altitude  float64
	Yaw       float64
	Pitch     float64
	Roll      float64
}

// Match interpolates the pose table at each image's bag timestamp, producing
// exactly one record per image in image order. Attitude channels are
// interpolated in radians and converted to degrees afterwards. An empty image
// set or an empty pose table yields an empty result; neither is an error.
func Match(images []extract.ImageRecord, table *pose.Table) []Record {
	if len(images) == 0 || table.Len() == 0 {
		return nil
	}

	records := make([]Record, 0, len(images))
	for _, img := range images {
		fix, ok := table.At(img.LogTimestampNanos)
		if !ok {
			continue
		}
		records = append(records, Record{
			Label:     img.Filename,
			Longitude: fix.Longitude,
			Latitude:  fix.Latitude,
			Altitude:  fix.Altitude,
			Yaw:       geo.Degrees(fix.Heading),
			Pitch:     geo.Degrees(fix.Pitch),
			Roll:      geo.Degrees(fix.Roll),
		})
	}
	return records
}

// WriteCSV writes the reference table. Row order follows the input so the
// file lines up with a directory listing of the extracted images. An empty
// record set writes nothing at all: no file is created.
func WriteCSV(path string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create reference csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Label,
			formatFloat(r.Longitude),
			formatFloat(r.Latitude),
			formatFloat(r.Altitude),
			formatFloat(r.Yaw),
			formatFloat(r.Pitch),
			formatFloat(r.Roll),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// formatFloat is the default numeric-to-text conversion: the shortest decimal
// string that round-trips the value.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadCSV loads a reference table back into records. Used by verification
// tooling and tests; Metashape itself is the primary consumer of the file.
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read reference csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("reference csv %s is empty", path)
	}
	if got, want := fmt.Sprint(rows[0]), fmt.Sprint(Header); got != want {
		return nil, fmt.Errorf("unexpected header %v", rows[0])
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(Header) {
			return nil, fmt.Errorf("row %d has %d fields, want %d", i+1, len(row), len(Header))
		}
		vals := make([]float64, 6)
		for j := 0; j < 6; j++ {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d field %s: %w", i+1, Header[j+1], err)
			}
			vals[j] = v
		}
		records = append(records, Record{
			Label:     row[0],
			Longitude: vals[0],
			Latitude:  vals[1],
			Altitude:  vals[2],
			Yaw:       vals[3],
			Pitch:     vals[4],
			Roll:      vals[5],
		})
	}
	return records, nil
}
