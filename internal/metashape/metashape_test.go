package metashape

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/laurenkolinger/bag-metashape-export/internal/extract"
	"github.com/laurenkolinger/bag-metashape-export/internal/pose"
)

func testTable() *pose.Table {
	return pose.NewTable([]pose.Sample{
		{TimestampNanos: 0, Longitude: -64.95, Latitude: 18.30, Altitude: 2.0, Heading: 0, Pitch: 0, Roll: 0},
		{TimestampNanos: 10, Longitude: -64.94, Latitude: 18.31, Altitude: 4.0, Heading: math.Pi, Pitch: 0.2, Roll: -0.2},
	})
}

func TestMatchOrderAndCount(t *testing.T) {
	images := []extract.ImageRecord{
		{Filename: "down_0000.jpg", LogTimestampNanos: 0, Index: 0},
		{Filename: "down_0001.jpg", LogTimestampNanos: 5, Index: 1},
		{Filename: "down_0002.jpg", LogTimestampNanos: 10, Index: 2},
	}

	records := Match(images, testTable())
	if len(records) != len(images) {
		t.Fatalf("got %d records, want %d", len(records), len(images))
	}
	for i, r := range records {
		if r.Label != images[i].Filename {
			t.Errorf("record %d label = %s, want %s", i, r.Label, images[i].Filename)
		}
	}

	// Midpoint image: all channels are the arithmetic mean, yaw in degrees.
	mid := records[1]
	if math.Abs(mid.Longitude-(-64.945)) > 1e-9 {
		t.Errorf("mid longitude = %v", mid.Longitude)
	}
	if math.Abs(mid.Altitude-3.0) > 1e-9 {
		t.Errorf("mid altitude = %v", mid.Altitude)
	}
	if math.Abs(mid.Yaw-90) > 1e-9 {
		t.Errorf("mid yaw = %v degrees, want 90", mid.Yaw)
	}
	if math.Abs(mid.Pitch-math.Abs(mid.Roll)) > 1e-9 {
		t.Errorf("pitch %v and roll %v should be symmetric", mid.Pitch, mid.Roll)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	if got := Match(nil, testTable()); len(got) != 0 {
		t.Errorf("Match(nil, table) = %d records", len(got))
	}
	images := []extract.ImageRecord{{Filename: "down_0000.jpg"}}
	if got := Match(images, pose.NewTable(nil)); len(got) != 0 {
		t.Errorf("Match(images, empty table) = %d records", len(got))
	}
}

func TestWriteCSVEmptyWritesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "down_reference.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file, stat err = %v", err)
	}
}

func TestWriteCSVHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "down_reference.csv")
	records := []Record{
		{Label: "down_0000.jpg", Longitude: -64.95, Latitude: 18.3, Altitude: 2.5, Yaw: 90, Pitch: 1.5, Roll: -0.5},
		{Label: "down_0001.jpg", Longitude: -64.951, Latitude: 18.301, Altitude: 2.6, Yaw: 91, Pitch: 1.6, Roll: -0.4},
	}
	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "label,longitude,latitude,altitude,yaw,pitch,roll" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != len(records)+1 {
		t.Errorf("got %d lines, want %d", len(lines), len(records)+1)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rows[1][0] != "down_0000.jpg" || rows[2][0] != "down_0001.jpg" {
		t.Errorf("row order broken: %v", rows[1:])
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forward_reference.csv")
	want := []Record{
		{Label: "forward_0000.jpg", Longitude: -64.95123456, Latitude: 18.30654321, Altitude: 3.14159, Yaw: 359.9, Pitch: -1.25, Roll: 0.0625},
		{Label: "forward_0001.jpg", Longitude: -64.95123457, Latitude: 18.30654322, Altitude: 3.14160, Yaw: 0.1, Pitch: -1.26, Roll: 0.0626},
		{Label: "forward_0002.jpg", Longitude: -64.95123458, Latitude: 18.30654323, Altitude: 3.14161, Yaw: 0.3, Pitch: -1.27, Roll: 0.0627},
	}

	if err := WriteCSV(path, want); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
