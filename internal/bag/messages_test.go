package bag

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
)

func TestStampNanos(t *testing.T) {
	tests := []struct {
		name  string
		stamp Stamp
		want  int64
	}{
		{"zero", Stamp{}, 0},
		{"seconds only", Stamp{Secs: 3}, 3_000_000_000},
		{"mixed", Stamp{Secs: 1700000000, Nsecs: 250000000}, 1700000000250000000},
		{"nanos only", Stamp{Nsecs: 42}, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stamp.Nanos(); got != tt.want {
				t.Errorf("Nanos() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPoseMessageDecode(t *testing.T) {
	doc := `{"meta":{"secs":1700000100,"nsecs":500000000},
		"data":{"x":-64.9512,"y":18.3031,"depth":12.4,"altitudeUsed":2.8,
		"heading":1.5708,"pitch":0.02,"roll":-0.01}}`

	var m PoseMessage
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	s := m.Sample()
	if s.TimestampNanos != 1700000100500000000 {
		t.Errorf("TimestampNanos = %d", s.TimestampNanos)
	}
	if s.Longitude != -64.9512 || s.Latitude != 18.3031 {
		t.Errorf("position = (%v, %v)", s.Longitude, s.Latitude)
	}
	if s.Depth != 12.4 || s.Altitude != 2.8 {
		t.Errorf("depth/altitude = %v/%v", s.Depth, s.Altitude)
	}
	if s.Heading != 1.5708 || s.Pitch != 0.02 || s.Roll != -0.01 {
		t.Errorf("attitude = %v/%v/%v", s.Heading, s.Pitch, s.Roll)
	}
}

func TestImageMessageDecode(t *testing.T) {
	pixels := []byte{10, 20, 30, 40, 50, 60}
	doc := fmt.Sprintf(`{"meta":{"secs":1700000101,"nsecs":0},
		"data":{"header":{"seq":7,"stamp":{"secs":1700000100,"nsecs":900000000},"frame_id":"science_cam"},
		"height":1,"width":2,"encoding":"bgr8","step":6,
		"data":%q}}`, base64.StdEncoding.EncodeToString(pixels))

	var m ImageMessage
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if m.LogNanos() != 1700000101000000000 {
		t.Errorf("LogNanos = %d", m.LogNanos())
	}
	if m.HeaderNanos() != 1700000100900000000 {
		t.Errorf("HeaderNanos = %d", m.HeaderNanos())
	}
	if m.Data.Encoding != "bgr8" || m.Data.Width != 2 || m.Data.Height != 1 {
		t.Errorf("raster shape = %s %dx%d", m.Data.Encoding, m.Data.Width, m.Data.Height)
	}
	if len(m.Data.Data) != len(pixels) {
		t.Fatalf("payload length = %d, want %d", len(m.Data.Data), len(pixels))
	}
	for i, b := range pixels {
		if m.Data.Data[i] != b {
			t.Errorf("payload[%d] = %d, want %d", i, m.Data.Data[i], b)
		}
	}
}
