package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/laurenkolinger/bag-metashape-export/internal/bag"
)

// rawImageMessage builds an ImageMessage carrying a raw raster payload.
func rawImageMessage(t *testing.T, width, height int, encoding string, pixels []byte, logSecs int64) bag.ImageMessage {
	t.Helper()
	channels := 0
	if width*height > 0 {
		channels = len(pixels) / (width * height)
	}
	doc := map[string]any{
		"meta": map[string]any{"secs": logSecs, "nsecs": 0},
		"data": map[string]any{
			"header": map[string]any{
				"seq":      1,
				"stamp":    map[string]any{"secs": logSecs - 1, "nsecs": 500000000},
				"frame_id": "cam",
			},
			"height":   height,
			"width":    width,
			"encoding": encoding,
			"step":     width * channels,
			"data":     pixels,
		},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	var m bag.ImageMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return m
}

func TestDecodeRawEncodings(t *testing.T) {
	// One 2x1 frame per encoding; every variant should decode to a red pixel
	// followed by a blue pixel.
	red := color.RGBA{R: 200, A: 255}
	blue := color.RGBA{B: 200, A: 255}

	tests := []struct {
		encoding string
		pixels   []byte
	}{
		{"rgb8", []byte{200, 0, 0, 0, 0, 200}},
		{"bgr8", []byte{0, 0, 200, 200, 0, 0}},
		{"bgra8", []byte{0, 0, 200, 255, 200, 0, 0, 255}},
		{"", []byte{0, 0, 200, 200, 0, 0}}, // untagged, assumed bgr8
	}

	for _, tt := range tests {
		name := tt.encoding
		if name == "" {
			name = "untagged"
		}
		t.Run(name, func(t *testing.T) {
			msg := rawImageMessage(t, 2, 1, tt.encoding, tt.pixels, 100)
			img, err := decodeFrame(msg, false)
			if err != nil {
				t.Fatalf("decodeFrame: %v", err)
			}
			if got := img.Bounds(); got.Dx() != 2 || got.Dy() != 1 {
				t.Fatalf("bounds = %v", got)
			}
			for x, want := range []color.RGBA{red, blue} {
				r, g, b, _ := img.At(x, 0).RGBA()
				wr, wg, wb, _ := want.RGBA()
				if r != wr || g != wg || b != wb {
					t.Errorf("pixel %d = (%d,%d,%d), want (%d,%d,%d)", x, r>>8, g>>8, b>>8, wr>>8, wg>>8, wb>>8)
				}
			}
		})
	}
}

func TestDecodeMono8(t *testing.T) {
	msg := rawImageMessage(t, 3, 2, "mono8", []byte{0, 64, 128, 192, 255, 10}, 100)
	img, err := decodeFrame(msg, false)
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("mono8 decoded to %T, want *image.Gray", img)
	}
	if gray.GrayAt(1, 0).Y != 64 || gray.GrayAt(2, 1).Y != 10 {
		t.Errorf("unexpected gray values: %v", gray.Pix)
	}
}

func TestDecodeCompressed(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	msg := rawImageMessage(t, 0, 0, "", buf.Bytes(), 100)
	img, err := decodeFrame(msg, true)
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("bounds = %v, want 4x4", b)
	}
}

func TestDecodeShortPayload(t *testing.T) {
	msg := rawImageMessage(t, 10, 10, "rgb8", []byte{1, 2, 3}, 100)
	if _, err := decodeFrame(msg, false); err == nil {
		t.Error("expected error for truncated payload")
	}
}

func TestSaveImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "down_images")

	var msgs []bag.ImageMessage
	for i := 0; i < 3; i++ {
		msgs = append(msgs, rawImageMessage(t, 2, 2, "rgb8",
			[]byte{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120},
			int64(100+i)))
	}

	records, err := SaveImages(msgs, dir, "down", false)
	if err != nil {
		t.Fatalf("SaveImages: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	for i, rec := range records {
		wantName := fmt.Sprintf("down_%04d.jpg", i)
		if rec.Filename != wantName {
			t.Errorf("record %d filename = %s, want %s", i, rec.Filename, wantName)
		}
		if rec.Index != i {
			t.Errorf("record %d index = %d", i, rec.Index)
		}
		if rec.LogTimestampNanos != int64(100+i)*1e9 {
			t.Errorf("record %d log timestamp = %d", i, rec.LogTimestampNanos)
		}
		if rec.HeaderTimestampNanos != (int64(100+i)-1)*1e9+500000000 {
			t.Errorf("record %d header timestamp = %d", i, rec.HeaderTimestampNanos)
		}

		// File must exist and be a decodable JPEG.
		f, err := os.Open(filepath.Join(dir, rec.Filename))
		if err != nil {
			t.Fatalf("open %s: %v", rec.Filename, err)
		}
		if _, err := jpeg.Decode(f); err != nil {
			t.Errorf("decode %s: %v", rec.Filename, err)
		}
		f.Close()
	}
}

func TestSaveImagesEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "forward_images")
	records, err := SaveImages(nil, dir, "forward", false)
	if err != nil {
		t.Fatalf("SaveImages: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("image dir not created: %v", err)
	}
}

func TestDefaultCameras(t *testing.T) {
	cams := DefaultCameras()
	if len(cams) != 2 {
		t.Fatalf("got %d cameras, want 2", len(cams))
	}
	if cams[0].Name != "down" || cams[0].Topic != "/science/image_raw" {
		t.Errorf("unexpected down camera: %+v", cams[0])
	}
	if cams[1].Name != "forward" || cams[1].Topic != "/zed2/zed_node/left/image_rect_color" {
		t.Errorf("unexpected forward camera: %+v", cams[1])
	}
}
