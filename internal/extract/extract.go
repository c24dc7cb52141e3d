// Package extract writes camera frames from a mission bag to disk as
// sequentially numbered JPEGs and records the timestamps needed to
// georeference each frame afterwards.
package extract

import (
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"

	"github.com/laurenkolinger/bag-metashape-export/internal/bag"
)

// jpegQuality matches the quality the photogrammetry workflow was tuned
// against; changing it silently changes downstream reconstruction results.
const jpegQuality = 95

// progressInterval controls how often extraction progress is logged.
const progressInterval = 20

// ImageRecord describes one extracted frame. LogTimestampNanos is the bag
// record time used for pose interpolation; HeaderTimestampNanos is the
// capture time reported by the camera driver, kept for diagnostics.
type ImageRecord struct {
	Filename             string
	HeaderTimestampNanos int64
	LogTimestampNanos    int64
	Index                int
}

// SaveImages decodes every frame and writes it to dir as
// <prefix>_<4-digit-index>.jpg, returning one record per frame in message
// order. An empty message set returns an empty record set and creates the
// directory anyway, mirroring the pre-existing layout convention.
func SaveImages(msgs []bag.ImageMessage, dir, prefix string, compressed bool) ([]ImageRecord, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	records := make([]ImageRecord, 0, len(msgs))
	for idx, msg := range msgs {
		img, err := decodeFrame(msg, compressed)
		if err != nil {
			return records, fmt.Errorf("frame %d: %w", idx, err)
		}

		filename := fmt.Sprintf("%s_%04d.jpg", prefix, idx)
		if err := writeJPEG(filepath.Join(dir, filename), img); err != nil {
			return records, fmt.Errorf("frame %d: %w", idx, err)
		}

		records = append(records, ImageRecord{
			Filename:             filename,
			HeaderTimestampNanos: msg.HeaderNanos(),
			LogTimestampNanos:    msg.LogNanos(),
			Index:                idx,
		})

		if (idx+1)%progressInterval == 0 {
			log.Printf("    Extracted %d images...", idx+1)
		}
	}
	return records, nil
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
