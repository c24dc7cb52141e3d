package extract

import (
	"bytes"
	"fmt"
	"image"

	// Codecs for compressed camera payloads.
	_ "image/jpeg"
	_ "image/png"

	"github.com/laurenkolinger/bag-metashape-export/internal/bag"
)

// decodeFrame turns a camera message into an image ready for JPEG encoding.
// Compressed payloads go through the registered stdlib codecs. Raw rasters
// are interpreted by their encoding tag; a frame with an unrecognised tag is
// assumed to be interleaved 3-channel BGR, matching what the camera drivers
// on the vehicle emit when they omit the tag.
func decodeFrame(msg bag.ImageMessage, compressed bool) (image.Image, error) {
	if compressed {
		img, _, err := image.Decode(bytes.NewReader(msg.Data.Data))
		if err != nil {
			return nil, fmt.Errorf("decode compressed frame: %w", err)
		}
		return img, nil
	}
	return decodeRaw(msg.Data.Width, msg.Data.Height, msg.Data.Step, msg.Data.Encoding, msg.Data.Data)
}

func decodeRaw(width, height, step int, encoding string, data []byte) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}

	switch encoding {
	case "mono8":
		return rawGray(width, height, step, data)
	case "bgr8":
		return rawInterleaved(width, height, step, 3, data, 2, 1, 0)
	case "rgb8":
		return rawInterleaved(width, height, step, 3, data, 0, 1, 2)
	case "bgra8":
		return rawInterleaved(width, height, step, 4, data, 2, 1, 0)
	default:
		// Unspecified encoding: assume packed 3-channel BGR, inferring the
		// channel count from the payload when the row step allows it.
		channels := 3
		if step > 0 && step%width == 0 {
			channels = step / width
		} else if len(data)%(width*height) == 0 {
			channels = len(data) / (width * height)
		}
		if channels < 3 {
			return rawGray(width, height, step, data)
		}
		return rawInterleaved(width, height, width*channels, channels, data, 2, 1, 0)
	}
}

func rawGray(width, height, step int, data []byte) (image.Image, error) {
	if step < width {
		step = width
	}
	if len(data) < step*(height-1)+width {
		return nil, fmt.Errorf("mono8 payload too short: %d bytes for %dx%d step %d", len(data), width, height, step)
	}
	return &image.Gray{Pix: data, Stride: step, Rect: image.Rect(0, 0, width, height)}, nil
}

// rawInterleaved builds an RGBA image from a packed raster. rOff/gOff/bOff
// give the source byte offsets of the red, green and blue channels within a
// pixel. Any alpha channel is discarded, since the output is JPEG.
func rawInterleaved(width, height, step, channels int, data []byte, rOff, gOff, bOff int) (image.Image, error) {
	if step < width*channels {
		step = width * channels
	}
	if len(data) < step*(height-1)+width*channels {
		return nil, fmt.Errorf("raw payload too short: %d bytes for %dx%dx%d step %d", len(data), width, height, channels, step)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := y * step
		dst := y * img.Stride
		for x := 0; x < width; x++ {
			p := src + x*channels
			q := dst + x*4
			img.Pix[q+0] = data[p+rOff]
			img.Pix[q+1] = data[p+gOff]
			img.Pix[q+2] = data[p+bOff]
			img.Pix[q+3] = 0xff
		}
	}
	return img, nil
}
