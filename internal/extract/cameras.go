package extract

// CameraRole describes one camera stream to pull out of a mission bag. The
// set of roles is a fixed table, not discovered at runtime: adding a camera
// means adding an entry here.
type CameraRole struct {
	Name        string // output prefix and directory stem
	Topic       string // bag topic carrying the frames
	Description string
	Compressed  bool // payload is codec bytes rather than a raw raster
}

// DefaultCameras is the standard survey payload: a down-facing science
// camera and a forward-facing stereo head's left channel.
func DefaultCameras() []CameraRole {
	return []CameraRole{
		{
			Name:        "down",
			Topic:       "/science/image_raw",
			Description: "Down-facing science camera (4K)",
			Compressed:  false,
		},
		{
			Name:        "forward",
			Topic:       "/zed2/zed_node/left/image_rect_color",
			Description: "Forward-facing ZED2 camera",
			Compressed:  false,
		},
	}
}
