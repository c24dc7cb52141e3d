package bag

import "github.com/laurenkolinger/bag-metashape-export/internal/pose"

// Stamp is a ROS time split into whole seconds and nanoseconds.
type Stamp struct {
	Secs  int64
	Nsecs int64
}

// Nanos returns the stamp as integer nanoseconds since the ROS epoch.
func (s Stamp) Nanos() int64 {
	return s.Secs*1e9 + s.Nsecs
}

// PoseMessage is one fix from the vehicle's navigation solution. Meta carries
// the bag record time (when the message was appended to the log); the payload
// fields use the driver's naming, where x/y are longitude/latitude and
// altitudeUsed is the DVL altitude selected by the nav filter.
type PoseMessage struct {
	Meta Stamp
	Data struct {
		X            float64 `json:"x"`
		Y            float64 `json:"y"`
		Depth        float64 `json:"depth"`
		AltitudeUsed float64 `json:"altitudeUsed"`
		Heading      float64 `json:"heading"`
		Pitch        float64 `json:"pitch"`
		Roll         float64 `json:"roll"`
	}
}

// Sample converts the message into a pose table sample keyed by the bag
// record time.
func (m PoseMessage) Sample() pose.Sample {
	return pose.Sample{
		TimestampNanos: m.Meta.Nanos(),
		Longitude:      m.Data.X,
		Latitude:       m.Data.Y,
		Depth:          m.Data.Depth,
		Altitude:       m.Data.AltitudeUsed,
		Heading:        m.Data.Heading,
		Pitch:          m.Data.Pitch,
		Roll:           m.Data.Roll,
	}
}

// ImageMessage is one camera frame, either a sensor_msgs/Image raw raster or
// a compressed payload. Raw payloads carry the encoding tag and row step;
// compressed payloads leave Encoding empty and put the codec bytes in Data.
type ImageMessage struct {
	Meta Stamp
	Data struct {
		Header struct {
			Seq     uint32 `json:"seq"`
			Stamp   Stamp  `json:"stamp"`
			FrameID string `json:"frame_id"`
		} `json:"header"`
		Height   int    `json:"height"`
		Width    int    `json:"width"`
		Encoding string `json:"encoding"`
		Step     int    `json:"step"`
		Data     []byte `json:"data"`
	}
}

// HeaderNanos is the capture time reported by the camera driver.
func (m ImageMessage) HeaderNanos() int64 {
	return m.Data.Header.Stamp.Nanos()
}

// LogNanos is the time the frame was appended to the bag. Interpolation
// lookups use this, matching the timebase of the pose stream.
func (m ImageMessage) LogNanos() int64 {
	return m.Meta.Nanos()
}
