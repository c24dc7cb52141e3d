// Package bag reads pose and camera image messages out of a ROS1 bag file.
// The container format and generic message decoding are handled by gobag;
// this package maps the decoded JSON messages onto the typed structures the
// extraction pipeline consumes.
package bag

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edaniels/gobag/rosbag"
)

// Reader wraps an in-memory parse of a single bag file. A Reader serves any
// number of per-topic message queries without reopening the file.
type Reader struct {
	rb *rosbag.RosBag
}

// Open reads the bag file at path into memory.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bag: %w", err)
	}
	defer f.Close()

	rb := rosbag.NewRosBag()
	if err := rb.Read(f); err != nil {
		return nil, fmt.Errorf("parse bag %s: %w", path, err)
	}
	return &Reader{rb: rb}, nil
}

// messagesForTopic returns one raw JSON document per message on the topic, in
// bag order. An absent topic yields an empty slice, not an error; callers
// decide whether that is fatal.
func (r *Reader) messagesForTopic(topic string) ([][]byte, error) {
	if err := r.rb.ParseTopicsToJSON(
		"",
		func(int64) bool { return true },
		func(t string) bool { return t == topic },
		false,
	); err != nil {
		return nil, fmt.Errorf("parse topic %s: %w", topic, err)
	}

	buf := r.rb.TopicsAsJSON[topic]
	if buf == nil {
		return nil, nil
	}

	var msgs [][]byte
	for {
		line, err := buf.ReadBytes('\n')
		if len(line) > 1 {
			msgs = append(msgs, line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}
	return msgs, nil
}

// PoseMessages decodes every message on the pose topic.
func (r *Reader) PoseMessages(topic string) ([]PoseMessage, error) {
	raw, err := r.messagesForTopic(topic)
	if err != nil {
		return nil, err
	}
	msgs := make([]PoseMessage, 0, len(raw))
	for i, data := range raw {
		var m PoseMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode pose message %d on %s: %w", i, topic, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// ImageMessages decodes every message on a camera topic.
func (r *Reader) ImageMessages(topic string) ([]ImageMessage, error) {
	raw, err := r.messagesForTopic(topic)
	if err != nil {
		return nil, err
	}
	msgs := make([]ImageMessage, 0, len(raw))
	for i, data := range raw {
		var m ImageMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode image message %d on %s: %w", i, topic, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
