package batch

import (
	"encoding/json"
	"os"

	"bvh-skeleton-renderer/internal/bvh"
	"bvh-skeleton-renderer/internal/normalize"
)

// Manifest summarizes one render run for downstream viewers: the display
// facts of the loaded clip plus the persisted normalization and the frame
// image file names.
type Manifest struct {
	FrameCount     int      `json:"frame_count"`
	FrameTime      float64  `json:"frame_time"`
	FPS            float64  `json:"fps"`
	TotalChannels  int      `json:"total_channels"`
	Scale          float64  `json:"scale"`
	VerticalOffset float64  `json:"vertical_offset"`
	Fallback       bool     `json:"bounding_box_fallback"`
	Warnings       []string `json:"warnings,omitempty"`
	Frames         []string `json:"frames"`
}

// WriteManifest writes manifest.json next to the rendered frames.
func WriteManifest(path string, doc *bvh.Document, norm normalize.Normalization, frames []int) error {
	m := Manifest{
		FrameCount:     doc.NFrames(),
		FrameTime:      doc.FrameTime(),
		FPS:            doc.FPS(),
		TotalChannels:  doc.TotalChannels,
		Scale:          norm.Scale,
		VerticalOffset: norm.VerticalOffset,
		Fallback:       norm.Fallback,
		Warnings:       doc.Warnings,
		Frames:         make([]string, len(frames)),
	}
	for i, f := range frames {
		m.Frames[i] = FrameFileName(f)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
