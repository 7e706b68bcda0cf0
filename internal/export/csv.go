package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"bvh-skeleton-renderer/internal/bvh"
	"bvh-skeleton-renderer/internal/mathutil"
	"bvh-skeleton-renderer/internal/skeleton"
)

// WriteJointPositions writes per-frame world positions as CSV: a time
// column followed by <bone>.x/.y/.z columns for every bone, end sites
// included.
func WriteJointPositions(w io.Writer, doc *bvh.Document, rig *skeleton.Rig) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "time")
	for _, b := range rig.Bones {
		for _, axis := range []string{"x", "y", "z"} {
			fmt.Fprintf(bw, ",%s.%s", b.Name, axis)
		}
	}
	fmt.Fprintln(bw)

	pose := make([]mathutil.Vec3, len(rig.Bones))
	for i := 0; i < doc.NFrames(); i++ {
		rig.Evaluate(i, pose)
		fmt.Fprintf(bw, "%10.5f", float64(i)*doc.FrameTime())
		for _, p := range pose {
			fmt.Fprintf(bw, ",%10.5f,%10.5f,%10.5f", p[0], p[1], p[2])
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteJointHierarchy writes the static skeleton structure as CSV:
// joint, parent, offset.
func WriteJointHierarchy(w io.Writer, rig *skeleton.Rig) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "joint,parent,offset.x,offset.y,offset.z")
	for _, b := range rig.Bones {
		parent := ""
		if b.Parent >= 0 {
			parent = rig.Bones[b.Parent].Name
		}
		fmt.Fprintf(bw, "%s,%s,%f,%f,%f\n",
			b.Name, parent, b.Joint.Offset[0], b.Joint.Offset[1], b.Joint.Offset[2])
	}
	return bw.Flush()
}

// WritePositionsFile is a convenience wrapper writing WriteJointPositions
// output to a file path.
func WritePositionsFile(path string, doc *bvh.Document, rig *skeleton.Rig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteJointPositions(f, doc, rig); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
