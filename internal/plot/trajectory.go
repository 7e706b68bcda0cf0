package plot

import (
	"fmt"

	"bvh-skeleton-renderer/internal/bvh"
	"bvh-skeleton-renderer/internal/mathutil"
	"bvh-skeleton-renderer/internal/skeleton"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// axisIndex maps an axis name to a Vec3 component.
func axisIndex(axis string) (int, error) {
	switch axis {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("plot: unknown axis %q (want x, y or z)", axis)
}

// Trajectory plots one bone's world coordinate over time and saves it as a
// PNG. The bone name may be a joint name or an EndSite_<parent> entry.
func Trajectory(doc *bvh.Document, rig *skeleton.Rig, boneName, axis, outPath string) error {
	ai, err := axisIndex(axis)
	if err != nil {
		return err
	}
	bi, ok := rig.Lookup(boneName)
	if !ok {
		return fmt.Errorf("plot: unknown bone %q", boneName)
	}

	pose := make([]mathutil.Vec3, len(rig.Bones))
	pts := make(plotter.XYs, 0, doc.NFrames())
	for i := 0; i < doc.NFrames(); i++ {
		if !rig.Evaluate(i, pose) {
			break
		}
		pts = append(pts, plotter.XY{
			X: float64(i) * doc.FrameTime(),
			Y: pose[bi][ai],
		})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s.%s", boneName, axis)
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = fmt.Sprintf("world %s", axis)

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	p.Add(line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return fmt.Errorf("plot: save %s: %w", outPath, err)
	}
	return nil
}
