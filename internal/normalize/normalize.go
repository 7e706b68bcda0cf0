package normalize

import (
	"math"

	"bvh-skeleton-renderer/internal/mathutil"
	"bvh-skeleton-renderer/internal/skeleton"
)

// Heuristics holds the joint-name candidate lists and tuning constants for
// auto-retargeting. The lists are plain data so alternate rig naming
// conventions can be supplied from config without code changes.
type Heuristics struct {
	HeadNames    []string // tried in order; first match wins
	FootNames    []string // lowest match wins
	FootEndSites []string // synthesized EndSite_<parent> candidates

	CanonicalHeight float64 // target head-to-foot height after scaling
	MinBodyHeight   float64 // below this the heuristic is abandoned
	GroundY         float64 // vertical line the scaled foot is placed on
	FallbackTarget  float64 // bounding-box fallback target size
}

// footCandidates covers PascalCase, l/r-prefixed, and snake_case rigs.
var footCandidates = []string{
	"LeftFoot", "RightFoot",
	"LeftToe", "RightToe",
	"LeftToeBase", "RightToeBase",
	"LeftAnkle", "RightAnkle",
	"lFoot", "rFoot",
	"lToe", "rToe",
	"lAnkle", "rAnkle",
	"left_foot", "right_foot",
	"left_toe", "right_toe",
	"left_ankle", "right_ankle",
}

// Defaults returns the built-in heuristics.
func Defaults() Heuristics {
	h := Heuristics{
		HeadNames:       []string{"Head", "Neck"},
		FootNames:       footCandidates,
		CanonicalHeight: 100,
		MinBodyHeight:   1,
		GroundY:         0,
		FallbackTarget:  100,
	}
	h.FootEndSites = make([]string, len(h.FootNames))
	for i, n := range h.FootNames {
		h.FootEndSites[i] = skeleton.EndSitePrefix + n
	}
	return h
}

// Normalization is the persisted display transform for one loaded
// skeleton: positions are scaled uniformly and shifted vertically, once,
// without re-deriving per frame.
type Normalization struct {
	Scale          float64
	VerticalOffset float64
	Fallback       bool // bounding-box path was used
}

// Apply maps a world position into display space.
func (n Normalization) Apply(p mathutil.Vec3) mathutil.Vec3 {
	p = p.Scale(n.Scale)
	p[1] += n.VerticalOffset
	return p
}

// Compute derives scale and vertical offset from frame 0 of the rig's
// motion (or the rest pose when no frames were loaded). It never fails:
// when the head or foot heuristic cannot resolve, or the body height is
// degenerate, the bounding-box fallback is used instead.
func Compute(rig *skeleton.Rig, h Heuristics) Normalization {
	positions := make([]mathutil.Vec3, len(rig.Bones))
	if !rig.Evaluate(0, positions) {
		rig.RestPose(positions)
	}

	headY, headOK := resolveHead(rig, positions, h)
	footY := resolveFoot(rig, positions, h)

	bodyHeight := headY - footY
	if !headOK || bodyHeight <= h.MinBodyHeight {
		return boundingBoxFallback(positions, h)
	}

	scale := h.CanonicalHeight / bodyHeight
	return Normalization{
		Scale:          scale,
		VerticalOffset: h.GroundY - footY*scale,
	}
}

// resolveHead returns the vertical coordinate of the first head candidate
// present in the rig.
func resolveHead(rig *skeleton.Rig, positions []mathutil.Vec3, h Heuristics) (float64, bool) {
	for _, name := range h.HeadNames {
		if i, ok := rig.Lookup(name); ok {
			return positions[i][1], true
		}
	}
	return 0, false
}

// resolveFoot returns the lowest vertical coordinate among the foot
// candidates, falling back to the lowest coordinate of any bone when no
// candidate matches.
func resolveFoot(rig *skeleton.Rig, positions []mathutil.Vec3, h Heuristics) float64 {
	lowest := math.Inf(1)
	found := false
	for _, list := range [][]string{h.FootNames, h.FootEndSites} {
		for _, name := range list {
			if i, ok := rig.Lookup(name); ok {
				if y := positions[i][1]; y < lowest {
					lowest = y
				}
				found = true
			}
		}
	}
	if found {
		return lowest
	}
	for _, p := range positions {
		if p[1] < lowest {
			lowest = p[1]
		}
	}
	return lowest
}

// boundingBoxFallback normalizes by the axis-aligned bounding box over all
// bone positions: scale from the largest box dimension, vertical offset so
// the box's vertical center sits at half the canonical height. The scale
// stays finite and non-zero even for a degenerate (single-point) box.
func boundingBoxFallback(positions []mathutil.Vec3, h Heuristics) Normalization {
	if len(positions) == 0 {
		return Normalization{Scale: 1, Fallback: true}
	}
	bbMin, bbMax := positions[0], positions[0]
	for _, p := range positions[1:] {
		bbMin = mathutil.MinElems(bbMin, p)
		bbMax = mathutil.MaxElems(bbMax, p)
	}
	span := bbMax.Sub(bbMin)
	maxDim := math.Max(span[0], math.Max(span[1], span[2]))

	scale := 1.0
	if maxDim > 1e-9 {
		scale = h.FallbackTarget / maxDim
	}
	centerY := (bbMin[1] + bbMax[1]) / 2
	return Normalization{
		Scale:          scale,
		VerticalOffset: h.CanonicalHeight/2 - centerY*scale,
		Fallback:       true,
	}
}
