package skeleton

import (
	"math"

	"bvh-skeleton-renderer/internal/bvh"
	"bvh-skeleton-renderer/internal/mathutil"
)

// EndSitePrefix derives the runtime name of a synthetic end-site bone from
// its parent joint name.
const EndSitePrefix = "EndSite_"

// Bone is one entry in the flattened bone table. Parents always come
// before children (Parent < own index), so world transforms can be chained
// in a single forward pass over the slice.
type Bone struct {
	Name       string
	Parent     int // index into Rig.Bones, -1 for the root
	Joint      *bvh.Joint
	ChanOffset int // first column of this bone's channels in a frame
	End        bool
}

// Rig is the runtime view of a parsed skeleton: the joint tree flattened
// into a bone table with per-bone channel ranges. Built once per load,
// read-only afterwards; concurrent pose evaluation needs no locking.
type Rig struct {
	Bones  []Bone
	Motion *bvh.MotionData
	index  map[string]int
}

// NewRig flattens the document's joint tree in pre-order, children in
// declaration order. Each End Site leaf becomes a synthetic zero-channel
// bone named EndSite_<parentName> rather than a regular tree entry.
func NewRig(doc *bvh.Document) *Rig {
	r := &Rig{Motion: &doc.Motion, index: make(map[string]int)}
	r.flatten(doc.Root, -1, 0)
	return r
}

func (r *Rig) flatten(j *bvh.Joint, parent, cursor int) int {
	idx := len(r.Bones)
	r.Bones = append(r.Bones, Bone{
		Name:       j.Name,
		Parent:     parent,
		Joint:      j,
		ChanOffset: cursor,
	})
	r.index[j.Name] = idx
	cursor += len(j.Channels)

	for _, child := range j.Children {
		if child.Kind == bvh.KindEndSite {
			name := EndSitePrefix + j.Name
			r.index[name] = len(r.Bones)
			r.Bones = append(r.Bones, Bone{
				Name:   name,
				Parent: idx,
				Joint:  child,
				End:    true,
			})
			continue
		}
		cursor = r.flatten(child, idx, cursor)
	}
	return cursor
}

// Lookup returns the bone table index for a joint or end-site name.
func (r *Rig) Lookup(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Evaluate computes world positions for every bone at the given frame and
// writes them into out (len(out) must equal len(r.Bones)). A frame index
// outside the loaded range is a no-op: out keeps its previous contents and
// Evaluate returns false. This covers callers racing frame selection
// against an in-flight load.
func (r *Rig) Evaluate(frameIndex int, out []mathutil.Vec3) bool {
	if frameIndex < 0 || frameIndex >= len(r.Motion.Frames) {
		return false
	}
	r.evalFrame(r.Motion.Frames[frameIndex], out)
	return true
}

// RestPose computes world positions with every channel at zero, i.e. the
// skeleton's bind pose from offsets alone. Used when no motion frames are
// available.
func (r *Rig) RestPose(out []mathutil.Vec3) {
	r.evalFrame(nil, out)
}

func (r *Rig) evalFrame(frame []float64, out []mathutil.Vec3) {
	worlds := make([]mathutil.Mat4, len(r.Bones))
	for i, b := range r.Bones {
		// Local transform: static offset first, then the declared
		// channels composed in order. BVH channel order is data, not a
		// fixed TRS convention.
		local := mathutil.Mat4Translate(b.Joint.Offset[0], b.Joint.Offset[1], b.Joint.Offset[2])
		for k, ch := range b.Joint.Channels {
			v := 0.0
			if frame != nil {
				v = frame[b.ChanOffset+k]
			}
			if math.IsNaN(v) {
				// Unparseable motion tokens are stored as NaN by the
				// parser; substitute zero so poses stay finite.
				v = 0
			}
			local = mathutil.Mat4Mul(local, channelMatrix(ch, v))
		}

		if b.Parent >= 0 {
			worlds[i] = mathutil.Mat4Mul(worlds[b.Parent], local)
		} else {
			worlds[i] = local
		}
		out[i] = worlds[i].Translation()
	}
}

// channelMatrix builds the transform for one channel value. Rotation
// values are degrees.
func channelMatrix(ch bvh.Channel, v float64) mathutil.Mat4 {
	switch ch {
	case bvh.TranslateX:
		return mathutil.Mat4Translate(v, 0, 0)
	case bvh.TranslateY:
		return mathutil.Mat4Translate(0, v, 0)
	case bvh.TranslateZ:
		return mathutil.Mat4Translate(0, 0, v)
	case bvh.RotateX:
		return mathutil.Mat4RotX(mathutil.Deg2Rad(v))
	case bvh.RotateY:
		return mathutil.Mat4RotY(mathutil.Deg2Rad(v))
	case bvh.RotateZ:
		return mathutil.Mat4RotZ(mathutil.Deg2Rad(v))
	}
	return mathutil.Mat4Identity()
}

// WorldPositions evaluates one frame and returns positions keyed by bone
// name (joint names as declared plus EndSite_<parent> entries). Returns
// nil for an out-of-range frame index.
func (r *Rig) WorldPositions(frameIndex int) map[string]mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(r.Bones))
	if !r.Evaluate(frameIndex, out) {
		return nil
	}
	m := make(map[string]mathutil.Vec3, len(r.Bones))
	for i, b := range r.Bones {
		m[b.Name] = out[i]
	}
	return m
}
