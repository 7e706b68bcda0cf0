package bvh

// Channel is one animatable degree of freedom carried by a joint.
// The declared order of channels is semantically meaningful: local
// transforms are composed in exactly this order.
type Channel uint8

const (
	TranslateX Channel = iota
	TranslateY
	TranslateZ
	RotateX
	RotateY
	RotateZ
)

// channelTokens maps BVH channel tokens to Channel values.
var channelTokens = map[string]Channel{
	"Xposition": TranslateX,
	"Yposition": TranslateY,
	"Zposition": TranslateZ,
	"Xrotation": RotateX,
	"Yrotation": RotateY,
	"Zrotation": RotateZ,
}

func (c Channel) String() string {
	switch c {
	case TranslateX:
		return "Xposition"
	case TranslateY:
		return "Yposition"
	case TranslateZ:
		return "Zposition"
	case RotateX:
		return "Xrotation"
	case RotateY:
		return "Yrotation"
	case RotateZ:
		return "Zrotation"
	}
	return "?"
}

// IsRotation reports whether the channel is a rotation axis (degrees).
func (c Channel) IsRotation() bool {
	return c >= RotateX
}

// JointKind distinguishes the three node types of the hierarchy grammar.
type JointKind uint8

const (
	KindRoot JointKind = iota
	KindJoint
	KindEndSite
)

// EndSiteName is the sentinel name assigned to anonymous End Site nodes.
// It never collides with real joint names; runtime bone entries for end
// sites are keyed by a name derived from the parent instead.
const EndSiteName = "__end_site__"

// Joint is one node in the skeleton tree. The tree is a strict ownership
// tree: a parent exclusively owns its children and no back-pointers are
// stored. Built once per load, immutable afterwards.
type Joint struct {
	Name     string
	Kind     JointKind
	Offset   [3]float64 // translation relative to the parent's local frame
	Channels []Channel
	Children []*Joint
}

// MotionData holds the parsed MOTION block. FrameCount is the realized
// count (len(Frames)); a truncated file yields fewer frames than declared,
// which is a warning, not an error.
type MotionData struct {
	FrameCount int
	FrameTime  float64 // seconds per frame, > 0
	Frames     [][]float64
}

// Document is the result of one atomic parse: skeleton plus motion.
// Warnings carry recoverable data-quality conditions (truncated motion,
// unparseable numeric tokens); fatal errors never produce a Document.
type Document struct {
	Root          *Joint
	Motion        MotionData
	TotalChannels int
	Warnings      []string
}

// NFrames returns the realized frame count.
func (d *Document) NFrames() int {
	return d.Motion.FrameCount
}

// FrameTime returns seconds per frame.
func (d *Document) FrameTime() float64 {
	return d.Motion.FrameTime
}

// FPS returns the display rate derived from the frame time.
func (d *Document) FPS() float64 {
	if d.Motion.FrameTime <= 0 {
		return 0
	}
	return 1.0 / d.Motion.FrameTime
}

// ChannelOrder returns every channel of the tree in pre-order traversal
// (root first, children in declaration order). This is the column order of
// the per-frame value arrays; parser and evaluator both rely on it.
func (d *Document) ChannelOrder() []Channel {
	var out []Channel
	var walk func(j *Joint)
	walk = func(j *Joint) {
		out = append(out, j.Channels...)
		for _, c := range j.Children {
			walk(c)
		}
	}
	walk(d.Root)
	return out
}
