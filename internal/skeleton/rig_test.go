package skeleton

import (
	"fmt"
	"math"
	"testing"

	"bvh-skeleton-renderer/internal/bvh"
	"bvh-skeleton-renderer/internal/mathutil"
)

func mustParse(t *testing.T, text string) *bvh.Document {
	t.Helper()
	doc, err := bvh.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

const hipHeadDoc = `HIERARCHY
ROOT Hip
{
  OFFSET 0 0 0
  CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
  JOINT Head
  {
    OFFSET 0 20 0
    CHANNELS 3 Zrotation Xrotation Yrotation
    End Site
    {
      OFFSET 0 5 0
    }
  }
}
MOTION
Frames: 1
Frame Time: 0.0333333
0 0 0 0 0 0 0 0 0
`

func TestFlattenOrderAndChannelRanges(t *testing.T) {
	rig := NewRig(mustParse(t, hipHeadDoc))

	wantNames := []string{"Hip", "Head", "EndSite_Head"}
	if len(rig.Bones) != len(wantNames) {
		t.Fatalf("bones = %d, want %d", len(rig.Bones), len(wantNames))
	}
	for i, want := range wantNames {
		if rig.Bones[i].Name != want {
			t.Errorf("bone %d = %q, want %q", i, rig.Bones[i].Name, want)
		}
		if rig.Bones[i].Parent >= i {
			t.Errorf("bone %d parent %d not before it", i, rig.Bones[i].Parent)
		}
	}
	if rig.Bones[0].ChanOffset != 0 || rig.Bones[1].ChanOffset != 6 {
		t.Errorf("channel offsets = %d,%d, want 0,6", rig.Bones[0].ChanOffset, rig.Bones[1].ChanOffset)
	}
	if !rig.Bones[2].End {
		t.Error("EndSite_Head not marked as end site")
	}
}

func TestEvaluateRestScenario(t *testing.T) {
	rig := NewRig(mustParse(t, hipHeadDoc))
	pos := rig.WorldPositions(0)
	if pos == nil {
		t.Fatal("WorldPositions returned nil for frame 0")
	}

	want := map[string]mathutil.Vec3{
		"Hip":          {0, 0, 0},
		"Head":         {0, 20, 0},
		"EndSite_Head": {0, 25, 0},
	}
	for name, w := range want {
		got, ok := pos[name]
		if !ok {
			t.Fatalf("missing bone %q", name)
		}
		if got.Sub(w).Len() > 1e-12 {
			t.Errorf("%s = %v, want %v", name, got, w)
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	text := `HIERARCHY
ROOT Hip
{
  OFFSET 1 2 3
  CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
  JOINT Knee
  {
    OFFSET 0 -10 0
    CHANNELS 3 Zrotation Xrotation Yrotation
    End Site
    {
      OFFSET 0 -4 0
    }
  }
}
MOTION
Frames: 1
Frame Time: 0.04
0.5 -1.25 3 12.5 -40 77 10 20 30
`
	rig := NewRig(mustParse(t, text))

	a := make([]mathutil.Vec3, len(rig.Bones))
	b := make([]mathutil.Vec3, len(rig.Bones))
	if !rig.Evaluate(0, a) || !rig.Evaluate(0, b) {
		t.Fatal("Evaluate failed")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("bone %d: %v != %v (not bit-identical)", i, a[i], b[i])
		}
	}
}

func TestEvaluateOutOfRangeIsNoOp(t *testing.T) {
	rig := NewRig(mustParse(t, hipHeadDoc))

	out := make([]mathutil.Vec3, len(rig.Bones))
	for i := range out {
		out[i] = mathutil.Vec3{9, 9, 9}
	}
	if rig.Evaluate(5, out) {
		t.Error("Evaluate(5) = true, want false")
	}
	if rig.Evaluate(-1, out) {
		t.Error("Evaluate(-1) = true, want false")
	}
	for i, p := range out {
		if p != (mathutil.Vec3{9, 9, 9}) {
			t.Errorf("bone %d overwritten on out-of-range evaluate: %v", i, p)
		}
	}
	if rig.WorldPositions(5) != nil {
		t.Error("WorldPositions(5) != nil")
	}
}

func rotOrderDoc(channels string) string {
	return fmt.Sprintf(`HIERARCHY
ROOT Base
{
  OFFSET 0 0 0
  CHANNELS 2 %s
  JOINT Tip
  {
    OFFSET 0 0 5
    CHANNELS 2 %s
    End Site
    {
      OFFSET 0 0 1
    }
  }
}
MOTION
Frames: 1
Frame Time: 0.1
90 90 0 0
`, channels, channels)
}

func TestChannelOrderIsNotNormalizedAway(t *testing.T) {
	rigXY := NewRig(mustParse(t, rotOrderDoc("Xrotation Yrotation")))
	rigYX := NewRig(mustParse(t, rotOrderDoc("Yrotation Xrotation")))

	posXY := rigXY.WorldPositions(0)
	posYX := rigYX.WorldPositions(0)

	// Same channel/value pairs, different declared order: Rx(90)·Ry(90)
	// and Ry(90)·Rx(90) move the tip to different places.
	if posXY["Tip"].Sub(posYX["Tip"]).Len() < 1 {
		t.Errorf("reordering channels did not change the pose: %v vs %v", posXY["Tip"], posYX["Tip"])
	}

	want := mathutil.Vec3{5, 0, 0} // Rx(Ry((0,0,5)))
	if posXY["Tip"].Sub(want).Len() > 1e-9 {
		t.Errorf("Tip (X then Y order) = %v, want %v", posXY["Tip"], want)
	}
}

func TestTranslationAndRotationChannels(t *testing.T) {
	text := `HIERARCHY
ROOT Hip
{
  OFFSET 0 1 0
  CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
  JOINT Arm
  {
    OFFSET 5 0 0
    CHANNELS 3 Zrotation Xrotation Yrotation
    End Site
    {
      OFFSET 1 0 0
    }
  }
}
MOTION
Frames: 2
Frame Time: 0.1
1 2 3 0 0 0 0 0 0
0 0 0 90 0 0 0 0 0
`
	rig := NewRig(mustParse(t, text))

	// Frame 0: pure root translation plus static offset.
	pos := rig.WorldPositions(0)
	if w := (mathutil.Vec3{1, 3, 3}); pos["Hip"].Sub(w).Len() > 1e-12 {
		t.Errorf("Hip = %v, want %v", pos["Hip"], w)
	}
	if w := (mathutil.Vec3{6, 3, 3}); pos["Arm"].Sub(w).Len() > 1e-12 {
		t.Errorf("Arm = %v, want %v", pos["Arm"], w)
	}

	// Frame 1: 90° Z rotation at the root maps (5,0,0) to (0,5,0); the
	// value is interpreted as degrees.
	pos = rig.WorldPositions(1)
	if w := (mathutil.Vec3{0, 6, 0}); pos["Arm"].Sub(w).Len() > 1e-9 {
		t.Errorf("Arm after 90° Z = %v, want %v", pos["Arm"], w)
	}
	if w := (mathutil.Vec3{0, 7, 0}); pos["EndSite_Arm"].Sub(w).Len() > 1e-9 {
		t.Errorf("EndSite_Arm after 90° Z = %v, want %v", pos["EndSite_Arm"], w)
	}
}

func TestNaNChannelValueTreatedAsZero(t *testing.T) {
	text := `HIERARCHY
ROOT Hip
{
  OFFSET 0 0 0
  CHANNELS 3 Xposition Yposition Zposition
}
MOTION
Frames: 1
Frame Time: 0.1
1 oops 3
`
	doc := mustParse(t, text)
	if len(doc.Warnings) == 0 {
		t.Fatal("expected parser warning")
	}
	rig := NewRig(doc)
	pos := rig.WorldPositions(0)
	want := mathutil.Vec3{1, 0, 3}
	if pos["Hip"].Sub(want).Len() > 1e-12 {
		t.Errorf("Hip = %v, want %v (NaN substituted by zero)", pos["Hip"], want)
	}
	if math.IsNaN(pos["Hip"][1]) {
		t.Error("NaN leaked into the evaluated pose")
	}
}

func TestRestPoseUsesOffsetsOnly(t *testing.T) {
	rig := NewRig(mustParse(t, hipHeadDoc))
	out := make([]mathutil.Vec3, len(rig.Bones))
	rig.RestPose(out)
	i, _ := rig.Lookup("EndSite_Head")
	if w := (mathutil.Vec3{0, 25, 0}); out[i].Sub(w).Len() > 1e-12 {
		t.Errorf("rest EndSite_Head = %v, want %v", out[i], w)
	}
}
