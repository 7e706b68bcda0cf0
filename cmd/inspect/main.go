package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"bvh-skeleton-renderer/internal/bvh"
	"bvh-skeleton-renderer/internal/normalize"
	"bvh-skeleton-renderer/internal/skeleton"
)

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect <file.bvh>")
		os.Exit(1)
	}

	doc, err := bvh.ParseFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printJoint(doc.Root, 0)

	rig := skeleton.NewRig(doc)
	norm := normalize.Compute(rig, normalize.Defaults())

	fmt.Println()
	fmt.Printf("Bones:           %d (%d end sites)\n", len(rig.Bones), countEndSites(rig))
	fmt.Printf("Total channels:  %d\n", doc.TotalChannels)
	fmt.Printf("Frames:          %d @ %.6fs (%.2f fps)\n", doc.NFrames(), doc.FrameTime(), doc.FPS())
	if norm.Fallback {
		fmt.Printf("Normalization:   bounding-box fallback, scale %.4f\n", norm.Scale)
	} else {
		fmt.Printf("Normalization:   scale %.4f, vertical offset %.2f\n", norm.Scale, norm.VerticalOffset)
	}
	for _, w := range doc.Warnings {
		fmt.Printf("Warning:         %s\n", w)
	}
}

func printJoint(j *bvh.Joint, depth int) {
	indent := strings.Repeat("  ", depth)
	name := j.Name
	if j.Kind == bvh.KindEndSite {
		name = "End Site"
	}
	fmt.Printf("%s%s  OFFSET %g %g %g", indent, name, j.Offset[0], j.Offset[1], j.Offset[2])
	if len(j.Channels) > 0 {
		tokens := make([]string, len(j.Channels))
		for i, c := range j.Channels {
			tokens[i] = c.String()
		}
		fmt.Printf("  CHANNELS %s", strings.Join(tokens, " "))
	}
	fmt.Println()
	for _, c := range j.Children {
		printJoint(c, depth+1)
	}
}

func countEndSites(rig *skeleton.Rig) int {
	n := 0
	for _, b := range rig.Bones {
		if b.End {
			n++
		}
	}
	return n
}
