package main

import (
	"flag"
	"fmt"
	"os"

	"bvh-skeleton-renderer/internal/bvh"
	"bvh-skeleton-renderer/internal/export"
	"bvh-skeleton-renderer/internal/plot"
	"bvh-skeleton-renderer/internal/skeleton"
)

func main() {
	inPath := flag.String("in", "", "Path to input BVH file")
	csvPath := flag.String("csv", "", "Write world positions CSV to this path")
	hierarchyPath := flag.String("hierarchy", "", "Write hierarchy CSV to this path")
	plotBone := flag.String("plot", "", "Bone name to plot over time")
	plotAxis := flag.String("axis", "y", "Axis for -plot (x, y or z)")
	plotOut := flag.String("plot-out", "trajectory.png", "Output path for -plot")

	flag.Parse()
	if *inPath == "" && flag.NArg() > 0 {
		*inPath = flag.Arg(0)
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input BVH file. Use -in flag.")
		os.Exit(1)
	}

	doc, err := bvh.ParseFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, w := range doc.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	rig := skeleton.NewRig(doc)

	if *csvPath != "" {
		if err := export.WritePositionsFile(*csvPath, doc, rig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Positions CSV: %s\n", *csvPath)
	}

	if *hierarchyPath != "" {
		f, err := os.Create(*hierarchyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		err = export.WriteJointHierarchy(f, rig)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Hierarchy CSV: %s\n", *hierarchyPath)
	}

	if *plotBone != "" {
		if err := plot.Trajectory(doc, rig, *plotBone, *plotAxis, *plotOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Trajectory plot: %s\n", *plotOut)
	}

	if *csvPath == "" && *hierarchyPath == "" && *plotBone == "" {
		fmt.Fprintln(os.Stderr, "Nothing to do: pass -csv, -hierarchy or -plot.")
		os.Exit(1)
	}
}
