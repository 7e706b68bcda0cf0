package bvh

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// ParseFile reads a BVH file and parses it.
func ParseFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bvh: read %s: %w", path, err)
	}
	doc, err := Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("bvh: parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a complete BVH document in one atomic pass. Structural
// errors (missing HIERARCHY/MOTION, missing brace, malformed Frames or
// Frame Time line) abort the whole load; no partial skeleton is returned.
// Recoverable conditions are collected on Document.Warnings.
func Parse(data string) (*Document, error) {
	lines := splitLines(data)

	hierarchyAt := -1
	motionAt := -1
	for i, ln := range lines {
		if hierarchyAt < 0 && ln == "HIERARCHY" {
			hierarchyAt = i
			continue
		}
		if hierarchyAt >= 0 && ln == "MOTION" {
			motionAt = i
			break
		}
	}
	if hierarchyAt < 0 {
		return nil, fmt.Errorf("bvh: missing HIERARCHY header")
	}
	if motionAt < 0 {
		return nil, fmt.Errorf("bvh: missing MOTION section")
	}

	p := &parser{lines: lines[hierarchyAt+1 : motionAt]}
	root, err := p.parseRoot()
	if err != nil {
		return nil, err
	}

	doc := &Document{Root: root, TotalChannels: p.totalChannels}
	if err := parseMotion(lines[motionAt+1:], doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func splitLines(data string) []string {
	raw := strings.Split(data, "\n")
	out := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// parser consumes the hierarchy section line by line.
type parser struct {
	lines         []string
	pos           int
	totalChannels int
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	return p.lines[p.pos], true
}

func (p *parser) next() (string, bool) {
	ln, ok := p.peek()
	if ok {
		p.pos++
	}
	return ln, ok
}

// parseRoot parses the single top-level ROOT node. A second top-level
// ROOT declaration is rejected rather than silently ignored, so malformed
// files do not half-load.
func (p *parser) parseRoot() (*Joint, error) {
	ln, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("bvh: empty hierarchy section")
	}
	fields := strings.Fields(ln)
	if fields[0] != "ROOT" {
		return nil, fmt.Errorf("bvh: expected ROOT declaration, got %q", ln)
	}
	root, err := p.parseNode(fields)
	if err != nil {
		return nil, err
	}
	for {
		rest, ok := p.next()
		if !ok {
			return root, nil
		}
		if strings.HasPrefix(rest, "ROOT") {
			return nil, fmt.Errorf("bvh: multiple ROOT declarations are not supported")
		}
	}
}

// parseNode parses one node body. fields is the already-consumed
// declaration line, split on whitespace.
func (p *parser) parseNode(fields []string) (*Joint, error) {
	j := &Joint{}
	switch fields[0] {
	case "ROOT":
		j.Kind = KindRoot
	case "JOINT":
		j.Kind = KindJoint
	case "End":
		j.Kind = KindEndSite
		j.Name = EndSiteName
	}
	if j.Kind != KindEndSite {
		if len(fields) < 2 {
			return nil, fmt.Errorf("bvh: %s declaration without a name", fields[0])
		}
		j.Name = fields[1]
	}

	open, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("bvh: unexpected end of input, expected \"{\" after %s", j.Name)
	}
	if open != "{" {
		return nil, fmt.Errorf("bvh: expected \"{\" after %s, got %q", j.Name, open)
	}

	for {
		ln, ok := p.peek()
		if !ok {
			// Missing closing brace at end of input is tolerated.
			return j, nil
		}
		body := strings.Fields(ln)
		switch body[0] {
		case "}":
			p.pos++
			return j, nil
		case "OFFSET":
			p.pos++
			if len(body) != 4 {
				return nil, fmt.Errorf("bvh: OFFSET of %s: want 3 values, got %d", j.Name, len(body)-1)
			}
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(body[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("bvh: OFFSET of %s: %w", j.Name, err)
				}
				j.Offset[i] = v
			}
		case "CHANNELS":
			p.pos++
			if j.Kind == KindEndSite {
				return nil, fmt.Errorf("bvh: End Site must not declare channels")
			}
			if len(body) < 2 {
				return nil, fmt.Errorf("bvh: CHANNELS of %s: missing count", j.Name)
			}
			n, err := strconv.Atoi(body[1])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("bvh: CHANNELS of %s: invalid count %q", j.Name, body[1])
			}
			if len(body) != n+2 {
				return nil, fmt.Errorf("bvh: CHANNELS of %s: declared %d, got %d tokens", j.Name, n, len(body)-2)
			}
			j.Channels = make([]Channel, n)
			for i := 0; i < n; i++ {
				ch, ok := channelTokens[body[i+2]]
				if !ok {
					return nil, fmt.Errorf("bvh: CHANNELS of %s: unknown channel %q", j.Name, body[i+2])
				}
				j.Channels[i] = ch
			}
			p.totalChannels += n
		case "JOINT", "End":
			p.pos++
			child, err := p.parseNode(body)
			if err != nil {
				return nil, err
			}
			j.Children = append(j.Children, child)
		default:
			// Unrecognized keyword: skip, forward-compatible.
			p.pos++
		}
	}
}

// parseMotion parses everything after the MOTION separator into doc.Motion.
func parseMotion(lines []string, doc *Document) error {
	if len(lines) < 1 {
		return fmt.Errorf("bvh: missing Frames line")
	}
	declared, err := parsePrefixedInt(lines[0], "Frames:")
	if err != nil {
		return err
	}
	if len(lines) < 2 {
		return fmt.Errorf("bvh: missing Frame Time line")
	}
	frameTime, err := parsePrefixedFloat(lines[1], "Frame Time:")
	if err != nil {
		return err
	}
	if frameTime <= 0 {
		return fmt.Errorf("bvh: frame time must be positive, got %v", frameTime)
	}

	dataLines := lines[2:]
	if len(dataLines) > declared {
		dataLines = dataLines[:declared]
	}

	frames := make([][]float64, 0, len(dataLines))
	for i, ln := range dataLines {
		fields := strings.Fields(ln)
		if len(fields) != doc.TotalChannels {
			return fmt.Errorf("bvh: frame %d has %d values, want %d", i, len(fields), doc.TotalChannels)
		}
		frame := make([]float64, len(fields))
		bad := false
		for k, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				v = math.NaN()
				bad = true
			}
			frame[k] = v
		}
		if bad {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("frame %d: unparseable value(s), stored as NaN", i))
		}
		frames = append(frames, frame)
	}

	if len(frames) < declared {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("declared %d frames, found %d", declared, len(frames)))
	}

	doc.Motion = MotionData{
		FrameCount: len(frames),
		FrameTime:  frameTime,
		Frames:     frames,
	}
	return nil
}

func parsePrefixedInt(line, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return 0, fmt.Errorf("bvh: expected %q line, got %q", prefix, line)
	}
	v, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("bvh: malformed %q line: %q", prefix, line)
	}
	return v, nil
}

func parsePrefixedFloat(line, prefix string) (float64, error) {
	rest, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return 0, fmt.Errorf("bvh: expected %q line, got %q", prefix, line)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return 0, fmt.Errorf("bvh: malformed %q line: %q", prefix, line)
	}
	return v, nil
}
