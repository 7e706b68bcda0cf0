package raster

// FillDot draws a filled disc of the given radius.
func FillDot(fb *FrameBuffer, cx, cy, radius int, r, g, b, a uint8) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				fb.Set(cx+dx, cy+dy, r, g, b, a)
			}
		}
	}
}

// DrawSegment draws a line of the given half-thickness between two points
// using integer Bresenham stepping with a disc stamped at every step.
func DrawSegment(fb *FrameBuffer, x0, y0, x1, y1, thickness int, r, g, b, a uint8) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		FillDot(fb, x0, y0, thickness, r, g, b, a)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
