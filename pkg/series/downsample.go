package series

// Downsample decimates points to at most maxPoints for display.
// Destination-based: reuses dst if it has sufficient capacity, otherwise allocates new.
func Downsample(dst []Point, points []Point, maxPoints int) []Point {
	if maxPoints <= 0 || len(points) <= maxPoints {
		if cap(dst) >= len(points) {
			dst = dst[:len(points)]
			copy(dst, points)
			return dst
		}
		result := make([]Point, len(points))
		copy(result, points)
		return result
	}

	if maxPoints == 1 {
		return append(dst[:0], points[len(points)-1])
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]Point, 0, maxPoints)
	}

	// Keep the newest point so the trace reaches the right edge
	step := float64(len(points)-1) / float64(maxPoints-1)
	for i := range maxPoints {
		idx := int(float64(i)*step + 0.5)
		if idx >= len(points) {
			idx = len(points) - 1
		}
		dst = append(dst, points[idx])
	}

	return dst
}
