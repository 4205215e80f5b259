package geom

// Segment is a line segment between two points.
type Segment [2]Vec

// LinesIntersection computes the intersection of the two lines passing
// through the segments, along with the parametric coordinates of the
// intersection on each. Parallel lines yield no intersection.
func LinesIntersection(l1, l2 Segment) (Vec, float32, float32, bool) {
	a, b, c, d := l1[0], l1[1], l2[0], l2[1]
	bottom := (d.Y-c.Y)*(b.X-a.X) - (d.X-c.X)*(b.Y-a.Y)

	if AroundEqualNarrow(bottom, 0) {
		return Vec{}, 0, 0, false
	}

	top := (d.X-c.X)*(a.Y-c.Y) - (d.Y-c.Y)*(a.X-c.X)
	t := top / bottom
	u := ((c.Y-a.Y)*(a.X-b.X) - (c.X-a.X)*(a.Y-b.Y)) / bottom

	return Lerp(a, b, t), t, u, true
}

// SegmentsIntersection computes the intersection point of the two
// segments, if any.
func SegmentsIntersection(s1, s2 Segment) (Vec, bool) {
	p, t, u, ok := LinesIntersection(s1, s2)
	if !ok || t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec{}, false
	}
	return p, true
}
