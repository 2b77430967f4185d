package gamekit

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// localTransform computes the entity's affine matrix relative to its parent,
// matching the order applyTransform issues to a Surface. Returns
// [a, b, c, d, tx, ty].
//
//	Translate(X, Y) * Rotate * Scale * Translate(-OriginX, -OriginY)
func localTransform(e *Entity) [6]float64 {
	sin, cos := math.Sincos(degToRad(e.Rotation))
	sx, sy := e.ScaleX, e.ScaleY

	a := cos * sx
	b := sin * sx
	c := -sin * sy
	d := cos * sy

	ox, oy := e.OriginX, e.OriginY
	return [6]float64{
		a, b, c, d,
		e.X - a*ox - c*oy,
		e.Y - b*ox - d*oy,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix. The second result
// is false when the matrix is singular, as with a zero scale.
func invertAffine(m [6]float64) ([6]float64, bool) {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform, false
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// worldTransform composes the entity's local matrix with those of its parent
// groups. The camera offset is not included.
func worldTransform(e *Entity) [6]float64 {
	m := localTransform(e)
	for p := e.parentEntity(); p != nil; p = p.parentEntity() {
		m = multiplyAffine(localTransform(p), m)
	}
	return m
}

// --- Coordinate conversion ---

// LocalToWorld converts a point in the entity's local space to world space.
func (e *Entity) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(worldTransform(e), lx, ly)
}

// WorldToLocal converts a world-space point to the entity's local space. A
// degenerate transform maps every point to the origin.
func (e *Entity) WorldToLocal(wx, wy float64) (lx, ly float64) {
	inv, ok := invertAffine(worldTransform(e))
	if !ok {
		return 0, 0
	}
	return transformPoint(inv, wx, wy)
}
