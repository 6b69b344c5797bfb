package smoke

import "github.com/go-gl/mathgl/mgl32"

// QuadVertices is the shared unit quad: x, y, u, v per corner.
var QuadVertices = [16]float32{
	-0.5, -0.5, 0, 0,
	0.5, -0.5, 1, 0,
	0.5, 0.5, 1, 1,
	-0.5, 0.5, 0, 1,
}

// QuadIndices draws the quad as two triangles.
var QuadIndices = [6]uint16{0, 1, 2, 2, 3, 0}

// QuadRenderer draws one textured puff per call. Implementations hold the
// shared geometry, pipeline and texture; the viewport is passed every frame
// because the surface may be resized between frames.
type QuadRenderer interface {
	Clear(vp Viewport)
	DrawQuad(pos mgl32.Vec2, scale, rotation float32, vp Viewport)
}

// Fragment applies tint and opacity to a sampled texel.
func Fragment(texel [4]float32, tint RGB, opacity float32) [4]float32 {
	return [4]float32{
		texel[0] * tint[0],
		texel[1] * tint[1],
		texel[2] * tint[2],
		texel[3] * opacity,
	}
}

// Blend composites src over dst. RGB uses (srcA, 1-srcA); alpha uses
// (1, 1-srcA) so coverage approaches but never exceeds 1.
func Blend(src, dst [4]float32) [4]float32 {
	a := src[3]
	inv := 1 - a
	return [4]float32{
		clampF32(src[0]*a+dst[0]*inv, 0, 1),
		clampF32(src[1]*a+dst[1]*inv, 0, 1),
		clampF32(src[2]*a+dst[2]*inv, 0, 1),
		clampF32(a+dst[3]*inv, 0, 1),
	}
}
