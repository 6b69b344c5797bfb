package smoke

import "github.com/go-gl/mathgl/mgl32"

// Viewport is the current pixel size of the drawing surface.
type Viewport struct {
	Width, Height int
}

func (v Viewport) Aspect() float32 {
	if v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// ModelMatrix is Translate(x, y, 0) * RotateZ(rotation) * Scale(s, s, s).
func ModelMatrix(pos mgl32.Vec2, scale, rotation float32) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), 0).
		Mul4(mgl32.HomogRotate3DZ(rotation)).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}

// ViewMatrix pulls the camera back along the view axis.
func ViewMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, -CameraDistance)
}

func ProjectionMatrix(cfg *Config, vp Viewport) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(cfg.FieldOfView), vp.Aspect(), cfg.Near, cfg.Far)
}

// QuadTransform composes Projection * View * Model for one puff. It mirrors
// the vertex shader used by the GL path.
func QuadTransform(cfg *Config, pos mgl32.Vec2, scale, rotation float32, vp Viewport) mgl32.Mat4 {
	return ProjectionMatrix(cfg, vp).Mul4(ViewMatrix()).Mul4(ModelMatrix(pos, scale, rotation))
}

// Project maps a local quad corner to normalized device coordinates and
// returns the clip-space w alongside.
func Project(mvp mgl32.Mat4, local mgl32.Vec2) (ndc mgl32.Vec3, w float32) {
	clip := mvp.Mul4x1(mgl32.Vec4{local.X(), local.Y(), 0, 1})
	w = clip.W()
	if w == 0 {
		return mgl32.Vec3{}, 0
	}
	return clip.Vec3().Mul(1 / w), w
}
