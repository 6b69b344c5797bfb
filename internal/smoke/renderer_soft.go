package smoke

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SoftRenderer is a CPU QuadRenderer drawing into a float RGBA framebuffer.
// It follows the GL path: same transform, same fragment rule, same blend.
type SoftRenderer struct {
	cfg *Config
	tex *image.NRGBA

	w, h int
	fb   []float32 // RGBA, row-major, top row first
}

func NewSoftRenderer(cfg *Config, tex *image.NRGBA) *SoftRenderer {
	return &SoftRenderer{cfg: cfg, tex: tex}
}

// Clear resizes the framebuffer to vp if needed and fills it with the clear
// color.
func (r *SoftRenderer) Clear(vp Viewport) {
	if vp.Empty() {
		return
	}
	if vp.Width != r.w || vp.Height != r.h {
		r.w, r.h = vp.Width, vp.Height
		r.fb = make([]float32, r.w*r.h*4)
	}
	c := r.cfg.ClearColor
	for i := 0; i < len(r.fb); i += 4 {
		r.fb[i+0] = c[0]
		r.fb[i+1] = c[1]
		r.fb[i+2] = c[2]
		r.fb[i+3] = c[3]
	}
}

// DrawQuad rasterizes one puff. The quad lies in the z=0 plane and only
// rotates about Z, so every corner shares the same clip w and the
// screen-space mapping is affine; each pixel is mapped back to quad-local
// coordinates instead of splitting into triangles.
func (r *SoftRenderer) DrawQuad(pos mgl32.Vec2, scale, rotation float32, vp Viewport) {
	if r.fb == nil || vp.Empty() {
		return
	}
	mvp := QuadTransform(r.cfg, pos, scale, rotation, vp)

	s0, ok0 := r.toScreen(mvp, mgl32.Vec2{-0.5, -0.5})
	s1, ok1 := r.toScreen(mvp, mgl32.Vec2{0.5, -0.5})
	s2, ok2 := r.toScreen(mvp, mgl32.Vec2{0.5, 0.5})
	s3, ok3 := r.toScreen(mvp, mgl32.Vec2{-0.5, 0.5})
	if !ok0 || !ok1 || !ok2 || !ok3 {
		return
	}

	ex := s1.Sub(s0)
	ey := s3.Sub(s0)
	det := ex.X()*ey.Y() - ex.Y()*ey.X()
	if math32.Abs(det) < 1e-9 {
		return
	}

	minX := math32.Min(math32.Min(s0.X(), s1.X()), math32.Min(s2.X(), s3.X()))
	maxX := math32.Max(math32.Max(s0.X(), s1.X()), math32.Max(s2.X(), s3.X()))
	minY := math32.Min(math32.Min(s0.Y(), s1.Y()), math32.Min(s2.Y(), s3.Y()))
	maxY := math32.Max(math32.Max(s0.Y(), s1.Y()), math32.Max(s2.Y(), s3.Y()))

	x0 := clampI(int(math32.Floor(minX)), 0, r.w-1)
	x1 := clampI(int(math32.Ceil(maxX)), 0, r.w-1)
	y0 := clampI(int(math32.Floor(minY)), 0, r.h-1)
	y1 := clampI(int(math32.Ceil(maxY)), 0, r.h-1)

	for py := y0; py <= y1; py++ {
		cy := float32(py) + 0.5 - s0.Y()
		for px := x0; px <= x1; px++ {
			cx := float32(px) + 0.5 - s0.X()
			u := (cx*ey.Y() - cy*ey.X()) / det
			v := (ex.X()*cy - ex.Y()*cx) / det
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			src := Fragment(r.sample(u, v), r.cfg.Tint, r.cfg.Opacity)
			i := (py*r.w + px) * 4
			dst := [4]float32{r.fb[i], r.fb[i+1], r.fb[i+2], r.fb[i+3]}
			out := Blend(src, dst)
			copy(r.fb[i:i+4], out[:])
		}
	}
}

// toScreen projects a local corner to pixel coordinates with y pointing down.
func (r *SoftRenderer) toScreen(mvp mgl32.Mat4, local mgl32.Vec2) (mgl32.Vec2, bool) {
	ndc, w := Project(mvp, local)
	if w <= 0 {
		return mgl32.Vec2{}, false
	}
	return mgl32.Vec2{
		(ndc.X() + 1) * 0.5 * float32(r.w),
		(1 - ndc.Y()) * 0.5 * float32(r.h),
	}, true
}

// sample reads the texture with bilinear filtering and clamp-to-edge
// wrapping. v=0 is the first row of the image, as with a GL upload.
func (r *SoftRenderer) sample(u, v float32) [4]float32 {
	tw, th := r.tex.Rect.Dx(), r.tex.Rect.Dy()
	x := u*float32(tw) - 0.5
	y := v*float32(th) - 0.5
	fx0, fy0 := math32.Floor(x), math32.Floor(y)
	fx, fy := x-fx0, y-fy0

	ix0 := clampI(int(fx0), 0, tw-1)
	ix1 := clampI(int(fx0)+1, 0, tw-1)
	iy0 := clampI(int(fy0), 0, th-1)
	iy1 := clampI(int(fy0)+1, 0, th-1)

	var out [4]float32
	for c := 0; c < 4; c++ {
		t00 := r.texel(ix0, iy0, c)
		t10 := r.texel(ix1, iy0, c)
		t01 := r.texel(ix0, iy1, c)
		t11 := r.texel(ix1, iy1, c)
		top := t00 + (t10-t00)*fx
		bot := t01 + (t11-t01)*fx
		out[c] = top + (bot-top)*fy
	}
	return out
}

func (r *SoftRenderer) texel(x, y, c int) float32 {
	return float32(r.tex.Pix[y*r.tex.Stride+x*4+c]) / 255
}

// At returns the framebuffer color at pixel (x, y).
func (r *SoftRenderer) At(x, y int) [4]float32 {
	i := (y*r.w + x) * 4
	return [4]float32{r.fb[i], r.fb[i+1], r.fb[i+2], r.fb[i+3]}
}

// Image exports the framebuffer.
func (r *SoftRenderer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.w, r.h))
	for i, v := range r.fb {
		img.Pix[i] = uint8(math32.Floor(clampF32(v, 0, 1)*255 + 0.5))
	}
	return img
}
