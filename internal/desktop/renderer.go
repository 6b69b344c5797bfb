//go:build !android

package desktop

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"smoke/internal/smoke"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// GLRenderer draws puffs with one DrawElements call per particle.
type GLRenderer struct {
	cfg *smoke.Config

	prog uint32
	vao  uint32
	vbo  uint32
	ebo  uint32
	tex  uint32

	uViewport       int32
	uPosition       int32
	uRotation       int32
	uScale          int32
	uTexture        int32
	uAlphaFactor    int32
	uTintColor      int32
	uFov            int32
	uNear           int32
	uFar            int32
	uCameraDistance int32
}

// NewGLRenderer builds the program, the shared unit quad and the texture. It
// must run on the thread that owns the GL context.
func NewGLRenderer(cfg *smoke.Config, img *image.NRGBA) (*GLRenderer, error) {
	prog, err := linkProgram(
		shaderStage{name: "vertex", kind: gl.VERTEX_SHADER, src: puffVertSrc},
		shaderStage{name: "fragment", kind: gl.FRAGMENT_SHADER, src: puffFragSrc},
	)
	if err != nil {
		return nil, fmt.Errorf("puff program: %w", err)
	}
	r := &GLRenderer{cfg: cfg, prog: prog}

	// Unit quad: 4 vertices (x, y, u, v), 2 triangles via indices.
	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)
	gl.BindVertexArray(r.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(smoke.QuadVertices)*4, gl.Ptr(&smoke.QuadVertices[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(smoke.QuadIndices)*2, gl.Ptr(&smoke.QuadIndices[0]), gl.STATIC_DRAW)

	stride := int32(4 * 4)
	// inVertexPos (xy)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	// inTexCoord (uv)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, glOffset(2*4))
	gl.BindVertexArray(0)

	r.tex = uploadTexture(img)

	gl.UseProgram(prog)
	r.uViewport = gl.GetUniformLocation(prog, gl.Str("uViewport\x00"))
	r.uPosition = gl.GetUniformLocation(prog, gl.Str("uPosition\x00"))
	r.uRotation = gl.GetUniformLocation(prog, gl.Str("uRotation\x00"))
	r.uScale = gl.GetUniformLocation(prog, gl.Str("uScale\x00"))
	r.uTexture = gl.GetUniformLocation(prog, gl.Str("uTexture\x00"))
	r.uAlphaFactor = gl.GetUniformLocation(prog, gl.Str("uAlphaFactor\x00"))
	r.uTintColor = gl.GetUniformLocation(prog, gl.Str("uTintColor\x00"))
	r.uFov = gl.GetUniformLocation(prog, gl.Str("uFov\x00"))
	r.uNear = gl.GetUniformLocation(prog, gl.Str("uNear\x00"))
	r.uFar = gl.GetUniformLocation(prog, gl.Str("uFar\x00"))
	r.uCameraDistance = gl.GetUniformLocation(prog, gl.Str("uCameraDistance\x00"))

	// Projection constants never change after setup.
	gl.Uniform1f(r.uFov, mgl32.DegToRad(cfg.FieldOfView))
	gl.Uniform1f(r.uNear, cfg.Near)
	gl.Uniform1f(r.uFar, cfg.Far)
	gl.Uniform1f(r.uCameraDistance, smoke.CameraDistance)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	return r, nil
}

func uploadTexture(img *image.NRGBA) uint32 {
	b := img.Bounds()
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	return tex
}

func (r *GLRenderer) Destroy() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.tex != 0 {
		gl.DeleteTextures(1, &r.tex)
	}
	if r.prog != 0 {
		gl.DeleteProgram(r.prog)
	}
}

// Clear sets the viewport to the current framebuffer size and clears it.
func (r *GLRenderer) Clear(vp smoke.Viewport) {
	c := r.cfg.ClearColor
	gl.Viewport(0, 0, int32(vp.Width), int32(vp.Height))
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// DrawQuad renders one puff. RGB blends with the usual "over" factors; alpha
// blends with (1, 1-srcA) so accumulated coverage never saturates past 1.
func (r *GLRenderer) DrawQuad(pos mgl32.Vec2, scale, rotation float32, vp smoke.Viewport) {
	gl.UseProgram(r.prog)
	gl.Uniform2f(r.uViewport, float32(vp.Width), float32(vp.Height))
	gl.Uniform2f(r.uPosition, pos.X(), pos.Y())
	gl.Uniform1f(r.uScale, scale)
	gl.Uniform1f(r.uRotation, rotation)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.tex)
	gl.Uniform1i(r.uTexture, 0)
	gl.Uniform1f(r.uAlphaFactor, r.cfg.Opacity)
	gl.Uniform3f(r.uTintColor, r.cfg.Tint[0], r.cfg.Tint[1], r.cfg.Tint[2])

	gl.Enable(gl.BLEND)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	gl.BindVertexArray(r.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(smoke.QuadIndices)), gl.UNSIGNED_SHORT, glOffset(0))
	gl.BindVertexArray(0)
}
