//go:build !android

package desktop

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Puff vertex shader: builds projection * view * model per draw from the
// particle uniforms.
const puffVertSrc = `#version 410 core

layout(location = 0) in vec4 inVertexPos; // xy supplied, z=0 w=1
layout(location = 1) in vec2 inTexCoord;

uniform vec2 uViewport;
uniform vec2 uPosition;
uniform float uRotation;
uniform float uScale;
uniform float uFov;
uniform float uNear;
uniform float uFar;
uniform float uCameraDistance;

out vec2 vTexCoord;

mat4 translate(float x, float y, float z) {
    return mat4(
        1.0, 0.0, 0.0, 0.0,
        0.0, 1.0, 0.0, 0.0,
        0.0, 0.0, 1.0, 0.0,
          x,   y,   z, 1.0
    );
}

mat4 scale(float s) {
    return mat4(
          s, 0.0, 0.0, 0.0,
        0.0,   s, 0.0, 0.0,
        0.0, 0.0,   s, 0.0,
        0.0, 0.0, 0.0, 1.0
    );
}

mat4 rotateZ(float a) {
    float c = cos(a);
    float s = sin(a);
    return mat4(
          c,   s, 0.0, 0.0,
         -s,   c, 0.0, 0.0,
        0.0, 0.0, 1.0, 0.0,
        0.0, 0.0, 0.0, 1.0
    );
}

mat4 perspective(float fovy, float aspect, float near, float far) {
    float f = 1.0 / tan(fovy / 2.0);
    return mat4(
        f / aspect, 0.0, 0.0, 0.0,
        0.0, f, 0.0, 0.0,
        0.0, 0.0, (near + far) / (near - far), -1.0,
        0.0, 0.0, (2.0 * near * far) / (near - far), 0.0
    );
}

void main() {
    mat4 model = translate(uPosition.x, uPosition.y, 0.0) * rotateZ(uRotation) * scale(uScale);
    mat4 view = translate(0.0, 0.0, -uCameraDistance);
    mat4 proj = perspective(uFov, uViewport.x / uViewport.y, uNear, uFar);
    gl_Position = proj * view * model * inVertexPos;
    vTexCoord = inTexCoord;
}
` + "\x00"

// Puff fragment shader: tinted texture sample with a fixed alpha factor.
const puffFragSrc = `#version 410 core

uniform sampler2D uTexture;
uniform float uAlphaFactor;
uniform vec3 uTintColor;

in vec2 vTexCoord;
out vec4 FragColor;

void main() {
    vec4 t = texture(uTexture, vTexCoord);
    FragColor = vec4(t.rgb * uTintColor, t.a * uAlphaFactor);
}
` + "\x00"

type shaderStage struct {
	name string
	kind uint32
	src  string
}

// infoLog reads a shader or program log through the matching pair of getters.
func infoLog(obj uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var n int32
	getiv(obj, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return "(no log)"
	}
	buf := make([]uint8, n+1)
	getLog(obj, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func compileShader(st shaderStage) (uint32, error) {
	shader := gl.CreateShader(st.kind)
	csrc, free := gl.Strs(st.src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var ok int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", st.name, msg)
	}
	return shader, nil
}

// linkProgram compiles every stage and links them. Stage objects are released
// whether or not linking succeeds.
func linkProgram(stages ...shaderStage) (uint32, error) {
	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, sh := range shaders {
			gl.DeleteShader(sh)
		}
	}()
	for _, st := range stages {
		sh, err := compileShader(st)
		if err != nil {
			return 0, err
		}
		shaders = append(shaders, sh)
	}

	program := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(program, sh)
	}
	gl.LinkProgram(program)
	for _, sh := range shaders {
		gl.DetachShader(program, sh)
	}

	var ok int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link puff program: %s", msg)
	}
	return program, nil
}
