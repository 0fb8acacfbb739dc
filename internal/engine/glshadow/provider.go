// Package glshadow allocates shadow textures and their render targets on
// the OpenGL 4.1 core profile.
package glshadow

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

var errNoTexture = errors.New("glGenTextures returned no texture")

// Provider is a shadow.Provider creating GL textures. It must be used from
// the thread owning the GL context.
type Provider struct {
	maxSize int
}

// NewProvider creates a provider for the current GL context.
func NewProvider() *Provider {
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	return &Provider{maxSize: int(maxSize)}
}

// CreateTexture implements shadow.Provider.
func (p *Provider) CreateTexture(target shadow.Target, size int, format shadow.Format) (shadow.Texture, error) {
	if size < shadow.MinMapSize || (p.maxSize > 0 && size > p.maxSize) {
		return nil, fmt.Errorf("texture size %d (max %d): %w", size, p.maxSize, shadow.ErrInvalidParam)
	}

	t := &Texture{target: target, size: size, format: format}
	gl.GenTextures(1, &t.id)
	if t.id == 0 {
		return nil, errNoTexture
	}

	glTarget := t.glTarget()
	gl.BindTexture(glTarget, t.id)

	internal, pixelFormat, pixelType := glFormat(format)
	if target == shadow.TargetCube {
		for face := uint32(0); face < 6; face++ {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, internal,
				int32(size), int32(size), 0, pixelFormat, pixelType, nil)
		}
		gl.TexParameteri(glTarget, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	} else {
		gl.TexImage2D(glTarget, 0, internal, int32(size), int32(size), 0, pixelFormat, pixelType, nil)
	}

	gl.TexParameteri(glTarget, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(glTarget, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	if format == shadow.FormatColor {
		gl.TexParameteri(glTarget, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(glTarget, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	} else {
		// White border so nothing outside the frustum is shadowed
		gl.TexParameteri(glTarget, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
		gl.TexParameteri(glTarget, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
		borderColor := []float32{1.0, 1.0, 1.0, 1.0}
		gl.TexParameterfv(glTarget, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

		// Comparison mode for sampler2DShadow / samplerCubeShadow
		gl.TexParameteri(glTarget, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.TexParameteri(glTarget, gl.TEXTURE_COMPARE_FUNC, compareFunc(format))
	}

	gl.BindTexture(glTarget, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteTextures(1, &t.id)
		return nil, fmt.Errorf("allocating %s %s texture of size %d: GL error 0x%x", target, format, size, errCode)
	}
	return t, nil
}

// glFormat returns internal format, pixel format and pixel type.
func glFormat(format shadow.Format) (int32, uint32, uint32) {
	switch format {
	case shadow.FormatDepthFloat:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	case shadow.FormatColor:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	default:
		return gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.FLOAT
	}
}

// compareFunc matches the depth clear value: float maps use inverse depth.
func compareFunc(format shadow.Format) int32 {
	if format == shadow.FormatDepthFloat {
		return gl.GEQUAL
	}
	return gl.LEQUAL
}

// Texture is a GL shadow texture.
type Texture struct {
	id     uint32
	target shadow.Target
	size   int
	format shadow.Format
}

// ID returns the GL texture name.
func (t *Texture) ID() uint32 { return t.id }

// Target implements shadow.Texture.
func (t *Texture) Target() shadow.Target { return t.target }

// Size implements shadow.Texture.
func (t *Texture) Size() int { return t.size }

// Format implements shadow.Texture.
func (t *Texture) Format() shadow.Format { return t.format }

// Release deletes the GL texture.
func (t *Texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// Bind binds the texture to the texture unit for sampling.
func (t *Texture) Bind(textureUnit uint32) {
	gl.ActiveTexture(textureUnit)
	gl.BindTexture(t.glTarget(), t.id)
}

func (t *Texture) glTarget() uint32 {
	if t.target == shadow.TargetCube {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}
