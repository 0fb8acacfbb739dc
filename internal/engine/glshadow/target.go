package glshadow

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

// Target renders into one layer of a shadow texture.
type Target struct {
	fbo          uint32
	size         int32
	depth        bool
	inverse      bool
	prevFBO      int32
	prevViewport [4]int32
}

// NewTarget creates a framebuffer rendering into tex. face selects the cube
// face and is ignored for 2D textures.
func NewTarget(tex shadow.Texture, face int) (*Target, error) {
	t, ok := tex.(*Texture)
	if !ok {
		return nil, fmt.Errorf("texture %T is not a GL texture: %w", tex, shadow.ErrInvalidParam)
	}
	if t.target == shadow.TargetCube && (face < 0 || face > 5) {
		return nil, fmt.Errorf("cube face %d: %w", face, shadow.ErrInvalidParam)
	}

	rt := &Target{
		size:    int32(t.size),
		depth:   t.format != shadow.FormatColor,
		inverse: t.format == shadow.FormatDepthFloat,
	}

	texTarget := uint32(gl.TEXTURE_2D)
	if t.target == shadow.TargetCube {
		texTarget = gl.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(face)
	}

	gl.GenFramebuffers(1, &rt.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fbo)
	if rt.depth {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, texTarget, t.id, 0)
		// No color buffer for depth passes
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	} else {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, texTarget, t.id, 0)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		rt.Destroy()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return rt, nil
}

// Bind makes the target current, saving the previous framebuffer and
// viewport, and clears it.
func (rt *Target) Bind() {
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &rt.prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &rt.prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fbo)
	gl.Viewport(0, 0, rt.size, rt.size)

	if !rt.depth {
		gl.ClearColor(1, 1, 1, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		return
	}

	gl.Enable(gl.DEPTH_TEST)
	if rt.inverse {
		gl.ClearDepth(0)
		gl.DepthFunc(gl.GREATER)
	} else {
		gl.ClearDepth(1)
		gl.DepthFunc(gl.LESS)
	}
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	// Front-face culling reduces shadow acne
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

// Unbind restores the framebuffer, viewport and culling saved by Bind.
func (rt *Target) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(rt.prevFBO))
	gl.Viewport(rt.prevViewport[0], rt.prevViewport[1], rt.prevViewport[2], rt.prevViewport[3])
	if rt.depth {
		gl.CullFace(gl.BACK)
		gl.ClearDepth(1)
		gl.DepthFunc(gl.LESS)
	}
}

// Destroy releases the framebuffer. The texture is left alone.
func (rt *Target) Destroy() {
	if rt.fbo != 0 {
		gl.DeleteFramebuffers(1, &rt.fbo)
		rt.fbo = 0
	}
}
