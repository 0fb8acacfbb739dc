// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// DepthVertexShader transforms occluders into light space.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes the coverage of transparent occluders. Depth
// passes ignore its output.
//
//go:embed depth.frag
var DepthFragmentShader string
