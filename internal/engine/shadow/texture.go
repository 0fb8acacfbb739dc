package shadow

// Target selects the texture shape of a shadow map.
type Target int

const (
	// Target2D is a single square texture (spot and projector lights).
	Target2D Target = iota
	// TargetCube is a six-face cube map (point lights).
	TargetCube
)

// String returns the target name used in logs.
func (t Target) String() string {
	switch t {
	case Target2D:
		return "2d"
	case TargetCube:
		return "cube"
	default:
		return "unknown"
	}
}

// Format is the pixel format of a shadow texture.
type Format int

const (
	// FormatDepth is a 24-bit fixed point depth format.
	FormatDepth Format = iota
	// FormatDepthFloat is a 32-bit float depth format (inverse depth).
	FormatDepthFloat
	// FormatColor is an RGBA8 color target (transparent shadow color).
	FormatColor
)

// String returns the format name used in logs.
func (f Format) String() string {
	switch f {
	case FormatDepth:
		return "depth24"
	case FormatDepthFloat:
		return "depth32f"
	case FormatColor:
		return "rgba8"
	default:
		return "unknown"
	}
}

// BytesPerTexel returns the storage size of one texel.
func (f Format) BytesPerTexel() int64 {
	switch f {
	case FormatDepth, FormatDepthFloat, FormatColor:
		return 4
	default:
		return 0
	}
}

// DepthFormat returns the depth format matching the useFloat flag.
func DepthFormat(useFloat bool) Format {
	if useFloat {
		return FormatDepthFloat
	}
	return FormatDepth
}

// Texture is a GPU resident shadow texture. The owner calls Release once.
type Texture interface {
	Target() Target
	Size() int
	Format() Format
	Release()
}

// Provider allocates dedicated textures.
type Provider interface {
	CreateTexture(target Target, size int, format Format) (Texture, error)
}

// Renderable is a texture borrowed from a shared pool. Release hands it back
// to the pool; the texture itself stays alive for reuse.
type Renderable interface {
	Texture() Texture
	Release()
}

// Pool hands out renderable textures shared between lights.
type Pool interface {
	Obtain(target Target, size int, format Format) (Renderable, error)
}

// Resources bundles the texture sources a Caster draws from.
type Resources struct {
	Textures Provider
	Pool     Pool
}

// TextureBytes returns the GPU memory held by t. Nil textures count as zero.
func TextureBytes(t Texture) int64 {
	if t == nil {
		return 0
	}
	size := int64(t.Size())
	bytes := size * size * t.Format().BytesPerTexel()
	if t.Target() == TargetCube {
		bytes *= 6
	}
	return bytes
}
