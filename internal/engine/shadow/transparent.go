package shadow

import (
	"go.uber.org/zap"

	"github.com/Faultbox/shadowcast/internal/logger"
)

// TransparentCache holds the transparent shadow maps of a light. Every map
// is a depth and color pair. Dynamic maps are downsampled from the solid
// ones and are borrowed from the shared pool.
type TransparentCache struct {
	res Resources

	staticShadow    ownedPair
	staticColor     ownedPair
	dynamicShadow   borrowedPair
	dynamicColor    borrowedPair
	temporaryShadow borrowedPair
	temporaryColor  borrowedPair

	usage
	frameSizes
}

// StaticShadowMap returns the static 2D depth map or nil.
func (c *TransparentCache) StaticShadowMap() Texture { return c.staticShadow.get(Target2D) }

// StaticColorMap returns the static 2D color map or nil.
func (c *TransparentCache) StaticColorMap() Texture { return c.staticColor.get(Target2D) }

// StaticShadowCubeMap returns the static depth cube map or nil.
func (c *TransparentCache) StaticShadowCubeMap() Texture { return c.staticShadow.get(TargetCube) }

// StaticColorCubeMap returns the static color cube map or nil.
func (c *TransparentCache) StaticColorCubeMap() Texture { return c.staticColor.get(TargetCube) }

// DynamicShadowMap returns the dynamic 2D depth map or nil.
func (c *TransparentCache) DynamicShadowMap() Texture { return c.dynamicShadow.get(Target2D) }

// DynamicColorMap returns the dynamic 2D color map or nil.
func (c *TransparentCache) DynamicColorMap() Texture { return c.dynamicColor.get(Target2D) }

// DynamicShadowCubeMap returns the dynamic depth cube map or nil.
func (c *TransparentCache) DynamicShadowCubeMap() Texture { return c.dynamicShadow.get(TargetCube) }

// DynamicColorCubeMap returns the dynamic color cube map or nil.
func (c *TransparentCache) DynamicColorCubeMap() Texture { return c.dynamicColor.get(TargetCube) }

// TemporaryShadowMap returns the temporary 2D depth map or nil.
func (c *TransparentCache) TemporaryShadowMap() Texture { return c.temporaryShadow.get(Target2D) }

// TemporaryColorMap returns the temporary 2D color map or nil.
func (c *TransparentCache) TemporaryColorMap() Texture { return c.temporaryColor.get(Target2D) }

// TemporaryShadowCubeMap returns the temporary depth cube map or nil.
func (c *TransparentCache) TemporaryShadowCubeMap() Texture { return c.temporaryShadow.get(TargetCube) }

// TemporaryColorCubeMap returns the temporary color cube map or nil.
func (c *TransparentCache) TemporaryColorCubeMap() Texture { return c.temporaryColor.get(TargetCube) }

// ObtainStaticShadowMap returns the static 2D depth map, creating it if absent.
func (c *TransparentCache) ObtainStaticShadowMap(size int, useFloat bool) (Texture, error) {
	return c.obtainStatic(&c.staticShadow, Target2D, size, DepthFormat(useFloat))
}

// ObtainStaticColorMap returns the static 2D color map, creating it if absent.
func (c *TransparentCache) ObtainStaticColorMap(size int) (Texture, error) {
	return c.obtainStatic(&c.staticColor, Target2D, size, FormatColor)
}

// ObtainStaticShadowCubeMap returns the static depth cube map, creating it if absent.
func (c *TransparentCache) ObtainStaticShadowCubeMap(size int, useFloat bool) (Texture, error) {
	return c.obtainStatic(&c.staticShadow, TargetCube, size, DepthFormat(useFloat))
}

// ObtainStaticColorCubeMap returns the static color cube map, creating it if absent.
func (c *TransparentCache) ObtainStaticColorCubeMap(size int) (Texture, error) {
	return c.obtainStatic(&c.staticColor, TargetCube, size, FormatColor)
}

// ObtainDynamicShadowMap returns the dynamic 2D depth map, borrowing it if absent.
func (c *TransparentCache) ObtainDynamicShadowMap(size int, useFloat bool) (Texture, error) {
	return c.obtainDynamic(&c.dynamicShadow, Target2D, size, DepthFormat(useFloat))
}

// ObtainDynamicColorMap returns the dynamic 2D color map, borrowing it if absent.
func (c *TransparentCache) ObtainDynamicColorMap(size int) (Texture, error) {
	return c.obtainDynamic(&c.dynamicColor, Target2D, size, FormatColor)
}

// ObtainDynamicShadowCubeMap returns the dynamic depth cube map, borrowing it if absent.
func (c *TransparentCache) ObtainDynamicShadowCubeMap(size int, useFloat bool) (Texture, error) {
	return c.obtainDynamic(&c.dynamicShadow, TargetCube, size, DepthFormat(useFloat))
}

// ObtainDynamicColorCubeMap returns the dynamic color cube map, borrowing it if absent.
func (c *TransparentCache) ObtainDynamicColorCubeMap(size int) (Texture, error) {
	return c.obtainDynamic(&c.dynamicColor, TargetCube, size, FormatColor)
}

// ObtainTemporaryShadowMap returns the temporary 2D depth map, borrowing it if absent.
func (c *TransparentCache) ObtainTemporaryShadowMap(size int, useFloat bool) (Texture, error) {
	tex, _, err := c.temporaryShadow.obtain(c.res.Pool, Target2D, size, DepthFormat(useFloat))
	return tex, err
}

// ObtainTemporaryColorMap returns the temporary 2D color map, borrowing it if absent.
func (c *TransparentCache) ObtainTemporaryColorMap(size int) (Texture, error) {
	tex, _, err := c.temporaryColor.obtain(c.res.Pool, Target2D, size, FormatColor)
	return tex, err
}

// ObtainTemporaryShadowCubeMap returns the temporary depth cube map, borrowing it if absent.
func (c *TransparentCache) ObtainTemporaryShadowCubeMap(size int, useFloat bool) (Texture, error) {
	tex, _, err := c.temporaryShadow.obtain(c.res.Pool, TargetCube, size, DepthFormat(useFloat))
	return tex, err
}

// ObtainTemporaryColorCubeMap returns the temporary color cube map, borrowing it if absent.
func (c *TransparentCache) ObtainTemporaryColorCubeMap(size int) (Texture, error) {
	tex, _, err := c.temporaryColor.obtain(c.res.Pool, TargetCube, size, FormatColor)
	return tex, err
}

func (c *TransparentCache) obtainStatic(pair *ownedPair, target Target, size int, format Format) (Texture, error) {
	tex, created, err := pair.obtain(c.res.Textures, target, size, format)
	if err != nil {
		return nil, err
	}
	if created {
		c.lastUseStatic = 0
	}
	return tex, nil
}

func (c *TransparentCache) obtainDynamic(pair *borrowedPair, target Target, size int, format Format) (Texture, error) {
	tex, created, err := pair.obtain(c.res.Pool, target, size, format)
	if err != nil {
		return nil, err
	}
	if created {
		c.lastUseDynamic = 0
		c.dirtyDynamic = true
	}
	return tex, nil
}

// DropStatic releases the static depth and color maps.
func (c *TransparentCache) DropStatic() {
	c.staticShadow.release()
	c.staticColor.release()
	c.lastUseStatic = 0
}

// DropDynamic returns the dynamic depth and color maps to the pool.
func (c *TransparentCache) DropDynamic() {
	c.dynamicShadow.release()
	c.dynamicColor.release()
	c.lastUseDynamic = 0
}

// DropTemporary returns the temporary maps to the pool.
func (c *TransparentCache) DropTemporary() {
	c.temporaryShadow.release()
	c.temporaryColor.release()
}

// Clear drops all maps.
func (c *TransparentCache) Clear() {
	c.DropStatic()
	c.DropDynamic()
	c.DropTemporary()
}

// Update ages the present maps and drops those unused for longer than the
// policy allows. Dynamic maps become dirty.
func (c *TransparentCache) Update(policy EvictionPolicy) {
	if c.hasStatic() {
		c.IncrementLastUseStatic()
		if expired(c.lastUseStatic, policy.StaticFrames) {
			logger.Debug("dropping unused static shadow maps",
				zap.String("variant", "transparent"), zap.Int("frames", c.lastUseStatic))
			c.DropStatic()
		}
	}
	if c.hasDynamic() {
		c.IncrementLastUseDynamic()
		if expired(c.lastUseDynamic, policy.DynamicFrames) {
			logger.Debug("dropping unused dynamic shadow maps",
				zap.String("variant", "transparent"), zap.Int("frames", c.lastUseDynamic))
			c.DropDynamic()
		}
	}
	c.dirtyDynamic = true
}

// RequiresUpdate reports whether any static or dynamic map is present. The
// last-use counters of present maps advance on every Update, also when the
// policy never evicts, and Update marks dynamic maps dirty.
func (c *TransparentCache) RequiresUpdate() bool {
	return c.hasStatic() || c.hasDynamic()
}

// MemoryUsage returns the bytes held by owned maps.
func (c *TransparentCache) MemoryUsage() int64 {
	return c.staticShadow.bytes() + c.staticColor.bytes()
}

func (c *TransparentCache) hasStatic() bool {
	return c.staticShadow.present() || c.staticColor.present()
}

func (c *TransparentCache) hasDynamic() bool {
	return c.dynamicShadow.present() || c.dynamicColor.present()
}
