package shadow

import (
	"go.uber.org/zap"

	"github.com/Faultbox/shadowcast/internal/logger"
)

// SolidCache holds the solid (opaque) shadow maps of a light.
// Static maps are owned. Dynamic and temporary maps are borrowed from the
// shared pool.
type SolidCache struct {
	res Resources

	static    ownedPair
	dynamic   borrowedPair
	temporary borrowedPair

	usage
	frameSizes
}

// StaticMap returns the static 2D map or nil.
func (c *SolidCache) StaticMap() Texture { return c.static.get(Target2D) }

// StaticCubeMap returns the static cube map or nil.
func (c *SolidCache) StaticCubeMap() Texture { return c.static.get(TargetCube) }

// DynamicMap returns the dynamic 2D map or nil.
func (c *SolidCache) DynamicMap() Texture { return c.dynamic.get(Target2D) }

// DynamicCubeMap returns the dynamic cube map or nil.
func (c *SolidCache) DynamicCubeMap() Texture { return c.dynamic.get(TargetCube) }

// TemporaryMap returns the temporary 2D map or nil.
func (c *SolidCache) TemporaryMap() Texture { return c.temporary.get(Target2D) }

// TemporaryCubeMap returns the temporary cube map or nil.
func (c *SolidCache) TemporaryCubeMap() Texture { return c.temporary.get(TargetCube) }

// ObtainStaticMap returns the static 2D map, creating it with size if absent.
func (c *SolidCache) ObtainStaticMap(size int, useFloat bool) (Texture, error) {
	return c.obtainStatic(Target2D, size, useFloat)
}

// ObtainStaticCubeMap returns the static cube map, creating it with size if absent.
func (c *SolidCache) ObtainStaticCubeMap(size int, useFloat bool) (Texture, error) {
	return c.obtainStatic(TargetCube, size, useFloat)
}

// ObtainDynamicMap returns the dynamic 2D map, borrowing it with size if absent.
func (c *SolidCache) ObtainDynamicMap(size int, useFloat bool) (Texture, error) {
	return c.obtainDynamic(Target2D, size, useFloat)
}

// ObtainDynamicCubeMap returns the dynamic cube map, borrowing it with size if absent.
func (c *SolidCache) ObtainDynamicCubeMap(size int, useFloat bool) (Texture, error) {
	return c.obtainDynamic(TargetCube, size, useFloat)
}

// ObtainTemporaryMap returns the temporary 2D map, borrowing it if absent.
func (c *SolidCache) ObtainTemporaryMap(size int, useFloat bool) (Texture, error) {
	tex, _, err := c.temporary.obtain(c.res.Pool, Target2D, size, DepthFormat(useFloat))
	return tex, err
}

// ObtainTemporaryCubeMap returns the temporary cube map, borrowing it if absent.
func (c *SolidCache) ObtainTemporaryCubeMap(size int, useFloat bool) (Texture, error) {
	tex, _, err := c.temporary.obtain(c.res.Pool, TargetCube, size, DepthFormat(useFloat))
	return tex, err
}

func (c *SolidCache) obtainStatic(target Target, size int, useFloat bool) (Texture, error) {
	tex, created, err := c.static.obtain(c.res.Textures, target, size, DepthFormat(useFloat))
	if err != nil {
		return nil, err
	}
	if created {
		c.lastUseStatic = 0
	}
	return tex, nil
}

func (c *SolidCache) obtainDynamic(target Target, size int, useFloat bool) (Texture, error) {
	tex, created, err := c.dynamic.obtain(c.res.Pool, target, size, DepthFormat(useFloat))
	if err != nil {
		return nil, err
	}
	if created {
		c.lastUseDynamic = 0
		c.dirtyDynamic = true
	}
	return tex, nil
}

// DropStatic releases the static maps.
func (c *SolidCache) DropStatic() {
	c.static.release()
	c.lastUseStatic = 0
}

// DropDynamic returns the dynamic maps to the pool.
func (c *SolidCache) DropDynamic() {
	c.dynamic.release()
	c.lastUseDynamic = 0
}

// DropTemporary returns the temporary maps to the pool.
func (c *SolidCache) DropTemporary() {
	c.temporary.release()
}

// Clear drops all maps.
func (c *SolidCache) Clear() {
	c.DropStatic()
	c.DropDynamic()
	c.DropTemporary()
}

// Update ages the present maps and drops those unused for longer than the
// policy allows. Dynamic maps become dirty.
func (c *SolidCache) Update(policy EvictionPolicy) {
	if c.static.present() {
		c.IncrementLastUseStatic()
		if expired(c.lastUseStatic, policy.StaticFrames) {
			logger.Debug("dropping unused static shadow maps",
				zap.String("variant", "solid"), zap.Int("frames", c.lastUseStatic))
			c.DropStatic()
		}
	}
	if c.dynamic.present() {
		c.IncrementLastUseDynamic()
		if expired(c.lastUseDynamic, policy.DynamicFrames) {
			logger.Debug("dropping unused dynamic shadow maps",
				zap.String("variant", "solid"), zap.Int("frames", c.lastUseDynamic))
			c.DropDynamic()
		}
	}
	c.dirtyDynamic = true
}

// RequiresUpdate reports whether any static or dynamic map is present. The
// last-use counters of present maps advance on every Update, also when the
// policy never evicts, and Update marks dynamic maps dirty.
func (c *SolidCache) RequiresUpdate() bool {
	return c.static.present() || c.dynamic.present()
}

// MemoryUsage returns the bytes held by owned maps.
func (c *SolidCache) MemoryUsage() int64 {
	return c.static.bytes()
}
