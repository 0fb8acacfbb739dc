package shadow

import (
	"go.uber.org/zap"

	"github.com/Faultbox/shadowcast/internal/logger"
)

// AmbientCache holds the ambient shadow maps of a light. Unlike the other
// variants its dynamic maps are dedicated allocations.
type AmbientCache struct {
	res Resources

	static    ownedPair
	dynamic   ownedPair
	temporary borrowedPair

	usage
	frameSizes
}

// StaticMap returns the static 2D map or nil.
func (c *AmbientCache) StaticMap() Texture { return c.static.get(Target2D) }

// StaticCubeMap returns the static cube map or nil.
func (c *AmbientCache) StaticCubeMap() Texture { return c.static.get(TargetCube) }

// DynamicMap returns the dynamic 2D map or nil.
func (c *AmbientCache) DynamicMap() Texture { return c.dynamic.get(Target2D) }

// DynamicCubeMap returns the dynamic cube map or nil.
func (c *AmbientCache) DynamicCubeMap() Texture { return c.dynamic.get(TargetCube) }

// TemporaryMap returns the temporary 2D map or nil.
func (c *AmbientCache) TemporaryMap() Texture { return c.temporary.get(Target2D) }

// TemporaryCubeMap returns the temporary cube map or nil.
func (c *AmbientCache) TemporaryCubeMap() Texture { return c.temporary.get(TargetCube) }

// ObtainStaticMap returns the static 2D map, creating it with size if absent.
func (c *AmbientCache) ObtainStaticMap(size int, useFloat bool) (Texture, error) {
	return c.obtain(&c.static, &c.lastUseStatic, Target2D, size, useFloat)
}

// ObtainStaticCubeMap returns the static cube map, creating it with size if absent.
func (c *AmbientCache) ObtainStaticCubeMap(size int, useFloat bool) (Texture, error) {
	return c.obtain(&c.static, &c.lastUseStatic, TargetCube, size, useFloat)
}

// ObtainDynamicMap returns the dynamic 2D map, creating it with size if absent.
func (c *AmbientCache) ObtainDynamicMap(size int, useFloat bool) (Texture, error) {
	return c.obtainDynamic(Target2D, size, useFloat)
}

// ObtainDynamicCubeMap returns the dynamic cube map, creating it with size if absent.
func (c *AmbientCache) ObtainDynamicCubeMap(size int, useFloat bool) (Texture, error) {
	return c.obtainDynamic(TargetCube, size, useFloat)
}

// ObtainTemporaryMap returns the temporary 2D map, borrowing it if absent.
func (c *AmbientCache) ObtainTemporaryMap(size int, useFloat bool) (Texture, error) {
	tex, _, err := c.temporary.obtain(c.res.Pool, Target2D, size, DepthFormat(useFloat))
	return tex, err
}

// ObtainTemporaryCubeMap returns the temporary cube map, borrowing it if absent.
func (c *AmbientCache) ObtainTemporaryCubeMap(size int, useFloat bool) (Texture, error) {
	tex, _, err := c.temporary.obtain(c.res.Pool, TargetCube, size, DepthFormat(useFloat))
	return tex, err
}

func (c *AmbientCache) obtain(pair *ownedPair, lastUse *int, target Target, size int, useFloat bool) (Texture, error) {
	tex, created, err := pair.obtain(c.res.Textures, target, size, DepthFormat(useFloat))
	if err != nil {
		return nil, err
	}
	if created {
		*lastUse = 0
	}
	return tex, nil
}

func (c *AmbientCache) obtainDynamic(target Target, size int, useFloat bool) (Texture, error) {
	created := c.dynamic.get(target) == nil
	tex, err := c.obtain(&c.dynamic, &c.lastUseDynamic, target, size, useFloat)
	if err == nil && created {
		c.dirtyDynamic = true
	}
	return tex, err
}

// DropStatic releases the static maps.
func (c *AmbientCache) DropStatic() {
	c.static.release()
	c.lastUseStatic = 0
}

// DropDynamic releases the dynamic maps.
func (c *AmbientCache) DropDynamic() {
	c.dynamic.release()
	c.lastUseDynamic = 0
}

// DropTemporary returns the temporary maps to the pool.
func (c *AmbientCache) DropTemporary() {
	c.temporary.release()
}

// Clear drops all maps.
func (c *AmbientCache) Clear() {
	c.DropStatic()
	c.DropDynamic()
	c.DropTemporary()
}

// Update ages the present maps and drops those unused for longer than the
// policy allows. Dynamic maps become dirty.
func (c *AmbientCache) Update(policy EvictionPolicy) {
	if c.static.present() {
		c.IncrementLastUseStatic()
		if expired(c.lastUseStatic, policy.StaticFrames) {
			logger.Debug("dropping unused static shadow maps",
				zap.String("variant", "ambient"), zap.Int("frames", c.lastUseStatic))
			c.DropStatic()
		}
	}
	if c.dynamic.present() {
		c.IncrementLastUseDynamic()
		if expired(c.lastUseDynamic, policy.DynamicFrames) {
			logger.Debug("dropping unused dynamic shadow maps",
				zap.String("variant", "ambient"), zap.Int("frames", c.lastUseDynamic))
			c.DropDynamic()
		}
	}
	c.dirtyDynamic = true
}

// RequiresUpdate reports whether any static or dynamic map is present. The
// last-use counters of present maps advance on every Update, also when the
// policy never evicts, and Update marks dynamic maps dirty.
func (c *AmbientCache) RequiresUpdate() bool {
	return c.static.present() || c.dynamic.present()
}

// MemoryUsage returns the bytes held by owned maps.
func (c *AmbientCache) MemoryUsage() int64 {
	return c.static.bytes() + c.dynamic.bytes()
}
