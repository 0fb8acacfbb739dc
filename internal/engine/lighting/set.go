package lighting

// MaxLights is the maximum number of shadow casting lights in a Set.
const MaxLights = 256

// Set holds the lights of a scene.
type Set struct {
	lights []*Light
}

// NewSet creates an empty light set.
func NewSet() *Set {
	return &Set{
		lights: make([]*Light, 0, 32),
	}
}

// Add adds a light to the set.
// Returns false if the set is full.
func (s *Set) Add(light *Light) bool {
	if len(s.lights) >= MaxLights {
		return false
	}
	s.lights = append(s.lights, light)
	return true
}

// Lights returns the lights in insertion order.
func (s *Set) Lights() []*Light {
	return s.lights
}

// Len returns the number of lights.
func (s *Set) Len() int {
	return len(s.lights)
}

// Clear releases the shadow maps of all lights and empties the set.
func (s *Set) Clear() {
	for _, l := range s.lights {
		l.Release()
	}
	s.lights = s.lights[:0]
}

// MemoryUsage returns the bytes held by the casters of all lights.
func (s *Set) MemoryUsage() int64 {
	var total int64
	for _, l := range s.lights {
		total += l.caster.MemoryUsage()
	}
	return total
}
