package shadow

import "github.com/chewxy/math32"

const (
	// MaxReduction is the largest size shift. Base sizes range 16..4096.
	MaxReduction = 8

	// MinMapSize is the smallest shadow map size in texels.
	MinMapSize = 16

	// DefaultDynamicRangeFactor scales the light range for dynamic reduction.
	// 0.5 keeps dynamic memory at roughly 2-4 times less than static.
	DefaultDynamicRangeFactor float32 = 0.5

	minRange float32 = 1
)

// ReductionStatic returns the size shift for static shadow maps of a light
// at distance from the camera. Lights within their range keep full size.
func ReductionStatic(distance, lightRange float32) int {
	return reduction(distance, math32.Max(lightRange, minRange))
}

// ReductionDynamic is like ReductionStatic but measures the distance against
// lightRange*factor, so dynamic maps shrink sooner.
func ReductionDynamic(distance, lightRange, factor float32) int {
	return reduction(distance, math32.Max(lightRange*factor, minRange))
}

func reduction(distance, lightRange float32) int {
	if distance <= lightRange {
		return 0
	}

	// the first step happens at 1.5 times the range instead of 2 times
	multiple := distance/lightRange - 0.5
	if !(multiple > 1) {
		return 0
	}

	r := math32.Floor(math32.Log2(multiple))
	if r >= MaxReduction {
		return MaxReduction
	}
	return int(r)
}

// ReduceSize shifts base down by reduction, never below MinMapSize.
func ReduceSize(base, reduction int) int {
	if reduction < 0 {
		reduction = 0
	}
	if reduction > MaxReduction {
		reduction = MaxReduction
	}
	size := base >> reduction
	if size < MinMapSize {
		return MinMapSize
	}
	return size
}
