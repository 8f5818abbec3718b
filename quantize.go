package afe4404

import (
	"math"

	"golang.org/x/exp/constraints"
)

// clamp limits v to [lo, hi].
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toCode maps x in [0, full] onto 0..steps, rounding half up.
func toCode[T constraints.Signed](x, full T, steps int64) uint32 {
	return uint32((int64(x)*steps + int64(full)/2) / int64(full))
}

// fromCode is the inverse of toCode.
func fromCode[T constraints.Signed](code uint32, full T, steps int64) T {
	return T((int64(code)*int64(full) + steps/2) / steps)
}

// step is one entry of a catalog of hardware magnitudes. Values below upTo
// select value.
type step[T constraints.Signed] struct {
	upTo  T
	value T
	code  uint32
}

// lookup finds the catalog entry for x. The last entry also takes x equal to
// its upTo. It reports false when x is outside [lo, hi].
func lookup[T constraints.Signed](x, lo, hi T, catalog []step[T]) (step[T], bool) {
	if x < lo || x > hi {
		return step[T]{}, false
	}
	for _, s := range catalog {
		if x < s.upTo {
			return s, true
		}
	}
	return catalog[len(catalog)-1], true
}

// lookupCode finds the catalog entry encoded as code.
func lookupCode[T constraints.Signed](code uint32, catalog []step[T]) (step[T], bool) {
	for _, s := range catalog {
		if s.code == code {
			return s, true
		}
	}
	return step[T]{}, false
}

// log2Code returns round(log2(ratio)).
func log2Code(ratio float64) int {
	return int(math.Round(math.Log2(ratio)))
}
