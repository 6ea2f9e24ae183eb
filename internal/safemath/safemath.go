package safemath

import (
	"math/bits"

	"github.com/holiman/uint256"
)

func Add64(a, b uint64) (uint64, bool) {
	v, carry := bits.Add64(a, b, 0)
	return v, carry == 0
}

func Mul64(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// AddUint256 returns a+b and false if the sum does not fit in 256 bits.
func AddUint256(a, b uint256.Int) (uint256.Int, bool) {
	var v uint256.Int
	_, overflow := v.AddOverflow(&a, &b)
	return v, !overflow
}

// SubUint256 returns a-b and false if b > a.
func SubUint256(a, b uint256.Int) (uint256.Int, bool) {
	var v uint256.Int
	_, underflow := v.SubOverflow(&a, &b)
	return v, !underflow
}

// PageBounds returns the half-open window [start, end) of the 1-indexed page
// over a sequence of the given length. Empty windows have start == end.
// Page or limit of zero, and pages that would start beyond uint64 range,
// yield an empty window.
func PageBounds(page, limit, length uint64) (start, end uint64) {
	if page == 0 || limit == 0 {
		return 0, 0
	}
	start, ok := Mul64(page-1, limit)
	if !ok || start >= length {
		return 0, 0
	}
	end, ok = Add64(start, limit)
	if !ok || end > length {
		end = length
	}
	return start, end
}
