package gf2

import (
	"fmt"
	"math/bits"

	"github.com/canon-project/canon"
)

// Vector is an element of (GF(2))^w for some width w <= MaxWidth, packed into
// the low w bits of a uint64.
type Vector uint64

// MaxWidth is the largest supported vector width, fixed by the packing of
// [Vector] into a single machine word.
const MaxWidth = 64

// NoPivot is the value LeadingBit returns for the zero vector, which has no
// pivot.
const NoPivot = -1

// Add returns the sum of two vectors over GF(2), i.e. their bitwise XOR.
// Addition is associative, commutative and self-inverse; the zero vector is
// the identity.
func Add(a, b Vector) Vector {
	return a ^ b
}

// LeadingBit returns the index of the highest set bit of v, or [NoPivot] if
// v is the zero vector. This is the pivot selector for Gaussian elimination.
func LeadingBit(v Vector) int {
	return 63 - bits.LeadingZeros64(uint64(v))
}

// CheckWidth validates a vector width, returning canon.ErrInvalidWidth for
// anything outside 1..MaxWidth.
func CheckWidth(width int) error {
	if width < 1 || width > MaxWidth {
		return canon.ErrInvalidWidth.WithMessage(
			fmt.Sprintf("width must be in 1..%d, got %d", MaxWidth, width))
	}
	return nil
}
