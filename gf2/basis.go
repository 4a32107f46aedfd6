package gf2

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/canon-project/canon"
)

// Element is one basis vector together with its derivation origin: the index
// of the stream position at which the vector was first found to be linearly
// independent of everything chosen before it.
type Element struct {
	Vector   Vector
	Position uint64
}

// The reachability bitmap covers the full 2^w value domain, so it's only
// allocated for widths where that domain is small enough to enumerate.
// Membership testing stays exact without it.
const maxCachedWidth = 16

// Basis is the growing set of linearly independent vectors discovered in a
// stream. It is built by a single [Basis.TryInsert] per input value and is
// meant to be treated as read-only once the pass completes.
//
// A Basis is not safe for concurrent use; each instance is owned by exactly
// one processor at a time.
type Basis struct {
	width    int
	mask     Vector
	elements []Element

	// rows holds the reduced row-echelon image of elements, indexed by pivot
	// bit. rows[p] is zero when no row owns pivot p. Derived state, like the
	// reachability bitmap.
	rows      []Vector
	reachable bitmap.Bitmap
}

// NewBasis returns an empty basis over (GF(2))^width.
func NewBasis(width int) (*Basis, error) {
	if err := CheckWidth(width); err != nil {
		return nil, err
	}

	b := &Basis{
		width: width,
		mask:  Vector(^uint64(0) >> uint(MaxWidth-width)),
		rows:  make([]Vector, width),
	}
	if width <= maxCachedWidth {
		b.reachable = bitmap.New(1 << uint(width))
	}
	return b, nil
}

// Width returns the dimension of the ambient vector space.
func (b *Basis) Width() int {
	return b.width
}

// Rank returns the number of basis elements found so far. It never exceeds
// Width.
func (b *Basis) Rank() int {
	return len(b.elements)
}

// Elements returns the basis elements in discovery order. The returned slice
// is a copy; mutating it doesn't affect the basis.
func (b *Basis) Elements() []Element {
	elements := make([]Element, len(b.elements))
	copy(elements, b.elements)
	return elements
}

// reduce eliminates every owned pivot bit of v, high to low. The residue is
// zero iff v is in the span; a nonzero residue carries no pivot bit owned by
// an existing row, so installing it keeps the rows in reduced row-echelon
// form.
func (b *Basis) reduce(v Vector) Vector {
	for p := b.width - 1; p >= 0 && v != 0; p-- {
		if (v>>uint(p))&1 == 1 && b.rows[p] != 0 {
			v = Add(v, b.rows[p])
		}
	}
	return v
}

// InSpan reports whether v is expressible as an XOR combination of the
// current basis elements. The zero vector is always in the span (it's the
// empty combination). Values with bits above the space's width are never in
// the span.
func (b *Basis) InSpan(v Vector) bool {
	if v&^b.mask != 0 {
		return false
	}
	// Fast path: the bitmap only ever records proven members, so a hit is
	// definitive. A miss proves nothing and falls through to the reduction.
	if b.reachable != nil && b.reachable.Get(int(v)) {
		return true
	}
	return b.reduce(v) == 0
}

// TryInsert attempts to add v, first observed at the given stream position,
// to the basis. It returns true iff v was linearly independent of the current
// basis and was appended. Dependent values leave the basis untouched.
//
// An insertion that would push the rank past the space dimension returns
// canon.ErrCapacityExceeded instead of dropping the value. With the rows kept
// in reduced form that bound can't actually be hit -- every value reduces to
// zero once the rank reaches the width -- but overflow must surface, never
// truncate.
func (b *Basis) TryInsert(v Vector, position uint64) (bool, error) {
	if v&^b.mask != 0 {
		return false, canon.ErrInvalidInput.WithMessage(fmt.Sprintf(
			"value %#x has bits above vector width %d", uint64(v), b.width))
	}

	residue := b.reduce(v)
	if residue == 0 {
		return false, nil
	}

	if len(b.elements) >= b.width {
		return false, canon.ErrCapacityExceeded.WithMessage(fmt.Sprintf(
			"rank is already %d in a %d-dimensional space", len(b.elements), b.width))
	}

	// Install the reduced residue at its pivot and back-reduce every row that
	// still has that pivot bit set. Row pivots are untouched by the addition
	// (the residue's leading bit is strictly below theirs), so the index stays
	// consistent.
	pivot := LeadingBit(residue)
	for p, row := range b.rows {
		if row != 0 && (row>>uint(pivot))&1 == 1 {
			b.rows[p] = Add(row, residue)
		}
	}
	b.rows[pivot] = residue

	// Mark the newly reachable values: v itself plus v's sum with each prior
	// element. Set-only, so the cache stays sound (it can under-report the
	// span, never over-report it).
	if b.reachable != nil {
		b.reachable.Set(int(v), true)
		for _, e := range b.elements {
			b.reachable.Set(int(Add(e.Vector, v)), true)
		}
	}

	b.elements = append(b.elements, Element{Vector: v, Position: position})
	return true, nil
}

// RebuildCache recomputes all derived state (row-echelon rows and the
// reachability bitmap) from the discovery-ordered element list. Callers that
// reconstruct a basis from storage use this instead of trusting any persisted
// copy of the cache.
//
// It returns canon.ErrCorruptContainer if the element list is not actually
// linearly independent, which can only happen when the list was assembled
// outside TryInsert.
func (b *Basis) RebuildCache() error {
	elements := b.elements
	b.elements = nil
	b.rows = make([]Vector, b.width)
	if b.width <= maxCachedWidth {
		b.reachable = bitmap.New(1 << uint(b.width))
	}

	for i, e := range elements {
		inserted, err := b.TryInsert(e.Vector, e.Position)
		if err != nil {
			return err
		}
		if !inserted {
			return canon.ErrCorruptContainer.WithMessage(fmt.Sprintf(
				"element %d (%#x) is dependent on its predecessors", i, uint64(e.Vector)))
		}
	}
	return nil
}
