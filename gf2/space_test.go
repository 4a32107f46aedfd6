package gf2_test

import (
	"testing"

	"github.com/canon-project/canon"
	"github.com/canon-project/canon/gf2"
	"github.com/stretchr/testify/assert"
)

func TestAdd__FieldLaws(t *testing.T) {
	vectors := []gf2.Vector{0x00, 0x01, 0x5a, 0x80, 0xff, 0xdead, 0xffffffffffffffff}

	for _, a := range vectors {
		assert.EqualValues(t, a, gf2.Add(a, 0), "0 must be the additive identity")
		assert.EqualValues(t, 0, gf2.Add(a, a), "every vector must be its own inverse")

		for _, b := range vectors {
			assert.EqualValues(t, gf2.Add(a, b), gf2.Add(b, a), "addition must commute")
			for _, c := range vectors {
				assert.EqualValues(
					t,
					gf2.Add(gf2.Add(a, b), c),
					gf2.Add(a, gf2.Add(b, c)),
					"addition must associate")
			}
		}
	}
}

func TestLeadingBit(t *testing.T) {
	tests := []struct {
		Input    gf2.Vector
		Expected int
		Name     string
	}{
		{0x00, gf2.NoPivot, "zero vector has no pivot"},
		{0x01, 0, "lowest bit"},
		{0x02, 1, "second bit"},
		{0x03, 1, "highest of two"},
		{0x80, 7, "top of a byte"},
		{0xff, 7, "full byte"},
		{0x100, 8, "ninth bit"},
		{0x8000000000000000, 63, "top of the word"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Expected, gf2.LeadingBit(test.Input))
		})
	}
}

func TestCheckWidth(t *testing.T) {
	for _, width := range []int{1, 8, 16, 32, 64} {
		assert.NoError(t, gf2.CheckWidth(width), "width %d should be valid", width)
	}
	for _, width := range []int{-1, 0, 65, 128} {
		err := gf2.CheckWidth(width)
		assert.ErrorIs(t, err, canon.ErrInvalidWidth, "width %d should be rejected", width)
	}
}
