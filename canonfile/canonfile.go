// Package canonfile reads and writes the CANON container, the on-disk form of
// an extracted basis.
//
// The layout is fixed and small:
//
//	offset  size       field
//	0       5          magic, the ASCII bytes "CANON"
//	5       1          format version (currently 1)
//	6       1          vector width W in bits
//	7       4          rank, little-endian uint32
//	11      rank*B     basis elements in discovery order, B = ceil(W/8)
//	                   bytes each, big-endian
//	...     rank*8     derivation origins, little-endian uint64, same order
//
// Only the element list and its origins are authoritative; everything the
// engine derives from them (row-echelon rows, reachability cache) is rebuilt
// on load by replaying insertion, never read from storage. That replay doubles
// as validation: a container whose elements aren't linearly independent, or
// whose origins don't increase, is rejected as corrupt.
package canonfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/canon-project/canon"
	"github.com/canon-project/canon/gf2"
	"github.com/hashicorp/go-multierror"
	"github.com/noxer/bytewriter"
)

// Magic identifies a CANON container.
const Magic = "CANON"

// FormatVersion is the container revision this package writes and accepts.
const FormatVersion = 1

const headerSize = len(Magic) + 1 + 1 + 4

func elementSize(width int) int {
	return (width + 7) / 8
}

func putVector(dst []byte, v gf2.Vector) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}

func getVector(src []byte) gf2.Vector {
	var v gf2.Vector
	for _, b := range src {
		v = v<<8 | gf2.Vector(b)
	}
	return v
}

// BasisBytes returns the raw basis elements in discovery order, each encoded
// big-endian in ceil(width/8) bytes. This is the payload the extract command
// writes: the canonical survivors of the input, not a reconstruction of it.
func BasisBytes(basis *gf2.Basis) []byte {
	size := elementSize(basis.Width())
	elements := basis.Elements()

	out := make([]byte, len(elements)*size)
	for i, element := range elements {
		putVector(out[i*size:(i+1)*size], element.Vector)
	}
	return out
}

// Save writes the container for `basis` to the output stream. The returned
// int64 gives the number of bytes written to the output stream. If an error
// occurred, the value is undefined and should not be used.
func Save(output io.Writer, basis *gf2.Basis) (int64, error) {
	elements := basis.Elements()
	size := elementSize(basis.Width())

	buffer := make([]byte, headerSize+len(elements)*(size+8))
	writer := bytewriter.New(buffer)

	writer.Write([]byte(Magic))
	binary.Write(writer, binary.LittleEndian, uint8(FormatVersion))
	binary.Write(writer, binary.LittleEndian, uint8(basis.Width()))
	binary.Write(writer, binary.LittleEndian, uint32(len(elements)))

	element := make([]byte, size)
	for _, e := range elements {
		putVector(element, e.Vector)
		writer.Write(element)
	}
	for _, e := range elements {
		binary.Write(writer, binary.LittleEndian, e.Position)
	}

	n, err := output.Write(buffer)
	return int64(n), err
}

// Load reads a container from the input stream and reconstructs the basis,
// rebuilding all derived state by replaying insertion in stored order.
//
// Errors are canon.ErrNotCanonFile for a bad magic, canon.ErrUnsupportedVersion
// for an unknown revision, and canon.ErrCorruptContainer for everything wrong
// past the header; validation problems in the body are accumulated so one load
// reports all of them.
func Load(input io.Reader) (*gf2.Basis, error) {
	var magic [len(Magic)]byte
	if _, err := io.ReadFull(input, magic[:]); err != nil {
		return nil, canon.ErrNotCanonFile.Wrap(err)
	}
	if string(magic[:]) != Magic {
		return nil, canon.ErrNotCanonFile.WithMessage(
			fmt.Sprintf("bad magic %q", magic[:]))
	}

	var header struct {
		Version uint8
		Width   uint8
		Rank    uint32
	}
	if err := binary.Read(input, binary.LittleEndian, &header); err != nil {
		return nil, canon.ErrCorruptContainer.Wrap(err)
	}
	if header.Version != FormatVersion {
		return nil, canon.ErrUnsupportedVersion.WithMessage(
			fmt.Sprintf("got version %d, want %d", header.Version, FormatVersion))
	}

	width := int(header.Width)
	if err := gf2.CheckWidth(width); err != nil {
		return nil, canon.ErrCorruptContainer.Wrap(err)
	}
	if header.Rank > uint32(width) {
		return nil, canon.ErrCorruptContainer.WithMessage(fmt.Sprintf(
			"rank %d exceeds the dimension of a %d-bit space", header.Rank, width))
	}

	rank := int(header.Rank)
	size := elementSize(width)

	raw := make([]byte, rank*size)
	if _, err := io.ReadFull(input, raw); err != nil {
		return nil, canon.ErrCorruptContainer.Wrap(
			fmt.Errorf("basis truncated: %w", err))
	}
	origins := make([]uint64, rank)
	if err := binary.Read(input, binary.LittleEndian, origins); err != nil {
		return nil, canon.ErrCorruptContainer.Wrap(
			fmt.Errorf("derivation map truncated: %w", err))
	}

	basis, err := gf2.NewBasis(width)
	if err != nil {
		return nil, err
	}

	var issues *multierror.Error
	for i := 0; i < rank; i++ {
		vector := getVector(raw[i*size : (i+1)*size])
		if i > 0 && origins[i] <= origins[i-1] {
			issues = multierror.Append(issues, fmt.Errorf(
				"origin %d (%d) does not increase past its predecessor (%d)",
				i, origins[i], origins[i-1]))
		}

		inserted, err := basis.TryInsert(vector, origins[i])
		if err != nil {
			issues = multierror.Append(issues, err)
		} else if !inserted {
			issues = multierror.Append(issues, fmt.Errorf(
				"element %d (%#x) is dependent on its predecessors", i, uint64(vector)))
		}
	}
	if err := issues.ErrorOrNil(); err != nil {
		return nil, canon.ErrCorruptContainer.Wrap(err)
	}
	return basis, nil
}
