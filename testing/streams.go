package testing

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/canon-project/canon/canonfile"
	"github.com/canon-project/canon/gf2"
	"github.com/canon-project/canon/stream"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// RunStream builds a basis over width-bit vectors from raw stream bytes,
// failing the test on any pass error.
func RunStream(t *testing.T, width int, data []byte) *gf2.Basis {
	t.Helper()

	processor, err := stream.NewProcessor(width)
	require.NoError(t, err)

	basis, err := processor.Run(context.Background(), data)
	require.NoError(t, err)
	return basis
}

// ContainerStream serializes a basis into a CANON container and returns a
// fixed-size stream over it, positioned at the start.
//
//   - Writes to the stream do not affect the basis.
//   - The stream's size is fixed to the container size; writing past the end
//     triggers an error.
func ContainerStream(t *testing.T, basis *gf2.Basis) io.ReadWriteSeeker {
	t.Helper()

	containerBytes := ContainerBytes(t, basis)
	return bytesextra.NewReadWriteSeeker(containerBytes)
}

// ContainerBytes serializes a basis into CANON container bytes.
func ContainerBytes(t *testing.T, basis *gf2.Basis) []byte {
	t.Helper()

	var buffer bytes.Buffer
	n, err := canonfile.Save(&buffer, basis)
	require.NoError(t, err)
	require.EqualValues(t, buffer.Len(), n, "reported size disagrees with bytes written")
	return buffer.Bytes()
}
