// Package stream drives a single forward pass of the basis engine over raw
// input bytes.
//
// The pass itself is deliberately dumb: chop the input into fixed-width
// blocks, feed each block to the basis in order, and hand the finished basis
// back. All of the interesting work happens inside [gf2.Basis]. For inputs
// large enough to care about, see [RunSharded].
package stream

import (
	"context"
	"io"

	"github.com/canon-project/canon"
	"github.com/canon-project/canon/gf2"
)

// The pass only looks at the context between insertion attempts, so the
// check runs once per this many blocks. One insertion is at most a few dozen
// XORs, making this interval a few microseconds of latency at worst.
const cancelCheckInterval = 4096

// Processor runs the extraction pass for one fixed vector width. It holds no
// per-run state: every Run builds and returns its own basis, so a single
// Processor may be shared freely, including across goroutines.
type Processor struct {
	width      int
	blockBytes int
}

// NewProcessor returns a processor that interprets input as a sequence of
// width-bit values. Width 8 reads the input byte by byte; wider processors
// read big-endian blocks of ceil(width/8) bytes, which raises the rank
// ceiling for inputs whose structure spans multiple bytes.
func NewProcessor(width int) (*Processor, error) {
	if err := gf2.CheckWidth(width); err != nil {
		return nil, err
	}
	return &Processor{
		width:      width,
		blockBytes: (width + 7) / 8,
	}, nil
}

// Width returns the vector width this processor decodes.
func (p *Processor) Width() int {
	return p.width
}

// BlockBytes returns the number of input bytes consumed per vector.
func (p *Processor) BlockBytes() int {
	return p.blockBytes
}

// decodeBlock interprets up to blockBytes input bytes as one big-endian
// vector. A short trailing block decodes the same way, zero-extended at the
// top.
func decodeBlock(chunk []byte) gf2.Vector {
	var v gf2.Vector
	for _, b := range chunk {
		v = v<<8 | gf2.Vector(b)
	}
	return v
}

// Run performs the single sequential pass over `data` and returns the
// resulting basis. For each block i, in order, it makes exactly one insertion
// attempt with derivation position i; empty input yields a valid rank-0
// basis. The pass is deterministic: the same bytes always produce the same
// ordered basis with the same positions.
//
// Cancellation is honored between insertion attempts; a canceled context
// returns ctx.Err() and no basis.
func (p *Processor) Run(ctx context.Context, data []byte) (*gf2.Basis, error) {
	basis, err := gf2.NewBasis(p.width)
	if err != nil {
		return nil, err
	}

	blockCount := (len(data) + p.blockBytes - 1) / p.blockBytes
	for i := 0; i < blockCount; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		start := i * p.blockBytes
		end := start + p.blockBytes
		if end > len(data) {
			end = len(data)
		}

		if _, err := basis.TryInsert(decodeBlock(data[start:end]), uint64(i)); err != nil {
			return nil, err
		}
	}
	return basis, nil
}

// RunReader slurps the input stream into memory and runs the pass over it.
// Read failures surface as canon.ErrInvalidInput; the pass itself never
// touches I/O.
func (p *Processor) RunReader(ctx context.Context, input io.Reader) (*gf2.Basis, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, canon.ErrInvalidInput.Wrap(err)
	}
	return p.Run(ctx, data)
}
