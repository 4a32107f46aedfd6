package stream

import (
	"context"
	"fmt"

	"github.com/canon-project/canon"
	"github.com/canon-project/canon/gf2"
	"golang.org/x/sync/errgroup"
)

// RunSharded splits the input into `shards` contiguous, block-aligned pieces,
// builds an independent local basis per piece concurrently, then merges by
// re-inserting every local basis element into one combined basis in shard
// order. Derivation positions are rebased to global block indices before the
// merge.
//
// Insertion order affects which values get picked as basis representatives,
// so the merged basis may name different elements than a sequential [Run] --
// but it spans the same subspace and has the same rank. The merge itself is
// sequential; only the per-shard passes run in parallel.
func RunSharded(ctx context.Context, data []byte, width, shards int) (*gf2.Basis, error) {
	if shards < 1 {
		return nil, canon.ErrInvalidInput.WithMessage(
			fmt.Sprintf("shard count must be positive, got %d", shards))
	}

	processor, err := NewProcessor(width)
	if err != nil {
		return nil, err
	}
	if shards == 1 {
		return processor.Run(ctx, data)
	}

	blockCount := (len(data) + processor.blockBytes - 1) / processor.blockBytes
	if shards > blockCount {
		shards = blockCount
	}
	if blockCount == 0 {
		return gf2.NewBasis(width)
	}

	blocksPerShard := (blockCount + shards - 1) / shards
	local := make([]*gf2.Basis, shards)
	firstBlock := make([]uint64, shards)

	group, groupCtx := errgroup.WithContext(ctx)
	for s := 0; s < shards; s++ {
		s := s
		startBlock := s * blocksPerShard
		endBlock := startBlock + blocksPerShard
		if endBlock > blockCount {
			endBlock = blockCount
		}
		firstBlock[s] = uint64(startBlock)

		startByte := startBlock * processor.blockBytes
		endByte := endBlock * processor.blockBytes
		if endByte > len(data) {
			endByte = len(data)
		}

		group.Go(func() error {
			basis, err := processor.Run(groupCtx, data[startByte:endByte])
			if err != nil {
				return err
			}
			local[s] = basis
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	merged, err := gf2.NewBasis(width)
	if err != nil {
		return nil, err
	}
	for s, basis := range local {
		for _, element := range basis.Elements() {
			_, err := merged.TryInsert(element.Vector, firstBlock[s]+element.Position)
			if err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}
