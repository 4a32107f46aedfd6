// Package gf2 implements the incremental GF(2) basis engine at the heart of
// the tool.
//
// Each input value is treated as a vector of W bits over the two-element
// field, where vector addition is bitwise XOR. Scanning a stream, we want the
// maximal linearly independent subset of the values seen so far -- the basis
// of the subspace the stream actually occupies -- together with the stream
// position at which each basis element was first discovered.
//
// The engine keeps two representations of the same subspace. The
// discovery-ordered element list is the authoritative state: append-only,
// order-significant, and the only thing that gets persisted. Beside it sits a
// reduced row-echelon set of rows, one per occupied pivot bit, maintained
// incrementally: every newly independent value is reduced against the
// existing rows before insertion, and the existing rows are back-reduced
// against it. Because every row then owns a unique pivot, a membership test
// is a single O(rank) reduction and its verdict is exact. (A plain
// append-only basis does not guarantee unique pivots, which is why a single
// reduction scan over it would only be a heuristic.)
//
// A third structure, the reachability bitmap, is a derived cache over the
// 2^W value domain marking values already proven expressible as an XOR of
// basis elements. It is a positive hint only -- a set bit short-circuits the
// reduction, an unset bit proves nothing -- and it is rebuilt from the
// element list whenever a basis is reloaded, never trusted from storage.
package gf2
