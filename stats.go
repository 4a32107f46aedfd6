package canon

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

// Stats summarizes one extraction pass. It's computed purely from the three
// facts the basis engine exposes (rank, element count, origins) plus the
// input size and elapsed wall time; nothing here feeds back into the core.
type Stats struct {
	Input            string  `csv:"input"`
	InputSize        uint64  `csv:"input_size"`
	Width            int     `csv:"width"`
	Rank             int     `csv:"rank"`
	BasisSize        uint64  `csv:"basis_size"`
	DerivationSize   uint64  `csv:"derivation_size"`
	CompressionRatio float64 `csv:"compression_ratio"`
	Seconds          float64 `csv:"time_seconds"`
	ThroughputMBps   float64 `csv:"throughput_mb_s"`
}

const bytesPerMiB = 1 << 20

// ComputeStats builds a Stats record for a finished pass. `input` is a label
// (usually the source file path) carried through to reports.
func ComputeStats(input string, inputSize uint64, width, rank int, elapsed time.Duration) Stats {
	basisSize := uint64(rank) * uint64((width+7)/8)
	derivationSize := uint64(rank) * 8

	stats := Stats{
		Input:          input,
		InputSize:      inputSize,
		Width:          width,
		Rank:           rank,
		BasisSize:      basisSize,
		DerivationSize: derivationSize,
		Seconds:        elapsed.Seconds(),
	}

	if inputSize > 0 {
		compressedSize := basisSize + derivationSize
		stats.CompressionRatio = (1.0 - float64(compressedSize)/float64(inputSize)) * 100.0
	}
	if stats.Seconds > 0 {
		stats.ThroughputMBps = (float64(inputSize) / bytesPerMiB) / stats.Seconds
	}
	return stats
}

// String renders the human-readable report block printed after a pass.
func (s Stats) String() string {
	var b strings.Builder
	rule := strings.Repeat("=", 55)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "            CANON EXTRACTION STATISTICS")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Input Size:         %d bytes (%.2f MB)\n",
		s.InputSize, float64(s.InputSize)/bytesPerMiB)
	fmt.Fprintf(&b, "Vector Width:       %d bits\n", s.Width)
	fmt.Fprintf(&b, "Rank (GF(2)):       %d\n", s.Rank)
	fmt.Fprintf(&b, "Basis Size:         %d bytes\n", s.BasisSize)
	fmt.Fprintf(&b, "Derivation Map:     %d bytes\n", s.DerivationSize)
	fmt.Fprintf(&b, "Compression Ratio:  %.2f%%\n", s.CompressionRatio)
	fmt.Fprintf(&b, "Time Taken:         %.3f seconds\n", s.Seconds)
	fmt.Fprintf(&b, "Throughput:         %.2f MB/s\n", s.ThroughputMBps)
	fmt.Fprintln(&b, rule)
	return b.String()
}

// WriteCSV writes the given records, with a header row, to the output stream.
func WriteCSV(records []Stats, output io.Writer) error {
	return gocsv.Marshal(&records, output)
}
