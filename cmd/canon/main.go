package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/canon-project/canon"
	"github.com/canon-project/canon/canonfile"
	"github.com/canon-project/canon/gf2"
	"github.com/canon-project/canon/stream"
	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:  "canon",
		Usage: "Extract the GF(2) basis spanned by a byte stream",
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Run the extraction pass over a file and write a CANON container",
				Action:    compressFile,
				ArgsUsage: "INPUT_FILE  [OUTPUT_FILE]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "width",
						Usage: "vector width in bits (8, 16, 32 or 64)",
						Value: 8,
					},
					&cli.IntFlag{
						Name:  "shards",
						Usage: "number of parallel shards; 1 runs strictly sequentially",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  "csv",
						Usage: "append a statistics row to this CSV file",
					},
				},
			},
			{
				Name:      "extract",
				Usage:     "Write the raw basis bytes of a CANON container (not a reconstruction of the input)",
				Action:    extractBasis,
				ArgsUsage: "INPUT_FILE  [OUTPUT_FILE]",
			},
			{
				Name:      "info",
				Usage:     "Show the basis stored in a CANON container",
				Action:    showInfo,
				ArgsUsage: "INPUT_FILE",
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func requireInputArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("missing required INPUT_FILE argument")
	}
	return c.Args().Get(0), nil
}

func compressFile(c *cli.Context) error {
	inputPath, err := requireInputArg(c)
	if err != nil {
		return err
	}
	outputPath := c.Args().Get(1)
	if outputPath == "" {
		outputPath = inputPath + ".canon"
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return canon.ErrInvalidInput.Wrap(err)
	}

	width := c.Int("width")
	start := time.Now()
	basis, err := stream.RunSharded(context.Background(), data, width, c.Int("shards"))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	stats := canon.ComputeStats(inputPath, uint64(len(data)), width, basis.Rank(), elapsed)
	fmt.Print(stats)

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outputFile.Close()

	written, err := canonfile.Save(outputFile, basis)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d-byte container: %s\n", written, outputPath)

	if csvPath := c.String("csv"); csvPath != "" {
		if err := appendStatsRow(csvPath, stats); err != nil {
			return err
		}
		fmt.Printf("Appended statistics row: %s\n", csvPath)
	}
	return nil
}

// appendStatsRow adds one row to the CSV report, writing a header first only
// when the file is new or empty.
func appendStatsRow(path string, stats canon.Stats) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	records := []canon.Stats{stats}
	if info.Size() == 0 {
		return gocsv.Marshal(&records, file)
	}
	return gocsv.MarshalWithoutHeaders(&records, file)
}

func extractBasis(c *cli.Context) error {
	inputPath, err := requireInputArg(c)
	if err != nil {
		return err
	}
	outputPath := c.Args().Get(1)
	if outputPath == "" {
		outputPath = inputPath + ".basis"
	}

	basis, err := loadContainer(inputPath)
	if err != nil {
		return err
	}

	basisBytes := canonfile.BasisBytes(basis)
	if err := os.WriteFile(outputPath, basisBytes, 0o644); err != nil {
		return err
	}

	fmt.Printf("Wrote %d basis bytes (rank %d): %s\n", len(basisBytes), basis.Rank(), outputPath)
	return nil
}

func showInfo(c *cli.Context) error {
	inputPath, err := requireInputArg(c)
	if err != nil {
		return err
	}

	basis, err := loadContainer(inputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Width: %d bits\n", basis.Width())
	fmt.Printf("Rank:  %d\n", basis.Rank())

	hexDigits := (basis.Width() + 3) / 4
	for i, element := range basis.Elements() {
		fmt.Printf("  [%d] %0*x  first independent at position %d\n",
			i, hexDigits, uint64(element.Vector), element.Position)
	}
	return nil
}

func loadContainer(path string) (*gf2.Basis, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return canonfile.Load(file)
}
