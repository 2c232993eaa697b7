package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/orion-starship/cs4410-malloc"
)

var (
	benchOps      int
	benchMaxSize  int
	benchGrowth   int
	benchConcurry int
	benchSeed     int64
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchOps, "ops", 100000, "total allocate/release pairs to perform")
	cmd.Flags().IntVar(&benchMaxSize, "max-size", 256, "maximum payload size per allocation, in bytes")
	cmd.Flags().IntVar(&benchGrowth, "growth-hint", 0, "heap growth floor, in bytes (0 uses the package default)")
	cmd.Flags().IntVar(&benchConcurry, "goroutines", 1, "number of concurrent workers sharing one Allocator")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "random seed for the synthetic workload")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Measure allocate/release throughput under a synthetic workload",
		Long: `bench drives one Allocator with --goroutines concurrent workers, each
performing allocate-then-release pairs of random size, and reports
the achieved operation rate.

Example:
  mallocctl bench --ops 1000000 --goroutines 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

type benchResult struct {
	Ops      int           `json:"ops"`
	Elapsed  time.Duration `json:"elapsed"`
	OpsPerUS float64       `json:"ops_per_microsecond"`
}

func runBench() error {
	a := malloc.NewAllocator(benchGrowth)
	defer a.Close()

	if benchConcurry < 1 {
		benchConcurry = 1
	}
	perWorker := benchOps / benchConcurry

	start := time.Now()
	done := make(chan error, benchConcurry)
	for w := 0; w < benchConcurry; w++ {
		go func(seed int64) {
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < perWorker; i++ {
				n := rng.Intn(benchMaxSize) + 1
				p, err := a.Allocate(n)
				if err != nil {
					done <- fmt.Errorf("allocate %d bytes: %w", n, err)
					return
				}
				a.Release(p)
			}
			done <- nil
		}(benchSeed + int64(w))
	}
	for w := 0; w < benchConcurry; w++ {
		if err := <-done; err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	total := perWorker * benchConcurry
	result := benchResult{
		Ops:      total,
		Elapsed:  elapsed,
		OpsPerUS: float64(total) / float64(elapsed.Microseconds()+1),
	}

	if jsonOut {
		return printJSON(result)
	}
	fmt.Printf("Benchmark Results\n")
	fmt.Printf("  Operations:      %d allocate/release pairs\n", result.Ops)
	fmt.Printf("  Elapsed:         %s\n", result.Elapsed)
	fmt.Printf("  Throughput:      %.2f ops/us\n", result.OpsPerUS)
	return nil
}
