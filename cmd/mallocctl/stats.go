package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/orion-starship/cs4410-malloc"
)

var (
	statsAllocations int
	statsMaxSize     int
	statsGrowthHint  int
	statsSeed        int64
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().IntVar(&statsAllocations, "allocations", 256, "number of allocations to perform before reporting")
	cmd.Flags().IntVar(&statsMaxSize, "max-size", 4096, "maximum payload size per allocation, in bytes")
	cmd.Flags().IntVar(&statsGrowthHint, "growth-hint", 0, "heap growth floor, in bytes (0 uses the package default)")
	cmd.Flags().Int64Var(&statsSeed, "seed", 1, "random seed for the synthetic workload")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Run a synthetic allocation workload and report heap statistics",
		Long: `stats allocates and randomly releases a batch of chunks, then prints
a snapshot of heap usage: bytes used, bytes free, chunk counts, and
utilization.

Example:
  mallocctl stats --allocations 1000 --max-size 256
  mallocctl stats --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	a := malloc.NewAllocator(statsGrowthHint)
	defer a.Close()

	rng := rand.New(rand.NewSource(statsSeed))
	var live []malloc.PayloadHandle
	for i := 0; i < statsAllocations; i++ {
		n := rng.Intn(statsMaxSize) + 1
		p, err := a.Allocate(n)
		if err != nil {
			return fmt.Errorf("allocate %d bytes: %w", n, err)
		}
		live = append(live, p)

		// With probability one in three, release one randomly chosen
		// outstanding allocation, to exercise coalescing alongside growth.
		if len(live) > 2 && rng.Intn(3) == 0 {
			idx := rng.Intn(len(live))
			a.Release(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	stats := a.Stats()
	if jsonOut {
		return printJSON(stats)
	}

	fmt.Printf("Heap Statistics\n")
	fmt.Printf("  Capacity:        %d bytes\n", stats.Capacity)
	fmt.Printf("  Used:            %d bytes\n", stats.BytesUsed)
	fmt.Printf("  Free:            %d bytes\n", stats.BytesFree)
	fmt.Printf("  Chunks:          %d (%d free)\n", stats.ChunkCount, stats.FreeChunkCount)
	fmt.Printf("  Utilization:     %.1f%%\n", stats.Utilization*100)
	return nil
}
