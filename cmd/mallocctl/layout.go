package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/orion-starship/cs4410-malloc"
)

var (
	layoutAllocations int
	layoutMaxSize     int
	layoutSeed        int64
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().IntVar(&layoutAllocations, "allocations", 20, "number of allocations to scatter across the heap")
	cmd.Flags().IntVar(&layoutMaxSize, "max-size", 512, "maximum payload size per allocation, in bytes")
	cmd.Flags().Int64Var(&layoutSeed, "seed", 1, "random seed for the synthetic workload")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print every chunk in address order, used and free alike",
		Long: `layout allocates a handful of chunks, releases every third one, and
walks the resulting heap from the low sentinel to the high sentinel,
printing each chunk's address, size, and used/free state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
}

func runLayout() error {
	a := malloc.NewAllocator(0)
	defer a.Close()

	rng := rand.New(rand.NewSource(layoutSeed))
	var live []malloc.PayloadHandle
	for i := 0; i < layoutAllocations; i++ {
		n := rng.Intn(layoutMaxSize) + 1
		p, err := a.Allocate(n)
		if err != nil {
			return fmt.Errorf("allocate %d bytes: %w", n, err)
		}
		if i%3 == 0 {
			a.Release(p)
			continue
		}
		live = append(live, p)
	}

	var chunks []malloc.ChunkInfo
	a.WalkChunks(func(c malloc.ChunkInfo) bool {
		chunks = append(chunks, c)
		return true
	})

	if jsonOut {
		return printJSON(chunks)
	}
	for _, c := range chunks {
		state := "free"
		if c.Used {
			state = "used"
		}
		fmt.Printf("  %#016x  %8d bytes  %s\n", c.Addr, c.Size, state)
	}
	return nil
}
