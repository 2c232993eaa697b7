package malloc_test

import (
	"fmt"

	malloc "github.com/orion-starship/cs4410-malloc"
)

func Example() {
	a := malloc.NewAllocator(0)
	defer a.Close()

	p, err := a.Allocate(128)
	if err != nil {
		fmt.Println("allocation failed:", err)
		return
	}
	defer a.Release(p)

	fmt.Println("allocated")
	// Output: allocated
}

// ExampleAllocator_Stats demonstrates introspection but is not run as
// a doctest: addresses and byte counts vary across platforms.
func ExampleAllocator_Stats() {
	a := malloc.NewAllocator(0)
	defer a.Close()

	p, _ := a.Allocate(64)
	defer a.Release(p)

	stats := a.Stats()
	fmt.Printf("used=%d free=%d utilization=%.2f\n", stats.BytesUsed, stats.BytesFree, stats.Utilization)
}
