// Command mallocctl drives the malloc package's allocator from the
// command line for ad hoc inspection and benchmarking.
package main

func main() {
	execute()
}
