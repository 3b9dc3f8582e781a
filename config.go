// Package hermetica configuration constants
package hermetica

// Memory pool parameters
const (
	// Memory alignment for allocations
	MemoryAlignment = 64

	// Minimum allocation size to prevent fragmentation
	MinAllocationSize = 64
)

// Parallel execution parameters
const (
	// Minimum number of output rows before a kernel fans out across
	// worker goroutines; below this the serial path is faster
	MinParallelRows = 64
)

// Randomized initialization bounds. Values are drawn as small integers
// so that sums of products stay exactly representable in float32 and
// float64, which keeps device and oracle results bitwise comparable
// regardless of accumulation order.
const (
	RandInitLow  = 1
	RandInitHigh = 10
)

// Default timing-driver iteration counts
const (
	DefaultColdIters = 2
	DefaultHotIters  = 10
)
