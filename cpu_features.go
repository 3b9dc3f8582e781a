package hermetica

import (
	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks the instruction set extensions available on the
// host CPU backing the emulated device.
type CPUFeatures struct {
	HasSSE4   bool
	HasAVX    bool
	HasAVX2   bool
	HasAVX512 bool
	HasFMA    bool
	HasNEON   bool
}

// Detected as a package variable so feature state is ready before any
// init function runs.
var cpuFeatures = detectCPUFeatures()

func detectCPUFeatures() CPUFeatures {
	return CPUFeatures{
		HasSSE4:   cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:    cpu.X86.HasAVX,
		HasAVX2:   cpu.X86.HasAVX2,
		HasAVX512: cpu.X86.HasAVX512F,
		HasFMA:    cpu.X86.HasFMA,
		HasNEON:   cpu.ARM64.HasASIMD,
	}
}

// DetectedFeatures returns the host CPU feature set.
func DetectedFeatures() CPUFeatures {
	return cpuFeatures
}

// SIMDLevel names the widest vector extension the host supports. It is
// reported in the device name and in benchmark session metadata so
// recorded throughput numbers can be compared across machines.
func SIMDLevel() string {
	switch {
	case cpuFeatures.HasAVX512:
		return "AVX512"
	case cpuFeatures.HasAVX2 && cpuFeatures.HasFMA:
		return "AVX2"
	case cpuFeatures.HasAVX:
		return "AVX"
	case cpuFeatures.HasSSE4:
		return "SSE4"
	case cpuFeatures.HasNEON:
		return "NEON"
	default:
		return "scalar"
	}
}
