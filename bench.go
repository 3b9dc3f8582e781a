// Package hermetica timing driver and analytic throughput models.
package hermetica

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// BenchConfig holds the iteration counts of a timing run.
type BenchConfig struct {
	ColdIters int // warm-up iterations, excluded from the timed window
	HotIters  int // measured iterations
}

// DefaultBenchConfig returns the standard cold/hot iteration counts.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{ColdIters: DefaultColdIters, HotIters: DefaultHotIters}
}

// RunTimed executes fn ColdIters+HotIters times and returns the elapsed
// device time of the hot window only: the timer starts after the last
// warm-up invocation has drained from the context's streams and stops
// after the last measured invocation completes. Any error from fn
// aborts the run immediately.
func RunTimed(ctx *Context, cfg BenchConfig, fn func() error) (time.Duration, error) {
	if cfg.HotIters < 1 {
		return 0, NewInvalidValueError("RunTimed", "HotIters must be at least 1")
	}
	runs := cfg.ColdIters + cfg.HotIters
	var start time.Time
	for iter := 0; iter < runs; iter++ {
		if iter == cfg.ColdIters {
			ctx.Synchronize()
			start = time.Now()
		}
		if err := fn(); err != nil {
			return 0, err
		}
	}
	ctx.Synchronize()
	return time.Since(start), nil
}

// Analytic operation and traffic models. FLOP counts are for the
// complex update of one problem instance; batched drivers multiply by
// the batch count. Byte counts take the element size so both
// precisions share one model.

// HerGflopCount models a Hermitian rank-1 update: 8 real FLOPs per
// stored triangle element.
func HerGflopCount(n int) float64 {
	return 4 * float64(n) * float64(n+1) / 1e9
}

// HprGflopCount models the packed rank-1 update; the arithmetic is the
// same as the unpacked form.
func HprGflopCount(n int) float64 {
	return HerGflopCount(n)
}

// HerkGflopCount models a Hermitian rank-k update: a length-k complex
// dot product per stored triangle element.
func HerkGflopCount(n, k int) float64 {
	return 4 * float64(n) * float64(n+1) * float64(k) / 1e9
}

// Her2kGflopCount models the rank-2k update: twice the rank-k work.
func Her2kGflopCount(n, k int) float64 {
	return 2 * HerkGflopCount(n, k)
}

// HerGbyteCount models the memory traffic of a rank-1 update: the
// triangle is read and written, the vector read once.
func HerGbyteCount(n, elemSize int) float64 {
	return float64(elemSize) * (float64(n)*float64(n+1) + float64(n)) / 1e9
}

// HprGbyteCount models the packed rank-1 traffic; identical to the
// unpacked triangle.
func HprGbyteCount(n, elemSize int) float64 {
	return HerGbyteCount(n, elemSize)
}

// HerkGbyteCount models rank-k traffic: triangle read+write plus one
// pass over A.
func HerkGbyteCount(n, k, elemSize int) float64 {
	return float64(elemSize) * (float64(n)*float64(n+1) + float64(n)*float64(k)) / 1e9
}

// Her2kGbyteCount models rank-2k traffic: triangle read+write plus one
// pass over A and B each.
func Her2kGbyteCount(n, k, elemSize int) float64 {
	return float64(elemSize) * (float64(n)*float64(n+1) + 2*float64(n)*float64(k)) / 1e9
}

// BenchResult captures the outcome of a single benchmarked test case.
type BenchResult struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"` // "pass" or "fail"
	TimeUs    float64   `json:"time_us,omitempty"`
	Gflops    float64   `json:"gflops,omitempty"`
	GbytesSec float64   `json:"gb_per_sec,omitempty"`
	ErrHost   float64   `json:"norm_error_host_ptr,omitempty"`
	ErrDevice float64   `json:"norm_error_device_ptr,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// BenchLogger manages logging of benchmark results to file
type BenchLogger struct {
	mu          sync.Mutex
	results     []BenchResult
	logDir      string
	sessionFile string
}

var globalBenchLogger = &BenchLogger{
	logDir: "bench_logs",
}

// InitBenchLogger initializes the logger for a new benchmark session
func InitBenchLogger(sessionName string) error {
	globalBenchLogger.mu.Lock()
	defer globalBenchLogger.mu.Unlock()

	if err := os.MkdirAll(globalBenchLogger.logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	globalBenchLogger.sessionFile = filepath.Join(globalBenchLogger.logDir,
		fmt.Sprintf("%s_%s.json", sessionName, timestamp))

	// Reset results for new session
	globalBenchLogger.results = nil

	return globalBenchLogger.flush()
}

// LogBenchResult logs a single benchmark result
func LogBenchResult(result BenchResult) {
	globalBenchLogger.mu.Lock()
	defer globalBenchLogger.mu.Unlock()

	result.Timestamp = time.Now()
	globalBenchLogger.results = append(globalBenchLogger.results, result)

	// Flush to disk immediately to avoid losing data on crash
	globalBenchLogger.flush()
}

func (l *BenchLogger) flush() error {
	if l.sessionFile == "" {
		return nil
	}
	data, err := json.MarshalIndent(l.results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.sessionFile, data, 0644)
}
