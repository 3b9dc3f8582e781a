// Package hermetica declarative test-case parameter model.
package hermetica

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gonum.org/v1/gonum/blas"
)

// Arguments carries every parameter a test case may consume: shapes,
// strides, scalar coefficients, mode selectors, and run-mode flags.
// Which fields are meaningful for a given case is declared by the
// kernel variant's ArgumentModel.
type Arguments struct {
	Function  string // kernel variant, e.g. "her2k_strided_batched"
	Precision byte   // 'c' (complex64) or 'z' (complex128)

	Uplo  blas.Uplo
	Trans blas.Transpose

	N, K int
	Lda  int
	Ldb  int
	Ldc  int
	IncX int

	Alpha complex128
	Beta  complex128

	// StrideScale inflates the inter-batch stride of strided-batched
	// buffers beyond the minimal packed layout; the padding it creates
	// is never referenced by kernels or checks.
	StrideScale float64
	BatchCount  int

	UnitCheck bool
	NormCheck bool
	Timing    bool

	ColdIters int
	HotIters  int

	Seed int64
}

// DefaultArguments returns Arguments with the fields that have a
// meaningful zero-independent default filled in.
func DefaultArguments() Arguments {
	return Arguments{
		Precision:   'z',
		Uplo:        blas.Upper,
		Trans:       blas.NoTrans,
		IncX:        1,
		Alpha:       1,
		Beta:        0,
		StrideScale: 1,
		BatchCount:  1,
		ColdIters:   DefaultColdIters,
		HotIters:    DefaultHotIters,
		Seed:        1,
	}
}

// UploChar encodes the fill mode as the conventional single letter.
func (a Arguments) UploChar() string {
	if a.Uplo == blas.Lower {
		return "L"
	}
	return "U"
}

// TransChar encodes the transpose mode as the conventional letter.
func (a Arguments) TransChar() string {
	if a.Trans == blas.ConjTrans {
		return "C"
	}
	return "N"
}

// Stride returns a strided-batched stride of at least minimal elements,
// inflated by StrideScale.
func (a Arguments) Stride(minimal int) int {
	scale := a.StrideScale
	if scale < 1 {
		scale = 1
	}
	return int(float64(minimal) * scale)
}

func formatScalar(v complex128) string {
	if imag(v) == 0 {
		return fmt.Sprintf("%g", real(v))
	}
	return fmt.Sprintf("(%g,%g)", real(v), imag(v))
}

// ArgumentModel is the ordered list of parameter names relevant to one
// kernel variant. It drives both test-case naming and result logging.
type ArgumentModel []string

// Per-variant models, in the declaration order the case names use.
var (
	HerModel                 = ArgumentModel{"uplo", "N", "alpha", "incx", "lda"}
	HerBatchedModel          = ArgumentModel{"uplo", "N", "alpha", "incx", "lda", "batch_count"}
	HprModel                 = ArgumentModel{"uplo", "N", "alpha", "incx"}
	HerkModel                = ArgumentModel{"uplo", "transA", "N", "K", "alpha", "lda", "beta", "ldc"}
	Her2kModel               = ArgumentModel{"uplo", "transA", "N", "K", "alpha", "lda", "ldb", "beta", "ldc"}
	Her2kStridedBatchedModel = ArgumentModel{"uplo", "transA", "N", "K", "alpha", "lda", "ldb", "beta", "ldc", "stride_scale", "batch_count"}
)

// value renders one named parameter. The second return is false for
// names absent from the argument set; callers skip those silently, as
// an unknown name is a model configuration mistake rather than a
// runtime condition.
func (a Arguments) value(name string) (string, bool) {
	switch name {
	case "uplo":
		return a.UploChar(), true
	case "transA":
		return a.TransChar(), true
	case "N":
		return fmt.Sprintf("%d", a.N), true
	case "K":
		return fmt.Sprintf("%d", a.K), true
	case "alpha":
		return formatScalar(a.Alpha), true
	case "beta":
		return formatScalar(a.Beta), true
	case "lda":
		return fmt.Sprintf("%d", a.Lda), true
	case "ldb":
		return fmt.Sprintf("%d", a.Ldb), true
	case "ldc":
		return fmt.Sprintf("%d", a.Ldc), true
	case "incx":
		return fmt.Sprintf("%d", a.IncX), true
	case "stride_scale":
		return fmt.Sprintf("%g", a.StrideScale), true
	case "batch_count":
		return fmt.Sprintf("%d", a.BatchCount), true
	default:
		return "", false
	}
}

// TestName produces the canonical case name: precision, function, then
// each declared parameter value in model order.
func (m ArgumentModel) TestName(a Arguments) string {
	parts := []string{string(a.Precision) + "_" + a.Function}
	for _, name := range m {
		if v, ok := a.value(name); ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "_")
}

// Metrics are the runtime-measured values a timing run attaches to a
// log record.
type Metrics struct {
	Time      time.Duration
	Gflops    float64
	Gbytes    float64
	ErrHost   float64
	ErrDevice float64
	HasErrors bool // whether the error scores were measured
}

// GflopsPerSec derives throughput from the analytic FLOP model.
func (p Metrics) GflopsPerSec() float64 {
	s := p.Time.Seconds()
	if s == 0 {
		return 0
	}
	return p.Gflops / s
}

// GbytesPerSec derives bandwidth from the analytic byte model.
func (p Metrics) GbytesPerSec() float64 {
	s := p.Time.Seconds()
	if s == 0 {
		return 0
	}
	return p.Gbytes / s
}

// Header returns the column names of a log record: the declared
// parameters followed by the measured metrics.
func (m ArgumentModel) Header(withErrors bool) []string {
	h := make([]string, 0, len(m)+4)
	h = append(h, m...)
	h = append(h, "us", "gflops", "GB/s")
	if withErrors {
		h = append(h, "norm_error_host_ptr", "norm_error_device_ptr")
	}
	return h
}

// Row renders one log record in the same order as Header.
func (m ArgumentModel) Row(a Arguments, p Metrics) []string {
	row := make([]string, 0, len(m)+4)
	for _, name := range m {
		if v, ok := a.value(name); ok {
			row = append(row, v)
		} else {
			row = append(row, "")
		}
	}
	row = append(row,
		fmt.Sprintf("%.1f", float64(p.Time.Microseconds())),
		fmt.Sprintf("%.4g", p.GflopsPerSec()),
		fmt.Sprintf("%.4g", p.GbytesPerSec()),
	)
	if p.HasErrors {
		row = append(row, fmt.Sprintf("%.3e", p.ErrHost), fmt.Sprintf("%.3e", p.ErrDevice))
	}
	return row
}

// LogArgs writes one comma-separated record line, the plain-text
// counterpart of the table output.
func (m ArgumentModel) LogArgs(w io.Writer, a Arguments, p Metrics) {
	header := m.Header(p.HasErrors)
	row := m.Row(a, p)
	fmt.Fprintf(w, "%s\n%s\n", strings.Join(header, ","), strings.Join(row, ","))
}
