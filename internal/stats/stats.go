// Package stats provides run statistics for a files-to-prompt invocation.
// It captures walk timing, per-kind result counts, output volume and memory usage.
package stats

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Stats holds the metrics of one invocation.
type Stats struct {
	// Timing
	WalkStart time.Time
	WalkEnd   time.Time

	// Counts
	Roots        int
	Directories  int
	FilesWritten int
	DecodeErrors int
	ReadErrors   int
	Hidden       int
	Excluded     int
	RulesLoaded  int
	BytesWritten int64

	// FileReadErrors is the part of ReadErrors that came from files rather than
	// directories or ignore files.
	FileReadErrors int

	// Memory stats (captured at end)
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// New creates a new Stats instance.
func New() *Stats {
	return &Stats{}
}

// StartWalk marks the beginning of the walk over all roots.
func (s *Stats) StartWalk(roots int) {
	s.WalkStart = time.Now()
	s.Roots = roots
}

// EndWalk marks the end of the walk and captures memory stats.
func (s *Stats) EndWalk() {
	s.WalkEnd = time.Now()
	s.captureMemoryStats()
}

// captureMemoryStats reads current memory statistics from runtime.
func (s *Stats) captureMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
	s.NumGoroutine = runtime.NumGoroutine()
}

// WalkDuration returns the time spent walking and writing.
func (s *Stats) WalkDuration() time.Duration {
	if s.WalkEnd.IsZero() {
		return 0
	}
	return s.WalkEnd.Sub(s.WalkStart)
}

// FilesPerSecond returns the throughput of written files.
func (s *Stats) FilesPerSecond() float64 {
	dur := s.WalkDuration()
	if dur == 0 || s.FilesWritten == 0 {
		return 0
	}
	return float64(s.FilesWritten) / dur.Seconds()
}

// Skipped returns the number of files that were reached but produced no output block.
func (s *Stats) Skipped() int {
	return s.DecodeErrors + s.FileReadErrors
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
}

// FormatBytes formats bytes for human-readable display.
func FormatBytes(bytes uint64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// String returns a formatted string representation of the stats.
func (s *Stats) String() string {
	var b strings.Builder

	b.WriteString("\n=== Statistics ===\n\n")

	b.WriteString("Walk:\n")
	fmt.Fprintf(&b, "  Roots:           %5d\n", s.Roots)
	fmt.Fprintf(&b, "  Directories:     %5d\n", s.Directories)
	fmt.Fprintf(&b, "  Ignore rules:    %5d\n", s.RulesLoaded)
	if s.Hidden > 0 {
		fmt.Fprintf(&b, "  Hidden skipped:  %5d\n", s.Hidden)
	}
	if s.Excluded > 0 {
		fmt.Fprintf(&b, "  Excluded:        %5d\n", s.Excluded)
	}
	fmt.Fprintf(&b, "  Duration:     %8s\n", FormatDuration(s.WalkDuration()))

	b.WriteString("\nOutput:\n")
	fmt.Fprintf(&b, "  Files written:   %5d\n", s.FilesWritten)
	if s.DecodeErrors > 0 {
		fmt.Fprintf(&b, "  Not text:        %5d\n", s.DecodeErrors)
	}
	if s.ReadErrors > 0 {
		fmt.Fprintf(&b, "  Read errors:     %5d\n", s.ReadErrors)
	}
	fmt.Fprintf(&b, "  Bytes written: %8s\n", FormatBytes(uint64(max(s.BytesWritten, 0))))
	fmt.Fprintf(&b, "  Files/second:    %5.1f\n", s.FilesPerSecond())

	b.WriteString("\nMemory:\n")
	fmt.Fprintf(&b, "  Heap in use:   %8s\n", FormatBytes(s.HeapAlloc))
	fmt.Fprintf(&b, "  Total alloc:   %8s\n", FormatBytes(s.TotalAlloc))
	fmt.Fprintf(&b, "  GC cycles:     %8d\n", s.NumGC)
	fmt.Fprintf(&b, "  Goroutines:    %8d\n", s.NumGoroutine)

	return b.String()
}

// ToMap returns a map suitable for structured logging or serialization.
func (s *Stats) ToMap() map[string]any {
	return map[string]any{
		"timing": map[string]any{
			"walk_ms": s.WalkDuration().Milliseconds(),
		},
		"walk": map[string]any{
			"roots":        s.Roots,
			"directories":  s.Directories,
			"rules_loaded": s.RulesLoaded,
			"hidden":       s.Hidden,
			"excluded":     s.Excluded,
		},
		"output": map[string]any{
			"files_written":    s.FilesWritten,
			"decode_errors":    s.DecodeErrors,
			"read_errors":      s.ReadErrors,
			"skipped":          s.Skipped(),
			"bytes_written":    s.BytesWritten,
			"files_per_second": s.FilesPerSecond(),
		},
		"memory": map[string]any{
			"heap_bytes":  s.HeapAlloc,
			"total_bytes": s.TotalAlloc,
			"gc_cycles":   s.NumGC,
			"goroutines":  s.NumGoroutine,
		},
	}
}
