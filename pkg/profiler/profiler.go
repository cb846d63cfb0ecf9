package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Profiler records durations of named evaluation phases
type Profiler struct {
	mu    sync.Mutex
	order []string
	times map[string][]time.Duration
}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{
		times: make(map[string][]time.Duration),
	}
}

// Timer measures one phase
type Timer struct {
	profiler *Profiler
	name     string
	start    time.Time
}

// Start begins timing a phase. A nil profiler returns a timer that records
// nothing, so callers need not check whether profiling is on.
func (p *Profiler) Start(name string) *Timer {
	return &Timer{
		profiler: p,
		name:     name,
		start:    time.Now(),
	}
}

// Stop records and returns the elapsed time
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.start)
	if t.profiler != nil {
		t.profiler.Record(t.name, d)
	}
	return d
}

// Record adds a duration for name
func (p *Profiler) Record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.times[name]; !ok {
		p.order = append(p.order, name)
	}
	p.times[name] = append(p.times[name], d)
}

// Stats summarises the durations of one phase
type Stats struct {
	Name    string
	Count   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
}

// GetStats returns statistics for a phase
func (p *Profiler) GetStats(name string) *Stats {
	p.mu.Lock()
	times := append([]time.Duration(nil), p.times[name]...)
	p.mu.Unlock()

	if len(times) == 0 {
		return &Stats{Name: name}
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	var total time.Duration
	for _, t := range times {
		total += t
	}

	return &Stats{
		Name:    name,
		Count:   len(times),
		Total:   total,
		Average: total / time.Duration(len(times)),
		Min:     times[0],
		Max:     times[len(times)-1],
	}
}

// GetAllStats returns statistics for every phase in first-recorded order
func (p *Profiler) GetAllStats() []*Stats {
	p.mu.Lock()
	names := append([]string(nil), p.order...)
	p.mu.Unlock()

	stats := make([]*Stats, 0, len(names))
	for _, name := range names {
		stats = append(stats, p.GetStats(name))
	}
	return stats
}

// PrintReport writes a timing table
func (p *Profiler) PrintReport(w io.Writer) {
	stats := p.GetAllStats()
	if len(stats) == 0 {
		fmt.Fprintln(w, "No timing data available")
		return
	}

	fmt.Fprintf(w, "⏱️  Phase Timings\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%-20s %6s %10s %10s %10s\n", "Phase", "Count", "Total", "Avg", "Max")
	for _, s := range stats {
		fmt.Fprintf(w, "%-20s %6d %10s %10s %10s\n",
			truncate(s.Name, 20), s.Count,
			formatDuration(s.Total), formatDuration(s.Average), formatDuration(s.Max))
	}
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
