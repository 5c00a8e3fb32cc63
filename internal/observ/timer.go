// Package observ accumulates per-phase wall time for a check run.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is the running total for one phase name.
type Phase struct {
	Name  string
	Dur   time.Duration
	Count int
	Note  string
}

// Timer sums phase durations. Files checked in parallel report into the same
// Timer, so totals can exceed wall time.
type Timer struct {
	mu     sync.Mutex
	order  []string
	phases map[string]*Phase
	open   map[int]openPhase
	nextID int
}

type openPhase struct {
	name  string
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{phases: make(map[string]*Phase), open: make(map[int]openPhase)}
}

// Begin starts measuring name and returns a handle for End.
// A nil Timer returns 0.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.open[t.nextID] = openPhase{name: name, start: time.Now()}
	return t.nextID
}

// End closes the phase opened by Begin; unknown handles are ignored.
func (t *Timer) End(id int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	op, ok := t.open[id]
	delete(t.open, id)
	t.mu.Unlock()
	if ok {
		t.Record(op.name, time.Since(op.start), note)
	}
}

// Record adds an externally measured duration.
func (t *Timer) Record(name string, d time.Duration, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.phases[name]
	if !ok {
		p = &Phase{Name: name}
		t.phases[name] = p
		t.order = append(t.order, name)
	}
	p.Dur += d
	p.Count++
	if note != "" {
		p.Note = note
	}
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report lists phases in first-seen order.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.order) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, 0, len(t.order))}
	var total time.Duration
	for _, name := range t.order {
		p := t.phases[name]
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{
			Name:       p.Name,
			DurationMS: durationToMillis(p.Dur),
			Count:      p.Count,
			Note:       p.Note,
		})
	}
	r.TotalMS = durationToMillis(total)
	return r
}

// Summary renders the report as an aligned text block.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-12s %9.2f ms  x%d", p.Name, p.DurationMS, p.Count)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-12s %9.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
