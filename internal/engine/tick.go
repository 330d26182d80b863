// Package engine provides the tick-based simulation loop.
package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// TickSchedule defines when each layer runs relative to the tick
// counter. A tick is one sim-minute; pending witness reports count
// down per tick while reputation decay and economic recovery run
// daily.
const (
	TicksPerSimHour = 60    // 60 ticks = 1 sim-hour
	TicksPerSimDay  = 1440  // 24 hours × 60
	TicksPerSimWeek = 10080 // 7 days × 1440
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 1 second)
	Running  bool

	// Callbacks for each tick layer, populated during setup.
	OnTick func(tick uint64) // Every tick (sim-minute)
	OnHour func(tick uint64) // Every 60 ticks
	OnDay  func(tick uint64) // Every 1440 ticks
	OnWeek func(tick uint64) // Every 10080 ticks
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Tick:     0,
		Speed:    1.0,
		Interval: time.Second,
		Running:  false,
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused. Sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}

// Step advances the simulation by one tick. Exposed so headless runs
// and tests can drive the clock without the real-time loop.
func (e *Engine) Step() {
	e.Tick++

	// Every tick: report countdowns, fast bookkeeping.
	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}

	// Every sim-hour: autosave checkpoints.
	if e.Tick%TicksPerSimHour == 0 && e.OnHour != nil {
		e.OnHour(e.Tick)
	}

	// Every sim-day: reputation decay, economic recovery, news.
	if e.Tick%TicksPerSimDay == 0 && e.OnDay != nil {
		e.OnDay(e.Tick)
	}

	// Every sim-week: summaries, event trimming.
	if e.Tick%TicksPerSimWeek == 0 && e.OnWeek != nil {
		e.OnWeek(e.Tick)
	}
}

// SimDay returns the simulation day number for a tick.
func SimDay(tick uint64) int {
	return int(tick / TicksPerSimDay)
}

// SimTime returns a human-readable simulation time string from a tick
// number.
func SimTime(tick uint64) string {
	minutes := tick % 60
	totalHours := tick / 60
	hours := totalHours % 24
	totalDays := totalHours / 24
	days := totalDays%365 + 1
	years := totalDays/365 + 1

	return fmt.Sprintf("Year %d, Day %d, %d:%02d", years, days, hours, minutes)
}
