package witness

import (
	"log/slog"

	"github.com/google/uuid"
)

// ReportDelayTicks is how long a sighting takes to reach faction
// authorities. Until it matures the report can still be suppressed by
// eliminating every witness.
const ReportDelayTicks = 60

// Report is a pending account of a hostile act, in transit to the
// reporting faction.
type Report struct {
	ReportingFaction string      `json:"reporting_faction"`
	VictimFaction    string      `json:"victim_faction"`
	Kind             int         `json:"kind"` // journal event bitmask value
	TicksRemaining   int         `json:"ticks_remaining"`
	System           string      `json:"system"`
	Impact           float64     `json:"impact"` // reputation change on arrival
	Suppressible     bool        `json:"suppressible"`
	Witnesses        []uuid.UUID `json:"witnesses,omitempty"`
}

// Step advances the countdown by one tick. Returns true once matured.
func (r *Report) Step() bool {
	if r.TicksRemaining > 0 {
		r.TicksRemaining--
	}
	return r.TicksRemaining <= 0
}

// EliminateWitness removes a witness from the report. Returns true if
// the witness was attached.
func (r *Report) EliminateWitness(id uuid.UUID) bool {
	for i, w := range r.Witnesses {
		if w == id {
			r.Witnesses = append(r.Witnesses[:i], r.Witnesses[i+1:]...)
			return true
		}
	}
	return false
}

// AllWitnessesEliminated reports whether no witnesses remain; a
// non-suppressible report has already transmitted and cannot be
// silenced regardless.
func (r *Report) AllWitnessesEliminated() bool {
	return r.Suppressible && len(r.Witnesses) == 0
}

// Queue holds in-transit reports. Not safe for concurrent use; the
// simulation owns it on a single goroutine.
type Queue struct {
	pending []Report
}

// NewQueue creates an empty report queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push enqueues a report with the default delay when TicksRemaining is
// unset.
func (q *Queue) Push(r Report) {
	if r.TicksRemaining <= 0 {
		r.TicksRemaining = ReportDelayTicks
	}
	q.pending = append(q.pending, r)
}

// Len returns the number of pending reports.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Pending returns a copy of the in-transit reports, oldest first.
func (q *Queue) Pending() []Report {
	out := make([]Report, len(q.pending))
	copy(out, q.pending)
	return out
}

// Step advances every pending report one tick and returns those that
// matured, oldest first. Suppressed reports are discarded before the
// countdown runs, so a report silenced on its final tick never lands.
func (q *Queue) Step() []Report {
	kept := q.pending[:0]
	for _, r := range q.pending {
		if r.AllWitnessesEliminated() {
			slog.Debug("report suppressed",
				"faction", r.ReportingFaction,
				"system", r.System)
			continue
		}
		kept = append(kept, r)
	}
	q.pending = kept

	var matured []Report
	kept = q.pending[:0]
	for _, r := range q.pending {
		if r.Step() {
			matured = append(matured, r)
			continue
		}
		kept = append(kept, r)
	}
	q.pending = kept
	return matured
}

// NotifyDestroyed strips a destroyed ship from every pending report's
// witness list.
func (q *Queue) NotifyDestroyed(id uuid.UUID) {
	for i := range q.pending {
		q.pending[i].EliminateWitness(id)
	}
}

// Clear drops every pending report.
func (q *Queue) Clear() {
	q.pending = nil
}
