// Package journal records what the player has done: a bounded action
// log for pattern analysis and per-captain encounter memory.
package journal

import (
	"sort"
)

// ActionKind is a bitmask of what happened in a single action. Kinds
// combine: a boarding that killed crew carries both bits.
type ActionKind int

const (
	ActionScan ActionKind = 1 << iota
	ActionDisable
	ActionBoard
	ActionCapture
	ActionDestroy
	ActionAssist
	ActionProvoke
	ActionAtrocity
	ActionTrade
	ActionSmuggle
)

// MaxActionHistory bounds the retained log; the oldest record is
// evicted first.
const MaxActionHistory = 1000

// ActionRecord is one logged action.
type ActionRecord struct {
	Day            int        `json:"day"`
	Kind           ActionKind `json:"kind"`
	TargetFaction  string     `json:"target_faction"`
	System         string     `json:"system"`
	CrewKilled     int        `json:"crew_killed"`
	ValueDestroyed int64      `json:"value_destroyed"`
	Witnessed      bool       `json:"witnessed"`
}

// Is reports whether the record carries the given kind bit.
func (r ActionRecord) Is(kind ActionKind) bool {
	return r.Kind&kind != 0
}

// BehaviorPattern classifies the player's overall conduct.
type BehaviorPattern int

const (
	PatternUnknown BehaviorPattern = iota
	PatternTrader
	PatternPirate
	PatternBountyHunter
	PatternProtector
	PatternWarmonger
	PatternSaboteur
)

var patternNames = map[BehaviorPattern]string{
	PatternUnknown:      "unknown",
	PatternTrader:       "trader",
	PatternPirate:       "pirate",
	PatternBountyHunter: "bounty hunter",
	PatternProtector:    "protector",
	PatternWarmonger:    "warmonger",
	PatternSaboteur:     "saboteur",
}

func (p BehaviorPattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return "unknown"
}

// ActionLog is the bounded record of player actions.
type ActionLog struct {
	records []ActionRecord
}

// NewActionLog creates an empty log.
func NewActionLog() *ActionLog {
	return &ActionLog{}
}

// Record appends an action, evicting the oldest past the cap.
func (l *ActionLog) Record(r ActionRecord) {
	l.records = append(l.records, r)
	if len(l.records) > MaxActionHistory {
		l.records = l.records[1:]
	}
}

// Len returns the number of retained records.
func (l *ActionLog) Len() int {
	return len(l.records)
}

// All returns the retained records, oldest first.
func (l *ActionLog) All() []ActionRecord {
	return l.records
}

// Since returns records from the trailing window of days ending at
// day, oldest first.
func (l *ActionLog) Since(day, days int) []ActionRecord {
	cutoff := day - days
	var out []ActionRecord
	for _, r := range l.records {
		if r.Day > cutoff {
			out = append(out, r)
		}
	}
	return out
}

// AgainstFaction returns records targeting the given faction, oldest
// first.
func (l *ActionLog) AgainstFaction(faction string) []ActionRecord {
	var out []ActionRecord
	for _, r := range l.records {
		if r.TargetFaction == faction {
			out = append(out, r)
		}
	}
	return out
}

// HostilityScore sums the severity of hostile actions against a
// faction. Witnessed acts weigh heavier than rumors.
func (l *ActionLog) HostilityScore(faction string) float64 {
	score := 0.0
	for _, r := range l.records {
		if r.TargetFaction != faction {
			continue
		}
		s := 0.0
		if r.Is(ActionProvoke) {
			s += 0.1
		}
		if r.Is(ActionDisable) {
			s += 0.3
		}
		if r.Is(ActionDestroy) {
			s += 1.0
		}
		s += float64(r.CrewKilled) * 0.02
		s += float64(r.ValueDestroyed) * 0.00001
		if r.Witnessed {
			s *= 1.2
		}
		score += s
	}
	return score
}

// HasEscalation reports whether hostility against a faction is
// accelerating: the log is split into thirds by time and each third
// must be more hostile than the last.
func (l *ActionLog) HasEscalation(faction string) bool {
	against := l.AgainstFaction(faction)
	if len(against) < 3 {
		return false
	}

	first := against[0].Day
	last := against[len(against)-1].Day
	span := last - first
	if span <= 0 {
		return false
	}

	var counts [3]int
	for _, r := range against {
		third := (r.Day - first) * 3 / (span + 1)
		if third > 2 {
			third = 2
		}
		counts[third]++
	}
	return counts[2] > counts[1] && counts[1] > counts[0] && counts[0] > 0
}

// DistinctTargets returns the sorted factions the player has acted
// against.
func (l *ActionLog) DistinctTargets() []string {
	seen := make(map[string]bool)
	for _, r := range l.records {
		if r.TargetFaction != "" {
			seen[r.TargetFaction] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WitnessedRatio returns the fraction of logged actions that were
// witnessed, or 0 for an empty log.
func (l *ActionLog) WitnessedRatio() float64 {
	if len(l.records) == 0 {
		return 0
	}
	witnessed := 0
	for _, r := range l.records {
		if r.Witnessed {
			witnessed++
		}
	}
	return float64(witnessed) / float64(len(l.records))
}

// Pattern classifies the player's recent conduct from the trailing 60
// days of the log.
func (l *ActionLog) Pattern(day int) BehaviorPattern {
	recent := l.Since(day, 60)
	if len(recent) == 0 {
		return PatternUnknown
	}

	var trades, destroys, disables, assists, boards, atrocities int
	targets := make(map[string]bool)
	for _, r := range recent {
		if r.Is(ActionTrade) || r.Is(ActionSmuggle) {
			trades++
		}
		if r.Is(ActionDestroy) {
			destroys++
			targets[r.TargetFaction] = true
		}
		if r.Is(ActionDisable) {
			disables++
		}
		if r.Is(ActionAssist) {
			assists++
		}
		if r.Is(ActionBoard) {
			boards++
		}
		if r.Is(ActionAtrocity) {
			atrocities++
		}
	}

	switch {
	case atrocities > 0 && destroys >= 5:
		return PatternWarmonger
	case boards >= 3 && destroys >= 3:
		return PatternPirate
	case disables >= 3 && l.WitnessedRatio() < 0.3:
		return PatternSaboteur
	case destroys >= 5 && len(targets) == 1:
		return PatternBountyHunter
	case assists > destroys && assists >= 3:
		return PatternProtector
	case trades > destroys*2 && trades >= 5:
		return PatternTrader
	}
	return PatternUnknown
}

// Clear drops every record.
func (l *ActionLog) Clear() {
	l.records = nil
}

// Restore replaces the log contents, for loading saved state.
func (l *ActionLog) Restore(records []ActionRecord) {
	l.records = records
	if len(l.records) > MaxActionHistory {
		l.records = l.records[len(l.records)-MaxActionHistory:]
	}
}
