package journal

import (
	"math"
	"testing"
)

func TestHostilityScoreWeights(t *testing.T) {
	l := NewActionLog()
	l.Record(ActionRecord{Day: 1, Kind: ActionDestroy, TargetFaction: "republic", CrewKilled: 10})
	l.Record(ActionRecord{Day: 2, Kind: ActionDisable, TargetFaction: "republic"})
	l.Record(ActionRecord{Day: 3, Kind: ActionDestroy, TargetFaction: "pirates"})

	// 1.0 + 10*0.02 for the kill, plus 0.3 for the disable.
	want := 1.2 + 0.3
	if got := l.HostilityScore("republic"); math.Abs(got-want) > 1e-9 {
		t.Errorf("hostility vs republic = %v, want %v", got, want)
	}
	if got := l.HostilityScore("pirates"); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("hostility vs pirates = %v, want 1.0", got)
	}
}

func TestWitnessedActsWeighHeavier(t *testing.T) {
	l := NewActionLog()
	l.Record(ActionRecord{Day: 1, Kind: ActionDestroy, TargetFaction: "republic", Witnessed: true})

	if got := l.HostilityScore("republic"); math.Abs(got-1.2) > 1e-9 {
		t.Errorf("witnessed destroy score = %v, want 1.2", got)
	}
}

func TestHasEscalation(t *testing.T) {
	l := NewActionLog()
	// One early act, two in the middle, three recent: accelerating.
	l.Record(ActionRecord{Day: 1, Kind: ActionProvoke, TargetFaction: "republic"})
	l.Record(ActionRecord{Day: 40, Kind: ActionProvoke, TargetFaction: "republic"})
	l.Record(ActionRecord{Day: 45, Kind: ActionProvoke, TargetFaction: "republic"})
	l.Record(ActionRecord{Day: 80, Kind: ActionProvoke, TargetFaction: "republic"})
	l.Record(ActionRecord{Day: 85, Kind: ActionProvoke, TargetFaction: "republic"})
	l.Record(ActionRecord{Day: 90, Kind: ActionProvoke, TargetFaction: "republic"})

	if !l.HasEscalation("republic") {
		t.Error("accelerating hostility not detected")
	}
	if l.HasEscalation("pirates") {
		t.Error("escalation against an untouched faction")
	}
}

func TestNoEscalationWhenSteady(t *testing.T) {
	l := NewActionLog()
	for day := 10; day <= 90; day += 10 {
		l.Record(ActionRecord{Day: day, Kind: ActionProvoke, TargetFaction: "republic"})
	}
	if l.HasEscalation("republic") {
		t.Error("steady hostility flagged as escalation")
	}
}

func TestSinceWindow(t *testing.T) {
	l := NewActionLog()
	l.Record(ActionRecord{Day: 10, Kind: ActionTrade})
	l.Record(ActionRecord{Day: 50, Kind: ActionTrade})
	l.Record(ActionRecord{Day: 90, Kind: ActionTrade})

	if got := len(l.Since(90, 60)); got != 2 {
		t.Errorf("records in trailing 60 days = %d, want 2", got)
	}
}

func TestHistoryCapped(t *testing.T) {
	l := NewActionLog()
	for i := 0; i < MaxActionHistory+10; i++ {
		l.Record(ActionRecord{Day: i, Kind: ActionScan})
	}
	if l.Len() != MaxActionHistory {
		t.Errorf("log length = %d, want %d", l.Len(), MaxActionHistory)
	}
	// Oldest evicted first.
	if l.All()[0].Day != 10 {
		t.Errorf("oldest retained day = %d, want 10", l.All()[0].Day)
	}
}

func TestPatternTrader(t *testing.T) {
	l := NewActionLog()
	for i := 0; i < 8; i++ {
		l.Record(ActionRecord{Day: 50 + i, Kind: ActionTrade})
	}
	if got := l.Pattern(60); got != PatternTrader {
		t.Errorf("pattern = %s, want trader", got)
	}
}

func TestPatternPirate(t *testing.T) {
	l := NewActionLog()
	for i := 0; i < 4; i++ {
		l.Record(ActionRecord{Day: 50 + i, Kind: ActionBoard | ActionDestroy, TargetFaction: "merchants"})
	}
	if got := l.Pattern(60); got != PatternPirate {
		t.Errorf("pattern = %s, want pirate", got)
	}
}

func TestPatternUnknownWhenQuiet(t *testing.T) {
	l := NewActionLog()
	if got := l.Pattern(60); got != PatternUnknown {
		t.Errorf("pattern = %s, want unknown", got)
	}

	// Old actions outside the window do not count.
	l.Record(ActionRecord{Day: 1, Kind: ActionDestroy})
	if got := l.Pattern(100); got != PatternUnknown {
		t.Errorf("pattern with stale history = %s, want unknown", got)
	}
}

func TestDistinctTargetsAndWitnessedRatio(t *testing.T) {
	l := NewActionLog()
	l.Record(ActionRecord{Day: 1, Kind: ActionDestroy, TargetFaction: "republic", Witnessed: true})
	l.Record(ActionRecord{Day: 2, Kind: ActionDestroy, TargetFaction: "pirates"})
	l.Record(ActionRecord{Day: 3, Kind: ActionDestroy, TargetFaction: "republic"})

	targets := l.DistinctTargets()
	if len(targets) != 2 || targets[0] != "pirates" || targets[1] != "republic" {
		t.Errorf("targets = %v", targets)
	}
	if got := l.WitnessedRatio(); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("witnessed ratio = %v, want 1/3", got)
	}
}
