package reputation

import (
	"math"
	"testing"
)

type stubLedger map[string]float64

func (l stubLedger) Standing(faction string) (float64, bool) {
	v, ok := l[faction]
	return v, ok
}

func (l stubLedger) SetStanding(faction string, v float64) {
	l[faction] = v
}

func TestStepDailyDecaysPositiveStanding(t *testing.T) {
	m := NewManager()
	ledger := stubLedger{"republic": 20}

	m.RecordChange(ledger, "republic", 1, 20, "delivered relief", false, true)
	m.StepDaily(2, ledger)

	got := ledger["republic"]
	if got >= 20 {
		t.Fatalf("standing did not decay: %v", got)
	}
	if got < 19.9 {
		t.Fatalf("standing decayed too fast in one day: %v", got)
	}
}

func TestStepDailyRecoversNegativeStanding(t *testing.T) {
	m := NewManager()
	ledger := stubLedger{"syndicate": -40}

	m.RecordChange(ledger, "syndicate", 1, -40, "destroyed freighter", false, true)
	m.StepDaily(2, ledger)

	got := ledger["syndicate"]
	if got <= -40 {
		t.Fatalf("standing did not recover: %v", got)
	}
	if got > 0 {
		t.Fatalf("recovery overshot neutral: %v", got)
	}
}

func TestDecayNeverOvershootsNeutral(t *testing.T) {
	m := NewManager()
	cfg := DefaultConfig()
	cfg.PositiveDecayRate = 50
	cfg.NegativeRecoveryRate = 50
	cfg.MemoryStrength = 0
	m.SetDefaultConfig(cfg)

	ledger := stubLedger{"a": 0.5, "b": -0.5}
	m.RecordChange(ledger, "a", 1, 0.5, "", false, false)
	m.RecordChange(ledger, "b", 1, -0.5, "", false, false)

	m.StepDaily(2, ledger)

	if ledger["a"] != 0 {
		t.Errorf("positive decay overshot: %v", ledger["a"])
	}
	if ledger["b"] != 0 {
		t.Errorf("negative recovery overshot: %v", ledger["b"])
	}
}

func TestStepDailyReportsCrossings(t *testing.T) {
	m := NewManager()
	cfg := DefaultConfig()
	cfg.PositiveDecayRate = 1.0
	cfg.MemoryStrength = 0
	m.SetDefaultConfig(cfg)

	ledger := stubLedger{"republic": 26}
	m.RecordChange(ledger, "republic", 1, 26, "", false, false)

	crossings := m.StepDaily(2, ledger)
	if len(crossings) != 1 {
		t.Fatalf("expected 1 crossing, got %d", len(crossings))
	}
	c := crossings[0]
	if c.From != Friendly || c.To != Neutral {
		t.Errorf("crossing %s -> %s, want friendly -> neutral", c.From, c.To)
	}
	if c.OldStanding != 26 {
		t.Errorf("old standing = %v, want 26", c.OldStanding)
	}
}

func TestGoodDeedsSlowDecay(t *testing.T) {
	m := NewManager()
	base := m.EffectiveDecayRate("republic")

	m.RecordChange(stubLedger{"republic": 10}, "republic", 1, 10, "", false, false)
	// Force the recency bonus out of the picture.
	m.State("republic").DaysSincePositive = 30
	withNone := m.EffectiveDecayRate("republic")

	for i := 0; i < 5; i++ {
		m.RecordGoodDeed("republic", 1)
	}
	m.State("republic").DaysSincePositive = 30
	withDeeds := m.EffectiveDecayRate("republic")

	if withDeeds >= withNone {
		t.Errorf("good deeds did not slow decay: %v >= %v", withDeeds, withNone)
	}
	if base <= 0 {
		t.Errorf("default decay rate should be positive, got %v", base)
	}
}

func TestRecentPositiveContactSlowsDecay(t *testing.T) {
	m := NewManager()
	ledger := stubLedger{"republic": 10}
	m.RecordChange(ledger, "republic", 1, 10, "", false, false)

	m.State("republic").DaysSincePositive = 0
	recent := m.EffectiveDecayRate("republic")

	m.State("republic").DaysSincePositive = 10
	stale := m.EffectiveDecayRate("republic")

	if recent >= stale {
		t.Errorf("recent contact should slow decay: %v >= %v", recent, stale)
	}
}

func TestAtrocitySlowsRecovery(t *testing.T) {
	m := NewManager()
	clean := m.EffectiveRecoveryRate("pirates")

	m.RecordAtrocity("pirates", 5)
	tainted := m.EffectiveRecoveryRate("pirates")

	want := clean * 0.1
	if math.Abs(tainted-want) > 1e-12 {
		t.Errorf("atrocity recovery rate = %v, want %v", tainted, want)
	}
}

func TestAtrocityForgiveness(t *testing.T) {
	m := NewManager()
	cfg := DefaultConfig()
	cfg.ForgivesAtrocities = true
	cfg.AtrocityForgivenessDays = 5
	m.SetConfig("frontier-militia", cfg)

	ledger := stubLedger{"frontier-militia": -30}
	m.RecordAtrocity("frontier-militia", 10)

	m.StepDaily(12, ledger)
	if !m.State("frontier-militia").HasAtrocity {
		t.Fatal("atrocity forgiven too early")
	}

	m.StepDaily(15, ledger)
	if m.State("frontier-militia").HasAtrocity {
		t.Fatal("atrocity not forgiven after the forgiveness window")
	}
}

func TestHasUnforgivenAtrocity(t *testing.T) {
	m := NewManager()
	if m.HasUnforgivenAtrocity("republic") {
		t.Error("fresh faction should not carry an atrocity")
	}

	// Default config never forgives.
	m.RecordAtrocity("republic", 3)
	if !m.HasUnforgivenAtrocity("republic") {
		t.Error("unforgiving faction should report the atrocity")
	}
}

func TestRecentEventsWindow(t *testing.T) {
	m := NewManager()
	ledger := stubLedger{"republic": 0}
	m.RecordChange(ledger, "republic", 5, 1, "early", false, false)
	m.RecordChange(ledger, "republic", 10, 1, "middle", false, false)
	m.RecordChange(ledger, "republic", 20, 1, "late", false, false)

	got := m.RecentEvents("republic", 20, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 events inside window, got %d", len(got))
	}
	if got[0].Reason != "middle" || got[1].Reason != "late" {
		t.Errorf("wrong events in window: %+v", got)
	}
}

func TestHistoryTrimmedDaily(t *testing.T) {
	m := NewManager()
	ledger := stubLedger{"republic": 0}
	for i := 0; i < MaxEventHistory+20; i++ {
		m.RecordChange(ledger, "republic", i, -0.1, "skirmish", false, true)
	}

	m.StepDaily(MaxEventHistory+21, ledger)

	if n := len(m.State("republic").Events); n != MaxEventHistory {
		t.Errorf("history length = %d, want %d", n, MaxEventHistory)
	}
}

func TestPeakAndTroughTracking(t *testing.T) {
	m := NewManager()
	ledger := stubLedger{"republic": 40}
	m.RecordChange(ledger, "republic", 1, 40, "", false, false)

	ledger["republic"] = -15
	m.RecordChange(ledger, "republic", 2, -55, "", false, false)

	state := m.State("republic")
	if state.Peak != 40 {
		t.Errorf("peak = %v, want 40", state.Peak)
	}
	if state.Trough != -15 {
		t.Errorf("trough = %v, want -15", state.Trough)
	}
}
