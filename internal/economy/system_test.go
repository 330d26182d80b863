package economy

import (
	"math"
	"testing"

	"github.com/geeknik/godels-sky/internal/entropy"
)

// stubUniverse is a quiet universe: no danger, nothing inhabited, so
// StepDaily produces no background traffic and tests stay exact.
type stubUniverse struct {
	links map[string][]string
}

func (u *stubUniverse) Neighbors(system string) []string { return u.links[system] }
func (u *stubUniverse) Danger(system string) float64     { return 0 }
func (u *stubUniverse) Inhabited(system string) bool     { return false }
func (u *stubUniverse) DisplayName(system string) string {
	if system == "" {
		return "local system"
	}
	return system
}

func quietUniverse() *stubUniverse {
	return &stubUniverse{links: map[string][]string{}}
}

func TestMerchantLossesTriggerBust(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())
	for i := 0; i < 12; i++ {
		e.RecordEvent(Event{Day: 1, Kind: MerchantDestroyed, Magnitude: 1})
	}

	changed := e.StepDaily(2, "sol", quietUniverse(), entropy.Fixed(0.5))
	if !changed {
		t.Fatal("expected a condition change")
	}
	if e.Condition() != Bust {
		t.Fatalf("condition = %s, want bust", e.Condition())
	}
	// 12 losses decay to 10.2 at evaluation time: strength caps at 100.
	if e.Strength() != 100 {
		t.Errorf("strength = %d, want 100", e.Strength())
	}
	if e.Headline() == "" {
		t.Error("condition change should produce a headline")
	}
}

func TestLossesBelowThresholdStayStable(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())
	for i := 0; i < 5; i++ {
		e.RecordEvent(Event{Day: 1, Kind: MerchantDestroyed, Magnitude: 1})
	}

	e.StepDaily(2, "sol", quietUniverse(), entropy.Fixed(0.5))
	if e.Condition() != Stable {
		t.Fatalf("condition = %s, want stable", e.Condition())
	}
}

func TestRaiderKillsTriggerBoom(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())
	e.RecordEvent(Event{Day: 1, Kind: RaiderDestroyed, Magnitude: 25})

	e.StepDaily(2, "sol", quietUniverse(), entropy.Fixed(0.5))
	if e.Condition() != Boom {
		t.Fatalf("condition = %s, want boom", e.Condition())
	}
}

func TestSmugglingTriggersLockdownOverBoom(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())
	e.RecordEvent(Event{Day: 1, Kind: RaiderDestroyed, Magnitude: 30})
	e.RecordEvent(Event{Day: 1, Kind: SmugglingDetected, Magnitude: 80})

	e.StepDaily(2, "sol", quietUniverse(), entropy.Fixed(0.5))
	if e.Condition() != Lockdown {
		t.Fatalf("condition = %s, want lockdown", e.Condition())
	}
	if e.TradingAllowed() {
		t.Error("lockdown should suspend normal trading")
	}
	if !e.BlackMarketOnly() {
		t.Error("lockdown should route trade through the black market")
	}
}

func TestRecoveryReturnsToStableAndClearsCommodity(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())
	e.ForceCondition(Shortage, "Food", 20)

	u := quietUniverse()
	src := entropy.Fixed(0.5)

	changed := false
	for day := 1; day <= 10; day++ {
		if e.StepDaily(day, "sol", u, src) {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatal("shortage never recovered")
	}
	if e.Condition() != Stable {
		t.Fatalf("condition = %s, want stable", e.Condition())
	}
	if e.AffectedCommodity() != "" {
		t.Errorf("affected commodity not cleared: %q", e.AffectedCommodity())
	}
	if e.Strength() != 0 {
		t.Errorf("strength = %d, want 0", e.Strength())
	}
}

func TestCountersDecayDaily(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())
	e.RecordEvent(Event{Day: 1, Kind: SmugglingDetected, Magnitude: 20})

	e.StepDaily(2, "sol", quietUniverse(), entropy.Fixed(0.5))
	if got := e.SmugglingLevel(); got != 17 {
		t.Errorf("smuggling after one day = %d, want 17", got)
	}
}

func TestPriceModifierBlendsWithStrength(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())

	// Neutral at stable.
	if mod := e.PriceModifier("Food", true); mod != 1.0 {
		t.Fatalf("stable modifier = %v, want 1.0", mod)
	}

	e.ForceCondition(Bust, "", 100)
	if mod := e.PriceModifier("Food", true); math.Abs(mod-1.10) > 1e-9 {
		t.Errorf("full-strength bust buy modifier = %v, want 1.10", mod)
	}

	e.ForceCondition(Stable, "", 0)
	e.ForceCondition(Bust, "", 50)
	if mod := e.PriceModifier("Food", true); math.Abs(mod-1.05) > 1e-9 {
		t.Errorf("half-strength bust buy modifier = %v, want 1.05", mod)
	}
}

func TestShortageOnlyAffectsItsCommodity(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())
	e.ForceCondition(Shortage, "Food", 100)

	if mod := e.PriceModifier("Food", true); math.Abs(mod-1.50) > 1e-9 {
		t.Errorf("shortage commodity modifier = %v, want 1.50", mod)
	}
	if mod := e.PriceModifier("Metal", true); mod != 1.0 {
		t.Errorf("unrelated commodity modifier = %v, want 1.0", mod)
	}
}

func TestStandingModifierBrackets(t *testing.T) {
	cases := []struct {
		standing float64
		buying   bool
		want     float64
	}{
		{1500, true, 0.85},
		{1500, false, 1.15},
		{500, true, 0.90},
		{50, true, 0.95},
		{0, true, 1.0},
		{-50, true, 1.05},
		{-500, true, 1.15},
		{-1500, true, 1.20},
		{-1500, false, 0.80},
	}

	for _, tc := range cases {
		if got := StandingModifier(tc.standing, tc.buying); got != tc.want {
			t.Errorf("StandingModifier(%v, %v) = %v, want %v", tc.standing, tc.buying, got, tc.want)
		}
	}
}

func TestEventHistoryCapped(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())
	for i := 0; i < MaxEventHistory+25; i++ {
		e.RecordEvent(Event{Day: i, Kind: TradeCompleted, Magnitude: 1})
	}
	if n := len(e.RecentEvents()); n != MaxEventHistory {
		t.Errorf("history length = %d, want %d", n, MaxEventHistory)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := NewSystemEconomy(DefaultConfig())
	e.RecordEvent(Event{Day: 3, Kind: MerchantDestroyed, Magnitude: 4})
	e.RecordEvent(Event{Day: 3, Kind: SmugglingDetected, Magnitude: 7})
	e.ForceCondition(Bust, "", 60)

	restored := FromSnapshot(DefaultConfig(), e.Snapshot())

	if restored.Condition() != e.Condition() {
		t.Errorf("condition mismatch: %s vs %s", restored.Condition(), e.Condition())
	}
	if restored.Strength() != e.Strength() {
		t.Errorf("strength mismatch: %d vs %d", restored.Strength(), e.Strength())
	}
	if restored.MerchantLosses() != e.MerchantLosses() {
		t.Errorf("merchant losses mismatch")
	}
	if len(restored.RecentEvents()) != len(e.RecentEvents()) {
		t.Errorf("event history mismatch")
	}
}
