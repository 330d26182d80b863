package faction

import "testing"

func TestHostileToPlayer(t *testing.T) {
	d := Seed()

	if !d.HostileToPlayer("pirates") {
		t.Error("outlaws should always be hostile")
	}
	if d.HostileToPlayer("republic") {
		t.Error("republic should start neutral")
	}

	d.SetStanding("republic", -60)
	if !d.HostileToPlayer("republic") {
		t.Error("standing of -60 should be hostile")
	}

	d.SetStanding("republic", -49)
	if d.HostileToPlayer("republic") {
		t.Error("standing of -49 should not be hostile")
	}

	if d.HostileToPlayer("no-such-faction") {
		t.Error("unknown faction treated as hostile")
	}
}

func TestAdversarial(t *testing.T) {
	d := Seed()

	if !d.Adversarial("republic", "pirates") {
		t.Error("republic and pirates should be adversarial")
	}
	if !d.Adversarial("pirates", "republic") {
		t.Error("adversarial relation should be symmetric")
	}
	if d.Adversarial("republic", "syndicate") {
		t.Error("republic and syndicate should not be adversarial")
	}
	if d.Adversarial("republic", "republic") {
		t.Error("a faction is never adversarial to itself")
	}
}

func TestEnforcement(t *testing.T) {
	d := Seed()

	if !d.Enforcement("republic-navy") {
		t.Error("navy should be enforcement")
	}
	if !d.Enforcement("frontier-militia") {
		t.Error("militia should be enforcement")
	}
	if d.Enforcement("syndicate") {
		t.Error("syndicate is not enforcement")
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	d := Seed()

	if _, ok := d.Standing("no-such-faction"); ok {
		t.Error("unknown faction reported a standing")
	}

	d.SetStanding("republic", 12.5)
	got, ok := d.Standing("republic")
	if !ok || got != 12.5 {
		t.Errorf("standing = %v, %v; want 12.5, true", got, ok)
	}

	d.Get("republic").AdjustStanding(-2.5)
	if got, _ := d.Standing("republic"); got != 10 {
		t.Errorf("adjusted standing = %v, want 10", got)
	}
}

func TestEnemiesSorted(t *testing.T) {
	d := NewDirectory()
	d.Add(&Faction{Name: "a"})
	d.Add(&Faction{Name: "b"})
	d.Add(&Faction{Name: "c"})
	d.SetEnemies("a", "c")
	d.SetEnemies("a", "b")

	got := d.Get("a").Enemies()
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("enemies = %v, want [b c]", got)
	}
}
