package journal

import (
	"testing"

	"github.com/google/uuid"
)

func TestDispositionProgression(t *testing.T) {
	cases := []struct {
		name string
		rec  EncounterRecord
		want Disposition
	}{
		{"never met", EncounterRecord{}, DispositionUnknown},
		{"met once", EncounterRecord{Encounters: 1}, DispositionNeutral},
		{"attacked once", EncounterRecord{Encounters: 2, Attacks: 1}, DispositionWary},
		{"attacked twice", EncounterRecord{Encounters: 3, Attacks: 2}, DispositionHostile},
		{"disabled and boarded", EncounterRecord{Encounters: 3, Attacks: 1, Disabled: true, Boarded: true}, DispositionNemesis},
		{"traded once", EncounterRecord{Encounters: 1, Trades: 1}, DispositionFriendly},
		{"repaired their ship", EncounterRecord{Encounters: 2, Assisted: true}, DispositionGrateful},
		{"saved repeatedly", EncounterRecord{Encounters: 4, Assists: 2, Assisted: true}, DispositionIndebted},
	}

	for _, tc := range cases {
		if got := tc.rec.Disposition(); got != tc.want {
			t.Errorf("%s: disposition = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestGrudgesOutweighGratitude(t *testing.T) {
	// Heavy help and heavy harm: the harm wins.
	rec := EncounterRecord{Encounters: 5, Assists: 3, Assisted: true, Attacks: 2}
	if got := rec.Disposition(); got != DispositionHostile {
		t.Errorf("disposition = %s, want hostile", got)
	}
}

func TestWouldRecognize(t *testing.T) {
	if (&EncounterRecord{Encounters: 2}).WouldRecognize() {
		t.Error("two uneventful meetings should not stick")
	}
	if !(&EncounterRecord{Encounters: 3}).WouldRecognize() {
		t.Error("three meetings should stick")
	}
	if !(&EncounterRecord{Encounters: 1, Disabled: true}).WouldRecognize() {
		t.Error("being disabled is memorable")
	}
	if !(&EncounterRecord{Encounters: 1, Attacks: 2}).WouldRecognize() {
		t.Error("repeated attacks are memorable")
	}
}

func TestPerceivedThreatCapped(t *testing.T) {
	rec := EncounterRecord{Attacks: 20, Disabled: true, Boarded: true}
	if got := rec.PerceivedThreat(); got != 1.5 {
		t.Errorf("threat = %v, want capped 1.5", got)
	}

	calm := EncounterRecord{Encounters: 3}
	if got := calm.PerceivedThreat(); got != 0 {
		t.Errorf("threat with no attacks = %v, want 0", got)
	}
}

func TestEncounterBookMeetAccumulates(t *testing.T) {
	b := NewEncounterBook()
	id := uuid.New()

	b.Meet(id, "Capt. Olvera", "syndicate", "sol", 3)
	rec := b.Meet(id, "Capt. Olvera", "syndicate", "vega", 7)

	if rec.Encounters != 2 {
		t.Errorf("encounters = %d, want 2", rec.Encounters)
	}
	if rec.LastSeenSystem != "vega" || rec.LastSeenDay != 7 {
		t.Errorf("last seen = %s day %d, want vega day 7", rec.LastSeenSystem, rec.LastSeenDay)
	}
	if b.Len() != 1 {
		t.Errorf("book size = %d, want 1", b.Len())
	}
}

func TestGrudges(t *testing.T) {
	b := NewEncounterBook()
	friend := uuid.New()
	enemy := uuid.New()

	b.Meet(friend, "friend", "republic", "sol", 1).Trades = 3
	foe := b.Meet(enemy, "foe", "pirates", "sol", 1)
	foe.Attacks = 3
	foe.Disabled = true

	grudges := b.Grudges()
	if len(grudges) != 1 || grudges[0].CaptainID != enemy {
		t.Errorf("grudges = %d records, want just the foe", len(grudges))
	}
}

func TestForget(t *testing.T) {
	b := NewEncounterBook()
	id := uuid.New()
	b.Meet(id, "gone", "republic", "sol", 1)
	b.Forget(id)

	if b.Get(id) != nil || b.Len() != 0 {
		t.Error("forgotten captain still in the book")
	}
}
