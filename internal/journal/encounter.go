package journal

import (
	"github.com/google/uuid"
)

// Disposition is how a particular captain feels about the player.
type Disposition int

const (
	DispositionUnknown Disposition = iota
	DispositionNeutral
	DispositionWary
	DispositionHostile
	DispositionNemesis
	DispositionFriendly
	DispositionGrateful
	DispositionIndebted
)

var dispositionNames = map[Disposition]string{
	DispositionUnknown:  "unknown",
	DispositionNeutral:  "neutral",
	DispositionWary:     "wary",
	DispositionHostile:  "hostile",
	DispositionNemesis:  "nemesis",
	DispositionFriendly: "friendly",
	DispositionGrateful: "grateful",
	DispositionIndebted: "indebted",
}

func (d Disposition) String() string {
	if name, ok := dispositionNames[d]; ok {
		return name
	}
	return "unknown"
}

// EncounterRecord is the running history between the player and one
// NPC captain.
type EncounterRecord struct {
	CaptainID   uuid.UUID `json:"captain_id"`
	CaptainName string    `json:"captain_name"`
	Faction     string    `json:"faction"`

	Encounters int `json:"encounters"`
	Attacks    int `json:"attacks"` // Times the player attacked them.
	Assists    int `json:"assists"` // Times the player helped them.
	Trades     int `json:"trades"`

	Disabled bool `json:"disabled"` // Player disabled their ship.
	Boarded  bool `json:"boarded"`  // Player boarded their ship.
	Assisted bool `json:"assisted"` // Player repaired or refueled them.

	LastSeenDay    int    `json:"last_seen_day"`
	LastSeenSystem string `json:"last_seen_system"`
}

// Disposition derives how the captain feels from the history. Grudges
// outweigh gratitude at the same magnitude.
func (r *EncounterRecord) Disposition() Disposition {
	neg := r.Attacks * 2
	if r.Disabled {
		neg += 5
	}
	if r.Boarded {
		neg += 3
	}

	pos := r.Assists * 2
	if r.Assisted {
		pos += 3
	}
	if r.Trades >= 3 {
		pos += 2
	} else if r.Trades > 0 {
		pos++
	}

	switch {
	case neg >= 10:
		return DispositionNemesis
	case neg >= 4:
		return DispositionHostile
	case neg >= 2:
		return DispositionWary
	case pos >= 6:
		return DispositionIndebted
	case pos >= 3:
		return DispositionGrateful
	case pos >= 1:
		return DispositionFriendly
	case neg > pos:
		return DispositionWary
	case r.Encounters > 0:
		return DispositionNeutral
	}
	return DispositionUnknown
}

// WouldRecognize reports whether this captain remembers the player on
// sight: repeat meetings or anything memorable enough to stick.
func (r *EncounterRecord) WouldRecognize() bool {
	if r.Encounters >= 3 {
		return true
	}
	return r.Disabled || r.Boarded || r.Assists >= 2 || r.Attacks >= 2
}

// PerceivedThreat estimates how dangerous this captain believes the
// player is, 0 to 1.5.
func (r *EncounterRecord) PerceivedThreat() float64 {
	threat := float64(r.Attacks) * 0.15
	if r.Disabled {
		threat += 0.3
	}
	if r.Boarded {
		threat += 0.2
	}
	if threat > 1.5 {
		threat = 1.5
	}
	return threat
}

// EncounterBook tracks every captain the player has met.
type EncounterBook struct {
	records map[uuid.UUID]*EncounterRecord
}

// NewEncounterBook creates an empty book.
func NewEncounterBook() *EncounterBook {
	return &EncounterBook{records: make(map[uuid.UUID]*EncounterRecord)}
}

// Meet records an encounter with a captain, creating the record on
// first meeting.
func (b *EncounterBook) Meet(id uuid.UUID, name, faction, system string, day int) *EncounterRecord {
	r, ok := b.records[id]
	if !ok {
		r = &EncounterRecord{CaptainID: id, CaptainName: name, Faction: faction}
		b.records[id] = r
	}
	r.Encounters++
	r.LastSeenDay = day
	r.LastSeenSystem = system
	return r
}

// Get returns the record for a captain, or nil if never met.
func (b *EncounterBook) Get(id uuid.UUID) *EncounterRecord {
	return b.records[id]
}

// Len returns the number of known captains.
func (b *EncounterBook) Len() int {
	return len(b.records)
}

// Known returns every record. Order is unspecified.
func (b *EncounterBook) Known() []*EncounterRecord {
	out := make([]*EncounterRecord, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, r)
	}
	return out
}

// Grudges returns records for captains who are hostile or worse.
func (b *EncounterBook) Grudges() []*EncounterRecord {
	var out []*EncounterRecord
	for _, r := range b.records {
		d := r.Disposition()
		if d == DispositionHostile || d == DispositionNemesis {
			out = append(out, r)
		}
	}
	return out
}

// Forget removes a captain, for deaths the player caused or witnessed.
func (b *EncounterBook) Forget(id uuid.UUID) {
	delete(b.records, id)
}

// Restore replaces the book contents, for loading saved state.
func (b *EncounterBook) Restore(records []*EncounterRecord) {
	b.records = make(map[uuid.UUID]*EncounterRecord, len(records))
	for _, r := range records {
		b.records[r.CaptainID] = r
	}
}
