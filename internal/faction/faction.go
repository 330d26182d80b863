// Package faction provides the faction directory: stable identities,
// inter-faction relations, and the authoritative standing scalar.
// The reputation engine reads and nudges standings through this
// package; it never owns the number itself.
package faction

import (
	"sort"
	"strings"
)

// Kind categorizes the nature of a faction.
type Kind uint8

const (
	KindRepublic    Kind = iota // Major settled government
	KindCorporate               // Trade and industry
	KindEnforcement             // Navy, militia, police
	KindIndependent             // Frontier settlers
	KindOutlaw                  // Pirates and raiders
)

func (k Kind) String() string {
	switch k {
	case KindRepublic:
		return "republic"
	case KindCorporate:
		return "corporate"
	case KindEnforcement:
		return "enforcement"
	case KindIndependent:
		return "independent"
	case KindOutlaw:
		return "outlaw"
	}
	return "unknown"
}

// Faction is a named party with a disposition toward the player and
// relations to other factions.
type Faction struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Kind        Kind   `json:"kind"`

	// Standing toward the player. Mutated only through SetStanding /
	// AdjustStanding so there is exactly one source of truth.
	standing float64

	// Factions this one is at war with (by name, symmetric by seed).
	enemies map[string]bool
}

// Standing returns the faction's current standing toward the player.
func (f *Faction) Standing() float64 {
	return f.standing
}

// SetStanding overwrites the standing scalar.
func (f *Faction) SetStanding(v float64) {
	f.standing = v
}

// AdjustStanding applies a delta to the standing scalar.
func (f *Faction) AdjustStanding(delta float64) {
	f.standing += delta
}

// IsEnemyOf reports whether this faction is adversarial to another.
func (f *Faction) IsEnemyOf(other string) bool {
	return f.enemies[other]
}

// Enemies returns the sorted names of this faction's enemies.
func (f *Faction) Enemies() []string {
	names := make([]string, 0, len(f.enemies))
	for name := range f.enemies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Directory resolves faction names to their state. It owns every
// faction; lookups return borrowed pointers valid within a tick.
type Directory struct {
	factions map[string]*Faction
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{factions: make(map[string]*Faction)}
}

// Add registers a faction, replacing any faction of the same name.
func (d *Directory) Add(f *Faction) {
	if f.enemies == nil {
		f.enemies = make(map[string]bool)
	}
	d.factions[f.Name] = f
}

// Get returns the faction with the given name, or nil.
func (d *Directory) Get(name string) *Faction {
	return d.factions[name]
}

// Names returns all faction names in sorted order.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.factions))
	for name := range d.factions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetEnemies marks two factions as mutually adversarial.
func (d *Directory) SetEnemies(a, b string) {
	fa, fb := d.factions[a], d.factions[b]
	if fa == nil || fb == nil {
		return
	}
	fa.enemies[b] = true
	fb.enemies[a] = true
}

// Standing implements the reputation ledger read side. The second
// return is false for unknown factions, which is absence of data rather than a fault.
func (d *Directory) Standing(name string) (float64, bool) {
	f := d.factions[name]
	if f == nil {
		return 0, false
	}
	return f.standing, true
}

// SetStanding implements the reputation ledger write side.
func (d *Directory) SetStanding(name string, v float64) {
	if f := d.factions[name]; f != nil {
		f.standing = v
	}
}

// HostileToPlayer reports whether a faction is adversarial to the
// player. Outlaw factions are always hostile; others turn hostile once
// their standing drops to open war levels.
func (d *Directory) HostileToPlayer(name string) bool {
	f := d.factions[name]
	if f == nil {
		return false
	}
	return f.Kind == KindOutlaw || f.standing <= -50
}

// Adversarial reports whether two factions are at war with each other.
func (d *Directory) Adversarial(a, b string) bool {
	if fa := d.factions[a]; fa != nil {
		return fa.enemies[b]
	}
	return false
}

// Enforcement reports whether a faction behaves as law enforcement.
// The structural kind is authoritative; the textual check covers
// factions loaded from data without a kind.
func (d *Directory) Enforcement(name string) bool {
	f := d.factions[name]
	if f == nil {
		return false
	}
	if f.Kind == KindEnforcement {
		return true
	}
	for _, marker := range []string{"Navy", "Militia", "Police"} {
		if strings.Contains(f.DisplayName, marker) || strings.Contains(f.Name, marker) {
			return true
		}
	}
	return false
}

// Seed creates the standard faction set with its adversarial matrix.
func Seed() *Directory {
	d := NewDirectory()
	d.Add(&Faction{Name: "republic", DisplayName: "The Republic", Kind: KindRepublic})
	d.Add(&Faction{Name: "republic-navy", DisplayName: "Republic Navy", Kind: KindEnforcement})
	d.Add(&Faction{Name: "syndicate", DisplayName: "Syndicate Shipping", Kind: KindCorporate})
	d.Add(&Faction{Name: "free-worlds", DisplayName: "Free Worlds", Kind: KindIndependent})
	d.Add(&Faction{Name: "frontier-militia", DisplayName: "Frontier Militia", Kind: KindEnforcement})
	d.Add(&Faction{Name: "pirates", DisplayName: "Scavenger Clans", Kind: KindOutlaw})

	d.SetEnemies("republic", "pirates")
	d.SetEnemies("republic-navy", "pirates")
	d.SetEnemies("syndicate", "pirates")
	d.SetEnemies("free-worlds", "pirates")
	d.SetEnemies("frontier-militia", "pirates")
	return d
}
