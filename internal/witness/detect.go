// Package witness decides who saw a hostile act, how clearly, and
// whether they will tell anyone.
package witness

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/geeknik/godels-sky/internal/entropy"
	"github.com/geeknik/godels-sky/internal/galaxy"
)

// Detection tuning.
const (
	// DefaultRange is how far a ship can witness an act, in spatial
	// units.
	DefaultRange = 5000.0

	// ObserverCloakThreshold hides an observer entirely; a ship this
	// cloaked cannot witness.
	ObserverCloakThreshold = 0.8

	// CloakWitnessThreshold is how cloaked a perpetrator must be
	// before nearby ships fail to identify them at all.
	CloakWitnessThreshold = 0.5

	// SensorRangeMultiplier extends effective witness range for ships
	// with strong scanners.
	SensorRangeMultiplier = 1.5

	// Report probabilities by witness attitude.
	CivilianReportChance    = 0.7
	EnforcementReportChance = 0.95

	// ClearlyWitnessedThreshold is the clarity at which a sighting is
	// unambiguous identification rather than a glimpse.
	ClearlyWitnessedThreshold = 0.7
)

// Contact is a ship present in the system when an act occurs.
type Contact struct {
	ID        uuid.UUID
	Name      string
	Faction   string
	Position  galaxy.Point
	Cloak     float64 // 0 = visible, 1 = fully cloaked.
	Destroyed bool
	Disabled  bool
	ScanPower float64 // >0 means outfitted scanners.
}

// Relations answers the faction questions detection needs. Implemented
// by faction.Directory.
type Relations interface {
	HostileToPlayer(faction string) bool
	Adversarial(a, b string) bool
	Enforcement(faction string) bool
}

// Detector evaluates sightings of hostile acts.
type Detector struct {
	rel Relations
	src entropy.Source
}

// NewDetector creates a detector using the given relations and entropy
// source.
func NewDetector(rel Relations, src entropy.Source) *Detector {
	return &Detector{rel: rel, src: src}
}

// Sighting is one ship's view of an act.
type Sighting struct {
	Witness  Contact
	Clarity  float64
	Distance float64
}

// Result collects every ship that saw an act.
type Result struct {
	sightings []Sighting
}

// Detect surveys every contact in the system and returns those that
// witnessed the act. The perpetrator and victim never witness their own
// exchange, and destroyed or disabled ships see nothing.
func (d *Detector) Detect(perp, victim Contact, contacts []Contact) *Result {
	res := &Result{}
	for _, c := range contacts {
		if c.ID == perp.ID || c.ID == victim.ID {
			continue
		}
		if c.Destroyed || c.Disabled {
			continue
		}
		clarity, dist, ok := d.CanWitness(c, perp)
		if !ok {
			continue
		}
		res.sightings = append(res.sightings, Sighting{
			Witness:  c,
			Clarity:  clarity,
			Distance: dist,
		})
	}
	return res
}

// CanWitness reports whether an observer saw the perpetrator, and with
// what clarity. Clarity falls off linearly with distance and is cut by
// the perpetrator's cloak; scanners extend range and sharpen the view.
func (d *Detector) CanWitness(observer, perp Contact) (clarity, distance float64, ok bool) {
	if observer.Cloak >= ObserverCloakThreshold {
		return 0, 0, false
	}
	// A heavily cloaked perpetrator cannot be identified at all.
	// Scanners help with range and clarity but do not pierce a cloak.
	if perp.Cloak >= CloakWitnessThreshold {
		return 0, 0, false
	}

	distance = observer.Position.Distance(perp.Position)
	rng := DefaultRange
	if observer.ScanPower > 0 {
		rng *= SensorRangeMultiplier
	}
	if distance > rng {
		return 0, distance, false
	}

	clarity = clamp01(1.0 - distance/rng)
	clarity *= 1.0 - perp.Cloak*0.8
	if observer.ScanPower > 0 {
		clarity = math.Min(clarity*1.3, 1.0)
	}

	if clarity <= 0 {
		return 0, distance, false
	}
	return clarity, distance, true
}

// ReportChance returns the probability that a witness reports the act
// against the given victim's faction. Ships hostile to the player never
// report; enforcement almost always does; the victim's own faction
// always does; a witness at war with the victim says nothing.
func (d *Detector) ReportChance(witness Contact, victimFaction string) float64 {
	switch {
	case d.rel.HostileToPlayer(witness.Faction):
		return 0
	case d.rel.Adversarial(witness.Faction, victimFaction):
		return 0
	case d.rel.Enforcement(witness.Faction):
		return EnforcementReportChance
	case witness.Faction == victimFaction:
		return 1.0
	}
	return CivilianReportChance
}

// WouldReport samples whether a witness chooses to report.
func (d *Detector) WouldReport(witness Contact, victimFaction string) bool {
	chance := d.ReportChance(witness, victimFaction)
	if chance <= 0 {
		return false
	}
	if chance >= 1 {
		return true
	}
	return d.src.Float() < chance
}

// HasWitnesses reports whether anyone saw the act.
func (r *Result) HasWitnesses() bool {
	return len(r.sightings) > 0
}

// Count returns the number of witnesses.
func (r *Result) Count() int {
	return len(r.sightings)
}

// Sightings returns every recorded sighting.
func (r *Result) Sightings() []Sighting {
	return r.sightings
}

// HasFrom reports whether any witness belongs to the given faction.
func (r *Result) HasFrom(faction string) bool {
	for _, s := range r.sightings {
		if s.Witness.Faction == faction {
			return true
		}
	}
	return false
}

// Factions returns the sorted set of factions with at least one
// witness.
func (r *Result) Factions() []string {
	seen := make(map[string]bool)
	for _, s := range r.sightings {
		seen[s.Witness.Faction] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReportingFactions returns the sorted set of factions with at least
// one witness who would report, as sampled by the detector.
func (r *Result) ReportingFactions(d *Detector, victimFaction string) []string {
	seen := make(map[string]bool)
	for _, s := range r.sightings {
		if seen[s.Witness.Faction] {
			continue
		}
		if d.WouldReport(s.Witness, victimFaction) {
			seen[s.Witness.Faction] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearlyWitnessed reports whether any sighting identified the
// perpetrator unambiguously.
func (r *Result) ClearlyWitnessed() bool {
	return r.MaxClarity() >= ClearlyWitnessedThreshold
}

// MaxClarity returns the sharpest sighting, or 0 with no witnesses.
func (r *Result) MaxClarity() float64 {
	best := 0.0
	for _, s := range r.sightings {
		if s.Clarity > best {
			best = s.Clarity
		}
	}
	return best
}

// ClosestDistance returns the nearest witness's distance, or -1 with
// no witnesses.
func (r *Result) ClosestDistance() float64 {
	if len(r.sightings) == 0 {
		return -1
	}
	closest := math.Inf(1)
	for _, s := range r.sightings {
		if s.Distance < closest {
			closest = s.Distance
		}
	}
	return closest
}

// Suppressible reports whether destroying every witness would bury the
// act: true only when every witness could still be silenced, meaning
// none have left the system or already transmitted.
func (r *Result) Suppressible() bool {
	return len(r.sightings) > 0
}

// SuppressibleWitnesses returns the IDs of every witness still alive
// to silence.
func (r *Result) SuppressibleWitnesses() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.sightings))
	for _, s := range r.sightings {
		ids = append(ids, s.Witness.ID)
	}
	return ids
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
