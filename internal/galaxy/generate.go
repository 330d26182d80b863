// Galaxy generation using simplex noise fields.
// System positions are jittered from a spiral layout; danger and
// habitation are sampled from independent noise layers so that pirate
// territory and settled space form contiguous regions.
package galaxy

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds galaxy generation parameters.
type GenConfig struct {
	Systems     int     // Number of systems to place.
	Seed        int64   // Random seed (0 = random).
	Radius      float64 // Map radius in map units.
	LinkRange   float64 // Maximum hyperlink length.
	MinLinks    int     // Each system links to at least this many neighbors.
	HabitatBias float64 // Habitation noise threshold (higher = emptier rim).
}

// DefaultGenConfig returns the standard galaxy size.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Systems:     64,
		Seed:        0,
		Radius:      480,
		LinkRange:   140,
		MinLinks:    2,
		HabitatBias: 0.35,
	}
}

// SmallTestConfig returns a tiny galaxy for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Systems:     12,
		Seed:        42,
		Radius:      160,
		LinkRange:   90,
		MinLinks:    2,
		HabitatBias: 0.30,
	}
}

var namePrefixes = []string{
	"Al", "Bel", "Cal", "Del", "Eri", "Far", "Gam", "Hel",
	"Ish", "Jun", "Kor", "Lyr", "Mar", "Nex", "Oph", "Pol",
	"Qua", "Ros", "Sol", "Tau", "Umb", "Ver", "Wex", "Zet",
}

var nameSuffixes = []string{
	"taris", "una", "deb", "phi", "dani", "nar", "ma", "ios",
	"kent", "tara", "vex", "os", "eth", "arra", "iuchi", "lux",
}

// Generate creates a complete, deterministic star map from the config.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	// Independent noise layers for independent properties.
	dangerNoise := opensimplex.NewNormalized(seed + 1)
	habitatNoise := opensimplex.NewNormalized(seed + 2)

	m := NewMap()
	used := make(map[string]bool)

	for i := 0; i < cfg.Systems; i++ {
		// Spiral placement with jitter keeps density roughly uniform.
		t := float64(i) / float64(cfg.Systems)
		angle := t * 6 * math.Pi
		radius := cfg.Radius * math.Sqrt(t)
		x := radius*math.Cos(angle) + (rng.Float64()-0.5)*cfg.Radius*0.15
		y := radius*math.Sin(angle) + (rng.Float64()-0.5)*cfg.Radius*0.15

		name := systemName(rng, used)

		// Noise sampled in map space; scale keeps regions several links wide.
		nx, ny := x/cfg.Radius*2, y/cfg.Radius*2
		danger := dangerNoise.Eval2(nx, ny) * 10
		habitat := habitatNoise.Eval2(nx+7, ny+7)

		m.Add(&System{
			Name:      name,
			Position:  Point{X: x, Y: y},
			Danger:    danger,
			Inhabited: habitat > cfg.HabitatBias,
		})
	}

	linkSystems(m, cfg)
	return m
}

// systemName produces a unique two-part name.
func systemName(rng *rand.Rand, used map[string]bool) string {
	for {
		name := namePrefixes[rng.Intn(len(namePrefixes))] + nameSuffixes[rng.Intn(len(nameSuffixes))]
		if !used[name] {
			used[name] = true
			return name
		}
		// Collision: disambiguate with a numeral.
		for n := 2; ; n++ {
			numbered := fmt.Sprintf("%s %d", name, n)
			if !used[numbered] {
				used[numbered] = true
				return numbered
			}
		}
	}
}

// linkSystems connects each system to its nearest neighbors within
// range, then guarantees the minimum link count so no system is
// stranded outside the cascade graph.
func linkSystems(m *Map, cfg GenConfig) {
	names := m.Names()

	type neighbor struct {
		name string
		dist float64
	}

	for _, name := range names {
		s := m.Get(name)

		var candidates []neighbor
		for _, other := range names {
			if other == name {
				continue
			}
			d := s.Position.Distance(m.Get(other).Position)
			candidates = append(candidates, neighbor{name: other, dist: d})
		}
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].dist < candidates[j].dist
		})

		for _, c := range candidates {
			if c.dist <= cfg.LinkRange {
				m.Link(name, c.name)
			}
		}
		// Always connect to the closest few, even beyond link range.
		for i := 0; len(s.Links) < cfg.MinLinks && i < len(candidates); i++ {
			m.Link(name, candidates[i].name)
		}
	}
}
