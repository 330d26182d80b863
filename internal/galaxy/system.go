// Package galaxy provides the star map: systems, hyperlinks, and the
// scalar fields (danger, habitation) the consequence engines read.
package galaxy

import (
	"math"
	"sort"
)

// Point is a position within a system, in standard distance units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the euclidean distance to another point.
func (p Point) Distance(o Point) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// System is a node in the hyperlink graph. Systems are identified by
// their name, which is stable for the lifetime of a galaxy.
type System struct {
	Name     string   `json:"name"`
	Position Point    `json:"position"` // Galactic map coordinates.
	Links    []string `json:"links"`    // Names of directly linked systems.

	// Danger drives background merchant/raider losses (0 = safe).
	Danger float64 `json:"danger"`

	// Inhabited systems generate baseline trade traffic.
	Inhabited bool `json:"inhabited"`
}

// Map owns every system, keyed by name.
type Map struct {
	systems map[string]*System
}

// NewMap creates an empty star map.
func NewMap() *Map {
	return &Map{systems: make(map[string]*System)}
}

// Add inserts a system. A system with the same name is replaced.
func (m *Map) Add(s *System) {
	m.systems[s.Name] = s
}

// Get returns the system with the given name, or nil.
func (m *Map) Get(name string) *System {
	return m.systems[name]
}

// Count returns the number of systems.
func (m *Map) Count() int {
	return len(m.systems)
}

// Names returns all system names in sorted order.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.systems))
	for name := range m.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Neighbors returns the names of systems directly linked to the given one.
func (m *Map) Neighbors(name string) []string {
	s := m.systems[name]
	if s == nil {
		return nil
	}
	return s.Links
}

// Danger returns the system's danger rating, or 0 for unknown systems.
func (m *Map) Danger(name string) float64 {
	if s := m.systems[name]; s != nil {
		return s.Danger
	}
	return 0
}

// Inhabited reports whether the system has a population generating trade.
func (m *Map) Inhabited(name string) bool {
	if s := m.systems[name]; s != nil {
		return s.Inhabited
	}
	return false
}

// DisplayName returns the human-readable system name. Unknown systems
// fall back to a generic label rather than an error; absence of data is
// a valid state here.
func (m *Map) DisplayName(name string) string {
	if s := m.systems[name]; s != nil {
		return s.Name
	}
	return "local system"
}

// Link creates a symmetric hyperlink between two systems.
func (m *Map) Link(a, b string) {
	sa, sb := m.systems[a], m.systems[b]
	if sa == nil || sb == nil || a == b {
		return
	}
	if !contains(sa.Links, b) {
		sa.Links = append(sa.Links, b)
	}
	if !contains(sb.Links, a) {
		sb.Links = append(sb.Links, a)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
