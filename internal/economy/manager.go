package economy

import (
	"log/slog"
	"sort"

	"github.com/geeknik/godels-sky/internal/entropy"
)

// Headline is a produced news item tagged with its source system.
type Headline struct {
	System string `json:"system"`
	Day    int    `json:"day"`
	Text   string `json:"text"`
}

// Manager owns every system economy and propagates shocks between them
// along hyperlinks.
type Manager struct {
	economies  map[string]*SystemEconomy
	defaultCfg Config
	universe   Universe
	src        entropy.Source

	news []Headline
}

// MaxNews bounds the retained news feed.
const MaxNews = 200

// NewManager creates an orchestrator over the given universe. The
// entropy source drives background traffic simulation.
func NewManager(u Universe, src entropy.Source) *Manager {
	cfg := DefaultConfig()
	cfg.Normalize()
	return &Manager{
		economies:  make(map[string]*SystemEconomy),
		defaultCfg: cfg,
		universe:   u,
		src:        src,
	}
}

// SetDefaultConfig replaces the config used for lazily created
// economies. Existing economies keep their configs.
func (m *Manager) SetDefaultConfig(cfg Config) {
	cfg.Normalize()
	m.defaultCfg = cfg
}

// SmuggleDetected rolls whether a black-market transaction in the
// given system gets noticed by the authorities.
func (m *Manager) SmuggleDetected(system string) bool {
	return m.src.Float() < m.Economy(system).BlackMarketDetectionChance()
}

// Economy returns the economy for a system, creating a stable one on
// first touch.
func (m *Manager) Economy(system string) *SystemEconomy {
	e, ok := m.economies[system]
	if !ok {
		e = NewSystemEconomy(m.defaultCfg)
		m.economies[system] = e
	}
	return e
}

// Peek returns the economy for a system without creating one.
func (m *Manager) Peek(system string) *SystemEconomy {
	return m.economies[system]
}

// View returns the economy for a system, or a detached stable view if
// none is tracked yet. Unlike Economy it never writes the map, so
// read-only callers off the simulation goroutine can use it.
func (m *Manager) View(system string) *SystemEconomy {
	if e, ok := m.economies[system]; ok {
		return e
	}
	return NewSystemEconomy(m.defaultCfg)
}

// ActiveSystems returns the names of systems with tracked economies,
// sorted for deterministic iteration.
func (m *Manager) ActiveSystems() []string {
	names := make([]string, 0, len(m.economies))
	for name := range m.economies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SystemsInCondition returns the sorted names of systems currently in
// the given condition.
func (m *Manager) SystemsInCondition(c Condition) []string {
	var names []string
	for name, e := range m.economies {
		if e.Condition() == c {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RecordEvent feeds an event into a system's economy and, for shocks
// large enough to matter beyond one system, ripples a halved echo out
// along hyperlinks.
func (m *Manager) RecordEvent(system string, ev Event) {
	m.Economy(system).RecordEvent(ev)

	if m.shouldCascade(ev) {
		m.cascade(system, ev)
	}
}

// shouldCascade decides whether an event is significant enough to
// affect neighboring systems.
func (m *Manager) shouldCascade(ev Event) bool {
	switch ev.Kind {
	case MerchantDestroyed, RaiderDestroyed, ConvoyAttacked, BlockadeActive, WarStarted, WarEnded:
		return true
	case TradeCompleted, LargePurchase, LargeSale:
		return ev.Magnitude >= 1000
	case SmugglingDetected:
		return ev.Magnitude >= 100
	}
	return false
}

// cascade spreads a dampened copy of the event outward by breadth-first
// walk: each hop halves the magnitude again, each system is visited at
// most once, and the walk stops at the configured radius or when the
// echo rounds to nothing.
func (m *Manager) cascade(origin string, ev Event) {
	radius := m.defaultCfg.CascadeRadius
	if radius <= 0 {
		return
	}

	type hop struct {
		system   string
		distance int
	}

	visited := map[string]bool{origin: true}
	queue := []hop{{origin, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.distance >= radius {
			continue
		}

		for _, next := range m.universe.Neighbors(cur.system) {
			if visited[next] {
				continue
			}
			visited[next] = true

			echo := ev
			echo.Magnitude = ev.Magnitude / (1 << (cur.distance + 1))
			echo.PlayerCaused = false
			if echo.Magnitude <= 0 {
				continue
			}

			m.Economy(next).RecordEvent(echo)
			queue = append(queue, hop{next, cur.distance + 1})
		}
	}
}

// StepDaily advances every tracked economy one day and collects the
// headlines produced by condition changes.
func (m *Manager) StepDaily(day int) []Headline {
	var produced []Headline
	for _, name := range m.ActiveSystems() {
		e := m.economies[name]
		if e.StepDaily(day, name, m.universe, m.src) {
			slog.Info("economic condition changed",
				"system", name,
				"condition", e.Condition().String(),
				"strength", e.Strength())
			produced = append(produced, Headline{
				System: name,
				Day:    day,
				Text:   e.Headline(),
			})
		}
	}
	for _, h := range produced {
		m.news = append(m.news, h)
	}
	if len(m.news) > MaxNews {
		m.news = m.news[len(m.news)-MaxNews:]
	}
	return produced
}

// RecentNews returns up to limit of the most recent headlines, newest
// last.
func (m *Manager) RecentNews(limit int) []Headline {
	if limit <= 0 || limit > len(m.news) {
		limit = len(m.news)
	}
	out := make([]Headline, limit)
	copy(out, m.news[len(m.news)-limit:])
	return out
}

// Quote returns the full price multiplier for trading a commodity in a
// system: the condition modifier blended by strength, stacked with the
// trader's standing bracket. During lockdown the black-market terms
// replace the condition modifier.
func (m *Manager) Quote(system, commodity string, standing float64, buying bool) float64 {
	e := m.Economy(system)
	var base float64
	if e.BlackMarketOnly() {
		base = e.BlackMarketModifier(buying)
	} else {
		base = e.PriceModifier(commodity, buying)
	}
	return base * StandingModifier(standing, buying)
}

// Restore replaces a system's economy wholesale, for loading saved
// state.
func (m *Manager) Restore(system string, e *SystemEconomy) {
	m.economies[system] = e
}

// AppendNews appends a restored headline without re-deriving it.
func (m *Manager) AppendNews(h Headline) {
	m.news = append(m.news, h)
	if len(m.news) > MaxNews {
		m.news = m.news[len(m.news)-MaxNews:]
	}
}
