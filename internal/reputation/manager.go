package reputation

import (
	"log/slog"
	"math"
	"sort"
)

// Ledger is the faction directory's standing accessor. The scalar is
// owned there; this engine reads it and requests mutation, keeping a
// single source of truth between engines.
type Ledger interface {
	// Standing returns a faction's current standing. The second result
	// is false for unknown factions.
	Standing(faction string) (float64, bool)
	// SetStanding overwrites a faction's standing.
	SetStanding(faction string, v float64)
}

// Crossing records the player moving between threshold bands.
type Crossing struct {
	Faction     string    `json:"faction"`
	From        Threshold `json:"from"`
	To          Threshold `json:"to"`
	Day         int       `json:"day"`
	OldStanding float64   `json:"old_standing"`
	NewStanding float64   `json:"new_standing"`
}

// Manager tracks standing meta-state for every faction the player has
// interacted with: decay, memory, good deeds, atrocities. It nudges the
// standing scalar each day but never owns it.
type Manager struct {
	defaultConfig Config
	configs       map[string]Config
	states        map[string]*State
}

// NewManager creates a manager with default configuration.
func NewManager() *Manager {
	return &Manager{
		defaultConfig: DefaultConfig(),
		configs:       make(map[string]Config),
		states:        make(map[string]*State),
	}
}

// SetDefaultConfig replaces the process-wide fallback configuration.
func (m *Manager) SetDefaultConfig(cfg Config) {
	cfg.Normalize()
	m.defaultConfig = cfg
}

// SetConfig installs a per-faction configuration override.
func (m *Manager) SetConfig(faction string, cfg Config) {
	cfg.Normalize()
	m.configs[faction] = cfg
}

// DefaultConfig returns the manager-wide default configuration.
func (m *Manager) DefaultConfig() Config {
	return m.defaultConfig
}

// ConfigOverrides returns a copy of the per-faction config overrides.
func (m *Manager) ConfigOverrides() map[string]Config {
	out := make(map[string]Config, len(m.configs))
	for name, cfg := range m.configs {
		out[name] = cfg
	}
	return out
}

// Config returns the configuration for a faction, falling back to the
// default when no override is set.
func (m *Manager) Config(faction string) Config {
	if cfg, ok := m.configs[faction]; ok {
		return cfg
	}
	return m.defaultConfig
}

// State returns the stored state for a faction, or nil when the player
// has never interacted with it. Nil is a valid answer, not a fault.
func (m *Manager) State(faction string) *State {
	return m.states[faction]
}

// ensureState creates state lazily on first interaction.
func (m *Manager) ensureState(faction string) *State {
	s, ok := m.states[faction]
	if !ok {
		s = &State{}
		m.states[faction] = s
	}
	return s
}

// RestoreState installs a saved state for a faction, replacing any
// existing one.
func (m *Manager) RestoreState(faction string, s *State) {
	m.states[faction] = s
}

// KnownFactions returns every faction with recorded state, sorted.
func (m *Manager) KnownFactions() []string {
	names := make([]string, 0, len(m.states))
	for name := range m.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear drops all state and per-faction configs (game reset).
func (m *Manager) Clear() {
	m.configs = make(map[string]Config)
	m.states = make(map[string]*State)
}

// StepDaily applies one day of decay/recovery to every known faction
// and returns any threshold crossings that occurred.
func (m *Manager) StepDaily(day int, ledger Ledger) []Crossing {
	var crossings []Crossing

	for _, name := range m.KnownFactions() {
		state := m.states[name]
		state.DaysSincePositive++

		current, ok := ledger.Standing(name)
		if !ok {
			continue
		}

		next := m.applyDecay(name, current)

		if from, to, crossed := CrossesThreshold(current, next); crossed {
			crossings = append(crossings, Crossing{
				Faction:     name,
				From:        from,
				To:          to,
				Day:         day,
				OldStanding: current,
				NewStanding: next,
			})
			slog.Info("reputation threshold crossed",
				"faction", name, "from", from.String(), "to", to.String())
		}

		if next != current {
			ledger.SetStanding(name, next)
		}

		// Time heals atrocities only where the faction allows it.
		if state.HasAtrocity {
			cfg := m.Config(name)
			if cfg.ForgivesAtrocities && state.AtrocityDay > 0 &&
				day-state.AtrocityDay >= cfg.AtrocityForgivenessDays {
				state.HasAtrocity = false
				slog.Info("atrocity forgiven", "faction", name, "day", day)
			}
		}

		state.TrimHistory(MaxEventHistory)
	}

	return crossings
}

// RecordChange appends a standing event and updates peak/trough
// tracking. It does not move the standing value itself; that remains
// the caller's responsibility via the ledger.
func (m *Manager) RecordChange(ledger Ledger, faction string, day int, change float64,
	reason string, atrocity, witnessed bool) {
	state := m.ensureState(faction)
	state.RecordEvent(Event{
		Day:       day,
		Change:    change,
		Reason:    reason,
		Atrocity:  atrocity,
		Witnessed: witnessed,
	})

	if current, ok := ledger.Standing(faction); ok {
		if current > state.Peak {
			state.Peak = current
		}
		if current < state.Trough {
			state.Trough = current
		}
	}
}

// RecordGoodDeed counts a goodwill act, which slows future decay.
func (m *Manager) RecordGoodDeed(faction string, day int) {
	state := m.ensureState(faction)
	state.GoodDeeds++
	state.LastInteraction = day
	state.DaysSincePositive = 0
}

// RecordAtrocity flags a severe violation; recovery slows sharply until
// the faction forgives it (if it ever does).
func (m *Manager) RecordAtrocity(faction string, day int) {
	state := m.ensureState(faction)
	state.HasAtrocity = true
	state.AtrocityDay = day
	state.LastInteraction = day
}

// HasUnforgivenAtrocity reports whether an atrocity is outstanding
// against a faction that never forgives.
func (m *Manager) HasUnforgivenAtrocity(faction string) bool {
	state := m.states[faction]
	if state == nil || !state.HasAtrocity {
		return false
	}
	return !m.Config(faction).ForgivesAtrocities
}

// EffectiveDecayRate is the positive-side decay rate after memory
// strength, good deeds, and recent positive contact are applied.
func (m *Manager) EffectiveDecayRate(faction string) float64 {
	cfg := m.Config(faction)
	rate := cfg.PositiveDecayRate

	if state := m.states[faction]; state != nil {
		// Strong memory holds on to earned goodwill.
		rate *= 1 - cfg.MemoryStrength

		if state.GoodDeeds > 0 {
			reduction := math.Min(0.5, float64(state.GoodDeeds)*0.05)
			rate *= 1 - reduction
		}

		// A positive interaction within the last week slows decay,
		// ramping from no effect at 7 days to a 30% cut at 0 days.
		if state.DaysSincePositive < 7 {
			reduction := 0.3 * (1 - float64(state.DaysSincePositive)/7.0)
			rate *= 1 - reduction
		}
	}

	return math.Max(0, rate)
}

// EffectiveRecoveryRate is the negative-side recovery rate after
// atrocity and absence effects are applied.
func (m *Manager) EffectiveRecoveryRate(faction string) float64 {
	cfg := m.Config(faction)
	rate := cfg.NegativeRecoveryRate

	if state := m.states[faction]; state != nil {
		if state.HasAtrocity {
			rate *= 0.1
		}

		// Staying away for over a month lets grudges soften faster.
		if state.DaysSincePositive > 30 {
			bonus := math.Min(0.5, float64(state.DaysSincePositive-30)*0.01)
			rate *= 1 + bonus
		}
	}

	return math.Max(0, rate)
}

// RecentEvents returns events for a faction within the trailing window.
func (m *Manager) RecentEvents(faction string, day, days int) []Event {
	state := m.states[faction]
	if state == nil {
		return nil
	}

	var result []Event
	for _, e := range state.Events {
		age := day - e.Day
		if age >= 0 && age <= days {
			result = append(result, e)
		}
	}
	return result
}

// applyDecay drifts one faction's standing toward its neutral point,
// never overshooting the baseline in either direction.
func (m *Manager) applyDecay(faction string, current float64) float64 {
	neutral := m.Config(faction).NeutralPoint

	if current > neutral {
		decay := (current - neutral) * m.EffectiveDecayRate(faction)
		return math.Max(neutral, current-decay)
	}
	if current < neutral {
		recovery := (neutral - current) * m.EffectiveRecoveryRate(faction)
		return math.Min(neutral, current+recovery)
	}
	return current
}
