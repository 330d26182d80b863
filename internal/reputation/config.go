package reputation

// Default configuration values.
const (
	MaxEventHistory     = 50
	DefaultDecayRate    = 0.01
	DefaultRecoveryRate = 0.005
)

// Config tunes how a faction handles standing decay and recovery.
// Factions without an explicit config fall back to the manager's
// default; malformed values are clamped, never rejected.
type Config struct {
	// Rate at which positive standing decays toward the neutral point
	// per day, as a fraction of the surplus above neutral. 0 = no decay.
	PositiveDecayRate float64 `json:"positive_decay_rate"`

	// Rate at which negative standing recovers toward neutral per day.
	NegativeRecoveryRate float64 `json:"negative_recovery_rate"`

	// The point toward which standing drifts. Usually 0, but some
	// factions hold a different baseline disposition.
	NeutralPoint float64 `json:"neutral_point"`

	// Whether this faction ever forgives atrocities with time.
	ForgivesAtrocities bool `json:"forgives_atrocities"`

	// Days required before an atrocity is forgiven (if ever).
	AtrocityForgivenessDays int `json:"atrocity_forgiveness_days"`

	// How much standing changes bleed into allied factions (0–1).
	AllyFactor float64 `json:"ally_factor"`

	// How strongly the faction remembers the player; slows decay.
	// 0 = forgets quickly, 1 = never forgets.
	MemoryStrength float64 `json:"memory_strength"`
}

// DefaultConfig returns the process-wide fallback configuration.
func DefaultConfig() Config {
	return Config{
		PositiveDecayRate:       DefaultDecayRate,
		NegativeRecoveryRate:    DefaultRecoveryRate,
		NeutralPoint:            0,
		ForgivesAtrocities:      false,
		AtrocityForgivenessDays: 365,
		AllyFactor:              0.5,
		MemoryStrength:          0.5,
	}
}

// Normalize clamps out-of-range values to usable ones. Invalid config
// is a data problem, not an error condition.
func (c *Config) Normalize() {
	if c.PositiveDecayRate < 0 {
		c.PositiveDecayRate = 0
	}
	if c.NegativeRecoveryRate < 0 {
		c.NegativeRecoveryRate = 0
	}
	if c.AtrocityForgivenessDays < 1 {
		c.AtrocityForgivenessDays = 1
	}
	if c.MemoryStrength < 0 {
		c.MemoryStrength = 0
	} else if c.MemoryStrength > 1 {
		c.MemoryStrength = 1
	}
	if c.AllyFactor < 0 {
		c.AllyFactor = 0
	} else if c.AllyFactor > 1 {
		c.AllyFactor = 1
	}
}
