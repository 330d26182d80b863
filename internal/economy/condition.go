package economy

// Condition is a system's trade condition. Conditions naturally drift
// back toward Stable as their strength drains.
type Condition int8

const (
	Stable   Condition = iota // Normal economy, baseline prices
	Boom                      // Thriving trade: better sells, cheaper buys
	Bust                      // Depressed economy: worse prices all around
	Shortage                  // Supply crisis: one commodity expensive
	Surplus                   // Oversupply: one commodity cheap
	Lockdown                  // Trade suspended: black market only
)

var conditionNames = map[Condition]string{
	Stable:   "stable",
	Boom:     "boom",
	Bust:     "bust",
	Shortage: "shortage",
	Surplus:  "surplus",
	Lockdown: "lockdown",
}

// String returns the persistent name of a condition.
func (c Condition) String() string {
	if name, ok := conditionNames[c]; ok {
		return name
	}
	return "unknown"
}

// DisplayName returns the condition name used in headlines and UI.
func (c Condition) DisplayName() string {
	switch c {
	case Stable:
		return "Stable"
	case Boom:
		return "Booming"
	case Bust:
		return "Depressed"
	case Shortage:
		return "Shortage"
	case Surplus:
		return "Surplus"
	case Lockdown:
		return "Lockdown"
	}
	return "Unknown"
}

// ParseCondition resolves a persisted condition name; unknown names
// fall back to Stable rather than failing the load.
func ParseCondition(name string) Condition {
	for c, n := range conditionNames {
		if n == name {
			return c
		}
	}
	return Stable
}
