// Package reputation implements per-faction standing decay, threshold
// classification, and atrocity bookkeeping. The standing scalar itself
// is owned by the faction directory; this engine observes it and
// requests mutation through the Ledger interface.
package reputation

// Threshold is a named band of standing values that triggers special
// behavior. The numeric value of each constant is its breakpoint.
type Threshold int

const (
	War        Threshold = -100 // Permanent enemy status.
	Hostile    Threshold = -50  // Attacks on sight.
	Unfriendly Threshold = -25  // Denies services but does not attack.
	Neutral    Threshold = 0    // Default state.
	Friendly   Threshold = 25   // May offer assistance.
	Allied     Threshold = 50   // Will defend the player.
	Honored    Threshold = 100  // Maximum positive standing.
)

// Classify returns the threshold band for a standing value. This is a
// pure lookup, recomputed from the raw value on every call; there is no
// stored "current threshold" to drift out of sync.
func Classify(standing float64) Threshold {
	switch {
	case standing <= float64(War):
		return War
	case standing <= float64(Hostile):
		return Hostile
	case standing <= float64(Unfriendly):
		return Unfriendly
	case standing < float64(Friendly):
		return Neutral
	case standing < float64(Allied):
		return Friendly
	case standing < float64(Honored):
		return Allied
	default:
		return Honored
	}
}

// String returns the display name of a threshold band.
func (t Threshold) String() string {
	switch t {
	case War:
		return "at war"
	case Hostile:
		return "hostile"
	case Unfriendly:
		return "unfriendly"
	case Neutral:
		return "neutral"
	case Friendly:
		return "friendly"
	case Allied:
		return "allied"
	case Honored:
		return "honored"
	}
	return "unknown"
}

// CrossesThreshold reports whether moving from one standing value to
// another changes the threshold classification.
func CrossesThreshold(oldStanding, newStanding float64) (from, to Threshold, crossed bool) {
	from = Classify(oldStanding)
	to = Classify(newStanding)
	return from, to, from != to
}
