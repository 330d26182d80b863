// Package economy implements per-system trade conditions: a threshold-
// driven state machine fed by decaying activity counters, price
// modifiers, black-market rules, and cascading effects across the
// hyperlink graph.
package economy

// EventKind categorizes economic events that can affect system state.
type EventKind int8

const (
	MerchantDestroyed EventKind = iota // Merchant ship destroyed in system
	RaiderDestroyed                    // Hostile-faction ship destroyed
	TradeCompleted                     // Trade transaction completed
	LargePurchase                      // Player bought significant cargo
	LargeSale                          // Player sold significant cargo
	SmugglingDetected                  // Illegal cargo detected
	ConvoyAttacked                     // Multiple merchants attacked
	BlockadeActive                     // System is blockaded
	ReliefDelivered                    // Humanitarian aid delivered
	WarStarted                         // War declared affecting region
	WarEnded                           // Peace restored
)

var eventKindNames = map[EventKind]string{
	MerchantDestroyed: "merchant destroyed",
	RaiderDestroyed:   "raider destroyed",
	TradeCompleted:    "trade completed",
	LargePurchase:     "large purchase",
	LargeSale:         "large sale",
	SmugglingDetected: "smuggling detected",
	ConvoyAttacked:    "convoy attacked",
	BlockadeActive:    "blockade active",
	ReliefDelivered:   "relief delivered",
	WarStarted:        "war started",
	WarEnded:          "war ended",
}

// String returns the persistent name of an event kind.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseEventKind resolves a persisted kind name. Unknown names map to
// TradeCompleted, the neutral default, rather than failing the load.
func ParseEventKind(name string) EventKind {
	for kind, n := range eventKindNames {
		if n == name {
			return kind
		}
	}
	return TradeCompleted
}

// Event is an immutable record of an economic occurrence. Retained only
// for display and audit; the counters consume it on record.
type Event struct {
	Day          int       `json:"day"`
	Kind         EventKind `json:"kind"`
	Magnitude    int       `json:"magnitude"`
	Commodity    string    `json:"commodity,omitempty"`
	PlayerCaused bool      `json:"player_caused,omitempty"`
}
