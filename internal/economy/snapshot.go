package economy

// Snapshot is the serializable image of a system economy. Counters are
// kept as floats so decay state survives a save/load round trip
// exactly.
type Snapshot struct {
	Condition         string  `json:"condition"`
	AffectedCommodity string  `json:"affected_commodity,omitempty"`
	Strength          int     `json:"strength"`
	ConditionDay      int     `json:"condition_day"`
	MerchantLosses    float64 `json:"merchant_losses"`
	RaiderLosses      float64 `json:"raider_losses"`
	TradeVolume       float64 `json:"trade_volume"`
	Smuggling         float64 `json:"smuggling"`
	Events            []Event `json:"events,omitempty"`
	Headline          string  `json:"headline,omitempty"`
	HeadlineDay       int     `json:"headline_day"`
}

// Snapshot captures the economy's full state.
func (e *SystemEconomy) Snapshot() Snapshot {
	events := make([]Event, len(e.events))
	copy(events, e.events)
	return Snapshot{
		Condition:         e.condition.String(),
		AffectedCommodity: e.affectedCommodity,
		Strength:          e.strength,
		ConditionDay:      e.conditionDay,
		MerchantLosses:    e.merchantLosses,
		RaiderLosses:      e.raiderLosses,
		TradeVolume:       e.tradeVolume,
		Smuggling:         e.smuggling,
		Events:            events,
		Headline:          e.headline,
		HeadlineDay:       e.headlineDay,
	}
}

// FromSnapshot rebuilds a system economy from a saved image.
func FromSnapshot(cfg Config, s Snapshot) *SystemEconomy {
	e := NewSystemEconomy(cfg)
	e.condition = ParseCondition(s.Condition)
	e.affectedCommodity = s.AffectedCommodity
	e.strength = s.Strength
	e.conditionDay = s.ConditionDay
	e.merchantLosses = s.MerchantLosses
	e.raiderLosses = s.RaiderLosses
	e.tradeVolume = s.TradeVolume
	e.smuggling = s.Smuggling
	e.events = append(e.events, s.Events...)
	e.headline = s.Headline
	e.headlineDay = s.HeadlineDay
	return e
}
