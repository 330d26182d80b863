package reputation

// Event is one significant standing change, kept for history. Days are
// absolute simulation-day numbers.
type Event struct {
	Day       int     `json:"day"`
	Change    float64 `json:"change"`
	Reason    string  `json:"reason,omitempty"`
	Atrocity  bool    `json:"atrocity,omitempty"`
	Witnessed bool    `json:"witnessed"`
}

// State is the per-faction standing history envelope. Created lazily on
// first interaction and owned exclusively by the Manager; it is never
// destroyed, only cleared on game reset.
type State struct {
	// Day of the most recent interaction (0 = never).
	LastInteraction int `json:"last_interaction"`

	// Whether the player has committed an unforgiven atrocity, and when.
	HasAtrocity bool `json:"has_atrocity"`
	AtrocityDay int  `json:"atrocity_day"`

	// Count of good deeds performed; slows decay.
	GoodDeeds int `json:"good_deeds"`

	// Recent standing changes, oldest first, capped at MaxEventHistory.
	Events []Event `json:"events"`

	// Highest and lowest standing ever observed.
	Peak   float64 `json:"peak"`
	Trough float64 `json:"trough"`

	// Days since the last positive interaction.
	DaysSincePositive int `json:"days_since_positive"`
}

// RecordEvent appends an event and updates the interaction bookkeeping.
func (s *State) RecordEvent(e Event) {
	s.Events = append(s.Events, e)
	s.LastInteraction = e.Day

	if e.Change > 0 {
		s.DaysSincePositive = 0
	}
	if e.Atrocity {
		s.HasAtrocity = true
		s.AtrocityDay = e.Day
	}
}

// TrimHistory drops the oldest events beyond the retention cap.
func (s *State) TrimHistory(max int) {
	if len(s.Events) > max {
		s.Events = s.Events[len(s.Events)-max:]
	}
}
