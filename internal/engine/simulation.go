// Simulation ties the consequence systems together and runs them each
// tick: who saw an act, who hears about it, and what it does to
// standings and markets.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/geeknik/godels-sky/internal/economy"
	"github.com/geeknik/godels-sky/internal/faction"
	"github.com/geeknik/godels-sky/internal/galaxy"
	"github.com/geeknik/godels-sky/internal/journal"
	"github.com/geeknik/godels-sky/internal/reputation"
	"github.com/geeknik/godels-sky/internal/witness"
)

// MaxSimEvents bounds the retained event feed.
const MaxSimEvents = 1000

// Simulation holds the complete consequence state and wires systems
// together.
type Simulation struct {
	Galaxy     *galaxy.Map
	Factions   *faction.Directory
	Reputation *reputation.Manager
	Economy    *economy.Manager
	Detector   *witness.Detector
	Reports    *witness.Queue
	Actions    *journal.ActionLog
	Encounters *journal.EncounterBook

	Events   []Event // Recent events (ring buffer in production)
	LastTick uint64  // Most recent tick processed
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "reputation", "economy", "report", etc.
}

// NewSimulation creates a Simulation from generated components.
func NewSimulation(g *galaxy.Map, dir *faction.Directory, eco *economy.Manager, det *witness.Detector) *Simulation {
	return &Simulation{
		Galaxy:     g,
		Factions:   dir,
		Reputation: reputation.NewManager(),
		Economy:    eco,
		Detector:   det,
		Reports:    witness.NewQueue(),
		Actions:    journal.NewActionLog(),
		Encounters: journal.NewEncounterBook(),
	}
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// CurrentDay returns the simulation day of the most recent tick.
func (s *Simulation) CurrentDay() int {
	return SimDay(s.LastTick)
}

// Action describes one player act for consequence processing.
type Action struct {
	Kind           journal.ActionKind
	System         string
	Perpetrator    witness.Contact
	Victim         witness.Contact
	Bystanders     []witness.Contact // Everyone else in the system.
	CrewKilled     int
	ValueDestroyed int64
	CargoTons      int // For trades and smuggling.
	Commodity      string
}

// Outcome summarizes what a handled action set in motion.
type Outcome struct {
	Witnessed      bool
	Clarity        float64
	ReportsQueued  int
	Suppressible   bool
	WitnessIDs     []uuid.UUID
	EconomicEvents int
}

// HandleAction is the single entry point for player acts. It detects
// witnesses, journals the act, updates the victim captain's memory,
// feeds the local economy, and queues delayed reputation reports for
// every faction that saw it and chose to tell. An unseen act costs no
// standing.
func (s *Simulation) HandleAction(act Action) Outcome {
	day := s.CurrentDay()
	result := s.Detector.Detect(act.Perpetrator, act.Victim, act.Bystanders)

	out := Outcome{
		Witnessed:    result.HasWitnesses(),
		Clarity:      result.MaxClarity(),
		Suppressible: result.Suppressible(),
		WitnessIDs:   result.SuppressibleWitnesses(),
	}

	s.Actions.Record(journal.ActionRecord{
		Day:            day,
		Kind:           act.Kind,
		TargetFaction:  act.Victim.Faction,
		System:         act.System,
		CrewKilled:     act.CrewKilled,
		ValueDestroyed: act.ValueDestroyed,
		Witnessed:      out.Witnessed,
	})

	s.recordEncounter(act, day)
	out.EconomicEvents = s.recordEconomicEvents(act, day)

	if hostile(act.Kind) && out.Witnessed {
		out.ReportsQueued = s.queueReports(act, result, out.Clarity)
	}

	// Helping a ship pays off immediately. The assisted captain does
	// not need a third party to tell them what happened.
	if act.Kind&journal.ActionAssist != 0 && act.Victim.Faction != "" {
		const assistGain = 2.0
		if current, ok := s.Factions.Standing(act.Victim.Faction); ok {
			s.Factions.SetStanding(act.Victim.Faction, current+assistGain)
		}
		s.Reputation.RecordGoodDeed(act.Victim.Faction, day)
		s.Reputation.RecordChange(s.Factions, act.Victim.Faction, day, assistGain,
			fmt.Sprintf("assisted a ship in %s", s.Galaxy.DisplayName(act.System)),
			false, out.Witnessed)
	}

	if out.Witnessed {
		slog.Info("action witnessed",
			"kind", int(act.Kind),
			"system", act.System,
			"witnesses", result.Count(),
			"clarity", fmt.Sprintf("%.2f", out.Clarity),
			"reports", out.ReportsQueued)
	}
	return out
}

// hostile reports whether an action kind draws reputation penalties
// when seen.
func hostile(kind journal.ActionKind) bool {
	const hostileMask = journal.ActionProvoke | journal.ActionDisable |
		journal.ActionBoard | journal.ActionCapture |
		journal.ActionDestroy | journal.ActionAtrocity
	return kind&hostileMask != 0
}

// impactFor translates an action into a reputation change with the
// witnessing faction. Clarity scales the penalty: a half-seen act
// draws half the blame.
func impactFor(act Action, clarity float64) float64 {
	impact := 0.0
	if act.Kind&journal.ActionProvoke != 0 {
		impact -= 1
	}
	if act.Kind&journal.ActionDisable != 0 {
		impact -= 5
	}
	if act.Kind&journal.ActionBoard != 0 {
		impact -= 8
	}
	if act.Kind&journal.ActionCapture != 0 {
		impact -= 12
	}
	if act.Kind&journal.ActionDestroy != 0 {
		impact -= 15
	}
	if act.Kind&journal.ActionAtrocity != 0 {
		impact -= 40
	}
	impact -= float64(act.CrewKilled) * 0.5
	return impact * clarity
}

// queueReports pushes one delayed report per faction that witnessed
// the act and chose to report it.
func (s *Simulation) queueReports(act Action, result *witness.Result, clarity float64) int {
	queued := 0
	for _, fname := range result.ReportingFactions(s.Detector, act.Victim.Faction) {
		var ids []uuid.UUID
		for _, sight := range result.Sightings() {
			if sight.Witness.Faction == fname {
				ids = append(ids, sight.Witness.ID)
			}
		}
		// Secondhand grievance. A faction reporting a crime against
		// someone else's ships takes it less personally.
		impact := impactFor(act, clarity)
		if fname != act.Victim.Faction {
			impact *= s.Reputation.Config(fname).AllyFactor
		}
		s.Reports.Push(witness.Report{
			ReportingFaction: fname,
			VictimFaction:    act.Victim.Faction,
			Kind:             int(act.Kind),
			System:           act.System,
			Impact:           impact,
			Suppressible:     true,
			Witnesses:        ids,
		})
		queued++
	}
	return queued
}

// recordEncounter updates the victim captain's memory of the player.
func (s *Simulation) recordEncounter(act Action, day int) {
	if act.Victim.ID == uuid.Nil {
		return
	}
	rec := s.Encounters.Meet(act.Victim.ID, act.Victim.Name, act.Victim.Faction, act.System, day)
	if hostile(act.Kind) {
		rec.Attacks++
	}
	if act.Kind&journal.ActionDisable != 0 {
		rec.Disabled = true
	}
	if act.Kind&journal.ActionBoard != 0 {
		rec.Boarded = true
	}
	if act.Kind&journal.ActionAssist != 0 {
		rec.Assists++
		rec.Assisted = true
	}
	if act.Kind&journal.ActionTrade != 0 {
		rec.Trades++
	}
}

// recordEconomicEvents maps an action onto system economy events.
func (s *Simulation) recordEconomicEvents(act Action, day int) int {
	count := 0
	record := func(kind economy.EventKind, magnitude int, commodity string) {
		s.Economy.RecordEvent(act.System, economy.Event{
			Day:          day,
			Kind:         kind,
			Magnitude:    magnitude,
			Commodity:    commodity,
			PlayerCaused: true,
		})
		count++
	}

	if act.Kind&journal.ActionDestroy != 0 {
		if s.Factions.HostileToPlayer(act.Victim.Faction) {
			record(economy.RaiderDestroyed, 1, "")
		} else {
			record(economy.MerchantDestroyed, 1, "")
		}
	}
	if act.Kind&journal.ActionTrade != 0 && act.CargoTons > 0 {
		record(economy.TradeCompleted, act.CargoTons, act.Commodity)
	}
	if act.Kind&journal.ActionSmuggle != 0 && act.CargoTons > 0 &&
		s.Economy.SmuggleDetected(act.System) {
		record(economy.SmugglingDetected, act.CargoTons, act.Commodity)
	}
	return count
}

// NotifyShipDestroyed strips a destroyed ship from every pending
// report and drops the captain from the encounter book. Destroying the
// last witness of a suppressible report buries it.
func (s *Simulation) NotifyShipDestroyed(id uuid.UUID) {
	s.Reports.NotifyDestroyed(id)
	s.Encounters.Forget(id)
}

// TickMinute runs every tick: report countdowns and deliveries.
func (s *Simulation) TickMinute(tick uint64) {
	s.LastTick = tick
	for _, report := range s.Reports.Step() {
		s.deliverReport(report)
	}
}

// deliverReport lands a matured report: the reporting faction's
// standing takes the hit and the event enters its reputation history.
func (s *Simulation) deliverReport(r witness.Report) {
	day := s.CurrentDay()
	atrocity := journal.ActionKind(r.Kind)&journal.ActionAtrocity != 0

	if current, ok := s.Factions.Standing(r.ReportingFaction); ok {
		s.Factions.SetStanding(r.ReportingFaction, current+r.Impact)
	}
	s.Reputation.RecordChange(s.Factions, r.ReportingFaction, day, r.Impact,
		fmt.Sprintf("reported hostility in %s", s.Galaxy.DisplayName(r.System)),
		atrocity, true)
	if atrocity {
		s.Reputation.RecordAtrocity(r.ReportingFaction, day)
	}

	s.Events = append(s.Events, Event{
		Tick:        s.LastTick,
		Description: fmt.Sprintf("%s received a report of hostility in %s", r.ReportingFaction, s.Galaxy.DisplayName(r.System)),
		Category:    "report",
	})

	slog.Info("report delivered",
		"faction", r.ReportingFaction,
		"system", r.System,
		"impact", fmt.Sprintf("%.1f", r.Impact))
}

// TickHour runs every sim-hour. Reserved for autosave wiring in main.
func (s *Simulation) TickHour(tick uint64) {
	s.LastTick = tick
}

// TickDay runs every sim-day: reputation decay, economic recovery and
// condition transitions, and the daily report line.
func (s *Simulation) TickDay(tick uint64) {
	s.LastTick = tick
	day := SimDay(tick)

	crossings := s.Reputation.StepDaily(day, s.Factions)
	for _, c := range crossings {
		s.Events = append(s.Events, Event{
			Tick:        tick,
			Description: fmt.Sprintf("standing with %s is now %s", c.Faction, c.To.String()),
			Category:    "reputation",
		})
	}

	for _, h := range s.Economy.StepDaily(day) {
		s.Events = append(s.Events, Event{
			Tick:        tick,
			Description: h.Text,
			Category:    "economy",
		})
	}

	slog.Info("daily report",
		"tick", tick,
		"time", SimTime(tick),
		"day", day,
		"pattern", s.Actions.Pattern(day).String(),
		"pending_reports", s.Reports.Len(),
		"tracked_economies", len(s.Economy.ActiveSystems()),
	)
}

// TickWeek runs every sim-week: summary and event trimming.
func (s *Simulation) TickWeek(tick uint64) {
	s.LastTick = tick
	slog.Info("weekly summary",
		"tick", tick,
		"time", SimTime(tick),
		"events_this_week", len(s.Events),
		"known_captains", s.Encounters.Len(),
	)
	if len(s.Events) > MaxSimEvents {
		s.Events = s.Events[len(s.Events)-MaxSimEvents:]
	}
}
