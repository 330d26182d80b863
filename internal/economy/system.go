package economy

import (
	"fmt"

	"github.com/geeknik/godels-sky/internal/entropy"
)

// Retention and decay constants.
const (
	MaxEventHistory = 100
	// Counters decay geometrically each day, bounding memory to roughly
	// the trailing one to two weeks without a literal fixed window.
	CounterDecay = 0.85
)

// Universe is the slice of the star map the economy reads: hyperlink
// neighbors for cascades and the scalars that drive background traffic.
// Implemented by galaxy.Map.
type Universe interface {
	Neighbors(system string) []string
	Danger(system string) float64
	Inhabited(system string) bool
	DisplayName(system string) string
}

// SystemEconomy tracks the trade condition of a single star system.
type SystemEconomy struct {
	condition         Condition
	affectedCommodity string // For Shortage/Surplus conditions.
	strength          int    // How entrenched the condition is (0–100).
	conditionDay      int    // Day the condition last changed.

	// Rolling counters, decayed daily before threshold tests.
	merchantLosses float64
	raiderLosses   float64
	tradeVolume    float64
	smuggling      float64

	events []Event

	headline    string
	headlineDay int

	significant bool

	cfg Config
}

// NewSystemEconomy creates a stable economy with the given config.
func NewSystemEconomy(cfg Config) *SystemEconomy {
	cfg.Normalize()
	return &SystemEconomy{cfg: cfg}
}

// Condition returns the current trade condition.
func (e *SystemEconomy) Condition() Condition {
	return e.condition
}

// AffectedCommodity returns the commodity under shortage or surplus,
// or "" when no single commodity is affected.
func (e *SystemEconomy) AffectedCommodity() string {
	return e.affectedCommodity
}

// Strength returns the condition's entrenchment (0–100).
func (e *SystemEconomy) Strength() int {
	return e.strength
}

// ConditionDay returns the day the condition last changed.
func (e *SystemEconomy) ConditionDay() int {
	return e.conditionDay
}

// Config returns the economy's configuration.
func (e *SystemEconomy) Config() Config {
	return e.cfg
}

// Counter accessors, truncated to whole units for threshold display.

func (e *SystemEconomy) MerchantLosses() int { return int(e.merchantLosses) }
func (e *SystemEconomy) RaiderLosses() int   { return int(e.raiderLosses) }
func (e *SystemEconomy) TradeVolume() int    { return int(e.tradeVolume) }
func (e *SystemEconomy) SmugglingLevel() int { return int(e.smuggling) }

// RecentEvents returns the retained event history, oldest first.
func (e *SystemEconomy) RecentEvents() []Event {
	return e.events
}

// Headline returns the most recent news headline, or "".
func (e *SystemEconomy) Headline() string {
	return e.headline
}

// HeadlineDay returns the day the current headline was generated.
func (e *SystemEconomy) HeadlineDay() int {
	return e.headlineDay
}

// HasSignificantChange reports whether the last daily step changed the
// condition.
func (e *SystemEconomy) HasSignificantChange() bool {
	return e.significant
}

// Description returns a player-facing summary of the condition.
func (e *SystemEconomy) Description() string {
	switch e.condition {
	case Stable:
		return "Economy is stable with normal trade activity."
	case Boom:
		return "Trade is flourishing. Better prices for sellers."
	case Bust:
		return "Economic depression. Poor prices for all."
	case Shortage:
		return "Supply shortage of " + e.affectedCommodity + ". Prices elevated."
	case Surplus:
		return "Oversupply of " + e.affectedCommodity + ". Prices depressed."
	case Lockdown:
		return "Trade suspended. Black market only."
	}
	return ""
}

// TradingAllowed reports whether normal trading is open. Lockdown
// routes everything through the black market.
func (e *SystemEconomy) TradingAllowed() bool {
	return e.condition != Lockdown
}

// BlackMarketOnly reports whether only black-market trading operates.
func (e *SystemEconomy) BlackMarketOnly() bool {
	return e.condition == Lockdown
}

// BlackMarketModifier returns the statically configured black-market
// price multiplier for the given trade direction.
func (e *SystemEconomy) BlackMarketModifier(buying bool) float64 {
	if buying {
		return e.cfg.BlackMarketBuyModifier
	}
	return e.cfg.BlackMarketSellModifier
}

// BlackMarketDetectionChance returns the per-transaction probability of
// a black-market trade being detected. Callers sample it against an
// entropy source.
func (e *SystemEconomy) BlackMarketDetectionChance() float64 {
	return e.cfg.BlackMarketDetectionChance
}

// PriceModifier returns the condition-driven price multiplier for a
// commodity. The raw state multiplier is blended toward 1.0 as the
// condition's strength drains.
func (e *SystemEconomy) PriceModifier(commodity string, buying bool) float64 {
	modifier := 1.0

	switch e.condition {
	case Boom:
		if buying {
			modifier = e.cfg.BoomBuyModifier
		} else {
			modifier = e.cfg.BoomSellModifier
		}
	case Bust:
		if buying {
			modifier = e.cfg.BustBuyModifier
		} else {
			modifier = e.cfg.BustSellModifier
		}
	case Shortage:
		if commodity == e.affectedCommodity {
			modifier = e.cfg.ShortageModifier
		}
	case Surplus:
		if commodity == e.affectedCommodity {
			modifier = e.cfg.SurplusModifier
		}
	}

	strengthFactor := float64(e.strength) / 100.0
	return 1.0 + (modifier-1.0)*strengthFactor
}

// StandingModifier returns the price multiplier earned by faction
// standing, in discrete brackets: the best customers get discounts, the
// most hated pay a premium.
func StandingModifier(standing float64, buying bool) float64 {
	switch {
	case standing >= 1000:
		return pick(buying, 0.85, 1.15)
	case standing >= 100:
		return pick(buying, 0.90, 1.10)
	case standing >= 10:
		return pick(buying, 0.95, 1.05)
	case standing <= -1000:
		return pick(buying, 1.20, 0.80)
	case standing <= -100:
		return pick(buying, 1.15, 0.85)
	case standing <= -10:
		return pick(buying, 1.05, 0.95)
	}
	return 1.0
}

func pick(buying bool, buy, sell float64) float64 {
	if buying {
		return buy
	}
	return sell
}

// RecordEvent feeds an event into the rolling counters and retains it
// in the bounded history, oldest evicted first.
func (e *SystemEconomy) RecordEvent(ev Event) {
	e.events = append(e.events, ev)
	if len(e.events) > MaxEventHistory {
		e.events = e.events[1:]
	}

	switch ev.Kind {
	case MerchantDestroyed:
		e.merchantLosses += float64(ev.Magnitude)
	case RaiderDestroyed:
		e.raiderLosses += float64(ev.Magnitude)
	case TradeCompleted, LargePurchase, LargeSale:
		e.tradeVolume += float64(ev.Magnitude)
	case SmugglingDetected:
		e.smuggling += float64(ev.Magnitude)
	}
}

// ForceCondition pushes the system into a condition directly (wars,
// story events). An already-active condition keeps the higher strength.
func (e *SystemEconomy) ForceCondition(c Condition, commodity string, strength int) {
	if e.condition != c {
		e.condition = c
		e.strength = strength
		e.affectedCommodity = commodity
		e.significant = true
	} else {
		if strength > e.strength {
			e.strength = strength
		}
		if commodity != "" {
			e.affectedCommodity = commodity
		}
	}
}

// StepDaily advances the economy one day: counters decay first, then
// background traffic is simulated, then transitions are evaluated, and
// finally recovery drains the active condition. Returns true when the
// condition changed.
func (e *SystemEconomy) StepDaily(day int, system string, u Universe, src entropy.Source) bool {
	e.merchantLosses *= CounterDecay
	e.raiderLosses *= CounterDecay
	e.tradeVolume *= CounterDecay
	e.smuggling *= CounterDecay

	e.simulateTraffic(u, system, src)

	changed := e.evaluateTransition(day, u.DisplayName(system))

	if !changed && e.condition != Stable {
		changed = e.applyRecovery(day, u.DisplayName(system))
	}

	e.significant = changed
	return changed
}

// evaluateTransition tests the counters against their thresholds in
// fixed priority order: losses, then gains, then smuggling. Smuggling
// is evaluated last and unconditionally, so a lockdown overrides a boom
// or bust triggered the same day.
func (e *SystemEconomy) evaluateTransition(day int, displayName string) bool {
	old := e.condition

	if e.condition == Stable || e.condition == Bust {
		if e.merchantLosses >= float64(e.cfg.MerchantLossThreshold) {
			e.condition = Bust
			e.strength = min100(int(e.merchantLosses) * 10)
			e.conditionDay = day
		}
	}

	if e.condition == Stable || e.condition == Boom {
		if e.raiderLosses >= float64(e.cfg.RaiderLossThreshold) {
			e.condition = Boom
			e.strength = min100(int(e.raiderLosses) * 5)
			e.conditionDay = day
		} else if e.tradeVolume >= float64(e.cfg.TradeVolumeThreshold) {
			e.condition = Boom
			e.strength = min100(int(e.tradeVolume) / 50)
			e.conditionDay = day
		}
	}

	if e.smuggling >= float64(e.cfg.SmugglingThreshold) {
		e.condition = Lockdown
		e.strength = min100(int(e.smuggling) * 2)
		e.conditionDay = day
	}

	if e.condition != old {
		e.generateHeadline(old, e.condition, displayName, day)
		return true
	}
	return false
}

// applyRecovery drains the active condition's strength; at zero the
// system snaps back to Stable and the affected commodity clears.
func (e *SystemEconomy) applyRecovery(day int, displayName string) bool {
	if e.condition == Stable {
		return false
	}

	recoveryDays := 14
	switch e.condition {
	case Boom:
		recoveryDays = e.cfg.BoomRecoveryDays
	case Bust:
		recoveryDays = e.cfg.BustRecoveryDays
	case Shortage:
		recoveryDays = e.cfg.ShortageRecoveryDays
	case Surplus:
		recoveryDays = e.cfg.SurplusRecoveryDays
	case Lockdown:
		recoveryDays = e.cfg.LockdownRecoveryDays
	}

	daily := 100 / recoveryDays
	if daily < 1 {
		daily = 1
	}
	e.strength -= daily
	if e.strength <= 0 {
		e.strength = 0
		old := e.condition
		e.condition = Stable
		e.affectedCommodity = ""
		e.conditionDay = day
		e.generateHeadline(old, Stable, displayName, day)
		return true
	}
	return false
}

// simulateTraffic adds background NPC activity: danger-scaled merchant
// and raider losses plus baseline trade volume for inhabited systems,
// modulated by the current condition.
func (e *SystemEconomy) simulateTraffic(u Universe, system string, src entropy.Source) {
	danger := u.Danger(system)

	if danger > 0 && src.Float() < danger*0.001 {
		losses := 1 + int(src.Float()*danger*0.01)
		e.merchantLosses += float64(losses)
	}

	if danger > 0 && src.Float() < 0.1 {
		kills := int(src.Float() * 2)
		if kills > 0 {
			e.raiderLosses += float64(kills)
		}
	}

	if u.Inhabited(system) {
		traffic := 100.0 + src.Normal()*50.0
		switch e.condition {
		case Boom:
			traffic *= 1.5
		case Bust:
			traffic *= 0.5
		case Lockdown:
			traffic *= 0.1
		}
		if traffic > 0 {
			e.tradeVolume += traffic
		}
	}
}

// generateHeadline writes the news line for a condition change.
func (e *SystemEconomy) generateHeadline(old, next Condition, systemName string, day int) {
	switch next {
	case Stable:
		switch old {
		case Boom:
			e.headline = fmt.Sprintf("Economic growth stabilizes in %s.", systemName)
		case Bust:
			e.headline = fmt.Sprintf("Economy recovers in %s as trade resumes.", systemName)
		case Lockdown:
			e.headline = fmt.Sprintf("Trade restrictions lifted in %s.", systemName)
		default:
			e.headline = fmt.Sprintf("Markets return to normal in %s.", systemName)
		}
	case Boom:
		e.headline = fmt.Sprintf("Trade flourishing in %s. Merchants report record profits.", systemName)
	case Bust:
		e.headline = fmt.Sprintf("Economic crisis in %s. Merchants warn of convoy losses.", systemName)
	case Shortage:
		e.headline = fmt.Sprintf("Supply shortage reported in %s. %s prices soaring.",
			systemName, e.affectedCommodity)
	case Surplus:
		e.headline = fmt.Sprintf("Market glut in %s. %s prices plummeting.",
			systemName, e.affectedCommodity)
	case Lockdown:
		e.headline = fmt.Sprintf("Authorities impose trade lockdown in %s. Only black market operating.",
			systemName)
	}
	e.headlineDay = day
}

// Reset clears all state back to a fresh stable economy.
func (e *SystemEconomy) Reset() {
	cfg := e.cfg
	*e = SystemEconomy{cfg: cfg}
}

func min100(v int) int {
	if v > 100 {
		return 100
	}
	return v
}
