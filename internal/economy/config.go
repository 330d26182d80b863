package economy

// Config tunes how a system's economy behaves. All systems share the
// orchestrator's default unless overridden per system.
type Config struct {
	// Days required for each condition to drain back to stable.
	BoomRecoveryDays     int `json:"boom_recovery_days"`
	BustRecoveryDays     int `json:"bust_recovery_days"`
	ShortageRecoveryDays int `json:"shortage_recovery_days"`
	SurplusRecoveryDays  int `json:"surplus_recovery_days"`
	LockdownRecoveryDays int `json:"lockdown_recovery_days"`

	// Counter thresholds that trip condition changes.
	MerchantLossThreshold int `json:"merchant_loss_threshold"` // Losses → BUST
	RaiderLossThreshold   int `json:"raider_loss_threshold"`   // Kills → BOOM
	TradeVolumeThreshold  int `json:"trade_volume_threshold"`  // Tons → BOOM
	SmugglingThreshold    int `json:"smuggling_threshold"`     // Units → LOCKDOWN
	BulkTradeThreshold    int `json:"bulk_trade_threshold"`    // Tons → SHORTAGE/SURPLUS

	// Price multipliers for each condition.
	BoomBuyModifier   float64 `json:"boom_buy_modifier"`
	BoomSellModifier  float64 `json:"boom_sell_modifier"`
	BustBuyModifier   float64 `json:"bust_buy_modifier"`
	BustSellModifier  float64 `json:"bust_sell_modifier"`
	ShortageModifier  float64 `json:"shortage_modifier"`
	SurplusModifier   float64 `json:"surplus_modifier"`

	// Black market terms during lockdown.
	BlackMarketBuyModifier     float64 `json:"black_market_buy_modifier"`
	BlackMarketSellModifier    float64 `json:"black_market_sell_modifier"`
	BlackMarketDetectionChance float64 `json:"black_market_detection_chance"`

	// How many hyperlink hops effects cascade outward.
	CascadeRadius int `json:"cascade_radius"`
}

// DefaultConfig returns the baseline economic tuning.
func DefaultConfig() Config {
	return Config{
		BoomRecoveryDays:     14,
		BustRecoveryDays:     14,
		ShortageRecoveryDays: 7,
		SurplusRecoveryDays:  7,
		LockdownRecoveryDays: 21,

		MerchantLossThreshold: 10,
		RaiderLossThreshold:   20,
		TradeVolumeThreshold:  5000,
		SmugglingThreshold:    50,
		BulkTradeThreshold:    500,

		BoomBuyModifier:  0.90,
		BoomSellModifier: 1.10,
		BustBuyModifier:  1.10,
		BustSellModifier: 0.90,
		ShortageModifier: 1.50,
		SurplusModifier:  0.70,

		BlackMarketBuyModifier:     1.50,
		BlackMarketSellModifier:    0.60,
		BlackMarketDetectionChance: 0.15,

		CascadeRadius: 2,
	}
}

// Normalize clamps invalid values instead of rejecting them: recovery
// day counts and thresholds must be at least 1, the cascade radius at
// least 0.
func (c *Config) Normalize() {
	clampMin := func(v *int, min int) {
		if *v < min {
			*v = min
		}
	}
	clampMin(&c.BoomRecoveryDays, 1)
	clampMin(&c.BustRecoveryDays, 1)
	clampMin(&c.ShortageRecoveryDays, 1)
	clampMin(&c.SurplusRecoveryDays, 1)
	clampMin(&c.LockdownRecoveryDays, 1)
	clampMin(&c.MerchantLossThreshold, 1)
	clampMin(&c.RaiderLossThreshold, 1)
	clampMin(&c.TradeVolumeThreshold, 1)
	clampMin(&c.SmugglingThreshold, 1)
	clampMin(&c.BulkTradeThreshold, 1)
	clampMin(&c.CascadeRadius, 0)
}
