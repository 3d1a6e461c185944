// Package indicator implements the metric catalog: pure functions over a
// daily bar series, each evaluated at the most recent bar. Results use the
// model.Value sentinel type; a window longer than the available history is
// Undefined, a guarded zero denominator is Infinite, and neither is ever
// silently coerced to an ordinary number.
package indicator

// Params holds the lookback windows and spans of the windowed indicators.
// Zero values are not meaningful; start from DefaultParams and override.
type Params struct {
	SMAWindow       int     `yaml:"sma_window"`
	EMASpan         int     `yaml:"ema_span"`
	MACDFast        int     `yaml:"macd_fast"`
	MACDSlow        int     `yaml:"macd_slow"`
	MACDSignal      int     `yaml:"macd_signal"`
	RSIPeriod       int     `yaml:"rsi_period"`
	CMOPeriod       int     `yaml:"cmo_period"`
	StochPeriod     int     `yaml:"stoch_period"`
	WilliamsPeriod  int     `yaml:"williams_period"`
	ROCPeriod       int     `yaml:"roc_period"`
	MomentumPeriod  int     `yaml:"momentum_period"`
	ChannelWindow   int     `yaml:"channel_window"`
	BollingerWindow int     `yaml:"bollinger_window"`
	BollingerDev    float64 `yaml:"bollinger_dev"`
	ATRPeriod       int     `yaml:"atr_period"`
	VolumeOscShort  int     `yaml:"volume_osc_short"`
	VolumeOscLong   int     `yaml:"volume_osc_long"`
	MayerWindow     int     `yaml:"mayer_window"`
	AltVolumeWindow int     `yaml:"alt_volume_window"`
}

// DefaultParams returns the conventional parameterization.
func DefaultParams() Params {
	return Params{
		SMAWindow:       50,
		EMASpan:         20,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		RSIPeriod:       14,
		CMOPeriod:       14,
		StochPeriod:     14,
		WilliamsPeriod:  14,
		ROCPeriod:       14,
		MomentumPeriod:  10,
		ChannelWindow:   20,
		BollingerWindow: 20,
		BollingerDev:    2.0,
		ATRPeriod:       14,
		VolumeOscShort:  5,
		VolumeOscLong:   20,
		MayerWindow:     200,
		AltVolumeWindow: 30,
	}
}

// Assumptions carries the externally supplied valuation constants. None of
// these are derived from the series; they come from configuration so there
// is no process-wide mutable state.
type Assumptions struct {
	// Supply is the asset's circulating supply in base units.
	Supply float64
	// RiskFreeRate is annualized (e.g. 0.025 for 2.5%/yr).
	RiskFreeRate float64
	// StakingAPY is the assumed annual staking yield added to daily returns.
	StakingAPY float64
	// DiscountRate and GrowthRate drive the volume-based DEUV projection.
	DiscountRate float64
	GrowthRate   float64
	// DCFDiscountRate and DCFGrowthRate drive the price-based DCF.
	DCFDiscountRate float64
	DCFGrowthRate   float64
	// HorizonYears is the projection horizon for DEUV and price DCF.
	HorizonYears int
	// RegulatoryHaircut is the fractional discount applied for external risk.
	RegulatoryHaircut float64
	// Beta and MarketRiskPremium feed the risk-adjusted volume discount.
	Beta              float64
	MarketRiskPremium float64
	// CAGRYears is the period length for single-period growth rates.
	CAGRYears float64
}

// DefaultAssumptions returns the baseline rate assumptions. Supply is
// deliberately zero: it is asset-specific and must come from the caller.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		RiskFreeRate:      0.025,
		StakingAPY:        0.05,
		DiscountRate:      0.12,
		GrowthRate:        0.08,
		DCFDiscountRate:   0.15,
		DCFGrowthRate:     0.10,
		HorizonYears:      5,
		RegulatoryHaircut: 0.20,
		Beta:              1.4,
		MarketRiskPremium: 0.06,
		CAGRYears:         1,
	}
}

// tradingDaysPerYear annualizes daily return statistics. Crypto markets
// trade every day.
const tradingDaysPerYear = 365.0
