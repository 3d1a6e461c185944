package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"coinlens/internal/indicator"
)

// Config represents the application configuration.
type Config struct {
	Binance     BinanceConfig    `yaml:"binance"`
	Groq        GroqConfig       `yaml:"groq"`
	Peer        PeerConfig       `yaml:"peer"`
	Coins       []CoinConfig     `yaml:"coins"`
	Assumptions Assumptions      `yaml:"assumptions"`
	Indicators  indicator.Params `yaml:"indicators"`
}

// BinanceConfig holds market-data API settings.
type BinanceConfig struct {
	BaseURL   string        `yaml:"base_url"`
	RateLimit int           `yaml:"rate_limit"` // requests per minute
	Timeout   time.Duration `yaml:"timeout"`
}

// GroqConfig holds the LLM summarizer settings. The key always comes from
// the environment when set.
type GroqConfig struct {
	Key       string `yaml:"key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

// PeerConfig bounds the cross-asset comparison run.
type PeerConfig struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
}

// CoinConfig is one supported asset: the short name users type, the
// exchange trading symbol, and the circulating supply used by valuation
// metrics. Declaration order fixes peer column order.
type CoinConfig struct {
	Name   string  `yaml:"name"`
	Symbol string  `yaml:"symbol"`
	Supply float64 `yaml:"supply"`
}

// Assumptions are the valuation constants consumed by the indicator
// catalog. They are configuration, never derived from market data.
type Assumptions struct {
	RiskFreeRate      float64 `yaml:"risk_free_rate"`
	StakingAPY        float64 `yaml:"staking_apy"`
	DiscountRate      float64 `yaml:"discount_rate"`
	GrowthRate        float64 `yaml:"growth_rate"`
	DCFDiscountRate   float64 `yaml:"dcf_discount_rate"`
	DCFGrowthRate     float64 `yaml:"dcf_growth_rate"`
	HorizonYears      int     `yaml:"horizon_years"`
	RegulatoryHaircut float64 `yaml:"regulatory_haircut"`
	Beta              float64 `yaml:"beta"`
	MarketRiskPremium float64 `yaml:"market_risk_premium"`
	CAGRYears         float64 `yaml:"cagr_years"`
}

// Indicator converts the configured assumptions into the catalog's
// parameter struct. Supply stays zero here; it is asset-specific.
func (a Assumptions) Indicator() indicator.Assumptions {
	return indicator.Assumptions{
		RiskFreeRate:      a.RiskFreeRate,
		StakingAPY:        a.StakingAPY,
		DiscountRate:      a.DiscountRate,
		GrowthRate:        a.GrowthRate,
		DCFDiscountRate:   a.DCFDiscountRate,
		DCFGrowthRate:     a.DCFGrowthRate,
		HorizonYears:      a.HorizonYears,
		RegulatoryHaircut: a.RegulatoryHaircut,
		Beta:              a.Beta,
		MarketRiskPremium: a.MarketRiskPremium,
		CAGRYears:         a.CAGRYears,
	}
}

// DefaultConfig returns the default configuration. Supplies are
// approximate circulating amounts and should be refreshed periodically.
func DefaultConfig() *Config {
	def := indicator.DefaultAssumptions()
	return &Config{
		Binance: BinanceConfig{
			BaseURL:   "https://api.binance.com/api/v3",
			RateLimit: 60,
			Timeout:   30 * time.Second,
		},
		Groq: GroqConfig{
			Key:       os.Getenv("GROQ_API_KEY"),
			Model:     "llama-3.3-70b-versatile",
			BaseURL:   "https://api.groq.com/openai/v1",
			MaxTokens: 1024,
		},
		Peer: PeerConfig{
			Workers: 4,
			Timeout: 2 * time.Minute,
		},
		Coins: []CoinConfig{
			{Name: "BTC", Symbol: "BTCUSDT", Supply: 19700000},
			{Name: "ETH", Symbol: "ETHUSDT", Supply: 120000000},
			{Name: "AAVE", Symbol: "AAVEUSDT", Supply: 16000000},
			{Name: "SOL", Symbol: "SOLUSDT", Supply: 500000000},
			{Name: "BNB", Symbol: "BNBUSDT", Supply: 150000000},
			{Name: "UNI", Symbol: "UNIUSDT", Supply: 600000000},
			{Name: "LINK", Symbol: "LINKUSDT", Supply: 500000000},
		},
		Assumptions: Assumptions{
			RiskFreeRate:      def.RiskFreeRate,
			StakingAPY:        def.StakingAPY,
			DiscountRate:      def.DiscountRate,
			GrowthRate:        def.GrowthRate,
			DCFDiscountRate:   def.DCFDiscountRate,
			DCFGrowthRate:     def.DCFGrowthRate,
			HorizonYears:      def.HorizonYears,
			RegulatoryHaircut: def.RegulatoryHaircut,
			Beta:              def.Beta,
			MarketRiskPremium: def.MarketRiskPremium,
			CAGRYears:         def.CAGRYears,
		},
		Indicators: indicator.DefaultParams(),
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Environment wins over the file for the secret.
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.Groq.Key = key
	}

	return cfg, nil
}

// FindCoin resolves a user-supplied coin name or trading symbol.
func (c *Config) FindCoin(name string) (CoinConfig, bool) {
	for _, coin := range c.Coins {
		if coin.Name == name || coin.Symbol == name {
			return coin, true
		}
	}
	return CoinConfig{}, false
}

// CoinNames returns the supported coin names in declaration order.
func (c *Config) CoinNames() []string {
	names := make([]string, len(c.Coins))
	for i, coin := range c.Coins {
		names[i] = coin.Name
	}
	return names
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Coins) == 0 {
		return fmt.Errorf("at least one coin must be configured")
	}
	for _, coin := range c.Coins {
		if coin.Symbol == "" {
			return fmt.Errorf("coin %q has no trading symbol", coin.Name)
		}
		if coin.Supply <= 0 {
			return fmt.Errorf("coin %q has non-positive supply", coin.Name)
		}
	}
	if c.Peer.Workers < 1 {
		return fmt.Errorf("peer workers must be at least 1")
	}
	if c.Binance.RateLimit < 1 {
		return fmt.Errorf("binance rate_limit must be at least 1")
	}
	return nil
}
