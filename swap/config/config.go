package config

// Config holds numeric guard rails for valuation.
type Config struct {
	// DerivativeThreshold is the minimum annuity magnitude (per unit rate)
	// below which fair rate / fair spread are treated as undefined.
	DerivativeThreshold float64

	// MinDiscountFactor is the floor for discount factors to prevent
	// numerical instability (division by near-zero).
	MinDiscountFactor float64
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	DerivativeThreshold: 1e-15,
	MinDiscountFactor:   1e-9,
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
