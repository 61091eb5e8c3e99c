package config

import "time"

// TickConfig holds the world clock configuration
type TickConfig struct {
	// Interval between ticks
	Interval time.Duration `mapstructure:"interval" validate:"required"`

	// Per-attempt timeout for webhook deliveries
	WebhookTimeout time.Duration `mapstructure:"webhook_timeout"`

	// Events drained per webhook per wake
	WebhookBatch int `mapstructure:"webhook_batch" validate:"min=1"`
}

// TicksPerDay derives how many ticks make a day at the configured
// interval; at least 1 so tick arithmetic never divides by zero.
func (c TickConfig) TicksPerDay() int64 {
	if c.Interval <= 0 {
		return 1
	}
	ticks := int64(24 * time.Hour / c.Interval)
	if ticks < 1 {
		return 1
	}
	return ticks
}

// SeasonConfig holds season progression configuration
type SeasonConfig struct {
	// Season length in weeks
	LengthWeeks int `mapstructure:"length_weeks" validate:"min=0"`
}

// LengthTicks converts the configured season length to ticks.
func (c SeasonConfig) LengthTicks(ticksPerDay int64) int64 {
	return int64(c.LengthWeeks) * 7 * ticksPerDay
}

// WorldConfig holds world generation configuration
type WorldConfig struct {
	// Seed makes generation reproducible; 0 derives one from the clock
	Seed int64 `mapstructure:"seed"`

	// Number of zones to generate
	ZoneCount int `mapstructure:"zone_count" validate:"min=8,max=200"`
}
