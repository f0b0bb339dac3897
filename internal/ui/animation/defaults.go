package animation

import "time"

// Config contains animation timing and size values.
type Config struct {
	FrameInterval time.Duration
	MinScale      float32
	MaxScale      float32
}

// DefaultConfig returns roughly 30 frames per second between 55% and full size.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 33 * time.Millisecond,
		MinScale:      0.55,
		MaxScale:      1,
	}
}

func normalizeConfig(config Config) Config {
	defaults := DefaultConfig()
	if config.FrameInterval <= 0 {
		config.FrameInterval = defaults.FrameInterval
	}
	if config.MaxScale <= 0 {
		config.MaxScale = defaults.MaxScale
	}
	if config.MinScale <= 0 || config.MinScale > config.MaxScale {
		config.MinScale = defaults.MinScale * config.MaxScale
	}
	return config
}
