package bot

import (
	"time"
)

// BotConfig represents the runtime settings of the update loop
type BotConfig struct {
	// Long polling timeout in seconds
	UpdateTimeout int
	// Upper bound for handling one update, external calls included
	HandleTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout: 60,
		HandleTimeout: 30 * time.Second,
	}
}
