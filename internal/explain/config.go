package explain

import "time"

// Config holds explanation drafting settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// Timeout bounds one drafting request.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for explanation drafting.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.3,
		Timeout:     45 * time.Second,
	}
}
