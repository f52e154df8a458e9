package extract

// Config controls the behavior of the extraction service.
type Config struct {
	// MaxTokens is the token budget for the LLM response. Extraction
	// output scales with paper length, so this is generous.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	// Extraction wants determinism.
	Temperature float64
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   16384,
		Temperature: 0.0,
	}
}
