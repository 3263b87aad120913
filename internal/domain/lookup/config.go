package lookup

const (
	// DefaultThreshold is the lowest score accepted as a match.
	DefaultThreshold = 0.55
	// DefaultBonus rewards a query found verbatim inside a prompt.
	DefaultBonus = 0.1
)

// Config holds runtime knobs for answer lookup.
type Config struct {
	Threshold float64
	Bonus     float64
}

// DefaultConfig returns the stock matching parameters.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold, Bonus: DefaultBonus}
}
