package pagination

import "fmt"

// Strategy is the pagination idiom detected on the first page.
type Strategy int

const (
	// StrategyExhausted means the first page is the only page.
	StrategyExhausted Strategy = iota

	// StrategyLinkChain follows rel="next" links one page at a time.
	StrategyLinkChain

	// StrategyNumericRange fetches pages 2..LastPage concurrently.
	StrategyNumericRange
)

// String returns the strategy name used in logs and metrics.
func (s Strategy) String() string {
	switch s {
	case StrategyExhausted:
		return "exhausted"
	case StrategyLinkChain:
		return "link_chain"
	case StrategyNumericRange:
		return "numeric_range"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// State is the outcome of Resolve. NextURL is set for StrategyLinkChain,
// LastPage for StrategyNumericRange.
type State struct {
	Strategy Strategy
	NextURL  string
	LastPage int
}
