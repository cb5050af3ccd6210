package domain

type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

type Strategy string

const (
	StrategyRejection Strategy = "rejection"
	StrategyFlow      Strategy = "flow"
)

// ValidStrategies is the canonical set of accepted strategy strings.
var ValidStrategies = map[string]bool{
	"rejection": true, "flow": true,
}
