package gate

// Violation keys emitted by the gate.
const (
	KeyTimeBudget         = "time-budget"
	KeyAutomationCapacity = "automation-capacity"
	KeyNonPositiveLatency = "non-positive-latency"
	KeyNoActions          = "no-actions"
	KeyDependencyOverhead = "dependency-overhead"
	KeyUnschedulable      = "unschedulable"
	KeyInvalidVersion     = "invalid-version"
	KeyTotalTimeBudget    = "total-time-budget"
	KeyStepCount          = "step-count"
	KeyRiskCap            = "risk-cap"
)

// riskCapMinutes is the severity-weighted duration above which a blueprint
// gets a risk cap note.
const riskCapMinutes = 60
