package domain

type RuleKind string

const (
	RuleDaily   RuleKind = "daily"
	RuleWeekly  RuleKind = "weekly"
	RuleMonthly RuleKind = "monthly"
	RuleYearly  RuleKind = "yearly"
)

// ValidRuleKinds is the canonical set of accepted rule kind strings.
var ValidRuleKinds = map[string]bool{
	"daily": true, "weekly": true, "monthly": true, "yearly": true,
}

// Unit returns the interval unit for the kind ("day", "week", ...).
func (k RuleKind) Unit() string {
	switch k {
	case RuleDaily:
		return "day"
	case RuleWeekly:
		return "week"
	case RuleMonthly:
		return "month"
	case RuleYearly:
		return "year"
	default:
		return string(k)
	}
}

type PlanStatus string

const (
	PlanOpen      PlanStatus = "open"
	PlanCompleted PlanStatus = "completed"
)
