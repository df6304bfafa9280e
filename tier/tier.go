package tier

import "strings"

// Certificate tier labels, lowest to highest
const (
	Basic   = "BASIC"
	Premium = "PREMIUM"
	Elite   = "ELITE"
)

// legacy template codes kept in old course/certificate rows
var legacyAliases = map[string]string{
	"L3": Basic,
	"L2": Premium,
	"L1": Elite,
}

var ordinals = map[string]int{
	Basic:   0,
	Premium: 1,
	Elite:   2,
}

var labels = [...]string{Basic, Premium, Elite}

// planBands groups plan names into tier bands. Unknown plans fall back to Basic.
var planBands = map[string]string{
	"":                Basic,
	"free":            Basic,
	"trial":           Basic,
	"plus":            Premium,
	"pro":             Premium,
	"premium":         Premium,
	"premium_monthly": Premium,
	"premium_yearly":  Premium,
	"elite":           Elite,
	"elite_monthly":   Elite,
	"elite_yearly":    Elite,
	"lifetime":        Elite,
	"enterprise":      Elite,
}

// Normalize maps a stored tier value (new label or legacy L1/L2/L3 code) to a
// canonical label. Unknown values normalize to Basic.
func Normalize(t string) string {
	v := strings.ToUpper(strings.TrimSpace(t))
	if alias, ok := legacyAliases[v]; ok {
		return alias
	}
	if _, ok := ordinals[v]; ok {
		return v
	}
	return Basic
}

// Ordinal returns the rank of a tier label (0 lowest)
func Ordinal(t string) int {
	return ordinals[Normalize(t)]
}

// FromPlan maps a user's plan name to the tier their subscription entitles
func FromPlan(plan string) string {
	if band, ok := planBands[strings.ToLower(strings.TrimSpace(plan))]; ok {
		return band
	}
	return Basic
}

// Effective resolves the certificate tier for a user plan and a course tier.
// A user never receives a higher tier than either their plan or the course allows.
func Effective(plan, courseTier string) string {
	userOrd := Ordinal(FromPlan(plan))
	courseOrd := Ordinal(courseTier)
	if userOrd < courseOrd {
		return labels[userOrd]
	}
	return labels[courseOrd]
}
