package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"BASIC":    Basic,
		"premium":  Premium,
		" Elite ":  Elite,
		"L1":       Elite,
		"l2":       Premium,
		"L3":       Basic,
		"":         Basic,
		"platinum": Basic, // unknown values fall back to the lowest tier
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestFromPlan(t *testing.T) {
	cases := map[string]string{
		"free":            Basic,
		"trial":           Basic,
		"plus":            Premium,
		"pro":             Premium,
		"premium_monthly": Premium,
		"Premium_Yearly":  Premium,
		"elite":           Elite,
		"lifetime":        Elite,
		"enterprise":      Elite,
		"":                Basic,
		"mystery_plan":    Basic,
	}
	for plan, want := range cases {
		assert.Equal(t, want, FromPlan(plan), "FromPlan(%q)", plan)
	}
}

func TestEffectiveIsMinOfPlanAndCourse(t *testing.T) {
	// All nine plan-band x course-tier combinations
	cases := []struct {
		plan       string
		courseTier string
		want       string
	}{
		{"free", Basic, Basic},
		{"free", Premium, Basic},
		{"free", Elite, Basic},
		{"pro", Basic, Basic},
		{"pro", Premium, Premium},
		{"pro", Elite, Premium},
		{"elite", Basic, Basic},
		{"elite", Premium, Premium},
		{"elite", Elite, Elite},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Effective(tc.plan, tc.courseTier),
			"Effective(%q, %q)", tc.plan, tc.courseTier)
	}
}

func TestEffectiveAcceptsLegacyCourseTiers(t *testing.T) {
	assert.Equal(t, Premium, Effective("elite", "L2"))
	assert.Equal(t, Basic, Effective("premium_monthly", "l3"))
	assert.Equal(t, Elite, Effective("lifetime", "L1"))
}

func TestEffectiveProperties(t *testing.T) {
	plans := []string{"", "free", "trial", "plus", "pro", "premium", "premium_monthly",
		"premium_yearly", "elite", "elite_monthly", "elite_yearly", "lifetime", "enterprise", "garbage"}
	tiers := []string{Basic, Premium, Elite, "L1", "L2", "L3", "", "bogus"}

	rapid.Check(t, func(t *rapid.T) {
		plan := rapid.SampledFrom(plans).Draw(t, "plan")
		courseTier := rapid.SampledFrom(tiers).Draw(t, "courseTier")

		got := Effective(plan, courseTier)

		// Result is a canonical label
		assert.Equal(t, got, Normalize(got))

		// Never above what either side allows
		assert.LessOrEqual(t, Ordinal(got), Ordinal(FromPlan(plan)))
		assert.LessOrEqual(t, Ordinal(got), Ordinal(courseTier))

		// And exactly the min, not something lower
		min := Ordinal(FromPlan(plan))
		if o := Ordinal(courseTier); o < min {
			min = o
		}
		assert.Equal(t, min, Ordinal(got))
	})
}
