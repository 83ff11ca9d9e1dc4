package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"simplynourished/internal/plan"
)

// planFlags maps command-line flags onto raw form fields. Flags the user
// did not set are left out so they are reported as missing input.
type planFlags struct {
	values map[string]*string
}

var planFlagFields = []struct {
	flag  string
	field string
	usage string
}{
	{"weight", plan.FieldWeightLbs, "Current weight in pounds"},
	{"height-ft", plan.FieldHeightFt, "Height, whole feet"},
	{"height-in", plan.FieldHeightInPartial, "Height, remaining inches (0-11)"},
	{"age", plan.FieldAge, "Age in years"},
	{"gender", plan.FieldGender, strings.Join(plan.Genders, " or ")},
	{"goal", plan.FieldGoalWeightLbs, "Goal weight in pounds"},
}

func bindPlanFlags(c *cobra.Command) *planFlags {
	pf := &planFlags{values: make(map[string]*string, len(planFlagFields))}
	for _, f := range planFlagFields {
		pf.values[f.flag] = c.Flags().String(f.flag, "", f.usage)
	}
	return pf
}

func (pf *planFlags) fields(c *cobra.Command) map[string]string {
	fields := make(map[string]string, len(planFlagFields))
	for _, f := range planFlagFields {
		if c.Flags().Changed(f.flag) {
			fields[f.field] = *pf.values[f.flag]
		}
	}
	return fields
}
