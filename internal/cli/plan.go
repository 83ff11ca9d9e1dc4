package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"simplynourished/internal/plan"
)

type planOutput struct {
	Profile plan.UserProfile `json:"user_data"`
	plan.Result
}

func planCmd() *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "plan",
		Short: "Compute BMI and daily calorie and protein targets",
		Args:  cobra.NoArgs,
	}
	flags := bindPlanFlags(c)
	c.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")

	c.RunE = func(cmd *cobra.Command, _ []string) error {
		profile, result, err := plan.ComputeFromForm(flags.fields(cmd))
		if err != nil {
			if msg := plan.UserMessage(err); msg != "" {
				return errors.New(msg)
			}
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(planOutput{Profile: profile, Result: result})
		}
		fmt.Fprintf(out, "BMI: %.1f\n", result.BMI)
		fmt.Fprintf(out, "Daily calories: %d kcal\n", result.DailyCalories)
		fmt.Fprintf(out, "Daily protein: %d g\n", result.DailyProtein)
		return nil
	}
	return c
}
