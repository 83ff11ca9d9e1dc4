package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"simplynourished/internal/ai"
	"simplynourished/internal/config"
	"simplynourished/internal/session"
)

func recipesCmd() *cobra.Command {
	var provider string

	c := &cobra.Command{
		Use:   "recipes",
		Short: "Compute a plan and fetch three meal suggestions for it",
		Args:  cobra.NoArgs,
	}
	flags := bindPlanFlags(c)
	c.Flags().StringVar(&provider, "provider", "", "Override AI_PROVIDER (openai or mock)")

	c.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		if p := strings.ToLower(strings.TrimSpace(provider)); p != "" {
			cfg.AIProvider = p
		}
		if err := cfg.ValidateAI(); err != nil {
			return err
		}

		ctx := cmd.Context()
		sess := session.New(ctx, "cli", session.NewFetcher(ai.New(cfg), cfg))
		defer sess.Close()

		if st, err := sess.SubmitPlan(flags.fields(cmd)); err != nil {
			return stateError(st, err)
		}
		task, st, err := sess.FetchRecipes()
		if err != nil {
			return stateError(st, err)
		}
		if err := task.Wait(ctx); err != nil {
			return err
		}

		st = sess.Snapshot()
		if st.ErrorMessage != "" {
			return stateError(st, nil)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Targets: %d kcal, %d g protein\n", st.DailyCalories, st.DailyProtein)
		for _, r := range st.Recipes {
			fmt.Fprintln(out, r)
		}
		return nil
	}
	return c
}

// stateError prefers the message the session recorded for the user.
func stateError(st session.State, err error) error {
	if st.ErrorMessage != "" {
		return errors.New(st.ErrorMessage)
	}
	return err
}
