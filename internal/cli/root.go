// Package cli implements nourishctl, a terminal front end for the plan
// calculator and the meal suggestion fetch.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "nourishctl",
		Short:        "Diet plan and meal suggestion tool",
		SilenceUsage: true,
	}
	cmd.AddCommand(planCmd())
	cmd.AddCommand(mealsCmd())
	cmd.AddCommand(recipesCmd())
	return cmd
}
