package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"simplynourished/internal/meals"
)

func mealsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meals [file]",
		Short: "Extract breakfast, lunch and dinner lines from text (stdin when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			for _, line := range meals.Extract(string(raw)) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
