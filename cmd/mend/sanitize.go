package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mend-ai/mend/internal/llm"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [file]",
	Short: "Apply lightweight cleanup to model output",
	Long: `Reads model output from a file or stdin and prints it with trailing
filler, ellipsis runs, and an unbalanced leading brace or bracket cleaned
up. No structural JSON repair is attempted; use 'mend repair' for that.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSanitize,
}

func runSanitize(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), llm.SanitizeResponse(input))
	return nil
}
