package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mend-ai/mend/internal/jsonrepair"
)

var repairCompact bool

var repairCmd = &cobra.Command{
	Use:   "repair [file]",
	Short: "Recover structured JSON from malformed model output",
	Long: `Reads malformed model output from a file or stdin, runs the repair
pipeline, and prints the recovered JSON. Exits non-zero when nothing
recoverable is found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepair,
}

func runRepair(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	value, err := jsonrepair.Decode(input)
	if err != nil {
		return err
	}

	var out []byte
	if repairCompact {
		out, err = json.Marshal(value)
	} else {
		out, err = json.MarshalIndent(value, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode recovered value: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// readInput reads the whole input from the file argument, or stdin when no
// argument is given.
func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func init() {
	repairCmd.Flags().BoolVar(&repairCompact, "compact", false, "Print compact JSON instead of indented")
}
